package swap

import (
	"context"

	"github.com/pkg/errors"

	"github.com/crossledger/crossledger/core"
)

// ChainReader is the subset of EVM chain access the unlocking party needs to
// assemble a submission. ethrpc.Client satisfies it.
type ChainReader interface {
	GetBlock(ctx context.Context, number uint64) (*core.BlockHeader, error)
	GetBlockReceipts(ctx context.Context, number uint64) ([]*core.TransactionReceipt, error)
}

// HeaderAttester gathers validator signatures over a block header.
// attestation.Collector satisfies it.
type HeaderAttester interface {
	Collect(ctx context.Context, header *core.BlockHeader) (*core.SignatureSet, error)
}

// BuildUnlockData assembles the unlock submission for the transaction at
// txIndex in the given block: it fetches the block and its receipts, rebuilds
// the receipts trie to derive the inclusion proof, and collects validator
// attestations over the header. The result is exactly what the swap's Unlock
// transition re-verifies, so a submission built here against honest chain data
// is guaranteed to pass verification.
func BuildUnlockData(ctx context.Context, chain ChainReader, attester HeaderAttester,
	blockNumber uint64, txIndex uint64) (*UnlockData, error) {
	header, err := chain.GetBlock(ctx, blockNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch block header")
	}
	receipts, err := chain.GetBlockReceipts(ctx, blockNumber)
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch block receipts")
	}

	var receipt *core.TransactionReceipt
	for _, r := range receipts {
		if r.TxIndex == txIndex {
			receipt = r
			break
		}
	}
	if receipt == nil {
		return nil, errors.Errorf("no receipt for transaction index %v in block %v", txIndex, blockNumber)
	}

	receiptTrie, err := core.ReceiptTrie(receipts)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build receipts trie")
	}
	proof, err := receiptTrie.Prove(core.ReceiptTrieKey(txIndex))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to prove inclusion of receipt %v", txIndex)
	}

	sigs, err := attester.Collect(ctx, header)
	if err != nil {
		return nil, errors.Wrap(err, "failed to collect validator attestations")
	}

	return &UnlockData{
		BlockNumber:   header.Number,
		ReceiptsRoot:  header.ReceiptHash,
		BlockReceipts: receipts,
		Receipt:       receipt,
		Proof:         proof,
		Signatures:    sigs,
	}, nil
}

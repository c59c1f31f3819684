package core

import (
	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/rlp"
	"github.com/crossledger/crossledger/trie"
)

// ReceiptTrieKey returns the trie key of a receipt: the RLP encoding of its
// big-endian transaction index.
func ReceiptTrieKey(txIndex uint64) common.Bytes {
	return rlp.EncodeUint(txIndex)
}

// ReceiptTrie builds the receipts trie for a block: each receipt keyed by its
// RLP-encoded transaction index, valued by its canonical encoding.
func ReceiptTrie(receipts []*TransactionReceipt) (*trie.Trie, error) {
	t := trie.New()
	for _, receipt := range receipts {
		enc, err := receipt.EncodedBytes()
		if err != nil {
			return nil, err
		}
		t.Update(ReceiptTrieKey(receipt.TxIndex), enc)
	}
	return t, nil
}

// CalculateReceiptRoot rebuilds the receipts trie and returns its root hash.
// The caller compares the result against the block header's claimed receipts
// root; a mismatch means the claimed block data is untrustworthy.
func CalculateReceiptRoot(receipts []*TransactionReceipt) (common.Hash, error) {
	t, err := ReceiptTrie(receipts)
	if err != nil {
		return common.Hash{}, err
	}
	return t.Hash(), nil
}

// VerifyInclusion reports whether the proof shows the receipt's canonical
// encoding stored under its transaction-index key in the trie with the given
// root.
func VerifyInclusion(root common.Hash, receipt *TransactionReceipt, proof *trie.Proof) bool {
	enc, err := receipt.EncodedBytes()
	if err != nil {
		return false
	}
	return trie.VerifyProof(root, ReceiptTrieKey(receipt.TxIndex), enc, proof)
}

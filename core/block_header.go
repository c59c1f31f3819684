package core

import (
	"fmt"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

// BlockHeader is the subset of an EVM block header the swap protocol relies
// on. Immutable, identified by block number.
type BlockHeader struct {
	Number      uint64      `json:"number"`
	ReceiptHash common.Hash `json:"receiptsRoot"`
}

// NewBlockHeader creates a block header.
func NewBlockHeader(number uint64, receiptHash common.Hash) *BlockHeader {
	return &BlockHeader{Number: number, ReceiptHash: receiptHash}
}

// SignBytes returns the canonical encoding of {block number, receipts root}
// that validators sign when attesting to the header.
func (h *BlockHeader) SignBytes() common.Bytes {
	raw, _ := rlp.EncodeToBytes([]interface{}{h.Number, h.ReceiptHash.Bytes()})
	return raw
}

// Hash returns the hash identifying the header within this protocol.
func (h *BlockHeader) Hash() common.Hash {
	return crypto.Keccak256Hash(h.SignBytes())
}

func (h *BlockHeader) String() string {
	if h == nil {
		return "nil"
	}
	return fmt.Sprintf("BlockHeader{Number: %v, ReceiptHash: %v}", h.Number, h.ReceiptHash.Hex())
}

package core

import (
	"fmt"
	"io"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

const (
	// ReceiptStatusFailed is the status of a receipt whose transaction failed.
	ReceiptStatusFailed = uint64(0)
	// ReceiptStatusSuccessful is the status of a receipt whose transaction succeeded.
	ReceiptStatusSuccessful = uint64(1)

	// BloomByteLength is the number of bytes in a block or receipt log bloom.
	BloomByteLength = 256
)

// Bloom represents a 2048-bit bloom filter over a receipt's logs.
type Bloom [BloomByteLength]byte

// CreateBloom creates the bloom filter for the given logs, setting three bits
// per log address and per topic.
func CreateBloom(logs []*Log) Bloom {
	var b Bloom
	for _, log := range logs {
		b.add(log.Address.Bytes())
		for _, topic := range log.Topics {
			b.add(topic.Bytes())
		}
	}
	return b
}

func (b *Bloom) add(data []byte) {
	h := crypto.Keccak256(data)
	for i := 0; i < 6; i += 2 {
		bit := (uint(h[i])<<8 | uint(h[i+1])) & 0x7ff
		b[BloomByteLength-1-bit/8] |= 1 << (bit % 8)
	}
}

// Bytes returns the byte representation of the bloom filter.
func (b Bloom) Bytes() []byte {
	return b[:]
}

// Log represents a log entry emitted by a ledger-B contract.
type Log struct {
	Address common.Address `json:"address"`
	Topics  []common.Hash  `json:"topics"`
	Data    common.Bytes   `json:"data"`
}

func (l *Log) String() string {
	return fmt.Sprintf("Log{Address: %v, Topics: %v, Data: %v}", l.Address, l.Topics, l.Data)
}

// rlpItems returns the log's canonical [address, topics, data] structure.
func (l *Log) rlpItems() []interface{} {
	topics := make([]interface{}, len(l.Topics))
	for i, t := range l.Topics {
		topics[i] = t.Bytes()
	}
	return []interface{}{l.Address.Bytes(), topics, []byte(l.Data)}
}

// TransactionReceipt is the outcome of a ledger-B transaction. Immutable once
// fetched.
type TransactionReceipt struct {
	Status            uint64 `json:"status"`
	CumulativeGasUsed uint64 `json:"cumulativeGasUsed"`
	Bloom             Bloom  `json:"logsBloom"`
	Logs              []*Log `json:"logs"`
	TxIndex           uint64 `json:"transactionIndex"`
	GasUsed           uint64 `json:"gasUsed"`
}

var _ rlp.Encoder = (*TransactionReceipt)(nil)

// EncodeRLP writes the receipt's canonical consensus encoding:
// [status, cumulativeGasUsed, logsBloom, logs]. The transaction index and gas
// used are positional metadata and not part of the consensus encoding.
func (r *TransactionReceipt) EncodeRLP(w io.Writer) error {
	logs := make([]interface{}, len(r.Logs))
	for i, log := range r.Logs {
		logs[i] = log.rlpItems()
	}
	enc, err := rlp.EncodeToBytes([]interface{}{
		r.Status,
		r.CumulativeGasUsed,
		r.Bloom.Bytes(),
		logs,
	})
	if err != nil {
		return err
	}
	_, err = w.Write(enc)
	return err
}

// EncodedBytes returns the receipt's canonical consensus encoding as stored
// in the receipts trie.
func (r *TransactionReceipt) EncodedBytes() (common.Bytes, error) {
	return rlp.EncodeToBytes(r)
}

func (r *TransactionReceipt) String() string {
	return fmt.Sprintf("TransactionReceipt{Status: %v, TxIndex: %v, GasUsed: %v, Logs: %v}",
		r.Status, r.TxIndex, r.GasUsed, r.Logs)
}

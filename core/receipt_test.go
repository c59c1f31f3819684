package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

func makeLog(addr common.Address, signature string, topicVals ...common.Bytes) *Log {
	topics := []common.Hash{crypto.Keccak256Hash([]byte(signature))}
	for _, v := range topicVals {
		topics = append(topics, common.BytesToHash(v))
	}
	return &Log{Address: addr, Topics: topics, Data: common.Bytes{}}
}

func makeReceipt(txIndex uint64, status uint64, logs ...*Log) *TransactionReceipt {
	return &TransactionReceipt{
		Status:            status,
		CumulativeGasUsed: 21000 * (txIndex + 1),
		Bloom:             CreateBloom(logs),
		Logs:              logs,
		TxIndex:           txIndex,
		GasUsed:           21000,
	}
}

func TestCreateBloom(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(Bloom{}, CreateBloom(nil))

	addr := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	log := makeLog(addr, "Transfer(address,address,uint256)", AddressValue(addr))
	bloom := CreateBloom([]*Log{log})
	assert.NotEqual(Bloom{}, bloom)
	assert.Equal(bloom, CreateBloom([]*Log{log}))

	// Three bits per element, so one log with two topics sets at most 9 bits.
	bits := 0
	for _, b := range bloom {
		for ; b != 0; b &= b - 1 {
			bits++
		}
	}
	assert.True(bits > 0 && bits <= 9)

	// The address alone must be a subset of the full bloom.
	addrOnly := CreateBloom([]*Log{{Address: addr}})
	for i := range bloom {
		assert.Equal(addrOnly[i], addrOnly[i]&bloom[i])
	}
}

func TestReceiptConsensusEncoding(t *testing.T) {
	assert := assert.New(t)

	addr := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	log := makeLog(addr, "Unlocked(bytes32)", common.Bytes("swap-1"))
	receipt := makeReceipt(3, ReceiptStatusSuccessful, log)

	enc, err := receipt.EncodedBytes()
	assert.Nil(err)

	// [status, cumulativeGasUsed, bloom, logs]; tx index and gas used are not
	// part of the consensus encoding.
	item, err := rlp.Decode(enc)
	assert.Nil(err)
	assert.Equal(rlp.List, item.Kind)
	assert.Equal(4, len(item.Items))
	assert.Equal([]byte{0x01}, item.Items[0].Str)
	assert.Equal(BloomByteLength, len(item.Items[2].Str))
	assert.Equal(rlp.List, item.Items[3].Kind)
	assert.Equal(1, len(item.Items[3].Items))

	// [address, topics, data]
	logItem := item.Items[3].Items[0]
	assert.Equal(3, len(logItem.Items))
	assert.Equal(addr.Bytes(), logItem.Items[0].Str)
	assert.Equal(2, len(logItem.Items[1].Items))

	other := makeReceipt(7, ReceiptStatusSuccessful, log)
	other.CumulativeGasUsed = receipt.CumulativeGasUsed
	otherEnc, err := other.EncodedBytes()
	assert.Nil(err)
	assert.Equal(enc, otherEnc)

	failed := makeReceipt(3, ReceiptStatusFailed, log)
	failedEnc, err := failed.EncodedBytes()
	assert.Nil(err)
	assert.NotEqual(enc, failedEnc)
}

func TestReceiptTrieKey(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(common.Bytes{0x80}, ReceiptTrieKey(0))
	assert.Equal(common.Bytes{0x01}, ReceiptTrieKey(1))
	assert.Equal(common.Bytes{0x7f}, ReceiptTrieKey(127))
	assert.Equal(common.Bytes{0x81, 0x80}, ReceiptTrieKey(128))
	assert.Equal(common.Bytes{0x82, 0x01, 0x00}, ReceiptTrieKey(256))
}

func TestReceiptRootAndInclusion(t *testing.T) {
	assert := assert.New(t)

	addr := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	receipts := []*TransactionReceipt{
		makeReceipt(0, ReceiptStatusSuccessful, makeLog(addr, "Locked(bytes32)", common.Bytes("swap-1"))),
		makeReceipt(1, ReceiptStatusSuccessful, makeLog(addr, "Unlocked(bytes32)", common.Bytes("swap-1"))),
		makeReceipt(2, ReceiptStatusFailed),
	}

	root, err := CalculateReceiptRoot(receipts)
	assert.Nil(err)
	assert.NotEqual(common.Hash{}, root)

	// The root depends only on the receipt set.
	root2, err := CalculateReceiptRoot([]*TransactionReceipt{receipts[2], receipts[0], receipts[1]})
	assert.Nil(err)
	assert.Equal(root, root2)

	trie, err := ReceiptTrie(receipts)
	assert.Nil(err)
	for _, receipt := range receipts {
		proof, err := trie.Prove(ReceiptTrieKey(receipt.TxIndex))
		assert.Nil(err)
		assert.True(VerifyInclusion(root, receipt, proof))
	}

	// A receipt the proof was not built for fails verification.
	proof, err := trie.Prove(ReceiptTrieKey(1))
	assert.Nil(err)
	tampered := makeReceipt(1, ReceiptStatusFailed, receipts[1].Logs...)
	assert.False(VerifyInclusion(root, tampered, proof))
	assert.False(VerifyInclusion(root, receipts[0], proof))
}

func TestReceiptRootChangesWithContents(t *testing.T) {
	assert := assert.New(t)

	addr := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	a := []*TransactionReceipt{makeReceipt(0, ReceiptStatusSuccessful,
		makeLog(addr, "Unlocked(bytes32)", common.Bytes("swap-1")))}
	b := []*TransactionReceipt{makeReceipt(0, ReceiptStatusSuccessful,
		makeLog(addr, "Unlocked(bytes32)", common.Bytes("swap-2")))}

	rootA, err := CalculateReceiptRoot(a)
	assert.Nil(err)
	rootB, err := CalculateReceiptRoot(b)
	assert.Nil(err)
	assert.NotEqual(rootA, rootB)
}

func TestUintValue(t *testing.T) {
	assert := assert.New(t)

	v := UintValue(big.NewInt(1024))
	assert.Equal(32, len(v))
	assert.Equal(byte(0x04), v[30])
	assert.Equal(byte(0x00), v[31])
	assert.Equal(common.Bytes(make([]byte, 32)), UintValue(big.NewInt(0)))
}

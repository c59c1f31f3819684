package core

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
)

func TestEventPatternEncode(t *testing.T) {
	assert := assert.New(t)

	contract := common.HexToAddress("0x5aeda56215b167893e80b4fe645ba6d5bab767de")
	recipient := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	pattern := NewEventPattern(contract, "Unlocked(address,uint256)",
		IndexedParam(AddressValue(recipient)),
		PlainParam(UintValue(big.NewInt(42))),
	)

	encoded := pattern.Encode()
	assert.Equal(contract, encoded.Address)
	assert.Equal(2, len(encoded.Topics))
	assert.Equal(crypto.Keccak256Hash([]byte("Unlocked(address,uint256)")), encoded.Topics[0])
	assert.Equal(common.BytesToHash(recipient.Bytes()), encoded.Topics[1])
	assert.Equal(32, len(encoded.Data))
	assert.Equal(byte(42), encoded.Data[31])
}

func TestEventPatternLongIndexedValue(t *testing.T) {
	assert := assert.New(t)

	// Indexed values longer than a slot are represented by their hash.
	long := common.Bytes("a dynamic value longer than thirty-two bytes")
	pattern := NewEventPattern(common.Address{0x01}, "Tagged(string)", IndexedParam(long))
	encoded := pattern.Encode()
	assert.Equal(crypto.Keccak256Hash(long), encoded.Topics[1])

	// Plain values longer than a slot pass through unpadded.
	pattern = NewEventPattern(common.Address{0x01}, "Tagged(string)", PlainParam(long))
	encoded = pattern.Encode()
	assert.Equal(long, encoded.Data)
}

func TestEventPatternMatches(t *testing.T) {
	assert := assert.New(t)

	contract := common.HexToAddress("0x5aeda56215b167893e80b4fe645ba6d5bab767de")
	recipient := common.HexToAddress("0x7e5f4552091a69125d5dfcb7b8c2659029395bdf")
	pattern := NewEventPattern(contract, "Unlocked(address,uint256)",
		IndexedParam(AddressValue(recipient)),
		PlainParam(UintValue(big.NewInt(42))),
	)

	encoded := pattern.Encode()
	log := &Log{Address: encoded.Address, Topics: encoded.Topics, Data: encoded.Data}
	assert.True(pattern.Matches(log))

	// Any deviation breaks the match: exact matching only.
	assert.False(pattern.Matches(nil))
	assert.False(pattern.Matches(&Log{Address: common.Address{0xff}, Topics: log.Topics, Data: log.Data}))
	assert.False(pattern.Matches(&Log{Address: log.Address, Topics: log.Topics[:1], Data: log.Data}))
	assert.False(pattern.Matches(&Log{Address: log.Address, Topics: log.Topics, Data: UintValue(big.NewInt(43))}))

	wrongTopic := append([]common.Hash{}, log.Topics...)
	wrongTopic[1] = crypto.Keccak256Hash([]byte("other"))
	assert.False(pattern.Matches(&Log{Address: log.Address, Topics: wrongTopic, Data: log.Data}))

	extraTopic := append(append([]common.Hash{}, log.Topics...), common.Hash{})
	assert.False(pattern.Matches(&Log{Address: log.Address, Topics: extraTopic, Data: log.Data}))
}

func TestEventPatternIsEmpty(t *testing.T) {
	assert := assert.New(t)

	assert.True(EventPattern{}.IsEmpty())
	assert.False(NewEventPattern(common.Address{0x01}, "Unlocked()").IsEmpty())
	assert.False(NewEventPattern(common.Address{}, "Unlocked()").IsEmpty())
}

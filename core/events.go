package core

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
)

// EventParamKind tags a parameter of an event pattern as indexed (matched via
// a log topic) or plain (matched via the log's data payload).
type EventParamKind int

const (
	ParamIndexed EventParamKind = iota
	ParamPlain
)

// EventParam is one parameter of an event pattern with a concrete expected
// value in its canonical encoding.
type EventParam struct {
	Kind  EventParamKind `json:"kind"`
	Value common.Bytes   `json:"value"`
}

// IndexedParam tags a canonical value as an indexed parameter.
func IndexedParam(value common.Bytes) EventParam {
	return EventParam{Kind: ParamIndexed, Value: value}
}

// PlainParam tags a canonical value as a plain (non-indexed) parameter.
func PlainParam(value common.Bytes) EventParam {
	return EventParam{Kind: ParamPlain, Value: value}
}

// AddressValue returns the canonical 32-byte right-aligned encoding of an
// address parameter.
func AddressValue(a common.Address) common.Bytes {
	return common.BytesToHash(a.Bytes()).Bytes()
}

// UintValue returns the canonical 32-byte big-endian encoding of an unsigned
// integer parameter.
func UintValue(v *big.Int) common.Bytes {
	return common.BytesToHash(v.Bytes()).Bytes()
}

// EventPattern describes one expected event: the emitting contract, the event
// signature, and the ordered parameter values. Patterns are fixed at swap
// proposal time and never mutated.
type EventPattern struct {
	Address   common.Address `json:"address"`
	Signature string         `json:"signature"`
	Params    []EventParam   `json:"params"`
}

// NewEventPattern creates an event pattern.
func NewEventPattern(address common.Address, signature string, params ...EventParam) EventPattern {
	return EventPattern{Address: address, Signature: signature, Params: params}
}

// IsEmpty indicates whether the pattern is unset.
func (p EventPattern) IsEmpty() bool {
	return p.Signature == "" && p.Address.IsEmpty()
}

func (p EventPattern) String() string {
	return fmt.Sprintf("EventPattern{Address: %v, Signature: %v}", p.Address, p.Signature)
}

// Encode computes the log pattern the event would produce: topic0 is the
// keccak-256 hash of the UTF-8 signature string, each indexed parameter
// contributes one topic (value types as their 32-byte slot, longer values by
// the hash of their encoding), and the plain parameters concatenate into the
// data payload.
func (p EventPattern) Encode() LogPattern {
	topics := []common.Hash{crypto.Keccak256Hash([]byte(p.Signature))}
	var data common.Bytes
	for _, param := range p.Params {
		switch param.Kind {
		case ParamIndexed:
			if len(param.Value) <= common.HashLength {
				topics = append(topics, common.BytesToHash(param.Value))
			} else {
				topics = append(topics, crypto.Keccak256Hash(param.Value))
			}
		case ParamPlain:
			if len(param.Value) < common.HashLength {
				data = append(data, common.BytesToHash(param.Value).Bytes()...)
			} else {
				data = append(data, param.Value...)
			}
		}
	}
	return LogPattern{Address: p.Address, Topics: topics, Data: data}
}

// Matches reports whether the observed log is exactly the log this pattern
// encodes to.
func (p EventPattern) Matches(log *Log) bool {
	return p.Encode().Matches(log)
}

// LogPattern is the fully encoded form of an event pattern, directly
// comparable against an observed log entry.
type LogPattern struct {
	Address common.Address
	Topics  []common.Hash
	Data    common.Bytes
}

// Matches reports whether log equals the pattern: same address, same topics
// element-wise, and byte-identical data. No partial matching: the swap
// protocol requires exact, deterministic matches.
func (p LogPattern) Matches(log *Log) bool {
	if log == nil || log.Address != p.Address {
		return false
	}
	if len(log.Topics) != len(p.Topics) {
		return false
	}
	for i, topic := range p.Topics {
		if log.Topics[i] != topic {
			return false
		}
	}
	return bytes.Equal(log.Data, p.Data)
}

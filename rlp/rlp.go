// Package rlp implements the canonical recursive length prefix encoding used
// as the byte representation for trie keys, trie nodes, and receipts.
//
// An item is either a byte string or an ordered list of items. Encoding is
// canonical: integers carry no leading zeros, length prefixes use the
// shortest form, and a single byte below 0x80 encodes as itself. Later layers
// compare encodings byte-for-byte, so the decoder rejects any non-canonical
// input instead of normalizing it.
package rlp

import (
	"errors"
	"fmt"
	"io"
	"math/big"
)

// ErrMalformedEncoding is returned when an input buffer is not a valid
// canonical RLP encoding.
var ErrMalformedEncoding = errors.New("rlp: malformed encoding")

// Kind represents the kind of value contained in an RLP stream.
type Kind int

const (
	// String denotes a byte-string item.
	String Kind = iota
	// List denotes a list item.
	List
)

func (k Kind) String() string {
	if k == List {
		return "List"
	}
	return "String"
}

// Item is a decoded RLP item: a byte string or an ordered list of items.
type Item struct {
	Kind  Kind
	Str   []byte // set when Kind == String
	Items []Item // set when Kind == List
}

// StringItem wraps a byte string as an Item.
func StringItem(b []byte) Item {
	return Item{Kind: String, Str: b}
}

// ListItem wraps a sequence of items as a list Item.
func ListItem(items ...Item) Item {
	return Item{Kind: List, Items: items}
}

// Encode returns the canonical encoding of the item.
func (it Item) Encode() []byte {
	if it.Kind == String {
		return EncodeString(it.Str)
	}
	var payload []byte
	for _, elem := range it.Items {
		payload = append(payload, elem.Encode()...)
	}
	return WrapList(payload)
}

// Encoder is implemented by types that can write their own canonical RLP
// representation.
type Encoder interface {
	EncodeRLP(w io.Writer) error
}

// Encode writes the canonical encoding of v to w. See EncodeToBytes for the
// supported value types.
func Encode(w io.Writer, v interface{}) error {
	if enc, ok := v.(Encoder); ok {
		return enc.EncodeRLP(w)
	}
	b, err := EncodeToBytes(v)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// EncodeToBytes returns the canonical encoding of v. Supported types: []byte
// and string (byte strings), unsigned integers and non-negative *big.Int
// (big-endian strings with no leading zeros), Item, []Item, [][]byte,
// []interface{} (lists), and Encoder implementations.
func EncodeToBytes(v interface{}) ([]byte, error) {
	switch val := v.(type) {
	case nil:
		return EncodeString(nil), nil
	case []byte:
		return EncodeString(val), nil
	case string:
		return EncodeString([]byte(val)), nil
	case uint:
		return EncodeUint(uint64(val)), nil
	case uint8:
		return EncodeUint(uint64(val)), nil
	case uint16:
		return EncodeUint(uint64(val)), nil
	case uint32:
		return EncodeUint(uint64(val)), nil
	case uint64:
		return EncodeUint(val), nil
	case *big.Int:
		if val.Sign() < 0 {
			return nil, fmt.Errorf("rlp: cannot encode negative big.Int")
		}
		return EncodeString(val.Bytes()), nil
	case Item:
		return val.Encode(), nil
	case []Item:
		var payload []byte
		for _, elem := range val {
			payload = append(payload, elem.Encode()...)
		}
		return WrapList(payload), nil
	case [][]byte:
		var payload []byte
		for _, elem := range val {
			payload = append(payload, EncodeString(elem)...)
		}
		return WrapList(payload), nil
	case []interface{}:
		var payload []byte
		for _, elem := range val {
			enc, err := EncodeToBytes(elem)
			if err != nil {
				return nil, err
			}
			payload = append(payload, enc...)
		}
		return WrapList(payload), nil
	case Encoder:
		var buf writerBuf
		if err := val.EncodeRLP(&buf); err != nil {
			return nil, err
		}
		return buf.b, nil
	default:
		return nil, fmt.Errorf("rlp: unsupported type %T", v)
	}
}

type writerBuf struct {
	b []byte
}

func (w *writerBuf) Write(p []byte) (int, error) {
	w.b = append(w.b, p...)
	return len(p), nil
}

// EncodeString returns the full encoding of a byte string.
func EncodeString(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return []byte{b[0]}
	}
	return append(encodeLength(len(b), 0x80), b...)
}

// EncodeUint returns the full encoding of i as a big-endian integer with no
// leading zeros.
func EncodeUint(i uint64) []byte {
	if i == 0 {
		return []byte{0x80}
	}
	if i < 0x80 {
		return []byte{byte(i)}
	}
	return EncodeString(putUint(i))
}

// WrapList prefixes an already-encoded payload of list elements with the
// appropriate list header.
func WrapList(payload []byte) []byte {
	return append(encodeLength(len(payload), 0xc0), payload...)
}

func encodeLength(n int, offset byte) []byte {
	if n < 56 {
		return []byte{offset + byte(n)}
	}
	sizeBytes := putUint(uint64(n))
	return append([]byte{offset + 55 + byte(len(sizeBytes))}, sizeBytes...)
}

// putUint returns the big-endian representation of i with no leading zeros.
func putUint(i uint64) []byte {
	b := make([]byte, 0, 8)
	for shift := 56; shift >= 0; shift -= 8 {
		if byte(i>>uint(shift)) != 0 || len(b) > 0 {
			b = append(b, byte(i>>uint(shift)))
		}
	}
	return b
}

package common

import (
	"encoding/hex"
	"fmt"
	"strings"
)

const (
	// HashLength is the expected length of a hash in bytes.
	HashLength = 32
	// AddressLength is the expected length of an address in bytes.
	AddressLength = 20
)

// Bytes is an arbitrary byte slice.
type Bytes []byte

func (b Bytes) String() string {
	return "0x" + hex.EncodeToString(b)
}

// Hash represents the 32 byte keccak-256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash converts b to a Hash, left-padding if b is shorter than 32 bytes.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash converts a hex string to a Hash.
func HexToHash(s string) Hash {
	return BytesToHash(FromHex(s))
}

// SetBytes sets the hash to the value of b. If b is larger than 32 bytes, b
// will be cropped from the left.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// Bytes returns the byte representation of the hash.
func (h Hash) Bytes() []byte {
	return h[:]
}

// Hex returns the hex string representation of the hash.
func (h Hash) Hex() string {
	return "0x" + hex.EncodeToString(h[:])
}

func (h Hash) String() string {
	return h.Hex()
}

// IsEmpty indicates whether the hash is all zeros.
func (h Hash) IsEmpty() bool {
	return h == Hash{}
}

// MarshalText implements encoding.TextMarshaler.
func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (h *Hash) UnmarshalText(input []byte) error {
	dec, err := parseHexText(input, HashLength)
	if err != nil {
		return fmt.Errorf("invalid hash %q: %v", input, err)
	}
	copy(h[:], dec)
	return nil
}

// Address represents the 20 byte address of an account or contract.
type Address [AddressLength]byte

// BytesToAddress converts b to an Address, left-padding if b is shorter than
// 20 bytes.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress converts a hex string to an Address.
func HexToAddress(s string) Address {
	return BytesToAddress(FromHex(s))
}

// SetBytes sets the address to the value of b. If b is larger than 20 bytes,
// b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// Bytes returns the byte representation of the address.
func (a Address) Bytes() []byte {
	return a[:]
}

// Hex returns the hex string representation of the address.
func (a Address) Hex() string {
	return "0x" + hex.EncodeToString(a[:])
}

func (a Address) String() string {
	return a.Hex()
}

// IsEmpty indicates whether the address is all zeros.
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.Hex()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(input []byte) error {
	dec, err := parseHexText(input, AddressLength)
	if err != nil {
		return fmt.Errorf("invalid address %q: %v", input, err)
	}
	copy(a[:], dec)
	return nil
}

// FromHex returns the bytes represented by the hex string s. s may be
// prefixed with "0x"; an odd-length string is left-padded with a zero nibble.
func FromHex(s string) []byte {
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, _ := hex.DecodeString(s)
	return b
}

// CopyBytes returns a copy of the provided byte slice.
func CopyBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	copied := make([]byte, len(b))
	copy(copied, b)
	return copied
}

func parseHexText(input []byte, wantLen int) ([]byte, error) {
	s := string(input)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		s = s[2:]
	}
	dec, err := hex.DecodeString(s)
	if err != nil {
		return nil, err
	}
	if len(dec) != wantLen {
		return nil, fmt.Errorf("want %v bytes, got %v", wantLen, len(dec))
	}
	return dec, nil
}

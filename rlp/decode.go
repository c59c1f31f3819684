package rlp

import (
	"fmt"
)

// Decode parses b as a single canonical RLP item. Trailing bytes after the
// item, inconsistent length prefixes and non-canonical forms all fail with
// ErrMalformedEncoding.
func Decode(b []byte) (Item, error) {
	item, rest, err := decodeItem(b)
	if err != nil {
		return Item{}, err
	}
	if len(rest) != 0 {
		return Item{}, fmt.Errorf("%w: %d trailing bytes", ErrMalformedEncoding, len(rest))
	}
	return item, nil
}

func decodeItem(b []byte) (Item, []byte, error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return Item{}, nil, err
	}
	if kind == String {
		return StringItem(content), rest, nil
	}
	items := []Item{}
	for len(content) > 0 {
		var elem Item
		elem, content, err = decodeItem(content)
		if err != nil {
			return Item{}, nil, err
		}
		items = append(items, elem)
	}
	return ListItem(items...), rest, nil
}

// Split reads the first item of b and returns its kind, its content and the
// remaining bytes after the item.
func Split(b []byte) (kind Kind, content []byte, rest []byte, err error) {
	if len(b) == 0 {
		return 0, nil, nil, fmt.Errorf("%w: empty input", ErrMalformedEncoding)
	}
	prefix := b[0]
	switch {
	case prefix < 0x80:
		return String, b[:1], b[1:], nil
	case prefix < 0xb8:
		n := int(prefix - 0x80)
		if len(b) < 1+n {
			return 0, nil, nil, fmt.Errorf("%w: string length %d exceeds input", ErrMalformedEncoding, n)
		}
		if n == 1 && b[1] < 0x80 {
			return 0, nil, nil, fmt.Errorf("%w: single byte below 0x80 must be encoded as itself", ErrMalformedEncoding)
		}
		return String, b[1 : 1+n], b[1+n:], nil
	case prefix < 0xc0:
		n, tail, serr := splitLongLength(b, prefix-0xb7)
		if serr != nil {
			return 0, nil, nil, serr
		}
		return String, tail[:n], tail[n:], nil
	case prefix < 0xf8:
		n := int(prefix - 0xc0)
		if len(b) < 1+n {
			return 0, nil, nil, fmt.Errorf("%w: list length %d exceeds input", ErrMalformedEncoding, n)
		}
		return List, b[1 : 1+n], b[1+n:], nil
	default:
		n, tail, serr := splitLongLength(b, prefix-0xf7)
		if serr != nil {
			return 0, nil, nil, serr
		}
		return List, tail[:n], tail[n:], nil
	}
}

// splitLongLength parses the length bytes of a long-form prefix and returns
// the payload length along with the bytes following the length.
func splitLongLength(b []byte, lenOfLen byte) (int, []byte, error) {
	ll := int(lenOfLen)
	if len(b) < 1+ll {
		return 0, nil, fmt.Errorf("%w: truncated length prefix", ErrMalformedEncoding)
	}
	if b[1] == 0 {
		return 0, nil, fmt.Errorf("%w: length prefix has leading zero", ErrMalformedEncoding)
	}
	if ll > 8 {
		return 0, nil, fmt.Errorf("%w: length prefix too long", ErrMalformedEncoding)
	}
	var n uint64
	for _, lb := range b[1 : 1+ll] {
		n = n<<8 | uint64(lb)
	}
	if n < 56 {
		return 0, nil, fmt.Errorf("%w: long form used for short length %d", ErrMalformedEncoding, n)
	}
	if n > uint64(len(b)-1-ll) {
		return 0, nil, fmt.Errorf("%w: payload length %d exceeds input", ErrMalformedEncoding, n)
	}
	return int(n), b[1+ll:], nil
}

// SplitString reads the first item of b, which must be a byte string.
func SplitString(b []byte) (content []byte, rest []byte, err error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if kind == List {
		return nil, nil, fmt.Errorf("%w: expected string, got list", ErrMalformedEncoding)
	}
	return content, rest, nil
}

// SplitList reads the first item of b, which must be a list, and returns the
// concatenated encodings of its elements.
func SplitList(b []byte) (content []byte, rest []byte, err error) {
	kind, content, rest, err := Split(b)
	if err != nil {
		return nil, nil, err
	}
	if kind != List {
		return nil, nil, fmt.Errorf("%w: expected list, got string", ErrMalformedEncoding)
	}
	return content, rest, nil
}

// CountValues counts the number of encoded items in b.
func CountValues(b []byte) (int, error) {
	count := 0
	for len(b) > 0 {
		var err error
		_, _, b, err = Split(b)
		if err != nil {
			return 0, err
		}
		count++
	}
	return count, nil
}

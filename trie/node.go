package trie

import (
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

type node interface{}

type (
	// fullNode is a branch with one child per nibble plus a value slot.
	fullNode struct {
		Children [17]node
	}
	// shortNode is a leaf (hex key carries the terminator nibble, Val is a
	// valueNode) or an extension (no terminator, Val is the next node).
	shortNode struct {
		Key []byte // HEX encoding
		Val node
	}
	hashNode  []byte
	valueNode []byte
)

func (n *fullNode) copy() *fullNode {
	cpy := *n
	return &cpy
}

func (n *shortNode) copy() *shortNode {
	cpy := *n
	return &cpy
}

// encodeNode returns the full canonical RLP encoding of a node, with child
// nodes collapsed into their references.
func encodeNode(n node) []byte {
	switch n := n.(type) {
	case *shortNode:
		payload := rlp.EncodeString(hexToCompact(n.Key))
		if vn, ok := n.Val.(valueNode); ok {
			payload = append(payload, rlp.EncodeString(vn)...)
		} else {
			payload = append(payload, nodeRef(n.Val)...)
		}
		return rlp.WrapList(payload)
	case *fullNode:
		var payload []byte
		for i := 0; i < 16; i++ {
			if n.Children[i] == nil {
				payload = append(payload, rlp.EncodeString(nil)...)
			} else {
				payload = append(payload, nodeRef(n.Children[i])...)
			}
		}
		if vn, ok := n.Children[16].(valueNode); ok {
			payload = append(payload, rlp.EncodeString(vn)...)
		} else {
			payload = append(payload, rlp.EncodeString(nil)...)
		}
		return rlp.WrapList(payload)
	case valueNode:
		return rlp.EncodeString(n)
	case hashNode:
		return rlp.EncodeString(n)
	default:
		panic("trie: unknown node type")
	}
}

// nodeRef returns the reference to a node as embedded in its parent: nodes
// whose encoding is shorter than a hash embed directly, all others are
// referenced by the hash of their encoding.
func nodeRef(n node) []byte {
	if hn, ok := n.(hashNode); ok {
		return rlp.EncodeString(hn)
	}
	enc := encodeNode(n)
	if len(enc) < 32 {
		return enc
	}
	return rlp.EncodeString(crypto.Keccak256(enc))
}

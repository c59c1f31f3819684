// Package trie implements the Ethereum hexary Merkle-Patricia trie over
// arbitrary (key, value) pairs, with compact inclusion proofs. The trie is
// in-memory and copy-on-write: an insert replaces only the nodes on the path
// from the root to the new leaf, untouched subtrees are shared by reference.
package trie

import (
	"bytes"
	"errors"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

// EmptyRootHash is the root hash of a trie with no entries:
// keccak256(rlp("")).
var EmptyRootHash = crypto.Keccak256Hash(rlp.EncodeString(nil))

// ErrKeyNotFound is returned when generating a proof for a key the trie does
// not contain.
var ErrKeyNotFound = errors.New("trie: key not found")

// Trie is an in-memory Merkle-Patricia trie.
type Trie struct {
	root node
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Update inserts or overwrites the mapping key -> value.
func (t *Trie) Update(key, value []byte) {
	k := keybytesToHex(key)
	t.root = t.insert(t.root, k, valueNode(common.CopyBytes(value)))
}

func (t *Trie) insert(n node, key []byte, value node) node {
	if len(key) == 0 {
		return value
	}
	switch n := n.(type) {
	case nil:
		return &shortNode{Key: key, Val: value}
	case *shortNode:
		matchlen := prefixLen(key, n.Key)
		if matchlen == len(n.Key) {
			if matchlen == len(key) {
				// Identical key, overwrite the value.
				return &shortNode{Key: n.Key, Val: value}
			}
			return &shortNode{Key: n.Key, Val: t.insert(n.Val, key[matchlen:], value)}
		}
		// The keys diverge inside the short node's key: branch out at the
		// first differing nibble.
		branch := &fullNode{}
		branch.Children[n.Key[matchlen]] = t.insert(nil, n.Key[matchlen+1:], n.Val)
		branch.Children[key[matchlen]] = t.insert(nil, key[matchlen+1:], value)
		if matchlen == 0 {
			return branch
		}
		return &shortNode{Key: key[:matchlen], Val: branch}
	case *fullNode:
		cpy := n.copy()
		cpy.Children[key[0]] = t.insert(n.Children[key[0]], key[1:], value)
		return cpy
	default:
		panic("trie: invalid node on insert path")
	}
}

// Get returns the value stored under key, if any.
func (t *Trie) Get(key []byte) ([]byte, bool) {
	k := keybytesToHex(key)
	n := t.root
	for {
		switch cur := n.(type) {
		case nil:
			return nil, false
		case *shortNode:
			if len(cur.Key) > len(k) || !bytes.Equal(cur.Key, k[:len(cur.Key)]) {
				return nil, false
			}
			n, k = cur.Val, k[len(cur.Key):]
		case *fullNode:
			if len(k) == 0 {
				return nil, false
			}
			n, k = cur.Children[k[0]], k[1:]
		case valueNode:
			if len(k) != 0 {
				return nil, false
			}
			return cur, true
		default:
			return nil, false
		}
	}
}

// Hash computes the root hash: the keccak-256 hash of the RLP encoding of the
// root node. The hash is a function of the (key, value) set only and does not
// depend on insertion order.
func (t *Trie) Hash() common.Hash {
	if t.root == nil {
		return EmptyRootHash
	}
	return crypto.Keccak256Hash(encodeNode(t.root))
}

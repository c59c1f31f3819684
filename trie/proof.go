package trie

import (
	"bytes"
	"fmt"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
	"github.com/crossledger/crossledger/rlp"
)

// Proof is an ordered mapping from node hash to node encoding, sufficient to
// walk from a root hash to one leaf without the rest of the trie.
type Proof struct {
	order []common.Hash
	nodes map[common.Hash][]byte
}

// NewProof creates an empty proof.
func NewProof() *Proof {
	return &Proof{nodes: make(map[common.Hash][]byte)}
}

// ProofFromNodes rebuilds a proof from an ordered list of node encodings.
func ProofFromNodes(encodings [][]byte) *Proof {
	p := NewProof()
	for _, enc := range encodings {
		p.Add(enc)
	}
	return p
}

// Add records a node encoding under the hash of that encoding.
func (p *Proof) Add(enc []byte) common.Hash {
	h := crypto.Keccak256Hash(enc)
	if _, ok := p.nodes[h]; !ok {
		p.order = append(p.order, h)
		p.nodes[h] = common.CopyBytes(enc)
	}
	return h
}

// Get returns the node encoding stored under h.
func (p *Proof) Get(h common.Hash) ([]byte, bool) {
	enc, ok := p.nodes[h]
	return enc, ok
}

// Len returns the number of entries in the proof.
func (p *Proof) Len() int {
	return len(p.order)
}

// NodeList returns the node encodings in insertion order.
func (p *Proof) NodeList() [][]byte {
	out := make([][]byte, len(p.order))
	for i, h := range p.order {
		out[i] = p.nodes[h]
	}
	return out
}

// indexOf returns the insertion index of h, or -1.
func (p *Proof) indexOf(h common.Hash) int {
	for i, oh := range p.order {
		if oh == h {
			return i
		}
	}
	return -1
}

// Prove constructs a merkle proof for key: the encodings of all nodes on the
// path from the root to the value at key, each keyed by the hash of the
// encoding. Nodes embedded in their parent (encoding shorter than a hash) are
// part of the parent's entry and are not listed separately, except for the
// root which is always included. Fails with ErrKeyNotFound if the trie does
// not contain the key.
func (t *Trie) Prove(key []byte) (*Proof, error) {
	proof := NewProof()
	k := keybytesToHex(key)
	n := t.root
	for {
		switch cur := n.(type) {
		case nil:
			return nil, ErrKeyNotFound
		case *shortNode:
			if enc := encodeNode(cur); len(enc) >= 32 || proof.Len() == 0 {
				proof.Add(enc)
			}
			if len(cur.Key) > len(k) || !bytes.Equal(cur.Key, k[:len(cur.Key)]) {
				return nil, ErrKeyNotFound
			}
			n, k = cur.Val, k[len(cur.Key):]
		case *fullNode:
			if enc := encodeNode(cur); len(enc) >= 32 || proof.Len() == 0 {
				proof.Add(enc)
			}
			if len(k) == 0 {
				return nil, ErrKeyNotFound
			}
			n, k = cur.Children[k[0]], k[1:]
		case valueNode:
			if len(k) != 0 {
				return nil, ErrKeyNotFound
			}
			return proof, nil
		default:
			return nil, fmt.Errorf("trie: invalid node on proof path: %T", n)
		}
	}
}

// VerifyProof replays the walk from rootHash to the leaf for key using only
// the entries of proof, and reports whether it reaches a leaf whose stored
// value equals value. It is a pure function: any mismatch, missing entry,
// unused entry or malformed node encoding yields false, never an error.
func VerifyProof(rootHash common.Hash, key []byte, value []byte, proof *Proof) bool {
	if proof == nil {
		return false
	}
	k := keybytesToHex(key)
	nextIndex := 0
	var n node = hashNode(rootHash.Bytes())
	for {
		switch cur := n.(type) {
		case hashNode:
			h := common.BytesToHash(cur)
			enc, ok := proof.Get(h)
			if !ok {
				return false
			}
			// Entries must be used exactly in insertion order. Out-of-order
			// lookups would mean the proof describes a different walk, and a
			// repeated hash would indicate a cycle.
			if proof.indexOf(h) != nextIndex {
				return false
			}
			nextIndex++
			dec, err := decodeNode(enc)
			if err != nil {
				return false
			}
			n = dec
		case *shortNode:
			if len(cur.Key) > len(k) || !bytes.Equal(cur.Key, k[:len(cur.Key)]) {
				return false
			}
			n, k = cur.Val, k[len(cur.Key):]
		case *fullNode:
			if len(k) == 0 {
				return false
			}
			n, k = cur.Children[k[0]], k[1:]
			if n == nil {
				return false
			}
		case valueNode:
			return len(k) == 0 && bytes.Equal(cur, value) && nextIndex == proof.Len()
		default:
			return false
		}
	}
}

// decodeNode parses a node encoding into a shortNode or fullNode. Children
// referenced by hash become hashNodes; embedded children are decoded inline.
func decodeNode(encoded []byte) (node, error) {
	if len(encoded) == 0 {
		return nil, fmt.Errorf("trie: node must not be zero length")
	}
	elems, _, err := rlp.SplitList(encoded)
	if err != nil {
		return nil, err
	}
	switch c, _ := rlp.CountValues(elems); c {
	case 2:
		return decodeShort(elems)
	case 17:
		return decodeFull(elems)
	default:
		return nil, fmt.Errorf("trie: invalid number of list elements: %v", c)
	}
}

func decodeShort(elems []byte) (*shortNode, error) {
	kbuf, rest, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	key := compactToHex(kbuf)
	if hasTerm(key) {
		val, _, err := rlp.SplitString(rest)
		if err != nil {
			return nil, err
		}
		return &shortNode{Key: key, Val: valueNode(val)}, nil
	}
	val, _, err := decodeRef(rest)
	if err != nil {
		return nil, err
	}
	return &shortNode{Key: key, Val: val}, nil
}

func decodeFull(elems []byte) (*fullNode, error) {
	n := &fullNode{}
	for i := 0; i < 16; i++ {
		var err error
		n.Children[i], elems, err = decodeRef(elems)
		if err != nil {
			return nil, err
		}
	}
	val, _, err := rlp.SplitString(elems)
	if err != nil {
		return nil, err
	}
	if len(val) > 0 {
		n.Children[16] = valueNode(val)
	}
	return n, nil
}

func decodeRef(buf []byte) (node, []byte, error) {
	kind, val, rest, err := rlp.Split(buf)
	if err != nil {
		return nil, nil, err
	}
	switch {
	case kind == rlp.List:
		if len(buf)-len(rest) >= common.HashLength {
			return nil, nil, fmt.Errorf("trie: embedded nodes must be smaller than a hash")
		}
		n, err := decodeNode(buf[:len(buf)-len(rest)])
		if err != nil {
			return nil, nil, err
		}
		return n, rest, nil
	case kind == rlp.String && len(val) == 0:
		return nil, rest, nil
	case kind == rlp.String && len(val) == common.HashLength:
		return hashNode(val), rest, nil
	default:
		return nil, nil, fmt.Errorf("trie: invalid node reference of %d bytes", len(val))
	}
}

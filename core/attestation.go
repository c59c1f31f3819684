package core

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
)

// ValidatorSignature is one validator's attestation: a signature over the
// canonical {block number, receipts root} encoding of a block header.
type ValidatorSignature struct {
	Address   common.Address    `json:"address"`
	Signature *crypto.Signature `json:"signature"`
}

func (vs *ValidatorSignature) String() string {
	return fmt.Sprintf("ValidatorSignature{Address: %v}", vs.Address)
}

// SignatureSet holds attestations over one block header, deduplicated by
// validator identity: multiple signatures from the same validator count once.
type SignatureSet struct {
	sigs map[common.Address]*ValidatorSignature
}

// NewSignatureSet creates an empty signature set.
func NewSignatureSet() *SignatureSet {
	return &SignatureSet{
		sigs: make(map[common.Address]*ValidatorSignature),
	}
}

// AddSignature adds an attestation to the set. A signature from a validator
// that has already signed replaces the previous one.
func (s *SignatureSet) AddSignature(sig *ValidatorSignature) {
	if sig == nil {
		return
	}
	s.sigs[sig.Address] = sig
}

// Size returns the number of distinct signers in the set.
func (s *SignatureSet) Size() int {
	return len(s.sigs)
}

// Signatures returns the attestations sorted by signer address.
func (s *SignatureSet) Signatures() []*ValidatorSignature {
	ret := make([]*ValidatorSignature, 0, len(s.sigs))
	for _, sig := range s.sigs {
		ret = append(ret, sig)
	}
	sort.Slice(ret, func(i, j int) bool {
		return bytes.Compare(ret[i].Address.Bytes(), ret[j].Address.Bytes()) < 0
	})
	return ret
}

func (s *SignatureSet) String() string {
	return fmt.Sprintf("%v", s.Signatures())
}

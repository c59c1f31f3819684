package core

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/crypto"
)

var (
	// ErrValidatorNotFound for an ID that is not in the validator set.
	ErrValidatorNotFound = errors.New("ValidatorNotFound")
)

// Validator contains the public information of an approved validator.
type Validator struct {
	address common.Address
	pubKey  *crypto.PublicKey
}

// NewValidator creates a new validator instance from its public key.
func NewValidator(pubKey *crypto.PublicKey) Validator {
	return Validator{address: pubKey.Address(), pubKey: pubKey}
}

// ID returns the ID of the validator, which is the address derived from its
// public key.
func (v Validator) ID() common.Address {
	return v.address
}

// PublicKey returns the public key of the validator.
func (v Validator) PublicKey() *crypto.PublicKey {
	return v.pubKey
}

func (v Validator) String() string {
	return fmt.Sprintf("Validator{ID: %v}", v.address)
}

// MarshalJSON implements json.Marshaler.
func (v Validator) MarshalJSON() ([]byte, error) {
	return []byte(fmt.Sprintf("%q", v.pubKey.ToBytes().String())), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (v *Validator) UnmarshalJSON(b []byte) error {
	if len(b) < 2 || b[0] != '"' || b[len(b)-1] != '"' {
		return fmt.Errorf("invalid validator encoding: %s", b)
	}
	pubKey, err := crypto.PublicKeyFromBytes(common.FromHex(string(b[1 : len(b)-1])))
	if err != nil {
		return err
	}
	*v = NewValidator(pubKey)
	return nil
}

// ByID implements sort.Interface for []Validator based on ID.
type ByID []Validator

func (b ByID) Len() int      { return len(b) }
func (b ByID) Swap(i, j int) { b[i], b[j] = b[j], b[i] }
func (b ByID) Less(i, j int) bool {
	return bytes.Compare(b[i].ID().Bytes(), b[j].ID().Bytes()) < 0
}

// ValidatorSet is the set of validators approved for a swap, together with
// the minimum number of attestations required before a block header is
// considered trustworthy.
type ValidatorSet struct {
	validators     []Validator
	minValidations int
}

// NewValidatorSet returns a new instance of ValidatorSet.
func NewValidatorSet(minValidations int) *ValidatorSet {
	return &ValidatorSet{
		validators:     []Validator{},
		minValidations: minValidations,
	}
}

// Copy creates a copy of this validator set.
func (s *ValidatorSet) Copy() *ValidatorSet {
	ret := NewValidatorSet(s.minValidations)
	for _, v := range s.Validators() {
		ret.AddValidator(v)
	}
	return ret
}

// AddValidator adds a validator to the validator set. Adding a validator that
// is already present is a no-op.
func (s *ValidatorSet) AddValidator(validator Validator) {
	for _, v := range s.validators {
		if v.ID() == validator.ID() {
			return
		}
	}
	s.validators = append(s.validators, validator)
	sort.Sort(ByID(s.validators))
}

// GetValidator returns a validator if a matching ID is found.
func (s *ValidatorSet) GetValidator(id common.Address) (Validator, error) {
	for _, v := range s.validators {
		if v.ID() == id {
			return v, nil
		}
	}
	return Validator{}, ErrValidatorNotFound
}

// Size returns the number of validators in the validator set.
func (s *ValidatorSet) Size() int {
	return len(s.validators)
}

// MinValidations returns the minimum number of distinct attestations required
// for quorum.
func (s *ValidatorSet) MinValidations() int {
	return s.minValidations
}

// Validators returns a slice of validators sorted by ID.
func (s *ValidatorSet) Validators() []Validator {
	return s.validators
}

// VerifySignature checks one attestation over the header against the set:
// the signer must be an approved validator and the signature must verify
// against its known public key.
func (s *ValidatorSet) VerifySignature(header *BlockHeader, sig *ValidatorSignature) bool {
	if sig == nil {
		return false
	}
	validator, err := s.GetValidator(sig.Address)
	if err != nil {
		return false
	}
	return validator.PublicKey().VerifySignature(header.SignBytes(), sig.Signature)
}

// HasQuorum checks whether the signature set carries at least the minimum
// number of valid attestations over the header from distinct approved
// validators.
func (s *ValidatorSet) HasQuorum(header *BlockHeader, sigs *SignatureSet) bool {
	count := 0
	for _, sig := range sigs.Signatures() {
		if s.VerifySignature(header, sig) {
			count++
		}
	}
	return count >= s.minValidations
}

func (s *ValidatorSet) String() string {
	return fmt.Sprintf("ValidatorSet{MinValidations: %v, Validators: %v}", s.minValidations, s.validators)
}

type validatorSetJSON struct {
	MinValidations int         `json:"minValidations"`
	Validators     []Validator `json:"validators"`
}

// MarshalJSON implements json.Marshaler.
func (s *ValidatorSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(validatorSetJSON{
		MinValidations: s.minValidations,
		Validators:     s.validators,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ValidatorSet) UnmarshalJSON(b []byte) error {
	var dec validatorSetJSON
	if err := json.Unmarshal(b, &dec); err != nil {
		return err
	}
	s.minValidations = dec.MinValidations
	s.validators = []Validator{}
	for _, v := range dec.Validators {
		s.AddValidator(v)
	}
	return nil
}

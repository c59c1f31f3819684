package attestation

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/core"
	"github.com/crossledger/crossledger/crypto"
)

// Signer is the validator-side half of the attestation protocol: it holds a
// validator's private key and produces signatures over block headers. It
// implements Client, so an in-process validator can be wired directly into a
// Collector.
type Signer struct {
	privKey *crypto.PrivateKey

	// MinBlockNumber is the lowest block number the signer is willing to
	// attest to. Headers below it are declined.
	MinBlockNumber uint64
}

var _ Client = (*Signer)(nil)

// NewSigner creates a signer for the given validator key. The minimum block
// number starts at the configured default and may be raised per signer.
func NewSigner(privKey *crypto.PrivateKey) *Signer {
	return &Signer{
		privKey:        privKey,
		MinBlockNumber: viper.GetUint64(common.CfgAttestationMinBlockNumber),
	}
}

// Validator returns the validator identity corresponding to the signer's key.
func (s *Signer) Validator() core.Validator {
	return core.NewValidator(s.privKey.PublicKey())
}

// SignHeader signs the canonical encoding of the header.
func (s *Signer) SignHeader(ctx context.Context, header *core.BlockHeader) (*core.ValidatorSignature, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if header.Number < s.MinBlockNumber {
		return nil, fmt.Errorf("declined: block %v below minimum %v", header.Number, s.MinBlockNumber)
	}
	sig, err := s.privKey.Sign(header.SignBytes())
	if err != nil {
		return nil, err
	}
	return &core.ValidatorSignature{
		Address:   s.privKey.PublicKey().Address(),
		Signature: sig,
	}, nil
}

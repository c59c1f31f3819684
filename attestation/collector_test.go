package attestation

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/core"
	"github.com/crossledger/crossledger/crypto"
)

type fixture struct {
	signers    []*Signer
	validators *core.ValidatorSet
	clients    map[common.Address]Client
}

func newFixture(t *testing.T, n, minValidations int) *fixture {
	t.Helper()
	f := &fixture{
		validators: core.NewValidatorSet(minValidations),
		clients:    map[common.Address]Client{},
	}
	for i := 0; i < n; i++ {
		sk, _, err := crypto.GenerateKeyPair()
		if err != nil {
			t.Fatal(err)
		}
		signer := NewSigner(sk)
		f.signers = append(f.signers, signer)
		f.validators.AddValidator(signer.Validator())
		f.clients[signer.Validator().ID()] = signer
	}
	return f
}

func testHeader() *core.BlockHeader {
	return core.NewBlockHeader(100, crypto.Keccak256Hash([]byte("receipts")))
}

func TestCollectQuorum(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, 4, 3)
	collector := NewCollector(f.validators, f.clients, time.Second)

	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.Nil(err)
	assert.Equal(4, sigs.Size())
	assert.True(f.validators.HasQuorum(testHeader(), sigs))
}

func TestCollectBareQuorum(t *testing.T) {
	assert := assert.New(t)

	// Exactly minValidations signers respond, the fourth declines.
	f := newFixture(t, 4, 3)
	f.signers[0].MinBlockNumber = 1000
	collector := NewCollector(f.validators, f.clients, time.Second)

	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.Nil(err)
	assert.Equal(3, sigs.Size())
}

func TestCollectQuorumNotReached(t *testing.T) {
	assert := assert.New(t)

	// Two of four decline, leaving one short of quorum.
	f := newFixture(t, 4, 3)
	f.signers[0].MinBlockNumber = 1000
	f.signers[1].MinBlockNumber = 1000
	collector := NewCollector(f.validators, f.clients, time.Second)

	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.ErrorIs(err, ErrQuorumNotReached)
	assert.Nil(sigs)
}

type badSigClient struct {
	address common.Address
}

func (c *badSigClient) SignHeader(ctx context.Context, header *core.BlockHeader) (*core.ValidatorSignature, error) {
	sk, _, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, err
	}
	sig, err := sk.Sign(header.SignBytes())
	if err != nil {
		return nil, err
	}
	// Signed with the wrong key but claiming the validator's address.
	return &core.ValidatorSignature{Address: c.address, Signature: sig}, nil
}

func TestCollectDropsInvalidSignatures(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, 3, 3)
	forgedID := f.signers[0].Validator().ID()
	f.clients[forgedID] = &badSigClient{address: forgedID}
	collector := NewCollector(f.validators, f.clients, time.Second)

	// The forged signature is dropped, not fatal, but quorum now fails.
	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.ErrorIs(err, ErrQuorumNotReached)
	assert.Nil(sigs)

	// With a lower threshold the remaining honest signatures suffice.
	lenient := core.NewValidatorSet(2)
	for _, v := range f.validators.Validators() {
		lenient.AddValidator(v)
	}
	collector = NewCollector(lenient, f.clients, time.Second)
	sigs, err = collector.Collect(context.Background(), testHeader())
	assert.Nil(err)
	assert.Equal(2, sigs.Size())
}

type slowClient struct {
	inner Client
	delay time.Duration
}

func (c *slowClient) SignHeader(ctx context.Context, header *core.BlockHeader) (*core.ValidatorSignature, error) {
	select {
	case <-time.After(c.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return c.inner.SignHeader(ctx, header)
}

func TestCollectTimeout(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, 3, 3)
	slowID := f.signers[0].Validator().ID()
	f.clients[slowID] = &slowClient{inner: f.signers[0], delay: 5 * time.Second}
	collector := NewCollector(f.validators, f.clients, 100*time.Millisecond)

	start := time.Now()
	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.ErrorIs(err, ErrQuorumNotReached)
	assert.Nil(sigs)
	assert.True(time.Since(start) < 2*time.Second)
}

type errClient struct{}

func (errClient) SignHeader(ctx context.Context, header *core.BlockHeader) (*core.ValidatorSignature, error) {
	return nil, errors.New("connection refused")
}

func TestCollectClientErrors(t *testing.T) {
	assert := assert.New(t)

	f := newFixture(t, 3, 2)
	f.clients[f.signers[2].Validator().ID()] = errClient{}
	collector := NewCollector(f.validators, f.clients, time.Second)

	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.Nil(err)
	assert.Equal(2, sigs.Size())
}

func TestCollectMissingClient(t *testing.T) {
	assert := assert.New(t)

	// An approved validator without a reachable client is simply not asked.
	f := newFixture(t, 3, 2)
	delete(f.clients, f.signers[0].Validator().ID())
	collector := NewCollector(f.validators, f.clients, time.Second)

	sigs, err := collector.Collect(context.Background(), testHeader())
	assert.Nil(err)
	assert.Equal(2, sigs.Size())
}

func TestSignerDeclinesOldBlocks(t *testing.T) {
	assert := assert.New(t)

	sk, _, err := crypto.GenerateKeyPair()
	assert.Nil(err)
	signer := NewSigner(sk)
	signer.MinBlockNumber = 50

	_, err = signer.SignHeader(context.Background(), core.NewBlockHeader(49, common.Hash{}))
	assert.NotNil(err)

	sig, err := signer.SignHeader(context.Background(), core.NewBlockHeader(50, common.Hash{}))
	assert.Nil(err)
	assert.Equal(signer.Validator().ID(), sig.Address)
}

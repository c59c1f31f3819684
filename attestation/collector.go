// Package attestation collects validator signatures over EVM block headers.
// A header is considered trustworthy once a minimum quorum of distinct
// approved validators has attested to its {block number, receipts root}
// encoding.
package attestation

import (
	"context"
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/core"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "attestation"})

// ErrQuorumNotReached is returned when a collection round ends without the
// minimum number of valid attestations.
var ErrQuorumNotReached = errors.New("attestation: quorum not reached")

// Client requests one validator's signature over a block header.
type Client interface {
	SignHeader(ctx context.Context, header *core.BlockHeader) (*core.ValidatorSignature, error)
}

// Collector fans out signing requests to the approved validators and
// aggregates the responses into a signature set.
type Collector struct {
	validators *core.ValidatorSet
	clients    map[common.Address]Client
	timeout    time.Duration
}

// NewCollector creates a collector for the given validator set. The timeout
// bounds a whole collection round, not individual requests.
func NewCollector(validators *core.ValidatorSet, clients map[common.Address]Client, timeout time.Duration) *Collector {
	if timeout == 0 {
		timeout = time.Duration(viper.GetInt(common.CfgAttestationTimeout)) * time.Second
	}
	return &Collector{
		validators: validators,
		clients:    clients,
		timeout:    timeout,
	}
}

// Collect requests an attestation over header from every approved validator
// and gathers responses until all have answered or the round times out.
// Invalid signatures are dropped from the count; responses arriving after the
// timeout are discarded. Returns the collected set, or ErrQuorumNotReached if
// fewer than the minimum number of distinct valid attestations arrived in
// time.
func (c *Collector) Collect(ctx context.Context, header *core.BlockHeader) (*core.SignatureSet, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	requested := 0
	responses := make(chan *core.ValidatorSignature, c.validators.Size())
	for _, validator := range c.validators.Validators() {
		client, ok := c.clients[validator.ID()]
		if !ok {
			logger.WithFields(log.Fields{"validator": validator.ID()}).Warn("No client for approved validator")
			continue
		}
		requested++
		go func(id common.Address, client Client) {
			sig, err := client.SignHeader(ctx, header)
			if err != nil {
				logger.WithFields(log.Fields{
					"validator": id,
					"block":     header.Number,
					"error":     err,
				}).Debug("Validator declined or failed to sign header")
				responses <- nil
				return
			}
			responses <- sig
		}(validator.ID(), client)
	}

	sigs := core.NewSignatureSet()
collection:
	for received := 0; received < requested; received++ {
		select {
		case sig := <-responses:
			if sig == nil {
				continue
			}
			if !c.validators.VerifySignature(header, sig) {
				logger.WithFields(log.Fields{
					"validator": sig.Address,
					"block":     header.Number,
				}).Warn("Dropping invalid validator signature")
				continue
			}
			sigs.AddSignature(sig)
		case <-ctx.Done():
			// The timeout ends the whole round. Late responses are discarded.
			break collection
		}
	}

	if sigs.Size() < c.validators.MinValidations() {
		logger.WithFields(log.Fields{
			"block":     header.Number,
			"collected": sigs.Size(),
			"required":  c.validators.MinValidations(),
		}).Warn("Attestation quorum not reached")
		return nil, ErrQuorumNotReached
	}
	return sigs, nil
}

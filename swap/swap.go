// Package swap implements the two-party atomic swap protocol: a swap is
// proposed with an expected unlock event pattern and a revert event pattern,
// both parties sign, the ledger-A asset is locked, and a later submission of
// receipt proof plus attested block header decides between Unlocked and
// Reverted. All verification is pure; nothing changes state until the single
// commit point of the terminal transition.
package swap

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/crossledger/crossledger/core"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "swap"})

// Swap is one in-flight swap: its immutable details plus the current
// lifecycle state.
type Swap struct {
	mu      sync.Mutex
	details *SwapTransactionDetails
	state   State
	lock    *LockState
}

// NewSwap creates a swap in the Proposed state. The details are validated the
// same way the counterparty will validate them.
func NewSwap(details *SwapTransactionDetails) (*Swap, error) {
	if res := details.Validate(); res.IsError() {
		return nil, &RejectionError{Result: res}
	}
	return &Swap{details: details, state: StateProposed}, nil
}

// restore rebuilds a swap from its persisted record.
func restore(details *SwapTransactionDetails, state State, lock *LockState) *Swap {
	return &Swap{details: details, state: state, lock: lock}
}

// Details returns the immutable swap details.
func (sw *Swap) Details() *SwapTransactionDetails {
	return sw.details
}

// State returns the current lifecycle state.
func (sw *Swap) State() State {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.state
}

// LockState returns the lock state, if the asset is currently held.
func (sw *Swap) LockState() *LockState {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	return sw.lock
}

// Sign records the counterparty's countersignature: Proposed -> Signed.
func (sw *Swap) Sign() error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.state != StateProposed {
		return ErrInvalidTransition
	}
	sw.state = StateSigned
	return nil
}

// Lock commits the lock state that removes the asset from the sender's
// ordinary custody: Signed -> Locked. Irrevocable except via Unlock or
// Revert.
func (sw *Swap) Lock(custodian Custodian) error {
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.state != StateSigned {
		return ErrInvalidTransition
	}
	lock, err := custodian.Lock(sw.details)
	if err != nil {
		return err
	}
	sw.lock = lock
	sw.state = StateLocked
	logger.WithFields(log.Fields{"swap": sw.details.ID, "asset": lock.AssetID}).Info("Asset locked")
	return nil
}

// Unlock is the terminal transition. It validates, in order: (a) the
// submitted receipt set rebuilds to the claimed receipts root, (b) the target
// receipt's inclusion proof verifies against that root, (c) a quorum of valid
// validator attestations covers the block header, (d) the target receipt's
// logs match the unlock pattern (Unlocked) or the revert pattern (Reverted,
// refunding the original owner). Any failure leaves the lock untouched and is
// retryable with corrected data.
func (sw *Swap) Unlock(data *UnlockData, custodian Custodian) (State, error) {
	outcome, err := sw.verify(data)
	if err != nil {
		return sw.State(), err
	}

	// Single commit point. The hosting ledger serializes terminal
	// transitions on the lock state; re-checking the state here keeps a
	// concurrent second submission from releasing twice.
	sw.mu.Lock()
	defer sw.mu.Unlock()
	if sw.state != StateLocked {
		return sw.state, ErrInvalidTransition
	}
	to := sw.details.Receiver
	if outcome == StateReverted {
		to = sw.details.Sender
	}
	if err := custodian.Release(sw.lock, to); err != nil {
		return sw.state, err
	}
	sw.lock = nil
	sw.state = outcome
	logger.WithFields(log.Fields{
		"swap":    sw.details.ID,
		"block":   data.BlockNumber,
		"outcome": outcome,
	}).Info("Swap finalized")
	return sw.state, nil
}

// verify performs the pure validation of an unlock submission and decides the
// outcome. It has no side effects on the swap.
func (sw *Swap) verify(data *UnlockData) (State, error) {
	if sw.State() != StateLocked {
		return 0, ErrInvalidTransition
	}

	root, err := core.CalculateReceiptRoot(data.BlockReceipts)
	if err != nil {
		return 0, err
	}
	if root != data.ReceiptsRoot {
		return 0, ErrRootMismatch
	}

	if !core.VerifyInclusion(root, data.Receipt, data.Proof) {
		return 0, ErrInvalidProof
	}

	if !sw.details.Validators.HasQuorum(data.Header(), data.Signatures) {
		return 0, ErrQuorumNotReached
	}

	// The unlock pattern takes precedence: it is checked across all logs
	// before the revert pattern is considered.
	for _, logEntry := range data.Receipt.Logs {
		if sw.details.UnlockEvent.Matches(logEntry) {
			return StateUnlocked, nil
		}
	}
	for _, logEntry := range data.Receipt.Logs {
		if sw.details.RevertEvent.Matches(logEntry) {
			return StateReverted, nil
		}
	}
	return 0, ErrNoMatchingEvent
}

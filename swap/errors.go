package swap

import (
	"errors"
	"fmt"

	"github.com/crossledger/crossledger/common/result"
)

var (
	// ErrRootMismatch is returned when the recomputed receipts trie root does
	// not equal the claimed receipts root. The claimed block data is
	// untrustworthy; the lock is untouched and the submission can be retried
	// with fresh data.
	ErrRootMismatch = errors.New("swap: receipts root mismatch")

	// ErrInvalidProof is returned when the inclusion proof for the target
	// receipt does not verify against the receipts root. Retryable.
	ErrInvalidProof = errors.New("swap: receipt inclusion proof invalid")

	// ErrQuorumNotReached is returned when a submission does not carry the
	// minimum number of valid validator attestations over the block header.
	// Retryable, possibly with more signatures.
	ErrQuorumNotReached = errors.New("swap: validator attestation quorum not reached")

	// ErrNoMatchingEvent is returned when the target receipt's logs satisfy
	// neither the unlock nor the revert pattern. The lock remains in place;
	// the submission can be retried with a different receipt.
	ErrNoMatchingEvent = errors.New("swap: no log matches the unlock or revert event")

	// ErrInvalidTransition is returned when an operation is attempted from a
	// state it is not allowed in.
	ErrInvalidTransition = errors.New("swap: invalid state transition")

	// ErrSwapNotFound is returned by the repository for an unknown swap ID.
	ErrSwapNotFound = errors.New("swap: swap not found")
)

// RejectionError is a hard rejection of a specific submission by the hosting
// ledger's rule engine. It rejects the submission, not the swap.
type RejectionError struct {
	Result result.Result
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("swap: submission rejected: %v", e.Result.Message)
}

package swap

import (
	"fmt"

	"github.com/pborman/uuid"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/common/result"
	"github.com/crossledger/crossledger/core"
	"github.com/crossledger/crossledger/trie"
)

// State enumerates the swap lifecycle. Unlocked and Reverted are terminal.
type State int

const (
	StateProposed State = iota
	StateSigned
	StateLocked
	StateUnlocked
	StateReverted
)

func (s State) String() string {
	switch s {
	case StateProposed:
		return "proposed"
	case StateSigned:
		return "signed"
	case StateLocked:
		return "locked"
	case StateUnlocked:
		return "unlocked"
	case StateReverted:
		return "reverted"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// IsTerminal indicates whether the state admits no further transition.
func (s State) IsTerminal() bool {
	return s == StateUnlocked || s == StateReverted
}

// SwapTransactionDetails is the shared contract both parties verify
// independently: identities, the asset, the approved validators, and the
// event patterns deciding the swap outcome. Created once at proposal time and
// immutable for the life of the swap.
type SwapTransactionDetails struct {
	ID          string             `json:"id"`
	Sender      common.Address     `json:"sender"`
	Receiver    common.Address     `json:"receiver"`
	AssetID     string             `json:"assetId"`
	Validators  *core.ValidatorSet `json:"validators"`
	UnlockEvent core.EventPattern  `json:"unlockEvent"`
	RevertEvent core.EventPattern  `json:"revertEvent"`
}

// NewSwapTransactionDetails creates the details for a new swap proposal.
func NewSwapTransactionDetails(sender, receiver common.Address, assetID string,
	validators *core.ValidatorSet, unlockEvent, revertEvent core.EventPattern) *SwapTransactionDetails {
	return &SwapTransactionDetails{
		ID:          uuid.New(),
		Sender:      sender,
		Receiver:    receiver,
		AssetID:     assetID,
		Validators:  validators,
		UnlockEvent: unlockEvent,
		RevertEvent: revertEvent,
	}
}

// Validate checks the proposal rules. The counterparty runs the same check
// before countersigning.
func (d *SwapTransactionDetails) Validate() result.Result {
	if d.ID == "" {
		return result.ErrorWithCode(result.CodeInvalidProposal, "swap ID is empty")
	}
	if d.Sender.IsEmpty() || d.Receiver.IsEmpty() {
		return result.ErrorWithCode(result.CodeUnknownParticipant, "sender and receiver must be set")
	}
	if d.Sender == d.Receiver {
		return result.ErrorWithCode(result.CodeInvalidProposal, "sender and receiver must differ")
	}
	if d.AssetID == "" {
		return result.ErrorWithCode(result.CodeInvalidProposal, "asset reference is empty")
	}
	if d.Validators == nil || d.Validators.Size() == 0 {
		return result.ErrorWithCode(result.CodeInvalidProposal, "approved validator set is empty")
	}
	if d.Validators.MinValidations() < 1 || d.Validators.MinValidations() > d.Validators.Size() {
		return result.ErrorWithCode(result.CodeInvalidProposal,
			"minimum validations %v out of range for %v validators",
			d.Validators.MinValidations(), d.Validators.Size())
	}
	if d.UnlockEvent.IsEmpty() || d.RevertEvent.IsEmpty() {
		return result.ErrorWithCode(result.CodeInvalidProposal, "unlock and revert event patterns must be set")
	}
	// Callers must guarantee mutually exclusive patterns. Identical patterns
	// would make every outcome an unlock (unlock is checked first), so they
	// are rejected here.
	if samePattern(d.UnlockEvent, d.RevertEvent) {
		return result.ErrorWithCode(result.CodeInvalidProposal, "unlock and revert event patterns must differ")
	}
	return result.OK
}

func samePattern(a, b core.EventPattern) bool {
	ae, be := a.Encode(), b.Encode()
	if ae.Address != be.Address || len(ae.Topics) != len(be.Topics) {
		return false
	}
	for i := range ae.Topics {
		if ae.Topics[i] != be.Topics[i] {
			return false
		}
	}
	return string(ae.Data) == string(be.Data)
}

func (d *SwapTransactionDetails) String() string {
	return fmt.Sprintf("SwapTransactionDetails{ID: %v, Sender: %v, Receiver: %v, Asset: %v}",
		d.ID, d.Sender, d.Receiver, d.AssetID)
}

// LockState records that an asset is held pending proof. It is created when
// the lock transaction commits and consumed exactly once by the Unlock or
// Revert transition.
type LockState struct {
	SwapID  string `json:"swapId"`
	AssetID string `json:"assetId"`
}

// UnlockData bundles everything the unlocking party submits to trigger the
// terminal transition. Ephemeral: consumed by the transition, not persisted.
type UnlockData struct {
	BlockNumber   uint64
	ReceiptsRoot  common.Hash
	BlockReceipts []*core.TransactionReceipt
	Receipt       *core.TransactionReceipt
	Proof         *trie.Proof
	Signatures    *core.SignatureSet
}

// Header returns the block header the submission claims the receipt belongs
// to.
func (d *UnlockData) Header() *core.BlockHeader {
	return core.NewBlockHeader(d.BlockNumber, d.ReceiptsRoot)
}

// Custodian is the hosting ledger's asset custody primitive. Lock removes the
// asset from the sender's ordinary custody; Release hands the locked asset to
// the given party. The hosting ledger guarantees at most one Release per
// LockState.
type Custodian interface {
	Lock(details *SwapTransactionDetails) (*LockState, error)
	Release(lock *LockState, to common.Address) error
}

package swap

// The protocol rounds between the two parties are explicit message types
// exchanged over a reliable, ordered channel. The engine is a function from
// (current state, message) to (next state, effects); all blocking I/O lives
// with the attestation collector and chain access, never here.

// Message is one protocol round between the two parties.
type Message interface {
	messageTag() string
}

// ProposeMsg opens a swap: the proposer shares the full transaction details
// for the counterparty's inspection.
type ProposeMsg struct {
	Details *SwapTransactionDetails
}

// AcceptMsg is the counterparty's countersignature of a proposal it has
// validated.
type AcceptMsg struct {
	SwapID string
}

// LockMsg commits the asset lock for a signed swap.
type LockMsg struct {
	SwapID string
}

// UnlockSubmission carries the proof bundle that triggers the terminal
// transition.
type UnlockSubmission struct {
	SwapID string
	Data   *UnlockData
}

// AbandonMsg withdraws a swap that has not yet locked the asset. Once locked,
// the only way out is Unlock or Revert.
type AbandonMsg struct {
	SwapID string
}

func (ProposeMsg) messageTag() string       { return "propose" }
func (AcceptMsg) messageTag() string        { return "accept" }
func (LockMsg) messageTag() string          { return "lock" }
func (UnlockSubmission) messageTag() string { return "unlock" }
func (AbandonMsg) messageTag() string       { return "abandon" }

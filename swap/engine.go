package swap

import (
	"fmt"

	log "github.com/sirupsen/logrus"
)

// Engine drives swaps through their lifecycle in response to protocol
// messages. The repository of in-flight swaps and the asset custodian are
// injected; the engine itself holds no ambient state.
type Engine struct {
	repo      Repository
	custodian Custodian
}

// NewEngine creates an engine over the given repository and custodian.
func NewEngine(repo Repository, custodian Custodian) *Engine {
	return &Engine{repo: repo, custodian: custodian}
}

// HandleMessage applies one protocol message and returns the affected swap in
// its new state.
func (e *Engine) HandleMessage(msg Message) (*Swap, error) {
	switch m := msg.(type) {
	case ProposeMsg:
		return e.propose(m)
	case AcceptMsg:
		return e.accept(m)
	case LockMsg:
		return e.lock(m)
	case UnlockSubmission:
		return e.unlock(m)
	case AbandonMsg:
		return e.abandon(m)
	default:
		return nil, fmt.Errorf("swap: unknown message type %T", msg)
	}
}

func (e *Engine) propose(msg ProposeMsg) (*Swap, error) {
	sw, err := NewSwap(msg.Details)
	if err != nil {
		return nil, err
	}
	if err := e.repo.PutSwap(sw); err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"swap": sw.details.ID}).Info("Swap proposed")
	return sw, nil
}

func (e *Engine) accept(msg AcceptMsg) (*Swap, error) {
	sw, err := e.repo.GetSwap(msg.SwapID)
	if err != nil {
		return nil, err
	}
	// The counterparty re-validates the shared details before signing.
	if res := sw.details.Validate(); res.IsError() {
		return nil, &RejectionError{Result: res}
	}
	if err := sw.Sign(); err != nil {
		return nil, err
	}
	if err := e.repo.PutSwap(sw); err != nil {
		return nil, err
	}
	logger.WithFields(log.Fields{"swap": sw.details.ID}).Info("Swap signed")
	return sw, nil
}

func (e *Engine) lock(msg LockMsg) (*Swap, error) {
	sw, err := e.repo.GetSwap(msg.SwapID)
	if err != nil {
		return nil, err
	}
	if err := sw.Lock(e.custodian); err != nil {
		return nil, err
	}
	if err := e.repo.PutSwap(sw); err != nil {
		return nil, err
	}
	return sw, nil
}

func (e *Engine) unlock(msg UnlockSubmission) (*Swap, error) {
	sw, err := e.repo.GetSwap(msg.SwapID)
	if err != nil {
		return nil, err
	}
	if _, err := sw.Unlock(msg.Data, e.custodian); err != nil {
		return sw, err
	}
	if err := e.repo.PutSwap(sw); err != nil {
		return sw, err
	}
	return sw, nil
}

func (e *Engine) abandon(msg AbandonMsg) (*Swap, error) {
	sw, err := e.repo.GetSwap(msg.SwapID)
	if err != nil {
		return nil, err
	}
	if state := sw.State(); state != StateProposed && state != StateSigned {
		return sw, ErrInvalidTransition
	}
	if err := e.repo.DeleteSwap(msg.SwapID); err != nil {
		return sw, err
	}
	logger.WithFields(log.Fields{"swap": sw.details.ID}).Info("Swap abandoned")
	return sw, nil
}

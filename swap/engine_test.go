package swap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngineLifecycle(t *testing.T) {
	assert := assert.New(t)

	env := newTestEnv(t, 3, 2)
	custodian := &fakeCustodian{}
	engine := NewEngine(NewInMemoryRepository(), custodian)

	sw, err := engine.HandleMessage(ProposeMsg{Details: env.details})
	assert.Nil(err)
	assert.Equal(StateProposed, sw.State())
	id := sw.Details().ID

	sw, err = engine.HandleMessage(AcceptMsg{SwapID: id})
	assert.Nil(err)
	assert.Equal(StateSigned, sw.State())

	sw, err = engine.HandleMessage(LockMsg{SwapID: id})
	assert.Nil(err)
	assert.Equal(StateLocked, sw.State())
	assert.Equal(1, custodian.locks)

	data := env.unlockDataFor(t, 3, logFor(env.details.UnlockEvent))
	sw, err = engine.HandleMessage(UnlockSubmission{SwapID: id, Data: data})
	assert.Nil(err)
	assert.Equal(StateUnlocked, sw.State())
	assert.Equal(env.receiver, custodian.releases[0].to)

	// The terminal state is persisted.
	sw, err = engine.repo.GetSwap(id)
	assert.Nil(err)
	assert.Equal(StateUnlocked, sw.State())
	assert.Nil(sw.LockState())
}

func TestEngineRejectsInvalidProposal(t *testing.T) {
	assert := assert.New(t)

	engine := NewEngine(NewInMemoryRepository(), &fakeCustodian{})
	_, err := engine.HandleMessage(ProposeMsg{Details: &SwapTransactionDetails{}})
	assert.NotNil(err)
}

func TestEngineUnknownSwap(t *testing.T) {
	assert := assert.New(t)

	engine := NewEngine(NewInMemoryRepository(), &fakeCustodian{})
	_, err := engine.HandleMessage(AcceptMsg{SwapID: "no-such-swap"})
	assert.ErrorIs(err, ErrSwapNotFound)
	_, err = engine.HandleMessage(LockMsg{SwapID: "no-such-swap"})
	assert.ErrorIs(err, ErrSwapNotFound)
	_, err = engine.HandleMessage(AbandonMsg{SwapID: "no-such-swap"})
	assert.ErrorIs(err, ErrSwapNotFound)
}

func TestEngineAbandon(t *testing.T) {
	assert := assert.New(t)

	env := newTestEnv(t, 3, 2)
	custodian := &fakeCustodian{}
	engine := NewEngine(NewInMemoryRepository(), custodian)

	// A proposed swap may be withdrawn.
	sw, err := engine.HandleMessage(ProposeMsg{Details: env.details})
	assert.Nil(err)
	id := sw.Details().ID
	_, err = engine.HandleMessage(AbandonMsg{SwapID: id})
	assert.Nil(err)
	_, err = engine.repo.GetSwap(id)
	assert.ErrorIs(err, ErrSwapNotFound)

	// A signed swap may still be withdrawn.
	_, err = engine.HandleMessage(ProposeMsg{Details: env.details})
	assert.Nil(err)
	_, err = engine.HandleMessage(AcceptMsg{SwapID: id})
	assert.Nil(err)
	_, err = engine.HandleMessage(AbandonMsg{SwapID: id})
	assert.Nil(err)

	// Once locked, abandoning is no longer possible.
	_, err = engine.HandleMessage(ProposeMsg{Details: env.details})
	assert.Nil(err)
	_, err = engine.HandleMessage(AcceptMsg{SwapID: id})
	assert.Nil(err)
	_, err = engine.HandleMessage(LockMsg{SwapID: id})
	assert.Nil(err)
	_, err = engine.HandleMessage(AbandonMsg{SwapID: id})
	assert.ErrorIs(err, ErrInvalidTransition)
	sw, err = engine.repo.GetSwap(id)
	assert.Nil(err)
	assert.Equal(StateLocked, sw.State())
}

func TestEngineFailedUnlockKeepsLock(t *testing.T) {
	assert := assert.New(t)

	env := newTestEnv(t, 3, 2)
	custodian := &fakeCustodian{}
	engine := NewEngine(NewInMemoryRepository(), custodian)

	sw, err := engine.HandleMessage(ProposeMsg{Details: env.details})
	assert.Nil(err)
	id := sw.Details().ID
	_, err = engine.HandleMessage(AcceptMsg{SwapID: id})
	assert.Nil(err)
	_, err = engine.HandleMessage(LockMsg{SwapID: id})
	assert.Nil(err)

	data := env.unlockDataFor(t, 1, logFor(env.details.UnlockEvent))
	_, err = engine.HandleMessage(UnlockSubmission{SwapID: id, Data: data})
	assert.ErrorIs(err, ErrQuorumNotReached)

	sw, err = engine.repo.GetSwap(id)
	assert.Nil(err)
	assert.Equal(StateLocked, sw.State())
	assert.NotNil(sw.LockState())

	// The corrected submission finalizes the persisted swap.
	data = env.unlockDataFor(t, 2, logFor(env.details.UnlockEvent))
	sw, err = engine.HandleMessage(UnlockSubmission{SwapID: id, Data: data})
	assert.Nil(err)
	assert.Equal(StateUnlocked, sw.State())
}

func TestEngineUnknownMessage(t *testing.T) {
	assert := assert.New(t)

	engine := NewEngine(NewInMemoryRepository(), &fakeCustodian{})
	_, err := engine.HandleMessage(nil)
	assert.NotNil(err)
}

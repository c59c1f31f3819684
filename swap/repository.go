package swap

import (
	"github.com/spf13/viper"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/store"
	"github.com/crossledger/crossledger/store/database"
	"github.com/crossledger/crossledger/store/database/backend"
	"github.com/crossledger/crossledger/store/kvstore"
)

// Repository is the queryable set of in-flight swaps, addressable by swap
// identifier. It is injected into the engine rather than accessed as ambient
// global state.
type Repository interface {
	GetSwap(id string) (*Swap, error)
	PutSwap(sw *Swap) error
	DeleteSwap(id string) error
}

// swapRecord is the persisted form of a swap.
type swapRecord struct {
	Details *SwapTransactionDetails `json:"details"`
	State   State                   `json:"state"`
	Lock    *LockState              `json:"lock,omitempty"`
}

const swapKeyPrefix = "swap/"

// kvRepository is a Repository over a key/value store.
type kvRepository struct {
	store store.Store
}

// NewRepository creates a repository over the given database backend.
func NewRepository(db database.Database) Repository {
	return &kvRepository{store: kvstore.NewKVStore(db)}
}

// NewInMemoryRepository creates a repository that is not persisted. Intended
// for tests and single-process deployments.
func NewInMemoryRepository() Repository {
	return NewRepository(backend.NewMemDatabase())
}

// NewPersistentRepository opens a leveldb-backed repository at dataPath. An
// empty path falls back to the configured storage directory.
func NewPersistentRepository(dataPath string) (Repository, error) {
	if dataPath == "" {
		dataPath = viper.GetString(common.CfgStorageDataPath)
	}
	db, err := backend.NewLDBDatabase(dataPath, 0, 0)
	if err != nil {
		return nil, err
	}
	return NewRepository(db), nil
}

func swapKey(id string) common.Bytes {
	return common.Bytes(swapKeyPrefix + id)
}

func (r *kvRepository) GetSwap(id string) (*Swap, error) {
	var record swapRecord
	err := r.store.Get(swapKey(id), &record)
	if err != nil {
		if err == store.ErrKeyNotFound {
			return nil, ErrSwapNotFound
		}
		return nil, err
	}
	return restore(record.Details, record.State, record.Lock), nil
}

func (r *kvRepository) PutSwap(sw *Swap) error {
	record := swapRecord{
		Details: sw.Details(),
		State:   sw.State(),
		Lock:    sw.LockState(),
	}
	return r.store.Put(swapKey(sw.Details().ID), record)
}

func (r *kvRepository) DeleteSwap(id string) error {
	return r.store.Delete(swapKey(id))
}

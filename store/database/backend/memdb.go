package backend

import (
	"sync"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/store"
	"github.com/crossledger/crossledger/store/database"
)

// MemDatabase is an in-memory database for testing and single-process use.
// It does not get persisted.
type MemDatabase struct {
	db   map[string][]byte
	lock sync.RWMutex
}

var _ database.Database = (*MemDatabase)(nil)

// NewMemDatabase creates an empty in-memory database.
func NewMemDatabase() *MemDatabase {
	return &MemDatabase{
		db: make(map[string][]byte),
	}
}

func (db *MemDatabase) Put(key []byte, value []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	db.db[string(key)] = common.CopyBytes(value)
	return nil
}

func (db *MemDatabase) Has(key []byte) (bool, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	_, ok := db.db[string(key)]
	return ok, nil
}

func (db *MemDatabase) Get(key []byte) ([]byte, error) {
	db.lock.RLock()
	defer db.lock.RUnlock()

	if entry, ok := db.db[string(key)]; ok {
		return common.CopyBytes(entry), nil
	}
	return nil, store.ErrKeyNotFound
}

func (db *MemDatabase) Delete(key []byte) error {
	db.lock.Lock()
	defer db.lock.Unlock()

	delete(db.db, string(key))
	return nil
}

func (db *MemDatabase) Close() {}

package backend

import (
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	leveldberrors "github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/filter"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/crossledger/crossledger/store"
	"github.com/crossledger/crossledger/store/database"
)

var logger *log.Entry = log.WithFields(log.Fields{"prefix": "store"})

// LDBDatabase is a LevelDB-backed database.
type LDBDatabase struct {
	fn string // filename for reporting
	db *leveldb.DB
}

var _ database.Database = (*LDBDatabase)(nil)

// NewLDBDatabase opens (or creates) a LevelDB database at the given path.
func NewLDBDatabase(file string, cache int, handles int) (*LDBDatabase, error) {
	if cache < 16 {
		cache = 16
	}
	if handles < 16 {
		handles = 16
	}

	// Open the db and recover any potential corruptions.
	db, err := leveldb.OpenFile(file, &opt.Options{
		OpenFilesCacheCapacity: handles,
		BlockCacheCapacity:     cache / 2 * opt.MiB,
		WriteBuffer:            cache / 4 * opt.MiB, // Two of these are used internally
		Filter:                 filter.NewBloomFilter(10),
	})
	if _, corrupted := err.(*leveldberrors.ErrCorrupted); corrupted {
		db, err = leveldb.RecoverFile(file, nil)
	}
	if err != nil {
		return nil, err
	}
	return &LDBDatabase{fn: file, db: db}, nil
}

// Path returns the path to the database directory.
func (db *LDBDatabase) Path() string {
	return db.fn
}

// Put puts the given key / value to the database.
func (db *LDBDatabase) Put(key []byte, value []byte) error {
	return db.db.Put(key, value, nil)
}

// Has checks if the given key is present in the database.
func (db *LDBDatabase) Has(key []byte) (bool, error) {
	return db.db.Has(key, nil)
}

// Get returns the given key if it is present in the database.
func (db *LDBDatabase) Get(key []byte) ([]byte, error) {
	dat, err := db.db.Get(key, nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, store.ErrKeyNotFound
		}
		return nil, err
	}
	return dat, nil
}

// Delete deletes the key from the database.
func (db *LDBDatabase) Delete(key []byte) error {
	return db.db.Delete(key, nil)
}

// Close flushes and closes the database.
func (db *LDBDatabase) Close() {
	if err := db.db.Close(); err != nil {
		logger.Errorf("Failed to close database %v: %v", db.fn, err)
		return
	}
	logger.Infof("Database %v closed", db.fn)
}

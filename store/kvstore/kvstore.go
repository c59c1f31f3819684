package kvstore

import (
	"encoding/json"

	"github.com/pkg/errors"

	"github.com/crossledger/crossledger/common"
	"github.com/crossledger/crossledger/store"
	"github.com/crossledger/crossledger/store/database"
)

// NewKVStore creates a new instance of KVStore.
func NewKVStore(db database.Database) store.Store {
	return &KVStore{db}
}

// KVStore is a database wrapped with a JSON value codec.
type KVStore struct {
	db database.Database
}

// Put upserts key/value into the DB.
func (kv *KVStore) Put(key common.Bytes, value interface{}) error {
	encodedValue, err := json.Marshal(value)
	if err != nil {
		return errors.Wrap(err, "failed to encode value")
	}
	return kv.db.Put(key, encodedValue)
}

// Delete deletes the key entry from the DB.
func (kv *KVStore) Delete(key common.Bytes) error {
	return kv.db.Delete(key)
}

// Get looks up the DB with the key and decodes the result into value (passed
// by reference).
func (kv *KVStore) Get(key common.Bytes, value interface{}) error {
	encodedValue, err := kv.db.Get(key)
	if err != nil {
		return err
	}
	return json.Unmarshal(encodedValue, value)
}

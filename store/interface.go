package store

import (
	"errors"

	"github.com/crossledger/crossledger/common"
)

// ErrKeyNotFound is returned when the key does not exist in the store.
var ErrKeyNotFound = errors.New("store: key not found")

// Store is the interface for typed key/value storage.
type Store interface {
	Put(key common.Bytes, value interface{}) error
	Delete(key common.Bytes) error
	Get(key common.Bytes, value interface{}) error
}

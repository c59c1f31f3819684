package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crossledger/crossledger/store"
	"github.com/crossledger/crossledger/store/database"
)

func testDatabase(t *testing.T, db database.Database) {
	assert := assert.New(t)

	key, value := []byte("key"), []byte("value")

	ok, err := db.Has(key)
	assert.Nil(err)
	assert.False(ok)
	_, err = db.Get(key)
	assert.ErrorIs(err, store.ErrKeyNotFound)

	assert.Nil(db.Put(key, value))
	ok, err = db.Has(key)
	assert.Nil(err)
	assert.True(ok)
	got, err := db.Get(key)
	assert.Nil(err)
	assert.Equal(value, got)

	// The stored value is a copy, not an alias.
	value[0] = 'X'
	got, err = db.Get(key)
	assert.Nil(err)
	assert.Equal([]byte("value"), got)

	assert.Nil(db.Put(key, []byte("value2")))
	got, err = db.Get(key)
	assert.Nil(err)
	assert.Equal([]byte("value2"), got)

	assert.Nil(db.Delete(key))
	ok, err = db.Has(key)
	assert.Nil(err)
	assert.False(ok)
}

func TestMemDatabase(t *testing.T) {
	testDatabase(t, NewMemDatabase())
}

func TestLDBDatabase(t *testing.T) {
	db, err := NewLDBDatabase(t.TempDir(), 0, 0)
	assert.Nil(t, err)
	defer db.Close()
	testDatabase(t, db)
}

func TestLDBDatabaseReopen(t *testing.T) {
	assert := assert.New(t)

	dir := t.TempDir()
	db, err := NewLDBDatabase(dir, 0, 0)
	assert.Nil(err)
	assert.Nil(db.Put([]byte("key"), []byte("value")))
	db.Close()

	db, err = NewLDBDatabase(dir, 0, 0)
	assert.Nil(err)
	defer db.Close()
	got, err := db.Get([]byte("key"))
	assert.Nil(err)
	assert.Equal([]byte("value"), got)
}

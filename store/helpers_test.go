package store

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest/assert"
)

// TestSliceIterator makes sure the basic slice iterator works.
func TestSliceIterator(t *testing.T) {
	ks := [][]byte{[]byte("transfers:0"), []byte("transfers:1"), []byte("transfers:2")}
	vs := [][]byte{[]byte("pending"), []byte("sent"), []byte("pending")}
	size := len(ks)

	models := make([]Model, size)
	for i := 0; i < size; i++ {
		models[i].Key = ks[i]
		models[i].Value = vs[i]
	}

	// make sure proper iteration works
	iter := NewSliceIterator(models)
	for i := 0; i < size; i++ {
		key, value, err := iter.Next()
		assert.Nil(t, err)
		assert.Equal(t, ks[i], key)
		assert.Equal(t, vs[i], value)
	}
	_, _, err := iter.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)

	it := NewSliceIterator(models)
	it.Release()
	_, _, err = it.Next()
	assert.IsErr(t, errors.ErrIteratorDone, err)
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	assert.Nil(t, db.Set([]byte("b"), []byte("2")))

	batch := NewNonAtomicBatch(db)
	assert.Nil(t, batch.Set([]byte("a"), []byte("1")))
	assert.Nil(t, batch.Delete([]byte("b")))

	// Nothing is applied before the write.
	has, err := db.Has([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, batch.Write())
	v, err := db.Get([]byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("1"), v)
	has, err = db.Has([]byte("b"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)

	assert.Nil(t, batch.Set([]byte("c"), []byte("3")))
	batch.Discard()
	assert.Nil(t, batch.Write())
	has, err = db.Has([]byte("c"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

package orm

import (
	"bytes"
	"encoding/binary"
	"math"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

const idxPrefix = "_i."

// Indexer calculates the secondary index key for a given model. Returning
// nil value means that the model is not indexed.
type Indexer func(Model) ([]byte, error)

// index represents a non unique secondary index on some data.
//
// Every indexed entity is stored as a separate database entry with the key
// built from the index value and the primary key:
//
//	_i.<bucket>_<name>:<value length, 2 bytes><value><primary key>
//
// so that all entities indexed under the same value are stored next to each
// other and ordered by their primary keys. The entry value is the primary
// key.
type index struct {
	name    string
	id      []byte
	indexer Indexer
}

func newIndex(bucket, name string, indexer Indexer) *index {
	return &index{
		name:    name,
		id:      []byte(idxPrefix + bucket + "_" + name + ":"),
		indexer: indexer,
	}
}

// valuePrefix returns the key prefix shared by all entries indexed under
// given value.
func (i *index) valuePrefix(value []byte) ([]byte, error) {
	if len(value) > math.MaxUint16 {
		return nil, errors.Wrapf(ErrInvalidIndex, "value too long: %d", len(value))
	}
	res := make([]byte, 0, len(i.id)+2+len(value))
	res = append(res, i.id...)
	var size [2]byte
	binary.BigEndian.PutUint16(size[:], uint16(len(value)))
	res = append(res, size[:]...)
	return append(res, value...), nil
}

func (i *index) valueOf(m Model) ([]byte, error) {
	if m == nil {
		return nil, nil
	}
	return i.indexer(m)
}

// update refreshes the index entry of an entity with given primary key.
//
// prev == nil means insert
// next == nil means delete
func (i *index) update(db vault.KVStore, pk []byte, prev, next Model) error {
	if prev == nil && next == nil {
		return errors.Wrap(errors.ErrHuman, "update requires at least one model")
	}
	oldValue, err := i.valueOf(prev)
	if err != nil {
		return errors.Wrap(err, "indexer")
	}
	newValue, err := i.valueOf(next)
	if err != nil {
		return errors.Wrap(err, "indexer")
	}
	if prev != nil && next != nil && bytes.Equal(oldValue, newValue) {
		return nil
	}

	if prev != nil && oldValue != nil {
		prefix, err := i.valuePrefix(oldValue)
		if err != nil {
			return err
		}
		if err := db.Delete(append(prefix, pk...)); err != nil {
			return err
		}
	}
	if next != nil && newValue != nil {
		prefix, err := i.valuePrefix(newValue)
		if err != nil {
			return err
		}
		if err := db.Set(append(prefix, pk...), pk); err != nil {
			return err
		}
	}
	return nil
}

// keys returns primary keys of all entities indexed under given value.
func (i *index) keys(db vault.ReadOnlyKVStore, value []byte) ([][]byte, error) {
	prefix, err := i.valuePrefix(value)
	if err != nil {
		return nil, err
	}
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	defer it.Release()

	var keys [][]byte
	for {
		_, pk, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return keys, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
		cpy := make([]byte, len(pk))
		copy(cpy, pk)
		keys = append(keys, cpy)
	}
}

package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// bucketQuery handles queries of all entities stored in a bucket. Returned
// models keys are the full database keys.
type bucketQuery struct {
	prefix []byte
}

var _ vault.QueryHandler = (*bucketQuery)(nil)

func (q *bucketQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	switch mod {
	case vault.KeyQueryMod:
		key := append(append([]byte{}, q.prefix...), data...)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []vault.Model{vault.Pair(key, value)}, nil
	case vault.PrefixQueryMod:
		prefix := append(append([]byte{}, q.prefix...), data...)
		return consumePrefix(db, prefix)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
}

// indexQuery returns all entities indexed under the value given as the query
// data.
type indexQuery struct {
	bucket *modelBucket
	index  *index
}

var _ vault.QueryHandler = (*indexQuery)(nil)

func (q *indexQuery) Query(db vault.ReadOnlyKVStore, mod string, data []byte) ([]vault.Model, error) {
	if mod != vault.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInput, "unknown mod: %s", mod)
	}
	keys, err := q.index.keys(db, data)
	if err != nil {
		return nil, err
	}
	res := make([]vault.Model, 0, len(keys))
	for _, pk := range keys {
		key := q.bucket.dbKey(pk)
		value, err := db.Get(key)
		if err != nil {
			return nil, err
		}
		res = append(res, vault.Pair(key, value))
	}
	return res, nil
}

// consumePrefix reads all entries with keys starting with given prefix.
func consumePrefix(db vault.ReadOnlyKVStore, prefix []byte) ([]vault.Model, error) {
	it, err := db.Iterator(prefix, prefixEnd(prefix))
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []vault.Model
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, vault.Pair(key, value))
	}
}

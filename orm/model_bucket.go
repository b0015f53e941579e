package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// ModelBucket is implemented by buckets that operates on Models.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db vault.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns nil if an entity with given primary key value exists. It
	// returns ErrNotFound if no entity can be found.
	Has(db vault.ReadOnlyKVStore, key []byte) error

	// Put saves given model in the database. All indexes are updated.
	Put(db vault.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db vault.KVStore, key []byte) error

	// All loads all stored models into given destination, in the order of
	// their keys. Keys of loaded models are returned.
	// Destination must be a pointer to a slice of models, for example
	// *[]Transfer or *[]*Transfer.
	All(db vault.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error)

	// ByIndex loads all models that are indexed under given value by the
	// index with given name. Models are ordered by their primary keys.
	ByIndex(db vault.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error)

	// Register registers this bucket and all its indexes with the query
	// router. Bucket is available under the "/<name>" path and each index
	// under the "/<name>/<index name>" path.
	Register(name string, r vault.QueryRouter)
}

var isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString

// ModelBucketOption is implemented by any function that can configure
// ModelBucket during creation.
type ModelBucketOption func(mb *modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities stored in the bucket are indexed using value returned by the
// indexer function. An indexer can return nil to not index an entity.
func WithIndex(name string, indexer Indexer) ModelBucketOption {
	return func(mb *modelBucket) {
		if _, ok := mb.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		mb.indexes[name] = newIndex(mb.name, name, indexer)
	}
}

// NewModelBucket returns a ModelBucket instance. Bucket name must be
// [a-z_]{3,10}. The model instance is used as a prototype to verify that
// loaded entities are of the right type.
func NewModelBucket(name string, m Model, opts ...ModelBucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("invalid bucket name %q", name))
	}
	mb := &modelBucket{
		name:    name,
		prefix:  []byte(name + ":"),
		model:   reflect.TypeOf(m),
		indexes: make(map[string]*index),
	}
	for _, fn := range opts {
		fn(mb)
	}
	return mb
}

type modelBucket struct {
	name    string
	prefix  []byte
	model   reflect.Type
	indexes map[string]*index
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey returns the full key as stored in the database. A new slice is
// allocated, so that the prefix cannot be modified by appending.
func (mb *modelBucket) dbKey(key []byte) []byte {
	res := make([]byte, 0, len(mb.prefix)+len(key))
	res = append(res, mb.prefix...)
	return append(res, key...)
}

func (mb *modelBucket) One(db vault.ReadOnlyKVStore, key []byte, dest Model) error {
	if !reflect.TypeOf(dest).AssignableTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "%T cannot be represented as %s", dest, mb.model)
	}
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	if err := dest.Unmarshal(raw); err != nil {
		return errors.Wrap(err, "cannot unmarshal")
	}
	return nil
}

func (mb *modelBucket) Has(db vault.ReadOnlyKVStore, key []byte) error {
	ok, err := db.Has(mb.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "cannot read from the database")
	}
	if !ok {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	return nil
}

func (mb *modelBucket) Put(db vault.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if !reflect.TypeOf(m).AssignableTo(mb.model) {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, mb.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot marshal")
	}

	if len(mb.indexes) > 0 {
		prev, err := mb.load(db, key)
		if err != nil {
			return err
		}
		for _, idx := range mb.indexes {
			if err := idx.update(db, key, prev, m); err != nil {
				return errors.Wrapf(err, "index %q", idx.name)
			}
		}
	}

	if err := db.Set(mb.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (mb *modelBucket) Delete(db vault.KVStore, key []byte) error {
	prev, err := mb.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", mb.name, key)
	}
	for _, idx := range mb.indexes {
		if err := idx.update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %q", idx.name)
		}
	}
	if err := db.Delete(mb.dbKey(key)); err != nil {
		return errors.Wrap(err, "cannot delete from the database")
	}
	return nil
}

// load returns the model stored under given key or nil if it does not
// exist.
func (mb *modelBucket) load(db vault.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(mb.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "cannot read from the database")
	}
	if raw == nil {
		return nil, nil
	}
	m := reflect.New(mb.model.Elem()).Interface().(Model)
	if err := m.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal")
	}
	return m, nil
}

func (mb *modelBucket) All(db vault.ReadOnlyKVStore, dest ModelSlicePtr) ([][]byte, error) {
	loader, err := newModelSliceLoader(dest)
	if err != nil {
		return nil, err
	}
	if !reflect.PtrTo(loader.elem).AssignableTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "%s bucket cannot load %s", mb.name, loader.elem)
	}

	it, err := db.Iterator(mb.prefix, prefixEnd(mb.prefix))
	if err != nil {
		return nil, errors.Wrap(err, "cannot iterate")
	}
	defer it.Release()

	var keys [][]byte
	for {
		key, value, err := it.Next()
		if errors.ErrIteratorDone.Is(err) {
			return keys, nil
		}
		if err != nil {
			return nil, errors.Wrap(err, "iterator")
		}
		if err := loader.load(value); err != nil {
			return nil, err
		}
		keys = append(keys, key[len(mb.prefix):])
	}
}

func (mb *modelBucket) ByIndex(db vault.ReadOnlyKVStore, indexName string, value []byte, dest ModelSlicePtr) ([][]byte, error) {
	idx, ok := mb.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "name %q", indexName)
	}
	loader, err := newModelSliceLoader(dest)
	if err != nil {
		return nil, err
	}
	if !reflect.PtrTo(loader.elem).AssignableTo(mb.model) {
		return nil, errors.Wrapf(errors.ErrType, "%s bucket cannot load %s", mb.name, loader.elem)
	}

	keys, err := idx.keys(db, value)
	if err != nil {
		return nil, err
	}
	for _, key := range keys {
		raw, err := db.Get(mb.dbKey(key))
		if err != nil {
			return nil, errors.Wrap(err, "cannot read from the database")
		}
		if raw == nil {
			return nil, errors.Wrapf(errors.ErrDatabase, "index %q points to a missing entity %X", indexName, key)
		}
		if err := loader.load(raw); err != nil {
			return nil, err
		}
	}
	return keys, nil
}

func (mb *modelBucket) Register(name string, r vault.QueryRouter) {
	r.Register("/"+name, &bucketQuery{prefix: mb.prefix})
	for _, idx := range mb.indexes {
		r.Register("/"+name+"/"+idx.name, &indexQuery{bucket: mb, index: idx})
	}
}

// prefixEnd returns the end key for a prefix scan, the smallest key that is
// greater than all keys starting with given prefix. Nil is returned if
// there is no such key.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

package utils

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct {
	onCheck   bool
	onDeliver bool
}

var _ vault.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator,
// but you must call OnCheck/OnDeliver so it will be triggered
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// OnCheck returns a savepoint that will trigger on CheckTx
func (s Savepoint) OnCheck() Savepoint {
	s.onCheck = true
	return s
}

// OnDeliver returns a savepoint that will trigger on DeliverTx
func (s Savepoint) OnDeliver() Savepoint {
	s.onDeliver = true
	return s
}

// Check will optionally set a checkpoint
func (s Savepoint) Check(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Checker) (*vault.CheckResult, error) {
	if !s.onCheck || !isCacheable(store) {
		return next.Check(ctx, store, tx)
	}
	var res *vault.CheckResult
	err := Atomically(store, func(db vault.KVStore) error {
		var err error
		res, err = next.Check(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Deliver will optionally set a checkpoint
func (s Savepoint) Deliver(ctx vault.Context, store vault.KVStore, tx vault.Tx, next vault.Deliverer) (*vault.DeliverResult, error) {
	if !s.onDeliver || !isCacheable(store) {
		return next.Deliver(ctx, store, tx)
	}
	var res *vault.DeliverResult
	err := Atomically(store, func(db vault.KVStore) error {
		var err error
		res, err = next.Deliver(ctx, db, tx)
		return err
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

// Atomically runs fn on a cache wrap of given store. Changes are written
// only if fn succeeds. ErrType is returned if the store cannot be cache
// wrapped, and fn is not called.
func Atomically(store vault.KVStore, fn func(vault.KVStore) error) error {
	cstore, ok := store.(vault.CacheableKVStore)
	if !ok {
		return errors.Wrapf(errors.ErrType, "store %T cannot be cache wrapped", store)
	}
	cache := cstore.CacheWrap()
	if err := fn(cache); err != nil {
		cache.Discard()
		return err
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "writing savepoint")
	}
	return nil
}

func isCacheable(store vault.KVStore) bool {
	_, ok := store.(vault.CacheableKVStore)
	return ok
}

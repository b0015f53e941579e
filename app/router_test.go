package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/weavetest"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	good := &weavetest.Handler{}
	bad := &weavetest.Handler{DeliverErr: errors.ErrAmount}
	r.Handle("wallet/good", good)
	r.Handle("bad", bad)

	// make sure invalid registrations panic
	assert.Panics(t, func() { r.Handle("wallet/good", good) })
	assert.Panics(t, func() { r.Handle("l:7", good) })
	assert.Panics(t, func() { r.Handle("", good) })

	ctx := context.Background()
	db := store.MemStore()

	// check proper paths work
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "wallet/good"}}
	_, err := r.Check(ctx, db, tx)
	require.NoError(t, err)
	_, err = r.Deliver(ctx, db, tx)
	require.NoError(t, err)
	assert.Equal(t, 1, good.CheckCallCount())
	assert.Equal(t, 1, good.DeliverCallCount())

	// check errors handler is also looked up
	_, err = r.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "bad"}})
	assert.True(t, errors.ErrAmount.Is(err))
	assert.Equal(t, 1, bad.DeliverCallCount())

	// make sure not found returns an error as well
	missing := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "missing"}}
	_, err = r.Deliver(ctx, db, missing)
	assert.True(t, errors.ErrNotFound.Is(err))
	_, err = r.Check(ctx, db, missing)
	assert.True(t, errors.ErrNotFound.Is(err))

	// broken transactions never reach a handler
	_, err = r.Deliver(ctx, db, &weavetest.Tx{Err: errors.ErrType})
	assert.True(t, errors.ErrType.Is(err))
	_, err = r.Check(ctx, db, &weavetest.Tx{})
	assert.True(t, errors.ErrState.Is(err))
	assert.Equal(t, 2, good.CallCount())
}

package sigs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/weavetest"
)

type signedTx struct {
	weavetest.Tx
	signers []vault.Condition
}

func (tx *signedTx) GetSigners() []vault.Condition {
	return tx.signers
}

// sigCheckHandler stores the seen signers on each call
type sigCheckHandler struct {
	Signers []vault.Condition
}

func (s *sigCheckHandler) Check(ctx vault.Context, store vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vault.CheckResult{}, nil
}

func (s *sigCheckHandler) Deliver(ctx vault.Context, store vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	s.Signers = Authenticate{}.GetConditions(ctx)
	return &vault.DeliverResult{}, nil
}

func TestDecorator(t *testing.T) {
	kv := store.MemStore()
	ctx := context.Background()
	signers := new(sigCheckHandler)
	d := NewDecorator()

	first := weavetest.NewCondition()
	second := weavetest.NewCondition()
	perms := []vault.Condition{first, second}

	deliver := func(dec vault.Decorator, my vault.Tx) error {
		_, err := dec.Deliver(ctx, kv, my, signers)
		return err
	}
	check := func(dec vault.Decorator, my vault.Tx) error {
		_, err := dec.Check(ctx, kv, my, signers)
		return err
	}

	for i, fn := range []func(vault.Decorator, vault.Tx) error{check, deliver} {
		signers.Signers = nil

		// test with no signers
		err := fn(d, &signedTx{})
		assert.True(t, errors.ErrUnauthorized.Is(err), "%d", i)

		// test with two
		err = fn(d, &signedTx{signers: perms})
		assert.NoError(t, err, "%d", i)
		assert.Equal(t, perms, signers.Signers)

		// invalid signer
		err = fn(d, &signedTx{signers: []vault.Condition{vault.Condition("foo")}})
		assert.True(t, errors.ErrInput.Is(err), "%d: %v", i, err)

		// test allowing none
		ad := d.AllowMissingSigs()
		err = fn(ad, &signedTx{})
		assert.NoError(t, err, "%d", i)
		assert.Empty(t, signers.Signers)

		// a transaction that does not declare signers
		err = fn(ad, &weavetest.Tx{})
		assert.NoError(t, err, "%d", i)
	}
}

func TestCheckCharges(t *testing.T) {
	d := NewDecorator()
	tx := &signedTx{signers: []vault.Condition{weavetest.NewCondition(), weavetest.NewCondition()}}
	res, err := d.Check(context.Background(), store.MemStore(), tx, new(sigCheckHandler))
	require.NoError(t, err)
	assert.Equal(t, int64(2*signerCost), res.GasAllocated)
}

func TestAuthenticate(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	ctx := withSigners(context.Background(), []vault.Condition{a, b})

	auth := Authenticate{}
	assert.Equal(t, []vault.Condition{a, b}, auth.GetConditions(ctx))
	assert.True(t, auth.HasAddress(ctx, a.Address()))
	assert.True(t, auth.HasAddress(ctx, b.Address()))
	assert.False(t, auth.HasAddress(ctx, weavetest.RandomAddr(t)))
	assert.Empty(t, auth.GetConditions(context.Background()))
}

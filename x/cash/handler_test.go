package cash

import (
	"context"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/weavetest"
	"github.com/iov-one/vault/weavetest/assert"
)

func TestSendHandler(t *testing.T) {
	owner := weavetest.NewCondition()
	other := weavetest.NewCondition()
	dest := weavetest.RandomAddr(t)

	cases := map[string]struct {
		signer      vault.Condition
		msg         vault.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
		wantOwner   string
		wantDest    string
	}{
		"explicit source": {
			signer: owner,
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Source:      owner.Address(),
				Destination: dest,
				Amount:      coin.NewAmount(40),
			},
			wantOwner: "60",
			wantDest:  "40",
		},
		"source defaults to the signer": {
			signer: owner,
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Destination: dest,
				Amount:      coin.NewAmount(100),
			},
			wantOwner: "0",
			wantDest:  "100",
		},
		"not signed by the source": {
			signer: other,
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Source:      owner.Address(),
				Destination: dest,
				Amount:      coin.NewAmount(40),
			},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   "100",
			wantDest:    "0",
		},
		"no signature": {
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Source:      owner.Address(),
				Destination: dest,
				Amount:      coin.NewAmount(40),
			},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantOwner:   "100",
			wantDest:    "0",
		},
		"insufficient funds": {
			signer: owner,
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Destination: dest,
				Amount:      coin.NewAmount(101),
			},
			wantDeliver: errors.ErrInsufficientAmount,
			wantOwner:   "100",
			wantDest:    "0",
		},
		"invalid message": {
			signer: owner,
			msg: &SendMsg{
				Metadata: &vault.Metadata{Schema: 1},
				Amount:   coin.NewAmount(1),
			},
			wantCheck:   errors.ErrInput,
			wantDeliver: errors.ErrInput,
			wantOwner:   "100",
			wantDest:    "0",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			auth := &weavetest.Auth{Signer: tc.signer}
			control := NewController(NewBucket())
			h := NewSendHandler(auth, control)

			db := store.MemStore()
			assert.Nil(t, control.IssueCoins(db, owner.Address(), coin.NewAmount(100)))

			tx := &weavetest.Tx{Msg: tc.msg}
			cache := db.CacheWrap()
			_, err := h.Check(context.Background(), cache, tx)
			assert.IsErr(t, tc.wantCheck, err)
			cache.Discard()

			_, err = h.Deliver(context.Background(), db, tx)
			assert.IsErr(t, tc.wantDeliver, err)

			got, err := control.Balance(db, owner.Address())
			assert.Nil(t, err)
			assert.Equal(t, tc.wantOwner, got.String())
			got, err = control.Balance(db, dest)
			assert.Nil(t, err)
			assert.Equal(t, tc.wantDest, got.String())
		})
	}
}

func TestSendMsgValidate(t *testing.T) {
	addr := weavetest.RandomAddr(t)

	cases := map[string]struct {
		msg      *SendMsg
		wantErrs map[string]*errors.Error
	}{
		"valid": {
			msg: &SendMsg{
				Metadata:    &vault.Metadata{Schema: 1},
				Destination: addr,
				Amount:      coin.NewAmount(1),
			},
			wantErrs: map[string]*errors.Error{
				"Metadata":    nil,
				"Amount":      nil,
				"Source":      nil,
				"Destination": nil,
				"Memo":        nil,
			},
		},
		"everything wrong": {
			msg: &SendMsg{
				Source: vault.Address("short"),
				Memo:   string(make([]byte, 200)),
			},
			wantErrs: map[string]*errors.Error{
				"Metadata":    errors.ErrMetadata,
				"Amount":      errors.ErrAmount,
				"Source":      errors.ErrInput,
				"Destination": errors.ErrInput,
				"Memo":        errors.ErrInput,
			},
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := tc.msg.Validate()
			for field, want := range tc.wantErrs {
				assert.FieldError(t, err, field, want)
			}
		})
	}
}

func TestSendMsgSerialization(t *testing.T) {
	msg := &SendMsg{
		Metadata:    &vault.Metadata{Schema: 1},
		Source:      weavetest.RandomAddr(t),
		Destination: weavetest.RandomAddr(t),
		Amount:      coin.MustParseAmount("1000000000000000000000000000000"),
		Memo:        "rent",
	}
	raw, err := msg.Marshal()
	assert.Nil(t, err)
	var got SendMsg
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, msg, &got)
}

package app

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest"
	"github.com/iov-one/vault/weavetest/assert"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

func TestScenario(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	c := weavetest.NewCondition()
	funder := weavetest.NewCondition()
	d := weavetest.RandomAddr(t)

	genesis := fmt.Sprintf(`{
		"cash": [{"address": %q, "amount": "1000"}],
		"gconf": {
			"wallet": {"approvers": [%q, %q, %q], "quorum": 2}
		}
	}`, funder.Address(), a.Address(), b.Address(), c.Address())
	var opts vault.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	application, err := Application("vault", log.NewNopLogger(), false)
	assert.Nil(t, err)
	assert.Nil(t, application.InitChain("test-chain", opts))

	deliver := func(signer vault.Condition, msg vault.Msg) uint32 {
		t.Helper()
		raw, err := NewTx(msg, signer).Marshal()
		assert.Nil(t, err)
		ctx := context.Background()
		check := application.CheckTx(ctx, raw)
		res := application.DeliverTx(ctx, raw)
		if check.IsOK() && !res.IsOK() && res.Code != wallet.ErrExecutionFailed.Code() {
			t.Fatalf("check passed but deliver failed: %s", res.Log)
		}
		return res.Code
	}
	meta := &vault.Metadata{Schema: 1}

	assert.Equal(t, uint32(0), deliver(funder, &wallet.DepositMsg{Metadata: meta, Amount: coin.NewAmount(1000)}))
	assert.Equal(t, uint32(0), deliver(a, &wallet.CreateTransferMsg{Metadata: meta, Amount: coin.NewAmount(1000), Destination: d}))
	assert.Equal(t, errors.ErrUnauthorized.Code(), deliver(funder, &wallet.CreateTransferMsg{Metadata: meta, Amount: coin.NewAmount(1), Destination: d}))

	assert.Equal(t, uint32(0), deliver(a, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0}))
	assert.Equal(t, wallet.ErrDuplicateApproval.Code(), deliver(a, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0}))
	assert.Equal(t, errors.ErrUnauthorized.Code(), deliver(funder, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0}))

	var state *LedgerState
	assert.Nil(t, application.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		state, err = ReadLedgerState(db)
		return err
	}))
	assert.Equal(t, 1, len(state.Transfers))
	assert.Equal(t, uint64(1), state.Transfers[0].Approvals)
	assert.Equal(t, false, state.Transfers[0].Sent)
	assert.Equal(t, "1000", state.Balance.String())

	assert.Equal(t, uint32(0), deliver(b, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0}))
	assert.Equal(t, wallet.ErrAlreadyExecuted.Code(), deliver(c, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0}))
	assert.Equal(t, errors.ErrNotFound.Code(), deliver(c, &wallet.ApproveTransferMsg{Metadata: meta, TransferID: 1}))

	assert.Nil(t, application.View(func(db vault.ReadOnlyKVStore) error {
		var err error
		state, err = ReadLedgerState(db)
		return err
	}))
	assert.Equal(t, []vault.Address{a.Address(), b.Address(), c.Address()}, state.Approvers)
	assert.Equal(t, uint64(2), state.Quorum)
	assert.Equal(t, "0", state.Balance.String())
	assert.Equal(t, uint64(2), state.Transfers[0].Approvals)
	assert.Equal(t, true, state.Transfers[0].Sent)

	res, err := application.Query("/balances", d)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	var balance cash.Balance
	assert.Nil(t, balance.Unmarshal(res[0].Value))
	assert.Equal(t, "1000", balance.Amount.String())

	res, err = application.Query("/transfers/status", []byte("sent"))
	assert.Nil(t, err)
	assert.Equal(t, 1, len(res))
	assert.Equal(t, append([]byte("transfers:"), codec.EncodeSequence(0)...), res[0].Key)
}

func TestExecutionFailureIsRolledBack(t *testing.T) {
	a := weavetest.NewCondition()
	d := weavetest.RandomAddr(t)
	genesis := fmt.Sprintf(`{"gconf": {"wallet": {"approvers": [%q], "quorum": 1}}}`, a.Address())
	var opts vault.Options
	assert.Nil(t, json.Unmarshal([]byte(genesis), &opts))

	application, err := Application("vault", log.NewNopLogger(), false)
	assert.Nil(t, err)
	assert.Nil(t, application.InitChain("test-chain", opts))

	meta := &vault.Metadata{Schema: 1}
	for _, msg := range []vault.Msg{
		&wallet.CreateTransferMsg{Metadata: meta, Amount: coin.NewAmount(5), Destination: d},
		&wallet.ApproveTransferMsg{Metadata: meta, TransferID: 0},
	} {
		raw, err := NewTx(msg, a).Marshal()
		assert.Nil(t, err)
		res := application.DeliverTx(context.Background(), raw)
		if msg.Path() == "wallet/create_transfer" {
			assert.Equal(t, uint32(0), res.Code)
		} else {
			assert.Equal(t, wallet.ErrExecutionFailed.Code(), res.Code)
		}
	}

	assert.Nil(t, application.View(func(db vault.ReadOnlyKVStore) error {
		state, err := ReadLedgerState(db)
		if err != nil {
			return err
		}
		assert.Equal(t, uint64(0), state.Transfers[0].Approvals)
		assert.Equal(t, false, state.Transfers[0].Sent)
		return nil
	}))
}

package cash

import (
	"testing"

	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCoins(t *testing.T) {
	kv := store.MemStore()
	addr := weavetest.RandomAddr(t)
	addr2 := weavetest.RandomAddr(t)

	controller := NewController(NewBucket())

	got, err := controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	require.NoError(t, controller.IssueCoins(kv, addr, coin.NewAmount(500)))
	require.NoError(t, controller.IssueCoins(kv, addr, coin.NewAmount(100)))

	got, err = controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, "600", got.String())

	got, err = controller.Balance(kv, addr2)
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	// overflow is rejected
	max := coin.MustParseAmount("115792089237316195423570985008687907853269984665640564039457584007913129639935")
	err = controller.IssueCoins(kv, addr, max)
	assert.True(t, errors.ErrOverflow.Is(err), "unexpected error: %v", err)

	got, err = controller.Balance(kv, addr)
	require.NoError(t, err)
	assert.Equal(t, "600", got.String())
}

func TestMoveCoins(t *testing.T) {
	src := weavetest.RandomAddr(t)
	dst := weavetest.RandomAddr(t)
	empty := weavetest.RandomAddr(t)

	cases := map[string]struct {
		src     []byte
		dst     []byte
		amount  coin.Amount
		wantErr *errors.Error
		wantSrc string
		wantDst string
	}{
		"move part": {
			src:     src,
			dst:     dst,
			amount:  coin.NewAmount(300),
			wantSrc: "700",
			wantDst: "300",
		},
		"move everything": {
			src:     src,
			dst:     dst,
			amount:  coin.NewAmount(1000),
			wantSrc: "0",
			wantDst: "1000",
		},
		"insufficient funds": {
			src:     src,
			dst:     dst,
			amount:  coin.NewAmount(1001),
			wantErr: errors.ErrInsufficientAmount,
			wantSrc: "1000",
			wantDst: "0",
		},
		"zero amount": {
			src:     src,
			dst:     dst,
			amount:  coin.NewAmount(0),
			wantErr: errors.ErrAmount,
			wantSrc: "1000",
			wantDst: "0",
		},
		"empty account": {
			src:     empty,
			dst:     dst,
			amount:  coin.NewAmount(1),
			wantErr: ErrEmptyAccount,
			wantSrc: "1000",
			wantDst: "0",
		},
		"move to self": {
			src:     src,
			dst:     src,
			amount:  coin.NewAmount(10),
			wantSrc: "1000",
			wantDst: "0",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			controller := NewController(NewBucket())
			require.NoError(t, controller.IssueCoins(kv, src, coin.NewAmount(1000)))

			err := controller.MoveCoins(kv, tc.src, tc.dst, tc.amount)
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)

			got, err := controller.Balance(kv, src)
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, got.String())

			got, err = controller.Balance(kv, dst)
			require.NoError(t, err)
			assert.Equal(t, tc.wantDst, got.String())
		})
	}
}

func TestBalanceModel(t *testing.T) {
	b := NewBalance(coin.MustParseAmount("340282366920938463463374607431768211456"))
	require.NoError(t, b.Validate())

	raw, err := b.Marshal()
	require.NoError(t, err)
	var got Balance
	require.NoError(t, got.Unmarshal(raw))
	assert.Equal(t, b, &got)

	cpy := b.Copy().(*Balance)
	cpy.Metadata.Schema = 7
	assert.Equal(t, uint32(1), b.Metadata.Schema)

	assert.True(t, errors.ErrMetadata.Is((&Balance{}).Validate()))
}

package utils

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/tendermint/tendermint/libs/log"
)

func TestLogging(t *testing.T) {
	cases := map[string]struct {
		handler  *weavetest.Handler
		check    bool
		wantErr  *errors.Error
		wantLine string
		wantAttr string
	}{
		"successful deliver is logged at info": {
			handler:  &weavetest.Handler{DeliverResult: vault.DeliverResult{Log: "delivered"}},
			wantLine: "I[",
			wantAttr: "delivered",
		},
		"successful check is logged at debug": {
			handler:  &weavetest.Handler{CheckResult: vault.CheckResult{Log: "checked"}},
			check:    true,
			wantLine: "D[",
			wantAttr: "checked",
		},
		"failure is logged at error": {
			handler:  &weavetest.Handler{DeliverErr: errors.ErrUnauthorized},
			wantErr:  errors.ErrUnauthorized,
			wantLine: "E[",
			wantAttr: "code=2",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var buf bytes.Buffer
			logger := log.NewTMLogger(&buf)
			ctx := vault.WithLogger(context.Background(), logger)
			tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "test/msg"}}

			var err error
			if tc.check {
				_, err = NewLogging().Check(ctx, store.MemStore(), tx, tc.handler)
			} else {
				_, err = NewLogging().Deliver(ctx, store.MemStore(), tx, tc.handler)
			}
			assert.True(t, tc.wantErr.Is(err), "unexpected error: %v", err)

			out := buf.String()
			assert.True(t, strings.HasPrefix(out, tc.wantLine), "unexpected log: %s", out)
			assert.Contains(t, out, tc.wantAttr)
			assert.Contains(t, out, "path=test/msg")
		})
	}
}

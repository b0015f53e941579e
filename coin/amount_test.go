package coin

import (
	"encoding/json"
	"flag"
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest/assert"
)

const maxUint256 = "115792089237316195423570985008687907853269984665640564039457584007913129639935"

func TestParseAmount(t *testing.T) {
	cases := map[string]struct {
		input   string
		want    string
		wantErr *errors.Error
	}{
		"zero":            {input: "0", want: "0"},
		"small":           {input: "1000", want: "1000"},
		"with spaces":     {input: " 42 ", want: "42"},
		"max value":       {input: maxUint256, want: maxUint256},
		"above max value": {input: maxUint256 + "0", wantErr: errors.ErrAmount},
		"negative":        {input: "-1", wantErr: errors.ErrAmount},
		"fraction":        {input: "1.5", wantErr: errors.ErrAmount},
		"empty":           {input: "", wantErr: errors.ErrAmount},
		"not a number":    {input: "ten", wantErr: errors.ErrAmount},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := ParseAmount(tc.input)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestAmountArithmetic(t *testing.T) {
	max := MustParseAmount(maxUint256)

	cases := map[string]struct {
		op      func() (Amount, error)
		want    string
		wantErr *errors.Error
	}{
		"add": {
			op:   func() (Amount, error) { return NewAmount(1000).Add(NewAmount(234)) },
			want: "1234",
		},
		"add to zero value": {
			op:   func() (Amount, error) { return Amount{}.Add(NewAmount(7)) },
			want: "7",
		},
		"add overflow": {
			op:      func() (Amount, error) { return max.Add(NewAmount(1)) },
			wantErr: errors.ErrOverflow,
		},
		"sub": {
			op:   func() (Amount, error) { return NewAmount(1000).Sub(NewAmount(1000)) },
			want: "0",
		},
		"sub below zero": {
			op:      func() (Amount, error) { return NewAmount(999).Sub(NewAmount(1000)) },
			wantErr: errors.ErrInsufficientAmount,
		},
		"sub beyond uint64": {
			op:   func() (Amount, error) { return max.Sub(max) },
			want: "0",
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := tc.op()
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, got.String())
			}
		})
	}
}

func TestAmountCompare(t *testing.T) {
	a, b := NewAmount(1), NewAmount(2)
	assert.Equal(t, -1, a.Cmp(b))
	assert.Equal(t, 1, b.Cmp(a))
	assert.Equal(t, 0, a.Cmp(NewAmount(1)))
	assert.Equal(t, true, b.IsGTE(a))
	assert.Equal(t, true, a.IsGTE(a))
	assert.Equal(t, false, a.IsGTE(b))
	assert.Equal(t, true, Amount{}.IsZero())
	assert.Equal(t, true, NewAmount(5).Equals(MustParseAmount("5")))
}

func TestAmountBytes(t *testing.T) {
	assert.Equal(t, 0, len(Amount{}.Bytes()))

	for _, s := range []string{"1", "1000", maxUint256} {
		a := MustParseAmount(s)
		got, err := AmountFromBytes(a.Bytes())
		assert.Nil(t, err)
		assert.Equal(t, s, got.String())
	}

	_, err := AmountFromBytes(make([]byte, 33))
	assert.IsErr(t, errors.ErrOverflow, err)
}

func TestAmountJSON(t *testing.T) {
	raw, err := json.Marshal(NewAmount(100000))
	assert.Nil(t, err)
	assert.Equal(t, `"100000"`, string(raw))

	cases := map[string]struct {
		raw     string
		want    string
		wantErr *errors.Error
	}{
		"string":       {raw: `"1000"`, want: "1000"},
		"number":       {raw: `1000`, want: "1000"},
		"big string":   {raw: `"` + maxUint256 + `"`, want: maxUint256},
		"negative":     {raw: `-5`, wantErr: errors.ErrAmount},
		"float number": {raw: `1.5`, wantErr: errors.ErrAmount},
		"object":       {raw: `{}`, wantErr: errors.ErrAmount},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a Amount
			err := json.Unmarshal([]byte(tc.raw), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
			if tc.wantErr == nil {
				assert.Equal(t, tc.want, a.String())
			}
		})
	}
}

func TestAmountFlag(t *testing.T) {
	var a Amount
	fl := flag.NewFlagSet("test", flag.ContinueOnError)
	fl.Var(&a, "amount", "")
	assert.Nil(t, fl.Parse([]string{"-amount", "250"}))
	assert.Equal(t, "250", a.String())
}

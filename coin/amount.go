package coin

import (
	"encoding/json"
	"strings"

	"github.com/holiman/uint256"
	"github.com/iov-one/vault/errors"
)

// Amount is an unsigned quantity of the single unit of account. It can
// represent any value up to 2^256-1 and all operations are exact.
//
// The zero value is a valid zero amount. Amount is immutable: operations
// return a new instance.
type Amount struct {
	v uint256.Int
}

// NewAmount returns an amount of given value.
func NewAmount(v uint64) Amount {
	var a Amount
	a.v.SetUint64(v)
	return a
}

// ParseAmount parse an amount from its decimal representation.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, errors.Wrap(errors.ErrAmount, "empty")
	}
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return Amount{}, errors.Wrapf(errors.ErrAmount, "cannot parse %q: %s", s, err)
	}
	return Amount{v: *v}, nil
}

// MustParseAmount is ParseAmount that panics on error. Use it only with
// constant input.
func MustParseAmount(s string) Amount {
	a, err := ParseAmount(s)
	if err != nil {
		panic(err)
	}
	return a
}

// AmountFromBytes decodes the big endian representation of an amount.
func AmountFromBytes(b []byte) (Amount, error) {
	if len(b) > 32 {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%d bytes amount", len(b))
	}
	var a Amount
	a.v.SetBytes(b)
	return a, nil
}

// Bytes returns the minimal big endian representation of the amount. Zero is
// represented by an empty slice.
func (a Amount) Bytes() []byte {
	if a.v.IsZero() {
		return nil
	}
	return a.v.Bytes()
}

// Add returns the sum of both amounts. ErrOverflow is returned if the result
// cannot be represented.
func (a Amount) Add(o Amount) (Amount, error) {
	var res Amount
	if _, overflow := res.v.AddOverflow(&a.v, &o.v); overflow {
		return Amount{}, errors.Wrapf(errors.ErrOverflow, "%s + %s", a, o)
	}
	return res, nil
}

// Sub returns the difference of both amounts. ErrInsufficientAmount is
// returned if o is greater than a, because an amount cannot be negative.
func (a Amount) Sub(o Amount) (Amount, error) {
	var res Amount
	if _, underflow := res.v.SubOverflow(&a.v, &o.v); underflow {
		return Amount{}, errors.Wrapf(errors.ErrInsufficientAmount, "%s - %s", a, o)
	}
	return res, nil
}

// Cmp compares two amounts and returns -1 if a < o, 0 if a == o and 1 if
// a > o.
func (a Amount) Cmp(o Amount) int {
	return a.v.Cmp(&o.v)
}

// Equals returns true if both amounts represent the same value.
func (a Amount) Equals(o Amount) bool {
	return a.v.Eq(&o.v)
}

// IsZero returns true for the zero amount.
func (a Amount) IsZero() bool {
	return a.v.IsZero()
}

// IsGTE returns true if a is at least as large as o.
func (a Amount) IsGTE(o Amount) bool {
	return !a.v.Lt(&o.v)
}

// String returns the exact decimal representation.
func (a Amount) String() string {
	return a.v.Dec()
}

// Set implements flag.Value interface.
func (a *Amount) Set(s string) error {
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// MarshalJSON encodes the amount as a decimal string, so that no precision is
// lost by clients that represent numbers as floats.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts both a decimal string and a JSON number.
func (a *Amount) UnmarshalJSON(raw []byte) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			return errors.Wrap(errors.ErrAmount, "amount must be a decimal string or number")
		}
		s = n.String()
	}
	v, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

const maxMemoSize int = 128

// SendMsg moves value from the source account to the destination account.
type SendMsg struct {
	Metadata    *vault.Metadata `json:"metadata"`
	Source      vault.Address   `json:"source,omitempty"`
	Destination vault.Address   `json:"destination"`
	Amount      coin.Amount     `json:"amount"`
	Memo        string          `json:"memo,omitempty"`
}

var _ vault.Msg = (*SendMsg)(nil)

// Path returns the routing path for this message
func (SendMsg) Path() string {
	return "cash/send"
}

// Validate makes sure that this is sensible
func (m *SendMsg) Validate() error {
	errs := errors.AppendField(nil, "Metadata", m.Metadata.Validate())
	if m.Amount.IsZero() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	// Source is optional and defaults to the main signer.
	if len(m.Source) != 0 {
		errs = errors.AppendField(errs, "Source", m.Source.Validate())
	}
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	if len(m.Memo) > maxMemoSize {
		errs = errors.AppendField(errs, "Memo", errors.Wrap(errors.ErrInput, "memo too long"))
	}
	return errs
}

// DefaultSource makes sure there is a payer.
// If it was already set, returns m.
// If none was set, returns a new SendMsg with the source set
func (m *SendMsg) DefaultSource(addr vault.Address) *SendMsg {
	if len(m.Source) != 0 {
		return m
	}
	cpy := *m
	cpy.Source = addr
	return &cpy
}

func (m *SendMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	w.BytesField(2, m.Source)
	w.BytesField(3, m.Destination)
	w.BytesField(4, m.Amount.Bytes())
	w.String(5, m.Memo)
	return w.Bytes(), nil
}

func (m *SendMsg) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			m.Metadata = &vault.Metadata{}
			err = r.Message(m.Metadata)
		case 2:
			m.Source, err = r.Bytes()
		case 3:
			m.Destination, err = r.Bytes()
		case 4:
			var b []byte
			if b, err = r.Bytes(); err == nil {
				m.Amount, err = coin.AmountFromBytes(b)
			}
		case 5:
			m.Memo, err = r.String()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "send msg")
		}
	}
}

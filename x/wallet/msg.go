package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

var (
	_ vault.Msg = (*CreateTransferMsg)(nil)
	_ vault.Msg = (*ApproveTransferMsg)(nil)
	_ vault.Msg = (*DepositMsg)(nil)
)

// CreateTransferMsg requests a new transfer from the wallet. Only an
// approver can sign it.
type CreateTransferMsg struct {
	Metadata    *vault.Metadata `json:"metadata"`
	Amount      coin.Amount     `json:"amount"`
	Destination vault.Address   `json:"destination"`
}

func (CreateTransferMsg) Path() string {
	return "wallet/create_transfer"
}

// Validate accepts any amount, including zero.
func (m *CreateTransferMsg) Validate() error {
	errs := errors.AppendField(nil, "Metadata", m.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", m.Destination.Validate())
	return errs
}

func (m *CreateTransferMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	w.BytesField(2, m.Amount.Bytes())
	w.BytesField(3, m.Destination)
	return w.Bytes(), nil
}

func (m *CreateTransferMsg) Unmarshal(raw []byte) error {
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
			var b []byte
			if b, err = r.Bytes(); err == nil {
				m.Amount, err = coin.AmountFromBytes(b)
			}
		case 3:
			m.Destination, err = r.Bytes()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "create transfer msg")
		}
	}
}

// ApproveTransferMsg approves a transfer on behalf of the signer.
type ApproveTransferMsg struct {
	Metadata   *vault.Metadata `json:"metadata"`
	TransferID uint64          `json:"transfer_id"`
}

func (ApproveTransferMsg) Path() string {
	return "wallet/approve_transfer"
}

// Validate checks the metadata only. Any id is well formed and the
// existence of the transfer is checked by the handler.
func (m *ApproveTransferMsg) Validate() error {
	return errors.AppendField(nil, "Metadata", m.Metadata.Validate())
}

func (m *ApproveTransferMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	w.Uint64(2, m.TransferID)
	return w.Bytes(), nil
}

func (m *ApproveTransferMsg) Unmarshal(raw []byte) error {
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
			m.TransferID, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "approve transfer msg")
		}
	}
}

// DepositMsg moves value from the signer account to the wallet.
type DepositMsg struct {
	Metadata *vault.Metadata `json:"metadata"`
	Amount   coin.Amount     `json:"amount"`
}

func (DepositMsg) Path() string {
	return "wallet/deposit"
}

func (m *DepositMsg) Validate() error {
	errs := errors.AppendField(nil, "Metadata", m.Metadata.Validate())
	if m.Amount.IsZero() {
		errs = errors.AppendField(errs, "Amount", errors.Wrap(errors.ErrAmount, "must be positive"))
	}
	return errs
}

func (m *DepositMsg) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, m.Metadata); err != nil {
		return nil, err
	}
	w.BytesField(2, m.Amount.Bytes())
	return w.Bytes(), nil
}

func (m *DepositMsg) Unmarshal(raw []byte) error {
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
			var b []byte
			if b, err = r.Bytes(); err == nil {
				m.Amount, err = coin.AmountFromBytes(b)
			}
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "deposit msg")
		}
	}
}

package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
)

const packageName = "wallet"

// Configuration holds the approver registry and the quorum. It is stored
// once and never changes.
type Configuration struct {
	Metadata *vault.Metadata `json:"metadata,omitempty"`
	// Approvers in the registration order.
	Approvers []vault.Address `json:"approvers"`
	// Quorum is the number of distinct approvals required to execute a
	// transfer.
	Quorum uint64 `json:"quorum"`
}

var _ gconf.Configuration = (*Configuration)(nil)

func (c *Configuration) Validate() error {
	errs := errors.AppendField(nil, "Metadata", c.Metadata.Validate())
	if len(c.Approvers) == 0 {
		errs = errors.AppendField(errs, "Approvers", errors.Wrap(errors.ErrEmpty, "at least one approver required"))
	}
	for i, a := range c.Approvers {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, "Approvers", errors.Wrapf(err, "approver %d", i))
			continue
		}
		for j := 0; j < i; j++ {
			if a.Equals(c.Approvers[j]) {
				errs = errors.AppendField(errs, "Approvers", errors.Wrapf(errors.ErrDuplicate, "approver %d repeats approver %d", i, j))
				break
			}
		}
	}
	if c.Quorum < 1 || c.Quorum > uint64(len(c.Approvers)) {
		errs = errors.AppendField(errs, "Quorum", errors.Wrapf(errors.ErrInput,
			"quorum %d must be between 1 and %d", c.Quorum, len(c.Approvers)))
	}
	return errs
}

// IsApprover returns true if given address is a registered approver.
func (c *Configuration) IsApprover(addr vault.Address) bool {
	for _, a := range c.Approvers {
		if a.Equals(addr) {
			return true
		}
	}
	return false
}

func (c *Configuration) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, c.Metadata); err != nil {
		return nil, err
	}
	approvers := make([][]byte, len(c.Approvers))
	for i, a := range c.Approvers {
		approvers[i] = a
	}
	w.RepeatedBytes(2, approvers)
	w.Uint64(3, c.Quorum)
	return w.Bytes(), nil
}

func (c *Configuration) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			c.Metadata = &vault.Metadata{}
			err = r.Message(c.Metadata)
		case 2:
			var a []byte
			if a, err = r.Bytes(); err == nil {
				c.Approvers = append(c.Approvers, a)
			}
		case 3:
			c.Quorum, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "configuration")
		}
	}
}

func loadConfiguration(db gconf.ReadStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, packageName, &conf); err != nil {
		if errors.ErrNotFound.Is(err) {
			return nil, errors.Wrap(errors.ErrState, "wallet is not initialized")
		}
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}

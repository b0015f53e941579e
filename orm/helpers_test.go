package orm

import (
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
)

// Counter is a model used only in tests.
type Counter struct {
	Count uint64
	Label string
}

var _ Model = (*Counter)(nil)

func (c *Counter) Validate() error {
	if c.Label == "invalid" {
		return errors.Wrap(errors.ErrModel, "invalid label")
	}
	return nil
}

func (c *Counter) Copy() Model {
	cpy := *c
	return &cpy
}

func (c *Counter) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	w.Uint64(1, c.Count)
	w.String(2, c.Label)
	return w.Bytes(), nil
}

func (c *Counter) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			c.Count, err = r.Uint64()
		case 2:
			c.Label, err = r.String()
		default:
			err = r.Skip()
		}
		if err != nil {
			return err
		}
	}
}

// Other is a model that cannot be stored in a counter bucket.
type Other struct {
	Counter
}

func counterByLabel(m Model) ([]byte, error) {
	c, ok := m.(*Counter)
	if !ok {
		return nil, errors.Wrapf(errors.ErrType, "%T", m)
	}
	if c.Label == "" {
		return nil, nil
	}
	return []byte(c.Label), nil
}

package vault

import (
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
)

// Metadata is included in every persisted model and message. Schema is the
// version of the data layout and must be set.
type Metadata struct {
	Schema uint32 `json:"schema"`
}

// Validate returns an error if the schema version is not set.
func (m *Metadata) Validate() error {
	if m == nil {
		return errors.Wrap(errors.ErrMetadata, "missing")
	}
	if m.Schema < 1 {
		return errors.Wrap(errors.ErrMetadata, "schema version must be at least 1")
	}
	return nil
}

// Copy returns a copy of this object. This method is helpful when implementing
// orm.Model interface to make a copy of the header.
func (m *Metadata) Copy() *Metadata {
	if m == nil {
		return nil
	}
	cpy := *m
	return &cpy
}

func (m *Metadata) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	w.Uint32(1, m.Schema)
	return w.Bytes(), nil
}

func (m *Metadata) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			m.Schema, err = r.Uint32()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "metadata")
		}
	}
}

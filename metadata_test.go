package vault

import (
	"testing"

	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest/assert"
)

func TestMetadata(t *testing.T) {
	var empty *Metadata
	assert.IsErr(t, errors.ErrMetadata, empty.Validate())
	assert.IsErr(t, errors.ErrMetadata, (&Metadata{}).Validate())
	assert.Nil(t, (&Metadata{Schema: 1}).Validate())

	m := &Metadata{Schema: 3}
	cpy := m.Copy()
	cpy.Schema = 4
	assert.Equal(t, uint32(3), m.Schema)

	raw, err := m.Marshal()
	assert.Nil(t, err)
	var got Metadata
	assert.Nil(t, got.Unmarshal(raw))
	assert.Equal(t, *m, got)
}

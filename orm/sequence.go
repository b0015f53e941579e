package orm

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
//
// The first value returned is 0. A value is never returned twice.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal returns the current sequence value as 8 bytes and increments the
// sequence.
func (s *Sequence) NextVal(db vault.KVStore) ([]byte, error) {
	val, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return codec.EncodeSequence(val), nil
}

// NextInt returns the current sequence value and increments the sequence.
func (s *Sequence) NextInt(db vault.KVStore) (uint64, error) {
	val, err := s.Latest(db)
	if err != nil {
		return 0, err
	}
	if val == ^uint64(0) {
		return 0, errors.Wrap(errors.ErrOverflow, "sequence exhausted")
	}
	if err := db.Set(s.id, codec.EncodeSequence(val+1)); err != nil {
		return 0, errors.Wrap(err, "cannot store sequence")
	}
	return val, nil
}

// Latest returns the value that will be returned by the next NextInt call,
// which is also the number of values returned so far. This method does not
// modify the sequence state.
func (s *Sequence) Latest(db vault.ReadOnlyKVStore) (uint64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, errors.Wrap(err, "cannot read sequence")
	}
	if raw == nil {
		return 0, nil
	}
	val, err := codec.DecodeSequence(raw)
	if err != nil {
		return 0, errors.Wrap(err, "corrupted sequence")
	}
	return val, nil
}

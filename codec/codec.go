/*
Package codec provides protobuf wire format encoding for models and messages.

Persistent types implement Marshal and Unmarshal by writing their fields in
order with a Writer and reading them back with a Reader. The produced bytes
are a valid protobuf message, so any protobuf client can decode the state.
Unknown fields are skipped on read.
*/
package codec

import (
	"encoding/binary"
	"math"
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault/errors"
)

// Wire types as declared by the protobuf encoding.
const (
	WireVarint  = proto.WireVarint
	WireFixed64 = proto.WireFixed64
	WireBytes   = proto.WireBytes
	WireFixed32 = proto.WireFixed32
)

// Writer appends protobuf encoded fields to a buffer. Zero values are not
// written, as protobuf 3 does.
type Writer struct {
	buf *proto.Buffer
}

// NewWriter returns a writer with an empty buffer.
func NewWriter() *Writer {
	return &Writer{buf: proto.NewBuffer(nil)}
}

// Bytes returns the encoded data.
func (w *Writer) Bytes() []byte {
	return w.buf.Bytes()
}

func (w *Writer) tag(field int, wire int) {
	_ = w.buf.EncodeVarint(uint64(field)<<3 | uint64(wire))
}

// Uint64 writes a varint field.
func (w *Writer) Uint64(field int, v uint64) {
	if v == 0 {
		return
	}
	w.tag(field, WireVarint)
	_ = w.buf.EncodeVarint(v)
}

// Uint32 writes a varint field.
func (w *Writer) Uint32(field int, v uint32) {
	w.Uint64(field, uint64(v))
}

// Bool writes a varint field with value 1 for true.
func (w *Writer) Bool(field int, v bool) {
	if v {
		w.Uint64(field, 1)
	}
}

// BytesField writes a length delimited field.
func (w *Writer) BytesField(field int, v []byte) {
	if len(v) == 0 {
		return
	}
	w.tag(field, WireBytes)
	_ = w.buf.EncodeRawBytes(v)
}

// String writes a length delimited field.
func (w *Writer) String(field int, v string) {
	if v == "" {
		return
	}
	w.tag(field, WireBytes)
	_ = w.buf.EncodeStringBytes(v)
}

// RepeatedBytes writes one length delimited field for every element. Empty
// elements are preserved.
func (w *Writer) RepeatedBytes(field int, vs [][]byte) {
	for _, v := range vs {
		w.tag(field, WireBytes)
		_ = w.buf.EncodeRawBytes(v)
	}
}

// Marshaler is implemented by every type that can be encoded as a nested
// message.
type Marshaler interface {
	Marshal() ([]byte, error)
}

// Message writes a nested message. Nil messages are not written.
func (w *Writer) Message(field int, m Marshaler) error {
	if m == nil || isNilPtr(m) {
		return nil
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrapf(err, "field %d", field)
	}
	w.tag(field, WireBytes)
	return w.buf.EncodeRawBytes(raw)
}

// Reader iterates over protobuf encoded fields.
type Reader struct {
	rest  []byte
	wire  int
	value *proto.Buffer
}

// NewReader returns a reader of given protobuf encoded data.
func NewReader(raw []byte) *Reader {
	return &Reader{rest: raw}
}

// Next returns the number of the next field. False is returned when there
// are no more fields to read. The field value can be read with one of the
// read methods. A value that is not read is skipped.
func (r *Reader) Next() (int, bool, error) {
	if len(r.rest) == 0 {
		return 0, false, nil
	}
	key, n := proto.DecodeVarint(r.rest)
	if n == 0 {
		return 0, false, errors.Wrap(errors.ErrInput, "malformed field key")
	}
	field := int(key >> 3)
	if field <= 0 {
		return 0, false, errors.Wrapf(errors.ErrInput, "illegal field number %d", field)
	}
	r.wire = int(key & 0x7)
	r.rest = r.rest[n:]

	size, err := r.valueSize()
	if err != nil {
		return 0, false, err
	}
	r.value = proto.NewBuffer(r.rest[:size])
	r.rest = r.rest[size:]
	return field, true, nil
}

// valueSize returns the number of bytes the current field value takes,
// including the length prefix of length delimited values.
func (r *Reader) valueSize() (int, error) {
	var size int
	switch r.wire {
	case WireVarint:
		if _, n := proto.DecodeVarint(r.rest); n > 0 {
			size = n
		} else {
			return 0, errors.Wrap(errors.ErrInput, "malformed varint")
		}
	case WireBytes:
		l, n := proto.DecodeVarint(r.rest)
		if n == 0 {
			return 0, errors.Wrap(errors.ErrInput, "malformed length")
		}
		if l > uint64(len(r.rest)-n) {
			return 0, errors.Wrap(errors.ErrInput, "unexpected end of data")
		}
		size = n + int(l)
	case WireFixed64:
		size = 8
	case WireFixed32:
		size = 4
	default:
		return 0, errors.Wrapf(errors.ErrType, "unsupported wire type %d", r.wire)
	}
	if size > len(r.rest) {
		return 0, errors.Wrap(errors.ErrInput, "unexpected end of data")
	}
	return size, nil
}

// Uint64 reads a varint value.
func (r *Reader) Uint64() (uint64, error) {
	if r.wire != WireVarint {
		return 0, errors.Wrapf(errors.ErrType, "wire type %d is not varint", r.wire)
	}
	v, err := r.value.DecodeVarint()
	if err != nil {
		return 0, errors.Wrap(errors.ErrInput, err.Error())
	}
	return v, nil
}

// Uint32 reads a varint value that must fit 32 bits.
func (r *Reader) Uint32() (uint32, error) {
	v, err := r.Uint64()
	if err != nil {
		return 0, err
	}
	if v > math.MaxUint32 {
		return 0, errors.Wrap(errors.ErrOverflow, "uint32 value")
	}
	return uint32(v), nil
}

// Bool reads a varint value as a boolean.
func (r *Reader) Bool() (bool, error) {
	v, err := r.Uint64()
	return v != 0, err
}

// Bytes reads a length delimited value. Returned slice is a copy.
func (r *Reader) Bytes() ([]byte, error) {
	if r.wire != WireBytes {
		return nil, errors.Wrapf(errors.ErrType, "wire type %d is not length delimited", r.wire)
	}
	v, err := r.value.DecodeRawBytes(true)
	if err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	return v, nil
}

// String reads a length delimited value.
func (r *Reader) String() (string, error) {
	if r.wire != WireBytes {
		return "", errors.Wrapf(errors.ErrType, "wire type %d is not length delimited", r.wire)
	}
	v, err := r.value.DecodeStringBytes()
	if err != nil {
		return "", errors.Wrap(errors.ErrInput, err.Error())
	}
	return v, nil
}

// Unmarshaler is implemented by every type that can be decoded from a
// nested message.
type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Message reads a nested message into given destination.
func (r *Reader) Message(dst Unmarshaler) error {
	raw, err := r.Bytes()
	if err != nil {
		return err
	}
	return dst.Unmarshal(raw)
}

// Skip drops the current field value. Next skips values that were not read,
// so calling Skip is optional.
func (r *Reader) Skip() error {
	r.value = nil
	return nil
}

// EncodeSequence returns the 8 byte big endian representation of given
// value. This is the format used for all sequence based keys, so that the
// lexicographical order of keys is the numerical order of values.
func EncodeSequence(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// DecodeSequence reverts EncodeSequence.
func DecodeSequence(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, errors.Wrapf(errors.ErrInput, "sequence must be 8 bytes, got %d", len(b))
	}
	return binary.BigEndian.Uint64(b), nil
}

func isNilPtr(v interface{}) bool {
	val := reflect.ValueOf(v)
	return val.Kind() == reflect.Ptr && val.IsNil()
}

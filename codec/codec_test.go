package codec

import (
	"testing"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/weavetest/assert"
)

type point struct {
	X, Y uint64
}

func (p *point) Marshal() ([]byte, error) {
	w := NewWriter()
	w.Uint64(1, p.X)
	w.Uint64(2, p.Y)
	return w.Bytes(), nil
}

func (p *point) Unmarshal(raw []byte) error {
	r := NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			p.X, err = r.Uint64()
		case 2:
			p.Y, err = r.Uint64()
		default:
			err = r.Skip()
		}
		if err != nil {
			return err
		}
	}
}

func TestWriterReader(t *testing.T) {
	w := NewWriter()
	w.Uint64(1, 300)
	w.String(2, "hello")
	w.Bool(3, true)
	w.RepeatedBytes(4, [][]byte{[]byte("a"), nil, []byte("bc")})
	assert.Nil(t, w.Message(5, &point{X: 1, Y: 2}))
	w.Uint64(99, 7)

	var (
		num      uint64
		str      string
		flag     bool
		repeated [][]byte
		p        point
	)
	r := NewReader(w.Bytes())
	for {
		field, ok, err := r.Next()
		assert.Nil(t, err)
		if !ok {
			break
		}
		switch field {
		case 1:
			num, err = r.Uint64()
		case 2:
			str, err = r.String()
		case 3:
			flag, err = r.Bool()
		case 4:
			var b []byte
			b, err = r.Bytes()
			repeated = append(repeated, b)
		case 5:
			err = r.Message(&p)
		default:
			err = r.Skip()
		}
		assert.Nil(t, err)
	}

	assert.Equal(t, uint64(300), num)
	assert.Equal(t, "hello", str)
	assert.Equal(t, true, flag)
	assert.Equal(t, 3, len(repeated))
	assert.Equal(t, "bc", string(repeated[2]))
	assert.Equal(t, point{X: 1, Y: 2}, p)
}

func TestWriterMatchesProtoBuffer(t *testing.T) {
	w := NewWriter()
	w.Uint64(1, 300)
	w.String(2, "hello")
	assert.Nil(t, w.Message(3, &point{X: 5}))

	want := proto.NewBuffer(nil)
	assert.Nil(t, want.EncodeVarint(1<<3|proto.WireVarint))
	assert.Nil(t, want.EncodeVarint(300))
	assert.Nil(t, want.EncodeVarint(2<<3|proto.WireBytes))
	assert.Nil(t, want.EncodeStringBytes("hello"))
	assert.Nil(t, want.EncodeVarint(3<<3|proto.WireBytes))
	assert.Nil(t, want.EncodeRawBytes([]byte{1 << 3, 5}))
	assert.Equal(t, want.Bytes(), w.Bytes())
}

func TestZeroValuesAreNotWritten(t *testing.T) {
	w := NewWriter()
	w.Uint64(1, 0)
	w.String(2, "")
	w.Bool(3, false)
	assert.Nil(t, w.Message(4, (*point)(nil)))
	assert.Equal(t, 0, len(w.Bytes()))
}

func TestReaderErrors(t *testing.T) {
	cases := map[string]struct {
		raw     []byte
		read    func(*Reader) error
		wantErr *errors.Error
	}{
		"truncated bytes": {
			raw: []byte{0x0a, 0x05, 'a'},
			read: func(r *Reader) error {
				_, err := r.Bytes()
				return err
			},
			wantErr: errors.ErrInput,
		},
		"wrong wire type": {
			raw: []byte{0x08, 0x01},
			read: func(r *Reader) error {
				_, err := r.Bytes()
				return err
			},
			wantErr: errors.ErrType,
		},
		"unsupported wire type": {
			raw:     []byte{0x0b, 0x0c},
			read:    func(r *Reader) error { return nil },
			wantErr: errors.ErrType,
		},
		"malformed key": {
			raw:     []byte{0x80},
			read:    func(r *Reader) error { return nil },
			wantErr: errors.ErrInput,
		},
		"uint32 overflow": {
			raw: append([]byte{0x08}, []byte{0xff, 0xff, 0xff, 0xff, 0x1f}...),
			read: func(r *Reader) error {
				_, err := r.Uint32()
				return err
			},
			wantErr: errors.ErrOverflow,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			r := NewReader(tc.raw)
			_, _, err := r.Next()
			if err == nil {
				err = tc.read(r)
			}
			if !tc.wantErr.Is(err) {
				t.Fatalf("unexpected error: %+v", err)
			}
		})
	}
}

func TestUnreadValuesAreSkipped(t *testing.T) {
	w := NewWriter()
	w.String(1, "ignored")
	w.Uint64(2, 42)
	w.BytesField(3, []byte("also ignored"))
	w.Uint64(4, 7)

	var got []uint64
	r := NewReader(w.Bytes())
	for {
		field, ok, err := r.Next()
		assert.Nil(t, err)
		if !ok {
			break
		}
		if field%2 == 0 {
			v, err := r.Uint64()
			assert.Nil(t, err)
			got = append(got, v)
		}
	}
	assert.Equal(t, []uint64{42, 7}, got)
}

func TestSequence(t *testing.T) {
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 1}, EncodeSequence(1))
	v, err := DecodeSequence(EncodeSequence(1 << 40))
	assert.Nil(t, err)
	assert.Equal(t, uint64(1<<40), v)

	if _, err := DecodeSequence([]byte{1}); !errors.ErrInput.Is(err) {
		t.Fatalf("unexpected error: %+v", err)
	}
}

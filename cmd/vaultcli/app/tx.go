package app

import (
	"encoding/json"
	"sort"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/wallet"
)

// msgTypes lists all messages supported by this application, by their
// path.
var msgTypes = map[string]func() vault.Msg{
	(cash.SendMsg{}).Path():              func() vault.Msg { return &cash.SendMsg{} },
	(wallet.CreateTransferMsg{}).Path():  func() vault.Msg { return &wallet.CreateTransferMsg{} },
	(wallet.ApproveTransferMsg{}).Path(): func() vault.Msg { return &wallet.ApproveTransferMsg{} },
	(wallet.DepositMsg{}).Path():         func() vault.Msg { return &wallet.DepositMsg{} },
}

// MsgPaths returns the paths of all supported messages, sorted.
func MsgPaths() []string {
	paths := make([]string, 0, len(msgTypes))
	for p := range msgTypes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

func newMsg(path string) (vault.Msg, error) {
	fn, ok := msgTypes[path]
	if !ok {
		return nil, errors.Wrapf(errors.ErrInput, "unknown message path %q", path)
	}
	return fn(), nil
}

// Tx carries a single message and the conditions of its signers. The
// first signer is the caller the message is executed for.
type Tx struct {
	Signers []vault.Condition
	Msg     vault.Msg
}

var _ vault.Tx = (*Tx)(nil)
var _ sigs.SignedTx = (*Tx)(nil)

// TxDecoder creates a Tx and unmarshals bytes into it
func TxDecoder(bz []byte) (vault.Tx, error) {
	tx := new(Tx)
	if err := tx.Unmarshal(bz); err != nil {
		return nil, err
	}
	return tx, nil
}

// NewTx returns a transaction of given message signed by given signers.
func NewTx(msg vault.Msg, signers ...vault.Condition) *Tx {
	return &Tx{Signers: signers, Msg: msg}
}

func (tx *Tx) GetMsg() (vault.Msg, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	return tx.Msg, nil
}

func (tx *Tx) GetSigners() []vault.Condition {
	return tx.Signers
}

// Marshal serializes the transaction with the message prefixed by its
// path, so that the decoder can pick the message type.
func (tx *Tx) Marshal() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	msg, err := tx.Msg.Marshal()
	if err != nil {
		return nil, errors.Wrap(err, "marshal msg")
	}
	signers := make([][]byte, len(tx.Signers))
	for i, s := range tx.Signers {
		signers[i] = s
	}
	w := codec.NewWriter()
	w.RepeatedBytes(1, signers)
	w.String(2, tx.Msg.Path())
	w.BytesField(3, msg)
	return w.Bytes(), nil
}

func (tx *Tx) Unmarshal(raw []byte) error {
	var (
		path string
		body []byte
	)
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil {
			return errors.Wrap(err, "tx")
		}
		if !ok {
			break
		}
		switch field {
		case 1:
			var s []byte
			if s, err = r.Bytes(); err == nil {
				tx.Signers = append(tx.Signers, s)
			}
		case 2:
			path, err = r.String()
		case 3:
			body, err = r.Bytes()
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "tx")
		}
	}

	msg, err := newMsg(path)
	if err != nil {
		return err
	}
	if err := msg.Unmarshal(body); err != nil {
		return errors.Wrapf(err, "unmarshal %s", path)
	}
	tx.Msg = msg
	return nil
}

type jsonMsg struct {
	Path string          `json:"path"`
	Body json.RawMessage `json:"body"`
}

type jsonTx struct {
	Signers []vault.Condition `json:"signers"`
	Msg     jsonMsg           `json:"msg"`
}

// MarshalJSON renders the transaction as
//
//	{"signers": [...], "msg": {"path": "...", "body": {...}}}
func (tx *Tx) MarshalJSON() ([]byte, error) {
	if tx.Msg == nil {
		return nil, errors.Wrap(errors.ErrState, "no message")
	}
	body, err := json.Marshal(tx.Msg)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "marshal %s: %s", tx.Msg.Path(), err)
	}
	return json.Marshal(jsonTx{
		Signers: tx.Signers,
		Msg:     jsonMsg{Path: tx.Msg.Path(), Body: body},
	})
}

func (tx *Tx) UnmarshalJSON(raw []byte) error {
	var t jsonTx
	if err := json.Unmarshal(raw, &t); err != nil {
		return errors.Wrapf(errors.ErrInput, "tx: %s", err)
	}
	msg, err := newMsg(t.Msg.Path)
	if err != nil {
		return err
	}
	if len(t.Msg.Body) != 0 {
		if err := json.Unmarshal(t.Msg.Body, msg); err != nil {
			return errors.Wrapf(errors.ErrInput, "%s: %s", t.Msg.Path, err)
		}
	}
	tx.Signers = t.Signers
	tx.Msg = msg
	return nil
}

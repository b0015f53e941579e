package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where transfers are stored.
const BucketName = "transfers"

// Index values of the status index.
var (
	statusPending = []byte("pending")
	statusSent    = []byte("sent")
)

// Transfer is a request to move value from the wallet account to the
// destination. Once sent, a transfer is never modified again.
type Transfer struct {
	Metadata *vault.Metadata `json:"metadata,omitempty"`
	// ID is assigned in the creation order, starting with 0.
	ID          uint64        `json:"id"`
	Amount      coin.Amount   `json:"amount"`
	Destination vault.Address `json:"destination"`
	// Approvals is the number of distinct approvers that approved this
	// transfer.
	Approvals uint64 `json:"approvals"`
	Sent      bool   `json:"sent"`
	// ApprovedBy lists approvers in the order of their approvals.
	ApprovedBy []vault.Address `json:"approved_by,omitempty"`
}

var _ orm.Model = (*Transfer)(nil)

func (t *Transfer) Validate() error {
	errs := errors.AppendField(nil, "Metadata", t.Metadata.Validate())
	errs = errors.AppendField(errs, "Destination", t.Destination.Validate())
	if t.Approvals != uint64(len(t.ApprovedBy)) {
		errs = errors.AppendField(errs, "Approvals", errors.Wrapf(errors.ErrState,
			"%d approvals recorded for %d approvers", t.Approvals, len(t.ApprovedBy)))
	}
	for i, a := range t.ApprovedBy {
		if err := a.Validate(); err != nil {
			errs = errors.AppendField(errs, "ApprovedBy", err)
			continue
		}
		for _, prev := range t.ApprovedBy[:i] {
			if a.Equals(prev) {
				errs = errors.AppendField(errs, "ApprovedBy", errors.Wrapf(ErrDuplicateApproval, "approver %s", a))
				break
			}
		}
	}
	return errs
}

// HasApproved returns true if given approver already approved this
// transfer.
func (t *Transfer) HasApproved(approver vault.Address) bool {
	for _, a := range t.ApprovedBy {
		if a.Equals(approver) {
			return true
		}
	}
	return false
}

func (t *Transfer) Copy() orm.Model {
	approved := make([]vault.Address, len(t.ApprovedBy))
	for i, a := range t.ApprovedBy {
		approved[i] = a.Clone()
	}
	return &Transfer{
		Metadata:    t.Metadata.Copy(),
		ID:          t.ID,
		Amount:      t.Amount,
		Destination: t.Destination.Clone(),
		Approvals:   t.Approvals,
		Sent:        t.Sent,
		ApprovedBy:  approved,
	}
}

func (t *Transfer) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, t.Metadata); err != nil {
		return nil, err
	}
	w.Uint64(2, t.ID)
	w.BytesField(3, t.Amount.Bytes())
	w.BytesField(4, t.Destination)
	w.Uint64(5, t.Approvals)
	w.Bool(6, t.Sent)
	approved := make([][]byte, len(t.ApprovedBy))
	for i, a := range t.ApprovedBy {
		approved[i] = a
	}
	w.RepeatedBytes(7, approved)
	return w.Bytes(), nil
}

func (t *Transfer) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			t.Metadata = &vault.Metadata{}
			err = r.Message(t.Metadata)
		case 2:
			t.ID, err = r.Uint64()
		case 3:
			var b []byte
			if b, err = r.Bytes(); err == nil {
				t.Amount, err = coin.AmountFromBytes(b)
			}
		case 4:
			t.Destination, err = r.Bytes()
		case 5:
			t.Approvals, err = r.Uint64()
		case 6:
			t.Sent, err = r.Bool()
		case 7:
			var b []byte
			if b, err = r.Bytes(); err == nil {
				t.ApprovedBy = append(t.ApprovedBy, b)
			}
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "transfer")
		}
	}
}

func statusIndexer(m orm.Model) ([]byte, error) {
	t, ok := m.(*Transfer)
	if !ok {
		return nil, errors.WithType(errors.ErrType, m)
	}
	if t.Sent {
		return statusSent, nil
	}
	return statusPending, nil
}

// TransferBucket stores transfers under their sequence ids.
type TransferBucket struct {
	orm.ModelBucket
	seq orm.Sequence
}

// NewTransferBucket returns a bucket with the transfers indexed by their
// status.
func NewTransferBucket() *TransferBucket {
	return &TransferBucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Transfer{},
			orm.WithIndex("status", statusIndexer)),
		seq: orm.NewSequence(BucketName, "id"),
	}
}

// Create assigns the next id to the transfer and stores it.
func (b *TransferBucket) Create(db vault.KVStore, t *Transfer) error {
	id, err := b.seq.NextInt(db)
	if err != nil {
		return errors.Wrap(err, "next id")
	}
	t.ID = id
	return b.Put(db, codec.EncodeSequence(id), t)
}

// Save stores an existing transfer.
func (b *TransferBucket) Save(db vault.KVStore, t *Transfer) error {
	return b.Put(db, codec.EncodeSequence(t.ID), t)
}

// Get returns the transfer with given id or ErrNotFound.
func (b *TransferBucket) Get(db vault.ReadOnlyKVStore, id uint64) (*Transfer, error) {
	var t Transfer
	if err := b.One(db, codec.EncodeSequence(id), &t); err != nil {
		return nil, errors.Wrapf(err, "transfer %d", id)
	}
	return &t, nil
}

// Count returns the number of created transfers.
func (b *TransferBucket) Count(db vault.ReadOnlyKVStore) (uint64, error) {
	return b.seq.Latest(db)
}

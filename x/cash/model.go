package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/orm"
)

// BucketName is where we store the balances
const BucketName = "cash"

// Balance is the amount held by a single account.
type Balance struct {
	Metadata *vault.Metadata
	Amount   coin.Amount
}

var _ orm.Model = (*Balance)(nil)

// NewBalance returns a balance holding given amount.
func NewBalance(amount coin.Amount) *Balance {
	return &Balance{
		Metadata: &vault.Metadata{Schema: 1},
		Amount:   amount,
	}
}

// Validate ensures the metadata is present.
func (b *Balance) Validate() error {
	return errors.Wrap(b.Metadata.Validate(), "metadata")
}

// Copy returns an independent copy of the balance.
func (b *Balance) Copy() orm.Model {
	return &Balance{
		Metadata: b.Metadata.Copy(),
		Amount:   b.Amount,
	}
}

func (b *Balance) Marshal() ([]byte, error) {
	w := codec.NewWriter()
	if err := w.Message(1, b.Metadata); err != nil {
		return nil, err
	}
	w.BytesField(2, b.Amount.Bytes())
	return w.Bytes(), nil
}

func (b *Balance) Unmarshal(raw []byte) error {
	r := codec.NewReader(raw)
	for {
		field, ok, err := r.Next()
		if err != nil || !ok {
			return err
		}
		switch field {
		case 1:
			b.Metadata = &vault.Metadata{}
			err = r.Message(b.Metadata)
		case 2:
			var raw []byte
			if raw, err = r.Bytes(); err == nil {
				b.Amount, err = coin.AmountFromBytes(raw)
			}
		default:
			err = r.Skip()
		}
		if err != nil {
			return errors.Wrap(err, "balance")
		}
	}
}

// Bucket is a type-safe wrapper around orm.ModelBucket
type Bucket struct {
	orm.ModelBucket
}

// NewBucket initializes a cash.Bucket with default name
func NewBucket() Bucket {
	return Bucket{
		ModelBucket: orm.NewModelBucket(BucketName, &Balance{}),
	}
}

// Get returns the balance of given account or nil if the account does
// not exist.
func (b Bucket) Get(db vault.ReadOnlyKVStore, addr vault.Address) (*Balance, error) {
	var balance Balance
	switch err := b.One(db, addr, &balance); {
	case err == nil:
		return &balance, nil
	case errors.ErrNotFound.Is(err):
		return nil, nil
	default:
		return nil, err
	}
}

// Save writes the balance of given account.
func (b Bucket) Save(db vault.KVStore, addr vault.Address, balance *Balance) error {
	if err := addr.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return b.Put(db, addr, balance)
}

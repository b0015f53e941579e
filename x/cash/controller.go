package cash

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
)

// Controller is the functionality needed by cash.Handler and cash.Initializer.
// Extensions that move value between accounts use it too.
type Controller interface {
	// Balance returns the amount held by given account. A non existing
	// account holds nothing.
	Balance(db vault.ReadOnlyKVStore, addr vault.Address) (coin.Amount, error)

	// MoveCoins moves the given amount from src to dest. If src doesn't
	// exist, or doesn't have sufficient coins, it fails.
	MoveCoins(db vault.KVStore, src, dest vault.Address, amount coin.Amount) error

	// IssueCoins adds the given amount of coins to the destination
	// address. Fails if it overflows the balance.
	IssueCoins(db vault.KVStore, dest vault.Address, amount coin.Amount) error
}

// BaseController is a simple implementation of controller
type BaseController struct {
	bucket Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller using the given bucket
func NewController(bucket Bucket) BaseController {
	return BaseController{bucket: bucket}
}

func (c BaseController) Balance(db vault.ReadOnlyKVStore, addr vault.Address) (coin.Amount, error) {
	balance, err := c.bucket.Get(db, addr)
	if err != nil {
		return coin.Amount{}, err
	}
	if balance == nil {
		return coin.Amount{}, nil
	}
	return balance.Amount, nil
}

func (c BaseController) MoveCoins(db vault.KVStore, src, dest vault.Address, amount coin.Amount) error {
	if amount.IsZero() {
		return errors.Wrap(errors.ErrAmount, "zero amount")
	}

	sender, err := c.bucket.Get(db, src)
	if err != nil {
		return errors.Wrap(err, "sender")
	}
	if sender == nil {
		return errors.Wrapf(ErrEmptyAccount, "account %s", src)
	}
	remaining, err := sender.Amount.Sub(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s holds %s, want %s", src, sender.Amount, amount)
	}
	if src.Equals(dest) {
		return nil
	}

	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient == nil {
		recipient = NewBalance(coin.Amount{})
	}
	total, err := recipient.Amount.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}

	sender.Amount = remaining
	recipient.Amount = total
	if err := c.bucket.Save(db, src, sender); err != nil {
		return errors.Wrap(err, "save sender")
	}
	if err := c.bucket.Save(db, dest, recipient); err != nil {
		return errors.Wrap(err, "save recipient")
	}
	return nil
}

func (c BaseController) IssueCoins(db vault.KVStore, dest vault.Address, amount coin.Amount) error {
	recipient, err := c.bucket.Get(db, dest)
	if err != nil {
		return errors.Wrap(err, "recipient")
	}
	if recipient == nil {
		recipient = NewBalance(coin.Amount{})
	}
	total, err := recipient.Amount.Add(amount)
	if err != nil {
		return errors.Wrapf(err, "account %s", dest)
	}
	recipient.Amount = total
	return c.bucket.Save(db, dest, recipient)
}

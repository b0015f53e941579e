package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/x/cash"
)

// Initializer reads the approver registry and the quorum from the
// "gconf" section of the genesis file.
type Initializer struct{}

var _ vault.Initializer = Initializer{}

func (Initializer) FromGenesis(opts vault.Options, db vault.KVStore) error {
	var conf Configuration
	if err := gconf.ReadConfig(opts, packageName, &conf); err != nil {
		return err
	}
	ledger := NewLedger(cash.NewController(cash.NewBucket()))
	if err := ledger.Init(db, conf.Approvers, conf.Quorum); err != nil {
		return errors.Wrap(err, "init wallet")
	}
	return nil
}

package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/gconf"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/utils"
)

var walletCondition = vault.NewCondition("wallet", "ledger", nil)

// Address returns the account that holds the wallet balance.
func Address() vault.Address {
	return walletCondition.Address()
}

// Ledger is the authorization state machine of the wallet. The caller of
// every mutating operation is passed explicitly and must be already
// authenticated.
type Ledger struct {
	cash      cash.Controller
	transfers *TransferBucket
}

// NewLedger returns a ledger that keeps the wallet balance with given
// cash controller.
func NewLedger(control cash.Controller) *Ledger {
	return &Ledger{
		cash:      control,
		transfers: NewTransferBucket(),
	}
}

// Init stores the approver registry and the quorum. It can be called only
// once.
func (l *Ledger) Init(db vault.KVStore, approvers []vault.Address, quorum uint64) error {
	switch ok, err := gconf.Exists(db, packageName); {
	case err != nil:
		return err
	case ok:
		return errors.Wrap(errors.ErrImmutable, "wallet already initialized")
	}
	conf := Configuration{
		Metadata:  &vault.Metadata{Schema: 1},
		Approvers: approvers,
		Quorum:    quorum,
	}
	return gconf.Save(db, packageName, &conf)
}

// Configuration returns the stored approver registry and quorum.
func (l *Ledger) Configuration(db vault.ReadOnlyKVStore) (*Configuration, error) {
	return loadConfiguration(db)
}

// Approvers returns the approvers in the registration order.
func (l *Ledger) Approvers(db vault.ReadOnlyKVStore) ([]vault.Address, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	return conf.Approvers, nil
}

// Quorum returns the number of approvals that executes a transfer.
func (l *Ledger) Quorum(db vault.ReadOnlyKVStore) (uint64, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return 0, err
	}
	return conf.Quorum, nil
}

// IsApprover returns true if given address is a registered approver.
func (l *Ledger) IsApprover(db vault.ReadOnlyKVStore, addr vault.Address) (bool, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return false, err
	}
	return conf.IsApprover(addr), nil
}

// Balance returns the value held by the wallet.
func (l *Ledger) Balance(db vault.ReadOnlyKVStore) (coin.Amount, error) {
	return l.cash.Balance(db, Address())
}

// Deposit moves given amount from the source account to the wallet.
func (l *Ledger) Deposit(db vault.KVStore, src vault.Address, amount coin.Amount) error {
	if err := l.cash.MoveCoins(db, src, Address(), amount); err != nil {
		return errors.Wrap(err, "deposit")
	}
	return nil
}

// CreateTransfer appends a new pending transfer. Any amount, including zero,
// and any valid destination is accepted. The wallet balance is not checked
// until the transfer is executed.
func (l *Ledger) CreateTransfer(db vault.KVStore, caller vault.Address, amount coin.Amount, to vault.Address) (*Transfer, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if !conf.IsApprover(caller) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "only approver allowed")
	}
	if err := to.Validate(); err != nil {
		return nil, errors.Wrap(err, "destination")
	}

	t := &Transfer{
		Metadata:    &vault.Metadata{Schema: 1},
		Amount:      amount,
		Destination: to,
	}
	if err := l.transfers.Create(db, t); err != nil {
		return nil, errors.Wrap(err, "create transfer")
	}
	return t, nil
}

// ApproveTransfer records the approval of the caller. The approval that
// reaches the quorum executes the transfer. If the execution fails nothing
// is written and ErrExecutionFailed is returned.
func (l *Ledger) ApproveTransfer(db vault.KVStore, caller vault.Address, id uint64) (*Transfer, error) {
	var approved *Transfer
	err := utils.Atomically(db, func(db vault.KVStore) error {
		conf, t, err := l.checkApproval(db, caller, id)
		if err != nil {
			return err
		}

		t.ApprovedBy = append(t.ApprovedBy, caller.Clone())
		t.Approvals++
		if t.Approvals >= conf.Quorum {
			if err := l.execute(db, t); err != nil {
				return errors.Wrapf(ErrExecutionFailed, "transfer %d: %s", t.ID, err)
			}
			t.Sent = true
		}
		if err := l.transfers.Save(db, t); err != nil {
			return errors.Wrap(err, "save transfer")
		}
		approved = t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return approved, nil
}

// execute moves the transfer amount out of the wallet. A zero amount
// transfer moves nothing.
func (l *Ledger) execute(db vault.KVStore, t *Transfer) error {
	if t.Amount.IsZero() {
		return nil
	}
	return l.cash.MoveCoins(db, Address(), t.Destination, t.Amount)
}

// CanApprove returns the error that approving given transfer by the
// caller would fail with, or nil. Execution failures are not detected.
func (l *Ledger) CanApprove(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) error {
	_, _, err := l.checkApproval(db, caller, id)
	return err
}

func (l *Ledger) checkApproval(db vault.ReadOnlyKVStore, caller vault.Address, id uint64) (*Configuration, *Transfer, error) {
	conf, err := loadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	t, err := l.transfers.Get(db, id)
	if err != nil {
		return nil, nil, err
	}
	if !conf.IsApprover(caller) {
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only approver allowed to call this function")
	}
	if t.Sent {
		return nil, nil, errors.Wrap(ErrAlreadyExecuted, "transfer has already been sent")
	}
	if t.HasApproved(caller) {
		return nil, nil, errors.Wrap(ErrDuplicateApproval, "cannot approve transfer twice")
	}
	return conf, t, nil
}

// Transfer returns the transfer with given id. ErrNotFound is returned if
// it does not exist.
func (l *Ledger) Transfer(db vault.ReadOnlyKVStore, id uint64) (*Transfer, error) {
	return l.transfers.Get(db, id)
}

// Transfers returns all transfers in the creation order.
func (l *Ledger) Transfers(db vault.ReadOnlyKVStore) ([]*Transfer, error) {
	var res []*Transfer
	if _, err := l.transfers.All(db, &res); err != nil {
		return nil, errors.Wrap(err, "transfers")
	}
	return res, nil
}

// PendingTransfers returns all transfers that were not sent, in the
// creation order.
func (l *Ledger) PendingTransfers(db vault.ReadOnlyKVStore) ([]*Transfer, error) {
	var res []*Transfer
	if _, err := l.transfers.ByIndex(db, "status", statusPending, &res); err != nil {
		return nil, errors.Wrap(err, "pending transfers")
	}
	return res, nil
}

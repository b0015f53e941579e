package wallet

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/codec"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/x"
)

const (
	createTransferCost  int64 = 200
	approveTransferCost int64 = 300
	depositCost         int64 = 100
)

// RegisterRoutes registers handlers for all wallet messages.
func RegisterRoutes(r vault.Registry, auth x.Authenticator, ledger *Ledger) {
	r.Handle(CreateTransferMsg{}.Path(), &CreateTransferHandler{auth: auth, ledger: ledger})
	r.Handle(ApproveTransferMsg{}.Path(), &ApproveTransferHandler{auth: auth, ledger: ledger})
	r.Handle(DepositMsg{}.Path(), &DepositHandler{auth: auth, ledger: ledger})
}

// RegisterQuery registers the transfers bucket under "/transfers" and its
// status index under "/transfers/status".
func RegisterQuery(qr vault.QueryRouter) {
	NewTransferBucket().Register(BucketName, qr)
}

// CreateTransferHandler requests a new transfer.
type CreateTransferHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ vault.Handler = (*CreateTransferHandler)(nil)

func (h *CreateTransferHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, db, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: createTransferCost}, nil
}

func (h *CreateTransferHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}
	t, err := h.ledger.CreateTransfer(db, caller, msg.Amount, msg.Destination)
	if err != nil {
		return nil, err
	}
	vault.GetLogger(ctx).Info("transfer created",
		"id", t.ID, "amount", t.Amount.String(), "destination", t.Destination.String(), "by", caller.String())
	return &vault.DeliverResult{Data: codec.EncodeSequence(t.ID)}, nil
}

// validate checks the caller before the message, so that a non approver
// is always rejected with ErrUnauthorized.
func (h *CreateTransferHandler) validate(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*CreateTransferMsg, vault.Address, error) {
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	switch ok, err := h.ledger.IsApprover(db, caller); {
	case err != nil:
		return nil, nil, err
	case !ok:
		return nil, nil, errors.Wrap(errors.ErrUnauthorized, "only approver allowed")
	}
	var msg CreateTransferMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	return &msg, caller, nil
}

// ApproveTransferHandler approves a transfer and executes it when the
// quorum is reached.
type ApproveTransferHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ vault.Handler = (*ApproveTransferHandler)(nil)

func (h *ApproveTransferHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.CanApprove(db, caller, msg.TransferID); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: approveTransferCost}, nil
}

func (h *ApproveTransferHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	t, err := h.ledger.ApproveTransfer(db, caller, msg.TransferID)
	if err != nil {
		return nil, err
	}
	logger := vault.GetLogger(ctx)
	logger.Info("transfer approved", "id", t.ID, "approvals", t.Approvals, "by", caller.String())
	if t.Sent {
		logger.Info("transfer executed",
			"id", t.ID, "amount", t.Amount.String(), "destination", t.Destination.String(), "approvals", t.Approvals)
	}
	return &vault.DeliverResult{Data: codec.EncodeSequence(t.ID)}, nil
}

func (h *ApproveTransferHandler) validate(ctx vault.Context, tx vault.Tx) (*ApproveTransferMsg, vault.Address, error) {
	var msg ApproveTransferMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

// DepositHandler moves value from the signer account to the wallet.
type DepositHandler struct {
	auth   x.Authenticator
	ledger *Ledger
}

var _ vault.Handler = (*DepositHandler)(nil)

func (h *DepositHandler) Check(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.CheckResult, error) {
	if _, _, err := h.validate(ctx, tx); err != nil {
		return nil, err
	}
	return &vault.CheckResult{GasAllocated: depositCost}, nil
}

func (h *DepositHandler) Deliver(ctx vault.Context, db vault.KVStore, tx vault.Tx) (*vault.DeliverResult, error) {
	msg, caller, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	if err := h.ledger.Deposit(db, caller, msg.Amount); err != nil {
		return nil, err
	}
	vault.GetLogger(ctx).Info("deposit", "amount", msg.Amount.String(), "from", caller.String())
	return &vault.DeliverResult{}, nil
}

func (h *DepositHandler) validate(ctx vault.Context, tx vault.Tx) (*DepositMsg, vault.Address, error) {
	var msg DepositMsg
	if err := vault.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	caller, err := x.Caller(ctx, h.auth)
	if err != nil {
		return nil, nil, err
	}
	return &msg, caller, nil
}

/*
Package app links together all the various components
to construct the vault application.
*/
package app

import (
	"github.com/iov-one/vault"
	"github.com/iov-one/vault/app"
	"github.com/iov-one/vault/coin"
	"github.com/iov-one/vault/errors"
	"github.com/iov-one/vault/store"
	"github.com/iov-one/vault/x"
	"github.com/iov-one/vault/x/cash"
	"github.com/iov-one/vault/x/sigs"
	"github.com/iov-one/vault/x/utils"
	"github.com/iov-one/vault/x/wallet"
	"github.com/tendermint/tendermint/libs/log"
)

// Authenticator returns the authentication used by all handlers, the
// host authenticated transaction signers.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{})
}

// Chain returns a chain of decorators, to handle authentication,
// logging, and recovery
func Chain() app.Decorators {
	return app.ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		sigs.NewDecorator(),
		// on DeliverTx, a failed transaction does not change the state
		utils.NewSavepoint().OnDeliver(),
	)
}

// Router returns a router dispatching to the cash and wallet handlers.
func Router(authFn x.Authenticator) *app.Router {
	r := app.NewRouter()
	control := cash.NewController(cash.NewBucket())
	cash.RegisterRoutes(r, authFn, control)
	wallet.RegisterRoutes(r, authFn, wallet.NewLedger(control))
	return r
}

// QueryRouter returns a query router, allowing access to "/balances",
// "/transfers" and "/transfers/status".
func QueryRouter() vault.QueryRouter {
	r := vault.NewQueryRouter()
	r.RegisterAll(
		cash.RegisterQuery,
		wallet.RegisterQuery,
	)
	return r
}

// Stack wires up the router with the decorator chain.
func Stack() vault.Handler {
	authFn := Authenticator()
	return Chain().WithHandler(Router(authFn))
}

// Initializers returns the genesis initialization of all extensions.
// Balances are issued before the wallet is configured.
func Initializers() vault.Initializer {
	return app.ChainInitializers(
		cash.Initializer{},
		wallet.Initializer{},
	)
}

// Application constructs an in memory application.
func Application(name string, logger log.Logger, debug bool) (*app.Application, error) {
	application, err := app.NewApplication(name, store.MemStore(), TxDecoder, Stack(), QueryRouter(), debug)
	if err != nil {
		return nil, err
	}
	return application.WithInit(Initializers()).WithLogger(logger), nil
}

// LedgerState is a snapshot of the wallet.
type LedgerState struct {
	Approvers []vault.Address    `json:"approvers"`
	Quorum    uint64             `json:"quorum"`
	Balance   coin.Amount        `json:"balance"`
	Transfers []*wallet.Transfer `json:"transfers"`
}

// ReadLedgerState returns the current state of the wallet.
func ReadLedgerState(db vault.ReadOnlyKVStore) (*LedgerState, error) {
	ledger := wallet.NewLedger(cash.NewController(cash.NewBucket()))
	conf, err := ledger.Configuration(db)
	if err != nil {
		return nil, err
	}
	balance, err := ledger.Balance(db)
	if err != nil {
		return nil, errors.Wrap(err, "balance")
	}
	transfers, err := ledger.Transfers(db)
	if err != nil {
		return nil, err
	}
	if transfers == nil {
		transfers = []*wallet.Transfer{}
	}
	return &LedgerState{
		Approvers: conf.Approvers,
		Quorum:    conf.Quorum,
		Balance:   balance,
		Transfers: transfers,
	}, nil
}

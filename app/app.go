/*
Package app contains standard implementations of a number of components.
It is a good place to start exploring what you can build on top of vault,
or a good reference for interfaces if you want to build your own.

Application ties together a store, a handler stack and a query router.
Transactions are processed one at a time: all calls are serialized.
*/
package app

import (
	"context"
	"sync"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Application processes transactions against a single store.
type Application struct {
	// mu serializes every call. Each transaction observes the state
	// left by the previous one.
	mu sync.Mutex

	name        string
	db          vault.CacheableKVStore
	decoder     vault.TxDecoder
	handler     vault.Handler
	queryRouter vault.QueryRouter
	initializer vault.Initializer
	logger      log.Logger
	debug       bool

	chainID string
	// height is the sequence number of the last delivered transaction.
	height int64
}

// NewApplication returns an application that is not yet initialized. The
// chain id is loaded from the store if it was already set.
func NewApplication(
	name string,
	db vault.CacheableKVStore,
	decoder vault.TxDecoder,
	handler vault.Handler,
	queryRouter vault.QueryRouter,
	debug bool,
) (*Application, error) {
	chainID, err := loadChainID(db)
	if err != nil {
		return nil, err
	}
	return &Application{
		name:        name,
		db:          db,
		decoder:     decoder,
		handler:     handler,
		queryRouter: queryRouter,
		logger:      log.NewNopLogger(),
		debug:       debug,
		chainID:     chainID,
	}, nil
}

// WithInit is used to set the init function we call
func (a *Application) WithInit(init vault.Initializer) *Application {
	a.initializer = init
	return a
}

// WithLogger sets the logger and returns the application, to make it easy
// to chain in initialization.
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger.With("module", a.name)
	return a
}

// ChainID returns the chain id or an empty string if the application was
// not initialized.
func (a *Application) ChainID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.chainID
}

// Height returns the number of delivered transactions.
func (a *Application) Height() int64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.height
}

// InitChain stores the chain id and initializes all extensions from the
// genesis options. Nothing is written if any initializer fails. It can be
// called only once.
func (a *Application) InitChain(chainID string, opts vault.Options) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.chainID != "" {
		return errors.Wrapf(errors.ErrImmutable, "initialized for chain %q", a.chainID)
	}
	cache := a.db.CacheWrap()
	if err := saveChainID(cache, chainID); err != nil {
		cache.Discard()
		return err
	}
	if a.initializer != nil {
		if err := a.initializer.FromGenesis(opts, cache); err != nil {
			cache.Discard()
			return errors.Wrap(err, "genesis")
		}
	}
	if err := cache.Write(); err != nil {
		return errors.Wrap(err, "write genesis")
	}
	a.chainID = chainID
	a.logger.Info("chain initialized", "chain_id", chainID)
	return nil
}

// CheckTx validates the transaction against the current state. All writes
// are discarded.
func (a *Application) CheckTx(ctx context.Context, txBytes []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(txBytes)
	if err != nil {
		return checkOrError(nil, err, a.debug)
	}
	if err := a.initialized(); err != nil {
		return checkOrError(nil, err, a.debug)
	}
	ctx = vault.WithLogInfo(a.context(ctx, a.height), "call", "check_tx", "path", vault.GetPath(tx))

	cache := a.db.CacheWrap()
	defer cache.Discard()
	res, err := a.handler.Check(ctx, cache, tx)
	return checkOrError(res, err, a.debug)
}

// DeliverTx executes the transaction. Every delivered transaction
// increments the height.
func (a *Application) DeliverTx(ctx context.Context, txBytes []byte) Result {
	a.mu.Lock()
	defer a.mu.Unlock()

	tx, err := a.loadTx(txBytes)
	if err != nil {
		return deliverOrError(nil, err, a.debug)
	}
	if err := a.initialized(); err != nil {
		return deliverOrError(nil, err, a.debug)
	}
	a.height++
	ctx = vault.WithLogInfo(a.context(ctx, a.height), "call", "deliver_tx", "path", vault.GetPath(tx))

	res, err := a.handler.Deliver(ctx, a.db, tx)
	return deliverOrError(res, err, a.debug)
}

// Query runs a query against the current state. The path can carry the
// query mode, for example "/transfers?prefix".
func (a *Application) Query(path string, data []byte) ([]vault.Model, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.queryRouter.Query(a.db, path, data)
}

// View calls fn with the current state. The state must not be used after
// fn returns.
func (a *Application) View(fn func(db vault.ReadOnlyKVStore) error) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return fn(a.db)
}

func (a *Application) initialized() error {
	if a.chainID == "" {
		return errors.Wrap(errors.ErrState, "application not initialized")
	}
	return nil
}

func (a *Application) context(ctx context.Context, height int64) vault.Context {
	ctx = vault.WithChainID(ctx, a.chainID)
	ctx = vault.WithHeight(ctx, height)
	return vault.WithLogger(ctx, a.logger)
}

// loadTx calls the decoder, and capture any panics
func (a *Application) loadTx(txBytes []byte) (tx vault.Tx, err error) {
	defer errors.Recover(&err)
	tx, err = a.decoder(txBytes)
	if err != nil {
		return nil, errors.Wrap(err, "decode tx")
	}
	return tx, nil
}

package sigs

import "github.com/iov-one/vault"

// SignedTx represents a transaction that declares who it is executed for.
// The signers are authenticated by the host that submits the transaction.
type SignedTx interface {
	// GetSigners returns the conditions of all signers. The first one is
	// the main signer.
	GetSigners() []vault.Condition
}

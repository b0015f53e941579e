package cash

import "github.com/iov-one/vault/errors"

// Reserved codes 30~39
var (
	ErrEmptyAccount = errors.Register(30, "empty account")
)

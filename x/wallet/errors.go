package wallet

import "github.com/iov-one/vault/errors"

// Reserved codes 1040~1049
var (
	ErrDuplicateApproval = errors.Register(1040, "duplicate approval")
	ErrAlreadyExecuted   = errors.Register(1041, "already executed")
	ErrExecutionFailed   = errors.Register(1042, "execution failed")
)

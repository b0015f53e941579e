package app

import (
	"fmt"

	"github.com/iov-one/vault"
	"github.com/iov-one/vault/errors"
)

// Result is the outcome of processing a single transaction, as returned
// to the client.
type Result struct {
	// Code is zero on success, otherwise it is the code of the root error.
	Code uint32 `json:"code"`
	Log  string `json:"log,omitempty"`
	// Data is the machine readable value returned by the handler.
	Data []byte `json:"data,omitempty"`
	Gas  int64  `json:"gas,omitempty"`
}

// IsOK returns true if the transaction was processed successfully.
func (r Result) IsOK() bool {
	return r.Code == errors.SuccessCode
}

// checkOrError converts the outcome of a check into a Result. When in
// debug mode the full error information is returned.
func checkOrError(res *vault.CheckResult, err error, debug bool) Result {
	if err != nil {
		return errorResult("cannot check tx", err, debug)
	}
	return Result{Log: res.Log, Data: res.Data, Gas: res.GasAllocated}
}

// deliverOrError converts the outcome of a delivery into a Result. When
// in debug mode the full error information is returned.
func deliverOrError(res *vault.DeliverResult, err error, debug bool) Result {
	if err != nil {
		return errorResult("cannot deliver tx", err, debug)
	}
	return Result{Log: res.Log, Data: res.Data, Gas: res.GasUsed}
}

func errorResult(prefix string, err error, debug bool) Result {
	code, log := errors.Info(err, debug)
	return Result{
		Code: code,
		Log:  fmt.Sprintf("%s: %s", prefix, log),
	}
}

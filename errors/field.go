package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field marks err as caused by the field with given name. It returns nil
// if err is nil.
//
// Field names follow Go naming (Approvers, Quorum). A nested field uses dot
// notation, for example Transfer.Destination, and an element of a list
// uses its index, for example Approvers.2.
func Field(fieldName string, err error) error {
	if errIsNil(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{parent: err, field: fieldName}
}

// AppendField appends the error of a field to errorsOrNil. Nothing is
// appended if fieldErrOrNil is nil, so a validation method can collect the
// result of every check without testing it first.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil))
}

type fieldError struct {
	parent error
	field  string
}

func (err *fieldError) Error() string {
	return fmt.Sprintf("field %q: %s", err.field, err.parent)
}

func (err *fieldError) Cause() error {
	return err.parent
}

func (err *fieldError) Field() string {
	return err.field
}

// FieldErrors returns all errors created for the field with given name,
// searching through wrapped and multi errors. The outermost matching error
// of every branch is returned.
func FieldErrors(err error, fieldName string) []error {
	var res []error
	for !errIsNil(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			return append(res, err)
		}
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				res = append(res, FieldErrors(e, fieldName)...)
			}
			return res
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return res
}

type fielder interface {
	Field() string
}

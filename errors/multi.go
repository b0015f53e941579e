package errors

import (
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none or only one error is provided then it is returned as it is (or nil
// if not provided). When more than one non nil error is provided, a multi
// error instance is returned that contains all given errors. Multi errors are
// flattened so that appending two multi errors results in a single list.
func Append(errs ...error) error {
	var flat []error
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			flat = append(flat, m...)
		} else {
			flat = append(flat, err)
		}
	}

	switch len(flat) {
	case 0:
		return nil
	case 1:
		return flat[0]
	default:
		return multiErr(flat)
	}
}

// multiErr is an error that consists of more than one error instances.
type multiErr []error

func (m multiErr) Error() string {
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Cause returns the first error of the list so that the error code of a
// multi error is the code of its first member.
func (m multiErr) Cause() error {
	return m[0]
}

// Unpack implements unpacker interface.
func (m multiErr) Unpack() []error {
	return m
}

// unpacker is implemented by errors that are grouping more than one error
// instance.
type unpacker interface {
	Unpack() []error
}

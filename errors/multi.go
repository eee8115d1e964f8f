package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// If none of the errors is non-nil, then nil is returned. If only one error
// is non-nil, it is returned as is.
func Append(errs ...error) error {
	var all multiErr
	for _, err := range errs {
		if errIsNil(err) {
			continue
		}
		if m, ok := err.(multiErr); ok {
			all = append(all, m...)
		} else {
			all = append(all, err)
		}
	}

	switch len(all) {
	case 0:
		return nil
	case 1:
		return all[0]
	default:
		return all
	}
}

type multiErr []error

func (errs multiErr) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = "* " + e.Error()
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(errs), strings.Join(msgs, "\n\t"))
}

// ABCICode returns the code of the first error, consistent with a fail fast
// approach.
func (errs multiErr) ABCICode() uint32 {
	return abciCode(errs[0])
}

// Unpack implements the unpacker interface.
func (errs multiErr) Unpack() []error {
	return errs
}

// Is returns true if any of the clubbed errors is of the given kind.
func (errs multiErr) Is(kind *Error) bool {
	for _, e := range errs {
		if kind.Is(e) {
			return true
		}
	}
	return false
}

type unpacker interface {
	Unpack() []error
}

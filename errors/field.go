package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field wraps err with the name of the model attribute that failed
// validation. It returns nil if err is nil. The description is formatted
// with args when any are given.
//
// Name fields the Go way: StreamID, or DisplayName. Nested attributes use
// dot notation (Stream.Receiver) and list elements their index
// (StreamRefs.2).
func Field(fieldName string, err error, description string, args ...interface{}) error {
	if errIsNil(err) {
		return nil
	}
	if len(args) > 0 {
		description = fmt.Sprintf(description, args...)
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &fieldError{field: fieldName, desc: description, parent: err}
}

// AppendField appends a field error for fieldName to errorsOrNil. Nothing
// is appended if fieldErrOrNil is nil.
func AppendField(errorsOrNil error, fieldName string, fieldErrOrNil error) error {
	return Append(errorsOrNil, Field(fieldName, fieldErrOrNil, ""))
}

type fieldError struct {
	field  string
	desc   string
	parent error
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.field, e.parent)
}

func (e *fieldError) Cause() error {
	return e.parent
}

// Field returns the name of the attribute this error was created for.
func (e *fieldError) Field() string {
	return e.field
}

type fielder interface {
	Field() string
}

// FieldErrors returns all errors created with Field for given field name,
// searching the cause chain and every member of a multi error.
func FieldErrors(err error, fieldName string) []error {
	var found []error
	collectFieldErrors(err, fieldName, &found)
	return found
}

func collectFieldErrors(err error, fieldName string, found *[]error) {
	for !errIsNil(err) {
		if f, ok := err.(fielder); ok && f.Field() == fieldName {
			*found = append(*found, err)
			return
		}
		// A multi error exposes all its members through Unpack, so
		// there is no separate cause to follow.
		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				collectFieldErrors(e, fieldName, found)
			}
			return
		}
		c, ok := err.(causer)
		if !ok {
			return
		}
		err = c.Cause()
	}
}

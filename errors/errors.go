package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrUnauthorized is returned when the signer of a message does not
	// control the record it targets.
	ErrUnauthorized = Register(2, "unauthorized")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = Register(3, "not found")

	// ErrInvalidMsg is returned whenever a message is malformed and
	// cannot be handled.
	ErrInvalidMsg = Register(4, "invalid message")

	// ErrInvalidModel is returned when a model fails validation and must
	// not be persisted.
	ErrInvalidModel = Register(5, "invalid model")

	// ErrAlreadyRegistered is returned when a record already exists under
	// the same deterministic key.
	ErrAlreadyRegistered = Register(6, "already registered")

	// ErrHuman is returned when application reaches a code path which
	// should never be reached if the code was written as expected.
	ErrHuman = Register(7, "coding error")

	// ErrInvalidName is returned when a display name violates the length
	// bound.
	ErrInvalidName = Register(8, "invalid name")

	// ErrEmpty is returned when a value fails a not empty assertion.
	ErrEmpty = Register(9, "value is empty")

	// ErrInvalidState is returned when an object is in a state that does
	// not allow the requested operation.
	ErrInvalidState = Register(10, "invalid state")

	// ErrInvalidType is returned whenever the type is not what was
	// expected.
	ErrInvalidType = Register(11, "invalid type")

	// ErrInsufficientFunds is returned when a balance is smaller than the
	// amount that must be debited from it.
	ErrInsufficientFunds = Register(12, "insufficient funds")

	// ErrInvalidAmount is returned for zero or otherwise unusable amounts.
	ErrInvalidAmount = Register(13, "invalid amount")

	// ErrInvalidInput stands for general input problems.
	ErrInvalidInput = Register(14, "invalid input")

	// ErrCapacityExceeded is returned when a bounded collection is full.
	ErrCapacityExceeded = Register(15, "capacity exceeded")

	// ErrOverflow is returned when a computation cannot be completed
	// because the result exceeds the value type.
	ErrOverflow = Register(16, "arithmetic overflow")

	// ErrNothingVested is returned when a withdrawal would release zero
	// lamports. Callers may retry once more time has elapsed.
	ErrNothingVested = Register(17, "nothing vested")

	// ErrPanic is only set when we recover from a panic, so we know to
	// redact potentially sensitive system info.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// This function ensures that no error code is used twice. Attempt to reuse
// an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness.
var usedCodes = map[uint32]*Error{
	// Error code 1 is reserved for internal errors.
	1: nil,
}

// Error represents a root error.
//
// Each instance created during the runtime should wrap one of the declared
// root errors. This allows error tests and returning all errors to the client
// in a safe manner.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) ABCICode() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if u, ok := err.(unpacker); ok {
			for _, e := range u.Unpack() {
				if kind.Is(e) {
					return true
				}
			}
			return false
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// IsRetryable returns true if given error describes a condition that may
// clear by itself once the chain advances. Only ErrNothingVested qualifies.
// Any other error is terminal and should be surfaced as is.
func IsRetryable(err error) bool {
	return ErrNothingVested.Is(err)
}

// Wrap extends given error with an additional information.
//
// If the wrapped error does not provide ABCICode method (ie. stdlib errors),
// it will be labeled as internal error.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// Attach the stack trace only once, at the innermost wrap.
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional funtionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType is a helper to augment an error with a corresponding type message.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

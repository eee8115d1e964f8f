package errors

import (
	"errors"
	"fmt"
	"reflect"
)

const (
	// SuccessABCICode is the code of a successfully processed request.
	SuccessABCICode = 0

	// Errors that do not carry a registered code are reported as internal,
	// with a generic log outside of debug mode.
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of given error as returned to the
// tendermint client.
//
// A registered error exposes its own code and message. Anything else is
// internal: code 1 and a generic message. In debug mode the full error,
// including a stack trace when available, is always returned.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode returns the code of the first error in the cause chain that
// declares one.
func abciCode(err error) uint32 {
	for {
		if errIsNil(err) {
			return SuccessABCICode
		}
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

// errIsNil returns true if value represented by the given error is nil,
// including a typed nil pointer stored in the interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	val := reflect.ValueOf(err)
	return val.Kind() == reflect.Ptr && val.IsNil()
}

// Redact replaces panics and errors without a registered code with a
// generic internal error. It returns err unchanged in debug mode.
func Redact(err error, debug bool) error {
	if debug || errIsNil(err) {
		return err
	}
	if ErrPanic.Is(err) || abciCode(err) == internalABCICode {
		return errors.New(internalABCILog)
	}
	return err
}

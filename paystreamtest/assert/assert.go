// Package assert holds the few assertions shared by the store, orm and
// crypto suites. Everything else is tested with testify.
package assert

import (
	"reflect"

	"github.com/iov-one/paystream/errors"
)

// Tester is the part of testing.TB that assertions need.
type Tester interface {
	Helper()
	Fatal(...interface{})
	Fatalf(string, ...interface{})
}

// Nil fails unless value is nil or a nil pointer, map, slice, chan, func or
// interface. Errors are printed with %+v to include their stack trace.
func Nil(t Tester, value interface{}) {
	t.Helper()
	if value == nil {
		return
	}
	switch v := reflect.ValueOf(value); v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		if v.IsNil() {
			return
		}
	}
	t.Fatalf("want nil, got %+v", value)
}

// Equal fails unless want and got are deeply equal.
func Equal(t Tester, want, got interface{}) {
	t.Helper()
	if !reflect.DeepEqual(want, got) {
		t.Fatalf("not equal\nwant %T %v\n got %T %v", want, want, got, got)
	}
}

// Panics fails unless fn panics.
func Panics(t Tester, fn func()) {
	t.Helper()
	defer func() {
		if recover() == nil {
			t.Fatal("want panic")
		}
	}()
	fn()
}

// IsErr fails unless got is of the registered kind want. A nil want
// expects a nil got.
func IsErr(t Tester, want *errors.Error, got error) {
	t.Helper()
	if !want.Is(got) {
		t.Fatalf("want %v, got %+v", want, got)
	}
}

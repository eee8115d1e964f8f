package x

import "github.com/iov-one/paystream"

// Validater is any struct that can be validated.
type Validater interface {
	Validate() error
}

// MarshalValidater is something that can be validated and
// serialized
type MarshalValidater interface {
	paystream.Marshaller
	Validater
}

// MustMarshal will succeed or panic
func MustMarshal(obj paystream.Marshaller) []byte {
	bz, err := obj.Marshal()
	if err != nil {
		panic(err)
	}
	return bz
}

// MustValidate panics if the object is not valid
func MustValidate(obj Validater) {
	if err := obj.Validate(); err != nil {
		panic(err)
	}
}

// MustMarshalValid marshals the object, but panics
// if the object is not valid or has trouble marshalling
func MustMarshalValid(obj MarshalValidater) []byte {
	MustValidate(obj)
	return MustMarshal(obj)
}

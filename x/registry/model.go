/*
Package registry maps a signing authority to its user record.

The record handle is derived from the authority address and a fixed
namespace tag, so the same authority always resolves to the same record
without a lookup table. A record keeps the identifiers of all streams the
authority created, up to a capacity fixed when the record was registered.
*/
package registry

import (
	"unicode"
	"unicode/utf8"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/codec"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

const (
	// BucketName is where we store the user records
	BucketName = "users"

	// namespace tag of the derived record handles
	handleExtension = "registry"
	handleType      = "user"
)

// UserHandle returns the record handle of given authority.
func UserHandle(authority paystream.Address) paystream.Address {
	return paystream.NewCondition(handleExtension, handleType, authority).Address()
}

// UserRecord is the registered identity of an authority.
type UserRecord struct {
	Authority   paystream.Address `json:"authority"`
	DisplayName string            `json:"display_name"`
	// StreamRefs lists created streams in creation order.
	StreamRefs [][]byte `json:"stream_refs"`
	// Capacity is the maximum number of stream references, fixed at
	// registration.
	Capacity uint32 `json:"capacity"`
}

var _ orm.Model = (*UserRecord)(nil)

// Validate checks the record state.
func (u *UserRecord) Validate() error {
	var errs error
	errs = errors.AppendField(errs, "Authority", u.Authority.Validate())
	errs = errors.AppendField(errs, "DisplayName", validateName(u.DisplayName, 0))
	if u.Capacity == 0 {
		errs = errors.AppendField(errs, "Capacity", errors.ErrEmpty)
	}
	if uint32(len(u.StreamRefs)) > u.Capacity {
		errs = errors.AppendField(errs, "StreamRefs", errors.ErrCapacityExceeded)
	}
	for i, ref := range u.StreamRefs {
		if len(ref) == 0 {
			errs = errors.Append(errs, errors.Field("StreamRefs", errors.ErrEmpty, "ref %d", i))
		}
	}
	return errs
}

func (u *UserRecord) Marshal() ([]byte, error) {
	return codec.Marshal(u)
}

func (u *UserRecord) Unmarshal(raw []byte) error {
	return codec.Unmarshal(raw, u)
}

// HasCapacity returns true if another stream reference can be appended.
func (u *UserRecord) HasCapacity() bool {
	return uint32(len(u.StreamRefs)) < u.Capacity
}

// validateName returns ErrInvalidName if the name is empty, longer than
// maxLen bytes (when maxLen is not zero) or contains non printable
// characters.
func validateName(name string, maxLen uint32) error {
	switch {
	case len(name) == 0:
		return errors.Wrap(errors.ErrInvalidName, "empty")
	case maxLen > 0 && uint32(len(name)) > maxLen:
		return errors.Wrapf(errors.ErrInvalidName, "longer than %d bytes", maxLen)
	case !utf8.ValidString(name):
		return errors.Wrap(errors.ErrInvalidName, "not utf8")
	}
	for _, r := range name {
		if !unicode.IsPrint(r) {
			return errors.Wrapf(errors.ErrInvalidName, "contains %U", r)
		}
	}
	return nil
}

// NewBucket returns the bucket storing user records by handle.
func NewBucket() orm.Bucket {
	return orm.NewBucket(BucketName, &UserRecord{})
}

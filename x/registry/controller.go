package registry

import (
	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
)

// Controller is the registry functionality other extensions rely on.
type Controller interface {
	Lookup(db paystream.ReadOnlyKVStore, authority paystream.Address) (*UserRecord, error)
	AppendStreamRef(db paystream.KVStore, authority paystream.Address, ref []byte) (*UserRecord, error)
}

// BaseController keeps user records in the users bucket.
type BaseController struct {
	bucket orm.Bucket
}

var _ Controller = BaseController{}

// NewController returns a controller over the users bucket.
func NewController() BaseController {
	return BaseController{bucket: NewBucket()}
}

// Register creates the record of given authority, with room for as many
// stream references as currently configured.
func (c BaseController) Register(db paystream.KVStore, authority paystream.Address, name string) (*UserRecord, paystream.Address, error) {
	if err := authority.Validate(); err != nil {
		return nil, nil, errors.Wrap(err, "authority")
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, nil, err
	}
	if err := validateName(name, conf.MaxNameLength); err != nil {
		return nil, nil, err
	}

	handle := UserHandle(authority)
	switch ok, err := c.bucket.Has(db, handle); {
	case err != nil:
		return nil, nil, err
	case ok:
		return nil, nil, errors.Wrapf(errors.ErrAlreadyRegistered, "authority %s", authority)
	}

	user := &UserRecord{
		Authority:   authority,
		DisplayName: name,
		Capacity:    conf.MaxStreams,
	}
	if err := c.bucket.Put(db, handle, user); err != nil {
		return nil, nil, err
	}
	return user, handle, nil
}

// Lookup returns the record of given authority, or ErrNotFound.
func (c BaseController) Lookup(db paystream.ReadOnlyKVStore, authority paystream.Address) (*UserRecord, error) {
	return c.LookupHandle(db, UserHandle(authority))
}

// LookupHandle returns the record stored under given handle, or ErrNotFound.
func (c BaseController) LookupHandle(db paystream.ReadOnlyKVStore, handle paystream.Address) (*UserRecord, error) {
	var user UserRecord
	if err := c.bucket.One(db, handle, &user); err != nil {
		return nil, errors.Wrap(err, "user")
	}
	return &user, nil
}

// AppendStreamRef adds a stream reference to the record of given authority.
// It fails with ErrCapacityExceeded once the record is full.
func (c BaseController) AppendStreamRef(db paystream.KVStore, authority paystream.Address, ref []byte) (*UserRecord, error) {
	if len(ref) == 0 {
		return nil, errors.Wrap(errors.ErrEmpty, "stream ref")
	}
	user, err := c.Lookup(db, authority)
	if err != nil {
		return nil, err
	}
	if !user.Authority.Equals(authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "record authority mismatch")
	}
	if !user.HasCapacity() {
		return nil, errors.Wrapf(errors.ErrCapacityExceeded, "%d streams", user.Capacity)
	}
	user.StreamRefs = append(user.StreamRefs, ref)
	if err := c.bucket.Put(db, UserHandle(authority), user); err != nil {
		return nil, err
	}
	return user, nil
}

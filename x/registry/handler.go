package registry

import (
	"context"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
	"github.com/iov-one/paystream/orm"
	"github.com/iov-one/paystream/x"
)

const registerCost = 50

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r paystream.Registry, auth x.Authenticator) {
	r.Handle(&RegisterMsg{}, NewRegisterHandler(auth, NewController()))
}

// RegisterQuery registers the records as "/users", and the lookup by
// authority as "/users/authority".
func RegisterQuery(qr paystream.QueryRouter) {
	NewBucket().Register("users", qr)
	qr.Register("/users/authority", authorityQuery{bucket: NewBucket()})
}

// RegisterHandler creates user records.
type RegisterHandler struct {
	auth    x.Authenticator
	control BaseController
}

var _ paystream.Handler = RegisterHandler{}

// NewRegisterHandler creates a handler for RegisterMsg
func NewRegisterHandler(auth x.Authenticator, control BaseController) RegisterHandler {
	return RegisterHandler{auth: auth, control: control}
}

// Check verifies the signature, the configured name bound and that the
// authority is not registered.
func (h RegisterHandler) Check(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	conf, err := LoadConfiguration(db)
	if err != nil {
		return nil, err
	}
	if err := validateName(msg.DisplayName, conf.MaxNameLength); err != nil {
		return nil, err
	}
	if ok, err := NewBucket().Has(db, UserHandle(msg.Authority)); err != nil {
		return nil, err
	} else if ok {
		return nil, errors.Wrapf(errors.ErrAlreadyRegistered, "authority %s", msg.Authority)
	}
	return &paystream.CheckResult{GasAllocated: registerCost}, nil
}

// Deliver creates the record. The record handle is returned as data.
func (h RegisterHandler) Deliver(ctx context.Context, info paystream.BlockInfo, db paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, err := h.validate(ctx, tx)
	if err != nil {
		return nil, err
	}
	_, handle, err := h.control.Register(db, msg.Authority, msg.DisplayName)
	if err != nil {
		return nil, err
	}
	info.Logger().Debug("user registered", "authority", msg.Authority, "handle", handle)
	return &paystream.DeliverResult{Data: handle}, nil
}

func (h RegisterHandler) validate(ctx context.Context, tx paystream.Tx) (*RegisterMsg, error) {
	var msg RegisterMsg
	if err := paystream.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	if !h.auth.HasAddress(ctx, msg.Authority) {
		return nil, errors.Wrap(errors.ErrUnauthorized, "authority signature missing")
	}
	return &msg, nil
}

// authorityQuery resolves an authority address to its record.
type authorityQuery struct {
	bucket orm.Bucket
}

func (q authorityQuery) Query(db paystream.ReadOnlyKVStore, mod string, data []byte) ([]paystream.Model, error) {
	if mod != paystream.KeyQueryMod {
		return nil, errors.Wrapf(errors.ErrInvalidInput, "not implemented: %s", mod)
	}
	return q.bucket.Query(db, mod, UserHandle(data))
}

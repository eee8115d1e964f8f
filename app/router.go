package app

import (
	"context"
	"fmt"
	"regexp"

	"github.com/iov-one/paystream"
	"github.com/iov-one/paystream/errors"
)

// isPath is the RegExp to ensure the routes make sense
var isPath = regexp.MustCompile(`^[a-zA-Z0-9_/]+$`).MatchString

// Router allows us to register many handlers with different
// paths and then direct each message to the proper handler.
//
// Minimal interface modeled after net/http.ServeMux
type Router struct {
	routes map[string]paystream.Handler
}

var _ paystream.Registry = (*Router)(nil)
var _ paystream.Handler = (*Router)(nil)

// NewRouter returns a new empty router instance.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]paystream.Handler, 10),
	}
}

// Handle adds a new Handler for the given message path.
// panics if another Handler was already registered
func (r *Router) Handle(msg paystream.Msg, h paystream.Handler) {
	path := msg.Path()
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path: %s", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %s", path))
	}
	r.routes[path] = h
}

// handler returns the registered Handler for this message path.
// If no handler is found, it returns an error handler.
func (r *Router) handler(m paystream.Msg) paystream.Handler {
	path := m.Path()
	if h, ok := r.routes[path]; ok {
		return h
	}
	return notFoundHandler(path)
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx) (*paystream.CheckResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	return r.handler(msg).Check(ctx, info, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx context.Context, info paystream.BlockInfo, store paystream.KVStore, tx paystream.Tx) (*paystream.DeliverResult, error) {
	msg, err := tx.GetMsg()
	if err != nil {
		return nil, errors.Wrap(err, "cannot load msg")
	}
	if msg == nil {
		return nil, errors.Wrap(errors.ErrInvalidMsg, "nil message")
	}
	return r.handler(msg).Deliver(ctx, info, store, tx)
}

// notFoundHandler always returns ErrNotFound error regardless of the arguments.
type notFoundHandler string

func (path notFoundHandler) Check(context.Context, paystream.BlockInfo, paystream.KVStore, paystream.Tx) (*paystream.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

func (path notFoundHandler) Deliver(context.Context, paystream.BlockInfo, paystream.KVStore, paystream.Tx) (*paystream.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(path))
}

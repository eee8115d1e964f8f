/*
Package x contains helpers shared by all extensions: authentication of the
transaction signers and validation of persisted models.
*/
package x

import (
	"context"

	"github.com/iov-one/paystream"
)

// Authenticator reveals which conditions signed the current transaction.
// Handlers receive one in their constructor so that tests can replace the
// signature decorator with a static list of signers.
type Authenticator interface {
	GetConditions(context.Context) []paystream.Condition
	HasAddress(context.Context, paystream.Address) bool
}

// MultiAuth merges several Authenticators.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth returns an Authenticator that accepts what any of auths accepts.
// Conditions are reported in the order of auths.
func ChainAuth(auths ...Authenticator) MultiAuth {
	return MultiAuth(auths)
}

func (m MultiAuth) GetConditions(ctx context.Context) []paystream.Condition {
	var conds []paystream.Condition
	for _, a := range m {
		conds = append(conds, a.GetConditions(ctx)...)
	}
	return conds
}

func (m MultiAuth) HasAddress(ctx context.Context, addr paystream.Address) bool {
	for _, a := range m {
		if a.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// HasAnyAddress returns true if at least one of addrs signed the
// transaction.
func HasAnyAddress(ctx context.Context, auth Authenticator, addrs ...paystream.Address) bool {
	for _, addr := range addrs {
		if auth.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

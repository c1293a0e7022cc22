package x

import (
	"github.com/iov-one/escrowd"
)

// Authenticator extracts the authenticated conditions of the current
// request from the context. Handlers receive it in their constructor so
// tests can plug in a fake.
type Authenticator interface {
	// GetConditions returns every condition the request fulfils.
	GetConditions(weave.Context) []weave.Condition
	// HasAddress checks if any fulfilled condition has this address.
	HasAddress(weave.Context, weave.Address) bool
}

// MultiAuth combines several authenticators. A condition fulfilled by any
// of them is fulfilled by the group.
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth(nil)

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of all authenticators, in the order
// the authenticators were given.
func (m MultiAuth) GetConditions(ctx weave.Context) []weave.Condition {
	var res []weave.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress implements Authenticator.
func (m MultiAuth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first authenticated condition or nil when the
// request was not signed.
func MainSigner(ctx weave.Context, auth Authenticator) weave.Condition {
	if conds := auth.GetConditions(ctx); len(conds) > 0 {
		return conds[0]
	}
	return nil
}

package weavetest

import (
	"github.com/iov-one/escrowd"
)

// Auth authenticates a fixed set of conditions, regardless of the context.
// Signer is a shortcut for the common single signer case and is reported
// after Signers.
type Auth struct {
	Signer  weave.Condition
	Signers []weave.Condition
}

// GetConditions implements x.Authenticator.
func (a *Auth) GetConditions(weave.Context) []weave.Condition {
	conds := make([]weave.Condition, 0, len(a.Signers)+1)
	conds = append(conds, a.Signers...)
	if a.Signer != nil {
		conds = append(conds, a.Signer)
	}
	return conds
}

// HasAddress implements x.Authenticator.
func (a *Auth) HasAddress(ctx weave.Context, addr weave.Address) bool {
	for _, c := range a.GetConditions(ctx) {
		if c.Address().Equals(addr) {
			return true
		}
	}
	return false
}

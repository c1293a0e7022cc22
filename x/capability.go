package x

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// OwnerCapability is a proof that the current request was authenticated by
// the owner of a resource. It can be obtained only through RequireOwner.
type OwnerCapability struct {
	owner weave.Address
}

// RequireOwner returns the owner capability if the owner address is
// authenticated in the context. ErrUnauthorized is returned otherwise.
func RequireOwner(ctx weave.Context, auth Authenticator, owner weave.Address) (OwnerCapability, error) {
	if len(owner) == 0 || !auth.HasAddress(ctx, owner) {
		return OwnerCapability{}, errors.Wrapf(errors.ErrUnauthorized, "owner %s signature missing", owner)
	}
	return OwnerCapability{owner: owner}, nil
}

// Owner returns the address this capability was granted for.
func (c OwnerCapability) Owner() weave.Address {
	return c.owner
}

// Grants returns true if this capability was issued for given address.
func (c OwnerCapability) Grants(addr weave.Address) bool {
	return len(c.owner) != 0 && c.owner.Equals(addr)
}

// TriggerCapability is held by anyone. It carries no decision authority and
// only records who, if anybody, submitted the request.
type TriggerCapability struct {
	caller weave.Condition
}

// AnyTrigger returns the trigger capability for the current request. It never
// fails.
func AnyTrigger(ctx weave.Context, auth Authenticator) TriggerCapability {
	return TriggerCapability{caller: MainSigner(ctx, auth)}
}

// Caller returns the main signer of the request or nil if it was not signed.
func (t TriggerCapability) Caller() weave.Condition {
	return t.caller
}

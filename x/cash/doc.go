/*
Package cash implements the asset transfer service of the escrow
application.

Every holding account stores a single asset type, the address of its owner
and a native reserve that is paid out when the account is retired. The
owner is the only authorizer accepted when moving funds out of, or
retiring, an account. Owners can be regular signers or derived authorities
that no party holds a key for, as used by the escrow extension.

There is no logic in the assets, except that the balance may not go below
zero and transfers must declare the precision registered for the asset.
*/
package cash

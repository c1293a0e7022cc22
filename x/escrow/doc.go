/*
Package escrow implements a delivery escrow.

A maker locks a deposit of a single asset type in a custody account. The
custody account is owned by a derived authority: a condition computed from
the maker address, the escrow nonce and a bump. Nobody holds a key for it,
so the funds can be moved only by this extension.

The maker can confirm the delivery at any time before the escrow is
executed. Anybody (a keeper) can trigger the execution:

	confirmed           the deposit is released to the beneficiary
	not confirmed       after the deadline the deposit is refunded to the maker,
	                    before the deadline the execution fails with ErrNotReady

Once executed, the custody account is retired with its reserve returned to
the maker and the escrow is terminal. Any following execution fails with
ErrAlreadyExecuted.
*/
package escrow

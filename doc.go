/*
Package weave holds the interfaces shared by every part of the escrow daemon:
storage, transactions, handlers, conditions and addresses.

Handlers get everything they know about the block from the context. The
application sets the chain id, height, block time and logger once per block
with the With* functions of this package and extensions read them back with
the matching getters. Extensions may add their own values, the way x/sigs
stores the transaction signers.
*/
package weave

package weavetest

import (
	"crypto/rand"
	"encoding/binary"
	"testing"

	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/crypto"
)

// NewCondition returns the condition of a fresh ed25519 key.
func NewCondition() weave.Condition {
	return crypto.GenPrivKeyEd25519().PublicKey().Condition()
}

// RandomAddr returns a random, valid address.
func RandomAddr(t testing.TB) weave.Address {
	t.Helper()
	addr := make(weave.Address, weave.AddressLength)
	if _, err := rand.Read(addr); err != nil {
		t.Fatalf("cannot read random address: %s", err)
	}
	return addr
}

// SequenceID returns the 8 byte big endian encoding of n, the way escrow
// nonces are encoded in keys.
func SequenceID(n uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], n)
	return b[:]
}

package escrow

import (
	"encoding/binary"

	"github.com/iov-one/escrowd"
)

const (
	// authorityExt and authorityType are the domain tag of all escrow
	// authorities.
	authorityExt  = "escrow"
	authorityType = "seq"

	// CanonicalBump is the bump used for all escrows created by this
	// extension.
	CanonicalBump uint8 = 255

	// recordKeyLength is the length of an escrow key: maker address
	// followed by the nonce.
	recordKeyLength = 20 + 8
)

// RecordKey returns the key under which the escrow of given maker and nonce
// is stored.
func RecordKey(maker weave.Address, nonce uint64) []byte {
	key := make([]byte, 0, len(maker)+8)
	key = append(key, maker...)
	return append(key, encodeNonce(nonce)...)
}

// Authority returns the derived authority of an escrow. It is a pure
// function of its arguments. The address of the returned condition owns the
// custody account.
func Authority(maker weave.Address, nonce uint64, bump uint8) weave.Condition {
	data := make([]byte, 0, len(maker)+8+1)
	data = append(data, maker...)
	data = append(data, encodeNonce(nonce)...)
	data = append(data, bump)
	return weave.NewCondition(authorityExt, authorityType, data)
}

// Authority returns the derived authority of this escrow, as recomputed from
// the stored maker, nonce and bump.
func (e *Escrow) Authority() weave.Condition {
	return Authority(e.Maker, e.Nonce, uint8(e.Bump))
}

func encodeNonce(nonce uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, nonce)
	return b
}

package sigs

import (
	"github.com/iov-one/escrowd"
	"github.com/iov-one/escrowd/errors"
)

// NextNonce returns the sequence the next signature of signer must use. An
// address that never signed starts at zero.
//
//	seq, err := sigs.NextNonce(db, key.PublicKey().Address())
func NextNonce(db weave.ReadOnlyKVStore, signer weave.Address) (int64, error) {
	var user UserData
	err := NewBucket().One(db, signer, &user)
	if errors.ErrNotFound.Is(err) {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "signer %s", signer)
	}
	return user.Sequence, nil
}

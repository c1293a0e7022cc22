package sigs

import (
	"github.com/iov-one/escrowd/errors"
)

// ErrInvalidSequence is returned for a signature made for any sequence other
// than the current one of its signer.
var ErrInvalidSequence = errors.Register(20, "invalid sequence number")

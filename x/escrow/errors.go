package escrow

import (
	"github.com/iov-one/escrowd/errors"
)

// x/escrow reserves 1010 ~ 1020.
var (
	ErrAlreadyExecuted = errors.Register(1010, "escrow already executed")
	ErrNotReady        = errors.Register(1011, "escrow not ready")
)

package currency

import (
	"github.com/iov-one/escrowd/errors"
)

// ErrInvalidDecimals is returned for a precision above MaxDecimals. Codes
// 1100 to 1109 belong to this package.
var ErrInvalidDecimals = errors.Register(1100, "invalid decimals")

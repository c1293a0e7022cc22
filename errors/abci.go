package errors

import (
	"fmt"
)

const (
	// SuccessABCICode is the code of a response without an error.
	SuccessABCICode = 0

	// errors without a code are reported with code 1 and, outside of debug
	// mode, without their message
	internalABCICode uint32 = 1
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log of the ABCI response for err.
//
// Only coded errors expose their message. Any other error is internal and
// its details are hidden unless debug is set. Debug mode also prints the
// stack trace.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if errIsNil(err) {
		return SuccessABCICode, ""
	}
	code := codeOf(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

// codeOf returns the code of the first coded error in the chain.
func codeOf(err error) uint32 {
	type coded interface {
		ABCICode() uint32
	}
	for err != nil {
		if c, ok := err.(coded); ok {
			return c.ABCICode()
		}
		cause, ok := err.(causer)
		if !ok {
			break
		}
		err = cause.Cause()
	}
	return internalABCICode
}

/*
Package errors declares the coded errors of the escrow daemon.

Every failure returned by a handler should wrap one of the root errors
declared here (or registered by an extension). The code of the root error is
what a client receives in the ABCI response, so codes must never change once
released.
*/
package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Extensions register their own codes
// above 1000.
var (
	ErrUnauthorized       = Register(2, "unauthorized")
	ErrNotFound           = Register(3, "not found")
	ErrMsg                = Register(4, "invalid message")
	ErrModel              = Register(5, "invalid model")
	ErrDuplicate          = Register(6, "duplicate")
	ErrHuman              = Register(7, "coding error")
	ErrImmutable          = Register(8, "cannot be modified")
	ErrEmpty              = Register(9, "value is empty")
	ErrState              = Register(10, "invalid state")
	ErrType               = Register(11, "invalid type")
	ErrAmount             = Register(12, "invalid amount")
	ErrInsufficientAmount = Register(13, "insufficient amount")
	ErrInput              = Register(14, "invalid input")
	ErrExpired            = Register(15, "expired")
	ErrOverflow           = Register(16, "an operation cannot be completed due to value overflow")
	ErrCurrency           = Register(17, "currency")
	ErrMetadata           = Register(18, "metadata")
	ErrDatabase           = Register(19, "database")

	// ErrPanic marks a recovered panic. Its message is never sent to a
	// client outside of debug mode.
	ErrPanic = Register(111222, "panic")
)

// registry maps every code in use to its root error. Code 1 belongs to
// errors that carry no code at all.
var registry = map[uint32]*Error{1: nil}

// Register declares a new root error. It panics when the code is taken, so
// call it only from package level variable declarations.
func Register(code uint32, description string) *Error {
	if prev, ok := registry[code]; ok {
		name := "internal"
		if prev != nil {
			name = prev.desc
		}
		panic(fmt.Sprintf("error code %d already registered as %q", code, name))
	}
	e := &Error{code: code, desc: description}
	registry[code] = e
	return e
}

// Error is a root error. Runtime errors are created by wrapping it.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string { return e.desc }

// ABCICode is the code sent to clients for every error of this kind.
func (e Error) ABCICode() uint32 { return e.code }

// Is returns true if err is this root error or wraps it at any depth. A nil
// root error matches only nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return errIsNil(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		c, ok := err.(causer)
		if !ok {
			return false
		}
		err = c.Cause()
	}
	return false
}

// Wrap annotates err with a description. Nil errors stay nil, so the result
// of a call can be wrapped without checking it first.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	// the stack is recorded once, at the innermost wrap
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrapped{msg: description, parent: err}
}

// Wrapf is Wrap with a formatted description.
func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrapped struct {
	msg    string
	parent error
}

func (w *wrapped) Error() string {
	return w.msg + ": " + w.parent.Error()
}

func (w *wrapped) Cause() error {
	return w.parent
}

// Format adds the stack trace when printed with %+v.
func (w *wrapped) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s: %+v", w.msg, w.parent)
		return
	}
	fmt.Fprint(s, w.Error())
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

type causer interface {
	Cause() error
}

func stackTrace(err error) errors.StackTrace {
	type tracer interface {
		StackTrace() errors.StackTrace
	}
	for err != nil {
		if t, ok := err.(tracer); ok {
			return t.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			return nil
		}
		err = c.Cause()
	}
	return nil
}

// errIsNil also catches typed nil pointers stored in an error interface.
func errIsNil(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

package weave

import (
	"reflect"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/escrowd/errors"
)

// Msg is the state transition a transaction requests. Authentication lives
// in the Tx that carries it.
type Msg interface {
	proto.Message

	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+, for example escrow/execute.
	Path() string

	// Validate checks the message on its own, without reading state.
	Validate() error
}

// Tx is what a client submits: a message plus whatever the decorators need,
// such as signatures.
type Tx interface {
	proto.Message
	GetMsg() (Msg, error)
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(raw []byte) (Tx, error)

// GetPath returns the message path of tx or "(missing)".
func GetPath(tx Tx) string {
	if msg, err := tx.GetMsg(); err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// LoadMsg copies the message of tx into dest, which must point to a value
// or a pointer of the message type, and validates it.
//
//	var msg ConfirmMsg
//	if err := weave.LoadMsg(tx, &msg); err != nil {
//		return err
//	}
func LoadMsg(tx Tx, dest interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrMsg, "no message")
	}

	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr || target.IsNil() {
		return errors.Wrapf(errors.ErrType, "destination %T is not a pointer", dest)
	}
	want := target.Elem().Type()
	got := reflect.ValueOf(msg)
	switch {
	case got.Type() == want:
		target.Elem().Set(got)
	case got.Kind() == reflect.Ptr && got.Elem().Type() == want:
		target.Elem().Set(got.Elem())
	default:
		return errors.Wrapf(errors.ErrType, "want %T, got %T", dest, msg)
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}
	return nil
}

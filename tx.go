package coffer

import (
	"reflect"

	"github.com/iov-one/coffer/errors"
)

// Msg is the action a transaction requests, such as a vault vote. The
// router dispatches it by Path, the handler authorizes it against the
// signers of the wrapping Tx.
type Msg interface {
	Persistent
	// Path routes the message to its handler. It matches
	// [0-9A-Za-z_\-/]+ and several message types may share one.
	Path() string
	// Validate checks the message on its own, without reading state.
	Validate() error
}

// Marshaller serializes a value. Marshal may validate first and fail.
type Marshaller interface {
	Marshal() ([]byte, error)
}

// Persistent is a Marshaller that can also be restored, which usually
// needs a pointer receiver.
type Persistent interface {
	Marshaller
	Unmarshal([]byte) error
}

// Tx is the signed envelope of a message. Every application defines its
// own type that embeds what its decorators need, like signatures.
type Tx interface {
	Persistent
	GetMsg() (Msg, error)
}

// GetPath returns the path of the message, or (missing) without one.
func GetPath(tx Tx) string {
	msg, err := tx.GetMsg()
	if err == nil && msg != nil {
		return msg.Path()
	}
	return "(missing)"
}

// TxDecoder parses the raw bytes of a transaction.
type TxDecoder func(txBytes []byte) (Tx, error)

// LoadMsg validates the message of tx and copies it into destination,
// which must be a non nil pointer to the message type.
func LoadMsg(tx Tx, destination interface{}) error {
	msg, err := tx.GetMsg()
	if err != nil {
		return errors.Wrap(err, "cannot get transaction message")
	}
	if msg == nil {
		return errors.Wrap(errors.ErrState, "nil message")
	}

	if err := msg.Validate(); err != nil {
		return errors.Wrap(err, "invalid message")
	}

	dest := reflect.ValueOf(destination)
	if dest.Kind() != reflect.Ptr {
		return errors.Wrap(errors.ErrType, "destination must be a pointer")
	}
	if dest.IsNil() {
		return errors.Wrap(errors.ErrType, "destination must not be nil")
	}

	src := reflect.ValueOf(msg)
	if src.Kind() == reflect.Ptr {
		src = src.Elem()
	}
	if !src.Type().AssignableTo(dest.Elem().Type()) {
		return errors.Wrapf(errors.ErrType, "want %T message, got %T", destination, msg)
	}
	dest.Elem().Set(src)
	return nil
}

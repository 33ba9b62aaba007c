package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

// Root errors shared by all extensions. Extensions register their own
// codes next to their handlers, see Register.
var (
	ErrUnauthorized = Register(2, "unauthorized")
	ErrNotFound     = Register(3, "not found")
	// ErrMsg marks a message that fails validation.
	ErrMsg = Register(4, "invalid message")
	// ErrModel marks stored state that fails validation or decoding.
	ErrModel     = Register(5, "invalid model")
	ErrDuplicate = Register(6, "duplicate")
	// ErrHuman is a programming error, a path that correct code never takes.
	ErrHuman    = Register(7, "coding error")
	ErrInput    = Register(8, "invalid input")
	ErrState    = Register(9, "invalid state")
	ErrType     = Register(10, "invalid type")
	ErrEmpty    = Register(11, "value is empty")
	ErrOverflow = Register(13, "an operation cannot be completed due to value overflow")
	// ErrDatabase is returned when the underlying store fails.
	ErrDatabase = Register(14, "database")
	// ErrIteratorDone ends every iteration.
	ErrIteratorDone = Register(15, "iterator done")
	// ErrPanic wraps a recovered panic, see Recover.
	ErrPanic = Register(111222, "panic")
)

// usedCodes guarantees every code is registered once. Success and the
// internal code are reserved.
var usedCodes = map[uint32]*Error{
	SuccessABCICode:  nil,
	internalABCICode: nil,
}

// Register declares a root error with its ABCI code. Reusing a code panics,
// so it is only meant for package level variables.
func Register(code uint32, description string) *Error {
	if prev, ok := usedCodes[code]; ok {
		desc := "reserved"
		if prev != nil {
			desc = prev.desc
		}
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, desc))
	}
	e := &Error{code: code, desc: description}
	usedCodes[code] = e
	return e
}

// Error is a registered root error. Errors returned at runtime wrap one of
// them, which gives them their ABCI code.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string    { return e.desc }
func (e Error) ABCICode() uint32 { return e.code }

// New is Wrap(e, description).
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

func (e *Error) Newf(format string, args ...interface{}) error {
	return Wrap(e, fmt.Sprintf(format, args...))
}

// Is reports whether err wraps e. For a multi error it is enough that one
// of the held errors does. A nil *Error matches only nil errors.
func (e *Error) Is(err error) bool {
	if e == nil {
		return isNilErr(err)
	}
	for err != nil {
		if err == e {
			return true
		}
		switch x := err.(type) {
		case unpacker:
			for _, inner := range x.Unpack() {
				if e.Is(inner) {
					return true
				}
			}
			return false
		case causer:
			err = x.Cause()
		default:
			return false
		}
	}
	return false
}

// Wrap adds description to err and records a stack trace unless err
// already carries one. Wrapping nil returns nil. Errors not wrapping a
// registered error are reported as internal.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	return &wrappedError{parent: err, msg: description}
}

func Wrapf(err error, format string, args ...interface{}) error {
	return Wrap(err, fmt.Sprintf(format, args...))
}

type wrappedError struct {
	msg    string
	parent error
}

func (e *wrappedError) Error() string {
	return e.msg + ": " + e.parent.Error()
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// Format adds the recorded stack trace for %+v.
func (e *wrappedError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "%s%+v", e.Error(), stackTrace(e))
		return
	}
	fmt.Fprint(s, e.Error())
}

// Recover turns a panic into an ErrPanic assigned to *err. It must be
// deferred directly.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// WithType wraps err with the type name of obj.
func WithType(err error, obj interface{}) error {
	return Wrap(err, fmt.Sprintf("%T", obj))
}

type causer interface {
	Cause() error
}

type stackTracer interface {
	StackTrace() errors.StackTrace
}

// stackTrace returns the first stack trace found while unwrapping err.
func stackTrace(err error) errors.StackTrace {
	for err != nil {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}
		c, ok := err.(causer)
		if !ok {
			break
		}
		err = c.Cause()
	}
	return nil
}

// isNilErr also catches a typed nil pointer stored in the error interface.
func isNilErr(err error) bool {
	if err == nil {
		return true
	}
	v := reflect.ValueOf(err)
	return v.Kind() == reflect.Ptr && v.IsNil()
}

package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// Field attributes err to a message field, for example Owners.1 or
// Threshold. Nested paths use dots and list elements use their index.
// The description is optional and may be a format string. A nil err
// returns nil so validation code can call it unconditionally.
func Field(name string, err error, description string, args ...interface{}) error {
	if isNilErr(err) {
		return nil
	}
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}
	if len(args) != 0 {
		description = fmt.Sprintf(description, args...)
	}
	return &fieldError{parent: err, field: name, desc: description}
}

// AppendField adds the field error, if any, to errs.
func AppendField(errs error, name string, fieldErr error) error {
	return Append(errs, Field(name, fieldErr, ""))
}

type fieldError struct {
	parent error
	field  string
	desc   string
}

func (e *fieldError) Error() string {
	if e.desc != "" {
		return fmt.Sprintf("field %q: %s: %s", e.field, e.desc, e.parent)
	}
	return fmt.Sprintf("field %q: %s", e.field, e.parent)
}

func (e *fieldError) Cause() error  { return e.parent }
func (e *fieldError) Field() string { return e.field }

// FieldErrors collects every error reported for the named field, looking
// through wrapping and multi errors.
func FieldErrors(err error, name string) []error {
	var found []error
	for !isNilErr(err) {
		switch e := err.(type) {
		case *fieldError:
			if e.field == name {
				return append(found, err)
			}
			err = e.parent
		case unpacker:
			for _, child := range e.Unpack() {
				found = append(found, FieldErrors(child, name)...)
			}
			return found
		case causer:
			err = e.Cause()
		default:
			return found
		}
	}
	return found
}

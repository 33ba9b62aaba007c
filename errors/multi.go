package errors

import (
	"fmt"
	"strings"
)

// Append clubs together all provided errors. Nil values are ignored.
//
// The result holds a flat list of errors: appending a multi error adds its
// content and not the container. Nil is returned when no error was given.
func Append(errs ...error) error {
	var res multiErr
	for _, e := range errs {
		if isNilErr(e) {
			continue
		}
		if m, ok := e.(multiErr); ok {
			res = append(res, m...)
		} else {
			res = append(res, e)
		}
	}
	if len(res) == 0 {
		return nil
	}
	return res
}

// multiErr is an error that represents a collection of errors. The order of
// the errors is the order they were appended in.
type multiErr []error

func (m multiErr) Error() string {
	if len(m) == 1 {
		return m[0].Error()
	}
	msgs := make([]string, len(m))
	for i, e := range m {
		msgs[i] = fmt.Sprintf("* %s", e)
	}
	return fmt.Sprintf("%d errors occurred:\n\t%s", len(m), strings.Join(msgs, "\n\t"))
}

// ABCICode returns the code of the first error that declares one. A
// multi error is treated as a fail fast result of the first failure.
func (m multiErr) ABCICode() uint32 {
	for _, e := range m {
		if code := abciCode(e); code != internalABCICode {
			return code
		}
	}
	return internalABCICode
}

// Unpack implements unpacker interface.
func (m multiErr) Unpack() []error {
	return []error(m)
}

// unpacker is implemented by errors that are a container for more than one
// error.
type unpacker interface {
	Unpack() []error
}

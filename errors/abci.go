package errors

import "fmt"

const (
	// SuccessABCICode is the code of a successful response.
	SuccessABCICode = 0

	// Errors that do not declare a code are reported under this one with
	// a generic log. The vault contract owns code 1 (insufficient
	// balance) so the internal code lives far outside the registered range.
	internalABCICode uint32 = 111111
	internalABCILog         = "internal error"
)

// ABCIInfo returns the code and log to report for err. Errors without a
// code are internal: outside of debug mode their message is replaced with a
// generic one. Debug mode formats with %+v, which includes a stack trace
// when one was recorded.
func ABCIInfo(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessABCICode, ""
	}
	code := abciCode(err)
	switch {
	case debug:
		return code, fmt.Sprintf("%+v", err)
	case code == internalABCICode:
		return code, internalABCILog
	default:
		return code, err.Error()
	}
}

type coder interface {
	ABCICode() uint32
}

// abciCode unwraps err until it finds an error declaring a code.
func abciCode(err error) uint32 {
	if isNilErr(err) {
		return SuccessABCICode
	}
	for {
		if c, ok := err.(coder); ok {
			return c.ABCICode()
		}
		c, ok := err.(causer)
		if !ok {
			return internalABCICode
		}
		err = c.Cause()
	}
}

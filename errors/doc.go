/*
Package errors implements the registered error codes used across coffer.

Every error returned to a client should wrap one of the root errors created
with Register. The root error decides the ABCI code of the response, the
wrapping layers only add context.

Reuse the errors declared in this package whenever possible and register a
custom root error only when an extension exposes a stable code of its own,
as the vault does for its contract codes (1, 100, 404).

Create errors with ErrXyz.New("...") or errors.Wrap(err, "...") at the point
of failure so that a stacktrace is attached. Only the innermost wrap records
the stack.

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context

	%s is just the error message
	%+v is the message followed by the stack trace
*/
package errors

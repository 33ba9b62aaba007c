package sigs

import (
	"github.com/iov-one/coffer/errors"
)

// x/sigs reserves 120 ~ 129.

// ErrInvalidSequence is returned when a signature carries a nonce that does
// not match the signer's current sequence.
var ErrInvalidSequence = errors.Register(120, "invalid sequence number")

package vault

import (
	"github.com/iov-one/coffer/errors"
)

// The vault exposes its contract codes to clients, so they do not follow
// the range reservation of other extensions.
var (
	ErrInsufficientBalance = errors.Register(1, "insufficient balance")
	ErrNotOwner            = errors.Register(100, "not an owner")
	ErrAlreadyExecuted     = errors.Register(101, "transaction already executed")
	ErrAlreadyInitialized  = errors.Register(102, "vault already initialized")
	ErrInvalidThreshold    = errors.Register(103, "invalid threshold")
	ErrLivenessDenied      = errors.Register(404, "liveness denied")
)

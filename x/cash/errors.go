package cash

import (
	"github.com/iov-one/coffer/errors"
)

// x/cash reserves 130 ~ 139.
var (
	ErrInsufficientFunds = errors.Register(130, "insufficient funds")
	ErrInvalidAmount     = errors.Register(131, "invalid amount")
)

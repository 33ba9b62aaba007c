package orm

import (
	"github.com/iov-one/coffer/errors"
)

// Orm reserves 110~119 error codes

// ErrInvalidIndex is returned when an index specified is invalid
var ErrInvalidIndex = errors.Register(110, "invalid index")

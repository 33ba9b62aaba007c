package orm

import (
	"github.com/iov-one/coffer/errors"
)

// Counter is a minimal model used across the orm tests.
type Counter struct {
	Count int64
}

var _ Model = (*Counter)(nil)

func (c *Counter) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(c)
}

func (c *Counter) Unmarshal(bz []byte) error {
	return cdc.UnmarshalBinaryBare(bz, c)
}

func (c *Counter) Validate() error {
	if c.Count < 0 {
		return errors.Wrap(errors.ErrModel, "negative count")
	}
	return nil
}

func (c *Counter) Copy() CloneableData {
	return &Counter{Count: c.Count}
}

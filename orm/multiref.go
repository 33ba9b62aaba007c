package orm

import (
	"bytes"
	"sort"

	"github.com/iov-one/coffer/errors"
)

// MultiRef contains a sorted set of references, as stored by a non
// unique index.
type MultiRef struct {
	Refs [][]byte
}

var _ CloneableData = (*MultiRef)(nil)

// NewMultiRef creates a MultiRef with any number of initial references
func NewMultiRef(refs ...[]byte) (*MultiRef, error) {
	m := new(MultiRef)
	for _, r := range refs {
		if err := m.Add(r); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Add inserts this reference in the multiref, sorted by order.
// Returns an error if already there
func (m *MultiRef) Add(ref []byte) error {
	i, found := m.findRef(ref)
	if found {
		return errors.Wrap(errors.ErrDuplicate, "cannot add a ref twice")
	}
	// append to end
	if i == len(m.Refs) {
		m.Refs = append(m.Refs, ref)
		return nil
	}
	// or insert in the middle
	m.Refs = append(m.Refs, nil)
	copy(m.Refs[i+1:], m.Refs[i:])
	m.Refs[i] = ref
	return nil
}

// Remove removes this reference from the multiref.
// Returns an error if already there
func (m *MultiRef) Remove(ref []byte) error {
	i, found := m.findRef(ref)
	if !found {
		return errors.Wrap(errors.ErrNotFound, "cannot remove non-existent ref")
	}
	// splice it out
	m.Refs = append(m.Refs[:i], m.Refs[i+1:]...)
	return nil
}

// Size returns the number of references stored
func (m *MultiRef) Size() int {
	return len(m.Refs)
}

// findRef returns the index of the ref in the list, or where it
// would be inserted.
func (m *MultiRef) findRef(ref []byte) (int, bool) {
	i := sort.Search(len(m.Refs), func(i int) bool {
		return bytes.Compare(m.Refs[i], ref) >= 0
	})
	return i, i < len(m.Refs) && bytes.Equal(m.Refs[i], ref)
}

// Copy does a shallow copy of the slice of refs and creates a new MultiRef
func (m *MultiRef) Copy() CloneableData {
	refs := make([][]byte, len(m.Refs))
	copy(refs, m.Refs)
	return &MultiRef{Refs: refs}
}

// Validate just returns an error if empty
func (m *MultiRef) Validate() error {
	if len(m.Refs) == 0 {
		return errors.Wrap(errors.ErrEmpty, "no references")
	}
	return nil
}

// Marshal encodes the references with amino.
func (m *MultiRef) Marshal() ([]byte, error) {
	bz, err := cdc.MarshalBinaryBare(m)
	if err != nil {
		return nil, errors.Wrap(errors.ErrModel, err.Error())
	}
	return bz, nil
}

// Unmarshal decodes amino encoded references.
func (m *MultiRef) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, m); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

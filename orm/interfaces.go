package orm

import (
	"github.com/iov-one/coffer"
)

// Object is a value together with the key it is stored under. The bucket
// prefix is added to the key when writing to the db.
type Object interface {
	Keyed
	Cloneable
	// Validate is called before every save.
	Validate() error
	Value() coffer.Persistent
}

type Keyed interface {
	Key() []byte
	SetKey([]byte)
}

// Cloneable returns an empty object of the same type, ready to be loaded.
type Cloneable interface {
	Clone() Object
}

// CloneableData is a stored value: it serializes itself, validates itself
// and can be copied.
type CloneableData interface {
	coffer.Persistent
	Validate() error
	Copy() CloneableData
}

// Model is the name CloneableData goes by when used with a ModelBucket.
type Model = CloneableData

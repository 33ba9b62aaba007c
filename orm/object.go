package orm

import (
	"reflect"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// SimpleObj is the default Object: a key and the model stored under it.
type SimpleObj struct {
	key   []byte
	value Model
}

var _ Object = (*SimpleObj)(nil)

func NewSimpleObj(key []byte, value Model) *SimpleObj {
	return &SimpleObj{key: key, value: value}
}

func (o SimpleObj) Key() []byte              { return o.key }
func (o SimpleObj) Value() coffer.Persistent { return o.value }

// SetKey assigns the key, used by buckets that generate ids on save.
func (o *SimpleObj) SetKey(key []byte) {
	o.key = key
}

// Validate requires both key and value and then validates the value.
func (o SimpleObj) Validate() error {
	switch {
	case len(o.key) == 0:
		return errors.Field("Key", errors.ErrEmpty, "missing key")
	case o.value == nil:
		return errors.Field("Value", errors.ErrEmpty, "missing value")
	}
	return errors.Field("Value", o.value.Validate(), "invalid value")
}

// Clone returns an object with a copy of the key and a zero value of the
// same model type, ready to be unmarshaled into.
func (o *SimpleObj) Clone() Object {
	zero := reflect.New(reflect.TypeOf(o.value).Elem()).Interface().(Model)
	var key []byte
	if len(o.key) != 0 {
		key = append(key, o.key...)
	}
	return &SimpleObj{key: key, value: zero}
}

/*
Package gconf keeps the per extension configuration singletons. Each
extension reads its section of the genesis "conf" object once and stores
it under "_c:<extension>".
*/
package gconf

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// ReadStore is the part of coffer.ReadOnlyKVStore Load needs.
type ReadStore interface {
	Get([]byte) ([]byte, error)
}

// Store is the part of coffer.KVStore Save needs.
type Store interface {
	ReadStore
	Set([]byte, []byte) error
}

type ValidMarshaler interface {
	Marshal() ([]byte, error)
	Validate() error
}

type Unmarshaler interface {
	Unmarshal([]byte) error
}

// Configuration is the configuration of one extension, for example the
// vault thresholds.
type Configuration interface {
	ValidMarshaler
	Unmarshaler
}

func key(pkg string) []byte {
	return []byte("_c:" + pkg)
}

// Save validates src and stores it as the configuration of pkg.
func Save(db Store, pkg string, src ValidMarshaler) error {
	k := key(pkg)
	if err := src.Validate(); err != nil {
		return errors.Wrapf(err, "validation: key %q", k)
	}
	raw, err := src.Marshal()
	if err != nil {
		return errors.Wrapf(err, "marshal: key %q", k)
	}
	return db.Set(k, raw)
}

// Load reads the configuration of pkg into dst. It fails with ErrNotFound
// if pkg was never configured.
func Load(db ReadStore, pkg string, dst Unmarshaler) error {
	k := key(pkg)
	switch raw, err := db.Get(k); {
	case err != nil:
		return err
	case raw == nil:
		return errors.Wrapf(errors.ErrNotFound, "key %q", k)
	default:
		return errors.Wrapf(dst.Unmarshal(raw), "unmarshal: key %q", k)
	}
}

// InitConfig reads the genesis section conf.<pkg> into conf and saves it.
// A missing section fails with ErrNotFound so callers can fall back to
// defaults.
func InitConfig(db Store, opts coffer.Options, pkg string, conf Configuration) error {
	var sections coffer.Options
	if err := opts.ReadOptions("conf", &sections); err != nil {
		return errors.Wrap(err, "read conf")
	}
	if _, ok := sections[pkg]; !ok {
		return errors.Wrapf(errors.ErrNotFound, "no configuration in genesis for %q package", pkg)
	}
	if err := sections.ReadOptions(pkg, conf); err != nil {
		return errors.Wrapf(err, "read configuration for %s", pkg)
	}
	return errors.Wrapf(Save(db, pkg, conf), "save configuration for %s", pkg)
}

package orm

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// consumeIterator will read all remaining data into an
// array and release the iterator
func consumeIterator(itr coffer.Iterator) ([]coffer.Model, error) {
	defer itr.Release()

	var res []coffer.Model
	for {
		key, value, err := itr.Next()
		if errors.ErrIteratorDone.Is(err) {
			return res, nil
		}
		if err != nil {
			return nil, err
		}
		res = append(res, coffer.Pair(key, value))
	}
}

// queryPrefix returns all models with the given key prefix.
func queryPrefix(db coffer.ReadOnlyKVStore, prefix []byte) ([]coffer.Model, error) {
	itr, err := db.Iterator(prefixRange(prefix))
	if err != nil {
		return nil, err
	}
	return consumeIterator(itr)
}

// prefixRange turns a prefix into (start, end) to create
// and iterator
func prefixRange(prefix []byte) ([]byte, []byte) {
	// special case: no prefix is whole range
	if len(prefix) == 0 {
		return nil, nil
	}

	// copy the prefix and update last byte
	end := make([]byte, len(prefix))
	copy(end, prefix)
	l := len(end) - 1
	end[l]++

	// wait, what if that overflowed?....
	for end[l] == 0 && l > 0 {
		l--
		end[l]++
	}

	// okay, funny guy, you gave us FFF, no end to this range...
	if l == 0 && end[0] == 0 {
		end = nil
	}
	return prefix, end
}

// RegisterQuery exposes the raw database under "/". Data is the full
// database key, or a key prefix with the prefix modifier.
func RegisterQuery(qr coffer.QueryRouter) {
	qr.Register("/", rawQuery{})
}

type rawQuery struct{}

func (rawQuery) Query(db coffer.ReadOnlyKVStore, mod string, data []byte) ([]coffer.Model, error) {
	switch mod {
	case coffer.KeyQueryMod:
		if len(data) == 0 {
			return nil, errors.Wrap(errors.ErrInput, "empty key")
		}
		value, err := db.Get(data)
		if err != nil {
			return nil, err
		}
		if value == nil {
			return nil, nil
		}
		return []coffer.Model{coffer.Pair(data, value)}, nil
	case coffer.PrefixQueryMod:
		return queryPrefix(db, data)
	default:
		return nil, errors.Wrapf(errors.ErrInput, "not implemented: %s", mod)
	}
}

package orm

import (
	"encoding/binary"

	"github.com/iov-one/coffer"
)

// Sequence maintains a counter, and generates a
// series of keys. Each key is greater than the last,
// both NextInt() as well as bytes.Compare() on NextVal().
//
// The first value handed out is 0 and no value is ever handed out twice.
type Sequence struct {
	id []byte
}

// NewSequence returns a sequence counter. Sequence is using following pattern
// to construct a key:
//
//	_s.<bucket>:<name>
func NewSequence(bucket, name string) Sequence {
	id := "_s." + bucket + ":" + name
	return Sequence{
		id: []byte(id),
	}
}

// NextVal reserves the next value of the sequence and returns it as 8 bytes.
func (s *Sequence) NextVal(db coffer.KVStore) ([]byte, error) {
	val, err := s.NextInt(db)
	if err != nil {
		return nil, err
	}
	return EncodeSequence(val), nil
}

// NextInt reserves the next value of the sequence and returns it as int.
func (s *Sequence) NextInt(db coffer.KVStore) (int64, error) {
	val, err := s.Peek(db)
	if err != nil {
		return 0, err
	}
	if err := db.Set(s.id, EncodeSequence(val+1)); err != nil {
		return 0, err
	}
	return val, nil
}

// Peek returns the value that the next call to NextInt will hand out,
// without modifying the sequence state.
func (s *Sequence) Peek(db coffer.ReadOnlyKVStore) (int64, error) {
	raw, err := db.Get(s.id)
	if err != nil {
		return 0, err
	}
	return DecodeSequence(raw), nil
}

// DecodeSequence parses a big endian encoded sequence value. Missing
// value is decoded as zero.
func DecodeSequence(bz []byte) int64 {
	if len(bz) != 8 {
		return 0
	}
	return int64(binary.BigEndian.Uint64(bz))
}

// EncodeSequence returns the big endian representation of the value, so
// that byte order follows numeric order.
func EncodeSequence(val int64) []byte {
	bz := make([]byte, 8)
	binary.BigEndian.PutUint64(bz, uint64(val))
	return bz
}

package app

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// ResultSet holds a list of keys or values returned by a query. It is
// encoded with the protobuf wire format as a single repeated bytes field.
type ResultSet struct {
	Results [][]byte
}

// resultsTag is the key of field 1 with the length delimited wire type.
const resultsTag = 1<<3 | proto.WireBytes

// Marshal encodes the result set.
func (r *ResultSet) Marshal() ([]byte, error) {
	var out []byte
	for _, res := range r.Results {
		out = append(out, proto.EncodeVarint(resultsTag)...)
		out = append(out, proto.EncodeVarint(uint64(len(res)))...)
		out = append(out, res...)
	}
	return out, nil
}

// Unmarshal decodes a result set. Unknown fields are rejected.
func (r *ResultSet) Unmarshal(bz []byte) error {
	var results [][]byte
	for len(bz) > 0 {
		tag, n := proto.DecodeVarint(bz)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "malformed tag")
		}
		if tag != resultsTag {
			return errors.Wrapf(errors.ErrInput, "unexpected field tag %d", tag)
		}
		bz = bz[n:]
		size, n := proto.DecodeVarint(bz)
		if n == 0 {
			return errors.Wrap(errors.ErrInput, "malformed length")
		}
		bz = bz[n:]
		if uint64(len(bz)) < size {
			return errors.Wrapf(errors.ErrInput, "want %d bytes, have %d", size, len(bz))
		}
		res := make([]byte, size)
		copy(res, bz[:size])
		results = append(results, res)
		bz = bz[size:]
	}
	r.Results = results
	return nil
}

// ResultsFromKeys returns a ResultSet of all keys
// given a set of models
func ResultsFromKeys(models []coffer.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Key
	}
	return &ResultSet{Results: res}
}

// ResultsFromValues returns a ResultSet of all values
// given a set of models
func ResultsFromValues(models []coffer.Model) *ResultSet {
	res := make([][]byte, len(models))
	for i, m := range models {
		res[i] = m.Value
	}
	return &ResultSet{Results: res}
}

// JoinResults inverts ResultsFromKeys and ResultsFromValues
// and makes then a consistent whole again
func JoinResults(keys, values *ResultSet) ([]coffer.Model, error) {
	kref, vref := keys.Results, values.Results
	if len(kref) != len(vref) {
		return nil, errors.Wrap(errors.ErrState, "mismatched result set size")
	}
	mods := make([]coffer.Model, len(kref))
	for i := range mods {
		mods[i] = coffer.Model{
			Key:   kref[i],
			Value: vref[i],
		}
	}
	return mods, nil
}

// UnmarshalOneResult will parse a resultset, and
// it if is not empty, unmarshal the first result into o
func UnmarshalOneResult(bz []byte, o coffer.Persistent) error {
	var res ResultSet
	if err := res.Unmarshal(bz); err != nil {
		return err
	}
	if len(res.Results) == 0 {
		return nil
	}
	return o.Unmarshal(res.Results[0])
}

package sigs

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/crypto"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
)

// BucketName is where we store the accounts
const BucketName = "sigs"

// UserData is the signature state of a single public key: the key itself
// and the next nonce it must sign with.
type UserData struct {
	Pubkey   *crypto.PublicKey
	Sequence int64
}

var _ orm.CloneableData = (*UserData)(nil)

// Validate requires a public key once any signature was accepted.
func (u *UserData) Validate() error {
	switch {
	case u.Sequence < 0:
		return errors.Field("Sequence", ErrInvalidSequence, "negative")
	case u.Sequence > 0 && u.Pubkey == nil:
		return errors.Field("Sequence", ErrInvalidSequence, "needs Pubkey")
	}
	return nil
}

func (u *UserData) Copy() orm.CloneableData {
	cpy := *u
	return &cpy
}

// Marshal encodes the user state with amino.
func (u *UserData) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(u)
}

// Unmarshal decodes amino encoded user state.
func (u *UserData) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, u); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// maxSequence is the largest integer a javascript client represents
// exactly.
const maxSequence = 1<<53 - 1

// CheckAndIncrementSequence advances the nonce if the signature used the
// current one.
func (u *UserData) CheckAndIncrementSequence(used int64) error {
	if u.Sequence != used {
		return errors.Wrapf(ErrInvalidSequence, "mismatch expected %d, got %d", used, u.Sequence)
	}
	if u.Sequence >= maxSequence {
		return errors.Wrap(errors.ErrOverflow, "sequence out of range")
	}
	u.Sequence++
	return nil
}

// AsUser returns the UserData held by obj, nil for an empty object.
func AsUser(obj orm.Object) *UserData {
	if obj == nil || obj.Value() == nil {
		return nil
	}
	return obj.Value().(*UserData)
}

// NewUser returns a fresh account for pubkey, stored under its address.
func NewUser(pubkey *crypto.PublicKey) orm.Object {
	var key coffer.Address
	if pubkey != nil {
		key = pubkey.Address()
	}
	return orm.NewSimpleObj(key, &UserData{Pubkey: pubkey})
}

// Bucket holds one UserData per signing key.
type Bucket struct {
	orm.Bucket
}

func NewBucket() Bucket {
	return Bucket{Bucket: orm.NewBucket(BucketName, NewUser(nil))}
}

// GetOrCreate loads the account of pubkey, or a new one with nonce 0 if
// the key never signed.
func (b Bucket) GetOrCreate(db coffer.KVStore, pubkey *crypto.PublicKey) (orm.Object, error) {
	obj, err := b.Get(db, pubkey.Address())
	if err == nil && obj == nil {
		obj = NewUser(pubkey)
	}
	return obj, err
}

package coffertest

import (
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/crypto"
)

// NewKey returns a new random ed25519 signer.
func NewKey() crypto.Signer {
	return crypto.GenPrivKeyEd25519()
}

// NewCondition returns the signature condition of a new random key.
func NewCondition() coffer.Condition {
	return NewKey().PublicKey().Condition()
}

// ParseAddress takes an address in a human readable format and returns
// its binary representation.
func ParseAddress(t testing.TB, encodedAddress string) coffer.Address {
	t.Helper()

	addr, err := coffer.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

package crypto

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// ExtensionName is used for the conditions we get from signatures
const ExtensionName = "sigs"

// PubKey represents a crypto public key we use
type PubKey interface {
	Verify(message []byte, sig *Signature) bool
	Condition() coffer.Condition
}

// Signer is the functionality we use from a private key
// No serializing to support hardware devices as well.
type Signer interface {
	Sign(message []byte) (*Signature, error)
	PublicKey() *PublicKey
}

// PublicKey holds a public key of one of the supported algorithms.
// Only ed25519 is supported.
type PublicKey struct {
	Ed25519 []byte
}

// PrivateKey holds a private key of one of the supported algorithms.
type PrivateKey struct {
	Ed25519 []byte
}

// Signature holds a signature produced by a PrivateKey.
type Signature struct {
	Ed25519 []byte
}

// Validate checks the key is set and has the right length.
func (p *PublicKey) Validate() error {
	if p == nil || len(p.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "public key")
	}
	if len(p.Ed25519) != ed25519PublicKeySize {
		return errors.Wrapf(errors.ErrInput, "ed25519 public key length %d", len(p.Ed25519))
	}
	return nil
}

// Address is the address of the condition this key signs for.
func (p *PublicKey) Address() coffer.Address {
	return p.Condition().Address()
}

// Validate checks the signature is set and has the right length.
func (s *Signature) Validate() error {
	if s == nil || len(s.Ed25519) == 0 {
		return errors.Wrap(errors.ErrEmpty, "signature")
	}
	if len(s.Ed25519) != ed25519SignatureSize {
		return errors.Wrapf(errors.ErrInput, "ed25519 signature length %d", len(s.Ed25519))
	}
	return nil
}

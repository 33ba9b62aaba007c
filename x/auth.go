package x

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
)

// Authenticator extracts the conditions a transaction fulfills from the
// context. Handlers receive one in their constructor, so the signature
// scheme stays pluggable.
type Authenticator interface {
	// GetConditions reveals all Conditions fulfilled, in signing order.
	GetConditions(coffer.Context) []coffer.Condition
	// HasAddress checks if any condition matches this address
	HasAddress(coffer.Context, coffer.Address) bool
}

// MultiAuth chains together many Authenticators into one
type MultiAuth []Authenticator

var _ Authenticator = MultiAuth{}

// ChainAuth groups together a series of Authenticator
func ChainAuth(impls ...Authenticator) MultiAuth {
	return MultiAuth(impls)
}

// GetConditions returns the conditions of every Authenticator, in order.
func (m MultiAuth) GetConditions(ctx coffer.Context) []coffer.Condition {
	var res []coffer.Condition
	for _, impl := range m {
		res = append(res, impl.GetConditions(ctx)...)
	}
	return res
}

// HasAddress returns true iff any Authenticator support this
func (m MultiAuth) HasAddress(ctx coffer.Context, addr coffer.Address) bool {
	for _, impl := range m {
		if impl.HasAddress(ctx, addr) {
			return true
		}
	}
	return false
}

// MainSigner returns the first condition, or nil for an unsigned
// transaction.
func MainSigner(ctx coffer.Context, auth Authenticator) coffer.Condition {
	if signers := auth.GetConditions(ctx); len(signers) != 0 {
		return signers[0]
	}
	return nil
}

// RequireMainSigner returns the address of the main signer. It fails with
// ErrUnauthorized when the transaction carries no signature at all.
func RequireMainSigner(ctx coffer.Context, auth Authenticator) (coffer.Address, error) {
	signer := MainSigner(ctx, auth)
	if signer == nil {
		return nil, errors.Wrap(errors.ErrUnauthorized, "no signer")
	}
	return signer.Address(), nil
}

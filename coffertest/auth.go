package coffertest

import (
	"context"
	"fmt"

	"github.com/iov-one/coffer"
)

// Auth is a mock implementing x.Authenticator interface.
//
// This structure authenticates any of referenced conditions.
// You can use either Signer or Signers (or both) attributes to reference
// conditions. Each time all signers (regardless which attribute) are
// considered, Signer being the last one.
type Auth struct {
	// Signer represents an authentication of a single signer.
	Signer coffer.Condition

	// Signers represents an authentication of multiple signers.
	Signers []coffer.Condition
}

func (a *Auth) GetConditions(coffer.Context) []coffer.Condition {
	if a.Signer != nil {
		return append(a.Signers, a.Signer)
	}
	return a.Signers
}

func (a *Auth) HasAddress(ctx coffer.Context, addr coffer.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

type ctxAuthKey string

// CtxAuth is a mock implementing x.Authenticator interface.
//
// This implementation is using context to store and retrieve permissions.
type CtxAuth struct {
	// Key used to set and retrieve conditions from the context.
	Key string
}

func (a *CtxAuth) SetConditions(ctx coffer.Context, permissions ...coffer.Condition) coffer.Context {
	return context.WithValue(ctx, ctxAuthKey(a.Key), permissions)
}

func (a *CtxAuth) GetConditions(ctx coffer.Context) []coffer.Condition {
	val := ctx.Value(ctxAuthKey(a.Key))
	if val == nil {
		return nil
	}
	conds, ok := val.([]coffer.Condition)
	if !ok {
		panic(fmt.Sprintf("instead of []coffer.Condition got %T", val))
	}
	return conds
}

func (a *CtxAuth) HasAddress(ctx coffer.Context, addr coffer.Address) bool {
	for _, s := range a.GetConditions(ctx) {
		if addr.Equals(s.Address()) {
			return true
		}
	}
	return false
}

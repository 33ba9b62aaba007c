package x

import (
	"context"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/stretchr/testify/assert"
)

func TestAuthenticators(t *testing.T) {
	owner := coffertest.NewCondition()
	cosigner := coffertest.NewCondition()
	stranger := coffertest.NewCondition()

	signed := &coffertest.CtxAuth{Key: "signed"}
	other := &coffertest.CtxAuth{Key: "other"}
	bg := context.Background()

	cases := map[string]struct {
		ctx         coffer.Context
		auth        Authenticator
		wantSigner  coffer.Condition
		wantAll     []coffer.Condition
		wantUnknown coffer.Condition
	}{
		"unsigned": {
			ctx:         bg,
			auth:        &coffertest.Auth{},
			wantUnknown: owner,
		},
		"single signer": {
			ctx:         bg,
			auth:        &coffertest.Auth{Signer: owner},
			wantSigner:  owner,
			wantAll:     []coffer.Condition{owner},
			wantUnknown: stranger,
		},
		"chained keeps order": {
			ctx:         bg,
			auth:        ChainAuth(&coffertest.Auth{Signer: cosigner}, &coffertest.Auth{}, &coffertest.Auth{Signer: owner}),
			wantSigner:  cosigner,
			wantAll:     []coffer.Condition{cosigner, owner},
			wantUnknown: stranger,
		},
		"context signers": {
			ctx:         signed.SetConditions(bg, owner, cosigner),
			auth:        signed,
			wantSigner:  owner,
			wantAll:     []coffer.Condition{owner, cosigner},
			wantUnknown: stranger,
		},
		"signers under another key are invisible": {
			ctx:         signed.SetConditions(bg, owner),
			auth:        other,
			wantUnknown: owner,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.wantSigner, MainSigner(tc.ctx, tc.auth))
			assert.Equal(t, tc.wantAll, tc.auth.GetConditions(tc.ctx))
			for _, c := range tc.wantAll {
				assert.True(t, tc.auth.HasAddress(tc.ctx, c.Address()))
			}
			assert.False(t, tc.auth.HasAddress(tc.ctx, tc.wantUnknown.Address()))

			addr, err := RequireMainSigner(tc.ctx, tc.auth)
			if tc.wantSigner == nil {
				assert.True(t, errors.ErrUnauthorized.Is(err))
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tc.wantSigner.Address(), addr)
		})
	}
}

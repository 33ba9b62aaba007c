package cash

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendHandler(t *testing.T) {
	perm := coffertest.NewCondition()
	perm2 := coffertest.NewCondition()

	cases := map[string]struct {
		signer      coffer.Condition
		funds       uint64
		msg         coffer.Msg
		wantCheck   *errors.Error
		wantDeliver *errors.Error
		wantSrc     uint64
		wantDest    uint64
	}{
		"wrong message type": {
			msg:         &coffertest.Msg{RoutePath: "cash/send"},
			wantCheck:   errors.ErrType,
			wantDeliver: errors.ErrType,
		},
		"zero amount": {
			signer:      perm,
			msg:         &SendMsg{Source: perm.Address(), Destination: perm2.Address()},
			wantCheck:   ErrInvalidAmount,
			wantDeliver: ErrInvalidAmount,
		},
		"missing destination": {
			signer:      perm,
			msg:         &SendMsg{Source: perm.Address(), Amount: 5},
			wantCheck:   errors.ErrEmpty,
			wantDeliver: errors.ErrEmpty,
		},
		"not signed by source": {
			signer:      perm2,
			funds:       100,
			msg:         &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 5},
			wantCheck:   errors.ErrUnauthorized,
			wantDeliver: errors.ErrUnauthorized,
			wantSrc:     100,
		},
		"too poor": {
			signer:      perm,
			funds:       4,
			msg:         &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 5},
			wantDeliver: ErrInsufficientFunds,
			wantSrc:     4,
		},
		"success": {
			signer:   perm,
			funds:    100,
			msg:      &SendMsg{Source: perm.Address(), Destination: perm2.Address(), Amount: 60, Memo: "rent"},
			wantSrc:  40,
			wantDest: 60,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			kv := store.MemStore()
			control := NewController(NewBucket())
			require.NoError(t, control.CoinMint(kv, perm.Address(), tc.funds))

			auth := &coffertest.Auth{Signer: tc.signer}
			r := handlerRegistry{}
			RegisterRoutes(r, auth, control)
			h := r["cash/send"]
			require.NotNil(t, h)

			tx := &coffertest.Tx{Msg: tc.msg}
			ctx := context.Background()

			_, err := h.Check(ctx, kv.CacheWrap(), tx)
			if tc.wantCheck != nil {
				assert.True(t, tc.wantCheck.Is(err), "got %+v", err)
			} else {
				assert.NoError(t, err)
			}

			_, err = h.Deliver(ctx, kv, tx)
			if tc.wantDeliver != nil {
				assert.True(t, tc.wantDeliver.Is(err), "got %+v", err)
			} else {
				assert.NoError(t, err)
			}

			bal, err := control.Balance(kv, perm.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantSrc, bal)
			bal, err = control.Balance(kv, perm2.Address())
			require.NoError(t, err)
			assert.Equal(t, tc.wantDest, bal)
		})
	}
}

type handlerRegistry map[string]coffer.Handler

func (r handlerRegistry) Handle(path string, h coffer.Handler) {
	r[path] = h
}

func TestGenesis(t *testing.T) {
	a := coffertest.NewCondition().Address()
	b := coffertest.NewCondition().Address()
	raw := `{"cash": [
		{"address": "` + a.String() + `", "balance": 1000},
		{"address": "` + b.String() + `", "balance": 7}
	]}`
	var opts coffer.Options
	require.NoError(t, json.Unmarshal([]byte(raw), &opts))

	kv := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, kv))

	control := NewController(NewBucket())
	bal, err := control.Balance(kv, a)
	require.NoError(t, err)
	assert.Equal(t, uint64(1000), bal)
	bal, err = control.Balance(kv, b)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), bal)

	qr := coffer.NewQueryRouter()
	RegisterQuery(qr)
	res, err := qr.Handler("/wallets").Query(kv, coffer.KeyQueryMod, a)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var w Wallet
	require.NoError(t, w.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(1000), w.Balance)

	bad := `{"cash": [{"address": "", "balance": 1}]}`
	require.NoError(t, json.Unmarshal([]byte(bad), &opts))
	err = Initializer{}.FromGenesis(opts, kv)
	assert.True(t, errors.ErrEmpty.Is(err))
}

func TestSendMsgEncoding(t *testing.T) {
	msg := &SendMsg{
		Source:      coffertest.NewCondition().Address(),
		Destination: coffertest.NewCondition().Address(),
		Amount:      123456789,
		Memo:        "deposit",
	}
	require.NoError(t, msg.Validate())
	bz, err := msg.Marshal()
	require.NoError(t, err)

	var got SendMsg
	require.NoError(t, got.Unmarshal(bz))
	assert.Equal(t, msg, &got)
}

package vault

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/coffertest"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/gconf"
	"github.com/iov-one/coffer/orm"
	"github.com/iov-one/coffer/store"
	"github.com/iov-one/coffer/x/cash"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tendermint/tendermint/libs/common"
)

type handlerRegistry map[string]coffer.Handler

func (r handlerRegistry) Handle(path string, h coffer.Handler) {
	r[path] = h
}

type handlerFixture struct {
	kv          store.CacheableKVStore
	cash        cash.Controller
	control     *Controller
	handlers    handlerRegistry
	auth        *coffertest.Auth
	owners      []coffer.Condition
	beneficiary coffer.Address
}

func newHandlerFixture(t testing.TB, admin coffer.Address) *handlerFixture {
	t.Helper()
	f := &handlerFixture{
		kv:          store.MemStore(),
		cash:        cash.NewController(cash.NewBucket()),
		handlers:    handlerRegistry{},
		auth:        &coffertest.Auth{},
		owners:      []coffer.Condition{coffertest.NewCondition(), coffertest.NewCondition(), coffertest.NewCondition()},
		beneficiary: coffertest.NewCondition().Address(),
	}
	f.control = NewController(f.cash)
	RegisterRoutes(f.handlers, f.auth, f.control)

	conf := DefaultConfiguration()
	conf.Admin = admin
	conf.BackupBeneficiary = f.beneficiary
	require.NoError(t, gconf.Save(f.kv, packageName, &conf))
	return f
}

func (f *handlerFixture) ownerAddrs() []coffer.Address {
	addrs := make([]coffer.Address, len(f.owners))
	for i, o := range f.owners {
		addrs[i] = o.Address()
	}
	return addrs
}

// deliver runs the message through check and deliver as signed by the
// given condition at the given height.
func (f *handlerFixture) deliver(t testing.TB, signer coffer.Condition, height int64, msg coffer.Msg) (*coffer.DeliverResult, error) {
	t.Helper()
	f.auth.Signer = signer
	h, ok := f.handlers[msg.Path()]
	require.True(t, ok, "no handler for %q", msg.Path())

	ctx := coffer.WithHeight(context.Background(), height)
	tx := &coffertest.Tx{Msg: msg}
	if _, err := h.Check(ctx, f.kv.CacheWrap(), tx); err != nil {
		return nil, err
	}
	return h.Deliver(ctx, f.kv, tx)
}

func tag(tags []common.KVPair, key string) string {
	for _, t := range tags {
		if string(t.Key) == key {
			return string(t.Value)
		}
	}
	return ""
}

func TestInitializeHandler(t *testing.T) {
	admin := coffertest.NewCondition()

	cases := map[string]struct {
		admin  coffer.Address
		signer coffer.Condition
		msg    func(f *handlerFixture) *InitializeMsg
		want   *errors.Error
	}{
		"anyone may initialize without admin": {
			msg: func(f *handlerFixture) *InitializeMsg {
				return &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 2}
			},
		},
		"admin initializes": {
			admin:  admin.Address(),
			signer: admin,
			msg: func(f *handlerFixture) *InitializeMsg {
				return &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 3}
			},
		},
		"admin signature missing": {
			admin:  admin.Address(),
			signer: coffertest.NewCondition(),
			msg: func(f *handlerFixture) *InitializeMsg {
				return &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 2}
			},
			want: errors.ErrUnauthorized,
		},
		"threshold too high": {
			msg: func(f *handlerFixture) *InitializeMsg {
				return &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 4}
			},
			want: ErrInvalidThreshold,
		},
		"duplicated owners": {
			msg: func(f *handlerFixture) *InitializeMsg {
				addrs := f.ownerAddrs()
				return &InitializeMsg{Owners: append(addrs, addrs[0]), Threshold: 2}
			},
			want: errors.ErrDuplicate,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			f := newHandlerFixture(t, tc.admin)
			_, err := f.deliver(t, tc.signer, 5, tc.msg(f))
			if tc.want != nil {
				assert.True(t, tc.want.Is(err), "got %+v", err)
				_, err := f.control.Vault(f.kv)
				assert.True(t, errors.ErrNotFound.Is(err))
				return
			}
			require.NoError(t, err)
			last, err := f.control.LastActiveBlock(f.kv)
			require.NoError(t, err)
			assert.Equal(t, int64(5), last)

			_, err = f.deliver(t, tc.signer, 6, tc.msg(f))
			assert.True(t, ErrAlreadyInitialized.Is(err), "got %+v", err)
		})
	}
}

func TestVaultLifecycle(t *testing.T) {
	f := newHandlerFixture(t, nil)
	recipient := coffertest.NewCondition().Address()

	_, err := f.deliver(t, nil, 1, &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 2})
	require.NoError(t, err)
	require.NoError(t, f.cash.CoinMint(f.kv, Account(), 200000000))

	pettyBefore := testutil.ToFloat64(transfersCount.WithLabelValues(routePettyCash))
	votedBefore := testutil.ToFloat64(transfersCount.WithLabelValues(routeVoted))

	res, err := f.deliver(t, f.owners[0], 2, &SubmitTransactionMsg{Recipient: recipient, Amount: 1000000})
	require.NoError(t, err)
	assert.Equal(t, int64(RoutePettyCash), orm.DecodeSequence(res.Data))
	assert.Equal(t, "petty_cash", tag(res.Tags, TagRoute))
	assert.Equal(t, pettyBefore+1, testutil.ToFloat64(transfersCount.WithLabelValues(routePettyCash)))

	res, err = f.deliver(t, f.owners[1], 3, &SubmitTransactionMsg{Recipient: recipient, Amount: 150000000})
	require.NoError(t, err)
	assert.Equal(t, int64(RouteVoting), orm.DecodeSequence(res.Data))
	assert.Equal(t, "voting", tag(res.Tags, TagRoute))
	assert.Equal(t, "0", tag(res.Tags, TagTransactionID))

	_, err = f.deliver(t, coffertest.NewCondition(), 4, &VoteMsg{TransactionID: 0})
	assert.True(t, ErrNotOwner.Is(err), "got %+v", err)

	res, err = f.deliver(t, f.owners[2], 4, &VoteMsg{TransactionID: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(1), orm.DecodeSequence(res.Data))
	assert.Equal(t, "false", tag(res.Tags, TagExecuted))

	res, err = f.deliver(t, f.owners[0], 5, &VoteMsg{TransactionID: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(2), orm.DecodeSequence(res.Data))
	assert.Equal(t, "true", tag(res.Tags, TagExecuted))
	assert.Equal(t, votedBefore+1, testutil.ToFloat64(transfersCount.WithLabelValues(routeVoted)))

	bal, err := f.cash.Balance(f.kv, recipient)
	require.NoError(t, err)
	assert.Equal(t, uint64(151000000), bal)

	_, err = f.deliver(t, f.owners[1], 6, &VoteMsg{TransactionID: 0})
	assert.True(t, ErrAlreadyExecuted.Is(err), "got %+v", err)

	_, err = f.deliver(t, f.owners[1], 6, &VoteMsg{TransactionID: 9})
	assert.True(t, errors.ErrNotFound.Is(err), "got %+v", err)

	_, err = f.deliver(t, f.owners[1], 6, &TriggerDeadManSwitchMsg{})
	assert.True(t, ErrLivenessDenied.Is(err), "got %+v", err)

	res, err = f.deliver(t, f.owners[1], 5+DefaultInactivityLimit, &TriggerDeadManSwitchMsg{})
	require.NoError(t, err)
	assert.Equal(t, "49000000", tag(res.Tags, TagDrained))
	bal, err = f.cash.Balance(f.kv, f.beneficiary)
	require.NoError(t, err)
	assert.Equal(t, uint64(49000000), bal)
}

func TestHandlersRequireSigner(t *testing.T) {
	f := newHandlerFixture(t, nil)
	_, err := f.deliver(t, nil, 1, &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 1})
	require.NoError(t, err)

	_, err = f.deliver(t, nil, 2, &SubmitTransactionMsg{Recipient: f.beneficiary})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	_, err = f.deliver(t, nil, 2, &VoteMsg{})
	assert.True(t, errors.ErrUnauthorized.Is(err), "got %+v", err)
	_, err = f.deliver(t, nil, 1+DefaultInactivityLimit, &TriggerDeadManSwitchMsg{})
	assert.True(t, ErrLivenessDenied.Is(err), "got %+v", err)
}

func TestHandlerRequiresHeight(t *testing.T) {
	f := newHandlerFixture(t, nil)
	tx := &coffertest.Tx{Msg: &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 1}}
	_, err := f.handlers[pathInitialize].Deliver(context.Background(), f.kv, tx)
	assert.True(t, errors.ErrState.Is(err), "got %+v", err)
}

func TestQueries(t *testing.T) {
	f := newHandlerFixture(t, nil)
	recipient := coffertest.NewCondition().Address()
	_, err := f.deliver(t, nil, 1, &InitializeMsg{Owners: f.ownerAddrs(), Threshold: 2})
	require.NoError(t, err)
	require.NoError(t, f.cash.CoinMint(f.kv, Account(), 300000000))
	for i := 0; i < 2; i++ {
		_, err = f.deliver(t, f.owners[0], 2, &SubmitTransactionMsg{Recipient: recipient, Amount: 100000000})
		require.NoError(t, err)
	}

	qr := coffer.NewQueryRouter()
	RegisterQuery(qr)

	res, err := qr.Handler("/vault").Query(f.kv, coffer.KeyQueryMod, vaultKey)
	require.NoError(t, err)
	require.Len(t, res, 1)
	var v Vault
	require.NoError(t, v.Unmarshal(res[0].Value))
	assert.Equal(t, int64(2), v.LastActiveBlock)
	assert.Equal(t, uint32(2), v.Threshold)

	res, err = qr.Handler("/vaulttx").Query(f.kv, coffer.KeyQueryMod, orm.EncodeSequence(1))
	require.NoError(t, err)
	require.Len(t, res, 1)
	var tx Transaction
	require.NoError(t, tx.Unmarshal(res[0].Value))
	assert.Equal(t, uint64(100000000), tx.Amount)

	res, err = qr.Handler("/vaulttx/recipient").Query(f.kv, coffer.KeyQueryMod, recipient)
	require.NoError(t, err)
	assert.Len(t, res, 2)
}

func TestGenesis(t *testing.T) {
	owners := []coffer.Address{
		coffertest.NewCondition().Address(),
		coffertest.NewCondition().Address(),
	}
	beneficiary := coffertest.NewCondition().Address()
	raw := `{
		"conf": {"vault": {"petty_cash_limit": 500, "backup_beneficiary": "` + beneficiary.String() + `"}},
		"vault": {"owners": ["` + owners[0].String() + `", "` + owners[1].String() + `"], "threshold": 2}
	}`
	var opts coffer.Options
	require.NoError(t, json.Unmarshal([]byte(raw), &opts))

	kv := store.MemStore()
	require.NoError(t, Initializer{}.FromGenesis(opts, kv))

	conf, err := loadConf(kv)
	require.NoError(t, err)
	assert.Equal(t, uint64(500), conf.PettyCashLimit)
	assert.Equal(t, DefaultInactivityLimit, conf.InactivityLimit)
	assert.Equal(t, beneficiary, conf.BackupBeneficiary)

	control := NewController(cash.NewController(cash.NewBucket()))
	v, err := control.Vault(kv)
	require.NoError(t, err)
	assert.True(t, v.IsOwner(owners[0]))
	assert.True(t, v.IsOwner(owners[1]))
	assert.Equal(t, uint32(2), v.Threshold)

	_, err = control.Initialize(kv, owners, 1, 3)
	assert.True(t, ErrAlreadyInitialized.Is(err))
}

func TestGenesisWithoutConfiguration(t *testing.T) {
	var opts coffer.Options
	require.NoError(t, json.Unmarshal([]byte(`{}`), &opts))
	require.NoError(t, Initializer{}.FromGenesis(opts, store.MemStore()))

	owner := coffertest.NewCondition().Address()
	require.NoError(t, json.Unmarshal([]byte(`{"vault": {"owners": ["`+owner.String()+`"], "threshold": 1}}`), &opts))
	err := Initializer{}.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrNotFound.Is(err))

	require.NoError(t, json.Unmarshal([]byte(`{"conf": {"vault": {"inactivity_limit": 10}}}`), &opts))
	err = Initializer{}.FromGenesis(opts, store.MemStore())
	assert.True(t, errors.ErrEmpty.Is(err), "got %+v", err)
}

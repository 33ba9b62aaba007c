package vault

import (
	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
	"github.com/iov-one/coffer/x/cash"
)

// Account returns the address holding the vault funds.
func Account() coffer.Address {
	return coffer.NewCondition("vault", "account", vaultKey).Address()
}

// Route tells how a submitted transfer was handled. The numeric values are
// part of the wire format.
type Route uint8

const (
	// RouteVoting means the transfer awaits owner votes.
	RouteVoting Route = 0
	// RoutePettyCash means the transfer was executed immediately.
	RoutePettyCash Route = 1
)

func (r Route) String() string {
	switch r {
	case RouteVoting:
		return "voting"
	case RoutePettyCash:
		return "petty_cash"
	default:
		return "unknown"
	}
}

// Submission is the result of a submitted transfer.
type Submission struct {
	Route Route
	// TransactionID is set only for RouteVoting.
	TransactionID int64
}

// Controller implements the vault operations on top of a cash controller.
type Controller struct {
	vaults orm.ModelBucket
	txs    orm.ModelBucket
	cash   cash.Controller
}

// NewController returns a controller that moves funds with the given cash
// controller.
func NewController(cashctrl cash.Controller) *Controller {
	return &Controller{
		vaults: NewVaultBucket(),
		txs:    NewTransactionBucket(),
		cash:   cashctrl,
	}
}

// Initialize creates the vault with the given owners. The current height
// becomes the last active block.
func (c *Controller) Initialize(db coffer.KVStore, owners []coffer.Address, threshold uint32, height int64) (*Vault, error) {
	switch err := c.vaults.Has(db, vaultKey); {
	case err == nil:
		return nil, errors.Wrap(ErrAlreadyInitialized, "vault exists")
	case !errors.ErrNotFound.Is(err):
		return nil, err
	}
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	sorted, err := sortOwners(owners)
	if err != nil {
		return nil, err
	}
	v := &Vault{
		Owners:          sorted,
		Threshold:       threshold,
		LastActiveBlock: height,
	}
	if v.IsOwner(conf.BackupBeneficiary) {
		return nil, errors.Wrap(errors.ErrInput, "backup beneficiary cannot be an owner")
	}
	if _, err := c.vaults.Put(db, vaultKey, v); err != nil {
		return nil, err
	}
	return v, nil
}

// Submit transfers the amount to the recipient immediately when it is
// below the petty cash limit. Otherwise it records a transaction that
// must be voted.
func (c *Controller) Submit(db coffer.KVStore, caller, recipient coffer.Address, amount uint64, height int64) (*Submission, error) {
	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	v, err := c.ownedVault(db, caller)
	if err != nil {
		return nil, err
	}
	if err := c.requireBalance(db, amount); err != nil {
		return nil, err
	}

	var sub Submission
	if amount < conf.PettyCashLimit {
		if err := c.cash.MoveCoins(db, Account(), recipient, amount); err != nil {
			return nil, errors.Wrap(err, "petty cash")
		}
		sub.Route = RoutePettyCash
	} else {
		key, err := c.txs.Put(db, nil, &Transaction{
			Recipient: recipient,
			Amount:    amount,
			CreatedAt: height,
		})
		if err != nil {
			return nil, errors.Wrap(err, "store transaction")
		}
		sub.Route = RouteVoting
		sub.TransactionID = orm.DecodeSequence(key)
	}

	if err := c.touch(db, v, height); err != nil {
		return nil, err
	}
	return &sub, nil
}

// Vote records the caller approval of the transaction and executes it once
// the threshold is reached. When the execution cannot be funded, nothing
// is recorded and the vote fails.
func (c *Controller) Vote(db coffer.KVStore, caller coffer.Address, id int64, height int64) (*Transaction, error) {
	v, err := c.ownedVault(db, caller)
	if err != nil {
		return nil, err
	}
	key := orm.EncodeSequence(id)
	var tx Transaction
	if err := c.txs.One(db, key, &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", id)
	}
	if tx.Executed {
		return nil, errors.Wrapf(ErrAlreadyExecuted, "transaction %d", id)
	}

	tx.approve(caller)
	if len(tx.Approvals) >= int(v.Threshold) {
		if err := c.requireBalance(db, tx.Amount); err != nil {
			return nil, err
		}
		if err := c.cash.MoveCoins(db, Account(), tx.Recipient, tx.Amount); err != nil {
			return nil, errors.Wrapf(err, "execute transaction %d", id)
		}
		tx.Executed = true
		tx.ExecutedAt = height
	}
	if _, err := c.txs.Put(db, key, &tx); err != nil {
		return nil, errors.Wrap(err, "store transaction")
	}
	if err := c.touch(db, v, height); err != nil {
		return nil, err
	}
	return &tx, nil
}

// TriggerDeadManSwitch moves the whole balance to the backup beneficiary.
// Only owners may call it, and only after the inactivity limit passed.
// It returns the drained amount, which is zero on repeated calls.
func (c *Controller) TriggerDeadManSwitch(db coffer.KVStore, caller coffer.Address, height int64) (uint64, error) {
	conf, err := loadConf(db)
	if err != nil {
		return 0, err
	}
	v, err := c.Vault(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return 0, errors.Wrap(ErrLivenessDenied, "vault not initialized")
	case err != nil:
		return 0, err
	}
	if !v.IsOwner(caller) {
		return 0, errors.Wrap(ErrLivenessDenied, "not an owner")
	}
	if idle := height - v.LastActiveBlock; idle < conf.InactivityLimit {
		return 0, errors.Wrapf(ErrLivenessDenied, "inactive for %d of %d blocks", idle, conf.InactivityLimit)
	}
	balance, err := c.Balance(db)
	if err != nil {
		return 0, err
	}
	if err := c.cash.MoveCoins(db, Account(), conf.BackupBeneficiary, balance); err != nil {
		return 0, errors.Wrap(err, "drain")
	}
	return balance, nil
}

// Vault returns the vault singleton or ErrNotFound.
func (c *Controller) Vault(db coffer.ReadOnlyKVStore) (*Vault, error) {
	var v Vault
	if err := c.vaults.One(db, vaultKey, &v); err != nil {
		return nil, errors.Wrap(err, "vault")
	}
	return &v, nil
}

// LastActiveBlock returns the height of the most recent owner action.
func (c *Controller) LastActiveBlock(db coffer.ReadOnlyKVStore) (int64, error) {
	v, err := c.Vault(db)
	if err != nil {
		return 0, err
	}
	return v.LastActiveBlock, nil
}

// Transaction returns the voted transaction with the given id.
func (c *Controller) Transaction(db coffer.ReadOnlyKVStore, id int64) (*Transaction, error) {
	var tx Transaction
	if err := c.txs.One(db, orm.EncodeSequence(id), &tx); err != nil {
		return nil, errors.Wrapf(err, "transaction %d", id)
	}
	return &tx, nil
}

// TransactionsTo returns all voted transactions paying the recipient.
func (c *Controller) TransactionsTo(db coffer.ReadOnlyKVStore, recipient coffer.Address) ([]Transaction, error) {
	var txs []Transaction
	if _, err := c.txs.ByIndex(db, "recipient", recipient, &txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// Balance returns the funds held by the vault.
func (c *Controller) Balance(db coffer.ReadOnlyKVStore) (uint64, error) {
	return c.cash.Balance(db, Account())
}

// ownedVault loads the vault and ensures the caller is one of its owners.
func (c *Controller) ownedVault(db coffer.ReadOnlyKVStore, caller coffer.Address) (*Vault, error) {
	v, err := c.Vault(db)
	switch {
	case errors.ErrNotFound.Is(err):
		return nil, errors.Wrap(ErrNotOwner, "vault not initialized")
	case err != nil:
		return nil, err
	}
	if !v.IsOwner(caller) {
		return nil, errors.Wrapf(ErrNotOwner, "address %s", caller)
	}
	return v, nil
}

func (c *Controller) requireBalance(db coffer.ReadOnlyKVStore, amount uint64) error {
	have, err := c.Balance(db)
	if err != nil {
		return err
	}
	if have < amount {
		return errors.Wrapf(ErrInsufficientBalance, "have %s, want %s", cash.Format(have), cash.Format(amount))
	}
	return nil
}

func (c *Controller) touch(db coffer.KVStore, v *Vault, height int64) error {
	v.LastActiveBlock = height
	if _, err := c.vaults.Put(db, vaultKey, v); err != nil {
		return errors.Wrap(err, "store vault")
	}
	return nil
}

package vault

import (
	"bytes"
	"sort"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/iov-one/coffer/orm"
)

const (
	// VaultBucketName is where the vault singleton is stored.
	VaultBucketName = "vault"
	// TransactionBucketName is where voted transactions are stored.
	TransactionBucketName = "vaulttx"
)

var vaultKey = []byte("primary")

// Vault holds the owners of the vault and its liveness.
type Vault struct {
	// Owners are unique and sorted.
	Owners    []coffer.Address
	Threshold uint32
	// LastActiveBlock is the height of the most recent successful owner
	// action.
	LastActiveBlock int64
}

var _ orm.Model = (*Vault)(nil)

// Validate ensures the owner set and threshold are consistent.
func (v *Vault) Validate() error {
	if len(v.Owners) == 0 {
		return errors.Wrap(ErrInvalidThreshold, "no owners")
	}
	if v.Threshold == 0 || int(v.Threshold) > len(v.Owners) {
		return errors.Wrapf(ErrInvalidThreshold, "threshold %d with %d owners", v.Threshold, len(v.Owners))
	}
	for i, o := range v.Owners {
		if err := o.Validate(); err != nil {
			return errors.Wrapf(err, "owner %d", i)
		}
		if i > 0 && bytes.Compare(v.Owners[i-1], o) >= 0 {
			return errors.Wrapf(errors.ErrModel, "owner %d out of order or duplicated", i)
		}
	}
	if v.LastActiveBlock < 0 {
		return errors.Wrap(errors.ErrModel, "negative last active block")
	}
	return nil
}

// IsOwner returns true if the address is one of the owners.
func (v *Vault) IsOwner(addr coffer.Address) bool {
	i := sort.Search(len(v.Owners), func(i int) bool {
		return bytes.Compare(v.Owners[i], addr) >= 0
	})
	return i < len(v.Owners) && v.Owners[i].Equals(addr)
}

// Copy returns a deep copy of the vault.
func (v *Vault) Copy() orm.CloneableData {
	owners := make([]coffer.Address, len(v.Owners))
	for i, o := range v.Owners {
		owners[i] = append(coffer.Address(nil), o...)
	}
	return &Vault{
		Owners:          owners,
		Threshold:       v.Threshold,
		LastActiveBlock: v.LastActiveBlock,
	}
}

// Marshal encodes the vault with amino.
func (v *Vault) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(v)
}

// Unmarshal decodes an amino encoded vault.
func (v *Vault) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, v); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// sortOwners returns a sorted copy of the owners. It fails on duplicates.
func sortOwners(owners []coffer.Address) ([]coffer.Address, error) {
	sorted := make([]coffer.Address, len(owners))
	copy(sorted, owners)
	sort.Slice(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i], sorted[j]) < 0
	})
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Equals(sorted[i]) {
			return nil, errors.Wrapf(errors.ErrDuplicate, "owner %s", sorted[i])
		}
	}
	return sorted, nil
}

// Transaction is a transfer out of the vault that requires votes.
type Transaction struct {
	Recipient coffer.Address
	Amount    uint64
	// Approvals are the owners that voted for this transaction, sorted.
	Approvals []coffer.Address
	Executed  bool
	// CreatedAt is the height at which the transaction was submitted.
	CreatedAt int64
	// ExecutedAt is the height of the execution, zero while pending.
	ExecutedAt int64
}

var _ orm.Model = (*Transaction)(nil)

// Validate checks the transaction is well formed.
func (t *Transaction) Validate() error {
	var err error
	err = errors.AppendField(err, "Recipient", t.Recipient.Validate())
	for i, a := range t.Approvals {
		if e := a.Validate(); e != nil {
			err = errors.Append(err, errors.Wrapf(e, "approval %d", i))
		}
	}
	if t.Executed && t.ExecutedAt < t.CreatedAt {
		err = errors.Append(err, errors.Field("ExecutedAt", errors.ErrModel, "before creation"))
	}
	return err
}

// HasApproval returns true if the owner already voted.
func (t *Transaction) HasApproval(owner coffer.Address) bool {
	for _, a := range t.Approvals {
		if a.Equals(owner) {
			return true
		}
	}
	return false
}

// approve adds the owner to the approvals. It returns false if the owner
// already approved.
func (t *Transaction) approve(owner coffer.Address) bool {
	i := sort.Search(len(t.Approvals), func(i int) bool {
		return bytes.Compare(t.Approvals[i], owner) >= 0
	})
	if i < len(t.Approvals) && t.Approvals[i].Equals(owner) {
		return false
	}
	t.Approvals = append(t.Approvals, nil)
	copy(t.Approvals[i+1:], t.Approvals[i:])
	t.Approvals[i] = owner
	return true
}

// Copy returns a deep copy of the transaction.
func (t *Transaction) Copy() orm.CloneableData {
	approvals := make([]coffer.Address, len(t.Approvals))
	for i, a := range t.Approvals {
		approvals[i] = append(coffer.Address(nil), a...)
	}
	return &Transaction{
		Recipient:  append(coffer.Address(nil), t.Recipient...),
		Amount:     t.Amount,
		Approvals:  approvals,
		Executed:   t.Executed,
		CreatedAt:  t.CreatedAt,
		ExecutedAt: t.ExecutedAt,
	}
}

// Marshal encodes the transaction with amino.
func (t *Transaction) Marshal() ([]byte, error) {
	return cdc.MarshalBinaryBare(t)
}

// Unmarshal decodes an amino encoded transaction.
func (t *Transaction) Unmarshal(bz []byte) error {
	if err := cdc.UnmarshalBinaryBare(bz, t); err != nil {
		return errors.Wrap(errors.ErrModel, err.Error())
	}
	return nil
}

// NewVaultBucket returns the bucket holding the vault singleton.
func NewVaultBucket() orm.ModelBucket {
	return orm.NewModelBucket(VaultBucketName, &Vault{})
}

// NewTransactionBucket returns the bucket holding all voted transactions,
// keyed by their sequential id and indexed by recipient.
func NewTransactionBucket() orm.ModelBucket {
	return orm.NewModelBucket(TransactionBucketName, &Transaction{},
		orm.WithIndex("recipient", recipientIndexer, false),
	)
}

func recipientIndexer(obj orm.Object) ([]byte, error) {
	if obj == nil {
		return nil, errors.Wrap(errors.ErrHuman, "cannot take index of nil")
	}
	t, ok := obj.Value().(*Transaction)
	if !ok {
		return nil, errors.WithType(errors.ErrModel, obj.Value())
	}
	return t.Recipient, nil
}

package coffer

import (
	"encoding/json"

	"github.com/iov-one/coffer/errors"
)

// Handler processes the messages of one or more paths, for example a
// vault vote or a coin transfer.
type Handler interface {
	Checker
	Deliverer
}

// Checker validates a transaction for the mempool without changing the
// committed state.
type Checker interface {
	Check(ctx Context, store KVStore, tx Tx) (*CheckResult, error)
}

// Deliverer executes a transaction of a block.
type Deliverer interface {
	Deliver(ctx Context, store KVStore, tx Tx) (*DeliverResult, error)
}

// Decorator runs around the next handler of a chain. Authentication,
// logging and savepoints are decorators.
type Decorator interface {
	Check(ctx Context, store KVStore, tx Tx, next Checker) (*CheckResult, error)
	Deliver(ctx Context, store KVStore, tx Tx, next Deliverer) (*DeliverResult, error)
}

// Registry is where extensions mount their handlers.
type Registry interface {
	Handle(path string, h Handler)
}

// Options is the genesis app_state, one raw JSON section per key.
type Options map[string]json.RawMessage

// ReadOptions decodes the section under key into obj. A missing section
// leaves obj untouched.
func (o Options) ReadOptions(key string, obj interface{}) error {
	raw, ok := o[key]
	if !ok || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, obj); err != nil {
		return errors.Wrapf(errors.ErrInput, "cannot parse %q options: %s", key, err)
	}
	return nil
}

// Initializer loads the genesis state of an extension.
type Initializer interface {
	FromGenesis(Options, KVStore) error
}

// ChainInitializers runs the initializers in order and stops at the first
// failure.
func ChainInitializers(inits ...Initializer) Initializer {
	return initializers(inits)
}

type initializers []Initializer

func (c initializers) FromGenesis(opts Options, kv KVStore) error {
	for _, i := range c {
		if err := i.FromGenesis(opts, kv); err != nil {
			return err
		}
	}
	return nil
}

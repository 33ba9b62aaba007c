package app

import (
	"reflect"

	"github.com/iov-one/coffer"
)

// Decorators holds a chain of decorators, not yet resolved by a Handler
type Decorators struct {
	chain []coffer.Decorator
}

/*
ChainDecorators takes a chain of decorators,
and upon adding a final Handler (often a Router),
returns a Handler that will execute this whole stack.

	app.ChainDecorators(
	  utils.NewLogging(),
	  utils.NewRecovery(),
	  sigs.NewDecorator(),
	  utils.NewSavepoint().OnDeliver(),
	).WithHandler(
	  myapp.NewRouter(),
	)
*/
func ChainDecorators(chain ...coffer.Decorator) Decorators {
	return Decorators{}.Chain(chain...)
}

// Chain allows us to keep adding more Decorators to the chain
func (d Decorators) Chain(chain ...coffer.Decorator) Decorators {
	chain = cutoffNil(chain)
	newChain := make([]coffer.Decorator, 0, len(d.chain)+len(chain))
	newChain = append(newChain, d.chain...)
	newChain = append(newChain, chain...)
	return Decorators{newChain}
}

// cutoffNil returns the given decorators without nil values.
func cutoffNil(ds []coffer.Decorator) []coffer.Decorator {
	res := make([]coffer.Decorator, 0, len(ds))
	for _, d := range ds {
		if d == nil {
			continue
		}
		if v := reflect.ValueOf(d); v.Kind() == reflect.Ptr && v.IsNil() {
			continue
		}
		res = append(res, d)
	}
	return res
}

// WithHandler resolves the stack and returns a concrete Handler
// that will pass through the chain of decorators before calling
// the final Handler.
func (d Decorators) WithHandler(h coffer.Handler) coffer.Handler {
	// start wrapping the handler from last decorator to first one
	// as the top of the chain is understood to be executed first
	for i := len(d.chain) - 1; i >= 0; i-- {
		h = step{d: d.chain[i], next: h}
	}
	return h
}

//------------------ internal types to build chain ---------------

// step captures one step executing a decorator around a
// specific Handler. Simplified version of a closure.
//
// Heavily inspired by negroni's design
type step struct {
	d    coffer.Decorator
	next coffer.Handler
}

var _ coffer.Handler = step{}

// Check passes the handler into the decorator, implements Handler
func (s step) Check(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	return s.d.Check(ctx, store, tx, s.next)
}

// Deliver passes the handler into the decorator, implements Handler
func (s step) Deliver(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	return s.d.Deliver(ctx, store, tx, s.next)
}

package coffertest

import "github.com/iov-one/coffer"

// Decorator passes every call to the next handler unless the matching
// error is set, in which case it stops the chain with it. Calls are
// counted either way.
type Decorator struct {
	CheckErr   error
	DeliverErr error

	checkCall, deliverCall int
}

var _ coffer.Decorator = (*Decorator)(nil)

func (d *Decorator) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Checker) (*coffer.CheckResult, error) {
	if d.checkCall++; d.CheckErr != nil {
		return nil, d.CheckErr
	}
	return next.Check(ctx, db, tx)
}

func (d *Decorator) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (*coffer.DeliverResult, error) {
	if d.deliverCall++; d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, tx)
}

func (d *Decorator) CheckCallCount() int   { return d.checkCall }
func (d *Decorator) DeliverCallCount() int { return d.deliverCall }
func (d *Decorator) CallCount() int        { return d.checkCall + d.deliverCall }

// Decorate returns h wrapped in a single decorator.
func Decorate(h coffer.Handler, d coffer.Decorator) coffer.Handler {
	return decorated{next: h, dec: d}
}

type decorated struct {
	next coffer.Handler
	dec  coffer.Decorator
}

func (d decorated) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.CheckResult, error) {
	return d.dec.Check(ctx, db, tx, d.next)
}

func (d decorated) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx) (*coffer.DeliverResult, error) {
	return d.dec.Deliver(ctx, db, tx, d.next)
}

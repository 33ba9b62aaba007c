package utils

import (
	"time"

	"github.com/iov-one/coffer"
)

// Logging logs every transaction with its path, duration and outcome.
// Failures are logged as errors, successful checks at debug level and
// successful deliveries at info level.
type Logging struct{}

var _ coffer.Decorator = Logging{}

func NewLogging() Logging {
	return Logging{}
}

func (Logging) Check(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Checker) (*coffer.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, db, tx)
	l := txLog{ctx: ctx, tx: tx, start: start, err: err}
	if err == nil {
		l.msg = res.Log
	}
	l.write(true)
	return res, err
}

func (Logging) Deliver(ctx coffer.Context, db coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (*coffer.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, db, tx)
	l := txLog{ctx: ctx, tx: tx, start: start, err: err}
	if err == nil {
		l.msg = res.Log
	}
	l.write(false)
	return res, err
}

type txLog struct {
	ctx   coffer.Context
	tx    coffer.Tx
	start time.Time
	msg   string
	err   error
}

// write emits the entry even for an empty msg, path and duration are
// always of interest.
func (l txLog) write(check bool) {
	logger := coffer.GetLogger(l.ctx).With(
		"path", coffer.GetPath(l.tx),
		"duration", time.Since(l.start)/time.Microsecond,
	)
	switch {
	case l.err != nil:
		logger.Error(l.msg, "err", l.err)
	case check:
		logger.Debug(l.msg)
	default:
		logger.Info(l.msg)
	}
}

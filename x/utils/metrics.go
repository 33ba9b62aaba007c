package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/coffer"
	"github.com/iov-one/coffer/errors"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	txCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coffer",
			Subsystem: "tx",
			Name:      "total",
			Help:      "Number of processed transactions.",
		},
		[]string{"phase", "path", "code"},
	)
	txDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "coffer",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction processing time.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		},
		[]string{"phase", "path"},
	)
)

func init() {
	prometheus.MustRegister(txCount, txDuration)
}

// Metrics is a decorator that counts processed transactions per message
// path and ABCI result code, and observes their processing time.
type Metrics struct{}

var _ coffer.Decorator = Metrics{}

// NewMetrics creates a Metrics decorator
func NewMetrics() Metrics {
	return Metrics{}
}

// Check records the outcome of the check call.
func (Metrics) Check(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx, next coffer.Checker) (*coffer.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	observe("check", tx, start, err)
	return res, err
}

// Deliver records the outcome of the deliver call.
func (Metrics) Deliver(ctx coffer.Context, store coffer.KVStore, tx coffer.Tx, next coffer.Deliverer) (*coffer.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	observe("deliver", tx, start, err)
	return res, err
}

func observe(phase string, tx coffer.Tx, start time.Time, err error) {
	path := coffer.GetPath(tx)
	code, _ := errors.ABCIInfo(err, false)
	txCount.WithLabelValues(phase, path, strconv.FormatUint(uint64(code), 10)).Inc()
	txDuration.WithLabelValues(phase, path).Observe(time.Since(start).Seconds())
}

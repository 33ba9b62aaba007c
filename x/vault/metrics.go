package vault

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	transfersCount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coffer",
			Subsystem: "vault",
			Name:      "transfers_total",
			Help:      "Number of transfers out of the vault.",
		},
		[]string{"route"},
	)
	transfersAmount = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "coffer",
			Subsystem: "vault",
			Name:      "transferred_amount_total",
			Help:      "Amount moved out of the vault.",
		},
		[]string{"route"},
	)
	pendingCount = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "coffer",
			Subsystem: "vault",
			Name:      "pending_transactions_total",
			Help:      "Number of transactions that entered voting.",
		},
	)
)

func init() {
	prometheus.MustRegister(transfersCount, transfersAmount, pendingCount)
}

const (
	routePettyCash = "petty_cash"
	routeVoted     = "voted"
	routeSwitch    = "dead_man_switch"
)

func observeTransfer(route string, amount uint64) {
	transfersCount.WithLabelValues(route).Inc()
	transfersAmount.WithLabelValues(route).Add(float64(amount))
}

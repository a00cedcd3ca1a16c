package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

//nolint:gochecknoglobals
var (
	CyclesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tg_gifts_engine_cycles_total",
		Help: "Engine cycles executed.",
	})

	PurchasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tg_gifts_purchases_total",
		Help: "Successful gift purchases.",
	})

	PurchaseFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tg_gifts_purchase_failures_total",
		Help: "Failed gift purchases by error code.",
	}, []string{"code"})

	StarsSpentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tg_gifts_stars_spent_total",
		Help: "Stars spent on purchases.",
	})

	BalanceStars = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "tg_gifts_balance_stars",
		Help: "Last reconciled star balance.",
	})
)

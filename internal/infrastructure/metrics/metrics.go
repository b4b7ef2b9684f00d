package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transaction metrics
	TransactionsCreated *prometheus.CounterVec
	TransactionErrors   *prometheus.CounterVec
	TransactionAmount   *prometheus.HistogramVec
	TransactionDuration prometheus.Histogram

	// Ledger metrics
	LockTimeouts      prometheus.Counter
	CodeCollisions    prometheus.Counter
	ConsistencyChecks *prometheus.CounterVec
}

// New creates and registers all Prometheus metrics
func New() *Metrics {
	return &Metrics{
		TransactionsCreated: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_transactions_created_total",
				Help: "Total number of wallet transactions committed",
			},
			[]string{"transaction_type", "payment_method"},
		),
		TransactionErrors: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_transaction_errors_total",
				Help: "Total number of rejected transaction requests by type",
			},
			[]string{"error_type"},
		),
		TransactionAmount: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "walletd_transaction_amount",
				Help:    "Transaction amounts",
				Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
			},
			[]string{"transaction_type"},
		),
		TransactionDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "walletd_transaction_duration_seconds",
			Help:    "Duration of ledger operations",
			Buckets: prometheus.DefBuckets,
		}),

		LockTimeouts: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletd_lock_timeouts_total",
			Help: "Total number of wallet lock acquisition timeouts",
		}),
		CodeCollisions: promauto.NewCounter(prometheus.CounterOpts{
			Name: "walletd_transaction_id_exhaustions_total",
			Help: "Total number of exhausted transaction id allocation loops",
		}),
		ConsistencyChecks: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "walletd_consistency_checks_total",
				Help: "Total consistency checks by outcome",
			},
			[]string{"outcome"},
		),
	}
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics. The registerer is injected so tests
// can use an isolated registry.
type Metrics struct {
	// Transfer metrics
	TransfersExecuted *prometheus.CounterVec
	TransferErrors    *prometheus.CounterVec
	TransferDuration  prometheus.Histogram
	TransferAmount    prometheus.Histogram
	TransferReplays   prometheus.Counter

	// Routing metrics
	RoutingCalls    *prometheus.CounterVec
	RoutingDuration prometheus.Histogram

	// Interest accrual metrics
	AccrualRuns        prometheus.Counter
	AccrualCredited    prometheus.Counter
	AccrualFailures    prometheus.Counter
	AccrualRunDuration prometheus.Histogram

	// Fixed deposit metrics
	DepositsCreated   prometheus.Counter
	DepositsWithdrawn prometheus.Counter
	DepositsBroken    prometheus.Counter

	// Account metrics
	AccountsCreated   prometheus.Counter
	AccountOperations *prometheus.CounterVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// FX metrics
	FXRateLookups *prometheus.CounterVec
}

// New creates and registers all metrics against reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersExecuted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_transfers_executed_total",
				Help: "Total transfers executed by class",
			},
			[]string{"class"},
		),
		TransferErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_transfer_errors_total",
				Help: "Total transfer errors by type",
			},
			[]string{"error_type"},
		),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_transfer_duration_seconds",
			Help:    "Duration of transfer execution",
			Buckets: prometheus.DefBuckets,
		}),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_transfer_amount",
			Help:    "Transfer amounts in source currency units",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_transfer_replays_total",
			Help: "Total idempotent transfer replays",
		}),

		RoutingCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_routing_calls_total",
				Help: "Total settlement routing calls by status",
			},
			[]string{"status"},
		),
		RoutingDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_routing_duration_seconds",
			Help:    "Duration of settlement routing calls",
			Buckets: prometheus.DefBuckets,
		}),

		AccrualRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accrual_runs_total",
			Help: "Total interest accrual runs",
		}),
		AccrualCredited: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accrual_credited_total",
			Help: "Total accounts credited with interest",
		}),
		AccrualFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accrual_failures_total",
			Help: "Total per-account accrual failures",
		}),
		AccrualRunDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "corebank_accrual_run_duration_seconds",
			Help:    "Duration of interest accrual runs",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
		}),

		DepositsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_deposits_created_total",
			Help: "Total fixed deposits created",
		}),
		DepositsWithdrawn: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_deposits_withdrawn_total",
			Help: "Total fixed deposits withdrawn",
		}),
		DepositsBroken: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_deposits_broken_total",
			Help: "Total fixed deposits broken early",
		}),

		AccountsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "corebank_accounts_created_total",
			Help: "Total accounts created",
		}),
		AccountOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_account_operations_total",
				Help: "Total account operations by type",
			},
			[]string{"operation"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "corebank_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		FXRateLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "corebank_fx_rate_lookups_total",
				Help: "Total FX rate lookups by source",
			},
			[]string{"source"},
		),
	}
}

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/iho/paywal/internal/domain"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	// Transfer metrics
	TransfersCompleted    prometheus.Counter
	TransfersRejected     *prometheus.CounterVec
	TransferDuration      *prometheus.HistogramVec
	TransferAmount        prometheus.Histogram
	TransferAttemptErrors *prometheus.CounterVec

	// Store circuit breaker
	BreakerState *prometheus.GaugeVec

	// API metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Rate limiting metrics
	RateLimitHits prometheus.Counter

	// Idempotency metrics
	IdempotentReplays prometheus.Counter
}

// New creates all metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		TransfersCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "paywal_transfers_completed_total",
			Help: "Total number of completed transfers",
		}),
		TransfersRejected: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paywal_transfers_rejected_total",
				Help: "Total number of rejected transfers by reason",
			},
			[]string{"reason"},
		),
		TransferDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paywal_transfer_duration_seconds",
				Help:    "Duration of transfer executions by outcome",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		TransferAmount: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "paywal_transfer_amount",
			Help:    "Completed transfer amounts",
			Buckets: []float64{1, 10, 100, 1000, 10000, 100000, 1000000},
		}),
		TransferAttemptErrors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paywal_transfer_attempt_errors_total",
				Help: "Transfer attempts that failed with a retryable error",
			},
			[]string{"reason"},
		),

		BreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "paywal_store_breaker_state",
				Help: "Store circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"name"},
		),

		HTTPRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paywal_http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "paywal_http_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		RateLimitHits: factory.NewCounter(prometheus.CounterOpts{
			Name: "paywal_rate_limit_hits_total",
			Help: "Total requests rejected by the rate limiter",
		}),

		IdempotentReplays: factory.NewCounter(prometheus.CounterOpts{
			Name: "paywal_idempotent_replays_total",
			Help: "Total responses served from the idempotency store",
		}),
	}
}

// ObserveCompleted records a completed transfer.
func (m *Metrics) ObserveCompleted(amount decimal.Decimal, duration time.Duration) {
	m.TransfersCompleted.Inc()
	m.TransferAmount.Observe(amount.InexactFloat64())
	m.TransferDuration.WithLabelValues(string(domain.OutcomeCompleted)).Observe(duration.Seconds())
}

// ObserveRejected records a terminal rejection.
func (m *Metrics) ObserveRejected(reason domain.RejectionReason, duration time.Duration) {
	m.TransfersRejected.WithLabelValues(string(reason)).Inc()
	m.TransferDuration.WithLabelValues(string(domain.OutcomeRejected)).Observe(duration.Seconds())
}

// ObserveAttemptFailure records an attempt that failed and may be retried.
func (m *Metrics) ObserveAttemptFailure(reason domain.RejectionReason) {
	m.TransferAttemptErrors.WithLabelValues(string(reason)).Inc()
}

// SetBreakerState records the state of a named circuit breaker.
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

// ObserveHTTPRequest records a served HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	m.HTTPRequests.WithLabelValues(method, path, status).Inc()
	m.HTTPDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

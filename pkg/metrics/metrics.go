package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/chris/settlement-console/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels.
const (
	OutcomeSuccess             = "success"
	OutcomeNotFound            = "not_found"
	OutcomeAlreadyProcessed    = "already_processed"
	OutcomeInsufficientBalance = "insufficient_balance"
	OutcomeTransientConflict   = "transient_conflict"
	OutcomeError               = "error"
)

// Settlement holds the collectors of the settlement orchestrator.
type Settlement struct {
	Operations *prometheus.CounterVec
	Attempts   *prometheus.HistogramVec
	Duration   *prometheus.HistogramVec
}

// NewSettlement registers the settlement collectors with reg.
func NewSettlement(reg prometheus.Registerer) *Settlement {
	factory := promauto.With(reg)
	return &Settlement{
		Operations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_operations_total",
				Help: "Total number of settlement operations by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		Attempts: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_transaction_attempts",
				Help:    "Number of times a settlement transaction body ran before it finished",
				Buckets: []float64{1, 2, 3, 4, 5, 8},
			},
			[]string{"action"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_operation_duration_seconds",
				Help:    "Settlement operation duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"action"},
		),
	}
}

// Observe records one finished operation.
func (m *Settlement) Observe(action string, err error, attempts int, d time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(action, Outcome(err)).Inc()
	m.Attempts.WithLabelValues(action).Observe(float64(attempts))
	m.Duration.WithLabelValues(action).Observe(d.Seconds())
}

// Outcome maps an operation error to its label.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, storage.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, storage.ErrAlreadyProcessed):
		return OutcomeAlreadyProcessed
	case errors.Is(err, storage.ErrInsufficientBalance):
		return OutcomeInsufficientBalance
	case errors.Is(err, storage.ErrTransientConflict):
		return OutcomeTransientConflict
	}
	return OutcomeError
}

// HTTP holds the request collectors of the API server.
type HTTP struct {
	Requests *prometheus.CounterVec
	Duration *prometheus.HistogramVec
}

// NewHTTP registers the HTTP collectors with reg.
func NewHTTP(reg prometheus.Registerer) *HTTP {
	factory := promauto.With(reg)
	return &HTTP{
		Requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "settlement_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		Duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "settlement_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Observe records one served request.
func (m *HTTP) Observe(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.Requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.Duration.WithLabelValues(method, route).Observe(d.Seconds())
}

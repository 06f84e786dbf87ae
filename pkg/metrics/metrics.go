// Package metrics exposes Prometheus counters for served transformations.
package metrics

import (
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cryptovault/pkg/engine"
)

const namespace = "cryptovault"

// Outcome labels.
const (
	OutcomeOK            = "ok"
	OutcomeInvalidKey    = "invalid_key"
	OutcomeUnknownMethod = "unknown_method"
	OutcomeInvalid       = "invalid_request"
	OutcomeError         = "error"
)

type Metrics struct {
	registry   *prometheus.Registry
	transforms *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	served     atomic.Int64
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		transforms: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transforms_total",
			Help:      "Transformations handled, by method, direction and outcome.",
		}, []string{"method", "direction", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "transform_duration_seconds",
			Help:      "Time spent inside the cipher engine.",
			Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
		}, []string{"method", "direction"}),
	}
	m.registry.MustRegister(
		m.transforms,
		m.duration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe implements engine.Observer.
func (m *Metrics) Observe(method string, dir engine.Direction, err error, elapsed time.Duration) {
	m.Record(method, dir.String(), Outcome(err))
	if err == nil {
		m.duration.WithLabelValues(method, dir.String()).Observe(elapsed.Seconds())
	}
}

// Record counts one request. It is also used for requests rejected before
// they reach the engine. Unregistered method names are folded into a single
// label value.
func (m *Metrics) Record(method, direction, outcome string) {
	if outcome == OutcomeUnknownMethod {
		method = "unknown"
	}
	m.transforms.WithLabelValues(method, direction, outcome).Inc()
	if outcome == OutcomeOK {
		m.served.Add(1)
	}
}

// Served is the number of successful transformations.
func (m *Metrics) Served() int64 { return m.served.Load() }

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Outcome classifies an engine error into a label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, engine.ErrInvalidKey):
		return OutcomeInvalidKey
	case errors.Is(err, engine.ErrUnknownMethod):
		return OutcomeUnknownMethod
	case errors.Is(err, engine.ErrInvalidRequest):
		return OutcomeInvalid
	}
	return OutcomeError
}

// Package metrics exposes the Prometheus collectors of the ledger and the
// process-wide visit counter.
package metrics

import (
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	dto "github.com/prometheus/client_model/go"
)

// Metrics holds all Prometheus metrics of the ledger.
type Metrics struct {
	// Registry owns the collectors below.
	Registry *prometheus.Registry

	postings      *prometheus.CounterVec
	failures      *prometheus.CounterVec
	rateFallbacks *prometheus.CounterVec
	visits        prometheus.Counter
	rateLimited   prometheus.Counter
}

// NewMetrics creates a private registry so that tests can build as many
// instances as they like.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		postings: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casa_postings_total",
				Help: "Ledger postings written, by kind.",
			},
			[]string{"kind"},
		),
		failures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casa_write_failures_total",
				Help: "Ledger writes that failed, by kind.",
			},
			[]string{"kind"},
		),
		rateFallbacks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "casa_rate_fallbacks_total",
				Help: "Exchange rate lookups answered from the fallback table.",
			},
			[]string{"currency"},
		),
		visits: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "casa_visits_total",
				Help: "Report views since start.",
			},
		),
		rateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "casa_http_rate_limited_total",
				Help: "HTTP write requests rejected by the rate limiter.",
			},
		),
	}
}

// IncrRateLimited counts a request rejected by the HTTP rate limiter.
func (m *Metrics) IncrRateLimited() {
	if m == nil {
		return
	}
	m.rateLimited.Inc()
}

// IncrPostings adds n postings of the given kind.
func (m *Metrics) IncrPostings(kind string, n int) {
	if m == nil {
		return
	}
	m.postings.WithLabelValues(kind).Add(float64(n))
}

// IncrFailure counts a failed write.
func (m *Metrics) IncrFailure(kind string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(kind).Inc()
}

// IncrRateFallback counts a rate lookup that used the fallback table.
func (m *Metrics) IncrRateFallback(currency string) {
	if m == nil {
		return
	}
	m.rateFallbacks.WithLabelValues(currency).Inc()
}

// Postings returns the current posting count for kind.
func (m *Metrics) Postings(kind string) float64 {
	return getCounterValue(m.postings, kind)
}

// Failures returns the current failure count for kind.
func (m *Metrics) Failures(kind string) float64 {
	return getCounterValue(m.failures, kind)
}

// RateFallbacks returns the current fallback count for currency.
func (m *Metrics) RateFallbacks(currency string) float64 {
	return getCounterValue(m.rateFallbacks, currency)
}

// visits is zero at process start.
var visits atomic.Int64

// RecordVisit increments the process-wide visit counter and returns the new
// value. It is display-only state.
func (m *Metrics) RecordVisit() int64 {
	if m != nil {
		m.visits.Inc()
	}
	return visits.Add(1)
}

// getCounterValue extracts the current float64 value from a CounterVec for a given label.
func getCounterValue(cv *prometheus.CounterVec, label string) float64 {
	counter := cv.WithLabelValues(label)
	m := &dto.Metric{}
	if err := counter.(prometheus.Metric).Write(m); err != nil {
		return 0
	}
	if m.Counter != nil && m.Counter.Value != nil {
		return *m.Counter.Value
	}
	return 0
}

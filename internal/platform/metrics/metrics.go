// Package metrics exposes Prometheus instrumentation for the provider client and caches.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus collectors of the service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ProviderRequests *prometheus.CounterVec // labels: endpoint, outcome
	ProviderDuration *prometheus.HistogramVec
	ResultCache      *prometheus.CounterVec // labels: result=hit|miss|shared|stale
	ComputeDuration  prometheus.Histogram
	SeriesCache      *prometheus.CounterVec // labels: result=hit|miss|error
	CacheEvictions   prometheus.Counter

	gatherer prometheus.Gatherer
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		ProviderRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_provider_requests_total",
			Help: "Market data provider calls by endpoint and outcome",
		}, []string{"endpoint", "outcome"}),
		ProviderDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stockinsight_provider_request_duration_seconds",
			Help:    "Market data provider call latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),
		ResultCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_result_cache_requests_total",
			Help: "Analysis result cache lookups by result",
		}, []string{"result"}),
		ComputeDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "stockinsight_analysis_compute_duration_seconds",
			Help:    "Time spent computing an analysis on a cache miss, provider call included",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 20},
		}),
		SeriesCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stockinsight_series_cache_requests_total",
			Help: "Redis series cache lookups by result",
		}, []string{"result"}),
		CacheEvictions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "stockinsight_result_cache_evictions_total",
			Help: "Stale analysis results removed by the sweeper",
		}),
		gatherer: reg,
	}
	reg.MustRegister(
		m.ProviderRequests,
		m.ProviderDuration,
		m.ResultCache,
		m.ComputeDuration,
		m.SeriesCache,
		m.CacheEvictions,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// ObserveProvider records one provider call.
func (m *Metrics) ObserveProvider(endpoint, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ProviderRequests.WithLabelValues(endpoint, outcome).Inc()
	m.ProviderDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// ObserveResultCache records one result cache lookup.
func (m *Metrics) ObserveResultCache(result string) {
	if m == nil {
		return
	}
	m.ResultCache.WithLabelValues(result).Inc()
}

// ObserveCompute records the duration of one pipeline run.
func (m *Metrics) ObserveCompute(d time.Duration) {
	if m == nil {
		return
	}
	m.ComputeDuration.Observe(d.Seconds())
}

// ObserveSeriesCache records one Redis series cache lookup.
func (m *Metrics) ObserveSeriesCache(result string) {
	if m == nil {
		return
	}
	m.SeriesCache.WithLabelValues(result).Inc()
}

// AddEvictions records n swept entries.
func (m *Metrics) AddEvictions(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.CacheEvictions.Add(float64(n))
}

// Package metrics wires the client's counters onto a caller-supplied
// prometheus.Registerer. It is entirely optional: a nil *Metrics (the zero
// value returned by Disabled) is safe to call every method on, so call sites
// never need a "metrics != nil" guard of their own.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Metrics holds the counters/gauges this client reports. Every method has a
// nil receiver check, so a nil *Metrics behaves as a no-op sink.
type Metrics struct {
	fetchAttempts  *prometheus.CounterVec
	cacheHits      prometheus.Counter
	cacheMisses    prometheus.Counter
	retries        prometheus.Counter
	dedupDropped   *prometheus.CounterVec
	bigqueryBytes  prometheus.Counter
	activeStreams  prometheus.Gauge
}

// New registers this client's metrics on reg and returns a *Metrics that
// reports to them. reg must not be nil; use Disabled() when metrics aren't
// wanted.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetchAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "fetch_attempts_total",
			Help:      "Fetch attempts per dataset and source (file or bigquery).",
		}, []string{"dataset", "source"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "cache_hits_total",
			Help:      "Archive cache lookups served from an on-disk fresh copy.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "cache_misses_total",
			Help:      "Archive cache lookups that required a network fetch.",
		}),
		retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "http_retries_total",
			Help:      "Retried HTTP requests across all datasets.",
		}),
		dedupDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "dedup_dropped_total",
			Help:      "Raw records dropped as duplicates, by dataset.",
		}, []string{"dataset"}),
		bigqueryBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "gdelt",
			Name:      "bigquery_bytes_billed_total",
			Help:      "Cumulative bytes billed by BigQuery queries.",
		}),
		activeStreams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "gdelt",
			Name:      "active_streams",
			Help:      "Streams currently open across all datasets.",
		}),
	}
	reg.MustRegister(m.fetchAttempts, m.cacheHits, m.cacheMisses, m.retries, m.dedupDropped, m.bigqueryBytes, m.activeStreams)
	return m
}

// Disabled returns a *Metrics with no backing registry; every method on it
// is a no-op.
func Disabled() *Metrics { return nil }

func (m *Metrics) FetchAttempt(dataset, source string) {
	if m == nil {
		return
	}
	m.fetchAttempts.WithLabelValues(dataset, source).Inc()
}

func (m *Metrics) CacheHit() {
	if m == nil {
		return
	}
	m.cacheHits.Inc()
}

func (m *Metrics) CacheMiss() {
	if m == nil {
		return
	}
	m.cacheMisses.Inc()
}

func (m *Metrics) Retry() {
	if m == nil {
		return
	}
	m.retries.Inc()
}

func (m *Metrics) DedupDropped(dataset string) {
	if m == nil {
		return
	}
	m.dedupDropped.WithLabelValues(dataset).Inc()
}

func (m *Metrics) BigQueryBytesBilled(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.bigqueryBytes.Add(float64(n))
}

func (m *Metrics) StreamOpened() {
	if m == nil {
		return
	}
	m.activeStreams.Inc()
}

func (m *Metrics) StreamClosed() {
	if m == nil {
		return
	}
	m.activeStreams.Dec()
}

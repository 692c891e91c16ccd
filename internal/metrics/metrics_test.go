package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNew_countersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.FetchAttempt("events", "file")
	m.FetchAttempt("events", "file")
	m.CacheHit()
	m.DedupDropped("gkg")

	if got := testutil.ToFloat64(m.fetchAttempts.WithLabelValues("events", "file")); got != 2 {
		t.Errorf("fetch_attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.cacheHits); got != 1 {
		t.Errorf("cache_hits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.dedupDropped.WithLabelValues("gkg")); got != 1 {
		t.Errorf("dedup_dropped{gkg} = %v, want 1", got)
	}
}

func TestDisabled_neverPanics(t *testing.T) {
	var m *Metrics = Disabled()
	m.FetchAttempt("events", "file")
	m.CacheHit()
	m.CacheMiss()
	m.Retry()
	m.DedupDropped("events")
	m.BigQueryBytesBilled(100)
	m.StreamOpened()
	m.StreamClosed()
}

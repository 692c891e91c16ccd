package gdelt

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gdeltgo/gdelt/internal/bqsource"
	"github.com/gdeltgo/gdelt/internal/config"
	"github.com/gdeltgo/gdelt/internal/fetchengine"
	"github.com/gdeltgo/gdelt/internal/filecache"
	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/httpclient"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/metrics"
	"github.com/gdeltgo/gdelt/internal/parse"
	"github.com/gdeltgo/gdelt/internal/records"
)

// hostRPS and hostBurst bound the steady-state request rate to a single
// host (data.gdeltproject.org's own mirrors are shared infrastructure);
// max_concurrent_requests (config.Settings) separately bounds how many of
// those requests may be in flight at once.
const (
	hostRPS   = 8.0
	hostBurst = 16
)

// Client is the entry point into this library: one Client per configured
// backend, shared by every dataset accessor it hands out (spec §4's "single
// entry point").
type Client struct {
	settings config.Settings
	engine   *fetchengine.Engine
	cache    *filecache.Cache
	bq       *bqsource.Source
	metrics  *metrics.Metrics
}

// Option configures New, beyond what config.Option already covers.
type Option func(*clientOptions)

type clientOptions struct {
	settingsOpts []config.Option
	registerer   prometheus.Registerer
}

// WithSettings passes config.Options through to config.Load (explicit
// overrides, highest precedence per spec §6).
func WithSettings(opts ...config.Option) Option {
	return func(c *clientOptions) { c.settingsOpts = append(c.settingsOpts, opts...) }
}

// WithMetrics registers this client's counters on reg. Omit to run with
// metrics disabled (a nil-safe no-op, see internal/metrics).
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *clientOptions) { c.registerer = reg }
}

// New wires a Client end to end: layered settings → on-disk cache →
// transport (host semaphore + rate limiter + retry policy) → master file
// list → resolver → file source, plus an optional BigQuery source when
// config.Settings.BigQueryConfigured(). Grounded on cmd/plex-tuner/main.go's
// construction order (config → fetcher → catalog), collapsed into a single
// constructor since this is a library, not a daemon.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	var co clientOptions
	for _, opt := range opts {
		opt(&co)
	}

	settings, err := config.Load(co.settingsOpts...)
	if err != nil {
		return nil, err
	}

	cache, err := filecache.Open(settings.CacheDir)
	if err != nil {
		return nil, err
	}

	httpClient := httpclient.ForStreaming()
	retryPolicy := httpclient.DefaultRetryPolicy.WithMaxRetries(settings.MaxRetries)
	hostSem := httpclient.NewHostSemaphore(settings.MaxConcurrentRequests)
	limiter := httpclient.NewHostLimiter(hostRPS, hostBurst)
	httpFetcher := filesource.NewHTTPFetcher(httpClient, retryPolicy, hostSem, limiter)

	list := masterlist.New(masterlist.Fetcher(httpFetcher), settings.MasterFileListTTL,
		masterlist.WithTranslated(settings.IncludeTranslated))
	resolver := gfilter.NewResolver(list)

	fileSource := filesource.New(resolver, cache, httpFetcher, settings.CacheTTL,
		settings.MaxConcurrentDownloads, settings.DecompressedSizeCap)

	// BigQueryConfigured is spec §4.6's capability probe: an unconfigured
	// BigQuery source is never an error, just a feature the orchestrator
	// can't fall back to (fetchengine.Engine.bq stays nil in that case).
	var bq *bqsource.Source
	if settings.BigQueryConfigured() {
		bq, err = bqsource.New(ctx, settings.BigQueryProject, settings.BigQueryCredentialsPath)
		if err != nil {
			cache.Close()
			return nil, err
		}
	}

	engine := fetchengine.New(fileSource, bq)

	var m *metrics.Metrics
	if co.registerer != nil {
		m = metrics.New(co.registerer)
	}

	return &Client{settings: settings, engine: engine, cache: cache, bq: bq, metrics: m}, nil
}

// Close releases the on-disk cache index and, if configured, the BigQuery
// client.
func (c *Client) Close() error {
	var firstErr error
	if c.bq != nil {
		if err := c.bq.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.cache.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

// Settings returns the resolved configuration this Client was built from.
func (c *Client) Settings() config.Settings { return c.settings }

// fetchSettings is the per-call knobs every dataset's Query/Stream accepts,
// layered over the Client's configured defaults (spec §4.5/§4.7:
// error_policy and parse policy are endpoint-level, not global).
type fetchSettings struct {
	errorPolicy   parse.Policy
	parsePolicy   parse.Policy
	useBigQuery   bool
	dedup         bool
	dedupStrategy records.Strategy
	dedupMaxKeys  int
}

// FetchOption configures a single Query or Stream call.
type FetchOption func(*fetchSettings)

// WithErrorPolicy sets the per-bucket failure policy for this call (spec
// §4.5: raise|warn|skip). Default is parse.Warn.
func WithErrorPolicy(p parse.Policy) FetchOption {
	return func(s *fetchSettings) { s.errorPolicy = p }
}

// WithParsePolicy sets the malformed-row policy for this call. Default is
// parse.Warn.
func WithParsePolicy(p parse.Policy) FetchOption {
	return func(s *fetchSettings) { s.parsePolicy = p }
}

// WithForceBigQuery bypasses the file source entirely for this call (spec
// §4.6: BigQuery is also a caller-selectable primary source, not only a
// fallback).
func WithForceBigQuery(v bool) FetchOption {
	return func(s *fetchSettings) { s.useBigQuery = v }
}

// WithDedup enables first-occurrence-wins deduplication over raw records
// before conversion, using strategy (spec §4.8). Off by default.
func WithDedup(strategy records.Strategy) FetchOption {
	return func(s *fetchSettings) { s.dedup = true; s.dedupStrategy = strategy }
}

// WithDedupMaxKeys bounds the deduplication key set's memory, evicting the
// oldest key once exceeded (spec §4.8: "bounded memory is a user concern").
// Zero (the default) means unbounded.
func WithDedupMaxKeys(n int) FetchOption {
	return func(s *fetchSettings) { s.dedupMaxKeys = n }
}

func (c *Client) resolveFetchSettings(opts []FetchOption) fetchSettings {
	s := fetchSettings{errorPolicy: parse.Warn, parsePolicy: parse.Warn, dedupStrategy: records.URLOnly}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

func (c *Client) engineOptions(s fetchSettings) fetchengine.Options {
	return fetchengine.Options{
		UseBigQuery:     s.useBigQuery,
		ErrorPolicy:     s.errorPolicy,
		ParsePolicy:     s.parsePolicy,
		FallbackEnabled: c.settings.FallbackToBigQuery,
	}
}

func requireEngine(c *Client) error {
	if c == nil || c.engine == nil {
		return gdelterrors.New(gdelterrors.KindConfiguration, "client is not initialized; use gdelt.New")
	}
	return nil
}

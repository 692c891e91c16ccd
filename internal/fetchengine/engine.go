// Package fetchengine implements spec §4.7's fetcher orchestrator: a small
// state machine choosing between the file source and the BigQuery fallback,
// grounded on internal/indexer/fetch/fetcher.go's Fetch() method — itself a
// "try primary, fall back to secondary on failure" state machine (M3U vs
// Xtream there, files vs BigQuery here).
package fetchengine

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/gdeltgo/gdelt/internal/bqsource"
	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// Options mirrors spec §4.7's fetch(dataset, filter, opts) options:
// use_bigquery (force), error_policy, fallback_enabled.
type Options struct {
	UseBigQuery     bool
	ErrorPolicy     parse.Policy
	ParsePolicy     parse.Policy
	FallbackEnabled bool
}

// Result is what Fetch returns: a request id for log correlation (spec §4.7;
// grounded on the teacher's per-run Stats/state correlation, generalised to
// a UUID since this client has no persisted per-provider state to key off
// of), the state the engine settled in, and the unified item stream.
type Result struct {
	RequestID string
	State     State
	Stream    ItemStream
}

// Engine is the orchestrator. A nil bqSource means BigQuery is unconfigured
// (spec §4.6: "capability probe... absent credentials → configuration_error,
// never a crash") — Fetch silently skips fallback in that case regardless of
// opts.FallbackEnabled.
type Engine struct {
	fileSource *filesource.Source
	bq         bqFetcher

	mu    sync.Mutex // serialises concurrent Fetch calls, per the teacher's Fetcher
	state State
}

// New builds an Engine. bqSource may be nil when BigQuery is unconfigured.
func New(fileSource *filesource.Source, bqSource *bqsource.Source) *Engine {
	e := &Engine{fileSource: fileSource, state: StateInit}
	if bqSource != nil {
		e.bq = bqSourceAdapter{src: bqSource}
	}
	return e
}

// newWithFetcher builds an Engine around a fake bqFetcher, for tests.
func newWithFetcher(fileSource *filesource.Source, bq bqFetcher) *Engine {
	return &Engine{fileSource: fileSource, bq: bq, state: StateInit}
}

// State returns the engine's current stage, for diagnostics.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// Fetch resolves dataset/filter to a record stream, preferring the file
// source unless opts.UseBigQuery forces BigQuery or a pre-first-record
// failure triggers fallback (spec §4.7: "On rate_limited or repeated
// transient errors at stream start... if fallback_enabled ∧ BQ configured:
// transition to STREAMING_BQ. Mid-stream failures do not trigger fallback...
// they follow error_policy.").
func (e *Engine) Fetch(ctx context.Context, dataset masterlist.Dataset, filter gfilter.Filter, opts Options) (*Result, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	reqID := uuid.New().String()
	e.state = StateInit

	if opts.UseBigQuery {
		stream, err := e.startBQ(ctx, dataset, filter)
		if err != nil {
			return nil, err
		}
		e.state = StateStreamingBQ
		return &Result{RequestID: reqID, State: e.state, Stream: e.trackDone(stream)}, nil
	}

	if probeErr := e.fileSource.Probe(ctx, filter); probeErr != nil {
		if opts.FallbackEnabled && e.bq != nil && isFallbackEligible(probeErr) {
			bqStream, err := e.startBQ(ctx, dataset, filter)
			if err != nil {
				return nil, errors.Join(probeErr, err)
			}
			e.state = StateStreamingBQ
			return &Result{RequestID: reqID, State: e.state, Stream: e.trackDone(bqStream)}, nil
		}
		if mustRaise(probeErr) || opts.ErrorPolicy == parse.Raise {
			return nil, probeErr
		}
		// Not fallback-eligible (or no fallback configured), not one of the
		// kinds spec §7 raises unconditionally, and error_policy is not
		// raise: fall through to Fetch so opts.ErrorPolicy governs this
		// bucket the same way it governs every later one, instead of
		// hard-failing the whole call on its account.
	}

	stream, err := e.fileSource.Fetch(ctx, dataset, filter, opts.ErrorPolicy, opts.ParsePolicy)
	if err != nil {
		return nil, err
	}
	e.state = StateStreamingFiles
	return &Result{RequestID: reqID, State: e.state, Stream: e.trackDone(stream)}, nil
}

// trackDone wraps stream so the engine records StateDone once it's drained.
func (e *Engine) trackDone(stream ItemStream) ItemStream {
	return &doneTrackingStream{inner: stream, onEnd: func() {
		e.mu.Lock()
		e.state = StateDone
		e.mu.Unlock()
	}}
}

func (e *Engine) startBQ(ctx context.Context, dataset masterlist.Dataset, filter gfilter.Filter) (ItemStream, error) {
	if e.bq == nil {
		return nil, gdelterrors.New(gdelterrors.KindConfiguration, "bigquery source is not configured")
	}
	return e.bq.Fetch(ctx, dataset, filter)
}

// isFallbackEligible reports whether err is the kind of stream-start failure
// spec §4.7 allows triggering a BigQuery fallback for: rate_limited or a
// transport-level unavailability, not a validation or decode problem.
func isFallbackEligible(err error) bool {
	return errors.Is(err, gdelterrors.ErrRateLimited) || errors.Is(err, gdelterrors.ErrAPIUnavail)
}

// mustRaise reports whether err is one of spec §7's three kinds that are
// always raised immediately, never downgraded to a FailedRequest under
// error_policy: configuration_error, validation_error, security_error.
func mustRaise(err error) bool {
	return errors.Is(err, gdelterrors.ErrConfiguration) ||
		errors.Is(err, gdelterrors.ErrValidation) ||
		errors.Is(err, gdelterrors.ErrSecurity)
}

package gdelt

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/fetchengine"
	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/metrics"
	"github.com/gdeltgo/gdelt/internal/parse"
	"github.com/gdeltgo/gdelt/internal/records"
)

// failedReporter is satisfied by fetchengine's internal doneTrackingStream;
// asserted against here rather than added to fetchengine.ItemStream, since
// only the file source ever has per-URL failures to report.
type failedReporter interface {
	Failed() []filesource.FailedRequest
}

// Stream is the incremental counterpart of Query (spec §4.9: "stream(filter)
// → async lazy sequence<Public>"). Call Next until ok is false.
type Stream[T gfilter.RecordView] struct {
	inner    fetchengine.ItemStream
	pred     gfilter.Predicate
	fromRaw  func(parse.RawRecord) T
	fromJSON func(map[string]interface{}) T
	dataset  masterlist.Dataset
	dedup    *records.Dedup
	metrics  *metrics.Metrics
	closed   bool
}

// Next returns the next record surviving client-side filtering and
// deduplication, or ok=false once the underlying source is exhausted.
func (s *Stream[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	for {
		item, ok, err := s.inner.Next(ctx)
		if err != nil {
			s.closeOnce()
			return zero, false, err
		}
		if !ok {
			s.closeOnce()
			return zero, false, nil
		}

		var rec T
		if item.Raw != nil {
			if s.dedup != nil {
				view := records.RawViewFor(s.dataset, *item.Raw)
				if !s.dedup.Admit(view) {
					s.metrics.DedupDropped(string(s.dataset))
					continue
				}
			}
			rec = s.fromRaw(*item.Raw)
		} else {
			rec = s.fromJSON(item.JSON)
		}

		if s.pred != nil && !s.pred(rec) {
			continue
		}
		return rec, true, nil
	}
}

func (s *Stream[T]) closeOnce() {
	if s.closed {
		return
	}
	s.closed = true
	s.metrics.StreamClosed()
}

// Failed drains any per-URL FailedRequest the underlying source recorded
// under a non-raising error_policy, translated onto this package's closed
// Reason set.
func (s *Stream[T]) Failed() []FailedRequest {
	fr, ok := s.inner.(failedReporter)
	if !ok {
		return nil
	}
	var out []FailedRequest
	for _, f := range fr.Failed() {
		reason, attempts := classifyReason(f.Err)
		code := 0
		if ge, ok := asHTTPCode(f.Err); ok {
			code = ge
		}
		out = append(out, FailedRequest{URL: f.URL, Reason: reason, Code: code, Attempts: attempts, Err: f.Err})
	}
	return out
}

// query drains a Stream into a FetchResult (spec §4.9: "query is stream
// collected into a list").
func query[T gfilter.RecordView](ctx context.Context, s *Stream[T]) (*FetchResult[T], error) {
	var out FetchResult[T]
	for {
		rec, ok, err := s.Next(ctx)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		out.Data = append(out.Data, rec)
	}
	out.Failed = s.Failed()
	return &out, nil
}

// newStream resolves filter through the fetch engine and wraps the result in
// a generic Stream, wiring in client-side filtering and optional dedup.
// allowDedup is false for NGrams: its raw-view adapter has no stable key
// fields (no source URL, no actors), so admitting it into Dedup would key
// every record identically and drop all but the first (see
// internal/records.genericRawView's doc comment).
func newStream[T gfilter.RecordView](ctx context.Context, c *Client, filter gfilter.Filter,
	opts []FetchOption, fromRaw func(parse.RawRecord) T, fromJSON func(map[string]interface{}) T) (*Stream[T], error) {
	return newStreamDedup(ctx, c, filter, opts, fromRaw, fromJSON, true)
}

func newStreamDedup[T gfilter.RecordView](ctx context.Context, c *Client, filter gfilter.Filter,
	opts []FetchOption, fromRaw func(parse.RawRecord) T, fromJSON func(map[string]interface{}) T, allowDedup bool) (*Stream[T], error) {

	if err := requireEngine(c); err != nil {
		return nil, err
	}

	settings := c.resolveFetchSettings(opts)
	engineOpts := c.engineOptions(settings)

	source := "file"
	if engineOpts.UseBigQuery {
		source = "bigquery"
	}
	c.metrics.FetchAttempt(string(filter.Dataset()), source)

	result, err := c.engine.Fetch(ctx, filter.Dataset(), filter, engineOpts)
	if err != nil {
		return nil, err
	}
	c.metrics.StreamOpened()

	var dedup *records.Dedup
	if settings.dedup && allowDedup {
		dedup = records.NewDedup(settings.dedupStrategy)
		dedup.MaxKeys = settings.dedupMaxKeys
	}

	return &Stream[T]{
		inner:    result.Stream,
		pred:     gfilter.BuildPredicate(filter),
		fromRaw:  fromRaw,
		fromJSON: fromJSON,
		dataset:  filter.Dataset(),
		dedup:    dedup,
		metrics:  c.metrics,
	}, nil
}

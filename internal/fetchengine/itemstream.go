package fetchengine

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/bqsource"
	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
)

// ItemStream is the shape both the file source and the BigQuery source
// expose — fetch(dataset, filter) → async lazy finite sequence of raw
// records (spec §4.5/§4.6 share this contract verbatim), which is what lets
// the orchestrator switch between them transparently.
type ItemStream interface {
	Next(ctx context.Context) (filesource.Item, bool, error)
}

// bqFetcher is the subset of the BigQuery source the engine depends on,
// narrowed for testability (same seam as bqsource.rowIterator).
type bqFetcher interface {
	Fetch(ctx context.Context, dataset masterlist.Dataset, f gfilter.Filter) (ItemStream, error)
}

// bqSourceAdapter adapts *bqsource.Source — whose Fetch returns the concrete
// *bqsource.RowStream — to bqFetcher.
type bqSourceAdapter struct {
	src *bqsource.Source
}

func (a bqSourceAdapter) Fetch(ctx context.Context, dataset masterlist.Dataset, f gfilter.Filter) (ItemStream, error) {
	return a.src.Fetch(ctx, dataset, f)
}

// doneTrackingStream marks the owning Engine StateDone the moment the
// wrapped stream reports end-of-sequence (spec §4.7: "...→ DONE").
type doneTrackingStream struct {
	inner ItemStream
	onEnd func()
}

func (d *doneTrackingStream) Next(ctx context.Context) (filesource.Item, bool, error) {
	item, ok, err := d.inner.Next(ctx)
	if !ok {
		d.onEnd()
	}
	return item, ok, err
}

// Failed forwards to the wrapped stream's Failed method when it has one
// (only *filesource.Stream does; a BigQuery stream has no per-URL failures
// to report). Callers type-assert Result.Stream against this interface.
func (d *doneTrackingStream) Failed() []filesource.FailedRequest {
	if fr, ok := d.inner.(interface{ Failed() []filesource.FailedRequest }); ok {
		return fr.Failed()
	}
	return nil
}

package bqsource

import (
	"context"
	"fmt"
	"sync/atomic"

	"cloud.google.com/go/bigquery"
	"google.golang.org/api/iterator"

	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// Fetch runs f against dataset's BigQuery table and returns a lazy sequence
// of filesource.Item, the same record shape the file source produces, so the
// orchestrator (J) can treat both sources uniformly (spec §4.6's contract is
// deliberately identical to §4.5's).
func (s *Source) Fetch(ctx context.Context, dataset masterlist.Dataset, f gfilter.Filter) (*RowStream, error) {
	sql, params, err := BuildQuery(dataset, f)
	if err != nil {
		return nil, err
	}

	q := s.client.Query(sql)
	q.Parameters = params

	it, err := q.Read(ctx)
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindAPI, "bigquery query", err)
	}
	if it.TotalBytesProcessed > 0 {
		atomic.AddInt64(&s.bytesRead, it.TotalBytesProcessed)
	}

	return &RowStream{it: it, dataset: dataset, cols: columnsFor[dataset]}, nil
}

// RowStream adapts a *bigquery.RowIterator to the same Next(ctx) shape as
// filesource.Stream.
type RowStream struct {
	it      rowIterator
	dataset masterlist.Dataset
	cols    []string
}

// rowIterator is the subset of *bigquery.RowIterator this package depends
// on, narrowed for testability.
type rowIterator interface {
	Next(dst interface{}) error
}

// Next returns the next row mapped onto a filesource.Item, or ok=false at
// end of results. Columns missing or mis-typed map to empty strings rather
// than failing the whole query (spec §4.6: "yield structured defaults...
// rather than failure").
//
// Events/Mentions/GKG select columns in the exact TSV column-position order
// (see columnsFor), so the row maps onto a parse.RawRecord positionally and
// goes through the same *_FromRaw conversion the file source uses. NGrams
// selects named JSON-line-equivalent keys instead, since its FromRaw reads
// a map by key.
func (r *RowStream) Next(ctx context.Context) (filesource.Item, bool, error) {
	var row []bigquery.Value
	err := r.it.Next(&row)
	if err == iterator.Done {
		return filesource.Item{}, false, nil
	}
	if err != nil {
		return filesource.Item{}, false, gdelterrors.Wrap(gdelterrors.KindAPI, "read bigquery row", err)
	}

	if r.dataset == masterlist.NGrams {
		obj := make(map[string]interface{}, len(r.cols))
		for i, name := range r.cols {
			if i < len(row) {
				obj[name] = row[i]
			}
		}
		return filesource.Item{JSON: obj}, true, nil
	}

	fields := make([]string, len(r.cols))
	for i := 0; i < len(r.cols) && i < len(row); i++ {
		fields[i] = stringify(row[i])
	}
	return filesource.Item{Raw: &parse.RawRecord{Fields: fields}}, true, nil
}

func stringify(v interface{}) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

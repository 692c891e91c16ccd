// Package gdelt is a client library for GDELT's news-derived record feed:
// events, mentions, the Global Knowledge Graph, and web ngrams. It exposes a
// uniform query surface over two backing sources — the public HTTP archive
// (default) and, when configured, BigQuery — with transparent fallback from
// one to the other.
//
// Construct a Client with New, then use its per-dataset accessors:
//
//	client, err := gdelt.New(ctx)
//	events := client.Events()
//	result, err := events.Query(ctx, gfilter.NewEventFilter(dateRange))
//	for _, e := range result.Data {
//		fmt.Println(e.GlobalEventID, e.CAMEOCode)
//	}
//
// Stream is the incremental counterpart of Query, for callers that don't
// want every matching record materialized into memory at once.
package gdelt

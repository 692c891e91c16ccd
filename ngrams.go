package gdelt

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/records"
)

// NGramsEndpoint is the web ngrams dataset accessor. Source data is JSON-lines
// rather than TSV, and carries no stable key to deduplicate on, so dedup
// options have no effect here regardless of what the caller passes.
type NGramsEndpoint struct{ client *Client }

// NGrams returns this Client's NGrams dataset accessor.
func (c *Client) NGrams() *NGramsEndpoint { return &NGramsEndpoint{client: c} }

// Stream resolves filter and returns an incremental sequence of *records.NGram.
func (n *NGramsEndpoint) Stream(ctx context.Context, filter *gfilter.NGramsFilter, opts ...FetchOption) (*Stream[*records.NGram], error) {
	return newStreamDedup(ctx, n.client, filter, opts, nil, records.NGramFromRaw, false)
}

// Query drains Stream into a FetchResult.
func (n *NGramsEndpoint) Query(ctx context.Context, filter *gfilter.NGramsFilter, opts ...FetchOption) (*FetchResult[*records.NGram], error) {
	s, err := n.Stream(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return query(ctx, s)
}

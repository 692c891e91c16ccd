package gdelt

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/records"
)

// GKGEndpoint is the Global Knowledge Graph dataset accessor.
type GKGEndpoint struct{ client *Client }

// GKG returns this Client's GKG dataset accessor.
func (c *Client) GKG() *GKGEndpoint { return &GKGEndpoint{client: c} }

// Stream resolves filter and returns an incremental sequence of *records.GKGRecord.
func (g *GKGEndpoint) Stream(ctx context.Context, filter *gfilter.GKGFilter, opts ...FetchOption) (*Stream[*records.GKGRecord], error) {
	return newStream(ctx, g.client, filter, opts, records.GKGFromRaw, nil)
}

// Query drains Stream into a FetchResult.
func (g *GKGEndpoint) Query(ctx context.Context, filter *gfilter.GKGFilter, opts ...FetchOption) (*FetchResult[*records.GKGRecord], error) {
	s, err := g.Stream(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return query(ctx, s)
}

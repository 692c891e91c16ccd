package gdelt

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/records"
)

// MentionsEndpoint is the Mentions dataset accessor.
type MentionsEndpoint struct{ client *Client }

// Mentions returns this Client's Mentions dataset accessor.
func (c *Client) Mentions() *MentionsEndpoint { return &MentionsEndpoint{client: c} }

// Stream resolves filter and returns an incremental sequence of *records.Mention.
func (m *MentionsEndpoint) Stream(ctx context.Context, filter *gfilter.MentionFilter, opts ...FetchOption) (*Stream[*records.Mention], error) {
	return newStream(ctx, m.client, filter, opts, records.MentionFromRaw, nil)
}

// Query drains Stream into a FetchResult.
func (m *MentionsEndpoint) Query(ctx context.Context, filter *gfilter.MentionFilter, opts ...FetchOption) (*FetchResult[*records.Mention], error) {
	s, err := m.Stream(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return query(ctx, s)
}

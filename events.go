package gdelt

import (
	"context"

	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/records"
)

// EventsEndpoint is the Events dataset accessor (spec §4.9): Query
// materializes, Stream is incremental.
type EventsEndpoint struct{ client *Client }

// Events returns this Client's Events dataset accessor.
func (c *Client) Events() *EventsEndpoint { return &EventsEndpoint{client: c} }

// Stream resolves filter and returns an incremental sequence of *records.Event.
func (e *EventsEndpoint) Stream(ctx context.Context, filter *gfilter.EventFilter, opts ...FetchOption) (*Stream[*records.Event], error) {
	return newStream(ctx, e.client, filter, opts, records.EventFromRaw, nil)
}

// Query drains Stream into a FetchResult.
func (e *EventsEndpoint) Query(ctx context.Context, filter *gfilter.EventFilter, opts ...FetchOption) (*FetchResult[*records.Event], error) {
	s, err := e.Stream(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return query(ctx, s)
}

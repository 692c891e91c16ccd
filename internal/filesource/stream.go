package filesource

import (
	"context"
)

// Stream is a cancellable, lazily-produced sequence of Items (spec §4.5's
// "single-threaded cooperative stream that may be consumed concurrently with
// other sources"). Call Next until ok is false; check Err for why it ended.
type Stream struct {
	items  <-chan Item
	failed <-chan FailedRequest
	cancel context.CancelFunc

	finalErr *error // set once, before items is closed
}

// Next blocks until the next Item is available, the stream ends, or ctx is
// cancelled.
func (s *Stream) Next(ctx context.Context) (Item, bool, error) {
	select {
	case item, ok := <-s.items:
		if !ok {
			return Item{}, false, s.Err()
		}
		return item, true, nil
	case <-ctx.Done():
		return Item{}, false, ctx.Err()
	}
}

// Failed drains any FailedRequest recorded under a warn error_policy. Safe to
// call after the stream has ended; returns nil once drained.
func (s *Stream) Failed() []FailedRequest {
	var out []FailedRequest
	for {
		select {
		case f, ok := <-s.failed:
			if !ok {
				return out
			}
			out = append(out, f)
		default:
			return out
		}
	}
}

// Err reports the terminal error, if any, once the stream has ended (nil for
// a clean end-of-stream under warn/skip policies).
func (s *Stream) Err() error {
	if s.finalErr == nil {
		return nil
	}
	return *s.finalErr
}

// Cancel stops all outstanding downloaders promptly (spec §4.5: "Cancellation
// of the stream cancels all outstanding downloaders promptly").
func (s *Stream) Cancel() {
	s.cancel()
}

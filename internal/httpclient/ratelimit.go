package httpclient

import (
	"context"
	"net/url"
	"sync"

	"golang.org/x/time/rate"
)

// HostLimiter hands out a token-bucket rate.Limiter per host. Unlike
// HostSemaphore (caps concurrent in-flight requests), it caps request rate
// over time, which is what actually avoids tripping the mirror's own
// throttling (spec §7's rate_limited).
type HostLimiter struct {
	mu      sync.Mutex
	limiter map[string]*rate.Limiter
	rps     rate.Limit
	burst   int
}

// NewHostLimiter creates a limiter that allows rps requests/second per host
// with the given burst.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	if burst < 1 {
		burst = 1
	}
	return &HostLimiter{
		limiter: make(map[string]*rate.Limiter),
		rps:     rate.Limit(rps),
		burst:   burst,
	}
}

// Wait blocks until host's bucket has a token, or ctx is cancelled.
func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.limiterFor(host).Wait(ctx)
}

func (h *HostLimiter) limiterFor(host string) *rate.Limiter {
	if u, err := url.Parse(host); err == nil && u.Host != "" {
		host = u.Scheme + "://" + u.Host
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	l, ok := h.limiter[host]
	if !ok {
		l = rate.NewLimiter(h.rps, h.burst)
		h.limiter[host] = l
	}
	return l
}

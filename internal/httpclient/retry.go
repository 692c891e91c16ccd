package httpclient

import (
	"context"
	"io"
	"log"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// RetryPolicy controls when and how DoWithRetry retries a response (spec
// §4.7: "per-URL retries up to max_retries with exponential backoff and
// jitter; rate_limited honours a server-indicated retry hint when present,
// otherwise backoff only. Timeouts retry. Decode/parse errors do not
// retry.").
type RetryPolicy struct {
	// MaxRetries is the number of additional attempts after the first failure.
	MaxRetries int

	// Retry429 retries on 429 Too Many Requests, honouring Retry-After
	// capped at Max429Wait.
	Retry429   bool
	Max429Wait time.Duration

	// Retry5xx retries on 5xx with exponential backoff.
	Retry5xx   bool
	Backoff5xx time.Duration

	// LogHeaders logs diagnostic response headers on any non-2xx/304/206
	// response, to aid debugging a flaky mirror.
	LogHeaders bool
}

// DefaultRetryPolicy matches spec §6's defaults: max_retries 3, rate_limited
// and 5xx both retried with backoff.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	Retry429:   true,
	Max429Wait: 60 * time.Second,
	Retry5xx:   true,
	Backoff5xx: 1 * time.Second,
	LogHeaders: true,
}

// WithMaxRetries returns a copy of p with MaxRetries set to n (used to plumb
// config.Settings.MaxRetries through without mutating the shared default).
func (p RetryPolicy) WithMaxRetries(n int) RetryPolicy {
	p.MaxRetries = n
	return p
}

// DoWithRetry performs req, retrying on 429/5xx per policy. All requests for
// a given host are concurrency-bounded through hostSem and rate-limited through
// limiter (either may be nil to skip that control). 4xx other than 429 is
// never retried — it means the request itself is wrong, not that the server
// is overloaded. Caller must close resp.Body when err == nil.
func DoWithRetry(ctx context.Context, client *http.Client, req *http.Request, policy RetryPolicy, hostSem *HostSemaphore, limiter *HostLimiter) (*http.Response, error) {
	if client == nil {
		client = Default(30 * time.Second)
	}
	maxRetries := policy.MaxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}

	var lastResp *http.Response
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			req2, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), nil)
			if err != nil {
				return nil, gdelterrors.Wrap(gdelterrors.KindAPI, "rebuild request for retry", err)
			}
			for k, v := range req.Header {
				req2.Header[k] = v
			}
			req = req2
		}

		if limiter != nil {
			if err := limiter.Wait(ctx, req.URL.String()); err != nil {
				return nil, gdelterrors.Wrap(gdelterrors.KindAPIUnavail, "rate limiter wait cancelled", err)
			}
		}

		var release func()
		if hostSem != nil {
			release = hostSem.Acquire(req.URL.String())
		}
		resp, err := client.Do(req)
		if release != nil {
			release()
		}
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = gdelterrors.Wrap(gdelterrors.KindAPIUnavail, "request failed", err)
			if attempt < maxRetries {
				wait := jitter(policy.Backoff5xx * time.Duration(1<<uint(attempt)))
				log.Printf("httpclient: %s transport error (attempt %d/%d): %v; retrying in %s",
					req.URL.Host, attempt+1, maxRetries+1, err, wait.Round(time.Millisecond))
				if sleepErr := sleepCtx(ctx, wait); sleepErr != nil {
					return nil, sleepErr
				}
				continue
			}
			return nil, lastErr
		}

		code := resp.StatusCode
		if code == http.StatusOK || code == http.StatusNotModified ||
			code == http.StatusPartialContent {
			return resp, nil
		}

		if policy.LogHeaders {
			logDiagHeaders(req.URL.String(), code, resp.Header)
		}

		if code == http.StatusTooManyRequests && policy.Retry429 && attempt < maxRetries {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			wait := jitter(parseRetryAfter(resp.Header.Get("Retry-After"), policy.Max429Wait))
			log.Printf("httpclient: %s returned 429 (attempt %d/%d); retrying in %s",
				req.URL.Host, attempt+1, maxRetries+1, wait.Round(time.Millisecond))
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			lastResp = nil
			continue
		}

		if code >= 500 && code < 600 && policy.Retry5xx && attempt < maxRetries {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			base := policy.Backoff5xx * time.Duration(1<<uint(attempt))
			wait := jitter(base)
			log.Printf("httpclient: %s returned %d (attempt %d/%d); retrying in %s",
				req.URL.Host, code, attempt+1, maxRetries+1, wait.Round(time.Millisecond))
			if err := sleepCtx(ctx, wait); err != nil {
				return nil, err
			}
			lastResp = nil
			continue
		}

		lastResp = resp
		break
	}

	if lastResp != nil {
		if lastResp.StatusCode == http.StatusTooManyRequests {
			hint := lastResp.Header.Get("Retry-After")
			_, _ = io.Copy(io.Discard, lastResp.Body)
			lastResp.Body.Close()
			return nil, gdelterrors.RateLimited("exhausted retries, still rate limited", hint)
		}
		return lastResp, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return nil, gdelterrors.New(gdelterrors.KindAPIUnavail, "exhausted retries for "+req.URL.String())
}

func logDiagHeaders(url string, code int, h http.Header) {
	var parts []string
	for _, key := range []string{
		"Retry-After", "X-RateLimit-Limit", "X-RateLimit-Remaining",
		"X-RateLimit-Reset", "CF-RAY", "X-Cache", "Server",
	} {
		if v := h.Get(key); v != "" {
			parts = append(parts, key+"="+v)
		}
	}
	if len(parts) > 0 {
		log.Printf("httpclient: %s HTTP %d headers: %s", url, code, strings.Join(parts, " "))
	}
}

// parseRetryAfter parses Retry-After (seconds or HTTP-date); returns duration capped at max.
func parseRetryAfter(s string, max time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	if s == "" {
		return 1 * time.Second
	}
	if sec, err := strconv.Atoi(s); err == nil && sec >= 0 {
		d := time.Duration(sec) * time.Second
		if d > max {
			return max
		}
		return d
	}
	t, err := time.Parse(time.RFC1123, s)
	if err != nil {
		return 1 * time.Second
	}
	until := time.Until(t)
	if until <= 0 {
		return 0
	}
	if until > max {
		return max
	}
	return until
}

// jitter adds ±25% random jitter to d to spread retries across concurrent callers.
func jitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	frac := float64(d) * 0.25
	delta := time.Duration(rand.Int63n(int64(frac*2+1))) - time.Duration(frac)
	result := d + delta
	if result < 0 {
		return 0
	}
	return result
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

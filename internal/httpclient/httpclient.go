// Package httpclient provides the shared transport, per-host concurrency
// and rate limiting, and retry/backoff policy used by every component that
// talks to data.gdeltproject.org, the BigQuery REST surface, or a test
// fixture server.
package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/net/http2"
)

// Default returns an HTTP client tuned for the GDELT archive: short header
// timeouts (dead mirrors should fail fast so retry/backoff can kick in) but
// a body-read timeout generous enough for a multi-megabyte CSV.zip.
func Default(timeout time.Duration) *http.Client {
	transport := &http.Transport{
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		IdleConnTimeout:       30 * time.Second,
		MaxIdleConnsPerHost:   8,
	}
	// GDELT's mirror serves HTTP/2; configuring it explicitly (rather than
	// relying on http.Transport's implicit upgrade) lets us tune frame/flow
	// settings the same way for every client this package hands out.
	_ = http2.ConfigureTransport(transport)

	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}

// ForStreaming returns a client with no overall deadline — a single dataset
// stream may run for minutes — but keeps ResponseHeaderTimeout so a mirror
// that accepts the connection and never responds doesn't hang the stream
// forever.
func ForStreaming() *http.Client {
	transport := &http.Transport{
		ResponseHeaderTimeout: 15 * time.Second,
		ExpectContinueTimeout: 5 * time.Second,
		IdleConnTimeout:       90 * time.Second,
		MaxIdleConnsPerHost:   8,
	}
	_ = http2.ConfigureTransport(transport)

	return &http.Client{Transport: transport}
}

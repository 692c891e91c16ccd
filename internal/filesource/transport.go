package filesource

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/gdeltgo/gdelt/internal/filecache"
	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/httpclient"
)

// NewHTTPFetcher adapts an *http.Client plus the transport layer's retry and
// concurrency controls into a filecache.Fetcher, so the cache stays
// transport-agnostic (internal/filecache/cache.go's doc comment: "kept
// abstract here so Cache has no dependency on net/http").
func NewHTTPFetcher(client *http.Client, policy httpclient.RetryPolicy, hostSem *httpclient.HostSemaphore, limiter *httpclient.HostLimiter) filecache.Fetcher {
	return func(ctx context.Context, rawURL string) (io.ReadCloser, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, gdelterrors.Wrap(gdelterrors.KindConfiguration, "build request for "+rawURL, err)
		}
		resp, err := httpclient.DoWithRetry(ctx, client, req, policy, hostSem, limiter)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, gdelterrors.HTTPStatus(resp.StatusCode,
				fmt.Sprintf("unexpected status %d fetching %s", resp.StatusCode, rawURL))
		}
		return resp.Body, nil
	}
}

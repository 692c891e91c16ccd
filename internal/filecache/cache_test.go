package filecache

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

func readerFetcher(body string, calls *int32) Fetcher {
	return func(ctx context.Context, rawURL string) (io.ReadCloser, error) {
		atomic.AddInt32(calls, 1)
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestGetOrFetch_downloadsOnceThenServesFromCache(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var calls int32
	fetch := readerFetcher("hello world", &calls)
	ctx := context.Background()

	path1, err := c.GetOrFetch(ctx, "https://data.gdeltproject.org/gdeltv2/x.zip", time.Hour, fetch)
	if err != nil {
		t.Fatal(err)
	}
	path2, err := c.GetOrFetch(ctx, "https://data.gdeltproject.org/gdeltv2/x.zip", time.Hour, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if path1 != path2 {
		t.Errorf("paths differ: %q vs %q", path1, path2)
	}
	if calls != 1 {
		t.Errorf("fetch called %d times, want 1 (second call should hit cache)", calls)
	}
}

func TestGetOrFetch_expiredTTLRefetches(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var calls int32
	fetch := readerFetcher("body", &calls)
	ctx := context.Background()

	if _, err := c.GetOrFetch(ctx, "https://data.gdeltproject.org/gdeltv2/y.zip", 0, fetch); err != nil {
		t.Fatal(err)
	}
	if _, err := c.GetOrFetch(ctx, "https://data.gdeltproject.org/gdeltv2/y.zip", 0, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 (ttl=0 never considered fresh)", calls)
	}
}

func TestGetOrFetch_fetcherErrorPropagates(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	wantErr := errors.New("boom")
	fetch := func(ctx context.Context, rawURL string) (io.ReadCloser, error) {
		return nil, wantErr
	}
	_, err = c.GetOrFetch(context.Background(), "https://data.gdeltproject.org/gdeltv2/z.zip", time.Hour, fetch)
	if !errors.Is(err, wantErr) {
		t.Errorf("err = %v, want wrapping %v", err, wantErr)
	}
}

func TestInvalidate_forcesRefetch(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var calls int32
	fetch := readerFetcher("v1", &calls)
	ctx := context.Background()
	url := "https://data.gdeltproject.org/gdeltv2/inv.zip"

	if _, err := c.GetOrFetch(ctx, url, time.Hour, fetch); err != nil {
		t.Fatal(err)
	}
	c.Invalidate(url)
	if _, err := c.GetOrFetch(ctx, url, time.Hour, fetch); err != nil {
		t.Fatal(err)
	}
	if calls != 2 {
		t.Errorf("fetch called %d times, want 2 after Invalidate", calls)
	}
}

func TestEvictExpired_removesOldEntriesOnly(t *testing.T) {
	dir := t.TempDir()
	c, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	var calls int32
	fetch := readerFetcher("body", &calls)
	ctx := context.Background()
	url := "https://data.gdeltproject.org/gdeltv2/evict.zip"

	path, err := c.GetOrFetch(ctx, url, time.Hour, fetch)
	if err != nil {
		t.Fatal(err)
	}

	// Evict with a negative-equivalent TTL (everything is "older" than now+1h).
	if err := c.EvictExpired(-time.Hour); err != nil {
		t.Fatal(err)
	}

	if _, ok := c.checkFresh(path, MetaPath(dir, url), time.Hour); ok {
		t.Errorf("entry still considered fresh after EvictExpired")
	}
}

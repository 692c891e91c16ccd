package gfilter

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdeltgo/gdelt/internal/masterlist"
)

const sampleInventory = `12345 abc123 https://data.gdeltproject.org/gdeltv2/20250101000000.export.CSV.zip
23456 def456 https://data.gdeltproject.org/gdeltv2/20250101001500.export.CSV.zip
`

func fixtureFetcher(body string) masterlist.Fetcher {
	return func(ctx context.Context, url string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestResolver_resolvesValidatedFilterToURLs(t *testing.T) {
	list := masterlist.New(fixtureFetcher(sampleInventory), time.Hour)
	r := NewResolver(list)
	f := NewEventFilter(DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	urls, err := r.Resolve(context.Background(), f)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(urls), urls)
	}
}

func TestResolver_invalidFilterNeverReachesMasterList(t *testing.T) {
	list := masterlist.New(fixtureFetcher(sampleInventory), time.Hour)
	r := NewResolver(list)
	f := NewEventFilter(DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC),
	})
	f.Actor1Country = "NOT-A-CODE"
	if _, err := r.Resolve(context.Background(), f); err == nil {
		t.Fatal("expected validation error to short-circuit resolution")
	}
}

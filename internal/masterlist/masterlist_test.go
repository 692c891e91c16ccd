package masterlist

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/safeurl"
)

const sampleInventory = `12345 abc123 https://data.gdeltproject.org/gdeltv2/20250101000000.export.CSV.zip
23456 def456 https://data.gdeltproject.org/gdeltv2/20250101001500.export.CSV.zip
34567 fff000 https://data.gdeltproject.org/gdeltv2/20250101000000.mentions.CSV.zip
`

func fixtureFetcher(body string) Fetcher {
	return func(ctx context.Context, url string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(body)), nil
	}
}

func TestResolve_bucketsAndOrdersChronologically(t *testing.T) {
	m := New(fixtureFetcher(sampleInventory), time.Hour)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	urls, err := m.Resolve(context.Background(), Events, start, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 2 {
		t.Fatalf("got %d urls, want 2: %v", len(urls), urls)
	}
	if !strings.Contains(urls[0], "20250101000000") || !strings.Contains(urls[1], "20250101001500") {
		t.Errorf("urls not chronologically ordered: %v", urls)
	}
}

func TestResolve_datasetSeparation(t *testing.T) {
	m := New(fixtureFetcher(sampleInventory), time.Hour)
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	urls, err := m.Resolve(context.Background(), Mentions, start, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 1 || !strings.Contains(urls[0], "mentions") {
		t.Errorf("urls = %v, want exactly one mentions URL", urls)
	}
}

func TestResolve_unknownDatasetIsValidationError(t *testing.T) {
	m := New(fixtureFetcher(sampleInventory), time.Hour)
	_, err := m.Resolve(context.Background(), Dataset("bogus"), time.Now(), time.Now())
	if !errors.Is(err, gdelterrors.ErrValidation) {
		t.Errorf("err = %v, want validation_error", err)
	}
}

func TestResolve_whitelistDropsNonMatchingURLs(t *testing.T) {
	inv := "111 aaa https://evil.example.com/gdeltv2/20250101000000.export.CSV.zip\n"
	m := New(fixtureFetcher(inv), time.Hour, WithWhitelist(safeurl.DefaultGDELTWhitelist))
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	urls, err := m.Resolve(context.Background(), Events, start, start)
	if err != nil {
		t.Fatal(err)
	}
	if len(urls) != 0 {
		t.Errorf("urls = %v, want none (host not whitelisted)", urls)
	}
}

func TestResolve_fetchFailureWithNoPriorIndexIsAPIUnavailable(t *testing.T) {
	fetch := func(ctx context.Context, url string) (io.ReadCloser, error) {
		return nil, errors.New("dial tcp: connection refused")
	}
	m := New(fetch, time.Hour)
	_, err := m.Resolve(context.Background(), Events, time.Now(), time.Now())
	if !errors.Is(err, gdelterrors.ErrAPIUnavail) {
		t.Errorf("err = %v, want api_unavailable", err)
	}
}

func TestResolve_staleIndexServedOnRefreshFailure(t *testing.T) {
	calls := 0
	fetch := func(ctx context.Context, url string) (io.ReadCloser, error) {
		calls++
		if calls == 1 {
			return io.NopCloser(strings.NewReader(sampleInventory)), nil
		}
		return nil, errors.New("temporarily unreachable")
	}
	m := New(fetch, 0) // ttl 0 forces a refresh attempt on every call
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	if _, err := m.Resolve(context.Background(), Events, start, start); err != nil {
		t.Fatalf("first resolve: %v", err)
	}
	urls, err := m.Resolve(context.Background(), Events, start, start)
	if err != nil {
		t.Fatalf("second resolve should serve stale index, got error: %v", err)
	}
	if len(urls) != 2 {
		t.Errorf("urls = %v, want 2 from stale index", urls)
	}
}

func TestParseInventory_badLinesCounted(t *testing.T) {
	entries, bad, err := parseInventory(strings.NewReader(sampleInventory+"99999 badline\n"), false)
	if err != nil {
		t.Fatal(err)
	}
	if bad != 1 {
		t.Errorf("bad = %d, want 1", bad)
	}
	if len(entries) != 3 {
		t.Errorf("entries = %d, want 3", len(entries))
	}
}

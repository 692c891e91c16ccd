package filesource

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/gdeltgo/gdelt/internal/filecache"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
)

func gzipOf(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func tsvLineOf(n int, filler string) string {
	fields := make([]string, n)
	for i := range fields {
		fields[i] = filler
	}
	return strings.Join(fields, "\t")
}

// fixtureFetcher returns a filecache.Fetcher that serves pre-baked gzip
// bodies keyed by URL, simulating the HTTP transport layer for these tests.
func fixtureFetcher(bodies map[string][]byte) filecache.Fetcher {
	return func(ctx context.Context, rawURL string) (io.ReadCloser, error) {
		b, ok := bodies[rawURL]
		if !ok {
			return nil, context.DeadlineExceeded
		}
		return io.NopCloser(bytes.NewReader(b)), nil
	}
}

func newTestSource(t *testing.T, inventory string, bodies map[string][]byte) *Source {
	t.Helper()
	masterFetch := func(ctx context.Context, url string) (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader(inventory)), nil
	}
	list := masterlist.New(masterFetch, time.Hour)
	resolver := gfilter.NewResolver(list)
	cache, err := filecache.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })
	return New(resolver, cache, fixtureFetcher(bodies), time.Hour, 4, 0)
}

func TestSource_streamsMentionsRecordsInOrder(t *testing.T) {
	const inv = `100 abc https://data.gdeltproject.org/gdeltv2/20250101000000.mentions.CSV.zip
100 abc https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip
`
	line1 := tsvLineOf(parse.MentionsColumns, "a")
	line2 := tsvLineOf(parse.MentionsColumns, "b")
	bodies := map[string][]byte{
		"https://data.gdeltproject.org/gdeltv2/20250101000000.mentions.CSV.zip": gzipOf(t, line1+"\n"),
		"https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip": gzipOf(t, line2+"\n"),
	}
	src := newTestSource(t, inv, bodies)

	f := gfilter.NewMentionFilter(gfilter.DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	stream, err := src.Fetch(context.Background(), masterlist.Mentions, f, parse.Warn, parse.Warn)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for {
		item, ok, err := stream.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		got = append(got, item.Raw.Field(0))
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v, want [a b] in chronological order", got)
	}
}

func TestSource_warnPolicyRecordsFailedRequestAndContinues(t *testing.T) {
	const inv = `100 abc https://data.gdeltproject.org/gdeltv2/20250101000000.mentions.CSV.zip
100 abc https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip
`
	ok := tsvLineOf(parse.MentionsColumns, "ok")
	bodies := map[string][]byte{
		// 000000 deliberately missing from bodies to force a download failure.
		"https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip": gzipOf(t, ok+"\n"),
	}
	src := newTestSource(t, inv, bodies)

	f := gfilter.NewMentionFilter(gfilter.DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	stream, err := src.Fetch(context.Background(), masterlist.Mentions, f, parse.Warn, parse.Warn)
	if err != nil {
		t.Fatal(err)
	}

	var got []string
	for {
		item, has, err := stream.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !has {
			break
		}
		got = append(got, item.Raw.Field(0))
	}
	if len(got) != 1 || got[0] != "ok" {
		t.Fatalf("got %v, want [ok]", got)
	}
	if len(stream.Failed()) != 1 {
		t.Fatalf("Failed() = %v, want exactly one FailedRequest", stream.Failed())
	}
}

func TestSource_raisePolicyStopsStream(t *testing.T) {
	const inv = `100 abc https://data.gdeltproject.org/gdeltv2/20250101000000.mentions.CSV.zip
100 abc https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip
`
	ok := tsvLineOf(parse.MentionsColumns, "ok")
	bodies := map[string][]byte{
		"https://data.gdeltproject.org/gdeltv2/20250101001500.mentions.CSV.zip": gzipOf(t, ok+"\n"),
	}
	src := newTestSource(t, inv, bodies)

	f := gfilter.NewMentionFilter(gfilter.DateRange{
		Start: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	stream, err := src.Fetch(context.Background(), masterlist.Mentions, f, parse.Raise, parse.Warn)
	if err != nil {
		t.Fatal(err)
	}

	_, has, err := stream.Next(context.Background())
	if has {
		t.Fatal("expected no items to survive a raise-policy download failure")
	}
	if err == nil {
		t.Fatal("expected a terminal error")
	}
}

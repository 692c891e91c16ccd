package gdelt

import (
	"context"
	"errors"
	"testing"

	"github.com/gdeltgo/gdelt/internal/filesource"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
	"github.com/gdeltgo/gdelt/internal/records"
)

// eventRaw builds a 61-field Events raw record with url at the SourceURL
// column (60) and every other field left blank, enough to drive
// records.EventFromRaw and the dedup/predicate paths under test.
func eventRaw(url string) parse.RawRecord {
	fields := make([]string, 61)
	fields[60] = url
	return parse.RawRecord{Fields: fields}
}

type fakeItemStream struct {
	items  []filesource.Item
	i      int
	failed []filesource.FailedRequest
}

func (f *fakeItemStream) Next(ctx context.Context) (filesource.Item, bool, error) {
	if f.i >= len(f.items) {
		return filesource.Item{}, false, nil
	}
	item := f.items[f.i]
	f.i++
	return item, true, nil
}

func (f *fakeItemStream) Failed() []filesource.FailedRequest { return f.failed }

func TestStream_yieldsConvertedRecordsInOrder(t *testing.T) {
	inner := &fakeItemStream{items: []filesource.Item{
		{Raw: ptr(eventRaw("https://x/a"))},
		{Raw: ptr(eventRaw("https://x/b"))},
	}}
	s := &Stream[*records.Event]{inner: inner, fromRaw: records.EventFromRaw, dataset: masterlist.Events}

	first, ok, err := s.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next() = %v,%v,%v", first, ok, err)
	}
	if first.SourceURL != "https://x/a" {
		t.Errorf("SourceURL = %q", first.SourceURL)
	}

	second, ok, _ := s.Next(context.Background())
	if !ok || second.SourceURL != "https://x/b" {
		t.Errorf("second record = %+v, ok=%v", second, ok)
	}

	_, ok, _ = s.Next(context.Background())
	if ok {
		t.Error("Next() after exhaustion should report ok=false")
	}
}

func TestStream_appliesPredicate(t *testing.T) {
	inner := &fakeItemStream{items: []filesource.Item{
		{Raw: ptr(eventRaw("https://x/a"))},
		{Raw: ptr(eventRaw("https://x/b"))},
	}}
	s := &Stream[*records.Event]{
		inner:   inner,
		fromRaw: records.EventFromRaw,
		dataset: masterlist.Events,
		pred:    func(r gfilter.RecordView) bool { return r.(*records.Event).SourceURL == "https://x/b" },
	}

	rec, ok, err := s.Next(context.Background())
	if err != nil || !ok {
		t.Fatalf("Next() = %v,%v,%v", rec, ok, err)
	}
	if rec.SourceURL != "https://x/b" {
		t.Errorf("predicate should have skipped the first record, got %q", rec.SourceURL)
	}
	_, ok, _ = s.Next(context.Background())
	if ok {
		t.Error("stream should be exhausted after the one matching record")
	}
}

func TestStream_dedupDropsRepeatedURL(t *testing.T) {
	inner := &fakeItemStream{items: []filesource.Item{
		{Raw: ptr(eventRaw("https://x/a"))},
		{Raw: ptr(eventRaw("https://x/a"))},
		{Raw: ptr(eventRaw("https://x/b"))},
	}}
	s := &Stream[*records.Event]{
		inner:   inner,
		fromRaw: records.EventFromRaw,
		dataset: masterlist.Events,
		dedup:   records.NewDedup(records.URLOnly),
	}

	var urls []string
	for {
		rec, ok, err := s.Next(context.Background())
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			break
		}
		urls = append(urls, rec.SourceURL)
	}
	if len(urls) != 2 || urls[0] != "https://x/a" || urls[1] != "https://x/b" {
		t.Errorf("urls = %v, want [https://x/a https://x/b]", urls)
	}
}

func TestStream_failedTranslatesReason(t *testing.T) {
	inner := &fakeItemStream{failed: []filesource.FailedRequest{
		{URL: "https://x/c", Err: errors.New("boom")},
	}}
	s := &Stream[*records.Event]{inner: inner, fromRaw: records.EventFromRaw, dataset: masterlist.Events}

	_, ok, _ := s.Next(context.Background())
	if ok {
		t.Fatal("empty stream should report ok=false immediately")
	}
	failed := s.Failed()
	if len(failed) != 1 || failed[0].URL != "https://x/c" || failed[0].Reason != ReasonUnknown {
		t.Errorf("Failed() = %+v", failed)
	}
}

func TestQuery_drainsStreamIntoFetchResult(t *testing.T) {
	inner := &fakeItemStream{items: []filesource.Item{
		{Raw: ptr(eventRaw("https://x/a"))},
	}}
	s := &Stream[*records.Event]{inner: inner, fromRaw: records.EventFromRaw, dataset: masterlist.Events}

	result, err := query(context.Background(), s)
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Data) != 1 || result.Data[0].SourceURL != "https://x/a" {
		t.Errorf("result.Data = %+v", result.Data)
	}
	if !result.Complete() {
		t.Error("Complete() should be true with no failed requests")
	}
}

func ptr[T any](v T) *T { return &v }

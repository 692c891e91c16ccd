// Package masterlist resolves a (dataset, date range) into the chronological
// sequence of GDELT archive URLs that cover it, per spec §4.1: fetch the
// GDELT master file list, bucket its entries by 15-minute timestamp, and
// serve resolve() from that in-memory index until master_file_list_ttl
// expires.
package masterlist

import (
	"context"
	"fmt"
	"io"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/safeurl"
)

// Fetcher retrieves the raw bytes of an inventory URL.
type Fetcher func(ctx context.Context, url string) (io.ReadCloser, error)

const (
	MainInventoryURL       = "https://data.gdeltproject.org/gdeltv2/masterfilelist.txt"
	TranslatedInventoryURL = "https://data.gdeltproject.org/gdeltv2/masterfilelist-translation.txt"

	// BadLineTolerance is the maximum fraction of unparseable inventory
	// lines tolerated before resolve() fails outright (spec §4.1: "more
	// than a configurable fraction of bad lines fails the resolve").
	BadLineTolerance = 0.05
)

type datasetIndex struct {
	buckets []time.Time // ascending, one per distinct bucket
	byTime  map[time.Time][]Entry
}

// MasterList is the TTL-cached, indexed master file list.
type MasterList struct {
	fetch      Fetcher
	whitelist  safeurl.Whitelist
	ttl        time.Duration
	translated bool

	mu        sync.RWMutex
	index     map[Dataset]*datasetIndex
	fetchedAt time.Time
	stale     bool // true once we've had to serve a previous index past its TTL
}

// Option configures New.
type Option func(*MasterList)

func WithTranslated(enabled bool) Option {
	return func(m *MasterList) { m.translated = enabled }
}

func WithWhitelist(wl safeurl.Whitelist) Option {
	return func(m *MasterList) { m.whitelist = wl }
}

func New(fetch Fetcher, ttl time.Duration, opts ...Option) *MasterList {
	m := &MasterList{
		fetch:     fetch,
		ttl:       ttl,
		whitelist: safeurl.DefaultGDELTWhitelist,
		index:     make(map[Dataset]*datasetIndex),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ensureFresh refreshes the index if its TTL has expired. A fetch failure
// with a still-in-memory (even if stale) index is not an error — it is
// logged and the stale index continues to serve (spec §4.1's failure
// semantics). A fetch failure with no index at all is api_unavailable.
func (m *MasterList) ensureFresh(ctx context.Context) error {
	m.mu.RLock()
	fresh := len(m.index) > 0 && time.Since(m.fetchedAt) < m.ttl
	m.mu.RUnlock()
	if fresh {
		return nil
	}

	newIndex, err := m.fetchAndBuild(ctx)
	if err != nil {
		m.mu.RLock()
		hasOld := len(m.index) > 0
		m.mu.RUnlock()
		if hasOld {
			log.Printf("masterlist: refresh failed, serving stale index: %v", err)
			m.mu.Lock()
			m.stale = true
			m.mu.Unlock()
			return nil
		}
		return gdelterrors.Wrap(gdelterrors.KindAPIUnavail, "fetch master file list", err)
	}

	m.mu.Lock()
	m.index = newIndex
	m.fetchedAt = time.Now()
	m.stale = false
	m.mu.Unlock()
	return nil
}

func (m *MasterList) fetchAndBuild(ctx context.Context) (map[Dataset]*datasetIndex, error) {
	var allEntries []Entry
	var totalBad, totalLines int

	body, err := m.fetch(ctx, MainInventoryURL)
	if err != nil {
		return nil, err
	}
	entries, bad, perr := parseInventory(body, false)
	body.Close()
	if perr != nil {
		return nil, perr
	}
	allEntries = append(allEntries, entries...)
	totalBad += bad
	totalLines += len(entries) + bad

	if m.translated {
		tbody, err := m.fetch(ctx, TranslatedInventoryURL)
		if err != nil {
			log.Printf("masterlist: translated inventory fetch failed, continuing without it: %v", err)
		} else {
			tentries, tbad, perr := parseInventory(tbody, true)
			tbody.Close()
			if perr == nil {
				allEntries = append(allEntries, tentries...)
				totalBad += tbad
				totalLines += len(tentries) + tbad
			}
		}
	}

	if totalLines > 0 && float64(totalBad)/float64(totalLines) > BadLineTolerance {
		return nil, gdelterrors.New(gdelterrors.KindAPIUnavail,
			fmt.Sprintf("masterlist: %d/%d inventory lines unparseable, exceeds tolerance", totalBad, totalLines))
	}

	return buildIndex(allEntries), nil
}

func buildIndex(entries []Entry) map[Dataset]*datasetIndex {
	byDataset := make(map[Dataset]map[time.Time][]Entry)
	for _, e := range entries {
		if byDataset[e.Dataset] == nil {
			byDataset[e.Dataset] = make(map[time.Time][]Entry)
		}
		byDataset[e.Dataset][e.Bucket] = append(byDataset[e.Dataset][e.Bucket], e)
	}
	out := make(map[Dataset]*datasetIndex, len(byDataset))
	for ds, byTime := range byDataset {
		buckets := make([]time.Time, 0, len(byTime))
		for t := range byTime {
			buckets = append(buckets, t)
		}
		sort.Slice(buckets, func(i, j int) bool { return buckets[i].Before(buckets[j]) })
		out[ds] = &datasetIndex{buckets: buckets, byTime: byTime}
	}
	return out
}

// Resolve returns the chronologically ascending URLs for dataset whose
// bucket falls within [start_of_day(start), end_of_day(end)] UTC (spec
// §4.1's output contract). Every URL is checked against the whitelist;
// mismatches are dropped with a warning rather than returned.
func (m *MasterList) Resolve(ctx context.Context, dataset Dataset, start, end time.Time) ([]string, error) {
	if !dataset.Valid() {
		return nil, gdelterrors.New(gdelterrors.KindValidation, "unknown dataset "+string(dataset))
	}
	if err := m.ensureFresh(ctx); err != nil {
		return nil, err
	}

	lo := startOfDay(start)
	hi := endOfDay(end)

	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, ok := m.index[dataset]
	if !ok {
		return nil, nil
	}
	i := sort.Search(len(idx.buckets), func(i int) bool { return !idx.buckets[i].Before(lo) })
	j := sort.Search(len(idx.buckets), func(i int) bool { return idx.buckets[i].After(hi) })

	var urls []string
	for _, bucket := range idx.buckets[i:j] {
		for _, e := range idx.byTime[bucket] {
			if !m.whitelist.Allows(e.URL) {
				log.Printf("masterlist: dropping non-whitelisted URL %s", e.URL)
				continue
			}
			urls = append(urls, e.URL)
		}
	}
	return urls, nil
}

func startOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

func endOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 23, 45, 0, 0, time.UTC)
}

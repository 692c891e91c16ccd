package filesource

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/gdeltgo/gdelt/internal/decode"
	"github.com/gdeltgo/gdelt/internal/filecache"
	"github.com/gdeltgo/gdelt/internal/gdelterrors"
	"github.com/gdeltgo/gdelt/internal/gfilter"
	"github.com/gdeltgo/gdelt/internal/masterlist"
	"github.com/gdeltgo/gdelt/internal/parse"
)

// columnsFor maps a dataset to its expected TSV column count (spec §6);
// NGrams has no entry since it is parsed as JSON-lines instead.
var columnsFor = map[masterlist.Dataset]int{
	masterlist.Events:   parse.EventsColumns,
	masterlist.Mentions: parse.MentionsColumns,
	masterlist.GKG:      parse.GKGColumns,
}

// Source implements spec §4.5's file source: resolve → download → decode →
// parse → stream, bounded by max_concurrent_downloads, grounded on
// internal/indexer/fetch/fetcher.go's fetchLiveXtream category-parallel
// semaphore+WaitGroup+ordered-results pattern, adapted so downloads run
// concurrently but decoding and emission happen strictly in URL order to
// satisfy "each bucket is emitted contiguously".
type Source struct {
	resolver      *gfilter.Resolver
	cache         *filecache.Cache
	fetch         filecache.Fetcher
	cacheTTL      time.Duration
	maxDownloads  int
	sizeCap       int64
	chanBufferLen int
}

// New builds a Source. cacheTTL and sizeCapBytes mirror
// config.Settings.CacheTTL/DecompressedSizeCap; maxConcurrentDownloads
// mirrors config.Settings.MaxConcurrentDownloads.
func New(resolver *gfilter.Resolver, cache *filecache.Cache, fetch filecache.Fetcher, cacheTTL time.Duration, maxConcurrentDownloads int, sizeCapBytes int64) *Source {
	if maxConcurrentDownloads <= 0 {
		maxConcurrentDownloads = 1
	}
	return &Source{
		resolver:      resolver,
		cache:         cache,
		fetch:         fetch,
		cacheTTL:      cacheTTL,
		maxDownloads:  maxConcurrentDownloads,
		sizeCap:       sizeCapBytes,
		chanBufferLen: 64,
	}
}

// Probe resolves filter and downloads only its first URL, without parsing
// or emitting anything. The orchestrator (J) uses this to detect a
// stream-start failure worth falling back from independently of whatever
// error_policy will govern mid-stream failures during the real Fetch (spec
// §4.7: the fallback check happens "at stream start, before any record
// yielded", not once per error_policy outcome).
func (s *Source) Probe(ctx context.Context, filter gfilter.Filter) error {
	urls, err := s.resolver.Resolve(ctx, filter)
	if err != nil {
		return err
	}
	if len(urls) == 0 {
		return nil
	}
	_, err = s.cache.GetOrFetch(ctx, urls[0], s.cacheTTL, s.fetch)
	return err
}

// Fetch resolves filter to URLs and returns a Stream of Items (spec §4.5's
// contract: "fetch(dataset, filter) → async lazy finite sequence of raw
// records"). errorPolicy governs per-bucket download/decode failures;
// parsePolicy governs malformed rows within a successfully downloaded file.
func (s *Source) Fetch(ctx context.Context, dataset masterlist.Dataset, filter gfilter.Filter, errorPolicy, parsePolicy parse.Policy) (*Stream, error) {
	urls, err := s.resolver.Resolve(ctx, filter)
	if err != nil {
		return nil, err
	}

	runCtx, cancel := context.WithCancel(ctx)
	items := make(chan Item, s.chanBufferLen)
	failed := make(chan FailedRequest, len(urls))
	var finalErr error

	stream := &Stream{items: items, failed: failed, cancel: cancel, finalErr: &finalErr}

	go s.run(runCtx, urls, dataset, errorPolicy, parsePolicy, items, failed, &finalErr)

	return stream, nil
}

type downloadResult struct {
	path string
	err  error
}

// run downloads urls concurrently (bounded by maxDownloads) while decoding
// and emitting strictly in order, then closes items/failed.
func (s *Source) run(ctx context.Context, urls []string, dataset masterlist.Dataset, errorPolicy, parsePolicy parse.Policy, items chan<- Item, failed chan<- FailedRequest, finalErr *error) {
	defer close(items)
	defer close(failed)

	slots := make([]chan downloadResult, len(urls))
	for i := range slots {
		slots[i] = make(chan downloadResult, 1)
	}

	sem := make(chan struct{}, s.maxDownloads)
	var wg sync.WaitGroup
	for i, u := range urls {
		wg.Add(1)
		go func(i int, u string) {
			defer wg.Done()
			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				slots[i] <- downloadResult{err: ctx.Err()}
				return
			}
			defer func() { <-sem }()
			path, err := s.cache.GetOrFetch(ctx, u, s.cacheTTL, s.fetch)
			slots[i] <- downloadResult{path: path, err: err}
		}(i, u)
	}
	go func() { wg.Wait() }()

	for i, u := range urls {
		select {
		case <-ctx.Done():
			*finalErr = ctx.Err()
			return
		case res := <-slots[i]:
			if res.err != nil {
				if stop := s.handleFailure(u, res.err, errorPolicy, failed, finalErr); stop {
					return
				}
				continue
			}
			if err := s.emitFile(ctx, res.path, u, dataset, parsePolicy, items); err != nil {
				if stop := s.handleFailure(u, err, errorPolicy, failed, finalErr); stop {
					return
				}
			}
		}
	}
}

// handleFailure applies error_policy to a per-bucket failure (spec §4.5).
// Returns true when the stream must stop (raise).
func (s *Source) handleFailure(url string, err error, policy parse.Policy, failed chan<- FailedRequest, finalErr *error) bool {
	switch policy {
	case parse.Raise:
		*finalErr = err
		return true
	case parse.Skip:
		return false
	default: // Warn
		select {
		case failed <- FailedRequest{URL: url, Err: err}:
		default:
		}
		return false
	}
}

func (s *Source) emitFile(ctx context.Context, path, url string, dataset masterlist.Dataset, parsePolicy parse.Policy, items chan<- Item) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return gdelterrors.Wrap(gdelterrors.KindDecode, "read cached file "+path, err)
	}
	rc, err := decode.Decode(data, decode.Auto, s.sizeCap)
	if err != nil {
		return err
	}
	defer rc.Close()

	if dataset == masterlist.NGrams {
		sc := parse.NewJSONLScanner(rc, parsePolicy)
		for {
			obj, ok, err := sc.Next()
			if err != nil {
				return err
			}
			if !ok {
				return nil
			}
			select {
			case items <- Item{URL: url, JSON: obj}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}

	cols := columnsFor[dataset]
	sc := parse.NewTSVScanner(rc, cols, parsePolicy)
	for {
		rec, ok, err := sc.Next()
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		select {
		case items <- Item{URL: url, Raw: &rec}:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

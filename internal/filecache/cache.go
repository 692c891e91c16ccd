package filecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gdeltgo/gdelt/internal/gdelterrors"
)

// Fetcher downloads rawURL and returns a stream of its bytes. Implemented by
// the transport layer; kept abstract here so Cache has no dependency on
// net/http.
type Fetcher func(ctx context.Context, rawURL string) (io.ReadCloser, error)

// Cache implements spec §6's on-disk archive cache: get_or_fetch with a
// per-URL mutex, atomic writes, TTL-based freshness, and checksum-verified
// corruption detection.
type Cache struct {
	dir   string
	idx   *index
	locks sync.Map // url -> *sync.Mutex
}

// Open creates (if needed) cacheDir/files and its SQLite side-index.
func Open(cacheDir string) (*Cache, error) {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindConfiguration, "create cache_dir", err)
	}
	idx, err := openIndex(cacheDir)
	if err != nil {
		return nil, gdelterrors.Wrap(gdelterrors.KindConfiguration, "open cache index", err)
	}
	return &Cache{dir: cacheDir, idx: idx}, nil
}

func (c *Cache) Close() error {
	return c.idx.close()
}

func (c *Cache) lockFor(rawURL string) *sync.Mutex {
	v, _ := c.locks.LoadOrStore(rawURL, &sync.Mutex{})
	return v.(*sync.Mutex)
}

// GetOrFetch returns the local path to a fresh copy of rawURL's content.
// Lookup order matches spec §4.2 exactly: (1) a valid cached file (size>0,
// now-mtime<ttl) is returned without touching the network; (2) otherwise the
// per-URL mutex is acquired, the check is repeated (another goroutine may
// have just finished the download), and only then is fetch invoked.
func (c *Cache) GetOrFetch(ctx context.Context, rawURL string, ttl time.Duration, fetch Fetcher) (string, error) {
	ext := ExtFor(rawURL)
	path := Path(c.dir, rawURL, ext)
	metaPath := MetaPath(c.dir, rawURL)

	if fresh, ok := c.checkFresh(path, metaPath, ttl); ok {
		return fresh, nil
	}

	mu := c.lockFor(rawURL)
	mu.Lock()
	defer mu.Unlock()

	if fresh, ok := c.checkFresh(path, metaPath, ttl); ok {
		return fresh, nil
	}

	body, err := fetch(ctx, rawURL)
	if err != nil {
		return "", err // already classified by the transport layer
	}
	defer body.Close()

	partial := PartialPath(c.dir, rawURL, ext)
	if err := os.MkdirAll(filepath.Dir(partial), 0o755); err != nil {
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "create cache subdir", err)
	}

	f, err := os.Create(partial)
	if err != nil {
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "create partial cache file", err)
	}
	hasher := sha256.New()
	size, copyErr := io.Copy(io.MultiWriter(f, hasher), body)
	closeErr := f.Close()
	if copyErr != nil {
		os.Remove(partial)
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "download to cache", copyErr)
	}
	if closeErr != nil {
		os.Remove(partial)
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "close partial cache file", closeErr)
	}
	if err := os.Rename(partial, path); err != nil {
		os.Remove(partial)
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "rename cache file into place", err)
	}

	now := time.Now()
	checksum := hex.EncodeToString(hasher.Sum(nil))
	if err := writeMeta(metaPath, Meta{URL: rawURL, Mtime: now, Size: size, Checksum: checksum}); err != nil {
		return "", err
	}
	if err := c.idx.upsert(hashURL(rawURL), rawURL, path, now, size); err != nil {
		return "", gdelterrors.Wrap(gdelterrors.KindAPI, "update cache index", err)
	}
	return path, nil
}

// checkFresh reports whether the file at path is present, non-empty, within
// ttl, and its sidecar checksum still matches its current bytes.
func (c *Cache) checkFresh(path, metaPath string, ttl time.Duration) (string, bool) {
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		return "", false
	}
	if time.Since(info.ModTime()) >= ttl {
		return "", false
	}
	meta, ok := readMeta(metaPath)
	if !ok {
		return "", false
	}
	if meta.Size != info.Size() {
		// Truncated or externally modified; treat as corrupt.
		c.Invalidate(meta.URL)
		return "", false
	}
	if !c.checksumMatches(path, meta.Checksum) {
		c.Invalidate(meta.URL)
		return "", false
	}
	return path, true
}

func (c *Cache) checksumMatches(path, want string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()
	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return false
	}
	return hex.EncodeToString(h.Sum(nil)) == want
}

// Invalidate removes the cached file, its sidecar, and its index row for
// rawURL. Safe to call when no entry exists.
func (c *Cache) Invalidate(rawURL string) {
	ext := ExtFor(rawURL)
	os.Remove(Path(c.dir, rawURL, ext))
	os.Remove(MetaPath(c.dir, rawURL))
	_ = c.idx.remove(hashURL(rawURL))
}

// EvictExpired removes every cached file whose sidecar mtime is older than
// ttl, driven by the SQLite index rather than a directory walk.
func (c *Cache) EvictExpired(ttl time.Duration) error {
	paths, err := c.idx.expiredPaths(ttl, time.Now())
	if err != nil {
		return gdelterrors.Wrap(gdelterrors.KindAPI, "scan cache index for eviction", err)
	}
	for _, p := range paths {
		os.Remove(p)
		os.Remove(p[:len(p)-len(filepath.Ext(p))] + ".meta")
	}
	if len(paths) > 0 {
		if _, err := c.idx.db.Exec(`DELETE FROM entries WHERE mtime_unix < ?`, time.Now().Add(-ttl).Unix()); err != nil {
			return gdelterrors.Wrap(gdelterrors.KindAPI, "prune cache index", err)
		}
	}
	return nil
}

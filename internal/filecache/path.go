// Package filecache implements the on-disk archive cache of spec §6:
// content-addressed files under <cache_dir>/files, a JSON sidecar per entry,
// a per-URL mutex so concurrent fetchers never race on the same download,
// and a SQLite side-index for cheap TTL eviction scans.
package filecache

import (
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"path/filepath"
	"strings"
)

// Path returns the cache file path for url, using ext (e.g. "zip", "gz") as
// the file extension. Stable: the same url always maps to the same path.
func Path(cacheDir, rawURL, ext string) string {
	return filepath.Join(cacheDir, "files", hashURL(rawURL)+"."+ext)
}

// MetaPath returns the sidecar metadata path for url.
func MetaPath(cacheDir, rawURL string) string {
	return filepath.Join(cacheDir, "files", hashURL(rawURL)+".meta")
}

// PartialPath returns the path used while downloading; the caller renames to
// Path on success so a reader never observes a half-written file.
func PartialPath(cacheDir, rawURL, ext string) string {
	return filepath.Join(cacheDir, "files", hashURL(rawURL)+"."+ext+".partial")
}

func hashURL(rawURL string) string {
	h := sha256.Sum256([]byte(rawURL))
	return hex.EncodeToString(h[:16])
}

// ExtFor picks a cache file extension from a URL's own suffix, defaulting to
// "bin" when none is recognised (GDELT URLs end in .zip or, for NGrams,
// .json.gz, but BigQuery-adjacent fixtures in tests may use other extensions).
func ExtFor(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "bin"
	}
	base := u.Path
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	switch {
	case strings.HasSuffix(base, ".zip"):
		return "zip"
	case strings.HasSuffix(base, ".gz"):
		return "gz"
	default:
		return "bin"
	}
}

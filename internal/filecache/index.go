package filecache

import (
	"database/sql"
	"fmt"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// index is a small SQLite-backed side table mirroring the on-disk .meta
// sidecars, so eviction scans don't have to stat every file under
// cache_dir/files on every call. The sidecars remain the source of truth;
// the index can always be rebuilt from them.
type index struct {
	db *sql.DB
}

func openIndex(cacheDir string) (*index, error) {
	db, err := sql.Open("sqlite", filepath.Join(cacheDir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("filecache: open index: %w", err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS entries (
	url_hash   TEXT PRIMARY KEY,
	url        TEXT NOT NULL,
	path       TEXT NOT NULL,
	mtime_unix INTEGER NOT NULL,
	size       INTEGER NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("filecache: create index schema: %w", err)
	}
	return &index{db: db}, nil
}

func (x *index) upsert(urlHash, rawURL, path string, mtime time.Time, size int64) error {
	_, err := x.db.Exec(`
INSERT INTO entries (url_hash, url, path, mtime_unix, size)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(url_hash) DO UPDATE SET
	url = excluded.url, path = excluded.path,
	mtime_unix = excluded.mtime_unix, size = excluded.size`,
		urlHash, rawURL, path, mtime.Unix(), size)
	return err
}

func (x *index) remove(urlHash string) error {
	_, err := x.db.Exec(`DELETE FROM entries WHERE url_hash = ?`, urlHash)
	return err
}

// expiredPaths returns the cache file paths for entries whose mtime is older
// than now.Add(-ttl).
func (x *index) expiredPaths(ttl time.Duration, now time.Time) ([]string, error) {
	cutoff := now.Add(-ttl).Unix()
	rows, err := x.db.Query(`SELECT path FROM entries WHERE mtime_unix < ?`, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var paths []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		paths = append(paths, p)
	}
	return paths, rows.Err()
}

func (x *index) close() error {
	return x.db.Close()
}

package filecache

import (
	"encoding/json"
	"os"
	"time"
)

// Meta is the JSON sidecar written next to every cached file (spec §6:
// "<cache_dir>/files/<urlhash>.meta — {url, mtime, size, checksum}").
type Meta struct {
	URL      string    `json:"url"`
	Mtime    time.Time `json:"mtime"`
	Size     int64     `json:"size"`
	Checksum string    `json:"checksum"` // sha256 hex of the cached file's bytes
}

func readMeta(path string) (Meta, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Meta{}, false
	}
	var m Meta
	if err := json.Unmarshal(data, &m); err != nil {
		return Meta{}, false
	}
	return m, true
}

func writeMeta(path string, m Meta) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return atomicWrite(path, data)
}

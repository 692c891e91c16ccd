package filecache

import (
	"fmt"
	"os"
	"path/filepath"
)

// atomicWrite writes data to path via a temp file in the same directory
// followed by rename, so a reader never observes a partially written file
// (same pattern as the indexer's fetch-state checkpoint).
func atomicWrite(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("filecache: mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".filecache-*.tmp")
	if err != nil {
		return fmt.Errorf("filecache: create temp: %w", err)
	}
	name := tmp.Name()
	_, werr := tmp.Write(data)
	cerr := tmp.Close()
	if werr != nil || cerr != nil {
		os.Remove(name)
		if werr != nil {
			return fmt.Errorf("filecache: write temp: %w", werr)
		}
		return fmt.Errorf("filecache: close temp: %w", cerr)
	}
	if err := os.Rename(name, path); err != nil {
		os.Remove(name)
		return fmt.Errorf("filecache: rename into place: %w", err)
	}
	return nil
}

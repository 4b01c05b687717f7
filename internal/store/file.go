package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// readCollection loads a JSON array document. A missing or unparsable file is
// not an error for readers: it logs a warning and yields the empty collection,
// so a fresh data directory behaves the same as one with empty documents.
func readCollection[T any](path string) []T {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		slog.Warn("ensure collection dir", "path", path, "error", err)
		return []T{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("read collection, using empty default", "path", path, "error", err)
		}
		return []T{}
	}
	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		slog.Warn("parse collection, using empty default", "path", path, "error", err)
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// writeCollection replaces a collection document. The write goes to a temp
// file in the same directory and is renamed into place, so an interrupted
// write never leaves a truncated document behind. A failed write is a storage
// fault the caller must surface.
func writeCollection[T any](path string, items []T) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("ensure collection dir %s: %w", dir, err)
	}
	data, err := json.MarshalIndent(items, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp*")
	if err != nil {
		return fmt.Errorf("stage collection %s: %w", path, err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write collection %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace collection %s: %w", path, err)
	}
	return nil
}

// Package snapshot persists the datastore's key-value map to a single
// file and loads it back. It knows nothing about package datastore's
// tagged Value interface (gob cannot encode an interface with an
// unexported marker method without registration friction) — it works
// over a plain, gob-friendly Entry shape instead; package datastore
// converts to and from Entry only at the snapshot boundary.
package snapshot

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
)

// Entry is the wire-level mirror of one datastore.Value: exactly one
// of Str or Members is meaningful, selected by IsSet.
type Entry struct {
	IsSet   bool
	Str     string
	Members []string
}

// Save gob-encodes entries and writes them to path in one Write call.
// path is written to directly rather than via a temp-file-plus-rename
// dance: tests (per spec) use /dev/null as the snapshot path, and
// renaming a regular file onto a character device would destroy it.
func Save(path string, entries map[string]Entry) error {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(entries); err != nil {
		return fmt.Errorf("snapshot: encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("snapshot: write %s: %w", path, err)
	}
	return nil
}

// Load reads and gob-decodes the entries at path. A missing file is
// reported via the wrapped os.ErrNotExist sentinel so callers can
// treat "no snapshot yet" as non-fatal, per spec: load failure
// (missing or corrupt file) is non-fatal and starts an empty store.
func Load(path string) (map[string]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("snapshot: read %s: %w", path, err)
	}

	var entries map[string]Entry
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&entries); err != nil {
		return nil, fmt.Errorf("snapshot: decode %s: %w", path, err)
	}
	return entries, nil
}

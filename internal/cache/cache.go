// Package cache persists a caller-defined build artifact under
// --cache-dir, keyed by the grammar's fingerprint, so re-running the
// generator on an unchanged grammar skips state-machine construction
// (SPEC_FULL.md's DOMAIN STACK entry for dekarrin/rezi). Grounded on the
// teacher's sqlite DAO's convertToDB_GameStatePtr/convertFromDB_GameStatePtr
// (server/dao/sqlite/sqlite.go): encode with rezi.EncBinary, persist the
// bytes, decode with rezi.DecBinary and check the consumed-byte count
// against the stored length, exactly as that pair of functions does for
// a *game.State snapshot.
package cache

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dekarrin/rezi"
)

// Entry is the cached artifact for one grammar fingerprint. Blob is
// opaque to this package — the caller encodes whatever it needs to skip
// reconstruction on a cache hit (cmd/lalrgen stores the rendered parser
// source and states report); cache only handles the fingerprint-keyed
// storage and the rezi-backed binary envelope around that blob.
type Entry struct {
	Fingerprint   string
	StateCount    int
	ConflictCount int
	Blob          []byte
}

// MarshalBinary satisfies encoding.BinaryMarshaler, the interface
// rezi.EncBinary consumes (server/dao/sqlite/sqlite.go's
// convertToDB_GameStatePtr does the same for *game.State).
func (e Entry) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(e); err != nil {
		return nil, fmt.Errorf("cache: encode entry: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary satisfies encoding.BinaryUnmarshaler.
func (e *Entry) UnmarshalBinary(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(e)
}

// Dir is a cache directory rooted at a --cache-dir path.
type Dir struct {
	Path string
}

func New(path string) Dir {
	return Dir{Path: path}
}

func (d Dir) pathFor(fingerprint string) string {
	return filepath.Join(d.Path, fingerprint+".cache")
}

// Load returns the cached entry for fingerprint, and whether one existed.
func (d Dir) Load(fingerprint string) (*Entry, bool, error) {
	if d.Path == "" {
		return nil, false, nil
	}
	data, err := os.ReadFile(d.pathFor(fingerprint))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var e Entry
	n, err := rezi.DecBinary(data, &e)
	if err != nil {
		return nil, false, fmt.Errorf("cache: decode %q: %w", fingerprint, err)
	}
	if n != len(data) {
		return nil, false, fmt.Errorf("cache: decoded byte count mismatch for %q: consumed %d/%d", fingerprint, n, len(data))
	}
	return &e, true, nil
}

// Store writes e under its own fingerprint.
func (d Dir) Store(e Entry) error {
	if d.Path == "" {
		return nil
	}
	if err := os.MkdirAll(d.Path, 0o755); err != nil {
		return fmt.Errorf("cache: create cache dir: %w", err)
	}
	data := rezi.EncBinary(e)
	return os.WriteFile(d.pathFor(e.Fingerprint), data, 0o644)
}

// Package counter persists the single monotonically advancing counter each
// endpoint owns. The store contract is synchronous-durable: Store does not
// return success until the value would survive an immediate power loss.
package counter

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Store is the durability contract both endpoints depend on. Load returns 0
// when no value has ever been stored (or the cell was erased). Neither method
// is safe for concurrent use; each endpoint drives its store from a single
// sequential loop.
type Store interface {
	Load() (uint64, error)
	Store(uint64) error
}

// FileStore keeps the counter in a small text file, written via a temp file,
// fsync and rename so a torn write can never be read back as a bogus value.
type FileStore struct {
	path string
}

// Open creates a FileStore at path, creating parent directories as needed.
func Open(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create state dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Load reads the persisted counter. A missing or empty file reads as 0.
func (s *FileStore) Load() (uint64, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read counter file: %w", err)
	}

	text := strings.TrimSpace(string(data))
	if text == "" {
		// Erased cell, same as never written.
		return 0, nil
	}

	value, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt counter file %s: %w", s.path, err)
	}
	return value, nil
}

// Store durably persists value. The temp file lives in the same directory as
// the target so the rename stays on one filesystem and is atomic.
func (s *FileStore) Store(value uint64) error {
	dir := filepath.Dir(s.path)

	tmp, err := os.CreateTemp(dir, ".counter-*")
	if err != nil {
		return fmt.Errorf("failed to create temp counter file: %w", err)
	}
	tmpName := tmp.Name()

	_, err = fmt.Fprintf(tmp, "%d\n", value)
	if err == nil {
		err = tmp.Sync()
	}
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write counter file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace counter file: %w", err)
	}

	// The rename itself must also hit disk before we report durability.
	if d, err := os.Open(dir); err == nil {
		d.Sync()
		d.Close()
	}
	return nil
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

package save

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// FileStore persists all keys as one JSON object of string values
// Every Set rewrites the file through a temp file and rename
type FileStore struct {
	mu     sync.Mutex
	path   string
	values map[string]string

	// Where an unreadable file was moved on open, empty otherwise
	quarantined string
}

// CorruptSuffix is appended to a save file that could not be decoded
const CorruptSuffix = ".corrupt"

// OpenFile loads path if it exists; a missing file starts empty.
// A file that does not decode is moved aside to path+CorruptSuffix and the
// store starts empty, so the next Set writes a fresh file.
func OpenFile(path string) (*FileStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("save path is required")
	}

	fs := &FileStore{
		path:   filepath.Clean(path),
		values: make(map[string]string),
	}

	data, err := os.ReadFile(fs.path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("read save file: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return fs, nil
	}
	if err := json.Unmarshal(data, &fs.values); err != nil {
		fs.values = make(map[string]string)
		backup := fs.path + CorruptSuffix
		if rerr := os.Rename(fs.path, backup); rerr != nil {
			return nil, fmt.Errorf("quarantine save file %s: %w", fs.path, rerr)
		}
		fs.quarantined = backup
	}
	return fs, nil
}

// Quarantined returns where a corrupt save file was moved, or "" when the file loaded cleanly
func (f *FileStore) Quarantined() string { return f.quarantined }

func (f *FileStore) Get(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	if !ok {
		return nil, ErrNotFound
	}
	return []byte(v), nil
}

func (f *FileStore) Set(ctx context.Context, key string, value []byte) error {
	if key == "" {
		return ErrEmptyKey
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	prev, had := f.values[key]
	f.values[key] = string(value)
	if err := f.flush(); err != nil {
		if had {
			f.values[key] = prev
		} else {
			delete(f.values, key)
		}
		return err
	}
	return nil
}

func (f *FileStore) flush() error {
	data, err := json.MarshalIndent(f.values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode save file: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create save dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp save file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write save file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close save file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace save file: %w", err)
	}
	return nil
}

// Path returns the file backing the store
func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

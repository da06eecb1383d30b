package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Top-level keys used by the speed dial.
const (
	KeyGroups   = "speedDialData"
	KeySettings = "settings"
)

// Storage is a durable key-value store holding raw JSON documents.
type Storage interface {
	// Get returns the values for the requested keys. Missing keys are absent from the map.
	Get(ctx context.Context, keys ...string) (map[string][]byte, error)
	// Set writes all values atomically.
	Set(ctx context.Context, values map[string][]byte) error
	Close() error
}

// JSONStorage implements Storage using a single JSON file.
type JSONStorage struct {
	mu   sync.Mutex
	path string
}

// NewJSONStorage creates a new JSONStorage with the given file path.
func NewJSONStorage(path string) *JSONStorage {
	return &JSONStorage{path: path}
}

// Path returns the storage file path.
func (s *JSONStorage) Path() string {
	return s.path
}

// Get reads the requested keys from the JSON file.
// A missing file behaves like an empty store.
func (s *JSONStorage) Get(_ context.Context, keys ...string) (map[string][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return nil, err
	}

	values := make(map[string][]byte, len(keys))
	for _, key := range keys {
		if raw, ok := all[key]; ok {
			values[key] = []byte(raw)
		}
	}
	return values, nil
}

// rename is swapped in tests.
var rename = os.Rename

// Set merges values into the file and writes it atomically.
func (s *JSONStorage) Set(_ context.Context, values map[string][]byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.read()
	if err != nil {
		return err
	}
	for key, value := range values {
		if !json.Valid(value) {
			return fmt.Errorf("value for %q is not valid JSON", key)
		}
		all[key] = json.RawMessage(value)
	}

	// Ensure directory exists
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(all, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}

// Close is a no-op for file storage.
func (s *JSONStorage) Close() error {
	return nil
}

func (s *JSONStorage) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}

	all := map[string]json.RawMessage{}
	if len(data) == 0 {
		return all, nil
	}
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, err
	}
	return all, nil
}

// Backend names accepted by Open.
const (
	BackendSQLite = "sqlite"
	BackendJSON   = "json"
)

// Open opens the storage backend named by backend at path.
func Open(backend, path string) (Storage, error) {
	switch backend {
	case BackendSQLite:
		return NewSQLiteStorage(path)
	case BackendJSON:
		return NewJSONStorage(path), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", backend)
	}
}

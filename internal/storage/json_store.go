package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

var _ Provider = (*JSONStore)(nil)

type jsonDocument struct {
	Version int               `json:"version"`
	Values  map[string]string `json:"values"`
}

// JSONStore keeps every key in a single JSON file. An empty path keeps the
// values in memory only, which is what tests use.
type JSONStore struct {
	path string

	mu    sync.Mutex
	store *jsonDocument
}

func NewJSONStore(configPath string) *JSONStore {
	return &JSONStore{
		path: configPath,
	}
}

// NewMemoryStore returns a loaded, memory-only store.
func NewMemoryStore() *JSONStore {
	s := &JSONStore{}
	s.store = &jsonDocument{Version: 1, Values: make(map[string]string)}
	return s
}

func (s *JSONStore) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.store == nil {
			s.store = &jsonDocument{Version: 1, Values: make(map[string]string)}
		}
		return nil
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Re-running init keeps existing values
	if _, err := os.Stat(s.path); err == nil {
		return s.loadLocked()
	}

	s.store = &jsonDocument{Version: 1, Values: make(map[string]string)}
	return s.save()
}

func (s *JSONStore) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		if s.store == nil {
			return ErrNotInitialized
		}
		return nil
	}
	return s.loadLocked()
}

func (s *JSONStore) loadLocked() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w at %s", ErrNotInitialized, s.path)
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Values == nil {
		doc.Values = make(map[string]string)
	}
	s.store = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

// save writes to a temp file and renames it so a crash never leaves a torn file.
func (s *JSONStore) save() error {
	if s.path == "" {
		return nil
	}

	data, err := json.MarshalIndent(s.store, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return "", fmt.Errorf("storage not loaded")
	}
	value, ok := s.store.Values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return value, nil
}

func (s *JSONStore) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	s.store.Values[key] = value
	return s.save()
}

func (s *JSONStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return fmt.Errorf("storage not loaded")
	}
	if _, ok := s.store.Values[key]; !ok {
		return nil
	}
	delete(s.store.Values, key)
	return s.save()
}

func (s *JSONStore) Keys(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.store == nil {
		return nil, fmt.Errorf("storage not loaded")
	}
	keys := make([]string, 0, len(s.store.Values))
	for k := range s.store.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	if s.path == "" {
		return "memory"
	}
	return s.path
}

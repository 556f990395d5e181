package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileKV persists string key/value pairs as a single JSON document under the
// state directory. Reads and writes are atomic within one process; like the
// browser storage it models, there is no cross-process locking, so the last
// writer wins.
type FileKV struct {
	mu   sync.Mutex
	path string
}

// NewFileKV creates a file-backed store at dir/state.json, creating dir when
// needed.
func NewFileKV(dir string) (*FileKV, error) {
	if dir == "" {
		base, err := os.UserConfigDir()
		if err != nil {
			return nil, fmt.Errorf("resolve state dir: %w", err)
		}
		dir = filepath.Join(base, "renthaven")
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}

	return &FileKV{path: filepath.Join(dir, "state.json")}, nil
}

// Get returns the raw value and whether the key exists.
func (f *FileKV) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := f.load()
	value, ok := entries[key]
	return value, ok
}

// Set writes the raw value for key.
func (f *FileKV) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := f.load()
	entries[key] = value
	return f.flush(entries)
}

// Delete removes the key. Deleting an absent key is not an error.
func (f *FileKV) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries := f.load()
	if _, ok := entries[key]; !ok {
		return nil
	}
	delete(entries, key)
	return f.flush(entries)
}

// load reads the state file, tolerating a missing or corrupt file by starting
// from an empty map. A corrupt file is replaced wholesale on the next write.
func (f *FileKV) load() map[string]string {
	entries := make(map[string]string)

	data, err := os.ReadFile(f.path)
	if err != nil {
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		return make(map[string]string)
	}
	return entries
}

func (f *FileKV) flush(entries map[string]string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write state: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}

// MemoryKV is an in-memory Storage used by tests and by callers that do not
// want persisted sessions.
type MemoryKV struct {
	mu      sync.Mutex
	entries map[string]string
}

// NewMemoryKV returns an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string]string)}
}

// Get returns the raw value and whether the key exists.
func (m *MemoryKV) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	value, ok := m.entries[key]
	return value, ok
}

// Set writes the raw value for key.
func (m *MemoryKV) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = value
	return nil
}

// Delete removes the key.
func (m *MemoryKV) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

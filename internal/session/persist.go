package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Persistence is the key/value store backing the session cache. The browser
// frontend keeps these values in cookies; the CLI keeps them in a file under
// the user config dir. Implementations must treat an expired entry as absent.
type Persistence interface {
	Get(key string) string
	Set(key, value string, ttl time.Duration)
	Remove(key string)
}

type fileEntry struct {
	Value     string    `json:"value"`
	ExpiresAt time.Time `json:"expires_at"`
}

// FileStore is a file-backed Persistence implementation. Entries carry an
// expiry timestamp and are dropped on read once expired. Writes rewrite the
// whole file; the payload is two small keys so this is never a bottleneck.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at the given path. The file is created
// lazily on first write.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// DefaultPath returns the standard session cache location,
// $XDG_CONFIG_HOME/mailerctl/session.json (or the OS equivalent).
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mailerctl", "session.json"), nil
}

// Get returns the stored value for key, or "" if missing or expired.
func (fs *FileStore) Get(key string) string {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries := fs.read()
	entry, ok := entries[key]
	if !ok {
		return ""
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return ""
	}
	return entry.Value
}

// Set stores value under key. A zero ttl means the entry never expires.
func (fs *FileStore) Set(key, value string, ttl time.Duration) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries := fs.read()
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	entries[key] = entry
	fs.write(entries)
}

// Remove deletes the entry for key. Removing an absent key is a no-op.
func (fs *FileStore) Remove(key string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	entries := fs.read()
	if _, ok := entries[key]; !ok {
		return
	}
	delete(entries, key)
	fs.write(entries)
}

func (fs *FileStore) read() map[string]fileEntry {
	entries := make(map[string]fileEntry)
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return entries
	}
	// A corrupt cache file is equivalent to an empty one: the user
	// re-authenticates and the next write replaces it.
	_ = json.Unmarshal(data, &entries)
	return entries
}

func (fs *FileStore) write(entries map[string]fileEntry) {
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return
	}
	if err := os.MkdirAll(filepath.Dir(fs.path), 0o700); err != nil {
		return
	}
	// 0600: the file holds a bearer credential
	_ = os.WriteFile(fs.path, data, 0o600)
}

// MemoryStore is an in-memory Persistence implementation for tests.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]fileEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]fileEntry)}
}

// Get returns the stored value for key, or "" if missing or expired.
func (ms *MemoryStore) Get(key string) string {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry, ok := ms.entries[key]
	if !ok {
		return ""
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return ""
	}
	return entry.Value
}

// Set stores value under key.
func (ms *MemoryStore) Set(key, value string, ttl time.Duration) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	entry := fileEntry{Value: value}
	if ttl > 0 {
		entry.ExpiresAt = time.Now().Add(ttl)
	}
	ms.entries[key] = entry
}

// Remove deletes the entry for key.
func (ms *MemoryStore) Remove(key string) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.entries, key)
}

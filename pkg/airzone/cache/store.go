// Package cache persists API responses as one JSON file per key, so that
// repeated CLI invocations do not hammer the Airzone webserver. Freshness is
// judged by file modification time against a configurable max age. A small
// ristretto tier in front of the files saves re-reading them within one
// process; the file tier stays authoritative.
package cache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/go-logr/logr"
)

// DefaultMaxAge is how long a cached response is served before it is
// treated as a miss.
const DefaultMaxAge = 300 * time.Second

// Store is a best-effort cache: Set and Invalidate report success as a
// boolean and never fail the caller. It is safe for a single process only;
// concurrent processes sharing one directory race last-writer-wins.
type Store struct {
	dir    string
	maxAge time.Duration
	mem    *ristretto.Cache
	log    logr.Logger
}

// DefaultDir returns ~/.airzonectl/cache, falling back to a relative
// directory when the home directory cannot be resolved.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".airzonectl-cache"
	}
	return filepath.Join(home, ".airzonectl", "cache")
}

// NewStore creates the cache directory if needed.
func NewStore(log logr.Logger, dir string, maxAge time.Duration) (*Store, error) {
	if dir == "" {
		dir = DefaultDir()
	}
	if maxAge <= 0 {
		maxAge = DefaultMaxAge
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	mem, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1 << 12,
		MaxCost:     1 << 20, // responses are small JSON documents
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}

	s := &Store{
		dir:    dir,
		maxAge: maxAge,
		mem:    mem,
		log:    log.WithName("cache"),
	}
	s.log.V(1).Info("Cache initialized", "dir", dir, "maxAge", maxAge)
	return s, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

// Get returns the cached document for key, or false when the key is missing
// or older than the max age. The two cases are indistinguishable on purpose.
func (s *Store) Get(key string) (json.RawMessage, bool) {
	if v, ok := s.mem.Get(key); ok {
		if doc, ok := v.(json.RawMessage); ok {
			s.log.V(1).Info("Cache hit (memory)", "key", key)
			return doc, true
		}
	}

	path := s.path(key)
	info, err := os.Stat(path)
	if err != nil {
		s.log.V(1).Info("Cache miss", "key", key)
		return nil, false
	}
	age := time.Since(info.ModTime())
	if age > s.maxAge {
		s.log.V(1).Info("Cache expired", "key", key, "age", age, "maxAge", s.maxAge)
		return nil, false
	}

	data, err := os.ReadFile(path)
	if err != nil {
		s.log.Error(err, "Failed to read cache file", "key", key)
		return nil, false
	}
	if !json.Valid(data) {
		s.log.Error(nil, "Corrupt cache file, ignoring", "key", key)
		return nil, false
	}

	doc := json.RawMessage(data)
	s.mem.SetWithTTL(key, doc, int64(len(doc)), s.maxAge-age)
	s.log.V(1).Info("Cache hit", "key", key)
	return doc, true
}

// Set stores doc under key, overwriting any previous entry.
func (s *Store) Set(key string, doc json.RawMessage) bool {
	if err := os.WriteFile(s.path(key), doc, 0o644); err != nil {
		s.log.Error(err, "Failed to write cache file", "key", key)
		return false
	}
	s.mem.SetWithTTL(key, doc, int64(len(doc)), s.maxAge)
	s.mem.Wait()
	s.log.V(1).Info("Cache set", "key", key)
	return true
}

// Invalidate removes the entry for key. An already-absent key counts as
// success.
func (s *Store) Invalidate(key string) bool {
	s.mem.Del(key)
	s.mem.Wait()
	err := os.Remove(s.path(key))
	if err != nil && !os.IsNotExist(err) {
		s.log.Error(err, "Failed to invalidate cache entry", "key", key)
		return false
	}
	s.log.V(1).Info("Cache invalidated", "key", key)
	return true
}

// InvalidateAll removes every cached entry.
func (s *Store) InvalidateAll() bool {
	s.mem.Clear()
	s.mem.Wait()
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		s.log.Error(err, "Failed to list cache directory")
		return false
	}
	ok := true
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, e.Name())); err != nil {
			s.log.Error(err, "Failed to remove cache file", "file", e.Name())
			ok = false
		}
	}
	return ok
}

// Close releases the in-memory tier.
func (s *Store) Close() {
	s.mem.Close()
}

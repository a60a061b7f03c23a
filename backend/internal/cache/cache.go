package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

// Store is a TTL-bounded in-memory result cache. The clustering client uses
// it to avoid re-fetching risk profiles on every message: profiles change on
// the provider's batch cadence, not per request.
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
	maxSize int
	ttl     time.Duration
}

type entry struct {
	value     any
	createdAt time.Time
	hits      int
}

// New creates a store with the given max size and TTL.
func New(maxSize int, ttl time.Duration) *Store {
	return &Store{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// HashKey generates a deterministic cache key for arbitrary text.
func HashKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return hex.EncodeToString(hash[:])
}

// Get retrieves a cached value if present and not expired.
func (s *Store) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.createdAt) > s.ttl {
		delete(s.entries, key)
		return nil, false
	}

	e.hits++
	return e.value, true
}

// Set stores a value under key, evicting the oldest entry at capacity.
func (s *Store) Set(key string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.entries) >= s.maxSize {
		s.evictOldest()
	}

	s.entries[key] = &entry{
		value:     value,
		createdAt: time.Now(),
	}
}

// Len returns the number of live entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// evictOldest removes the entry with the earliest creation time. Caller must
// hold the write lock.
func (s *Store) evictOldest() {
	var oldestKey string
	var oldestTime time.Time
	for k, e := range s.entries {
		if oldestKey == "" || e.createdAt.Before(oldestTime) {
			oldestKey = k
			oldestTime = e.createdAt
		}
	}
	if oldestKey != "" {
		delete(s.entries, oldestKey)
	}
}

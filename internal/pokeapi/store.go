package pokeapi

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Store is the storage behind a Service cache. Implementations must be
// safe for concurrent use.
type Store[K comparable, V any] interface {
	Get(key K) (V, bool)
	Set(key K, value V)
	Clear()
	Len() int
}

// MapStore is an unbounded Store. Entries live until Clear.
type MapStore[K comparable, V any] struct {
	mu      sync.RWMutex
	entries map[K]V
}

// NewMapStore creates an empty MapStore.
func NewMapStore[K comparable, V any]() *MapStore[K, V] {
	return &MapStore[K, V]{entries: make(map[K]V)}
}

// Get returns the stored value for key, or the zero value and false on miss.
func (s *MapStore[K, V]) Get(key K) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.entries[key]
	return v, ok
}

// Set stores value under key, replacing any existing entry.
func (s *MapStore[K, V]) Set(key K, value V) {
	s.mu.Lock()
	s.entries[key] = value
	s.mu.Unlock()
}

// Clear removes all entries.
func (s *MapStore[K, V]) Clear() {
	s.mu.Lock()
	s.entries = make(map[K]V)
	s.mu.Unlock()
}

// Len returns the number of entries.
func (s *MapStore[K, V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// LRUStore is a Store bounded to a fixed number of entries, evicting the
// least recently used.
type LRUStore[K comparable, V any] struct {
	cache *lru.Cache[K, V]
}

// NewLRUStore creates an LRUStore holding at most maxItems entries.
func NewLRUStore[K comparable, V any](maxItems int) (*LRUStore[K, V], error) {
	c, err := lru.New[K, V](maxItems)
	if err != nil {
		return nil, err
	}
	return &LRUStore[K, V]{cache: c}, nil
}

// Get retrieves a value and marks it recently used.
func (s *LRUStore[K, V]) Get(key K) (V, bool) {
	return s.cache.Get(key)
}

// Set adds or updates an entry.
func (s *LRUStore[K, V]) Set(key K, value V) {
	s.cache.Add(key, value)
}

// Clear removes all entries.
func (s *LRUStore[K, V]) Clear() {
	s.cache.Purge()
}

// Len returns the current number of entries.
func (s *LRUStore[K, V]) Len() int {
	return s.cache.Len()
}

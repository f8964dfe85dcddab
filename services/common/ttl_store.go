package common

import (
	"sync"
	"time"
)

// TTLStore is a mutex guarded map whose entries expire after ttl.
// Expired entries are invisible to Get and dropped by Sweep.
type TTLStore[V any] struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]ttlEntry[V]
	now     func() time.Time
}

type ttlEntry[V any] struct {
	value    V
	storedAt time.Time
}

func NewTTLStore[V any](ttl time.Duration) *TTLStore[V] {
	return &TTLStore[V]{
		ttl:     ttl,
		entries: make(map[string]ttlEntry[V]),
		now:     time.Now,
	}
}

func (s *TTLStore[V]) Put(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = ttlEntry[V]{value: value, storedAt: s.now()}
}

func (s *TTLStore[V]) Get(key string) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[key]
	if !exists || s.expired(entry) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// Take removes and returns the entry, so only one caller can consume it.
func (s *TTLStore[V]) Take(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, exists := s.entries[key]
	delete(s.entries, key)
	if !exists || s.expired(entry) {
		var zero V
		return zero, false
	}
	return entry.value, true
}

// TryPut stores value only if key is absent or expired.
func (s *TTLStore[V]) TryPut(key string, value V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, exists := s.entries[key]; exists && !s.expired(entry) {
		return false
	}
	s.entries[key] = ttlEntry[V]{value: value, storedAt: s.now()}
	return true
}

// Remaining returns how long key stays alive, or 0 if it is absent.
func (s *TTLStore[V]) Remaining(key string) time.Duration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, exists := s.entries[key]
	if !exists || s.expired(entry) {
		return 0
	}
	return entry.storedAt.Add(s.ttl).Sub(s.now())
}

func (s *TTLStore[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
}

func (s *TTLStore[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, entry := range s.entries {
		if s.expired(entry) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

func (s *TTLStore[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *TTLStore[V]) expired(entry ttlEntry[V]) bool {
	return s.now().Sub(entry.storedAt) >= s.ttl
}

package kv

import (
	"context"
	"sync"
)

// MemoryKV is an in-memory key-value store. It backs tests and is handy
// for throwaway dev runs; nothing survives a restart.
type MemoryKV struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{entries: make(map[string][]byte)}
}

// Get returns the value stored under key, with ok false for an absent key.
func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	value, ok := s.entries[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Put stores value under key, replacing any previous value.
func (s *MemoryKV) Put(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(value))
	copy(stored, value)
	s.entries[key] = stored
	return nil
}

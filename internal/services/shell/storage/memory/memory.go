// Package memory provides an in-process storage.Store.
package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Store keeps values in a map. Values do not survive the process.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
	closed bool
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

// Close marks the store unusable.
func (s *Store) Close() error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

// GetValue returns the value stored under key.
func (s *Store) GetValue(_ context.Context, key string) (string, bool, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", false, fmt.Errorf("key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return "", false, fmt.Errorf("storage is closed")
	}
	value, ok := s.values[key]
	return value, ok, nil
}

// PutValue stores value under key.
func (s *Store) PutValue(_ context.Context, key, value string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage is closed")
	}
	s.values[key] = value
	return nil
}

// DeleteValue removes key.
func (s *Store) DeleteValue(_ context.Context, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("storage is closed")
	}
	delete(s.values, key)
	return nil
}

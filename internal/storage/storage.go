// Package storage provides the widget's tab-scoped key/value storage: state
// that survives a reload of the same tab but is never shared across tabs.
package storage

import (
	"errors"
	"sync"
)

// ErrUnavailable is returned by stores that cannot be used at all (for
// example storage disabled by policy).
var ErrUnavailable = errors.New("storage unavailable")

// Store is a string key/value store scoped to one tab.
type Store interface {
	// Get returns the value and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-process Store. Its contents die with the tab.
type Memory struct {
	mu   sync.Mutex
	data map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Len returns the number of keys held.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.data)
}

// Package kv provides the durable key-value layer the attendance store
// persists through. Implementations must be safe for single-session use;
// there is no concurrent-writer scenario.
package kv

import "errors"

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("kv: key not found")

// Store is a minimal durable key-value capability. Values are opaque
// strings; the attendance store writes JSON-encoded partition maps.
type Store interface {
	Get(key string) (string, error)
	Set(key, value string) error
	Remove(key string) error
}

// Memory is an in-memory Store used in tests and as a fallback.
type Memory struct {
	values map[string]string
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{values: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, error) {
	v, ok := m.values[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *Memory) Set(key, value string) error {
	m.values[key] = value
	return nil
}

func (m *Memory) Remove(key string) error {
	delete(m.values, key)
	return nil
}

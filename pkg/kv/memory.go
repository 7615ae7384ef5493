package kv

import (
	"bytes"
	"context"
	"slices"
	"sync"
)

// Memory is an in-memory Store. It is safe for concurrent use and intended
// primarily for tests.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
	opts *Options
}

var _ Store = (*Memory)(nil)

// NewMemory creates a new in-memory Store. Pass nil for default options.
func NewMemory(opts *Options) *Memory {
	return &Memory{
		data: make(map[string][]byte),
		opts: opts,
	}
}

func (m *Memory) Get(_ context.Context, key Key) ([]byte, error) {
	k := string(m.opts.encode(key))
	m.mu.RLock()
	v, ok := m.data[k]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}
	return slices.Clone(v), nil
}

func (m *Memory) Set(_ context.Context, key Key, value []byte) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	m.data[k] = slices.Clone(value)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(_ context.Context, key Key) error {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	delete(m.data, k)
	m.mu.Unlock()
	return nil
}

func (m *Memory) CompareAndDelete(_ context.Context, key Key, old []byte) (bool, error) {
	k := string(m.opts.encode(key))
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[k]
	if !ok || !bytes.Equal(v, old) {
		return false, nil
	}
	delete(m.data, k)
	return true, nil
}

func (m *Memory) Close() error {
	return nil
}

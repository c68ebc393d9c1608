package metastore

import (
	"context"
	"sync"
)

// Memory is an in-process Store used by tests and ad-hoc CLI runs.
//
// It deliberately implements the same snapshot guarantee as the database
// backends: GetAttributes reads all requested names under one lock
// acquisition, so a concurrent SetAttribute can never interleave between
// two attribute reads of the same call.
type Memory struct {
	mu    sync.RWMutex
	attrs map[string]map[string]string // path -> name -> value
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{attrs: make(map[string]map[string]string)}
}

// SetAttribute records an attribute value for path, creating the path entry
// when needed.
func (m *Memory) SetAttribute(ctx context.Context, path, name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pa := m.attrs[path]
	if pa == nil {
		pa = make(map[string]string)
		m.attrs[path] = pa
	}
	pa[name] = value
	return nil
}

// GetAttribute implements Store.
func (m *Memory) GetAttribute(ctx context.Context, path, name string) (string, error) {
	got, err := m.GetAttributes(ctx, path, name)
	if err != nil {
		return "", err
	}
	return got[name], nil
}

// GetAttributes implements Store.
func (m *Memory) GetAttributes(ctx context.Context, path string, names ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	pa, ok := m.attrs[path]
	if !ok {
		return nil, ErrNotFound
	}

	out := make(map[string]string, len(names))
	for _, n := range names {
		if v, ok := pa[n]; ok {
			out[n] = v
		}
	}
	return out, nil
}

// Close implements Store. It is a no-op for the in-memory backend.
func (m *Memory) Close() {}

func init() {
	Register("memory", func(ctx context.Context, cfg Config) (Store, error) {
		return NewMemory(), nil
	})
}

package storage

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBackend is an in-memory implementation of Backend for testing.
type MemoryBackend struct {
	mu      sync.RWMutex
	schemes map[string]SchemeRecord
}

// NewMemoryBackend creates a new in-memory storage backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		schemes: make(map[string]SchemeRecord),
	}
}

// Initialize implements Backend.
func (m *MemoryBackend) Initialize(path string, readOnly bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.schemes == nil {
		m.schemes = make(map[string]SchemeRecord)
	}
	return nil
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.schemes = nil
	return nil
}

// SaveScheme implements Backend.
func (m *MemoryBackend) SaveScheme(ctx context.Context, rec *SchemeRecord) error {
	if err := ValidateName(rec.Name); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schemes == nil {
		return ErrNotInitialized
	}

	stored := *rec
	if stored.SavedAt.IsZero() {
		stored.SavedAt = time.Now().UTC()
	}
	m.schemes[rec.Name] = stored
	return nil
}

// GetScheme implements Backend.
func (m *MemoryBackend) GetScheme(ctx context.Context, name string) (*SchemeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.schemes == nil {
		return nil, ErrNotInitialized
	}

	rec, ok := m.schemes[name]
	if !ok {
		return nil, nil
	}
	return &rec, nil
}

// ListSchemes implements Backend.
func (m *MemoryBackend) ListSchemes(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.schemes == nil {
		return nil, ErrNotInitialized
	}

	names := make([]string, 0, len(m.schemes))
	for name := range m.schemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// DeleteScheme implements Backend.
func (m *MemoryBackend) DeleteScheme(ctx context.Context, name string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.schemes == nil {
		return false, ErrNotInitialized
	}

	if _, ok := m.schemes[name]; !ok {
		return false, nil
	}
	delete(m.schemes, name)
	return true, nil
}

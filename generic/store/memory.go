// Package store provides SchemeStore implementations.
package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/CLI)
// =============================================================================

type Memory struct {
	mu      sync.RWMutex
	schemes map[generic.SchemeID]generic.SchemeRecord
	now     func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		schemes: make(map[generic.SchemeID]generic.SchemeRecord),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a new scheme.
func (m *Memory) Create(_ context.Context, rec generic.SchemeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schemes[rec.ID]; ok {
		return generic.ErrDuplicateScheme
	}
	now := m.now()
	rec.Version = 1
	rec.CreatedAt = now
	rec.UpdatedAt = now
	m.schemes[rec.ID] = rec
	return nil
}

// Save inserts or replaces a scheme, bumping its version.
func (m *Memory) Save(_ context.Context, rec generic.SchemeRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if existing, ok := m.schemes[rec.ID]; ok {
		rec.Version = existing.Version + 1
		rec.CreatedAt = existing.CreatedAt
	} else {
		rec.Version = 1
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now
	m.schemes[rec.ID] = rec
	return nil
}

func (m *Memory) Get(_ context.Context, id generic.SchemeID) (*generic.SchemeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.schemes[id]
	if !ok {
		return nil, generic.ErrSchemeNotFound
	}
	return &rec, nil
}

func (m *Memory) List(_ context.Context) ([]generic.SchemeRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.SchemeRecord, 0, len(m.schemes))
	for _, rec := range m.schemes {
		result = append(result, rec)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *Memory) Delete(_ context.Context, id generic.SchemeID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.schemes[id]; !ok {
		return generic.ErrSchemeNotFound
	}
	delete(m.schemes, id)
	return nil
}

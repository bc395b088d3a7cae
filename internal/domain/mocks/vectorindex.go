package mocks

import (
	"context"
	"sync"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// VectorIndex is a mock implementation of ports.VectorIndex.
type VectorIndex struct {
	Matches []ports.DraftMatch
	Err     error

	mu      sync.Mutex
	Indexed map[string][]float32
}

// NewVectorIndex creates an empty mock index.
func NewVectorIndex() *VectorIndex {
	return &VectorIndex{Indexed: make(map[string][]float32)}
}

// EnsureCollection is a no-op.
func (m *VectorIndex) EnsureCollection(_ context.Context, _ uint64) error {
	return m.Err
}

// Close is a no-op.
func (m *VectorIndex) Close() error {
	return nil
}

// IndexDraft stores the embedding keyed by draft id.
func (m *VectorIndex) IndexDraft(_ context.Context, draft *entities.Draft, embedding []float32) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Indexed[draft.ID] = embedding
	return nil
}

// SearchSimilar returns the configured matches, truncated to limit.
func (m *VectorIndex) SearchSimilar(_ context.Context, _ []float32, limit int) ([]ports.DraftMatch, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && limit < len(m.Matches) {
		return m.Matches[:limit], nil
	}
	return m.Matches, nil
}

// RemoveDraft drops the embedding for the draft id.
func (m *VectorIndex) RemoveDraft(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Indexed, id)
	return nil
}

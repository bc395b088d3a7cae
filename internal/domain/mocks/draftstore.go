// Package mocks provides shared test doubles for the domain ports.
package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// DraftStore is an in-memory implementation of ports.DraftStore with the
// same atomicity and lifecycle semantics as the SQLite repository. Setting
// Err makes every call fail with it.
type DraftStore struct {
	Err error

	// Now can be overridden for deterministic timestamps.
	Now func() time.Time

	mu      sync.Mutex
	drafts  map[string]*entities.Draft
	history map[string][]entities.EditHistoryEntry
	seq     int
}

// NewDraftStore creates an empty in-memory draft store.
func NewDraftStore() *DraftStore {
	return &DraftStore{
		Now:     time.Now,
		drafts:  make(map[string]*entities.Draft),
		history: make(map[string][]entities.EditHistoryEntry),
	}
}

// EnsureSchema is a no-op.
func (m *DraftStore) EnsureSchema(_ context.Context) error {
	return m.Err
}

// Close is a no-op.
func (m *DraftStore) Close() error {
	return nil
}

// CreateDraft inserts a new empty draft in status "draft".
func (m *DraftStore) CreateDraft(_ context.Context, subject string) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.seq++
	now := m.Now()
	draft := &entities.Draft{
		ID:        fmt.Sprintf("draft-%d", m.seq),
		Subject:   subject,
		Status:    entities.StatusDraft,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.drafts[draft.ID] = draft
	return copyDraft(draft), nil
}

// GetDraft returns the draft or NotFoundError.
func (m *DraftStore) GetDraft(_ context.Context, id string) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return m.get(id)
}

// LatestDraft returns the most recently created draft.
func (m *DraftStore) LatestDraft(_ context.Context) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var latest *entities.Draft
	for _, d := range m.drafts {
		if latest == nil || d.CreatedAt.After(latest.CreatedAt) {
			latest = d
		}
	}
	if latest == nil {
		return nil, &entities.NotFoundError{DraftID: "latest"}
	}
	return copyDraft(latest), nil
}

// ListDrafts returns drafts ordered by creation time descending.
func (m *DraftStore) ListDrafts(_ context.Context, status entities.Status) ([]*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*entities.Draft, 0, len(m.drafts))
	for _, d := range m.drafts {
		if status != "" && d.Status != status {
			continue
		}
		out = append(out, copyDraft(d))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// ApplyTextEdit replaces the text and appends a history entry atomically.
func (m *DraftStore) ApplyTextEdit(_ context.Context, id, newText string, source entities.EditSource) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if _, err := entities.Transition(draft.Status, entities.EventEditText); err != nil {
		return nil, err
	}

	now := m.Now()
	m.seq++
	m.history[id] = append(m.history[id], entities.EditHistoryEntry{
		ID:           fmt.Sprintf("edit-%d", m.seq),
		DraftID:      id,
		PreviousText: draft.Text,
		NewText:      newText,
		Source:       source,
		CreatedAt:    now,
	})

	stored := m.drafts[id]
	stored.Text = newText
	stored.UpdatedAt = now
	return copyDraft(stored), nil
}

// ApplyImageUpdate replaces the image reference without touching history.
func (m *DraftStore) ApplyImageUpdate(_ context.Context, id, imageRef string) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.get(id)
	if err != nil {
		return nil, err
	}
	if _, err := entities.Transition(draft.Status, entities.EventRegenerateImage); err != nil {
		return nil, err
	}

	stored := m.drafts[id]
	stored.ImageRef = imageRef
	stored.UpdatedAt = m.Now()
	return copyDraft(stored), nil
}

// TransitionStatus applies a lifecycle event.
func (m *DraftStore) TransitionStatus(_ context.Context, id string, event entities.Event) (*entities.Draft, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	draft, err := m.get(id)
	if err != nil {
		return nil, err
	}

	next, err := entities.Transition(draft.Status, event)
	if err != nil {
		return nil, err
	}

	stored := m.drafts[id]
	now := m.Now()
	stored.Status = next
	stored.UpdatedAt = now
	if next == entities.StatusPublished {
		stored.PublishedAt = &now
	}
	return copyDraft(stored), nil
}

// SetExternalRef records the front-end message reference.
func (m *DraftStore) SetExternalRef(_ context.Context, id, ref string) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.get(id); err != nil {
		return err
	}
	m.drafts[id].ExternalRef = ref
	return nil
}

// GetHistory returns the edit history, oldest first.
func (m *DraftStore) GetHistory(_ context.Context, id string) ([]entities.EditHistoryEntry, error) {
	if m.Err != nil {
		return nil, m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.get(id); err != nil {
		return nil, err
	}
	out := make([]entities.EditHistoryEntry, len(m.history[id]))
	copy(out, m.history[id])
	return out, nil
}

// DeleteDraft removes a draft and its history.
func (m *DraftStore) DeleteDraft(_ context.Context, id string) error {
	if m.Err != nil {
		return m.Err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.get(id); err != nil {
		return err
	}
	delete(m.drafts, id)
	delete(m.history, id)
	return nil
}

// get must be called with the mutex held.
func (m *DraftStore) get(id string) (*entities.Draft, error) {
	draft, ok := m.drafts[id]
	if !ok {
		return nil, &entities.NotFoundError{DraftID: id}
	}
	return copyDraft(draft), nil
}

func copyDraft(d *entities.Draft) *entities.Draft {
	out := *d
	if d.PublishedAt != nil {
		at := *d.PublishedAt
		out.PublishedAt = &at
	}
	return &out
}

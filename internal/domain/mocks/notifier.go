package mocks

import (
	"context"
	"sync"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// Notifier is a mock implementation of ports.Notifier.
type Notifier struct {
	Ref string
	Err error

	mu        sync.Mutex
	CallCount int
	LastNote  string
	LastDraft *entities.Draft
}

// NotifyDraftUpdated records the call and returns Ref.
func (m *Notifier) NotifyDraftUpdated(_ context.Context, draft *entities.Draft, note string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.CallCount++
	m.LastNote = note
	m.LastDraft = draft
	if m.Err != nil {
		return "", m.Err
	}
	return m.Ref, nil
}

// Calls returns the number of notifications sent.
func (m *Notifier) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// Package handlers exposes application-level operations to the front-ends.
package handlers

import (
	"context"
	"fmt"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

// DraftHandler handles draft creation and reads.
type DraftHandler struct {
	gateway *services.Gateway
}

// NewDraftHandler creates a new draft handler.
func NewDraftHandler(gateway *services.Gateway) *DraftHandler {
	return &DraftHandler{
		gateway: gateway,
	}
}

// Create creates a draft and generates its text and image. A generation
// failure still returns the partial draft alongside the error.
func (h *DraftHandler) Create(ctx context.Context, subject string) (*entities.Draft, error) {
	return h.gateway.CreateAndGenerate(ctx, subject)
}

// Get returns a single draft.
func (h *DraftHandler) Get(ctx context.Context, id string) (*entities.Draft, error) {
	return h.gateway.GetDraft(ctx, id)
}

// Latest returns the most recently created draft.
func (h *DraftHandler) Latest(ctx context.Context) (*entities.Draft, error) {
	return h.gateway.LatestDraft(ctx)
}

// List returns drafts newest first, optionally filtered by status.
func (h *DraftHandler) List(ctx context.Context, status string) ([]*entities.Draft, error) {
	return h.gateway.ListDrafts(ctx, entities.Status(status))
}

// History returns a draft's edit history, oldest first.
func (h *DraftHandler) History(ctx context.Context, id string) ([]entities.EditHistoryEntry, error) {
	entries, err := h.gateway.GetHistory(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading history: %w", err)
	}
	return entries, nil
}

// Delete removes a draft and its history.
func (h *DraftHandler) Delete(ctx context.Context, id string) error {
	return h.gateway.Delete(ctx, id)
}

package handlers

import (
	"context"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

// ReviewHandler handles the human review actions on drafts.
type ReviewHandler struct {
	gateway *services.Gateway
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(gateway *services.Gateway) *ReviewHandler {
	return &ReviewHandler{
		gateway: gateway,
	}
}

// Approve marks a draft as ready for publishing.
func (h *ReviewHandler) Approve(ctx context.Context, id string) (*entities.Draft, error) {
	return h.gateway.Approve(ctx, id)
}

// Reject retires a draft.
func (h *ReviewHandler) Reject(ctx context.Context, id string) (*entities.Draft, error) {
	return h.gateway.Reject(ctx, id)
}

// Publish marks an approved draft as published.
func (h *ReviewHandler) Publish(ctx context.Context, id string) (*entities.Draft, error) {
	return h.gateway.Publish(ctx, id)
}

// EditText applies a manual text edit.
func (h *ReviewHandler) EditText(ctx context.Context, id, newText string, source entities.EditSource) (*entities.Draft, error) {
	return h.gateway.EditText(ctx, id, newText, source)
}

// RegenerateText replaces the draft's text with fresh AI copy.
func (h *ReviewHandler) RegenerateText(ctx context.Context, id, instruction string) (*entities.Draft, error) {
	return h.gateway.RegenerateText(ctx, id, instruction)
}

// RegenerateImage replaces the draft's image with a fresh one.
func (h *ReviewHandler) RegenerateImage(ctx context.Context, id string) (*entities.Draft, error) {
	return h.gateway.RegenerateImage(ctx, id)
}

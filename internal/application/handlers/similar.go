package handlers

import (
	"context"
	"fmt"

	"github.com/okriashvili/draftdeck/internal/domain/ports"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

// SimilarHandler handles similarity lookups over past drafts.
type SimilarHandler struct {
	similarity *services.SimilarityService
}

// NewSimilarHandler creates a new similarity handler.
func NewSimilarHandler(similarity *services.SimilarityService) *SimilarHandler {
	return &SimilarHandler{
		similarity: similarity,
	}
}

// SimilarResult contains the result of a similarity lookup.
type SimilarResult struct {
	Subject string
	Matches []ports.DraftMatch
}

// Handle returns past drafts closest in meaning to the subject.
func (h *SimilarHandler) Handle(ctx context.Context, subject string, limit int) (*SimilarResult, error) {
	matches, err := h.similarity.FindSimilar(ctx, subject, limit)
	if err != nil {
		return nil, fmt.Errorf("finding similar drafts: %w", err)
	}

	return &SimilarResult{
		Subject: subject,
		Matches: matches,
	}, nil
}

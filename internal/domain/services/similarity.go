package services

import (
	"context"
	"fmt"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// DefaultSimilarLimit is the default number of similarity hits to return.
const DefaultSimilarLimit = 5

// SimilarityService keeps draft content searchable by meaning, so a
// marketer can check what was already posted about a subject before
// approving near-duplicates.
type SimilarityService struct {
	embedder ports.Embedder
	index    ports.VectorIndex
}

// NewSimilarityService creates a new similarity service.
func NewSimilarityService(embedder ports.Embedder, index ports.VectorIndex) *SimilarityService {
	return &SimilarityService{
		embedder: embedder,
		index:    index,
	}
}

// IndexDraft (re-)indexes a draft's subject and current text.
func (s *SimilarityService) IndexDraft(ctx context.Context, draft *entities.Draft) error {
	text := draft.Subject
	if draft.Text != "" {
		text = draft.Subject + "\n" + draft.Text
	}

	embedding, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embedding draft: %w", err)
	}

	if err := s.index.IndexDraft(ctx, draft, embedding); err != nil {
		return fmt.Errorf("indexing draft: %w", err)
	}
	return nil
}

// FindSimilar returns past drafts closest in meaning to the subject.
func (s *SimilarityService) FindSimilar(ctx context.Context, subject string, limit int) ([]ports.DraftMatch, error) {
	if limit <= 0 {
		limit = DefaultSimilarLimit
	}

	embedding, err := s.embedder.Embed(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	matches, err := s.index.SearchSimilar(ctx, embedding, limit)
	if err != nil {
		return nil, fmt.Errorf("searching similar drafts: %w", err)
	}
	return matches, nil
}

// RemoveDraft drops a draft from the index.
func (s *SimilarityService) RemoveDraft(ctx context.Context, id string) error {
	return s.index.RemoveDraft(ctx, id)
}

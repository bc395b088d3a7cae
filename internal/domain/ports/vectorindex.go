package ports

import (
	"context"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// DraftMatch is a similarity search hit.
type DraftMatch struct {
	DraftID string          `json:"draft_id"`
	Subject string          `json:"subject"`
	Status  entities.Status `json:"status"`
	Score   float32         `json:"score"`
}

// VectorIndex stores draft embeddings for similarity lookups, so a
// marketer can check what was already posted about a subject.
type VectorIndex interface {
	// EnsureCollection creates the collection if it doesn't exist.
	EnsureCollection(ctx context.Context, vectorSize uint64) error

	// Close closes the connection.
	Close() error

	// IndexDraft upserts the draft's embedding (re-indexing replaces the
	// previous vector for the same draft id).
	IndexDraft(ctx context.Context, draft *entities.Draft, embedding []float32) error

	// SearchSimilar returns the closest indexed drafts.
	SearchSimilar(ctx context.Context, embedding []float32, limit int) ([]DraftMatch, error)

	// RemoveDraft drops a draft from the index.
	RemoveDraft(ctx context.Context, id string) error
}

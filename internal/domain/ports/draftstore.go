// Package ports defines interfaces for external service communication.
package ports

import (
	"context"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// DraftStore is the sole authority over persisted draft state and history.
// Every method is a single atomic unit: concurrent callers never observe a
// torn state, and the lifecycle table is enforced on every mutation.
type DraftStore interface {
	// EnsureSchema creates the database schema if it doesn't exist.
	EnsureSchema(ctx context.Context) error

	// Close closes the database connection.
	Close() error

	// CreateDraft inserts a new draft with empty text and image in status
	// "draft". Generation happens afterwards, outside the store.
	CreateDraft(ctx context.Context, subject string) (*entities.Draft, error)

	// GetDraft returns the draft with the given id, or NotFoundError.
	GetDraft(ctx context.Context, id string) (*entities.Draft, error)

	// LatestDraft returns the most recently created draft, or NotFoundError
	// if the store is empty.
	LatestDraft(ctx context.Context) (*entities.Draft, error)

	// ListDrafts returns drafts ordered by creation time descending.
	// An empty status means no filter.
	ListDrafts(ctx context.Context, status entities.Status) ([]*entities.Draft, error)

	// ApplyTextEdit atomically replaces the draft's text and appends an
	// edit history entry whose PreviousText is the text being replaced.
	ApplyTextEdit(ctx context.Context, id, newText string, source entities.EditSource) (*entities.Draft, error)

	// ApplyImageUpdate atomically replaces the draft's image reference.
	// Image changes are not recorded in the edit history.
	ApplyImageUpdate(ctx context.Context, id, imageRef string) (*entities.Draft, error)

	// TransitionStatus applies a lifecycle event, failing with
	// InvalidTransitionError for pairs the lifecycle table disallows.
	TransitionStatus(ctx context.Context, id string, event entities.Event) (*entities.Draft, error)

	// SetExternalRef records the chat message currently displaying the draft.
	SetExternalRef(ctx context.Context, id, ref string) error

	// GetHistory returns the draft's edit history, oldest first.
	GetHistory(ctx context.Context, id string) ([]entities.EditHistoryEntry, error)

	// DeleteDraft removes a draft and its history.
	DeleteDraft(ctx context.Context, id string) error
}

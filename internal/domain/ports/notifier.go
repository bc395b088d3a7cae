package ports

import (
	"context"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
)

// Notifier pushes a draft update to the front-end message currently
// displaying it (draft.ExternalRef). Delivery is at-least-once; the
// lifecycle is idempotent under retries so duplicates are harmless.
// A non-empty returned ref replaces the draft's external reference.
type Notifier interface {
	NotifyDraftUpdated(ctx context.Context, draft *entities.Draft, note string) (ref string, err error)
}

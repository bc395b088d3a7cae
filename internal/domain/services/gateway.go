package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// Gateway is the single entry point front-ends use. It sequences
// orchestrator calls and store mutations under a per-draft critical
// section: generation runs outside the lock, only the read-modify-write
// against the store is serialized, so a slow external call never starves
// other operations on the same draft.
//
// notifier and similarity are optional; their failures are logged and
// never surfaced, leaving the draft in its committed state.
type Gateway struct {
	store      ports.DraftStore
	orch       *Orchestrator
	notifier   ports.Notifier
	similarity *SimilarityService
	log        logrus.FieldLogger

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewGateway creates a new lifecycle gateway. notifier, similarity and log
// may be nil.
func NewGateway(store ports.DraftStore, orch *Orchestrator, notifier ports.Notifier, similarity *SimilarityService, log logrus.FieldLogger) *Gateway {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Gateway{
		store:      store,
		orch:       orch,
		notifier:   notifier,
		similarity: similarity,
		log:        log,
		locks:      make(map[string]*sync.Mutex),
	}
}

// lockDraft returns the mutex guarding mutations of one draft.
func (g *Gateway) lockDraft(id string) *sync.Mutex {
	g.mu.Lock()
	defer g.mu.Unlock()

	l, ok := g.locks[id]
	if !ok {
		l = &sync.Mutex{}
		g.locks[id] = l
	}
	return l
}

// CreateAndGenerate creates a draft, then generates text and image
// concurrently, persisting each as it completes. A generation failure
// leaves the created draft in place with the missing field empty; the
// partial draft is returned alongside the error so a human can retry.
func (g *Gateway) CreateAndGenerate(ctx context.Context, subject string) (*entities.Draft, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return nil, errors.New("subject is required")
	}

	draft, err := g.store.CreateDraft(ctx, subject)
	if err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}

	var (
		wg       sync.WaitGroup
		textErr  error
		imageErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		text, err := g.orch.GenerateText(ctx, subject, DefaultPostOptions())
		if err != nil {
			textErr = err
			return
		}
		lock := g.lockDraft(draft.ID)
		lock.Lock()
		defer lock.Unlock()
		if _, err := g.store.ApplyTextEdit(ctx, draft.ID, text, entities.SourceSystem); err != nil {
			textErr = err
		}
	}()
	go func() {
		defer wg.Done()
		ref, err := g.orch.GenerateImage(ctx, subject)
		if err != nil {
			imageErr = err
			return
		}
		lock := g.lockDraft(draft.ID)
		lock.Lock()
		defer lock.Unlock()
		if _, err := g.store.ApplyImageUpdate(ctx, draft.ID, ref); err != nil {
			imageErr = err
		}
	}()
	wg.Wait()

	result, err := g.store.GetDraft(ctx, draft.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading draft: %w", err)
	}

	if textErr != nil {
		return result, textErr
	}
	if imageErr != nil {
		return result, imageErr
	}

	g.afterMutation(ctx, result, "generated")
	return result, nil
}

// Approve marks a draft as ready for publishing.
func (g *Gateway) Approve(ctx context.Context, id string) (*entities.Draft, error) {
	return g.transition(ctx, id, entities.EventApprove)
}

// Reject retires a draft.
func (g *Gateway) Reject(ctx context.Context, id string) (*entities.Draft, error) {
	return g.transition(ctx, id, entities.EventReject)
}

// Publish marks an approved draft as published.
func (g *Gateway) Publish(ctx context.Context, id string) (*entities.Draft, error) {
	return g.transition(ctx, id, entities.EventPublish)
}

func (g *Gateway) transition(ctx context.Context, id string, event entities.Event) (*entities.Draft, error) {
	lock := g.lockDraft(id)
	lock.Lock()
	draft, err := g.store.TransitionStatus(ctx, id, event)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	g.afterMutation(ctx, draft, string(event))
	return draft, nil
}

// EditText applies a manual text edit from one of the front-ends.
func (g *Gateway) EditText(ctx context.Context, id, newText string, source entities.EditSource) (*entities.Draft, error) {
	if !source.Valid() {
		return nil, fmt.Errorf("unknown edit source: %s", source)
	}

	lock := g.lockDraft(id)
	lock.Lock()
	draft, err := g.store.ApplyTextEdit(ctx, id, newText, source)
	lock.Unlock()
	if err != nil {
		return nil, err
	}

	g.afterMutation(ctx, draft, "edited")
	return draft, nil
}

// RegenerateText replaces a draft's text with freshly generated copy.
// Only drafts still in review (status "draft") can be regenerated.
func (g *Gateway) RegenerateText(ctx context.Context, id, instruction string) (*entities.Draft, error) {
	draft, err := g.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != entities.StatusDraft {
		return nil, &entities.InvalidTransitionError{Status: draft.Status, Event: entities.EventRegenerateText}
	}

	// Generation runs outside the critical section.
	text, err := g.orch.RegenerateText(ctx, draft, instruction)
	if err != nil {
		return nil, err
	}

	lock := g.lockDraft(id)
	lock.Lock()
	defer lock.Unlock()

	// Re-check under the lock: the draft may have moved on while the
	// generator was running.
	current, err := g.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != entities.StatusDraft {
		return nil, &entities.InvalidTransitionError{Status: current.Status, Event: entities.EventRegenerateText}
	}

	updated, err := g.store.ApplyTextEdit(ctx, id, text, entities.SourceRegeneration)
	if err != nil {
		return nil, err
	}

	g.afterMutation(ctx, updated, "text regenerated")
	return updated, nil
}

// RegenerateImage replaces a draft's image with a freshly generated one.
func (g *Gateway) RegenerateImage(ctx context.Context, id string) (*entities.Draft, error) {
	draft, err := g.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if draft.Status != entities.StatusDraft {
		return nil, &entities.InvalidTransitionError{Status: draft.Status, Event: entities.EventRegenerateImage}
	}

	ref, err := g.orch.GenerateImage(ctx, draft.Subject)
	if err != nil {
		return nil, err
	}

	lock := g.lockDraft(id)
	lock.Lock()
	defer lock.Unlock()

	current, err := g.store.GetDraft(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Status != entities.StatusDraft {
		return nil, &entities.InvalidTransitionError{Status: current.Status, Event: entities.EventRegenerateImage}
	}

	updated, err := g.store.ApplyImageUpdate(ctx, id, ref)
	if err != nil {
		return nil, err
	}

	g.afterMutation(ctx, updated, "image regenerated")
	return updated, nil
}

// GetDraft returns a draft snapshot.
func (g *Gateway) GetDraft(ctx context.Context, id string) (*entities.Draft, error) {
	return g.store.GetDraft(ctx, id)
}

// LatestDraft returns the most recently created draft.
func (g *Gateway) LatestDraft(ctx context.Context) (*entities.Draft, error) {
	return g.store.LatestDraft(ctx)
}

// ListDrafts returns drafts newest first, optionally filtered by status.
func (g *Gateway) ListDrafts(ctx context.Context, status entities.Status) ([]*entities.Draft, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("unknown status: %s", status)
	}
	return g.store.ListDrafts(ctx, status)
}

// GetHistory returns a draft's edit history, oldest first.
func (g *Gateway) GetHistory(ctx context.Context, id string) ([]entities.EditHistoryEntry, error) {
	return g.store.GetHistory(ctx, id)
}

// Delete removes a draft, its history, and its index entry.
func (g *Gateway) Delete(ctx context.Context, id string) error {
	lock := g.lockDraft(id)
	lock.Lock()
	err := g.store.DeleteDraft(ctx, id)
	lock.Unlock()
	if err != nil {
		return err
	}

	if g.similarity != nil {
		if err := g.similarity.RemoveDraft(ctx, id); err != nil {
			g.log.WithError(err).WithField("draft_id", id).Warn("removing draft from similarity index")
		}
	}
	return nil
}

// afterMutation pushes the committed draft to the notifier and the
// similarity index. Both are best-effort: the mutation has already been
// committed and delivery is at-least-once.
func (g *Gateway) afterMutation(ctx context.Context, draft *entities.Draft, note string) {
	if g.notifier != nil {
		ref, err := g.notifier.NotifyDraftUpdated(ctx, draft, note)
		if err != nil {
			g.log.WithError(err).WithField("draft_id", draft.ID).Warn("notifying front-end")
		} else if ref != "" && ref != draft.ExternalRef {
			if err := g.store.SetExternalRef(ctx, draft.ID, ref); err != nil {
				g.log.WithError(err).WithField("draft_id", draft.ID).Warn("recording external ref")
			}
		}
	}

	if g.similarity != nil && draft.Text != "" {
		if err := g.similarity.IndexDraft(ctx, draft); err != nil {
			g.log.WithError(err).WithField("draft_id", draft.ID).Warn("refreshing similarity index")
		}
	}
}

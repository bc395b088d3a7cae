package services

import (
	"context"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

// DefaultPostOptions returns the options used when a caller doesn't
// specify any.
func DefaultPostOptions() ports.PostOptions {
	return ports.PostOptions{
		Tone:         "friendly",
		IncludeEmoji: true,
		MaxLength:    300,
	}
}

// Orchestrator coordinates calls to the external text and image
// generators, applying the retry policy and normalizing failures into
// GenerationError. It never touches the draft store: results are values
// the gateway persists, keeping a single point of truth for mutation.
type Orchestrator struct {
	text   ports.TextGenerator
	image  ports.ImageGenerator
	policy RetryPolicy
}

// NewOrchestrator creates a new generation orchestrator.
func NewOrchestrator(text ports.TextGenerator, image ports.ImageGenerator, policy RetryPolicy) *Orchestrator {
	return &Orchestrator{
		text:   text,
		image:  image,
		policy: policy,
	}
}

// GenerateText produces a fresh marketing post for the subject.
func (o *Orchestrator) GenerateText(ctx context.Context, subject string, opts ports.PostOptions) (string, error) {
	var out string
	err := o.policy.Do(ctx, func(ctx context.Context) error {
		text, err := o.text.GeneratePost(ctx, subject, opts)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", &entities.GenerationError{Kind: entities.GenerationText, Err: err}
	}
	return out, nil
}

// GenerateImage produces a product image reference for the subject.
func (o *Orchestrator) GenerateImage(ctx context.Context, subject string) (string, error) {
	var out string
	err := o.policy.Do(ctx, func(ctx context.Context) error {
		ref, err := o.image.GenerateImage(ctx, subject)
		if err != nil {
			return err
		}
		out = ref
		return nil
	})
	if err != nil {
		return "", &entities.GenerationError{Kind: entities.GenerationImage, Err: err}
	}
	return out, nil
}

// RegenerateText produces replacement copy for an existing draft, seeded
// with the draft's current text for continuity. An empty instruction asks
// for a plain rewrite.
func (o *Orchestrator) RegenerateText(ctx context.Context, draft *entities.Draft, instruction string) (string, error) {
	if draft.Text == "" {
		// Nothing to improve yet; generate from scratch.
		return o.GenerateText(ctx, draft.Subject, DefaultPostOptions())
	}

	if instruction == "" {
		instruction = "Rewrite this post with a fresh angle while keeping the core message."
	}

	var out string
	err := o.policy.Do(ctx, func(ctx context.Context) error {
		text, err := o.text.ImproveText(ctx, draft.Text, instruction)
		if err != nil {
			return err
		}
		out = text
		return nil
	})
	if err != nil {
		return "", &entities.GenerationError{Kind: entities.GenerationText, Err: err}
	}
	return out, nil
}

package ports

import "context"

// PostOptions controls the shape of generated marketing copy.
type PostOptions struct {
	Tone         string
	IncludeEmoji bool
	MaxLength    int
}

// TextGenerator produces marketing copy via an external model. A single
// call per request; retry policy is owned by the orchestrator, not the
// provider.
type TextGenerator interface {
	// GeneratePost writes a fresh marketing post about the subject.
	GeneratePost(ctx context.Context, subject string, opts PostOptions) (string, error)

	// ImproveText rewrites existing copy according to an instruction,
	// keeping the original message intact.
	ImproveText(ctx context.Context, text, instruction string) (string, error)
}

// ImageGenerator produces a product image for the subject and returns an
// opaque asset reference that is stored verbatim.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, subject string) (string, error)
}

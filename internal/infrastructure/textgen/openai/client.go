// Package openai provides a TextGenerator implementation using OpenAI.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/sashabaranov/go-openai"

	"github.com/okriashvili/draftdeck/internal/domain/ports"
	"github.com/okriashvili/draftdeck/internal/infrastructure/config"
)

const postPrompt = `You are a marketing copywriter for a small artisanal food producer.
Write a short social media post about the given product or topic.

Rules:
- Tone: %s
- %s
- Stay under %d characters
- No hashtags unless they fit naturally
- Return ONLY the post text, no quotes, no commentary`

const improvePrompt = `You are a marketing copywriter. Rewrite the social media post below
following the instruction. Keep the product and the core message intact.

Instruction: %s

Return ONLY the rewritten post text, no quotes, no commentary.`

// Client implements the TextGenerator interface using OpenAI chat completions.
type Client struct {
	client *openai.Client
	model  string
}

// NewClient creates a new OpenAI text generation client.
func NewClient(cfg config.LLMConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := "gpt-4o-mini"
	if cfg.Model != "" {
		model = cfg.Model
	}

	return &Client{
		client: client,
		model:  model,
	}, nil
}

// GeneratePost writes a fresh post about the subject.
func (c *Client) GeneratePost(ctx context.Context, subject string, opts ports.PostOptions) (string, error) {
	emoji := "Do not use emoji"
	if opts.IncludeEmoji {
		emoji = "Use a couple of fitting emoji"
	}
	system := fmt.Sprintf(postPrompt, opts.Tone, emoji, opts.MaxLength)

	return c.complete(ctx, system, subject)
}

// ImproveText rewrites existing post text following the instruction.
func (c *Client) ImproveText(ctx context.Context, text, instruction string) (string, error) {
	system := fmt.Sprintf(improvePrompt, instruction)

	return c.complete(ctx, system, text)
}

func (c *Client) complete(ctx context.Context, system, user string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: system,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: user,
			},
		},
		Temperature: 0.8,
	})
	if err != nil {
		return "", classify(fmt.Errorf("calling OpenAI: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", errors.New("no response from OpenAI")
	}

	return resp.Choices[0].Message.Content, nil
}

// classify wraps retryable provider failures (rate limits, server errors,
// timeouts) so the retry policy can tell them apart from hard rejections.
func classify(err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		if apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.HTTPStatusCode >= http.StatusInternalServerError {
			return ports.Transient(err)
		}
		return err
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ports.Transient(err)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ports.Transient(err)
	}

	return err
}

// Package openai provides an ImageGenerator implementation using OpenAI.
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

const imagePrompt = `Product photo for a social media marketing post: %s.
Warm natural light, clean background, appetizing artisanal styling.`

// Client implements the ImageGenerator interface using the OpenAI image API.
type Client struct {
	client *openai.Client
	model  string
	size   string
}

// NewClient creates a new OpenAI image generation client.
func NewClient(cfg config.ImageConfig) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	client := openai.NewClient(cfg.APIKey)

	model := openai.CreateImageModelDallE3
	if cfg.Model != "" {
		model = cfg.Model
	}
	size := openai.CreateImageSize1024x1024
	if cfg.Size != "" {
		size = cfg.Size
	}

	return &Client{
		client: client,
		model:  model,
		size:   size,
	}, nil
}

// GenerateImage produces an image for the subject. The returned URL is the
// opaque image reference callers store verbatim.
func (c *Client) GenerateImage(ctx context.Context, subject string) (string, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         fmt.Sprintf(imagePrompt, subject),
		Model:          c.model,
		N:              1,
		Size:           c.size,
		ResponseFormat: openai.CreateImageResponseFormatURL,
	})
	if err != nil {
		return "", classify(fmt.Errorf("calling OpenAI image API: %w", err))
	}

	if len(resp.Data) == 0 {
		return "", errors.New("no image returned from OpenAI")
	}

	return resp.Data[0].URL, nil
}

// classify wraps retryable provider failures so the retry policy can tell
// them apart from hard rejections.
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

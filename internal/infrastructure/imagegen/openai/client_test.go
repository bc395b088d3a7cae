package openai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/infrastructure/config"
)

func TestNewClient(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewClient(config.ImageConfig{})
		require.Error(t, err)
	})

	t.Run("defaults", func(t *testing.T) {
		c, err := NewClient(config.ImageConfig{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, "dall-e-3", c.model)
		assert.Equal(t, "1024x1024", c.size)
	})

	t.Run("custom model and size", func(t *testing.T) {
		c, err := NewClient(config.ImageConfig{APIKey: "sk-test", Model: "dall-e-2", Size: "512x512"})
		require.NoError(t, err)
		assert.Equal(t, "dall-e-2", c.model)
		assert.Equal(t, "512x512", c.size)
	})
}

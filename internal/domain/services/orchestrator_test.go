package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/mocks"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

func TestOrchestratorGenerateText(t *testing.T) {
	text := &mocks.TextGenerator{PostText: "🍯 Fresh rose vinegar is here!"}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	out, err := orch.GenerateText(context.Background(), "rose vinegar", DefaultPostOptions())
	require.NoError(t, err)
	assert.Equal(t, "🍯 Fresh rose vinegar is here!", out)
	assert.Equal(t, 1, text.Calls())
}

func TestOrchestratorGenerateTextTransientExhaustion(t *testing.T) {
	text := &mocks.TextGenerator{Err: ports.Transient(errors.New("rate limited"))}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	_, err := orch.GenerateText(context.Background(), "rose vinegar", DefaultPostOptions())
	require.Error(t, err)
	assert.Equal(t, 3, text.Calls())

	var genErr *entities.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, entities.GenerationText, genErr.Kind)
}

func TestOrchestratorGenerateTextPermanentFailureNoRetry(t *testing.T) {
	text := &mocks.TextGenerator{Err: errors.New("content policy violation")}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	_, err := orch.GenerateText(context.Background(), "rose vinegar", DefaultPostOptions())
	require.Error(t, err)
	assert.Equal(t, 1, text.Calls())
	assert.True(t, entities.IsGeneration(err))
}

func TestOrchestratorGenerateTextRecoversAfterTransientFailures(t *testing.T) {
	text := &mocks.TextGenerator{
		PostText:  "🍯 Honey soap, back in stock",
		Err:       ports.Transient(errors.New("upstream timeout")),
		FailFirst: 2,
	}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	out, err := orch.GenerateText(context.Background(), "honey soap", DefaultPostOptions())
	require.NoError(t, err)
	assert.Equal(t, "🍯 Honey soap, back in stock", out)
	assert.Equal(t, 3, text.Calls())
}

func TestOrchestratorGenerateImage(t *testing.T) {
	image := &mocks.ImageGenerator{ImageRef: "img_rose.png"}
	orch := NewOrchestrator(&mocks.TextGenerator{}, image, fastPolicy(3))

	ref, err := orch.GenerateImage(context.Background(), "rose vinegar")
	require.NoError(t, err)
	assert.Equal(t, "img_rose.png", ref)
}

func TestOrchestratorGenerateImageFailureKind(t *testing.T) {
	image := &mocks.ImageGenerator{Err: ports.Transient(errors.New("overloaded"))}
	orch := NewOrchestrator(&mocks.TextGenerator{}, image, fastPolicy(2))

	_, err := orch.GenerateImage(context.Background(), "rose vinegar")
	require.Error(t, err)
	assert.Equal(t, 2, image.Calls())

	var genErr *entities.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, entities.GenerationImage, genErr.Kind)
}

func TestOrchestratorRegenerateTextImprovesExisting(t *testing.T) {
	text := &mocks.TextGenerator{ImprovedFmt: "improved per: %s"}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	draft := &entities.Draft{Subject: "rose vinegar", Text: "old copy"}
	out, err := orch.RegenerateText(context.Background(), draft, "make it shorter")
	require.NoError(t, err)
	assert.Equal(t, "improved per: make it shorter", out)
	assert.Equal(t, 1, text.ImproveCalls)
	assert.Zero(t, text.PostCalls)
}

func TestOrchestratorRegenerateTextEmptyDraftGeneratesFresh(t *testing.T) {
	text := &mocks.TextGenerator{PostText: "brand new copy"}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	draft := &entities.Draft{Subject: "rose vinegar"}
	out, err := orch.RegenerateText(context.Background(), draft, "")
	require.NoError(t, err)
	assert.Equal(t, "brand new copy", out)
	assert.Equal(t, 1, text.PostCalls)
	assert.Zero(t, text.ImproveCalls)
}

func TestOrchestratorRegenerateTextDefaultInstruction(t *testing.T) {
	text := &mocks.TextGenerator{ImprovedFmt: "%s"}
	orch := NewOrchestrator(text, &mocks.ImageGenerator{}, fastPolicy(3))

	draft := &entities.Draft{Subject: "rose vinegar", Text: "old copy"}
	out, err := orch.RegenerateText(context.Background(), draft, "")
	require.NoError(t, err)
	assert.Contains(t, out, "fresh angle")
}

package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/mocks"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
)

func TestSimilarityIndexDraft(t *testing.T) {
	embedder := &mocks.Embedder{Vector: []float32{0.5, 0.5}}
	index := mocks.NewVectorIndex()
	svc := NewSimilarityService(embedder, index)

	draft := &entities.Draft{ID: "draft-1", Subject: "rose vinegar", Text: "🍯 Fresh rose vinegar!"}
	require.NoError(t, svc.IndexDraft(context.Background(), draft))

	assert.Equal(t, "rose vinegar\n🍯 Fresh rose vinegar!", embedder.LastText)
	assert.Contains(t, index.Indexed, "draft-1")
}

func TestSimilarityIndexDraftWithoutText(t *testing.T) {
	embedder := &mocks.Embedder{Vector: []float32{0.5}}
	svc := NewSimilarityService(embedder, mocks.NewVectorIndex())

	draft := &entities.Draft{ID: "draft-1", Subject: "rose vinegar"}
	require.NoError(t, svc.IndexDraft(context.Background(), draft))
	assert.Equal(t, "rose vinegar", embedder.LastText)
}

func TestSimilarityIndexDraftEmbedderFailure(t *testing.T) {
	embedder := &mocks.Embedder{Err: assert.AnError}
	svc := NewSimilarityService(embedder, mocks.NewVectorIndex())

	err := svc.IndexDraft(context.Background(), &entities.Draft{ID: "draft-1", Subject: "x"})
	require.Error(t, err)
}

func TestSimilarityFindSimilar(t *testing.T) {
	embedder := &mocks.Embedder{Vector: []float32{0.5, 0.5}}
	index := mocks.NewVectorIndex()
	index.Matches = []ports.DraftMatch{
		{DraftID: "draft-1", Subject: "rose vinegar", Status: entities.StatusPublished, Score: 0.93},
		{DraftID: "draft-2", Subject: "rose soap", Status: entities.StatusDraft, Score: 0.71},
	}
	svc := NewSimilarityService(embedder, index)

	matches, err := svc.FindSimilar(context.Background(), "rose products", 10)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "draft-1", matches[0].DraftID)
	assert.Equal(t, "rose products", embedder.LastText)
}

func TestSimilarityFindSimilarDefaultLimit(t *testing.T) {
	embedder := &mocks.Embedder{Vector: []float32{0.5}}
	index := mocks.NewVectorIndex()
	for i := 0; i < DefaultSimilarLimit+3; i++ {
		index.Matches = append(index.Matches, ports.DraftMatch{DraftID: "d", Score: 0.5})
	}
	svc := NewSimilarityService(embedder, index)

	matches, err := svc.FindSimilar(context.Background(), "anything", 0)
	require.NoError(t, err)
	assert.Len(t, matches, DefaultSimilarLimit)
}

func TestSimilarityRemoveDraft(t *testing.T) {
	index := mocks.NewVectorIndex()
	index.Indexed["draft-1"] = []float32{0.1}
	svc := NewSimilarityService(&mocks.Embedder{}, index)

	require.NoError(t, svc.RemoveDraft(context.Background(), "draft-1"))
	assert.NotContains(t, index.Indexed, "draft-1")
}

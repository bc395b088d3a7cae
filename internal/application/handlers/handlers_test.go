package handlers

import (
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/mocks"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

func newTestGateway() *services.Gateway {
	store := mocks.NewDraftStore()
	text := &mocks.TextGenerator{PostText: "post copy"}
	image := &mocks.ImageGenerator{ImageRef: "img.png"}
	orch := services.NewOrchestrator(text, image, services.RetryPolicy{
		MaxAttempts:     3,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Retryable:       ports.IsTransient,
	})
	log := logrus.New()
	log.SetOutput(io.Discard)
	return services.NewGateway(store, orch, nil, nil, log)
}

func TestDraftHandler_CreateAndReads(t *testing.T) {
	handler := NewDraftHandler(newTestGateway())

	draft, err := handler.Create(t.Context(), "rose vinegar")
	require.NoError(t, err)
	assert.Equal(t, "post copy", draft.Text)

	got, err := handler.Get(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, draft.ID, got.ID)

	list, err := handler.List(t.Context(), "draft")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	history, err := handler.History(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}

func TestDraftHandler_ListUnknownStatus(t *testing.T) {
	handler := NewDraftHandler(newTestGateway())

	_, err := handler.List(t.Context(), "limbo")
	require.Error(t, err)
}

func TestDraftHandler_Delete(t *testing.T) {
	gateway := newTestGateway()
	handler := NewDraftHandler(gateway)

	draft, err := handler.Create(t.Context(), "rose vinegar")
	require.NoError(t, err)

	require.NoError(t, handler.Delete(t.Context(), draft.ID))

	_, err = handler.Get(t.Context(), draft.ID)
	require.Error(t, err)
	assert.True(t, entities.IsNotFound(err))
}

func TestReviewHandler_Lifecycle(t *testing.T) {
	gateway := newTestGateway()
	drafts := NewDraftHandler(gateway)
	review := NewReviewHandler(gateway)

	draft, err := drafts.Create(t.Context(), "rose vinegar")
	require.NoError(t, err)

	edited, err := review.EditText(t.Context(), draft.ID, "better copy", entities.SourceChat)
	require.NoError(t, err)
	assert.Equal(t, "better copy", edited.Text)

	approved, err := review.Approve(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusApproved, approved.Status)

	published, err := review.Publish(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusPublished, published.Status)
}

func TestReviewHandler_Reject(t *testing.T) {
	gateway := newTestGateway()
	drafts := NewDraftHandler(gateway)
	review := NewReviewHandler(gateway)

	draft, err := drafts.Create(t.Context(), "rose vinegar")
	require.NoError(t, err)

	rejected, err := review.Reject(t.Context(), draft.ID)
	require.NoError(t, err)
	assert.Equal(t, entities.StatusRejected, rejected.Status)

	_, err = review.Approve(t.Context(), draft.ID)
	require.Error(t, err)
	assert.True(t, entities.IsInvalidTransition(err))
}

func TestSimilarHandler_Handle(t *testing.T) {
	embedder := &mocks.Embedder{Vector: []float32{0.1}}
	index := mocks.NewVectorIndex()
	index.Matches = []ports.DraftMatch{{DraftID: "d1", Subject: "rose vinegar", Score: 0.9}}
	handler := NewSimilarHandler(services.NewSimilarityService(embedder, index))

	result, err := handler.Handle(t.Context(), "rose products", 5)
	require.NoError(t, err)
	assert.Equal(t, "rose products", result.Subject)
	require.Len(t, result.Matches, 1)
	assert.Equal(t, "d1", result.Matches[0].DraftID)
}

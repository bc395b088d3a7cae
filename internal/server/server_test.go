package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/mocks"
	"github.com/okriashvili/draftdeck/internal/domain/ports"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

type apiFixture struct {
	text  *mocks.TextGenerator
	image *mocks.ImageGenerator
	index *mocks.VectorIndex
	ts    *httptest.Server
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	f := &apiFixture{
		text:  &mocks.TextGenerator{PostText: "post copy"},
		image: &mocks.ImageGenerator{ImageRef: "img.png"},
		index: mocks.NewVectorIndex(),
	}

	store := mocks.NewDraftStore()
	orch := services.NewOrchestrator(f.text, f.image, services.RetryPolicy{
		MaxAttempts:     2,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Retryable:       ports.IsTransient,
	})
	similarity := services.NewSimilarityService(&mocks.Embedder{Vector: []float32{0.1}}, f.index)
	gateway := services.NewGateway(store, orch, nil, similarity, log)
	scheduler := services.NewScheduler(gateway, time.Hour, log)

	srv, err := New(
		handlers.NewDraftHandler(gateway),
		handlers.NewReviewHandler(gateway),
		handlers.NewSimilarHandler(similarity),
		scheduler,
		log,
	)
	require.NoError(t, err)

	f.ts = httptest.NewServer(srv.Routes())
	t.Cleanup(f.ts.Close)
	return f
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, f.ts.URL+path, reader)
	require.NoError(t, err)

	resp, err := f.ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func (f *apiFixture) createDraft(t *testing.T, subject string) entities.Draft {
	t.Helper()
	resp, body := f.do(t, http.MethodPost, "/api/drafts", map[string]string{"subject": subject})
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var draft entities.Draft
	require.NoError(t, json.Unmarshal(body, &draft))
	return draft
}

func TestCreateDraft(t *testing.T) {
	f := newAPIFixture(t)

	draft := f.createDraft(t, "rose vinegar")
	assert.Equal(t, "rose vinegar", draft.Subject)
	assert.Equal(t, "post copy", draft.Text)
	assert.Equal(t, "img.png", draft.ImageRef)
	assert.Equal(t, entities.StatusDraft, draft.Status)
}

func TestCreateDraftGenerationFailureReturnsPartial(t *testing.T) {
	f := newAPIFixture(t)
	f.text.Err = ports.Transient(errors.New("rate limited"))

	resp, body := f.do(t, http.MethodPost, "/api/drafts", map[string]string{"subject": "rose vinegar"})
	require.Equal(t, http.StatusBadGateway, resp.StatusCode)

	// The partial draft comes back so the client can retry.
	var draft entities.Draft
	require.NoError(t, json.Unmarshal(body, &draft))
	assert.NotEmpty(t, draft.ID)
	assert.Empty(t, draft.Text)
	assert.Equal(t, "img.png", draft.ImageRef)
}

func TestCreateDraftBadBody(t *testing.T) {
	f := newAPIFixture(t)

	req, err := http.NewRequest(http.MethodPost, f.ts.URL+"/api/drafts", bytes.NewBufferString("{"))
	require.NoError(t, err)
	resp, err := f.ts.Client().Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestListDrafts(t *testing.T) {
	f := newAPIFixture(t)
	f.createDraft(t, "first")
	f.createDraft(t, "second")

	resp, body := f.do(t, http.MethodGet, "/api/drafts", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list []entities.Draft
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Len(t, list, 2)

	resp, _ = f.do(t, http.MethodGet, "/api/drafts?status=published", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/drafts?status=limbo", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetDraft(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, body := f.do(t, http.MethodGet, "/api/drafts/"+draft.ID, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var got entities.Draft
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, draft.ID, got.ID)

	resp, _ = f.do(t, http.MethodGet, "/api/drafts/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestLifecycleRoutes(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, body := f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var approved entities.Draft
	require.NoError(t, json.Unmarshal(body, &approved))
	assert.Equal(t, entities.StatusApproved, approved.Status)

	// Approving twice conflicts.
	resp, _ = f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body = f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/publish", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var published entities.Draft
	require.NoError(t, json.Unmarshal(body, &published))
	assert.Equal(t, entities.StatusPublished, published.Status)
	assert.NotNil(t, published.PublishedAt)
}

func TestPublishFromDraftConflicts(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, _ := f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/publish", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEditText(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, body := f.do(t, http.MethodPut, "/api/drafts/"+draft.ID+"/text", map[string]string{"text": "new copy"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var edited entities.Draft
	require.NoError(t, json.Unmarshal(body, &edited))
	assert.Equal(t, "new copy", edited.Text)

	// Source defaults to the dashboard.
	resp, body = f.do(t, http.MethodGet, "/api/drafts/"+draft.ID+"/history", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var history []entities.EditHistoryEntry
	require.NoError(t, json.Unmarshal(body, &history))
	require.Len(t, history, 2)
	assert.Equal(t, entities.SourceDashboard, history[1].Source)

	resp, _ = f.do(t, http.MethodPut, "/api/drafts/"+draft.ID+"/text", map[string]string{"text": "x", "source": "martian"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegenerateRoutes(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")
	f.text.ImprovedFmt = "rewritten (%s)"
	f.image.ImageRef = "img_v2.png"

	resp, body := f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/regenerate-text", map[string]string{"instruction": "shorter"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated entities.Draft
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "rewritten (shorter)", updated.Text)

	resp, body = f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/regenerate-image", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "img_v2.png", updated.ImageRef)
}

func TestRegenerateTextFailureMapsToBadGateway(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")
	f.text.Err = ports.Transient(errors.New("overloaded"))

	resp, _ := f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/regenerate-text", nil)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestScheduleRoutes(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")
	at := time.Now().Add(time.Hour).UTC().Truncate(time.Second)

	// Draft not approved yet.
	resp, _ := f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/schedule", map[string]any{"at": at})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/approve", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPost, "/api/drafts/"+draft.ID+"/schedule", map[string]any{"at": at})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/scheduled", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var scheduled map[string]time.Time
	require.NoError(t, json.Unmarshal(body, &scheduled))
	assert.Contains(t, scheduled, draft.ID)
}

func TestScheduleMissingTime(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, _ := f.do(t, http.MethodPost, fmt.Sprintf("/api/drafts/%s/schedule", draft.ID), map[string]any{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestSimilarRoute(t *testing.T) {
	f := newAPIFixture(t)
	f.index.Matches = []ports.DraftMatch{{DraftID: "d1", Subject: "rose vinegar", Score: 0.9}}

	resp, body := f.do(t, http.MethodGet, "/api/similar?subject=rose", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var matches []ports.DraftMatch
	require.NoError(t, json.Unmarshal(body, &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "d1", matches[0].DraftID)

	resp, _ = f.do(t, http.MethodGet, "/api/similar", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/similar?subject=rose&limit=nope", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestDeleteDraft(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, _ := f.do(t, http.MethodDelete, "/api/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = f.do(t, http.MethodGet, "/api/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = f.do(t, http.MethodDelete, "/api/drafts/"+draft.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	f := newAPIFixture(t)
	draft := f.createDraft(t, "rose vinegar")

	resp, _ := f.do(t, http.MethodDelete, "/api/drafts/"+draft.ID+"/approve", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, _ = f.do(t, http.MethodPut, "/api/drafts", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

// Package server exposes the dashboard JSON API over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/okriashvili/draftdeck/internal/application/handlers"
	"github.com/okriashvili/draftdeck/internal/domain/entities"
	"github.com/okriashvili/draftdeck/internal/domain/services"
)

// Server serves the dashboard API. scheduler and similar may be nil, in
// which case their routes answer 503.
type Server struct {
	drafts    *handlers.DraftHandler
	review    *handlers.ReviewHandler
	similar   *handlers.SimilarHandler
	scheduler *services.Scheduler
	log       logrus.FieldLogger
}

// New creates a dashboard API server.
func New(drafts *handlers.DraftHandler, review *handlers.ReviewHandler, similar *handlers.SimilarHandler, scheduler *services.Scheduler, log logrus.FieldLogger) (*Server, error) {
	if drafts == nil || review == nil {
		return nil, errors.New("draft and review handlers are required")
	}
	if log == nil {
		log = logrus.StandardLogger()
	}

	return &Server{
		drafts:    drafts,
		review:    review,
		similar:   similar,
		scheduler: scheduler,
		log:       log,
	}, nil
}

// Routes returns the HTTP handler with all API routes mounted.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/drafts", s.handleDrafts)
	mux.HandleFunc("/api/drafts/", s.handleDraftByID)
	mux.HandleFunc("/api/scheduled", s.handleScheduled)
	mux.HandleFunc("/api/similar", s.handleSimilar)
	return s.logMiddleware(mux)
}

// --- Handlers ---

type createDraftReq struct {
	Subject string `json:"subject"`
}

type editTextReq struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}

type regenerateTextReq struct {
	Instruction string `json:"instruction"`
}

type scheduleReq struct {
	At time.Time `json:"at"`
}

func (s *Server) handleDrafts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req createDraftReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		draft, err := s.drafts.Create(r.Context(), req.Subject)
		if err != nil {
			// A generation failure may still have produced a partial draft.
			if draft != nil && entities.IsGeneration(err) {
				s.log.WithError(err).WithField("draft_id", draft.ID).Warn("draft created with failed generation")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusBadGateway)
				_ = json.NewEncoder(w).Encode(draft)
				return
			}
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, draft)
	case http.MethodGet:
		list, err := s.drafts.List(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, http.StatusOK, list)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleDraftByID(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/api/drafts/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	id, action, _ := strings.Cut(rest, "/")

	switch {
	case action == "" && r.Method == http.MethodGet:
		draft, err := s.drafts.Get(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, draft)

	case action == "" && r.Method == http.MethodDelete:
		if err := s.drafts.Delete(r.Context(), id); err != nil {
			s.writeError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)

	case action == "history" && r.Method == http.MethodGet:
		history, err := s.drafts.History(r.Context(), id)
		if err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, history)

	case action == "approve" && r.Method == http.MethodPost:
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.Approve(r.Context(), id)
		})

	case action == "reject" && r.Method == http.MethodPost:
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.Reject(r.Context(), id)
		})

	case action == "publish" && r.Method == http.MethodPost:
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.Publish(r.Context(), id)
		})

	case action == "text" && r.Method == http.MethodPut:
		var req editTextReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		source := entities.EditSource(req.Source)
		if req.Source == "" {
			source = entities.SourceDashboard
		}
		if !source.Valid() {
			http.Error(w, "unknown edit source", http.StatusBadRequest)
			return
		}
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.EditText(r.Context(), id, req.Text, source)
		})

	case action == "regenerate-text" && r.Method == http.MethodPost:
		var req regenerateTextReq
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.RegenerateText(r.Context(), id, req.Instruction)
		})

	case action == "regenerate-image" && r.Method == http.MethodPost:
		s.respondDraft(w, r, func() (*entities.Draft, error) {
			return s.review.RegenerateImage(r.Context(), id)
		})

	case action == "schedule" && r.Method == http.MethodPost:
		if s.scheduler == nil {
			http.Error(w, "scheduling unavailable", http.StatusServiceUnavailable)
			return
		}
		var req scheduleReq
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.At.IsZero() {
			http.Error(w, "at is required", http.StatusBadRequest)
			return
		}
		if err := s.scheduler.Schedule(r.Context(), id, req.At); err != nil {
			s.writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"draft_id": id, "at": req.At})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleScheduled(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.scheduler == nil {
		http.Error(w, "scheduling unavailable", http.StatusServiceUnavailable)
		return
	}
	writeJSON(w, http.StatusOK, s.scheduler.Scheduled())
}

func (s *Server) handleSimilar(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if s.similar == nil {
		http.Error(w, "similarity search unavailable", http.StatusServiceUnavailable)
		return
	}

	subject := r.URL.Query().Get("subject")
	if subject == "" {
		http.Error(w, "subject is required", http.StatusBadRequest)
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	result, err := s.similar.Handle(r.Context(), subject, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result.Matches)
}

// --- Helpers ---

func (s *Server) respondDraft(w http.ResponseWriter, _ *http.Request, op func() (*entities.Draft, error)) {
	draft, err := op()
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// writeError maps domain errors onto HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case entities.IsNotFound(err):
		http.Error(w, err.Error(), http.StatusNotFound)
	case entities.IsInvalidTransition(err):
		http.Error(w, err.Error(), http.StatusConflict)
	case entities.IsGeneration(err):
		http.Error(w, err.Error(), http.StatusBadGateway)
	default:
		s.log.WithError(err).Error("request failed")
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) logMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.log.WithFields(logrus.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"duration": time.Since(start),
		}).Debug("request handled")
	})
}

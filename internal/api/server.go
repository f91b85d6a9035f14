// File path: internal/api/server.go
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	chi "github.com/go-chi/chi/v5"

	"github.com/meditrainhq/meditrain/internal/cases"
	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/diagnosis"
	"github.com/meditrainhq/meditrain/internal/llm"
	"github.com/meditrainhq/meditrain/internal/patient"
	"github.com/meditrainhq/meditrain/internal/report"
	"github.com/meditrainhq/meditrain/internal/session"
	"github.com/meditrainhq/meditrain/internal/symptom"
)

// Server wires the training-platform services behind the HTTP API.
type Server struct {
	router    chi.Router
	store     *cases.Store
	extractor *symptom.Extractor
	registry  *diagnosis.Registry
	patient   *patient.Service
	reports   *report.Service
	sessions  *session.Store
	provider  llm.Provider
}

// NewServer builds the router around already-constructed services. The
// session store may be nil; session endpoints then report the feature as
// unavailable.
func NewServer(store *cases.Store, extractor *symptom.Extractor, registry *diagnosis.Registry,
	patientSvc *patient.Service, reports *report.Service, sessions *session.Store, provider llm.Provider) (*Server, error) {
	if store == nil {
		return nil, errors.New("case store required")
	}
	if extractor == nil {
		return nil, errors.New("symptom extractor required")
	}
	if registry == nil {
		return nil, errors.New("diagnosis registry required")
	}
	if patientSvc == nil {
		return nil, errors.New("patient service required")
	}
	if reports == nil {
		return nil, errors.New("report service required")
	}
	if provider == nil {
		return nil, errors.New("language model provider required")
	}
	srv := &Server{
		router:    chi.NewRouter(),
		store:     store,
		extractor: extractor,
		registry:  registry,
		patient:   patientSvc,
		reports:   reports,
		sessions:  sessions,
		provider:  provider,
	}
	srv.routes()
	common.Logger().Info("api: server ready", "provider", provider.Name(), "sessions", sessions != nil)
	return srv, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	logger := common.Logger()
	logger.Info("api: configuring routes")
	s.router.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("request", "method", r.Method, "path", r.URL.Path, "dur", time.Since(start), "remote", r.RemoteAddr)
		})
	})

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Get("/v1/status", s.handleStatus)
	s.router.Get("/v1/logs", s.handleLogs)
	s.router.Get("/v1/cases", s.handleCases)
	s.router.Post("/v1/extract-symptoms", s.handleExtractSymptoms)
	s.router.Post("/v1/chat", s.handleChat)
	s.router.Post("/v1/chat-diagnose", s.handleChatDiagnose)
	s.router.Post("/v1/predict-diagnosis", s.handlePredict)
	s.router.Post("/v1/diagnosis", s.handleDiagnosis)
	s.router.Post("/v1/extract", s.handleExtract)
	s.router.Post("/v1/train", s.handleTrain)
	s.router.Post("/v1/report", s.handleReport)
	s.router.Post("/v1/report/pdf", s.handleReportPDF)
	s.router.Get("/v1/sessions", s.handleSessions)
	s.router.Post("/v1/sessions", s.handleStartSession)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{
		Status:       "ok",
		Provider:     s.provider.Name(),
		ModelTrained: s.registry.Trained(),
		Cases:        len(summaries),
	})
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	entries := common.LogEntries()
	writeJSON(w, http.StatusOK, map[string]interface{}{"entries": entries})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, err error) {
	logger := common.Logger()
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", "status", status, "error", err)
	} else {
		logger.Warn("request failed", "status", status, "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

// writeDomainError maps the service error taxonomy onto HTTP statuses:
// validation problems are 400s, a missing model is a 409 carrying its
// remediation message, concurrent training is a 409, unknown cases are 404s.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cases.ErrNotFound), errors.Is(err, session.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.Is(err, diagnosis.ErrInvalidGender),
		errors.Is(err, diagnosis.ErrNoRecognizedSymptoms),
		errors.Is(err, diagnosis.ErrEmptyCorpus):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, diagnosis.ErrModelUnavailable),
		errors.Is(err, diagnosis.ErrTrainingInProgress):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}

// File path: internal/api/session_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meditrainhq/meditrain/internal/session"
)

func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("session store unavailable"))
		return
	}
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("email required"))
		return
	}
	list, err := s.sessions.Sessions(r.Context(), email)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if list == nil {
		list = []session.Summary{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	if s.sessions == nil {
		writeError(w, http.StatusServiceUnavailable, fmt.Errorf("session store unavailable"))
		return
	}
	var req startSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Email) == "" || strings.TrimSpace(req.CaseID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("email and case_id required"))
		return
	}
	if _, err := s.store.Load(req.CaseID); err != nil {
		writeDomainError(w, err)
		return
	}
	sess, err := s.sessions.Start(r.Context(), req.Email, req.CaseID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusCreated, sess)
}

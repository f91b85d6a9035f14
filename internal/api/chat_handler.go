// File path: internal/api/chat_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	ctx := r.Context()
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("api: chat decode failed", "error", err)
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.CaseID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("case_id required"))
		return
	}

	sessionID := strings.TrimSpace(req.SessionID)
	if s.sessions != nil && sessionID == "" && strings.TrimSpace(req.Email) != "" {
		sess, err := s.sessions.Start(ctx, req.Email, req.CaseID)
		if err != nil {
			logger.Warn("api: session start failed", "error", err)
		} else {
			sessionID = sess.ID
		}
	}

	reply := s.patient.Chat(ctx, req.CaseID, req.Message)

	if s.sessions != nil && sessionID != "" {
		if err := s.sessions.Append(ctx, sessionID, "user", req.Message); err != nil {
			logger.Warn("api: session append failed", "session", sessionID, "error", err)
		} else if err := s.sessions.Append(ctx, sessionID, "assistant", reply); err != nil {
			logger.Warn("api: session append failed", "session", sessionID, "error", err)
		}
	}

	writeJSON(w, http.StatusOK, chatResponse{Reply: reply, SessionID: sessionID})
}

func (s *Server) handleChatDiagnose(w http.ResponseWriter, r *http.Request) {
	var req chatDiagnoseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("message required"))
		return
	}
	result, err := s.patient.ChatDiagnose(r.Context(), req.Message, req.Age, req.Gender)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req extractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Conversation) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("conversation required"))
		return
	}
	diagnosisText, treatmentText := s.patient.ExtractAnswer(r.Context(), req.Conversation)
	writeJSON(w, http.StatusOK, extractResponse{Diagnosis: diagnosisText, Treatment: treatmentText})
}

// File path: internal/api/diagnosis_handler.go
package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meditrainhq/meditrain/internal/common"
	"github.com/meditrainhq/meditrain/internal/grade"
)

func (s *Server) handleExtractSymptoms(w http.ResponseWriter, r *http.Request) {
	var req extractSymptomsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("text required"))
		return
	}
	symptoms := s.extractor.Extract(r.Context(), req.Text)
	if symptoms == nil {
		symptoms = []string{}
	}
	writeJSON(w, http.StatusOK, extractSymptomsResponse{Symptoms: symptoms})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	label, err := s.registry.Predict(r.Context(), req.Symptoms, req.Age, req.Gender)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, predictResponse{Diagnosis: label})
}

func (s *Server) handleTrain(w http.ResponseWriter, r *http.Request) {
	logger := common.Logger()
	corpus, err := s.store.LoadAll()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	logger.Info("api: training requested", "corpus", len(corpus))
	metrics, err := s.registry.Train(r.Context(), corpus)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, metrics)
}

// handleDiagnosis grades a trainee's submitted diagnosis and treatment
// against the case's reference answers. When the submission fields are empty
// but a transcript is present, the answers are first pulled out of the
// transcript by the language model.
func (s *Server) handleDiagnosis(w http.ResponseWriter, r *http.Request) {
	var req diagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.CaseID) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("case_id required"))
		return
	}
	rec, err := s.store.Load(req.CaseID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	diagnosisText, treatmentText := req.Diagnosis, req.Treatment
	if strings.TrimSpace(diagnosisText) == "" && strings.TrimSpace(treatmentText) == "" &&
		strings.TrimSpace(req.Conversation) != "" {
		diagnosisText, treatmentText = s.patient.ExtractAnswer(r.Context(), req.Conversation)
	}
	writeJSON(w, http.StatusOK, grade.Grade(rec, diagnosisText, treatmentText))
}

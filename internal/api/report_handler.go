// File path: internal/api/report_handler.go
package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/meditrainhq/meditrain/internal/report"
)

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req report.Input
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("name required"))
		return
	}
	if strings.TrimSpace(req.Diagnosis) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("diagnosis required"))
		return
	}
	narrative, err := s.reports.Narrative(r.Context(), req)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, narrativeReportResponse{Report: narrative})
}

func (s *Server) handleReportPDF(w http.ResponseWriter, r *http.Request) {
	var req pdfReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if strings.TrimSpace(req.PatientName) == "" {
		writeError(w, http.StatusBadRequest, fmt.Errorf("patient_name required"))
		return
	}
	var buf bytes.Buffer
	err := report.WritePDF(&buf, report.Document{
		SessionID:   req.SessionID,
		PatientName: req.PatientName,
		Symptoms:    req.Symptoms,
		Diagnosis:   req.Diagnosis,
		Treatment:   req.Treatment,
		Remarks:     req.Remarks,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	filename := "report.pdf"
	if id := strings.TrimSpace(req.SessionID); id != "" {
		filename = fmt.Sprintf("report_%s.pdf", id)
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

// File path: internal/api/cases_handler.go
package api

import (
	"net/http"

	"github.com/meditrainhq/meditrain/internal/cases"
)

func (s *Server) handleCases(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if summaries == nil {
		summaries = []cases.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

package http

import (
	"net/http"

	"fintrack/internal/log"
	"fintrack/internal/storage"
)

func (s *Server) handleInvestmentsPage(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	s.render(w, r, http.StatusOK, "investments.html", s.newPage("Investments", "investments", sess))
}

func (s *Server) handleInvestmentsPanel(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	report, err := s.finance.Investments(r.Context(), backendSession(sess))
	if err != nil {
		s.writeError(w, r, sess, log.OpRead, err)
		return
	}
	s.render(w, r, http.StatusOK, "investments_panel", report)
}

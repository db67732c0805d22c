package http

import (
	"encoding/json"
	"net/http"
	"net/url"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

type statsPanel struct {
	services.StatsView
	// Query reproduces the filter for chart requests.
	Query string
}

type statsPage struct {
	pageData
	Selected core.Selector
}

func (s *Server) handleStatsPage(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	income, expense, err := s.finance.Categories(r.Context(), backendSession(sess))
	if err != nil {
		s.writeError(w, r, sess, log.OpList, err)
		return
	}
	data := statsPage{pageData: s.newPage("Statistics", "stats", sess), Selected: core.RangeMonth}
	data.IncomeCategories = income
	data.ExpenseCategories = expense
	data.Selectors = core.Selectors
	s.render(w, r, http.StatusOK, "stats.html", data)
}

// loadStats runs a stats query under the sequencer. ok is false when the
// response was already written, including 204 for a superseded request.
func (s *Server) loadStats(w http.ResponseWriter, r *http.Request, sess storage.Session, key string) (services.StatsView, url.Values, bool) {
	q := r.URL.Query()
	sq, err := ParseStatsQuery(q, s.today())
	if err != nil {
		s.writeError(w, r, sess, log.OpValidate, err)
		return services.StatsView{}, nil, false
	}

	ctx, ticket := s.sequencer.Begin(r.Context(), sess.ID+"|"+key)
	defer ticket.Done()

	view, err := s.finance.Stats(ctx, backendSession(sess), sq)
	if !ticket.Current() {
		s.logger.DebugContext(r.Context(), "Dropping superseded stats response",
			log.FieldUsername, sess.Username, log.FieldRange, sq.Selector)
		w.WriteHeader(http.StatusNoContent)
		return services.StatsView{}, nil, false
	}
	if err != nil {
		s.writeError(w, r, sess, log.OpStats, err)
		return services.StatsView{}, nil, false
	}
	return view, q, true
}

func (s *Server) handleStatsPanel(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	view, q, ok := s.loadStats(w, r, sess, "stats")
	if !ok {
		return
	}
	chartQuery := url.Values{}
	for _, k := range []string{"range", "start_date", "end_date", "category"} {
		if v := q.Get(k); v != "" {
			chartQuery.Set(k, v)
		}
	}
	s.render(w, r, http.StatusOK, "stats_panel", statsPanel{StatsView: view, Query: chartQuery.Encode()})
}

// handleStatsChart returns ApexCharts options: a bar chart of both kinds, or
// a pie of one kind with type=income|expense.
func (s *Server) handleStatsChart(w http.ResponseWriter, r *http.Request, sess storage.Session) {
	chartType := r.URL.Query().Get("type")
	if chartType == "" {
		chartType = "bar"
	}
	if chartType != "bar" && chartType != "income" && chartType != "expense" {
		BadRequestError("Unknown chart type").Write(w)
		return
	}

	view, _, ok := s.loadStats(w, r, sess, "chart-"+chartType)
	if !ok {
		return
	}

	var (
		opts json.RawMessage
		err  error
	)
	switch chartType {
	case "income":
		opts, err = core.BuildPie(view.Summary.IncomeByCategory).ApexOptions("Income by Category")
	case "expense":
		opts, err = core.BuildPie(view.Summary.ExpenseByCategory).ApexOptions("Expenses by Category")
	default:
		opts, err = view.Chart.ApexOptions()
	}
	if err != nil {
		s.structured.LogError(r.Context(), "Chart encoding failed", err, log.ComponentHTTP, log.OpStats,
			log.NewFields().WithUser(sess.Username))
		InternalServerError("Chart unavailable").Write(w)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(opts)
}

package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	const key = "summary"
	if sum, ok := s.summaryCache.Get(key); ok {
		writeJSON(w, http.StatusOK, sum)
		return
	}
	sum := report.Totals(s.ledger.List())
	s.summaryCache.Set(key, sum)
	writeJSON(w, http.StatusOK, sum)
}

// handleBreakdown returns per-category totals for one type; the expense
// breakdown is the default since that is what the category chart shows.
func (s *Server) handleBreakdown(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	t, present, ok := parseTypeParam(r.URL.Query())
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown transaction type")
		return
	}
	if !present {
		t = core.Expense
	}

	key := "breakdown:" + string(t)
	if out, ok := s.breakdownCache.Get(key); ok {
		writeJSON(w, http.StatusOK, out)
		return
	}
	out := report.CategoryBreakdown(s.ledger.List(), t)
	if out == nil {
		out = []report.CategoryTotal{}
	}
	s.breakdownCache.Set(key, out)
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleTrend(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	start, end, err := parseTrendRange(r.URL.Query(), time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	key := "trend:" + start.String() + ":" + end.String()
	if series, ok := s.trendCache.Get(key); ok {
		writeJSON(w, http.StatusOK, series)
		return
	}
	series := report.DailySeries(s.ledger.List(), start, end)
	s.trendCache.Set(key, series)
	writeJSON(w, http.StatusOK, series)
}

// handleAlerts evaluates the rule set against the current collection.
// Alerts depend on evaluation time, so they are never cached.
func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	alerts := report.EvaluateAlerts(s.ledger.List(), time.Now(), s.policy)
	if alerts == nil {
		alerts = []report.Alert{}
	}
	writeJSON(w, http.StatusOK, alerts)
}

// handleCategories serves the soft suggestion lists used by entry forms.
func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	t, present, ok := parseTypeParam(r.URL.Query())
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown transaction type")
		return
	}
	if present {
		writeJSON(w, http.StatusOK, core.CategoriesFor(t))
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{
		"income":  core.CategoriesFor(core.Income),
		"expense": core.CategoriesFor(core.Expense),
	})
}

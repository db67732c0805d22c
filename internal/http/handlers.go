package http

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// handleHealth reports liveness only; it never touches dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
		"uptime":    time.Since(s.startedAt).String(),
	})
}

// handleReady performs readiness check with dependency verification
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	status := "ready"
	httpStatus := http.StatusOK
	checks := make(map[string]any)

	if s.templates == nil {
		checks["templates"] = "failed: templates not loaded"
		status = "not_ready"
		httpStatus = http.StatusServiceUnavailable
	} else {
		checks["templates"] = "ok"
	}

	for _, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			checks[c.Name] = fmt.Sprintf("failed: %v", err)
			status = "not_ready"
			httpStatus = http.StatusServiceUnavailable
			continue
		}
		checks[c.Name] = "ok"
	}

	checks["rate_limiter"] = map[string]any{
		"active_clients": s.limiter.ActiveClients(),
		"status":         "ok",
	}

	writeJSON(w, httpStatus, map[string]any{
		"status":    status,
		"timestamp": time.Now().Format(time.RFC3339),
		"checks":    checks,
	})
}

// handleMetrics provides application and security metrics in plain text format
func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	sec := s.detector.GetMetrics()
	rl := s.limiter.GetMetrics()
	tr := s.tracer.GetMetrics()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)

	metric := func(name, help, typ string, v any) {
		fmt.Fprintf(w, "# HELP %s %s\n# TYPE %s %s\n%s %v\n\n", name, help, name, typ, name, v)
	}
	metric("http_requests_total", "Total number of HTTP requests", "counter", tr.TotalRequests)
	metric("http_response_time_avg_microseconds", "Average response time", "gauge", tr.AverageResponseTime)
	metric("stats_cache_entries", "Cached statistics views", "gauge", s.finance.CachedViews())
	metric("backend_requests_in_flight", "Sequenced backend reads in flight", "gauge", s.sequencer.InFlight())
	metric("rate_limit_hits_total", "Total rate limit hits", "counter", rl.TotalHits)
	metric("active_rate_limit_clients", "Currently tracked rate limit clients", "gauge", rl.ClientCount)
	metric("suspicious_requests_total", "Total suspicious requests detected", "counter", sec.SuspiciousRequests)
	metric("uptime_seconds", "Application uptime in seconds", "gauge", int64(time.Since(s.startedAt).Seconds()))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

package trace

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fintrack/internal/log"
)

func TestMiddlewareTagsRequests(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(log.Config{
		Level:     slog.LevelDebug,
		Component: log.ComponentHTTP,
		Handler:   slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}),
	})
	m := NewMiddleware(logger, func(*http.Request) string { return "198.51.100.1" })

	var seenID string
	var seenLogger *log.Logger
	h := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID = GetRequestID(r.Context())
		seenLogger = log.FromContext(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))

	if !strings.HasPrefix(seenID, "req_") {
		t.Fatalf("request id = %q", seenID)
	}
	if rec.Header().Get(RequestIDHeader) != seenID {
		t.Errorf("response header id = %q, want %q", rec.Header().Get(RequestIDHeader), seenID)
	}
	if seenLogger == nil || seenLogger.Component() != log.ComponentHTTP {
		t.Error("request logger not stored in context")
	}

	out := buf.String()
	for _, want := range []string{"HTTP request started", "HTTP request completed", "status_code=418", "client_ip=198.51.100.1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	if got := m.GetMetrics().TotalRequests; got != 1 {
		t.Errorf("TotalRequests = %d, want 1", got)
	}
}

func TestGenerateRequestIDUnique(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := GenerateRequestID()
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
}

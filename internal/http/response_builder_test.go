package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func triggers(t *testing.T, w *httptest.ResponseRecorder) map[string]json.RawMessage {
	t.Helper()
	raw := w.Header().Get("HX-Trigger")
	require.NotEmpty(t, raw, "HX-Trigger header not set")
	var events map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(raw), &events))
	return events
}

func TestHTMXResponseBuilder_TransactionCreated(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTransactionCreated(core.KindExpense).
		TriggerFormReset().
		TriggerStatsRefresh().
		TriggerSuccessNotification("Expense added").
		BodyHTML(`<div class="success">ok</div>`).
		Write(w)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, `<div class="success">ok</div>`, w.Body.String())

	events := triggers(t, w)
	assert.JSONEq(t, `{"kind":"expense"}`, string(events[EventTransactionCreated]))
	assert.JSONEq(t, `{}`, string(events[EventFormReset]))
	assert.JSONEq(t, `{}`, string(events[EventStatsRefresh]))
	assert.JSONEq(t, `{"type":"success","message":"Expense added","duration":3000}`,
		string(events[EventNotification]))
}

func TestHTMXResponseBuilder_DeleteAndCategories(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerTransactionDeleted(core.KindIncome, 42).
		TriggerCategoriesChanged(core.KindIncome).
		Write(w)

	events := triggers(t, w)
	assert.JSONEq(t, `{"kind":"income","id":42}`, string(events[EventTransactionDeleted]))
	assert.JSONEq(t, `{"kind":"income"}`, string(events[EventCategoriesChanged]))
	assert.Empty(t, w.Body.String())
}

func TestHTMXResponseBuilder_NotificationDurations(t *testing.T) {
	tests := []struct {
		kind NotificationType
		want int64
	}{
		{NotificationSuccess, 3000},
		{NotificationInfo, 3000},
		{NotificationError, 5000},
		{NotificationWarning, 8000},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			w := httptest.NewRecorder()
			NewHTMXResponse().Notify(tt.kind, "msg").Write(w)

			var n notification
			require.NoError(t, json.Unmarshal(triggers(t, w)[EventNotification], &n))
			assert.Equal(t, tt.kind, n.Type)
			assert.Equal(t, tt.want, n.Duration)
		})
	}
}

func TestHTMXResponseBuilder_LastNotificationWins(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().
		TriggerSuccessNotification("Expense added").
		TriggerWarningNotification("Limit exceeded for Food").
		Write(w)

	var n notification
	require.NoError(t, json.Unmarshal(triggers(t, w)[EventNotification], &n))
	assert.Equal(t, NotificationWarning, n.Type)
	assert.Equal(t, "Limit exceeded for Food", n.Message)
}

func TestHTMXResponseBuilder_NoTriggersNoHeader(t *testing.T) {
	w := httptest.NewRecorder()
	NewHTMXResponse().Status(http.StatusCreated).Header("X-Custom", "value").Write(w)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "value", w.Header().Get("X-Custom"))
	assert.Empty(t, w.Header().Get("HX-Trigger"))
}

func TestUnauthorizedResponse(t *testing.T) {
	w := httptest.NewRecorder()
	UnauthorizedResponse().Write(w)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name       string
		builder    *HTMXResponseBuilder
		wantStatus int
		wantBody   string
		wantToast  bool
	}{
		{"bad request", BadRequestError("Invalid input"), http.StatusBadRequest, `<div class="error">Invalid input</div>`, false},
		{"internal", InternalServerError("Something broke"), http.StatusInternalServerError, `<div class="error">Something broke</div>`, false},
		{"fail", Fail(http.StatusBadGateway, "Backend down"), http.StatusBadGateway, `<div class="error">Backend down</div>`, true},
		{"escaped", Fail(http.StatusUnprocessableEntity, "<b>x</b>"), http.StatusUnprocessableEntity, `<div class="error">&lt;b&gt;x&lt;/b&gt;</div>`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.builder.Write(w)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
			if !tt.wantToast {
				assert.Empty(t, w.Header().Get("HX-Trigger"))
				return
			}
			var n notification
			require.NoError(t, json.Unmarshal(triggers(t, w)[EventNotification], &n))
			assert.Equal(t, NotificationError, n.Type)
		})
	}
}

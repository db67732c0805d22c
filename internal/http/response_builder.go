package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"fintrack/internal/core"
)

// Client-side events raised through HX-Trigger. app.js and the templates
// listen for these names.
const (
	EventTransactionCreated = "transaction:created"
	EventTransactionDeleted = "transaction:deleted"
	EventCategoriesChanged  = "categories:changed"
	EventFormReset          = "form:reset"
	EventStatsRefresh       = "stats:refresh"
	EventNotification       = "show-notification"
)

// NotificationType is the severity of a toast shown by app.js.
type NotificationType string

const (
	NotificationSuccess NotificationType = "success"
	NotificationError   NotificationType = "error"
	NotificationWarning NotificationType = "warning"
	NotificationInfo    NotificationType = "info"
)

// How long each toast stays on screen. Limit warnings linger.
var notificationTTL = map[NotificationType]time.Duration{
	NotificationSuccess: 3 * time.Second,
	NotificationInfo:    3 * time.Second,
	NotificationError:   5 * time.Second,
	NotificationWarning: 8 * time.Second,
}

type notification struct {
	Type     NotificationType `json:"type"`
	Message  string           `json:"message"`
	Duration int64            `json:"duration"`
}

// HTMXResponseBuilder assembles status, headers, HX-Trigger events and body
// for an htmx partial response.
type HTMXResponseBuilder struct {
	status   int
	header   http.Header
	triggers map[string]any
	body     string
}

// NewHTMXResponse starts a 200 response with no triggers.
func NewHTMXResponse() *HTMXResponseBuilder {
	return &HTMXResponseBuilder{
		status:   http.StatusOK,
		header:   make(http.Header),
		triggers: make(map[string]any),
	}
}

func (b *HTMXResponseBuilder) Status(code int) *HTMXResponseBuilder {
	b.status = code
	return b
}

func (b *HTMXResponseBuilder) Header(name, value string) *HTMXResponseBuilder {
	b.header.Set(name, value)
	return b
}

// Trigger queues a client event. A later trigger with the same name wins.
func (b *HTMXResponseBuilder) Trigger(event string, detail any) *HTMXResponseBuilder {
	if detail == nil {
		detail = struct{}{}
	}
	b.triggers[event] = detail
	return b
}

func (b *HTMXResponseBuilder) TriggerTransactionCreated(kind core.Kind) *HTMXResponseBuilder {
	return b.Trigger(EventTransactionCreated, map[string]string{"kind": string(kind)})
}

func (b *HTMXResponseBuilder) TriggerTransactionDeleted(kind core.Kind, id int64) *HTMXResponseBuilder {
	return b.Trigger(EventTransactionDeleted, map[string]any{"kind": string(kind), "id": id})
}

// TriggerCategoriesChanged makes category lists and selects of kind reload.
func (b *HTMXResponseBuilder) TriggerCategoriesChanged(kind core.Kind) *HTMXResponseBuilder {
	return b.Trigger(EventCategoriesChanged, map[string]string{"kind": string(kind)})
}

func (b *HTMXResponseBuilder) TriggerFormReset() *HTMXResponseBuilder {
	return b.Trigger(EventFormReset, nil)
}

// TriggerStatsRefresh asks the statistics panel and chart to reload.
func (b *HTMXResponseBuilder) TriggerStatsRefresh() *HTMXResponseBuilder {
	return b.Trigger(EventStatsRefresh, nil)
}

// Notify queues a toast. Only one toast is shown per response.
func (b *HTMXResponseBuilder) Notify(kind NotificationType, message string) *HTMXResponseBuilder {
	return b.Trigger(EventNotification, notification{
		Type:     kind,
		Message:  message,
		Duration: notificationTTL[kind].Milliseconds(),
	})
}

func (b *HTMXResponseBuilder) TriggerSuccessNotification(message string) *HTMXResponseBuilder {
	return b.Notify(NotificationSuccess, message)
}

func (b *HTMXResponseBuilder) TriggerWarningNotification(message string) *HTMXResponseBuilder {
	return b.Notify(NotificationWarning, message)
}

func (b *HTMXResponseBuilder) TriggerErrorNotification(message string) *HTMXResponseBuilder {
	return b.Notify(NotificationError, message)
}

// Redirect makes htmx perform a full client-side navigation to url.
func (b *HTMXResponseBuilder) Redirect(url string) *HTMXResponseBuilder {
	return b.Header("HX-Redirect", url)
}

// BodyHTML sets an already-escaped HTML fragment as the body.
func (b *HTMXResponseBuilder) BodyHTML(html string) *HTMXResponseBuilder {
	b.header.Set("Content-Type", "text/html; charset=utf-8")
	b.body = html
	return b
}

// Write flushes headers, the HX-Trigger event map, status and body to w.
func (b *HTMXResponseBuilder) Write(w http.ResponseWriter) {
	for name, values := range b.header {
		w.Header()[name] = values
	}
	if len(b.triggers) > 0 {
		if events, err := json.Marshal(b.triggers); err == nil {
			w.Header().Set("HX-Trigger", string(events))
		}
	}
	w.WriteHeader(b.status)
	if b.body != "" {
		_, _ = w.Write([]byte(b.body))
	}
}

// ErrorResponse renders message, escaped, inside an error div.
func ErrorResponse(status int, message string) *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(status).
		BodyHTML(`<div class="error">` + template.HTMLEscapeString(message) + `</div>`)
}

// Fail is ErrorResponse plus an error toast carrying the same message.
func Fail(status int, message string) *HTMXResponseBuilder {
	return ErrorResponse(status, message).TriggerErrorNotification(message)
}

func BadRequestError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusBadRequest, message)
}

func InternalServerError(message string) *HTMXResponseBuilder {
	return ErrorResponse(http.StatusInternalServerError, message)
}

// UnauthorizedResponse sends the browser to the login page.
func UnauthorizedResponse() *HTMXResponseBuilder {
	return NewHTMXResponse().
		Status(http.StatusUnauthorized).
		Redirect("/login")
}

package http

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/storage"
)

// pageData is the common model for full pages.
type pageData struct {
	Title    string
	Active   string
	Username string
	Today    string
	Error    string
	Notice   string

	IncomeCategories  []core.Category
	ExpenseCategories []core.Category
	Selectors         []core.Selector
}

func (s *Server) newPage(title, active string, sess storage.Session) pageData {
	return pageData{
		Title:    title,
		Active:   active,
		Username: sess.Username,
		Today:    s.today().String(),
	}
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"money": func(m core.Money) string { return formatMoney(m) },
		"date":  func(d core.Date) string { return d.String() },
		"label": func(k core.Kind) string { return k.Label() },
		"limit": func(m *core.Money) string {
			if m == nil {
				return ""
			}
			return m.String()
		},
		"negative": func(m core.Money) bool { return m.Cents < 0 },
		"kinds":    func() []core.Kind { return []core.Kind{core.KindIncome, core.KindExpense} },
		"selectorLabel": func(sel core.Selector) string {
			switch sel {
			case core.RangeAll:
				return "All time"
			case core.RangeCustom:
				return "Custom range"
			}
			return "Last " + string(sel)
		},
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values for sub-templates.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, errors.New("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		k, ok := pairs[i].(string)
		if !ok {
			return nil, errors.New("dict: keys must be strings")
		}
		m[k] = pairs[i+1]
	}
	return m, nil
}

// formatMoney renders an amount with a thousands separator ("1,234.50").
func formatMoney(m core.Money) string {
	s := m.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}

// render executes a template into a buffer first so a failure never leaves a
// half-written page.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, data any) {
	body, err := s.execute(r, name, data)
	if err != nil {
		InternalServerError("Rendering failed").Write(w)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func (s *Server) execute(r *http.Request, name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.structured.LogError(r.Context(), "Template execution failed", err,
			log.ComponentTemplate, log.OpRender, log.NewFields().WithHTTPRequest(r.Method, r.URL.Path, "", "", ""))
		return "", err
	}
	return buf.String(), nil
}

func isValidationError(err error) bool {
	for _, target := range []error{
		core.ErrInvalidKind, core.ErrInvalidAmount, core.ErrInvalidDate,
		core.ErrEmptyName, core.ErrNegativeLimit, core.ErrLimitOnIncome,
		core.ErrDescriptionTooLong, core.ErrProtectedCategory, core.ErrInvertedRange,
		core.ErrInvalidRangeSelector, services.ErrInvalidCategoryFilter, errInvalidID,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps a failed operation to an htmx response. A rejected token
// ends the session.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, sess storage.Session, op string, err error) {
	ctx := r.Context()
	var apiErr *backend.APIError

	switch {
	case errors.Is(err, backend.ErrUnauthorized):
		s.logger.InfoContext(ctx, "Backend rejected token, ending session",
			log.FieldUsername, sess.Username, log.FieldOperation, op)
		s.endSession(w, r, sess)
		s.toLogin(w, r)

	case errors.Is(err, context.Canceled):
		// client went away or a newer request superseded this one

	case isValidationError(err):
		msg := capitalize(err.Error())
		Fail(http.StatusUnprocessableEntity, msg).Write(w)

	case errors.As(err, &apiErr) && apiErr.Status < 500:
		msg := apiErr.Detail
		if msg == "" {
			msg = http.StatusText(apiErr.Status)
		}
		status := http.StatusUnprocessableEntity
		if apiErr.Status == http.StatusNotFound {
			status = http.StatusNotFound
		}
		Fail(status, msg).Write(w)

	default:
		s.structured.LogError(ctx, "Operation failed", err, log.ComponentBackend, op,
			log.NewFields().WithUser(sess.Username))
		const msg = "The finance service is unavailable. Please try again."
		Fail(http.StatusBadGateway, msg).Write(w)
	}
}

func templateEscape(s string) string {
	return template.HTMLEscapeString(s)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

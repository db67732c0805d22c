// Package http provides HTTP server and handler implementations.
//
// This file implements utilities for parsing and validating HTTP request data:
// form or JSON bodies for transactions and categories, stats query strings,
// and path values.

package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

const maxBodyBytes = 1 << 20

var errInvalidID = errors.New("invalid id")

// RequestBodyParser handles different content types for request body parsing.
// It supports both JSON and form-encoded data, commonly used with HTMX.
type RequestBodyParser struct {
	body        []byte
	contentType string
	jsonData    map[string]any
	formData    url.Values
	parsed      bool
	err         error
}

// NewRequestBodyParser reads the body once and stores it for subsequent parsing.
func NewRequestBodyParser(r *http.Request) *RequestBodyParser {
	p := &RequestBodyParser{
		contentType: r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		p.body, p.err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	}
	return p
}

// Parse attempts to parse the body as JSON or form data.
func (p *RequestBodyParser) Parse() error {
	if p.parsed {
		return p.err
	}
	p.parsed = true

	if p.err != nil {
		return p.err
	}

	if len(p.body) == 0 {
		p.formData = url.Values{}
		return nil
	}

	if p.body[0] == '{' {
		p.jsonData = make(map[string]any)
		if err := json.Unmarshal(p.body, &p.jsonData); err != nil {
			p.err = err
			return err
		}
		return nil
	}

	p.formData, p.err = url.ParseQuery(string(p.body))
	return p.err
}

// Get returns a sanitized string value from the parsed data (JSON or form).
func (p *RequestBodyParser) Get(key string) string {
	if p.jsonData != nil {
		if val, ok := p.jsonData[key]; ok {
			return sanitizeInput(stringValue(val))
		}
		return ""
	}
	if p.formData != nil {
		return sanitizeInput(p.formData.Get(key))
	}
	return ""
}

// IsJSON returns true if the parsed content was JSON.
func (p *RequestBodyParser) IsJSON() bool {
	return p.jsonData != nil
}

func stringValue(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return ""
	}
}

// sanitizeInput removes control characters except tab/newline and trims whitespace.
func sanitizeInput(s string) string {
	return strings.TrimSpace(strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s))
}

// ParseTransactionInput reads amount, description, date and category_id.
// An empty date means today; an empty category leaves the backend default.
func ParseTransactionInput(p *RequestBodyParser, today core.Date) (backend.TransactionInput, error) {
	cents, err := core.ParseDecimalToCents(p.Get("amount"))
	if err != nil {
		return backend.TransactionInput{}, err
	}
	in := backend.TransactionInput{
		Amount:      core.Money{Cents: cents},
		Description: p.Get("description"),
		Date:        today,
	}
	if v := p.Get("date"); v != "" {
		if in.Date, err = core.ParseDate(v); err != nil {
			return backend.TransactionInput{}, err
		}
	}
	if v := p.Get("category_id"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil || id <= 0 {
			return backend.TransactionInput{}, fmt.Errorf("category: %w", errInvalidID)
		}
		in.CategoryID = &id
	}
	return in, nil
}

// ParseCategoryInput reads name and, for expense categories, an optional limit.
func ParseCategoryInput(p *RequestBodyParser, kind core.Kind) (backend.CategoryInput, error) {
	in := backend.CategoryInput{Name: p.Get("name")}
	if in.Name == "" {
		return backend.CategoryInput{}, core.ErrEmptyName
	}
	raw := p.Get("limit")
	if raw == "" {
		return in, nil
	}
	if kind != core.KindExpense {
		return backend.CategoryInput{}, core.ErrLimitOnIncome
	}
	cents, err := core.ParseLimitToCents(raw)
	if err != nil {
		return backend.CategoryInput{}, err
	}
	in.Limit = &core.Money{Cents: cents}
	return in, nil
}

// ParseStatsQuery reads range, start_date, end_date and category from a query string.
func ParseStatsQuery(q url.Values, today core.Date) (services.StatsQuery, error) {
	sel, err := core.ParseSelector(q.Get("range"))
	if err != nil {
		return services.StatsQuery{}, err
	}
	sq := services.StatsQuery{Selector: sel, Today: today}

	if sel == core.RangeCustom {
		if v := strings.TrimSpace(q.Get("start_date")); v != "" {
			d, err := core.ParseDate(v)
			if err != nil {
				return services.StatsQuery{}, err
			}
			sq.Custom.Start = &d
		}
		if v := strings.TrimSpace(q.Get("end_date")); v != "" {
			d, err := core.ParseDate(v)
			if err != nil {
				return services.StatsQuery{}, err
			}
			sq.Custom.End = &d
		}
	}

	if sq.Category, err = services.ParseCategoryFilter(q.Get("category")); err != nil {
		return services.StatsQuery{}, err
	}
	return sq, nil
}

// pathKind reads the {kind} path value.
func pathKind(r *http.Request) (core.Kind, error) {
	return core.ParseKind(r.PathValue("kind"))
}

// pathID reads the {id} path value.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

package backend

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/core"
)

var (
	// ErrUnauthorized means the bearer token was rejected; the user must log in again.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInvalidCredentials is returned by Login for a wrong username or password.
	ErrInvalidCredentials = errors.New("incorrect username or password")
)

// APIError is a non-2xx backend response.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("backend returned %d", e.Status)
	}
	return fmt.Sprintf("backend returned %d: %s", e.Status, e.Detail)
}

// Unwrap lets errors.Is(err, ErrUnauthorized) match 401 responses.
func (e *APIError) Unwrap() error {
	if e.Status == 401 {
		return ErrUnauthorized
	}
	return nil
}

// LimitWarning is the backend's notice that an expense pushed its category
// over the configured limit. The expense itself was recorded.
type LimitWarning struct {
	Message  string
	Limit    core.Money
	Total    core.Money
	Exceeded core.Money
}

func (w *LimitWarning) Error() string {
	if w.Message != "" {
		return w.Message
	}
	return fmt.Sprintf("category limit %s exceeded by %s (total %s)", w.Limit, w.Exceeded, w.Total)
}

type limitDetail struct {
	Message  string          `json:"message"`
	Limit    *core.Money     `json:"limit"`
	Total    *core.Money     `json:"total"`
	Exceeded json.RawMessage `json:"exceeded"`
	Expense  json.RawMessage `json:"expense"`
}

// parseDetail decodes FastAPI's {"detail": ...} body. detail is a string,
// an object (possibly a limit warning) or a list of validation errors.
func parseDetail(body []byte) (msg string, warning *LimitWarning, created json.RawMessage) {
	var env struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &env); err != nil || len(env.Detail) == 0 {
		return strings.TrimSpace(string(body)), nil, nil
	}

	var s string
	if err := json.Unmarshal(env.Detail, &s); err == nil {
		return s, nil, nil
	}

	var obj limitDetail
	if err := json.Unmarshal(env.Detail, &obj); err == nil {
		if w := obj.warning(); w != nil {
			return w.Error(), w, obj.Expense
		}
		if obj.Message != "" {
			return obj.Message, nil, nil
		}
	}

	var list []struct {
		Loc []any  `json:"loc"`
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(env.Detail, &list); err == nil && len(list) > 0 {
		parts := make([]string, 0, len(list))
		for _, item := range list {
			if len(item.Loc) > 0 {
				parts = append(parts, fmt.Sprintf("%v: %s", item.Loc[len(item.Loc)-1], item.Msg))
			} else {
				parts = append(parts, item.Msg)
			}
		}
		return strings.Join(parts, "; "), nil, nil
	}

	return string(env.Detail), nil, nil
}

func (d limitDetail) warning() *LimitWarning {
	if d.Limit == nil || d.Total == nil {
		return nil
	}
	w := &LimitWarning{Message: d.Message, Limit: *d.Limit, Total: *d.Total}

	// exceeded is either the overshoot amount or a boolean flag
	var over core.Money
	if err := json.Unmarshal(d.Exceeded, &over); err == nil && !over.IsZero() {
		w.Exceeded = over
	} else {
		w.Exceeded = d.Total.Sub(*d.Limit)
	}
	return w
}

package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"fintrack/internal/backend"
	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (a *app) client() (*backend.Client, error) {
	return backend.New(a.v.GetString("server"), backend.WithUserAgent("fintrack-cli/"+version))
}

// authed returns a client and the stored session.
func (a *app) authed() (*backend.Client, backend.Session, error) {
	s, err := a.loadSession()
	if err != nil {
		return nil, backend.Session{}, err
	}
	c, err := a.client()
	if err != nil {
		return nil, backend.Session{}, err
	}
	return c, backend.Session{Token: s.Token}, nil
}

// check turns a rejected token into a logout.
func (a *app) check(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrUnauthorized) {
		_ = a.removeSession()
		return errors.New("session is no longer valid, please log in again")
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return errors.New(apiErr.Detail)
	}
	return err
}

func finance(c *backend.Client) *services.FinanceService {
	return services.NewFinanceService(c, nil, nil, nil)
}

func parseKindFlag(s string) (core.Kind, error) {
	return core.ParseKind(s)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func limitText(m *core.Money) string {
	if m == nil {
		return "-"
	}
	return m.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

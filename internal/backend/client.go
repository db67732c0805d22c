// Package backend is the typed client for the finance REST backend.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
)

const maxResponseBytes = 4 << 20

type Client struct {
	base      *url.URL
	http      *http.Client
	userAgent string
}

// New returns a client for the backend rooted at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse backend url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("backend url %q: scheme must be http or https", baseURL)
	}
	c := &Client{
		base:      u,
		http:      &http.Client{Timeout: 10 * time.Second},
		userAgent: "fintrack",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping checks that the backend answers at all; any HTTP response counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/docs", nil), nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("backend unreachable: %w", err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Login(ctx context.Context, username, password string) (Session, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	var tok tokenResponse
	err := c.do(ctx, Session{}, http.MethodPost, "/token", nil,
		strings.NewReader(form.Encode()), "application/x-www-form-urlencoded", &tok)
	if errors.Is(err, ErrUnauthorized) {
		return Session{}, ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("login: %w", err)
	}
	if tok.AccessToken == "" {
		return Session{}, errors.New("login: backend returned no access token")
	}
	return Session{Token: tok.AccessToken}, nil
}

func (c *Client) Register(ctx context.Context, username, password string) error {
	body := map[string]string{"username": username, "password": password}
	if err := c.doJSON(ctx, Session{}, http.MethodPost, "/users/", body, nil); err != nil {
		return fmt.Errorf("register: %w", err)
	}
	return nil
}

func (c *Client) ListCategories(ctx context.Context, s Session, kind core.Kind) ([]core.Category, error) {
	if !kind.Valid() {
		return nil, core.ErrInvalidKind
	}
	var dtos []categoryDTO
	if err := c.do(ctx, s, http.MethodGet, kind.CategoriesPath(), nil, nil, "", &dtos); err != nil {
		return nil, fmt.Errorf("list %s categories: %w", kind, err)
	}
	out := make([]core.Category, len(dtos))
	for i, d := range dtos {
		out[i] = d.toCore(kind)
	}
	return out, nil
}

func (c *Client) CreateCategory(ctx context.Context, s Session, kind core.Kind, in CategoryInput) (core.Category, error) {
	if err := (core.Category{Name: in.Name, Kind: kind, Limit: in.Limit}).Validate(); err != nil {
		return core.Category{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	var dto categoryDTO
	if err := c.doJSON(ctx, s, http.MethodPost, kind.CategoriesPath(), in, &dto); err != nil {
		return core.Category{}, fmt.Errorf("create %s category: %w", kind, err)
	}
	return dto.toCore(kind), nil
}

func (c *Client) UpdateCategory(ctx context.Context, s Session, kind core.Kind, id int64, in CategoryInput) (core.Category, error) {
	if err := (core.Category{Name: in.Name, Kind: kind, Limit: in.Limit}).Validate(); err != nil {
		return core.Category{}, err
	}
	in.Name = strings.TrimSpace(in.Name)
	var dto categoryDTO
	path := kind.CategoriesPath() + strconv.FormatInt(id, 10)
	if err := c.doJSON(ctx, s, http.MethodPut, path, in, &dto); err != nil {
		return core.Category{}, fmt.Errorf("update %s category %d: %w", kind, id, err)
	}
	return dto.toCore(kind), nil
}

func (c *Client) DeleteCategory(ctx context.Context, s Session, kind core.Kind, id int64) error {
	if !kind.Valid() {
		return core.ErrInvalidKind
	}
	path := kind.CategoriesPath() + strconv.FormatInt(id, 10)
	if err := c.do(ctx, s, http.MethodDelete, path, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete %s category %d: %w", kind, id, err)
	}
	return nil
}

// CreateTransaction posts a new income or expense. For expenses a limit
// notice from the backend is returned as CreateResult.Warning, not an error.
func (c *Client) CreateTransaction(ctx context.Context, s Session, kind core.Kind, in TransactionInput) (CreateResult, error) {
	tx := core.Transaction{Kind: kind, Amount: in.Amount, Date: in.Date, Description: in.Description}
	if err := tx.Validate(); err != nil {
		return CreateResult{}, err
	}

	var raw json.RawMessage
	err := c.doJSON(ctx, s, http.MethodPost, kind.TransactionsPath(), in, &raw)

	var we *warningError
	if errors.As(err, &we) && kind == core.KindExpense {
		res := CreateResult{Warning: we.warning}
		if t, ok := decodeTransaction(we.created, kind); ok {
			res.Transaction = &t
		}
		return res, nil
	}
	if err != nil {
		return CreateResult{}, fmt.Errorf("create %s: %w", kind, err)
	}

	var res CreateResult
	if t, ok := decodeTransaction(raw, kind); ok {
		res.Transaction = &t
	}
	// some backends attach the notice to a successful response
	if kind == core.KindExpense {
		var body struct {
			Warning *limitDetail `json:"warning"`
		}
		if json.Unmarshal(raw, &body) == nil && body.Warning != nil {
			res.Warning = body.Warning.warning()
		}
	}
	return res, nil
}

func decodeTransaction(raw json.RawMessage, kind core.Kind) (core.Transaction, bool) {
	if len(raw) == 0 {
		return core.Transaction{}, false
	}
	var dto transactionDTO
	if err := json.Unmarshal(raw, &dto); err != nil || dto.ID == 0 {
		return core.Transaction{}, false
	}
	return dto.toCore(kind), true
}

func (c *Client) DeleteTransaction(ctx context.Context, s Session, kind core.Kind, id int64) error {
	if !kind.Valid() {
		return core.ErrInvalidKind
	}
	path := kind.TransactionsPath() + strconv.FormatInt(id, 10)
	if err := c.do(ctx, s, http.MethodDelete, path, nil, nil, "", nil); err != nil {
		return fmt.Errorf("delete %s %d: %w", kind, id, err)
	}
	return nil
}

// Finances fetches incomes and expenses matching f.
func (c *Client) Finances(ctx context.Context, s Session, f Filter) (Finances, error) {
	if err := f.Range.Validate(); err != nil {
		return Finances{}, err
	}
	q := url.Values{}
	if f.Range.Start != nil {
		q.Set("start_date", f.Range.Start.String())
	}
	if f.Range.End != nil {
		q.Set("end_date", f.Range.End.String())
	}
	if f.CategoryID != 0 {
		q.Set("category_id", strconv.FormatInt(f.CategoryID, 10))
		if f.CategoryKind != "" {
			q.Set("category_type", string(f.CategoryKind))
		}
	}

	var dto financesDTO
	if err := c.do(ctx, s, http.MethodGet, "/finances/", q, nil, "", &dto); err != nil {
		return Finances{}, fmt.Errorf("load finances: %w", err)
	}
	return Finances{
		Incomes:  toCoreTransactions(dto.Incomes, core.KindIncome),
		Expenses: toCoreTransactions(dto.Expenses, core.KindExpense),
	}, nil
}

func (c *Client) Investments(ctx context.Context, s Session) (InvestmentReport, error) {
	var rep InvestmentReport
	if err := c.do(ctx, s, http.MethodGet, "/finances/investments", nil, nil, "", &rep); err != nil {
		return InvestmentReport{}, fmt.Errorf("load investments: %w", err)
	}
	return rep, nil
}

// LoadCategoriesBoth fetches income and expense categories concurrently.
func LoadCategoriesBoth(ctx context.Context, api API, s Session) (income, expense []core.Category, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		income, err = api.ListCategories(ctx, s, core.KindIncome)
		return err
	})
	g.Go(func() error {
		var err error
		expense, err = api.ListCategories(ctx, s, core.KindExpense)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return income, expense, nil
}

// warningError carries a limit notice out of do for CreateTransaction.
type warningError struct {
	*APIError
	warning *LimitWarning
	created json.RawMessage
}

func (w *warningError) Unwrap() error { return w.APIError }

func (c *Client) doJSON(ctx context.Context, s Session, method, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	return c.do(ctx, s, method, path, nil, bytes.NewReader(body), "application/json", out)
}

func (c *Client) do(ctx context.Context, s Session, method, path string, q url.Values, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, q), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if !s.IsZero() {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	slog.DebugContext(ctx, "Backend call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, warning, created := parseDetail(data)
		apiErr := &APIError{Status: resp.StatusCode, Detail: msg}
		if warning != nil {
			return &warningError{APIError: apiErr, warning: warning, created: created}
		}
		return apiErr
	}

	if out == nil || resp.StatusCode == http.StatusNoContent || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(c.base.Path, "/") + path
	if len(q) > 0 {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

package backend

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fintrack/internal/core"
)

func newTestClient(t *testing.T, h http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithTimeout(2*time.Second))
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("ftp://example.com")
	assert.Error(t, err)
}

func TestLogin(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		if r.Form.Get("username") != "alice" || r.Form.Get("password") != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			io.WriteString(w, `{"detail":"Incorrect username or password"}`)
			return
		}
		io.WriteString(w, `{"access_token":"tok-1","token_type":"bearer"}`)
	})
	c := newTestClient(t, mux)

	s, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok-1", s.Token)

	_, err = c.Login(context.Background(), "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRegisterSurfacesDetail(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "bob", body["username"])
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":"Username already registered"}`)
	}))

	err := c.Register(context.Background(), "bob", "pw")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Username already registered", apiErr.Detail)
}

func TestListCategoriesSendsBearer(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "/finances/expense_categories/", r.URL.Path)
		io.WriteString(w, `[{"id":1,"name":"Food","limit":250.5},{"id":2,"name":"Uncategorized","limit":null}]`)
	}))

	cats, err := c.ListCategories(context.Background(), Session{Token: "tok"}, core.KindExpense)
	require.NoError(t, err)
	require.Len(t, cats, 2)
	assert.Equal(t, "Food", cats[0].Name)
	require.NotNil(t, cats[0].Limit)
	assert.Equal(t, int64(25050), cats[0].Limit.Cents)
	assert.Nil(t, cats[1].Limit)
	assert.Equal(t, core.KindExpense, cats[1].Kind)
}

func TestUnauthorized(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"detail":"Could not validate credentials"}`)
	}))

	_, err := c.ListCategories(context.Background(), Session{Token: "old"}, core.KindIncome)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestCategoryValidationIsLocal(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	limit := core.Money{Cents: 100}

	_, err := c.CreateCategory(context.Background(), Session{Token: "t"}, core.KindIncome, CategoryInput{Name: "Salary", Limit: &limit})
	assert.ErrorIs(t, err, core.ErrLimitOnIncome)
	_, err = c.UpdateCategory(context.Background(), Session{Token: "t"}, core.KindExpense, 3, CategoryInput{Name: "  "})
	assert.ErrorIs(t, err, core.ErrEmptyName)
	assert.Zero(t, calls.Load())
}

func TestUpdateCategory(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/finances/income_categories/7", r.URL.Path)
		var in CategoryInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&in))
		assert.Equal(t, "Bonus", in.Name)
		io.WriteString(w, `{"id":7,"name":"Bonus"}`)
	}))

	cat, err := c.UpdateCategory(context.Background(), Session{Token: "t"}, core.KindIncome, 7, CategoryInput{Name: " Bonus "})
	require.NoError(t, err)
	assert.Equal(t, int64(7), cat.ID)
	assert.Equal(t, "Bonus", cat.Name)
}

func TestCreateTransaction(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finances/incomes/", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, 1500.25, body["amount"])
		assert.Equal(t, "2024-06-10", body["date"])
		assert.Equal(t, float64(4), body["category_id"])
		io.WriteString(w, `{"id":11,"amount":1500.25,"description":"pay","date":"2024-06-10","category_id":4,"owner_id":1,"category":{"id":4,"name":"Salary"}}`)
	}))

	catID := int64(4)
	res, err := c.CreateTransaction(context.Background(), Session{Token: "t"}, core.KindIncome, TransactionInput{
		Amount:      core.Money{Cents: 150025},
		Description: "pay",
		Date:        core.NewDate(2024, 6, 10),
		CategoryID:  &catID,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Warning)
	require.NotNil(t, res.Transaction)
	assert.Equal(t, int64(11), res.Transaction.ID)
	assert.Equal(t, "Salary", res.Transaction.CategoryName())
	assert.Equal(t, int64(150025), res.Transaction.Amount.Cents)
}

func TestCreateExpenseLimitWarning(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		io.WriteString(w, `{"detail":{"message":"Limit exceeded for Food","limit":100,"total":120.5,"exceeded":20.5}}`)
	})
	c := newTestClient(t, handler)
	in := TransactionInput{Amount: core.Money{Cents: 3000}, Date: core.NewDate(2024, 6, 10)}

	res, err := c.CreateTransaction(context.Background(), Session{Token: "t"}, core.KindExpense, in)
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.Equal(t, "Limit exceeded for Food", res.Warning.Message)
	assert.Equal(t, int64(10000), res.Warning.Limit.Cents)
	assert.Equal(t, int64(12050), res.Warning.Total.Cents)
	assert.Equal(t, int64(2050), res.Warning.Exceeded.Cents)

	// the same body on an income is an ordinary error
	_, err = c.CreateTransaction(context.Background(), Session{Token: "t"}, core.KindIncome, in)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
}

func TestCreateTransactionValidatesLocally(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())
	_, err := c.CreateTransaction(context.Background(), Session{Token: "t"}, core.KindExpense, TransactionInput{Date: core.NewDate(2024, 1, 1)})
	assert.ErrorIs(t, err, core.ErrInvalidAmount)
}

func TestFinancesQueryAndDecode(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "2024-06-03", q.Get("start_date"))
		assert.Equal(t, "2024-06-10", q.Get("end_date"))
		assert.Equal(t, "12", q.Get("category_id"))
		assert.Equal(t, "income", q.Get("category_type"))
		io.WriteString(w, `{
			"incomes":[{"id":1,"amount":0.1,"description":null,"date":"2024-06-04","category":{"id":12,"name":"Salary"}}],
			"expenses":[{"id":2,"amount":0.2,"description":"x","date":"2024-06-05","category":null}]
		}`)
	}))

	start, end := core.NewDate(2024, 6, 3), core.NewDate(2024, 6, 10)
	f, err := c.Finances(context.Background(), Session{Token: "t"}, Filter{
		Range:        core.DateRange{Start: &start, End: &end},
		CategoryID:   12,
		CategoryKind: core.KindIncome,
	})
	require.NoError(t, err)
	require.Len(t, f.Incomes, 1)
	require.Len(t, f.Expenses, 1)
	assert.Equal(t, int64(10), f.Incomes[0].Amount.Cents)
	assert.Equal(t, core.KindIncome, f.Incomes[0].Kind)
	assert.Equal(t, core.Uncategorized, f.Expenses[0].CategoryName())
	assert.Equal(t, int64(30), core.TotalOf(append(f.Incomes, f.Expenses...)).Cents)
}

func TestFinancesUnboundedOmitsDates(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.RawQuery)
		io.WriteString(w, `{"incomes":[],"expenses":[]}`)
	}))
	f, err := c.Finances(context.Background(), Session{Token: "t"}, Filter{})
	require.NoError(t, err)
	assert.Empty(t, f.Incomes)
}

func TestInvestments(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/finances/investments", r.URL.Path)
		io.WriteString(w, `{"total_invested":300.3,"investments":[{"category":"Investments","sum":300.3,
			"expenses":[{"amount":100.1,"description":"ETF","date":"2024-01-02"},{"amount":200.2,"description":null,"date":"2024-02-02"}]}]}`)
	}))

	rep, err := c.Investments(context.Background(), Session{Token: "t"})
	require.NoError(t, err)
	assert.Equal(t, int64(30030), rep.TotalInvested.Cents)
	require.Len(t, rep.Investments, 1)
	assert.Len(t, rep.Investments[0].Expenses, 2)
	assert.Equal(t, "2024-02-02", rep.Investments[0].Expenses[1].Date.String())
}

func TestLoadCategoriesBoth(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/finances/income_categories/":
			io.WriteString(w, `[{"id":1,"name":"Salary"}]`)
		case "/finances/expense_categories/":
			io.WriteString(w, `[{"id":2,"name":"Food"},{"id":3,"name":"Rent"}]`)
		}
	}))

	inc, exp, err := LoadCategoriesBoth(context.Background(), c, Session{Token: "t"})
	require.NoError(t, err)
	assert.Len(t, inc, 1)
	assert.Len(t, exp, 2)
}

func TestLoadCategoriesBothFailsFast(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/finances/expense_categories/" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		io.WriteString(w, `[]`)
	}))

	_, _, err := LoadCategoriesBoth(context.Background(), c, Session{Token: "t"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
}

func TestCancelledContext(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Finances(ctx, Session{Token: "t"}, Filter{})
	assert.ErrorIs(t, err, context.Canceled)
}

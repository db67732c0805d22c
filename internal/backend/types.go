package backend

import (
	"fintrack/internal/core"
)

// CategoryInput is the body of category create/update: {name, limit?}.
type CategoryInput struct {
	Name  string      `json:"name"`
	Limit *core.Money `json:"limit,omitempty"`
}

// TransactionInput is the body of POST /finances/{incomes|expenses}/.
type TransactionInput struct {
	Amount      core.Money `json:"amount"`
	Description string     `json:"description,omitempty"`
	Date        core.Date  `json:"date"`
	CategoryID  *int64     `json:"category_id,omitempty"`
}

// CreateResult is the outcome of CreateTransaction. Warning is set when the
// expense was recorded but pushed its category over the limit; Transaction
// may then be nil if the backend did not echo the record.
type CreateResult struct {
	Transaction *core.Transaction
	Warning     *LimitWarning
}

// Filter narrows GET /finances/.
type Filter struct {
	Range        core.DateRange
	CategoryID   int64
	CategoryKind core.Kind // empty matches the id against both kinds
}

// Finances is the GET /finances/ payload.
type Finances struct {
	Incomes  []core.Transaction
	Expenses []core.Transaction
}

// InvestmentReport is the GET /finances/investments payload.
type InvestmentReport struct {
	TotalInvested core.Money   `json:"total_invested"`
	Investments   []Investment `json:"investments"`
}

type Investment struct {
	Category string              `json:"category"`
	Sum      core.Money          `json:"sum"`
	Expenses []InvestmentExpense `json:"expenses"`
}

type InvestmentExpense struct {
	Date        core.Date  `json:"date"`
	Amount      core.Money `json:"amount"`
	Description string     `json:"description"`
}

// Wire shapes of backend responses.

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type categoryDTO struct {
	ID    int64       `json:"id"`
	Name  string      `json:"name"`
	Limit *core.Money `json:"limit"`
}

func (d categoryDTO) toCore(kind core.Kind) core.Category {
	c := core.Category{ID: d.ID, Name: d.Name, Kind: kind}
	if kind == core.KindExpense {
		c.Limit = d.Limit
	}
	return c
}

type transactionDTO struct {
	ID          int64        `json:"id"`
	Amount      core.Money   `json:"amount"`
	Description *string      `json:"description"`
	Date        core.Date    `json:"date"`
	Category    *categoryDTO `json:"category"`
}

func (d transactionDTO) toCore(kind core.Kind) core.Transaction {
	t := core.Transaction{
		ID:     d.ID,
		Kind:   kind,
		Amount: d.Amount,
		Date:   d.Date,
	}
	if d.Description != nil {
		t.Description = *d.Description
	}
	if d.Category != nil {
		t.Category = &core.CategoryRef{ID: d.Category.ID, Name: d.Category.Name}
	}
	return t
}

type financesDTO struct {
	Incomes  []transactionDTO `json:"incomes"`
	Expenses []transactionDTO `json:"expenses"`
}

func toCoreTransactions(in []transactionDTO, kind core.Kind) []core.Transaction {
	out := make([]core.Transaction, len(in))
	for i, d := range in {
		out[i] = d.toCore(kind)
	}
	return out
}

package backend

import (
	"context"

	"fintrack/internal/core"
)

// API is the finance REST backend as seen by the rest of the application.
// *Client implements it; tests substitute fakes.
type API interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Register(ctx context.Context, username, password string) error

	ListCategories(ctx context.Context, s Session, kind core.Kind) ([]core.Category, error)
	CreateCategory(ctx context.Context, s Session, kind core.Kind, in CategoryInput) (core.Category, error)
	UpdateCategory(ctx context.Context, s Session, kind core.Kind, id int64, in CategoryInput) (core.Category, error)
	DeleteCategory(ctx context.Context, s Session, kind core.Kind, id int64) error

	CreateTransaction(ctx context.Context, s Session, kind core.Kind, in TransactionInput) (CreateResult, error)
	DeleteTransaction(ctx context.Context, s Session, kind core.Kind, id int64) error

	Finances(ctx context.Context, s Session, f Filter) (Finances, error)
	Investments(ctx context.Context, s Session) (InvestmentReport, error)
}

var _ API = (*Client)(nil)

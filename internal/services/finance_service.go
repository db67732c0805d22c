package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/backend"
	"fintrack/internal/cache"
	"fintrack/internal/core"
)

// ErrInvalidCategoryFilter is returned for a category select value that is
// neither "all" nor "<kind>-<id>".
var ErrInvalidCategoryFilter = errors.New("invalid category filter")

// ActivityPublisher receives activity events after successful writes.
// *amqp.Client implements it.
type ActivityPublisher interface {
	PublishActivity(ctx context.Context, event *amqp.ActivityEvent) error
}

// CategoryFilter narrows statistics to one category. The zero value means all.
type CategoryFilter struct {
	Kind core.Kind
	ID   int64
}

// ParseCategoryFilter reads the select encoding "all", "income-12" or "expense-7".
func ParseCategoryFilter(s string) (CategoryFilter, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "all" {
		return CategoryFilter{}, nil
	}
	kindPart, idPart, ok := strings.Cut(s, "-")
	if !ok {
		return CategoryFilter{}, fmt.Errorf("%w: %q", ErrInvalidCategoryFilter, s)
	}
	kind, err := core.ParseKind(kindPart)
	if err != nil {
		return CategoryFilter{}, fmt.Errorf("%w: %q", ErrInvalidCategoryFilter, s)
	}
	id, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil || id <= 0 {
		return CategoryFilter{}, fmt.Errorf("%w: %q", ErrInvalidCategoryFilter, s)
	}
	return CategoryFilter{Kind: kind, ID: id}, nil
}

func (f CategoryFilter) IsAll() bool { return f.ID == 0 }

func (f CategoryFilter) String() string {
	if f.IsAll() {
		return "all"
	}
	return string(f.Kind) + "-" + strconv.FormatInt(f.ID, 10)
}

// StatsQuery selects the statistics window.
type StatsQuery struct {
	Selector core.Selector
	Custom   core.DateRange
	Category CategoryFilter
	Today    core.Date
}

// StatsView is everything the statistics page renders. Incomes and Expenses
// are newest first. A StatsView may be shared through the cache; treat it as
// read-only.
type StatsView struct {
	Selector core.Selector
	Range    core.DateRange
	Category CategoryFilter
	Summary  core.Summary
	Chart    core.ChartData
	Incomes  []core.Transaction
	Expenses []core.Transaction
}

// FinanceService orchestrates backend calls, the stats cache and activity export.
type FinanceService struct {
	api       backend.API
	publisher ActivityPublisher
	stats     cache.Cache[StatsView]
	logger    *slog.Logger
}

// NewFinanceService wires the service. publisher and stats may be nil.
func NewFinanceService(api backend.API, publisher ActivityPublisher, stats cache.Cache[StatsView], logger *slog.Logger) *FinanceService {
	if logger == nil {
		logger = slog.Default()
	}
	return &FinanceService{
		api:       api,
		publisher: publisher,
		stats:     stats,
		logger:    logger,
	}
}

// API exposes the underlying backend for read-only calls that need no orchestration.
func (s *FinanceService) API() backend.API { return s.api }

// Stats resolves the range, loads the matching transactions and summarizes them.
func (s *FinanceService) Stats(ctx context.Context, sess backend.Session, q StatsQuery) (StatsView, error) {
	if q.Today.IsZero() {
		q.Today = core.Today(time.Local)
	}
	rng, err := core.ResolveRange(q.Selector, q.Today, q.Custom)
	if err != nil {
		return StatsView{}, err
	}

	key := statsKey(sess, q.Selector, rng, q.Category)
	if s.stats != nil {
		if v, ok := s.stats.Get(key); ok {
			return v, nil
		}
	}

	fin, err := s.api.Finances(ctx, sess, backend.Filter{
		Range:        rng,
		CategoryID:   q.Category.ID,
		CategoryKind: q.Category.Kind,
	})
	if err != nil {
		return StatsView{}, err
	}

	core.NewestFirst(fin.Incomes)
	core.NewestFirst(fin.Expenses)

	v := StatsView{
		Selector: q.Selector,
		Range:    rng,
		Category: q.Category,
		Summary:  core.Summarize(fin.Incomes, fin.Expenses),
		Incomes:  fin.Incomes,
		Expenses: fin.Expenses,
	}
	v.Chart = core.BuildChart(v.Summary.IncomeByCategory, v.Summary.ExpenseByCategory)

	// a cancelled request may have returned partial work; never cache it
	if s.stats != nil && ctx.Err() == nil {
		s.stats.Set(key, v)
	}
	return v, nil
}

// Transactions lists every income and expense of the user.
func (s *FinanceService) Transactions(ctx context.Context, sess backend.Session) (backend.Finances, error) {
	return s.api.Finances(ctx, sess, backend.Filter{})
}

// Categories loads both category lists.
func (s *FinanceService) Categories(ctx context.Context, sess backend.Session) (income, expense []core.Category, err error) {
	return backend.LoadCategoriesBoth(ctx, s.api, sess)
}

// AddTransaction records a transaction. A limit warning is part of the
// result; the transaction was still saved.
func (s *FinanceService) AddTransaction(ctx context.Context, sess backend.Session, kind core.Kind, in backend.TransactionInput) (backend.CreateResult, error) {
	res, err := s.api.CreateTransaction(ctx, sess, kind, in)
	if err != nil {
		return backend.CreateResult{}, err
	}
	s.invalidate(sess)

	username := usernameOf(sess)
	ev := amqp.NewActivityEvent(amqp.EventTransactionCreated, username, string(kind))
	ev.Amount = in.Amount.String()
	ev.Description = in.Description
	ev.Date = in.Date.String()
	if res.Transaction != nil {
		ev.TransactionID = res.Transaction.ID
		ev.Category = res.Transaction.CategoryName()
	}
	s.publish(ctx, ev)

	if w := res.Warning; w != nil {
		lw := amqp.NewActivityEvent(amqp.EventCategoryLimitExceeded, username, string(kind))
		lw.Amount = in.Amount.String()
		lw.Description = w.Message
		lw.Date = in.Date.String()
		lw.Category = ev.Category
		lw.Limit = w.Limit.String()
		lw.Total = w.Total.String()
		lw.Exceeded = w.Exceeded.String()
		s.publish(ctx, lw)
	}
	return res, nil
}

func (s *FinanceService) DeleteTransaction(ctx context.Context, sess backend.Session, kind core.Kind, id int64) error {
	if err := s.api.DeleteTransaction(ctx, sess, kind, id); err != nil {
		return err
	}
	s.invalidate(sess)

	ev := amqp.NewActivityEvent(amqp.EventTransactionDeleted, usernameOf(sess), string(kind))
	ev.TransactionID = id
	s.publish(ctx, ev)
	return nil
}

func (s *FinanceService) AddCategory(ctx context.Context, sess backend.Session, kind core.Kind, in backend.CategoryInput) (core.Category, error) {
	c, err := s.api.CreateCategory(ctx, sess, kind, in)
	if err != nil {
		return core.Category{}, err
	}
	s.invalidate(sess)
	s.publish(ctx, categoryEvent(amqp.EventCategoryCreated, sess, c))
	return c, nil
}

// RenameCategory updates name and limit. The default category is refused
// before the backend is asked.
func (s *FinanceService) RenameCategory(ctx context.Context, sess backend.Session, kind core.Kind, id int64, in backend.CategoryInput) (core.Category, error) {
	cats, err := s.api.ListCategories(ctx, sess, kind)
	if err != nil {
		return core.Category{}, err
	}
	for _, c := range cats {
		if c.ID == id && c.IsDefault() {
			return core.Category{}, core.ErrProtectedCategory
		}
	}

	c, err := s.api.UpdateCategory(ctx, sess, kind, id, in)
	if err != nil {
		return core.Category{}, err
	}
	s.invalidate(sess)
	s.publish(ctx, categoryEvent(amqp.EventCategoryUpdated, sess, c))
	return c, nil
}

// DeleteCategory removes a category; the backend moves its transactions to
// Uncategorized.
func (s *FinanceService) DeleteCategory(ctx context.Context, sess backend.Session, kind core.Kind, id int64) error {
	if err := s.api.DeleteCategory(ctx, sess, kind, id); err != nil {
		return err
	}
	s.invalidate(sess)
	s.publish(ctx, categoryEvent(amqp.EventCategoryDeleted, sess, core.Category{ID: id, Kind: kind}))
	return nil
}

func (s *FinanceService) Investments(ctx context.Context, sess backend.Session) (backend.InvestmentReport, error) {
	return s.api.Investments(ctx, sess)
}

// Forget drops every cached view of the session, e.g. on logout.
func (s *FinanceService) Forget(sess backend.Session) {
	s.invalidate(sess)
}

// CachedViews reports how many statistics views are cached.
func (s *FinanceService) CachedViews() int {
	if s.stats == nil {
		return 0
	}
	return s.stats.Size()
}

func (s *FinanceService) invalidate(sess backend.Session) {
	if s.stats == nil {
		return
	}
	if n := s.stats.DeletePrefix(ownerPrefix(sess)); n > 0 {
		s.logger.Debug("Invalidated stats cache", "entries", n)
	}
}

func (s *FinanceService) publish(ctx context.Context, ev *amqp.ActivityEvent) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishActivity(ctx, ev); err != nil {
		s.logger.WarnContext(ctx, "Failed to publish activity event",
			"type", ev.Type,
			"username", ev.Username,
			"error", err)
	}
}

func categoryEvent(t amqp.EventType, sess backend.Session, c core.Category) *amqp.ActivityEvent {
	ev := amqp.NewActivityEvent(t, usernameOf(sess), string(c.Kind))
	ev.CategoryID = c.ID
	ev.Category = c.Name
	if c.Limit != nil {
		ev.Limit = c.Limit.String()
	}
	return ev
}

func ownerPrefix(sess backend.Session) string {
	return sess.Token + "|"
}

func statsKey(sess backend.Session, sel core.Selector, rng core.DateRange, f CategoryFilter) string {
	return ownerPrefix(sess) + "stats|" + string(sel) + "|" + rng.Key() + "|" + f.String()
}

func usernameOf(sess backend.Session) string {
	c, err := sess.Claims()
	if err != nil {
		return ""
	}
	return c.Username
}

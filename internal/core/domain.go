package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Uncategorized is the display name of transactions without a category.
const Uncategorized = "Uncategorized"

const maxDescriptionLen = 100

type (
	// Kind tags a transaction or category as income or expense.
	Kind string

	Date struct {
		time.Time
	}

	// CategoryRef is the category embedded in a transaction payload.
	CategoryRef struct {
		ID   int64
		Name string
	}

	Category struct {
		ID    int64
		Name  string
		Kind  Kind
		Limit *Money // expense categories only
	}

	Transaction struct {
		ID          int64
		Kind        Kind
		Amount      Money
		Description string
		Date        Date
		Category    *CategoryRef
	}
)

var (
	ErrInvalidKind          = errors.New("invalid kind")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidDate          = errors.New("invalid date")
	ErrEmptyName            = errors.New("empty category name")
	ErrNegativeLimit        = errors.New("category limit must not be negative")
	ErrLimitOnIncome        = errors.New("only expense categories can have a limit")
	ErrDescriptionTooLong   = fmt.Errorf("description too long (max %d characters)", maxDescriptionLen)
	ErrProtectedCategory    = errors.New("cannot rename the default category 'Uncategorized'")
	ErrInvertedRange        = errors.New("start date is after end date")
	ErrInvalidRangeSelector = errors.New("invalid range selector")
)

// ParseKind accepts the singular and plural spellings used in URLs and forms.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "incomes":
		return KindIncome, nil
	case "expense", "expenses":
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidKind, s)
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// CategoriesPath is the backend collection for categories of this kind.
func (k Kind) CategoriesPath() string {
	return "/finances/" + string(k) + "_categories/"
}

// TransactionsPath is the backend collection for transactions of this kind.
func (k Kind) TransactionsPath() string {
	return "/finances/" + string(k) + "s/"
}

// Label is the human-readable, capitalized kind.
func (k Kind) Label() string {
	switch k {
	case KindIncome:
		return "Income"
	case KindExpense:
		return "Expense"
	}
	return string(k)
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in loc.
func Today(loc *time.Location) Date {
	now := time.Now().In(loc)
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(time.DateOnly)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return errors.New("date cannot be zero")
	}
	return nil
}

// Ptr returns a pointer to a copy of d.
func (d Date) Ptr() *Date { return &d }

// CategoryName returns the category name or Uncategorized.
func (t Transaction) CategoryName() string {
	if t.Category == nil || strings.TrimSpace(t.Category.Name) == "" {
		return Uncategorized
	}
	return t.Category.Name
}

func (t Transaction) Validate() error {
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if t.Amount.Cents <= 0 {
		return ErrInvalidAmount
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len([]rune(t.Description)) > maxDescriptionLen {
		return ErrDescriptionTooLong
	}
	return nil
}

func (c Category) Validate() error {
	if !c.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyName
	}
	if c.Limit != nil {
		if c.Kind != KindExpense {
			return ErrLimitOnIncome
		}
		if c.Limit.Cents < 0 {
			return ErrNegativeLimit
		}
	}
	return nil
}

// IsDefault reports whether c is the protected Uncategorized bucket.
func (c Category) IsDefault() bool {
	return c.Name == Uncategorized
}

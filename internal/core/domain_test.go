package core

import (
	"errors"
	"testing"
	"time"
)

func TestDateValidate(t *testing.T) {
	cases := []struct {
		d  Date
		ok bool
	}{
		{NewDate(2025, 1, 1), true},
		{NewDate(2025, 12, 31), true},
		{Date{Time: time.Time{}}, false}, // zero time
	}
	for i, tc := range cases {
		err := tc.d.Validate()
		if tc.ok && err != nil {
			t.Fatalf("case %d expected ok, got %v", i, err)
		}
		if !tc.ok && err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestParseKind(t *testing.T) {
	for in, want := range map[string]Kind{
		"income": KindIncome, "incomes": KindIncome, " Expense ": KindExpense, "expenses": KindExpense,
	} {
		got, err := ParseKind(in)
		if err != nil || got != want {
			t.Fatalf("%q: got %q (err=%v)", in, got, err)
		}
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidKind) {
		t.Fatalf("expected ErrInvalidKind, got %v", err)
	}
}

func TestKindPaths(t *testing.T) {
	if p := KindIncome.CategoriesPath(); p != "/finances/income_categories/" {
		t.Fatalf("unexpected path %s", p)
	}
	if p := KindExpense.TransactionsPath(); p != "/finances/expenses/" {
		t.Fatalf("unexpected path %s", p)
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Kind:        KindExpense,
		Date:        NewDate(2025, 1, 1),
		Description: "ok",
		Amount:      Money{Cents: 100},
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	long := make([]rune, 101)
	for i := range long {
		long[i] = 'a'
	}
	bads := []Transaction{
		{Kind: "", Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}},
		{Kind: KindIncome, Date: Date{}, Amount: Money{Cents: 1}},
		{Kind: KindIncome, Date: NewDate(2025, 1, 1), Amount: Money{Cents: 0}},
		{Kind: KindIncome, Date: NewDate(2025, 1, 1), Amount: Money{Cents: 1}, Description: string(long)},
	}
	for i, tx := range bads {
		if err := tx.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestCategoryValidate(t *testing.T) {
	limit := Money{Cents: 5000}
	neg := Money{Cents: -1}
	zero := Money{}

	if err := (Category{Name: "Food", Kind: KindExpense, Limit: &limit}).Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if err := (Category{Name: "Food", Kind: KindExpense, Limit: &zero}).Validate(); err != nil {
		t.Fatalf("zero limit should be ok, got %v", err)
	}
	if err := (Category{Name: " ", Kind: KindExpense}).Validate(); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if err := (Category{Name: "Food", Kind: KindExpense, Limit: &neg}).Validate(); !errors.Is(err, ErrNegativeLimit) {
		t.Fatalf("expected ErrNegativeLimit, got %v", err)
	}
	if err := (Category{Name: "Salary", Kind: KindIncome, Limit: &limit}).Validate(); !errors.Is(err, ErrLimitOnIncome) {
		t.Fatalf("expected ErrLimitOnIncome, got %v", err)
	}
}

func TestCategoryNameFallback(t *testing.T) {
	if got := (Transaction{}).CategoryName(); got != Uncategorized {
		t.Fatalf("expected %s, got %s", Uncategorized, got)
	}
	tx := Transaction{Category: &CategoryRef{ID: 3, Name: "Rent"}}
	if got := tx.CategoryName(); got != "Rent" {
		t.Fatalf("expected Rent, got %s", got)
	}
}

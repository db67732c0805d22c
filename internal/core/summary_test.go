package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tx(kind Kind, cents int64, category string) Transaction {
	t := Transaction{Kind: kind, Amount: Money{Cents: cents}, Date: NewDate(2024, 6, 1)}
	if category != "" {
		t.Category = &CategoryRef{Name: category}
	}
	return t
}

func TestAggregateByCategory(t *testing.T) {
	txs := []Transaction{
		tx(KindExpense, 1010, "Food"),
		tx(KindExpense, 2020, "Food"),
		tx(KindExpense, 500, "Rent"),
		tx(KindExpense, 1, ""),
	}
	got := Aggregate(txs, ByCategory)

	assert.Equal(t, AggregationResult{
		"Food":        {Cents: 3030},
		"Rent":        {Cents: 500},
		Uncategorized: {Cents: 1},
	}, got)
	assert.Equal(t, []string{"Food", "Rent", Uncategorized}, got.SortedKeys())
}

func TestAggregateTotalsMatch(t *testing.T) {
	// 0.1 + 0.2 style amounts must not drift.
	var txs []Transaction
	for i := 0; i < 1000; i++ {
		name := []string{"A", "B", "C", ""}[i%4]
		txs = append(txs, tx(KindIncome, int64(i%7)*10+1, name))
	}
	agg := Aggregate(txs, ByCategory)
	assert.Equal(t, TotalOf(txs), Total(agg))
}

func TestAggregateIsPure(t *testing.T) {
	txs := []Transaction{tx(KindIncome, 100, "Salary"), tx(KindIncome, 250, "Gift")}
	assert.Equal(t, Aggregate(txs, ByCategory), Aggregate(txs, ByCategory))
	assert.Len(t, txs, 2)
}

func TestSummarize(t *testing.T) {
	incomes := []Transaction{tx(KindIncome, 300000, "Salary"), tx(KindIncome, 10, "")}
	expenses := []Transaction{tx(KindExpense, 120050, "Rent"), tx(KindExpense, 999, "Food")}

	s := Summarize(incomes, expenses)
	assert.Equal(t, int64(300010), s.TotalIncome.Cents)
	assert.Equal(t, int64(121049), s.TotalExpenses.Cents)
	assert.Equal(t, int64(300010-121049), s.Balance.Cents)
	assert.Equal(t, s.TotalIncome, Total(s.IncomeByCategory))
	assert.Equal(t, s.TotalExpenses, Total(s.ExpenseByCategory))
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, nil)
	assert.True(t, s.Balance.IsZero())
	assert.Empty(t, s.IncomeByCategory)
	assert.Empty(t, s.ExpenseByCategory)
}

func TestNewestFirst(t *testing.T) {
	txs := []Transaction{
		{ID: 1, Date: NewDate(2024, 6, 1)},
		{ID: 3, Date: NewDate(2024, 6, 9)},
		{ID: 2, Date: NewDate(2024, 6, 9)},
		{ID: 4, Date: NewDate(2024, 5, 30)},
	}
	NewestFirst(txs)

	var ids []int64
	for _, t := range txs {
		ids = append(ids, t.ID)
	}
	assert.Equal(t, []int64{3, 2, 1, 4}, ids)
}

package core

import "sort"

// NewestFirst orders txs in place by date descending, then id descending.
func NewestFirst(txs []Transaction) {
	sort.SliceStable(txs, func(i, j int) bool {
		if !txs[i].Date.Equal(txs[j].Date.Time) {
			return txs[i].Date.After(txs[j].Date.Time)
		}
		return txs[i].ID > txs[j].ID
	})
}

// AggregationResult maps a category name to the summed amount.
type AggregationResult map[string]Money

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Summary is the statistics block shown for a date range.
type Summary struct {
	TotalIncome       Money
	TotalExpenses     Money
	Balance           Money
	IncomeByCategory  AggregationResult
	ExpenseByCategory AggregationResult
}

// SortedKeys returns the category names in lexical order.
func (r AggregationResult) SortedKeys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Rows returns the entries sorted by name.
func (r AggregationResult) Rows() []CategoryAmount {
	rows := make([]CategoryAmount, 0, len(r))
	for _, k := range r.SortedKeys() {
		rows = append(rows, CategoryAmount{Name: k, Amount: r[k]})
	}
	return rows
}

// Aggregate groups transactions by key and sums their amounts in cents.
// Sums wrap past math.MaxInt64 cents; decoding bounds each single amount.
func Aggregate(txs []Transaction, key func(Transaction) string) AggregationResult {
	out := make(AggregationResult)
	for _, t := range txs {
		k := key(t)
		out[k] = out[k].Add(t.Amount)
	}
	return out
}

// ByCategory is the default discriminator for Aggregate.
func ByCategory(t Transaction) string {
	return t.CategoryName()
}

// Total sums every entry of an aggregation.
func Total(r AggregationResult) Money {
	var m Money
	for _, v := range r {
		m = m.Add(v)
	}
	return m
}

// TotalOf sums the amounts of txs.
func TotalOf(txs []Transaction) Money {
	var m Money
	for _, t := range txs {
		m = m.Add(t.Amount)
	}
	return m
}

func Balance(income, expenses Money) Money {
	return income.Sub(expenses)
}

// Summarize computes totals, balance and per-category breakdowns.
func Summarize(incomes, expenses []Transaction) Summary {
	s := Summary{
		TotalIncome:       TotalOf(incomes),
		TotalExpenses:     TotalOf(expenses),
		IncomeByCategory:  Aggregate(incomes, ByCategory),
		ExpenseByCategory: Aggregate(expenses, ByCategory),
	}
	s.Balance = Balance(s.TotalIncome, s.TotalExpenses)
	return s
}

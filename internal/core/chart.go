package core

import "encoding/json"

const (
	SeriesIncome   = "Income"
	SeriesExpenses = "Expenses"
)

// Series is one named, axis-aligned run of values.
type Series struct {
	Name string  `json:"name"`
	Data []Money `json:"data"`
}

// ChartData is the category axis plus income/expense series aligned to it.
type ChartData struct {
	Categories []string `json:"categories"`
	Series     []Series `json:"series"`
}

// PieData is a single-kind breakdown for pie charts.
type PieData struct {
	Labels []string `json:"labels"`
	Values []Money  `json:"series"`
}

// BuildChart merges two aggregations into a sorted category axis with one
// series per side. A category missing on one side contributes 0 there.
func BuildChart(income, expense AggregationResult) ChartData {
	union := make(AggregationResult, len(income)+len(expense))
	for k := range income {
		union[k] = Money{}
	}
	for k := range expense {
		union[k] = Money{}
	}
	axis := union.SortedKeys()

	inc := make([]Money, len(axis))
	exp := make([]Money, len(axis))
	for i, name := range axis {
		inc[i] = income[name]
		exp[i] = expense[name]
	}
	return ChartData{
		Categories: axis,
		Series: []Series{
			{Name: SeriesIncome, Data: inc},
			{Name: SeriesExpenses, Data: exp},
		},
	}
}

// BuildPie flattens one aggregation into sorted labels and values.
func BuildPie(r AggregationResult) PieData {
	p := PieData{Labels: r.SortedKeys()}
	p.Values = make([]Money, len(p.Labels))
	for i, k := range p.Labels {
		p.Values[i] = r[k]
	}
	return p
}

// ApexOptions returns the bar chart configuration handed to ApexCharts.
func (c ChartData) ApexOptions() (json.RawMessage, error) {
	opts := map[string]any{
		"series": c.Series,
		"chart": map[string]any{
			"type":    "bar",
			"height":  400,
			"toolbar": map[string]any{"show": false},
		},
		"plotOptions": map[string]any{
			"bar": map[string]any{"horizontal": false, "columnWidth": "60%"},
		},
		"dataLabels": map[string]any{"enabled": false},
		"stroke":     map[string]any{"show": true, "width": 2, "colors": []string{"transparent"}},
		"xaxis":      map[string]any{"categories": c.Categories},
		"yaxis":      map[string]any{"title": map[string]any{"text": "Amount"}},
		"fill":       map[string]any{"opacity": 1},
		"title":      map[string]any{"text": "Income vs Expenses by Category", "align": "left"},
		"legend":     map[string]any{"position": "top"},
	}
	return json.Marshal(opts)
}

// ApexOptions returns a pie chart configuration for ApexCharts.
func (p PieData) ApexOptions(title string) (json.RawMessage, error) {
	opts := map[string]any{
		"series": p.Values,
		"labels": p.Labels,
		"chart":  map[string]any{"type": "pie", "height": 360},
		"title":  map[string]any{"text": title, "align": "left"},
		"legend": map[string]any{"position": "bottom"},
	}
	return json.Marshal(opts)
}

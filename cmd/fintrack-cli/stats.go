package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/core"
	"fintrack/internal/services"
)

func (a *app) statsCmd() *cobra.Command {
	var rangeName, from, to, category string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals and per-category sums for a period",
		Example: `  fintrack stats --range month
  fintrack stats --range custom --from 2024-01-01 --to 2024-03-31 --category expense-4`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := statsQuery(rangeName, from, to, category, core.Today(time.Local))
			if err != nil {
				return err
			}
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			view, err := finance(c).Stats(cmd.Context(), sess, q)
			if err != nil {
				return a.check(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Period: %s\n", periodText(view.Range))
			fmt.Fprintf(out, "Income:   %s\nExpenses: %s\nBalance:  %s\n",
				view.Summary.TotalIncome, view.Summary.TotalExpenses, view.Summary.Balance)

			w := newTable(out)
			fmt.Fprintln(w, "\nCATEGORY\tINCOME\tEXPENSES")
			for i, name := range view.Chart.Categories {
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, view.Chart.Series[0].Data[i], view.Chart.Series[1].Data[i])
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&rangeName, "range", "r", "month", "week, month, year, all or custom")
	cmd.Flags().StringVar(&from, "from", "", "custom range start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "custom range end (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&category, "category", "c", "all", `"all" or <kind>-<id>, e.g. expense-4`)
	return cmd
}

func statsQuery(rangeName, from, to, category string, today core.Date) (services.StatsQuery, error) {
	sel, err := core.ParseSelector(rangeName)
	if err != nil {
		return services.StatsQuery{}, err
	}
	q := services.StatsQuery{Selector: sel, Today: today}
	if sel == core.RangeCustom {
		if from != "" {
			d, err := core.ParseDate(from)
			if err != nil {
				return services.StatsQuery{}, err
			}
			q.Custom.Start = &d
		}
		if to != "" {
			d, err := core.ParseDate(to)
			if err != nil {
				return services.StatsQuery{}, err
			}
			q.Custom.End = &d
		}
	}
	if q.Category, err = services.ParseCategoryFilter(category); err != nil {
		return services.StatsQuery{}, err
	}
	return q, nil
}

func periodText(r core.DateRange) string {
	if r.IsUnbounded() {
		return "all time"
	}
	start, end := "…", "…"
	if r.Start != nil {
		start = r.Start.String()
	}
	if r.End != nil {
		end = r.End.String()
	}
	return start + " to " + end
}

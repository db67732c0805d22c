package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (a *app) investmentsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "investments",
		Short: "Show invested totals per category",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			rep, err := finance(c).Investments(cmd.Context(), sess)
			if err != nil {
				return a.check(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Total invested: %s\n", rep.TotalInvested)
			for _, inv := range rep.Investments {
				fmt.Fprintf(out, "\n%s  %s\n", inv.Category, inv.Sum)
				w := newTable(out)
				for _, e := range inv.Expenses {
					fmt.Fprintf(w, "  %s\t%s\t%s\n", e.Date, e.Amount, orDash(e.Description))
				}
				if err := w.Flush(); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

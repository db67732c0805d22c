package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/core"
)

func (a *app) txCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "tx",
		Aliases: []string{"transactions"},
		Short:   "Record, list and delete incomes and expenses",
	}
	cmd.AddCommand(a.addTxCmd())
	cmd.AddCommand(a.listTxCmd())
	cmd.AddCommand(a.deleteTxCmd())
	return cmd
}

func (a *app) addTxCmd() *cobra.Command {
	var kind, description, date string
	var category int64

	cmd := &cobra.Command{
		Use:   "add <amount>",
		Short: "Record an income or expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}
			cents, err := core.ParseDecimalToCents(args[0])
			if err != nil {
				return err
			}
			in := backend.TransactionInput{
				Amount:      core.Money{Cents: cents},
				Description: description,
				Date:        core.Today(time.Local),
			}
			if date != "" {
				if in.Date, err = core.ParseDate(date); err != nil {
					return err
				}
			}
			if category > 0 {
				in.CategoryID = &category
			}

			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			res, err := finance(c).AddTransaction(cmd.Context(), sess, k, in)
			if err != nil {
				return a.check(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s added: %s on %s\n", k.Label(), in.Amount, in.Date)
			if res.Warning != nil {
				fmt.Fprintf(out, "Warning: %s\n", res.Warning.Error())
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "income or expense")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description (max 100 characters)")
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().Int64VarP(&category, "category", "c", 0, "category id")
	return cmd
}

func (a *app) listTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List every income and expense, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			fin, err := finance(c).Transactions(cmd.Context(), sess)
			if err != nil {
				return a.check(err)
			}

			all := append(append([]core.Transaction{}, fin.Incomes...), fin.Expenses...)
			core.NewestFirst(all)

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "DATE\tKIND\tID\tAMOUNT\tCATEGORY\tDESCRIPTION")
			for _, t := range all {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\n", t.Date, t.Kind, t.ID, t.Amount, t.CategoryName(), orDash(t.Description))
			}
			if err := w.Flush(); err != nil {
				return err
			}

			s := core.Summarize(fin.Incomes, fin.Expenses)
			fmt.Fprintf(cmd.OutOrStdout(), "\nIncome %s  Expenses %s  Balance %s\n", s.TotalIncome, s.TotalExpenses, s.Balance)
			return nil
		},
	}
	return cmd
}

func (a *app) deleteTxCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an income or expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			if err := finance(c).DeleteTransaction(cmd.Context(), sess, k, id); err != nil {
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s %d\n", k, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "income or expense")
	return cmd
}

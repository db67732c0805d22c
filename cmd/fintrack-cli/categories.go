package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fintrack/internal/backend"
	"fintrack/internal/core"
)

func (a *app) categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "categories",
		Aliases: []string{"cat"},
		Short:   "Manage income and expense categories",
	}
	cmd.AddCommand(a.listCategoriesCmd())
	cmd.AddCommand(a.addCategoryCmd())
	cmd.AddCommand(a.renameCategoryCmd())
	cmd.AddCommand(a.deleteCategoryCmd())
	return cmd
}

func (a *app) listCategoriesCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List categories of both kinds, or one with --kind",
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, sess, err := a.authed()
			if err != nil {
				return err
			}

			var lists [][]core.Category
			if kind == "" {
				income, expense, err := backend.LoadCategoriesBoth(cmd.Context(), c, sess)
				if err != nil {
					return a.check(err)
				}
				lists = [][]core.Category{income, expense}
			} else {
				k, err := parseKindFlag(kind)
				if err != nil {
					return err
				}
				cats, err := c.ListCategories(cmd.Context(), sess, k)
				if err != nil {
					return a.check(err)
				}
				lists = [][]core.Category{cats}
			}

			w := newTable(cmd.OutOrStdout())
			defer w.Flush()
			fmt.Fprintln(w, "KIND\tID\tNAME\tLIMIT")
			for _, cats := range lists {
				for _, cat := range cats {
					fmt.Fprintf(w, "%s\t%d\t%s\t%s\n", cat.Kind, cat.ID, cat.Name, limitText(cat.Limit))
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "income or expense")
	return cmd
}

func categoryInput(kind core.Kind, name, limit string) (backend.CategoryInput, error) {
	in := backend.CategoryInput{Name: name}
	if limit == "" {
		return in, nil
	}
	if kind != core.KindExpense {
		return in, core.ErrLimitOnIncome
	}
	cents, err := core.ParseLimitToCents(limit)
	if err != nil {
		return in, err
	}
	in.Limit = &core.Money{Cents: cents}
	return in, nil
}

func (a *app) addCategoryCmd() *cobra.Command {
	var kind, limit string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a category",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}
			in, err := categoryInput(k, args[0], limit)
			if err != nil {
				return err
			}
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			cat, err := finance(c).AddCategory(cmd.Context(), sess, k, in)
			if err != nil {
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s category %q (id %d)\n", k, cat.Name, cat.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "income or expense")
	cmd.Flags().StringVar(&limit, "limit", "", "spending limit (expense categories only)")
	return cmd
}

func (a *app) renameCategoryCmd() *cobra.Command {
	var kind, limit string

	cmd := &cobra.Command{
		Use:   "rename <id> <name>",
		Short: "Rename a category and optionally change its limit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, err := parseKindFlag(kind)
			if err != nil {
				return err
			}
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			in, err := categoryInput(k, args[1], limit)
			if err != nil {
				return err
			}
			c, sess, err := a.authed()
			if err != nil {
				return err
			}
			cat, err := finance(c).RenameCategory(cmd.Context(), sess, k, id, in)
			if err != nil {
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated category %d: %s\n", cat.ID, cat.Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "income or expense")
	cmd.Flags().StringVar(&limit, "limit", "", "spending limit (expense categories only)")
	return cmd
}

func (a *app) deleteCategoryCmd() *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a category; its transactions become Uncategorized",
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
			if err := finance(c).DeleteCategory(cmd.Context(), sess, k, id); err != nil {
				return a.check(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s category %d\n", k, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "expense", "income or expense")
	return cmd
}

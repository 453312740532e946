package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/aggregate"
	"github.com/sleekspend/sleekspend/internal/categories"
	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/model"
)

func newListCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses grouped by day, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRange(from, to)
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(a *app) error {
				days := a.ledger.View().Days
				if !r.IsZero() {
					now := opts.clock()
					days = aggregate.Days(aggregate.FilterByRangeAt(a.ledger.Expenses(), r, now), now)
				}

				out := cmd.OutOrStdout()
				if len(days) == 0 {
					fmt.Fprintln(out, "No expenses recorded.")
					return nil
				}
				return writeDays(out, days)
			})
		},
	}

	addRangeFlags(cmd, &from, &to)

	return cmd
}

func newSummaryCommand(opts *globalOptions) *cobra.Command {
	var from, to string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show totals and the category breakdown (current month by default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := model.ParseRange(from, to)
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(a *app) error {
				if r.IsZero() {
					a.ledger.ResetFilter()
				} else {
					a.ledger.SetFilter(r)
				}
				v := a.ledger.View()

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Summary for %s\n", v.RangeLabel)
				fmt.Fprintf(out, "Total: %s (%s)\n", expense.FormatAmount(v.Total), plural(v.Count, "expense"))
				if len(v.Breakdown) == 0 {
					fmt.Fprintln(out, "No expenses in this period.")
					return nil
				}

				fmt.Fprintln(out)
				tw := newTabWriter(out)
				for _, row := range v.Breakdown {
					fmt.Fprintf(tw, "%s\t%s\t%5.1f%%\n", row.Category, expense.FormatAmount(row.Amount), row.Percentage)
				}
				return tw.Flush()
			})
		},
	}

	addRangeFlags(cmd, &from, &to)

	return cmd
}

func newCategoriesCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List the categories an expense can be filed under",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			for _, name := range categories.Default(cfg.Categories.Extra...).All() {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

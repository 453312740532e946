package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/model"
)

func newAddCommand(opts *globalOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "add <amount> [description...]",
		Short: "Record an expense",
		Example: `  sleekspend add 12.50 Coffee -c Food
  sleekspend add '$3,20' Bus ticket --category transportation`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := expense.ParseAmount(args[0])
			if err != nil {
				return err
			}
			description := strings.Join(args[1:], " ")

			return opts.withApp(cmd, func(a *app) error {
				e, err := a.factory.Create(amount, description, category)
				if err != nil {
					return err
				}
				a.ledger.Add(e)
				if err := a.saveErr(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Expense added: %s for %s\n", expense.FormatAmount(e.Amount), e.Description)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", model.CategoryOther, "expense category")

	return cmd
}

func newDeleteCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete an expense by id",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			return opts.withApp(cmd, func(a *app) error {
				var removed *model.Expense
				for _, e := range a.ledger.Expenses() {
					if e.ID == target {
						removed = &e
						break
					}
				}

				if !a.ledger.Delete(target) {
					fmt.Fprintf(cmd.OutOrStdout(), "no expense with id %s\n", target)
					return nil
				}
				if err := a.saveErr(); err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Expense deleted: %s for %s\n", expense.FormatAmount(removed.Amount), removed.Description)
				return nil
			})
		},
	}
}

package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/aggregate"
	"github.com/sleekspend/sleekspend/internal/export"
	"github.com/sleekspend/sleekspend/internal/model"
)

func newExportCommand(opts *globalOptions) *cobra.Command {
	var format, output, from, to string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export expenses to CSV or an Excel workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != export.FormatCSV && format != export.FormatXLSX {
				return fmt.Errorf("unknown export format %q: must be csv or xlsx", format)
			}
			if format == export.FormatXLSX && output == "-" {
				return fmt.Errorf("xlsx export needs --output")
			}
			r, err := model.ParseRange(from, to)
			if err != nil {
				return err
			}

			return opts.withApp(cmd, func(a *app) error {
				expenses := a.ledger.Expenses()
				if !r.IsZero() {
					expenses = aggregate.FilterByRangeAt(expenses, r, opts.clock())
				}

				if output == "-" {
					return writeExport(cmd.OutOrStdout(), format, expenses)
				}
				if err := writeExportFile(output, format, expenses); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %s to %s\n", plural(len(expenses), "expense"), output)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVarP(&output, "output", "o", "-", "output file (- for stdout, csv only)")
	addRangeFlags(cmd, &from, &to)

	return cmd
}

func writeExport(w io.Writer, format string, expenses []model.Expense) error {
	if format == export.FormatXLSX {
		return export.WriteXLSX(w, expenses, aggregate.SummaryTotals(expenses))
	}
	return export.WriteCSV(w, expenses)
}

func writeExportFile(path, format string, expenses []model.Expense) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating export file: %w", err)
	}
	defer func() {
		err = errors.Join(err, f.Close())
	}()

	if err := writeExport(f, format, expenses); err != nil {
		return fmt.Errorf("writing %s export: %w", format, err)
	}
	return nil
}

package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/model"
)

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// addRangeFlags registers --from and --to on cmd.
func addRangeFlags(cmd *cobra.Command, from, to *string) {
	cmd.Flags().StringVar(from, "from", "", "start date (YYYY-MM-DD or RFC 3339); alone it selects that day")
	cmd.Flags().StringVar(to, "to", "", "end date (YYYY-MM-DD or RFC 3339)")
}

func writeDays(w io.Writer, days []model.DayGroup) error {
	tw := newTabWriter(w)
	for i, d := range days {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\n", d.Label, plural(d.Count, "expense"), expense.FormatAmount(d.Total))
		for _, e := range d.Expenses {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
				e.Date.Local().Format("15:04"), e.ID, expense.FormatAmount(e.Amount), e.Category, e.Description)
		}
	}
	return tw.Flush()
}

package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(time.Now)
}

func newRootCommand(clock func() time.Time) *cobra.Command {
	opts := &globalOptions{clock: clock}

	rootCmd := &cobra.Command{
		Use:     "sleekspend",
		Short:   "Personal expense tracking",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default ./sleekspend.yaml when present)")
	flags.StringVar(&opts.dataDir, "data-dir", "", "directory holding the expense data")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	flags.BoolVar(&opts.ephemeral, "ephemeral", false, "keep expenses in memory only")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newDeleteCommand(opts),
		newListCommand(opts),
		newSummaryCommand(opts),
		newCategoriesCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newHistoryCommand(opts),
		newServeCommand(opts),
	)

	return rootCmd
}

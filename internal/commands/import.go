package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/importer"
	"github.com/sleekspend/sleekspend/internal/log"
)

func newImportCommand(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "import [file...]",
		Short: "Import expenses from CSV files",
		Long: `Import expenses from CSV files.

Without arguments, every CSV in <data-dir>/import is imported and then moved to
<data-dir>/import/processed. Rows whose id is already recorded are skipped, so
importing the same file twice is harmless.`,
		Example: `  sleekspend import backup.csv
  sleekspend import --format chase ~/Downloads/Chase1234_Activity.CSV`,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry := importer.DefaultRegistry()
			parser := registry.Get(format)
			if parser == nil {
				return fmt.Errorf("unknown import format %q (supported: %s)", format, strings.Join(registry.Formats(), ", "))
			}

			return opts.withApp(cmd, func(a *app) error {
				logger := a.logger.WithComponent(log.ComponentImport)
				out := cmd.OutOrStdout()

				if len(args) > 0 {
					for _, path := range args {
						if err := importFile(a, logger, parser, path, out); err != nil {
							return err
						}
					}
					return nil
				}

				files, err := importer.Scan(a.cfg.DataDir())
				if err != nil {
					return err
				}
				if len(files) == 0 {
					fmt.Fprintf(out, "No CSV files in %s\n", filepath.Join(a.cfg.DataDir(), "import"))
					return nil
				}
				for _, f := range files {
					if err := importFile(a, logger, parser, f.Path, out); err != nil {
						return err
					}
					if err := importer.MarkProcessed(a.cfg.DataDir(), f.Name); err != nil {
						return err
					}
					logger.Debug("import file processed", log.FieldFile, f.Name)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "sleekspend", "file format: chase or sleekspend")

	return cmd
}

func importFile(a *app, logger *log.Logger, parser importer.Parser, path string, out io.Writer) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	rows, err := parser.Parse(f)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	planned, skipped, err := importer.Plan(rows, a.ledger.Expenses(), a.factory.Restore)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	a.ledger.AddAll(planned)
	if err := a.saveErr(); err != nil {
		return err
	}

	logger.Info("file imported",
		log.FieldFile, path,
		log.FieldFormat, parser.Format(),
		log.FieldCount, len(planned))
	fmt.Fprintf(out, "Imported %s from %s (%d skipped)\n", plural(len(planned), "expense"), filepath.Base(path), skipped)
	return nil
}

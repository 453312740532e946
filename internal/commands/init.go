package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/config"
	"github.com/sleekspend/sleekspend/internal/gitops"
	"github.com/sleekspend/sleekspend/internal/store"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var backend string
	var force bool
	var git bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create a sleekspend.yaml and an empty expense store",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			dataDir := opts.dataDir
			if dataDir == "" {
				dataDir = filepath.Join(absDir, "data")
			}
			if err := runInit(absDir, dataDir, backend, force, git); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Initialized sleekspend at %s (data in %s)\n", absDir, dataDir)
			return nil
		},
	}

	cmd.Flags().StringVar(&backend, "backend", store.BackendFile, "storage backend: file or sqlite")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing sleekspend.yaml")
	cmd.Flags().BoolVar(&git, "git", false, "version the data directory with git")

	return cmd
}

func runInit(dir, dataDir, backend string, force, git bool) error {
	configPath := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("checking config: %w", err)
	}

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	cfg := config.Default()
	cfg.Storage.Backend = backend
	cfg.Storage.Dir = dataDir
	cfg.Git.Enabled = git
	if err := cfg.Validate(); err != nil {
		return err
	}
	if backend == store.BackendMemory {
		return fmt.Errorf("init needs a persistent backend, not %q", backend)
	}

	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := initSlot(cfg); err != nil {
		return err
	}

	if git {
		repo, err := gitops.Open(cfg.DataDir(), cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			return err
		}
		if _, err := repo.CommitAll("init: sleekspend data directory"); err != nil {
			return err
		}
	}
	return nil
}

// initSlot writes an empty expense list unless the slot already holds one.
func initSlot(cfg *config.Config) error {
	slot, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer slot.Close()

	existing, err := slot.Load()
	if err != nil {
		return fmt.Errorf("checking existing expenses: %w", err)
	}
	if existing == nil {
		if err := slot.Save(nil); err != nil {
			return fmt.Errorf("writing empty expense store: %w", err)
		}
	}
	return nil
}

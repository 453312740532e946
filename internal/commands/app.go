package commands

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/sleekspend/sleekspend/internal/activity"
	"github.com/sleekspend/sleekspend/internal/categories"
	"github.com/sleekspend/sleekspend/internal/config"
	"github.com/sleekspend/sleekspend/internal/expense"
	"github.com/sleekspend/sleekspend/internal/gitops"
	"github.com/sleekspend/sleekspend/internal/id"
	"github.com/sleekspend/sleekspend/internal/ledger"
	"github.com/sleekspend/sleekspend/internal/log"
	"github.com/sleekspend/sleekspend/internal/store"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	dataDir    string
	logLevel   string
	ephemeral  bool
	clock      func() time.Time
}

// loadConfig resolves the configuration: defaults, then the config file, then .env and
// SLEEKSPEND_* variables, then flags.
func (o *globalOptions) loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error
	if o.configPath != "" {
		cfg, err = config.Load(o.configPath)
	} else {
		cfg, err = config.LoadOptional(config.FileName)
	}
	if err != nil {
		return nil, err
	}

	if err := config.LoadDotEnv(); err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)

	if o.dataDir != "" {
		cfg.Storage.Dir = o.dataDir
	}
	if o.logLevel != "" {
		cfg.Log.Level = o.logLevel
	}
	if o.ephemeral {
		cfg.Storage.Backend = store.BackendMemory
		cfg.Git.Enabled = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// app is the wired application for one command invocation.
type app struct {
	cfg      *config.Config
	logger   *log.Logger
	slot     store.Slot
	catalog  *categories.Catalog
	factory  *expense.Factory
	ledger   *ledger.Controller
	activity *activity.Log // nil for the memory backend
}

func (o *globalOptions) openApp(cmd *cobra.Command) (*app, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	logCfg := cfg.LoggerConfig()
	logCfg.Output = cmd.ErrOrStderr()
	logger, err := log.New(logCfg)
	if err != nil {
		return nil, err
	}

	slot, err := store.Open(cfg.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	logger.Debug("storage opened",
		log.FieldBackend, cfg.Storage.Backend,
		log.FieldSlot, cfg.Storage.Slot)

	a := &app{
		cfg:     cfg,
		logger:  logger,
		slot:    slot,
		catalog: categories.Default(cfg.Categories.Extra...),
	}

	ledgerOpts := []ledger.Option{ledger.WithLogger(logger), ledger.WithClock(o.clock)}
	if cfg.Storage.Backend != store.BackendMemory {
		a.activity = activity.NewLog(cfg.DataDir(), o.clock, logger)
		ledgerOpts = append(ledgerOpts, ledger.WithNotifier(a.activity))
	}
	if cfg.Git.Enabled {
		repo, err := gitops.Open(cfg.DataDir(), cfg.Git.AuthorName, cfg.Git.AuthorEmail)
		if err != nil {
			slot.Close()
			return nil, err
		}
		// After the activity log so its entry lands in the same commit.
		ledgerOpts = append(ledgerOpts, ledger.WithNotifier(gitops.NewCommitter(repo, logger)))
	}
	a.ledger = ledger.New(slot, ledgerOpts...)

	ids, err := id.New(cfg.IDs)
	if err != nil {
		slot.Close()
		return nil, err
	}
	if seq, ok := ids.(*id.Sequence); ok {
		for _, e := range a.ledger.Expenses() {
			seq.Observe(e.ID)
		}
		// Deleted ids only survive in the activity log.
		if a.activity != nil {
			entries, err := activity.Read(cfg.DataDir())
			if err != nil {
				logger.Warn("failed to read activity log, deleted ids may be reissued", log.FieldError, err)
			}
			for _, entry := range entries {
				seq.Observe(entry.ExpenseID)
			}
		}
	}
	a.factory = expense.NewFactory(ids, o.clock, a.catalog)

	return a, nil
}

// saveErr reports a failed save after a mutation.
func (a *app) saveErr() error {
	if err := a.ledger.SaveErr(); err != nil {
		return fmt.Errorf("saving expenses: %w", err)
	}
	return nil
}

func (a *app) Close() error {
	return a.slot.Close()
}

// withApp opens the app, runs fn and closes the app.
func (o *globalOptions) withApp(cmd *cobra.Command, fn func(*app) error) (err error) {
	a, err := o.openApp(cmd)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, a.Close())
	}()
	return fn(a)
}

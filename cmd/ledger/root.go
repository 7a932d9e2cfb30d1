package main

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/double-entry-ledger/internal/config"
	"github.com/sheikh-saqib/double-entry-ledger/internal/events/kafka"
	interfaces "github.com/sheikh-saqib/double-entry-ledger/internal/interfaces"
	"github.com/sheikh-saqib/double-entry-ledger/internal/ledger"
	"github.com/sheikh-saqib/double-entry-ledger/internal/session"
	"github.com/sheikh-saqib/double-entry-ledger/internal/storage/jsonfile"
	"github.com/sheikh-saqib/double-entry-ledger/internal/storage/memory"
	"github.com/sheikh-saqib/double-entry-ledger/internal/storage/sqlstore"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type options struct {
	envFile string
	file    string
	backend string
	debug   bool
}

// app is what every subcommand works on: the loaded session plus whatever
// needs closing when the command is done.
type app struct {
	cfg     *config.Config
	session *session.Session
	closers []func() error
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c(); err != nil {
			logrus.WithError(err).Warn("close failed")
		}
	}
}

// newRootCmd returns the command tree and a function that releases whatever
// the executed command opened.
func newRootCmd() (*cobra.Command, func()) {
	opts := &options{}
	var a *app

	root := &cobra.Command{
		Use:   "ledger",
		Short: "Double-entry bookkeeping ledger",
		Long: `ledger keeps a chart of accounts with running balances and an
append-only journal of postings between two accounts.

The ledger is loaded from its store before every command and saved
after every change.

Example:
  ledger account add 100 Cash
  ledger account add 200 Revenue
  ledger post 100 200 150.00 sale
  ledger account list`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.envFile)
			if err != nil {
				return err
			}
			if opts.file != "" {
				cfg.File = opts.file
			}
			if opts.backend != "" {
				cfg.Backend = opts.backend
			}
			if opts.debug {
				cfg.LogLevel = "debug"
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			cfg.ConfigureLogger()
			logrus.SetOutput(cmd.ErrOrStderr())

			a, err = openApp(cmd.Context(), cfg)
			return err
		},
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "path to a .env file (default ./.env if present)")
	root.PersistentFlags().StringVar(&opts.file, "file", "", "ledger file for the file backend (overrides LEDGER_FILE)")
	root.PersistentFlags().StringVar(&opts.backend, "backend", "", "snapshot backend: file, postgres, sqlite or memory")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	current := func() *app { return a }
	root.AddCommand(
		newAccountCmd(current),
		newPostCmd(current),
		newJournalCmd(current),
		newVerifyCmd(current),
		newServeCmd(current),
	)
	return root, func() {
		if a != nil {
			a.Close()
		}
	}
}

func openApp(ctx context.Context, cfg *config.Config) (*app, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	a := &app{cfg: cfg}

	var opts []ledger.Option
	if len(cfg.KafkaBrokers) > 0 {
		pub := kafka.NewPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		a.closers = append(a.closers, pub.Close)
		opts = append(opts, ledger.WithPublisher(pub))
	}

	var store interfaces.SnapshotStore
	switch cfg.Backend {
	case config.BackendFile:
		store = jsonfile.NewFileStore(cfg.File)
	case config.BackendMemory:
		store = memory.NewSnapshotStore()
	case config.BackendPostgres, config.BackendSQLite:
		s, err := sqlstore.Open(ctx, cfg.Driver(), cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, s.Close)
		store = s
	default:
		return nil, fmt.Errorf("unknown backend %q", cfg.Backend)
	}

	log := logrus.WithField("backend", cfg.Backend)
	a.session = session.New(ledger.New(opts...), store, log)
	if err := a.session.Open(ctx); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

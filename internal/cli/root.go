package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"casa/internal/backend"
	"casa/internal/config"
	"casa/internal/log"
)

type app struct {
	stdout io.Writer
	stderr io.Writer

	envFile     string
	backendType string
	dbPath      string
	debug       bool

	cfg    *config.Config
	logger *log.Logger
}

// NewRootCmd builds the casa command tree writing results to stdout and logs
// to stderr.
func NewRootCmd(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "casa",
		Short: "Personal multi-account, multi-currency expense ledger",
		Long: `casa keeps an append-only ledger of expenses, incomes and transfers
between your own accounts, each account holding one currency.

Example:
  casa account add Konto PLN
  casa add "Biedronka" 54,30 2024-03-02 1
  casa transfer 1 2 100 20 2024-03-05
  casa report
  casa serve`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().StringVar(&a.envFile, "env-file", "", "env file to load (default is .env when present)")
	root.PersistentFlags().StringVar(&a.backendType, "backend", "", "data backend: sqlite or memory (overrides DATA_BACKEND)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides SQLITE_DB_PATH)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		a.migrateCmd(),
		a.accountCmd(),
		a.rateCmd(),
		a.notepadCmd(),
		a.importCmd(),
		a.addCmd(),
		a.transferCmd(),
		a.reportCmd(),
		a.eventsCmd(),
		a.serveCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return err
	}
	if a.backendType != "" {
		cfg.DataBackend = a.backendType
	}
	if a.dbPath != "" {
		cfg.SQLiteDBPath = a.dbPath
	}
	if a.debug {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = SetupLogger(cfg.LogLevel, a.stderr)
	a.logger.Debug("Configuration loaded",
		"backend", cfg.DataBackend,
		log.FieldDBPath, cfg.SQLiteDBPath,
		"amqp_enabled", cfg.AMQPURL != "")
	return nil
}

// withBackend opens the configured backend for the duration of fn.
func (a *app) withBackend(cmd *cobra.Command, fn func(*backend.BackendResult) error) (err error) {
	bcfg, err := backend.FromAppConfig(a.cfg)
	if err != nil {
		return err
	}
	res, err := backend.NewFactory(a.logger).CreateBackend(cmd.Context(), bcfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := res.Cleanup(); cerr != nil && err == nil {
			err = fmt.Errorf("close backend: %w", cerr)
		}
	}()
	return fn(res)
}

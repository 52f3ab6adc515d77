package commands

import (
	"context"
	"database/sql"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/spf13/cobra"

	"github.com/musetronstar/tagd/am"
	"github.com/musetronstar/tagd/db"
	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/tagd/storage"
)

// Persistent flags shared by every command
var (
	verbosityFlag int
	jsonLogFlag   bool
	dbPathFlag    string
	traceFlag     bool

	// verbosity is the effective level after config and flags are merged
	verbosity int
)

// RegisterGlobalFlags adds the persistent flags to the root command
func RegisterGlobalFlags(root *cobra.Command) {
	root.PersistentFlags().CountVarP(&verbosityFlag, "verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv, -vvv)")
	root.PersistentFlags().BoolVar(&jsonLogFlag, "json-log", false, "Write logs as JSON")
	root.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Database path (default from am config, \":memory:\" for a scratch store)")
	root.PersistentFlags().BoolVar(&traceFlag, "trace", false, "Log every engine statement (implies -vv)")
}

// Setup loads configuration and initializes logging before any command runs.
// Flags override configuration.
func Setup(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}
	// am subcommands must still run to repair an invalid config
	if err := cfg.Validate(); err != nil && !isAmCommand(cmd) {
		return errors.WithHint(err, "run 'tagd am validate' for details")
	}

	jsonOutput := cfg.Log.JSON || jsonLogFlag
	if err := logger.Initialize(jsonOutput); err != nil {
		return errors.Wrap(err, "failed to initialize logger")
	}

	verbosity = cfg.Log.Verbosity
	if verbosityFlag > verbosity {
		verbosity = verbosityFlag
	}
	if (traceFlag || cfg.Engine.Trace) && verbosity < logger.VerbosityDebug {
		verbosity = logger.VerbosityDebug
	}
	logger.SetVerbosity(verbosity)

	if logger.ShouldOutput(verbosity, logger.OutputConfig) {
		logger.Debugw("Configuration loaded",
			logger.FieldPath, resolveDBPath(cfg),
			"verbosity", logger.LevelName(verbosity))
	}
	return nil
}

func isAmCommand(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c == AmCmd {
			return true
		}
	}
	return false
}

// resolveDBPath prefers --db over the configured path
func resolveDBPath(cfg *am.Config) string {
	if dbPathFlag != "" {
		return dbPathFlag
	}
	if cfg == nil {
		return am.DefaultDatabasePath
	}
	return cfg.GetDatabasePath()
}

// engine bundles what a command needs to talk to the store
type engine struct {
	db       *sql.DB
	store    *storage.Store
	registry *prometheus.Registry // nil unless metrics are enabled
}

// openEngine opens and migrates the configured database and builds a store
// whose defaults follow the [engine] section.
func openEngine() (*engine, error) {
	cfg, err := am.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}

	path := resolveDBPath(cfg)
	database, err := db.OpenWithMigrations(path, logger.ComponentLogger("db"))
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open database at %s", path)
	}
	if logger.ShouldOutput(verbosity, logger.OutputStartup) {
		logger.Infow("Opened database", logger.FieldPath, path)
	}

	st := storage.New(database, storeConfig(cfg), logger.Logger)

	e := &engine{db: database, store: st}
	if cfg.Metrics.Enabled {
		e.registry = prometheus.NewRegistry()
		st.WithMetrics(storage.NewMetrics(e.registry))
	}
	return e, nil
}

func storeConfig(cfg *am.Config) storage.Config {
	return storage.Config{
		Trace:           cfg.Engine.Trace || traceFlag || logger.ShouldLogTrace(verbosity),
		Flags:           cfg.Engine.Flags(),
		MaxContextDepth: cfg.Engine.MaxContextDepth,
	}
}

// Close writes collected metrics to stderr, then closes the database
func (e *engine) Close() error {
	if e.registry != nil {
		if err := writeMetrics(e.registry); err != nil {
			logger.Warnw("Failed to write metrics", logger.FieldError, err)
		}
	}
	return e.db.Close()
}

func writeMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}
	enc := expfmt.NewEncoder(os.Stderr, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return errors.Wrap(err, "failed to encode metrics")
		}
	}
	return nil
}

// cmdContext returns the command's context, or Background when the command
// runs outside Execute
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

package commands

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/tagd/tagl"
)

// ExecCmd runs TAGL scripts
var ExecCmd = &cobra.Command{
	Use:   "exec [file...]",
	Short: "Run TAGL statements from files or stdin",
	Long: `Run TAGL statements against the database.

Each file is parsed completely before any of its statements run. Results of
gets and queries are written to stdout as TAGL; a failing statement writes
its error tag and the remaining statements still run. With no file, or "-",
statements are read from stdin.

Examples:
  tagd exec animals.tagl
  echo '?? _what _is_a animal _has legs;' | tagd exec
  tagd exec --db :memory: seed.tagl queries.tagl`,
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	s := e.store.NewSession(nil)
	ctx := logger.WithComponent(logger.WithSession(cmdContext(cmd), s.ID.String()), "exec")
	log := logger.LoggerFromContext(ctx)
	driver := tagl.NewDriver(s, cmd.OutOrStdout(), log)

	if len(args) == 0 {
		args = []string{"-"}
	}

	var first error
	total := 0
	for _, name := range args {
		n, err := execFile(ctx, cmd, driver, name)
		total += n
		if logger.ShouldOutput(verbosity, logger.OutputStatements) {
			log.Infow("Ran statements", logger.FieldFile, name, logger.FieldCount, n)
		}
		if err != nil && first == nil {
			first = err
		}
	}

	log.Debugw("Exec finished",
		logger.FieldCount, total,
		"files", len(args))
	return first
}

func execFile(ctx context.Context, cmd *cobra.Command, driver *tagl.Driver, name string) (int, error) {
	var r io.Reader
	if name == "-" {
		r = cmd.InOrStdin()
		name = "<stdin>"
	} else {
		f, err := os.Open(name)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to open %s", name)
		}
		defer f.Close()
		r = f
	}
	return driver.Exec(ctx, name, r)
}

package commands

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/musetronstar/tagd/am"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
	"github.com/musetronstar/tagd/tagd"
	"github.com/musetronstar/tagd/tagd/storage"
	"github.com/musetronstar/tagd/tagd/tagl"
	"github.com/musetronstar/tagd/version"
)

// ShellCmd runs an interactive TAGL session
var ShellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive TAGL session",
	Long: `Read TAGL statements interactively. A statement runs once a line ends
with ";". Lines starting with "." are shell commands:

  .push <id>...     push referent contexts (innermost last)
  .pop              pop the innermost context
  .clear            clear the context stack
  .context          print the context stack
  .search <terms>   full text search over tag ids and relations
  .trace on|off     toggle statement tracing
  .help             show this help
  .quit             leave the shell

When an am.toml is in use it is watched; edits to the [engine] section apply
to the running session.`,
	Args: cobra.NoArgs,
	RunE: runShell,
}

func runShell(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	ctx, cancel := context.WithCancel(cmdContext(cmd))
	defer cancel()

	sh := newShell(e.store, cmd.OutOrStdout())
	sh.interactive = isTerminal(cmd.InOrStdin())
	sh.watchConfig(ctx)

	if sh.interactive {
		fmt.Fprintf(sh.out, "%s\nType .help for commands.\n", version.Get())
	}
	return sh.run(ctx, cmd.InOrStdin())
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

type shell struct {
	store       *storage.Store
	session     *storage.Session
	driver      *tagl.Driver
	out         io.Writer
	interactive bool
	reloads     chan *am.Config
	done        bool
}

func newShell(st *storage.Store, out io.Writer) *shell {
	s := st.NewSession(nil)
	return &shell{
		store:   st,
		session: s,
		driver:  tagl.NewDriver(s, out, logger.Logger),
		out:     out,
		reloads: make(chan *am.Config, 1),
	}
}

// watchConfig follows the highest precedence config file. Reloads are handed
// to the read loop through a channel so the session is only touched there.
func (sh *shell) watchConfig(ctx context.Context) {
	files := am.GetConfigIntrospection().ConfigFiles
	if len(files) == 0 {
		return
	}
	path := files[len(files)-1]

	cw, err := am.NewConfigWatcher(path)
	if err != nil {
		logger.Warnw("Config watching disabled", logger.FieldFile, path, logger.FieldError, err)
		return
	}
	cw.OnReload(func(cfg *am.Config) error {
		select {
		case sh.reloads <- cfg:
		default:
			// an unapplied reload is pending; replace it
			select {
			case <-sh.reloads:
			default:
			}
			sh.reloads <- cfg
		}
		return nil
	})
	cw.Start(ctx)
	go func() {
		<-ctx.Done()
		cw.Stop()
	}()
}

func (sh *shell) applyReloads() {
	for {
		select {
		case cfg := <-sh.reloads:
			sh.session.Flags = cfg.Engine.Flags()
			sh.store.SetTrace(cfg.Engine.Trace || traceFlag)
			logger.Infow("Applied configuration",
				"flags", uint(sh.session.Flags),
				"trace", cfg.Engine.Trace)
		default:
			return
		}
	}
}

func (sh *shell) prompt(continuation bool) {
	if !sh.interactive {
		return
	}
	if continuation {
		fmt.Fprint(sh.out, "   ... ")
		return
	}
	if ctxs := sh.session.Context(); len(ctxs) > 0 {
		fmt.Fprintf(sh.out, "tagd [%s]> ", strings.Join(ctxs, ", "))
		return
	}
	fmt.Fprint(sh.out, "tagd> ")
}

// run reads until EOF or .quit. A statement that is still open at EOF runs
// as is, so the parser reports what is missing.
func (sh *shell) run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)
	var buf strings.Builder

	sh.prompt(false)
	for !sh.done && scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)

		switch {
		case buf.Len() == 0 && strings.HasPrefix(trimmed, "."):
			sh.applyReloads()
			sh.dot(ctx, trimmed)
		case buf.Len() == 0 && trimmed == "":
		default:
			buf.WriteString(line)
			buf.WriteString("\n")
			if !strings.HasSuffix(trimmed, sym.Terminator) {
				sh.prompt(true)
				continue
			}
			sh.applyReloads()
			sh.exec(ctx, buf.String())
			buf.Reset()
		}
		if !sh.done {
			sh.prompt(false)
		}
	}
	if buf.Len() > 0 {
		sh.exec(ctx, buf.String())
	}
	if sh.interactive {
		fmt.Fprintln(sh.out)
	}
	return scanner.Err()
}

func (sh *shell) exec(ctx context.Context, src string) {
	// failures are already written to out as error tags
	sh.driver.Exec(ctx, "<shell>", strings.NewReader(src))
}

func (sh *shell) dot(ctx context.Context, line string) {
	words, err := shellquote.Split(line)
	if err != nil {
		sh.errorf(tagd.TagIllegal, "%v", err)
		return
	}
	name, args := words[0], words[1:]

	switch name {
	case ".quit", ".exit":
		sh.done = true

	case ".help":
		fmt.Fprintln(sh.out, strings.TrimSpace(ShellCmd.Long))

	case ".push":
		if len(args) == 0 {
			sh.errorf(tagd.TSMisuse, ".push needs at least one context")
			return
		}
		for _, id := range args {
			if err := sh.session.Push(ctx, id); err != nil {
				sh.report(err)
				return
			}
		}
		logger.SymbolInfow(sym.Pragma, "Context pushed", logger.FieldContext, sh.session.Context())

	case ".pop":
		if _, err := sh.session.Pop(); err != nil {
			sh.report(err)
		}

	case ".clear":
		sh.session.Clear()

	case ".context":
		for _, id := range sh.session.Context() {
			fmt.Fprintln(sh.out, tagd.Quote(id))
		}

	case ".search":
		if len(args) == 0 {
			sh.errorf(tagd.TSMisuse, ".search needs terms")
			return
		}
		ts, err := sh.session.Search(ctx, strings.Join(args, " "))
		if err != nil {
			sh.report(err)
			return
		}
		for _, t := range ts {
			fmt.Fprintf(sh.out, "%s%s\n", t, sym.Terminator)
		}

	case ".trace":
		if len(args) != 1 || (args[0] != "on" && args[0] != "off") {
			sh.errorf(tagd.TSMisuse, ".trace takes on or off")
			return
		}
		sh.store.SetTrace(args[0] == "on")
		if args[0] == "on" {
			logger.SetVerbosity(logger.VerbosityDebug)
		}

	default:
		sh.errorf(tagd.TagIllegal, "unknown shell command %s (try .help)", name)
	}
}

func (sh *shell) errorf(code tagd.Code, format string, args ...interface{}) {
	sh.report(tagd.Errorf(code, format, args...))
}

func (sh *shell) report(err error) {
	fmt.Fprintf(sh.out, "%s%s\n", tagd.AsError(err).Tag(), sym.Terminator)
}

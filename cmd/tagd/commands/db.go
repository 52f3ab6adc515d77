package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/musetronstar/tagd/am"
	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
	"github.com/musetronstar/tagd/sym"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Inspect, dump and load the tag database",
	Long: `Inspect, dump and load the tag database.

Examples:
  tagd db stats                   # Row counts and schema version
  tagd db terms                   # Every interned id with its roles
  tagd db search legs tail        # Full text search over tags
  tagd db dump > animals.yaml     # Write user tags as YAML
  tagd db load animals.yaml       # Put every tag of a dump`,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	RunE:  runDbStats,
}

var dbTermsCmd = &cobra.Command{
	Use:   "terms",
	Short: "List interned terms and their parts of speech",
	RunE:  runDbTerms,
}

var dbSearchCmd = &cobra.Command{
	Use:   "search <terms>...",
	Short: "Full text search over tag ids and relations",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runDbSearch,
}

var dbDumpCmd = &cobra.Command{
	Use:   "dump [file]",
	Short: "Write all user tags, relations and referents as YAML",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runDbDump,
}

var dbLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Put every tag, relation and referent of a dump",
	Long: `Put every tag, relation and referent of a dump. Loading is idempotent:
records already present are skipped. Use "-" to read stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runDbLoad,
}

var statsFormatFlag string

func init() {
	dbStatsCmd.Flags().StringVar(&statsFormatFlag, "format", "table", "Output format: table, json")

	DbCmd.AddCommand(dbStatsCmd)
	DbCmd.AddCommand(dbTermsCmd)
	DbCmd.AddCommand(dbSearchCmd)
	DbCmd.AddCommand(dbDumpCmd)
	DbCmd.AddCommand(dbLoadCmd)
}

func runDbStats(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	stats, err := e.store.NewSession(nil).Stats(cmdContext(cmd))
	if err != nil {
		return errors.Wrap(err, "failed to collect statistics")
	}

	out := cmd.OutOrStdout()
	if statsFormatFlag == "json" {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal statistics")
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	cfg, _ := am.Load()
	data := pterm.TableData{
		{"Database", resolveDBPath(cfg)},
		{"Schema version", stats.SchemaVersion},
		{"Tags", strconv.Itoa(stats.Tags)},
		{"Hard tags", strconv.Itoa(stats.HardTags)},
		{"Relations", strconv.Itoa(stats.Relations)},
		{"Referents", strconv.Itoa(stats.Referents)},
		{"Terms", strconv.Itoa(stats.Terms)},
	}
	return pterm.DefaultTable.WithWriter(out).WithData(data).Render()
}

func runDbTerms(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	terms, err := e.store.NewSession(nil).Terms(cmdContext(cmd))
	if err != nil {
		return errors.Wrap(err, "failed to list terms")
	}

	data := pterm.TableData{{"Term", "POS"}}
	for _, t := range terms {
		data = append(data, []string{t.ID, t.POS.String()})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(cmd.OutOrStdout()).WithData(data).Render()
}

func runDbSearch(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	terms := strings.Join(args, " ")
	ts, err := e.store.NewSession(nil).Search(cmdContext(cmd), terms)
	if err != nil {
		return err
	}
	logger.QueryDebugw("Searched", "terms", terms, logger.FieldCount, len(ts))
	for _, t := range ts {
		fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", t, sym.Terminator)
	}
	return nil
}

func runDbDump(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	var w io.Writer = cmd.OutOrStdout()
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Create(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to create %s", args[0])
		}
		defer f.Close()
		w = f
	}

	if err := e.store.NewSession(nil).Dump(cmdContext(cmd), w); err != nil {
		return errors.Wrap(err, "failed to dump database")
	}
	return nil
}

func runDbLoad(cmd *cobra.Command, args []string) error {
	e, err := openEngine()
	if err != nil {
		return err
	}
	defer e.Close()

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return errors.Wrapf(err, "failed to open %s", args[0])
		}
		defer f.Close()
		r = f
	}

	n, err := e.store.NewSession(nil).Load(cmdContext(cmd), r)
	if err != nil {
		return errors.Wrapf(err, "failed to load %s", args[0])
	}

	logger.PutDebugw("Loaded dump",
		logger.FieldFile, args[0],
		logger.FieldCount, n)
	fmt.Fprintf(cmd.OutOrStdout(), "loaded %d records from %s\n", n, args[0])
	return nil
}

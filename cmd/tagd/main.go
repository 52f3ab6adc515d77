package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/musetronstar/tagd/cmd/tagd/commands"
	"github.com/musetronstar/tagd/logger"
)

var rootCmd = &cobra.Command{
	Use:   "tagd",
	Short: "tagd - embeddable tag graph database",
	Long: `tagd - an embeddable graph database of tags, relations and referents.

Tags form a single taxonomy rooted at _entity. Statements are written in
TAGL and run against a SQLite file.

Available commands:
  exec    - Run TAGL statements from files or stdin
  shell   - Interactive TAGL session with context pragmas
  db      - Inspect, dump and load the tag database
  am      - Manage tagd configuration ("I am")
  version - Show build information

Examples:
  echo '>> dog _is_a animal;' | tagd exec
  tagd exec animals.tagl --db animals.db
  tagd shell
  tagd db stats
  tagd db dump > animals.yaml`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: commands.Setup,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	commands.RegisterGlobalFlags(rootCmd)

	rootCmd.AddCommand(commands.ExecCmd)
	rootCmd.AddCommand(commands.ShellCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.AmCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

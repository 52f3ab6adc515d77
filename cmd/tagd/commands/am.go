package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/musetronstar/tagd/am"
	"github.com/musetronstar/tagd/errors"
)

// AmCmd represents the am (configuration) command
var AmCmd = &cobra.Command{
	Use:   "am",
	Short: "Manage tagd configuration",
	Long: `am - Manage tagd configuration ("I am")

Configuration sources (in order of precedence):
1. Command line flags (--db, --trace, -v, --json-log)
2. Environment variables (TAGD_* prefix, e.g. TAGD_DATABASE_PATH)
3. Project config (am.toml, searched upward from the working directory)
4. User config (~/.tagd/am.toml)
5. System config (/etc/tagd/am.toml)
6. Default values

Examples:
  tagd am show                        # Show current configuration
  tagd am show --format yaml          # Show configuration as YAML
  tagd am get engine.no_pos_cast      # Get a single value
  tagd am set engine.trace true       # Write to ~/.tagd/am.toml
  tagd am validate ./am.toml          # Strictly check a file
  tagd am where                       # Show where each value came from`,
}

var amShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	RunE:  runAmShow,
}

var amGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a specific configuration value",
	Long:  "Get a specific configuration value using dot notation (e.g., database.path, engine.max_context_depth)",
	Args:  cobra.ExactArgs(1),
	RunE:  runAmGet,
}

var amSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a configuration value in the user config",
	Long: `Set a configuration value in ~/.tagd/am.toml (or --file). The previous
file is kept as .back1 through .back3 and restored if the result is invalid.`,
	Args: cobra.ExactArgs(2),
	RunE: runAmSet,
}

var amValidateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Validate configuration",
	Long: `Validate the merged configuration, or strictly decode one file. Strict
decoding reports unknown keys, which the merged load silently ignores.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAmValidate,
}

var amWhereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where configuration is loaded from",
	RunE:  runAmWhere,
}

var (
	configFormat string
	setFileFlag  string
)

func init() {
	amShowCmd.Flags().StringVar(&configFormat, "format", "toml", "Output format: toml, yaml, json")
	amSetCmd.Flags().StringVar(&setFileFlag, "file", "", "Config file to write (default ~/.tagd/am.toml)")

	AmCmd.AddCommand(amShowCmd)
	AmCmd.AddCommand(amGetCmd)
	AmCmd.AddCommand(amSetCmd)
	AmCmd.AddCommand(amValidateCmd)
	AmCmd.AddCommand(amWhereCmd)
}

func runAmShow(cmd *cobra.Command, args []string) error {
	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}

	out := cmd.OutOrStdout()
	if configFormat == "json" {
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return errors.Wrap(err, "failed to marshal config to JSON")
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	data, err := cfg.Marshal(configFormat)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "# tagd configuration\n%s", data)
	return nil
}

func runAmGet(cmd *cobra.Command, args []string) error {
	key := args[0]

	if !am.GetViper().IsSet(key) {
		return errors.Newf("configuration key %q not found", key)
	}
	fmt.Fprintln(cmd.OutOrStdout(), am.Get(key))
	return nil
}

func runAmSet(cmd *cobra.Command, args []string) error {
	path := setFileFlag
	if path == "" {
		path = am.UserConfigPath()
	}
	if path == "" {
		return errors.New("could not determine home directory; use --file")
	}

	if err := am.SetValue(path, args[0], args[1]); err != nil {
		return err
	}
	am.Reset()
	fmt.Fprintf(cmd.OutOrStdout(), "%s = %s (%s)\n", args[0], args[1], path)
	return nil
}

func runAmValidate(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	if len(args) == 1 {
		if _, err := am.ValidateFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(out, "✓ %s is valid\n", args[0])
		return nil
	}

	cfg, err := am.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load config")
	}
	if err := cfg.Validate(); err != nil {
		return errors.Wrap(err, "configuration validation failed")
	}
	for _, path := range am.GetConfigIntrospection().ConfigFiles {
		if _, err := am.ValidateFile(path); err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "✓ Configuration is valid")
	return nil
}

func runAmWhere(cmd *cobra.Command, args []string) error {
	intro := am.GetConfigIntrospection()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Configuration cascade (later overrides earlier):")
	fmt.Fprintln(out, "  1. [DEFAULT]  Built-in defaults")
	fmt.Fprintln(out, "  2. [SYSTEM]   /etc/tagd/am.toml")
	fmt.Fprintln(out, "  3. [USER]     ~/.tagd/am.toml")
	fmt.Fprintln(out, "  4. [PROJECT]  ./am.toml (searches up directories)")
	fmt.Fprintln(out, "  5. [ENV]      TAGD_* environment variables")
	fmt.Fprintln(out)

	data := pterm.TableData{{"Key", "Value", "Source", "From"}}
	for _, s := range intro.Settings {
		value := fmt.Sprintf("%v", s.Value)
		if len(value) > 50 {
			value = value[:47] + "..."
		}
		data = append(data, []string{s.Key, value, string(s.Source), s.SourcePath})
	}
	return pterm.DefaultTable.WithHasHeader().WithWriter(out).WithData(data).Render()
}

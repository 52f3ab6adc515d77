package am

import (
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	// Database path is optional - empty falls back to DefaultDatabasePath

	if c.Engine.MaxContextDepth < 0 {
		return errors.Newf("engine.max_context_depth must be >= 0, got %d", c.Engine.MaxContextDepth)
	}

	if c.Log.Verbosity < 0 || c.Log.Verbosity > logger.VerbosityTrace {
		return errors.Newf("log.verbosity must be between 0 and %d, got %d", logger.VerbosityTrace, c.Log.Verbosity)
	}

	return nil
}

// ValidateFile strictly decodes a single am.toml. Unlike Viper, which ignores
// keys it does not know, misspelled keys are reported as errors.
func ValidateFile(path string) (*Config, error) {
	var config Config
	md, err := toml.DecodeFile(path, &config)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse %s", path)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		sort.Strings(keys)
		return nil, errors.WithHint(
			errors.Newf("%s: unknown keys: %s", path, strings.Join(keys, ", ")),
			"valid sections are [database], [engine], [log] and [metrics]",
		)
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, path)
	}
	return &config, nil
}

package am

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/musetronstar/tagd/tagd/referent"
)

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.path", DefaultDatabasePath)

	v.SetDefault("engine.trace", false)
	v.SetDefault("engine.no_pos_cast", false)
	v.SetDefault("engine.no_transform_referents", false)
	v.SetDefault("engine.no_not_found_error", false)
	v.SetDefault("engine.ignore_duplicates", false)
	v.SetDefault("engine.max_context_depth", referent.DefaultMaxDepth)

	v.SetDefault("log.json", false)
	v.SetDefault("log.verbosity", 0)

	v.SetDefault("metrics.enabled", false)
}

// BindEnvVars binds the settings most often overridden per invocation.
// AutomaticEnv covers the rest through the TAGD_ prefix.
func BindEnvVars(v *viper.Viper) {
	v.BindEnv("database.path", EnvPrefix+"_DATABASE_PATH")
	v.BindEnv("engine.trace", EnvPrefix+"_ENGINE_TRACE")
	v.BindEnv("log.json", EnvPrefix+"_LOG_JSON")
}

// GetDatabasePath returns the configured database path
func (c *Config) GetDatabasePath() string {
	if c.Database.Path == "" {
		return DefaultDatabasePath
	}
	return c.Database.Path
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf("Config{Database: %s, Engine: {Flags: %d, MaxContextDepth: %d}, Log: {JSON: %t, Verbosity: %d}}",
		c.GetDatabasePath(), c.Engine.Flags(), c.Engine.MaxContextDepth, c.Log.JSON, c.Log.Verbosity)
}

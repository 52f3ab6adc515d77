package am

import "github.com/musetronstar/tagd/tagd"

// Config represents the tagd configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database" toml:"database" yaml:"database"`
	Engine   EngineConfig   `mapstructure:"engine" toml:"engine" yaml:"engine"`
	Log      LogConfig      `mapstructure:"log" toml:"log" yaml:"log"`
	Metrics  MetricsConfig  `mapstructure:"metrics" toml:"metrics" yaml:"metrics"`
}

// DatabaseConfig configures the SQLite database
type DatabaseConfig struct {
	Path string `mapstructure:"path" toml:"path" yaml:"path"` // ":memory:" for a throwaway store
}

// EngineConfig maps onto the storage session flags
type EngineConfig struct {
	Trace                bool `mapstructure:"trace" toml:"trace" yaml:"trace"`
	NoPosCast            bool `mapstructure:"no_pos_cast" toml:"no_pos_cast" yaml:"no_pos_cast"`
	NoTransformReferents bool `mapstructure:"no_transform_referents" toml:"no_transform_referents" yaml:"no_transform_referents"`
	NoNotFoundError      bool `mapstructure:"no_not_found_error" toml:"no_not_found_error" yaml:"no_not_found_error"`
	IgnoreDuplicates     bool `mapstructure:"ignore_duplicates" toml:"ignore_duplicates" yaml:"ignore_duplicates"`

	// MaxContextDepth bounds the referent context stack; 0 keeps the engine default.
	MaxContextDepth int `mapstructure:"max_context_depth" toml:"max_context_depth" yaml:"max_context_depth"`
}

// LogConfig configures the zap logger
type LogConfig struct {
	JSON      bool `mapstructure:"json" toml:"json" yaml:"json"`
	Verbosity int  `mapstructure:"verbosity" toml:"verbosity" yaml:"verbosity"` // same scale as -v count
}

// MetricsConfig toggles Prometheus collectors on the storage session
type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled" toml:"enabled" yaml:"enabled"`
}

// Flags converts the engine section into session flags. Trace is a store
// option and is not among them.
func (e EngineConfig) Flags() tagd.Flags {
	var f tagd.Flags
	if e.NoPosCast {
		f |= tagd.NoPosCast
	}
	if e.NoTransformReferents {
		f |= tagd.NoTransformReferents
	}
	if e.NoNotFoundError {
		f |= tagd.NoNotFoundError
	}
	if e.IgnoreDuplicates {
		f |= tagd.IgnoreDuplicates
	}
	return f
}

const (
	// DefaultDirPermissions is used when creating ~/.tagd
	DefaultDirPermissions = 0o755
	// DefaultDatabasePath is relative to the working directory
	DefaultDatabasePath = "tagd.db"
	// EnvPrefix is the prefix for environment overrides, e.g. TAGD_DATABASE_PATH
	EnvPrefix = "TAGD"
)

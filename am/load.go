package am

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/musetronstar/tagd/errors"
	"github.com/musetronstar/tagd/logger"
)

var (
	loaded *Config
	merged *viper.Viper
)

// ConfigSources records which file last set each key. Keys absent from the
// map came from defaults or the environment.
var ConfigSources = map[string]SourceInfo{}

// Load merges defaults, config files and TAGD_* variables once and caches
// the result until Reset.
func Load() (*Config, error) {
	if loaded != nil {
		return loaded, nil
	}
	cfg, err := LoadWithViper(GetViper())
	if err != nil {
		return nil, err
	}
	loaded = cfg
	return loaded, nil
}

// GetViper returns the merged viper instance, building it on first use
func GetViper() *viper.Viper {
	if merged == nil {
		merged = newViper()
	}
	return merged
}

// LoadWithViper decodes whatever v holds; nothing is merged
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile decodes one file over the defaults, ignoring the environment
func LoadFromFile(path string) (*Config, error) {
	fv := viper.New()
	SetDefaults(fv)
	fv.SetConfigFile(path)
	fv.SetConfigType("toml")
	if err := fv.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	cfg, err := LoadWithViper(fv)
	return cfg, errors.Wrapf(err, "in %s", path)
}

// Reset drops the cached configuration so the next Load reads everything again
func Reset() {
	loaded = nil
	merged = nil
	ConfigSources = map[string]SourceInfo{}
}

func newViper() *viper.Viper {
	nv := viper.New()
	nv.SetEnvPrefix(EnvPrefix)
	nv.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	nv.AutomaticEnv()
	BindEnvVars(nv)
	SetDefaults(nv)

	for _, cp := range configPaths() {
		mergeFile(nv, cp)
	}
	return nv
}

// mergeFile layers one file into the config map, so TAGD_* variables still
// take precedence over it. Unreadable files are skipped with a warning.
func mergeFile(nv *viper.Viper, cp configPath) {
	if _, err := os.Stat(cp.path); err != nil {
		return
	}

	fv := viper.New()
	fv.SetConfigFile(cp.path)
	fv.SetConfigType("toml")
	if err := fv.ReadInConfig(); err != nil {
		logger.Warnw("Skipping unreadable config", logger.FieldFile, cp.path, logger.FieldError, err)
		return
	}
	if err := nv.MergeConfigMap(fv.AllSettings()); err != nil {
		logger.Warnw("Skipping config", logger.FieldFile, cp.path, logger.FieldError, err)
		return
	}
	for _, key := range fv.AllKeys() {
		ConfigSources[key] = SourceInfo{Source: cp.source, Path: cp.path}
	}
}

// Get returns a merged value by dotted key (engine.trace)
func Get(key string) interface{} {
	return GetViper().Get(key)
}

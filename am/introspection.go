package am

import (
	"os"
	"sort"
	"strings"
)

// ConfigSource represents where a configuration value came from
type ConfigSource string

const (
	SourceDefault     ConfigSource = "default"
	SourceSystem      ConfigSource = "system"      // /etc/tagd/am.toml
	SourceUser        ConfigSource = "user"        // ~/.tagd/am.toml
	SourceProject     ConfigSource = "project"     // am.toml found walking up from the working directory
	SourceEnvironment ConfigSource = "environment" // TAGD_* env vars
)

// SettingInfo contains metadata about a configuration setting
type SettingInfo struct {
	Key        string       `json:"key" yaml:"key"`
	Value      interface{}  `json:"value" yaml:"value"`
	Source     ConfigSource `json:"source" yaml:"source"`
	SourcePath string       `json:"source_path,omitempty" yaml:"source_path,omitempty"` // File path or env var name
}

// ConfigIntrospection provides metadata about the active configuration
type ConfigIntrospection struct {
	ConfigFiles []string      `json:"config_files" yaml:"config_files"` // files merged, lowest precedence first
	Settings    []SettingInfo `json:"settings" yaml:"settings"`
}

// SourceInfo tracks where a configuration value originated
type SourceInfo struct {
	Source ConfigSource
	Path   string // File path or environment variable name
}

// GetConfigIntrospection reports every effective setting and where it came
// from, using the sources tracked while the files were merged.
func GetConfigIntrospection() *ConfigIntrospection {
	v := GetViper()

	introspection := &ConfigIntrospection{
		Settings: make([]SettingInfo, 0),
	}

	seen := map[string]bool{}
	for _, si := range ConfigSources {
		if !seen[si.Path] {
			seen[si.Path] = true
			introspection.ConfigFiles = append(introspection.ConfigFiles, si.Path)
		}
	}
	sort.Slice(introspection.ConfigFiles, func(i, j int) bool {
		return sourceOrder(introspection.ConfigFiles[i]) < sourceOrder(introspection.ConfigFiles[j])
	})

	keys := v.AllKeys()
	sort.Strings(keys)
	for _, key := range keys {
		info := SourceInfo{Source: SourceDefault, Path: "built-in default"}
		if si, ok := ConfigSources[key]; ok {
			info = si
		}

		envKey := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if _, ok := os.LookupEnv(envKey); ok {
			info = SourceInfo{Source: SourceEnvironment, Path: envKey}
		}

		introspection.Settings = append(introspection.Settings, SettingInfo{
			Key:        key,
			Value:      v.Get(key),
			Source:     info.Source,
			SourcePath: info.Path,
		})
	}

	return introspection
}

func sourceOrder(path string) int {
	for _, si := range ConfigSources {
		if si.Path != path {
			continue
		}
		switch si.Source {
		case SourceSystem:
			return 0
		case SourceUser:
			return 1
		case SourceProject:
			return 2
		}
	}
	return 3
}

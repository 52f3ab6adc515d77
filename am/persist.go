package am

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/musetronstar/tagd/errors"
)

// Output formats accepted by Marshal
const (
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Marshal renders the configuration as TOML or YAML
func (c *Config) Marshal(format string) ([]byte, error) {
	switch strings.ToLower(format) {
	case "", FormatTOML:
		data, err := toml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as toml")
		}
		return data, nil
	case FormatYAML, "yml":
		data, err := yaml.Marshal(c)
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal config as yaml")
		}
		return data, nil
	default:
		return nil, errors.WithHint(
			errors.Newf("unknown config format %q", format),
			"use toml or yaml",
		)
	}
}

// createBackup creates rotating backups (.back1, .back2, .back3) before modifying config
func createBackup(configPath string) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil
	}

	back3 := configPath + ".back3"
	back2 := configPath + ".back2"
	back1 := configPath + ".back1"

	if err := os.Remove(back3); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to delete .back3")
	}

	if _, err := os.Stat(back2); err == nil {
		if err := os.Rename(back2, back3); err != nil {
			return errors.Wrap(err, "failed to rotate .back2 to .back3")
		}
	}

	if _, err := os.Stat(back1); err == nil {
		if err := os.Rename(back1, back2); err != nil {
			return errors.Wrap(err, "failed to rotate .back1 to .back2")
		}
	}

	content, err := os.ReadFile(configPath)
	if err != nil {
		return errors.Wrap(err, "failed to read config for backup")
	}

	if err := os.WriteFile(back1, content, 0644); err != nil {
		return errors.Wrap(err, "failed to create .back1")
	}

	return nil
}

// SetValue writes one dotted key (e.g. engine.no_pos_cast) into the TOML file
// at configPath, creating it if needed. The value is parsed as an integer or a
// bool when it looks like one. The result must pass ValidateFile; on
// failure the previous file is restored from .back1.
func SetValue(configPath, key, value string) error {
	section, field, ok := strings.Cut(key, ".")
	if !ok || section == "" || field == "" {
		return errors.Newf("config key %q must be section.field", key)
	}

	if err := os.MkdirAll(filepath.Dir(configPath), DefaultDirPermissions); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}

	config := make(map[string]interface{})
	existed := false
	if data, err := os.ReadFile(configPath); err == nil {
		existed = true
		if err := toml.Unmarshal(data, &config); err != nil {
			return errors.Wrapf(err, "failed to parse %s", configPath)
		}
	}

	table, _ := config[section].(map[string]interface{})
	if table == nil {
		table = make(map[string]interface{})
	}
	table[field] = parseValue(value)
	config[section] = table

	if err := createBackup(configPath); err != nil {
		return errors.Wrap(err, "failed to create backup")
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrapf(err, "failed to write %s", configPath)
	}

	if _, verr := ValidateFile(configPath); verr != nil {
		if existed {
			if content, err := os.ReadFile(configPath + ".back1"); err == nil {
				os.WriteFile(configPath, content, 0644)
			}
		} else {
			os.Remove(configPath)
		}
		return verr
	}
	return nil
}

func parseValue(s string) interface{} {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}

package am

import (
	"os"
	"path/filepath"
)

// FileName is the config file looked for in every location
const FileName = "am.toml"

// systemConfigPath is a variable so tests can point it at a temp dir
var systemConfigPath = filepath.Join("/etc/tagd", FileName)

// UserConfigPath returns ~/.tagd/am.toml, or "" without a home directory
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tagd", FileName)
}

// projectConfigPath walks up from the working directory to the first am.toml
func projectConfigPath() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		p := filepath.Join(dir, FileName)
		if _, err := os.Stat(p); err == nil {
			return p
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type configPath struct {
	path   string
	source ConfigSource
}

// configPaths lists candidate files from lowest to highest precedence.
// Files that do not exist are still listed.
func configPaths() []configPath {
	paths := []configPath{{systemConfigPath, SourceSystem}}
	if p := UserConfigPath(); p != "" {
		paths = append(paths, configPath{p, SourceUser})
	}
	if p := projectConfigPath(); p != "" {
		paths = append(paths, configPath{p, SourceProject})
	}
	return paths
}

// Package config loads and stores plugin defaults in the XDG config dir.
// Only non-secret settings live here: credentials always arrive in the
// job's input envelope, never on disk. Envelope values win over config
// values wherever both apply.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"

	"sqlrun/plugin/internal/xdg"
)

// Config holds non-sensitive plugin defaults.
type Config struct {
	// OutputDir overrides where export artifacts are written.
	// Empty means the job's working directory.
	OutputDir string `json:"output_dir"`

	// Debug enables the diagnostic trace for every run.
	Debug bool `json:"debug"`
}

// path returns the path to the config file.
func path() (string, error) {
	dir, err := xdg.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads configuration; missing file returns defaults.
func Load() (Config, error) {
	var c Config
	p, err := path()
	if err != nil {
		return c, err
	}
	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return c, nil
		}
		return c, err
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return c, err
	}
	return c, nil
}

// Save writes configuration with 0600 permissions.
func Save(c Config) error {
	p, err := path()
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0o600)
}

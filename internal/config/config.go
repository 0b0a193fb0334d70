package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Config holds the meta-shell settings. All fields are optional in the YAML
// file; zero values are filled in by applyDefaults.
type Config struct {
	// Shell is the root shell executable. Empty means the platform default
	// ($SHELL or bash on POSIX, cmd.exe on Windows).
	Shell string `yaml:"shell"`

	// Cols and Rows set the initial window size of new sessions.
	Cols int `yaml:"cols"`
	Rows int `yaml:"rows"`

	// LogFile receives diagnostic logging. Empty silences all logging so
	// diagnostics never corrupt the terminal relay.
	LogFile string `yaml:"log_file"`

	// ScrollbackBytes bounds the per-session output scrollback buffer.
	ScrollbackBytes int `yaml:"scrollback_bytes"`
}

const (
	DefaultCols            = 120
	DefaultRows            = 30
	DefaultScrollbackBytes = 1024 * 1024
)

// Load loads configuration from a YAML file.
// If path is empty, it searches default locations; a missing config file is
// not an error, the defaults apply.
func Load(path string) (*Config, error) {
	if path == "" {
		for _, defaultPath := range []string{"metashell.yaml", "metashell.yml"} {
			if _, err := os.Stat(defaultPath); err == nil {
				path = defaultPath
				break
			}
		}
		if path == "" {
			cfg := applyDefaults(Config{})
			return &cfg, nil
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	cfg = applyDefaults(cfg)
	return &cfg, nil
}

func applyDefaults(cfg Config) Config {
	if cfg.Shell == "" {
		cfg.Shell = DefaultShell()
	}
	if cfg.Cols <= 0 {
		cfg.Cols = DefaultCols
	}
	if cfg.Rows <= 0 {
		cfg.Rows = DefaultRows
	}
	if cfg.ScrollbackBytes <= 0 {
		cfg.ScrollbackBytes = DefaultScrollbackBytes
	}
	return cfg
}

// DefaultShell returns the platform's root shell: the SHELL environment
// variable (falling back to bash) on POSIX, cmd.exe on Windows.
func DefaultShell() string {
	if runtime.GOOS == "windows" {
		return "cmd.exe"
	}
	if shell := os.Getenv("SHELL"); shell != "" {
		return shell
	}
	return "bash"
}

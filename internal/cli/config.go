package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
)

// Config holds the settings read from the configuration file. Command
// line flags take precedence over every field.
type Config struct {
	LogLevel string `toml:"log_level"`
	Format   string `toml:"format"`
	Indent   string `toml:"indent"`
}

func defaultConfig() Config {
	return Config{
		LogLevel: "info",
		Format:   formatJSON,
	}
}

// level parses LogLevel.
func (c Config) level() (log.Level, error) {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("config: log_level %q: %w", c.LogLevel, err)
	}
	return lvl, nil
}

func (c Config) validate() error {
	if _, err := c.level(); err != nil {
		return err
	}
	if _, err := codecFor(c.Format, c.Indent); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// loadConfig reads the TOML file at path over the defaults. An empty path
// falls back to the default location, where a missing file is not an error.
func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	explicit := path != ""
	if !explicit {
		var err error
		if path, err = configPath(); err != nil {
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}

	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return cfg, fmt.Errorf("config %s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// configPath returns the default config file location using the XDG
// convention (~/.config/skein/config.toml).
func configPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}

// Package config holds the editor settings. Values come from, in order of
// precedence, TILEPAINT_* environment variables, an optional config file
// (YAML, TOML or JSON) and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

var ErrInvalid = errors.New("config: invalid value")

const EnvPrefix = "TILEPAINT"

type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

// Log configures the optional rotating log file.
type Log struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

type Config struct {
	Window Window `mapstructure:"window"`
	// CellSize is the initial edge of one cell in pixels.
	CellSize    int  `mapstructure:"cell_size"`
	PanStep     int  `mapstructure:"pan_step"`
	GridLines   bool `mapstructure:"grid_lines"`
	WatchAssets bool `mapstructure:"watch_assets"`
	Log         Log  `mapstructure:"log"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 800)
	v.SetDefault("window.height", 600)
	v.SetDefault("window.title", "tilepaint")
	v.SetDefault("cell_size", 40)
	v.SetDefault("pan_step", 1)
	v.SetDefault("grid_lines", true)
	v.SetDefault("watch_assets", true)
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
}

// Default returns the built-in settings. The environment is not consulted.
func Default() Config {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		panic(fmt.Sprintf("config: defaults: %v", err))
	}
	return cfg
}

// Load reads the settings. An empty path skips the config file.
// TILEPAINT_* environment variables override both file and defaults.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		}
	}
	return decode(v)
}

func decode(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.CellSize <= 0:
		return fmt.Errorf("%w: cell_size %d", ErrInvalid, c.CellSize)
	case c.PanStep <= 0:
		return fmt.Errorf("%w: pan_step %d", ErrInvalid, c.PanStep)
	case c.Log.File != "" && c.Log.MaxSizeMB <= 0:
		return fmt.Errorf("%w: log.max_size_mb %d", ErrInvalid, c.Log.MaxSizeMB)
	}
	return nil
}

// Cells is how many whole cells fit in the window on each axis, at least
// one.
func (c Config) Cells() (cols, rows int) {
	return max(c.Window.Width/c.CellSize, 1), max(c.Window.Height/c.CellSize, 1)
}

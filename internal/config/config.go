// Package config loads mixtape settings from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Audio   AudioConfig   `mapstructure:"audio"`
	UI      UIConfig      `mapstructure:"ui"`
	Store   StoreConfig   `mapstructure:"store"`
	Logging LoggingConfig `mapstructure:"logging"`

	v *viper.Viper
}

// CatalogConfig selects the song list
type CatalogConfig struct {
	File string `mapstructure:"file"` // empty = built-in catalog
}

// AudioConfig tunes fetching and playback
type AudioConfig struct {
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	TickInterval time.Duration `mapstructure:"tick_interval"` // time update cadence while playing
	CacheEntries int           `mapstructure:"cache_entries"` // decoded-from resources kept in memory
}

// UIConfig holds presentation settings
type UIConfig struct {
	SplashDuration time.Duration `mapstructure:"splash_duration"`
	GridColumns    int           `mapstructure:"grid_columns"`
	Accent         string        `mapstructure:"accent"`
	Recipient      string        `mapstructure:"recipient"`
	Author         string        `mapstructure:"author"`
}

// StoreConfig locates the visit counter database
type StoreConfig struct {
	File string `mapstructure:"file"` // empty = memory only
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"` // "off" disables logging
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			FetchTimeout: 60 * time.Second,
			TickInterval: 250 * time.Millisecond,
			CacheEntries: 4,
		},
		UI: UIConfig{
			SplashDuration: 1500 * time.Millisecond,
			GridColumns:    4,
			Accent:         "#EC4899",
			Recipient:      "Saranya",
			Author:         "Karan Kaul",
		},
		Store: StoreConfig{
			File: filepath.Join(DataDir(), "mixtape.db"),
		},
		// an empty log file means DataDir/mixtape.log
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}

// DataDir returns the directory mixtape keeps its log file and database in
func DataDir() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mixtape")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "mixtape")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "mixtape")
	}
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "mixtape")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "mixtape")
	}
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("catalog.file", d.Catalog.File)
	v.SetDefault("audio.fetch_timeout", d.Audio.FetchTimeout)
	v.SetDefault("audio.tick_interval", d.Audio.TickInterval)
	v.SetDefault("audio.cache_entries", d.Audio.CacheEntries)
	v.SetDefault("ui.splash_duration", d.UI.SplashDuration)
	v.SetDefault("ui.grid_columns", d.UI.GridColumns)
	v.SetDefault("ui.accent", d.UI.Accent)
	v.SetDefault("ui.recipient", d.UI.Recipient)
	v.SetDefault("ui.author", d.UI.Author)
	v.SetDefault("store.file", d.Store.File)
	v.SetDefault("logging.file", d.Logging.File)
	v.SetDefault("logging.level", d.Logging.Level)
}

// LoadConfig loads configuration from path, or from the default locations
// when path is empty. Environment variables prefixed MIXTAPE_ override both.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(defaultConfigPath())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("MIXTAPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}
	cfg.normalize()
	cfg.v = v
	return cfg, nil
}

// normalize replaces unusable values with defaults
func (c *Config) normalize() {
	d := DefaultConfig()
	if c.UI.GridColumns < 1 {
		c.UI.GridColumns = d.UI.GridColumns
	}
	if c.UI.SplashDuration < 0 {
		c.UI.SplashDuration = 0
	}
	if c.Audio.TickInterval <= 0 {
		c.Audio.TickInterval = d.Audio.TickInterval
	}
	if c.Audio.CacheEntries < 1 {
		c.Audio.CacheEntries = d.Audio.CacheEntries
	}
}

// FileUsed returns the config file that was read, if any
func (c *Config) FileUsed() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Watch calls onChange with the reloaded configuration whenever the config
// file changes. It reports false when there is no file to watch.
func (c *Config) Watch(onChange func(*Config)) bool {
	if c.FileUsed() == "" {
		return false
	}
	v := c.v
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
	return true
}

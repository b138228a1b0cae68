package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	StoreSQLite = "sqlite"
	StoreFile   = "file"
	StoreMemory = "memory"
)

type RuntimeConfig struct {
	Store                string
	DataPath             string
	DesktopNotifications bool
	TickBuffer           int
	WorkStartHour        int
	WorkEndHour          int
	LogFile              string
	LogLevel             string
}

func DefaultRuntimeConfig() RuntimeConfig {
	dir := DefaultDir()
	return RuntimeConfig{
		Store:                StoreSQLite,
		DataPath:             filepath.Join(dir, "deepwork.db"),
		DesktopNotifications: true,
		TickBuffer:           4,
		WorkStartHour:        9,
		WorkEndHour:          17,
		LogFile:              filepath.Join(dir, "deepwork.log"),
		LogLevel:             "info",
	}
}

// DefaultDir is the per-user directory for config, data and logs.
func DefaultDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		return ".deepwork"
	}
	return filepath.Join(base, "deepwork")
}

// DefaultConfigFile is where Load looks when no path is given.
func DefaultConfigFile() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// Load reads the optional YAML file at path and DEEPWORK_* environment
// overrides on top of the defaults. A missing file is not an error; invalid
// values fall back to their defaults.
func Load(path string) (RuntimeConfig, error) {
	def := DefaultRuntimeConfig()

	v := viper.New()
	v.SetDefault("store", def.Store)
	v.SetDefault("data_path", "")
	v.SetDefault("desktop_notifications", def.DesktopNotifications)
	v.SetDefault("tick_buffer", def.TickBuffer)
	v.SetDefault("work_start_hour", def.WorkStartHour)
	v.SetDefault("work_end_hour", def.WorkEndHour)
	v.SetDefault("log_file", def.LogFile)
	v.SetDefault("log_level", def.LogLevel)
	v.SetEnvPrefix("DEEPWORK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return def, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := RuntimeConfig{
		Store:                strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		DataPath:             strings.TrimSpace(v.GetString("data_path")),
		DesktopNotifications: v.GetBool("desktop_notifications"),
		TickBuffer:           v.GetInt("tick_buffer"),
		WorkStartHour:        v.GetInt("work_start_hour"),
		WorkEndHour:          v.GetInt("work_end_hour"),
		LogFile:              strings.TrimSpace(v.GetString("log_file")),
		LogLevel:             strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),
	}
	return cfg.normalize(def), nil
}

func (c RuntimeConfig) normalize(def RuntimeConfig) RuntimeConfig {
	switch c.Store {
	case StoreSQLite, StoreFile, StoreMemory:
	default:
		c.Store = def.Store
	}
	if c.DataPath == "" {
		c.DataPath = defaultDataPath(c.Store)
	}
	if c.TickBuffer <= 0 {
		c.TickBuffer = def.TickBuffer
	}
	if c.WorkStartHour < 0 || c.WorkEndHour > 24 || c.WorkStartHour >= c.WorkEndHour {
		c.WorkStartHour = def.WorkStartHour
		c.WorkEndHour = def.WorkEndHour
	}
	if c.LogFile == "" {
		c.LogFile = def.LogFile
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		c.LogLevel = def.LogLevel
	}
	return c
}

func (c RuntimeConfig) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

func defaultDataPath(store string) string {
	if store == StoreFile {
		return filepath.Join(DefaultDir(), "deepwork.json")
	}
	return filepath.Join(DefaultDir(), "deepwork.db")
}

package config

import (
	"errors"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"interruptlog/internal/event"
	"interruptlog/internal/export"
)

const appName = "interruptlog"

type DefaultsConfig struct {
	Categories []string `mapstructure:"categories"`
	TaskTypes  []string `mapstructure:"task_types"`
}

type Config struct {
	DatabasePath         string         `mapstructure:"database_path"`
	ExportDir            string         `mapstructure:"export_dir"`
	Locale               string         `mapstructure:"locale"` // empty: LC_ALL, LC_TIME, LANG
	LogFile              string         `mapstructure:"log_file"`
	TimerIntervalSeconds int            `mapstructure:"timer_interval_seconds"`
	WatchStore           bool           `mapstructure:"watch_store"` // reload when another process writes the store
	Defaults             DefaultsConfig `mapstructure:"defaults"`
}

func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/" + appName)
		v.AddConfigPath("/etc/" + appName + "/")
	}

	v.SetEnvPrefix("INTERRUPTLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("database_path", appName+".db")
	v.SetDefault("export_dir", ".")
	v.SetDefault("locale", "")
	v.SetDefault("log_file", "")
	v.SetDefault("timer_interval_seconds", 1)
	v.SetDefault("watch_store", true)
	v.SetDefault("defaults.categories", event.DefaultCategories)
	v.SetDefault("defaults.task_types", event.DefaultTaskTypes)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found, using defaults.")
		} else {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.TimerIntervalSeconds < 1 {
		log.Println("Warning: timer_interval_seconds too low, setting to 1")
		cfg.TimerIntervalSeconds = 1
	}
	if cfg.DatabasePath == "" {
		log.Printf("Warning: empty database_path, using %s.db", appName)
		cfg.DatabasePath = appName + ".db"
	}

	log.Printf("Configuration loaded: %+v", cfg)
	return &cfg, nil
}

func (c *Config) TimerInterval() time.Duration {
	return time.Duration(c.TimerIntervalSeconds) * time.Second
}

// Layout resolves the CSV date/time layout from the configured locale, or
// from the environment when none is set.
func (c *Config) Layout() export.Layout {
	if c.Locale != "" {
		return export.LayoutFor(c.Locale)
	}
	return export.LayoutFor(export.EnvLocale())
}

// DefaultLogPath is where the popup logs when no log file is configured.
func DefaultLogPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), appName+".log")
	}
	return filepath.Join(home, ".config", appName, appName+".log")
}

// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/tuidoro/internal/model"
)

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Timer TimerConfig `toml:"timer"`
	Log   LogConfig   `toml:"log"`
}

// TimerConfig maps durations in minutes.
type TimerConfig struct {
	Focus          *int `toml:"focus"`
	ShortBreak     *int `toml:"short-break"`
	LongBreak      *int `toml:"long-break"`
	LongBreakEvery *int `toml:"long-break-every"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Timer.validate(); err != nil {
		return FileConfig{}, err
	}
	return cfg, nil
}

func (t TimerConfig) validate() error {
	for name, v := range map[string]*int{
		"focus":            t.Focus,
		"short-break":      t.ShortBreak,
		"long-break":       t.LongBreak,
		"long-break-every": t.LongBreakEvery,
	} {
		if v != nil && *v <= 0 {
			return fmt.Errorf("timer.%s must be positive", name)
		}
	}
	return nil
}

// Apply overlays the configured values on d.
func (t TimerConfig) Apply(d model.Durations) model.Durations {
	if t.Focus != nil {
		d.Focus = time.Duration(*t.Focus) * time.Minute
	}
	if t.ShortBreak != nil {
		d.ShortBreak = time.Duration(*t.ShortBreak) * time.Minute
	}
	if t.LongBreak != nil {
		d.LongBreak = time.Duration(*t.LongBreak) * time.Minute
	}
	if t.LongBreakEvery != nil {
		d.LongBreakEvery = *t.LongBreakEvery
	}
	return d
}

// Template is written by `tuidoro config` when no file exists yet.
const Template = `# tuidoro configuration

[timer]
# Durations in minutes.
# focus = 25
# short-break = 5
# long-break = 15
# Take a long break after this many focus sessions in a day.
# long-break-every = 4

[log]
# debug, info, warn or error
# level = "info"
`

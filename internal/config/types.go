// Package config loads the searchbar client configuration: embedded
// defaults, an optional YAML file and SEARCHBAR_* environment overrides.
package config

import "time"

// Config is the client-side configuration. Remote search preferences live
// on the instance and are handled by internal/prefs.
type Config struct {
	Instance InstanceConfig `yaml:"instance" json:"instance" toml:"instance" koanf:"instance"`
	Suggest  SuggestConfig  `yaml:"suggest" json:"suggest" toml:"suggest" koanf:"suggest"`
	Search   SearchConfig   `yaml:"search" json:"search" toml:"search" koanf:"search"`
	Speech   SpeechConfig   `yaml:"speech" json:"speech" toml:"speech" koanf:"speech"`
	UI       UIConfig       `yaml:"ui" json:"ui" toml:"ui" koanf:"ui"`
	Log      LogConfig      `yaml:"log" json:"log" toml:"log" koanf:"log"`
}

// InstanceConfig locates the search instance.
type InstanceConfig struct {
	URL            string `yaml:"url" json:"url" toml:"url" koanf:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds" toml:"timeout_seconds" koanf:"timeout_seconds"`
	UserAgent      string `yaml:"user_agent" json:"user_agent" toml:"user_agent" koanf:"user_agent"`
}

// Timeout returns the per-request timeout; zero means the client default.
func (i InstanceConfig) Timeout() time.Duration {
	return time.Duration(i.TimeoutSeconds) * time.Second
}

// SuggestConfig controls the autocomplete dropdown.
type SuggestConfig struct {
	Enabled    bool   `yaml:"enabled" json:"enabled" toml:"enabled" koanf:"enabled"`
	DebounceMs int    `yaml:"debounce_ms" json:"debounce_ms" toml:"debounce_ms" koanf:"debounce_ms"`
	MaxRows    int    `yaml:"max_rows" json:"max_rows" toml:"max_rows" koanf:"max_rows"`
	Filter     string `yaml:"filter" json:"filter" toml:"filter" koanf:"filter"`
}

// SearchConfig holds defaults applied to every search request.
type SearchConfig struct {
	Country string `yaml:"country" json:"country" toml:"country" koanf:"country"`
	Limit   int    `yaml:"limit" json:"limit" toml:"limit" koanf:"limit"`
}

// SpeechConfig configures the external speech recognizer.
type SpeechConfig struct {
	Command []string `yaml:"command" json:"command" toml:"command" koanf:"command"`
	Lang    string   `yaml:"lang" json:"lang" toml:"lang" koanf:"lang"`
}

// UIConfig holds terminal presentation options.
type UIConfig struct {
	Theme   string `yaml:"theme" json:"theme" toml:"theme" koanf:"theme"` // auto|dark|light
	NoColor bool   `yaml:"no_color" json:"no_color" toml:"no_color" koanf:"no_color"`
	Mouse   bool   `yaml:"mouse" json:"mouse" toml:"mouse" koanf:"mouse"`
}

// LogConfig selects the log level and, for the TUI, the log file.
type LogConfig struct {
	Level string `yaml:"level" json:"level" toml:"level" koanf:"level"`
	File  string `yaml:"file" json:"file" toml:"file" koanf:"file"`
}

// Valid theme names.
const (
	ThemeAuto  = "auto"
	ThemeDark  = "dark"
	ThemeLight = "light"
)

// LevelValue maps Log.Level to a zap level number (debug=-1, info=0, ...).
func (l LogConfig) LevelValue() int8 {
	switch l.Level {
	case "debug":
		return -1
	case "warn", "warning":
		return 1
	case "error":
		return 2
	default:
		return 0
	}
}

package config

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

// EnvPrefix is the prefix of environment overrides. Nested keys are
// separated by a double underscore: SEARCHBAR_INSTANCE__URL.
const EnvPrefix = "SEARCHBAR_"

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

// DefaultConfigYAML returns a copy of the embedded default config.
func DefaultConfigYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Default decodes the embedded default configuration.
func Default() (*Config, error) {
	if len(embeddedDefaultConfig) == 0 {
		return nil, errors.New("embedded default config is empty")
	}
	var cfg Config
	if err := yamlv3.Unmarshal(embeddedDefaultConfig, &cfg); err != nil {
		return nil, fmt.Errorf("decode embedded default config: %w", err)
	}
	return &cfg, nil
}

// Load builds the effective configuration: embedded defaults, then the
// YAML file at path (skipped when path is empty or missing), then
// SEARCHBAR_* environment variables.
func Load(path string) (*Config, error) {
	cfg, err := Default()
	if err != nil {
		return nil, err
	}

	k := koanf.New(".")
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("accessing config %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps SEARCHBAR_SUGGEST__MAX_ROWS to suggest.max_rows.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration as YAML, creating parent directories.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Instance.URL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("instance.url must be an http(s) URL, got %q", c.Instance.URL)
	}
	if c.Instance.TimeoutSeconds < 0 {
		return fmt.Errorf("instance.timeout_seconds must be non-negative, got %d", c.Instance.TimeoutSeconds)
	}
	if c.Suggest.DebounceMs < 0 {
		return fmt.Errorf("suggest.debounce_ms must be non-negative, got %d", c.Suggest.DebounceMs)
	}
	if c.Suggest.MaxRows < 0 {
		return fmt.Errorf("suggest.max_rows must be non-negative, got %d", c.Suggest.MaxRows)
	}
	if c.Search.Limit < 0 {
		return fmt.Errorf("search.limit must be non-negative, got %d", c.Search.Limit)
	}
	switch c.UI.Theme {
	case ThemeAuto, ThemeDark, ThemeLight, "":
	default:
		return fmt.Errorf("ui.theme must be one of auto, dark, light; got %q", c.UI.Theme)
	}
	return nil
}

// ResolvePath returns explicit if set, otherwise
// $XDG_CONFIG_HOME/searchbar/config.yaml or ~/.config/searchbar/config.yaml.
// The returned path may not exist.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "searchbar", "config.yaml")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".config", "searchbar", "config.yaml")
	}
	return ""
}

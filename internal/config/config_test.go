package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultMatchesEmbeddedYAML(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:5000", cfg.Instance.URL)
	assert.Equal(t, 10, cfg.Instance.TimeoutSeconds)
	assert.True(t, cfg.Suggest.Enabled)
	assert.Equal(t, 150, cfg.Suggest.DebounceMs)
	assert.Equal(t, 8, cfg.Suggest.MaxRows)
	assert.Empty(t, cfg.Suggest.Filter)
	assert.Equal(t, "en-US", cfg.Speech.Lang)
	assert.Equal(t, ThemeAuto, cfg.UI.Theme)
	assert.True(t, cfg.UI.Mouse)
	require.NoError(t, cfg.Validate())
}

func TestLoadWithoutFileReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	def, err := Default()
	require.NoError(t, err)
	assert.Equal(t, def, cfg)
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5000", cfg.Instance.URL)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
instance:
  url: https://search.example.org
suggest:
  max_rows: 3
  filter: candidate.contains(query)
speech:
  command: ["whisper-once", "--lang", "de"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://search.example.org", cfg.Instance.URL)
	assert.Equal(t, 10, cfg.Instance.TimeoutSeconds, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.Suggest.MaxRows)
	assert.Equal(t, "candidate.contains(query)", cfg.Suggest.Filter)
	assert.Equal(t, []string{"whisper-once", "--lang", "de"}, cfg.Speech.Command)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "instance:\n  url: https://file.example.org\n")
	t.Setenv("SEARCHBAR_INSTANCE__URL", "https://env.example.org")
	t.Setenv("SEARCHBAR_SUGGEST__DEBOUNCE_MS", "0")
	t.Setenv("SEARCHBAR_UI__NO_COLOR", "true")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.org", cfg.Instance.URL)
	assert.Equal(t, 0, cfg.Suggest.DebounceMs)
	assert.True(t, cfg.UI.NoColor)
}

func TestLoadRejectsInvalidYAML(t *testing.T) {
	path := writeConfig(t, "instance: [unterminated\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults are valid", mutate: func(*Config) {}},
		{name: "relative url", mutate: func(c *Config) { c.Instance.URL = "/search" }, wantErr: "instance.url"},
		{name: "ftp url", mutate: func(c *Config) { c.Instance.URL = "ftp://example.org" }, wantErr: "instance.url"},
		{name: "negative timeout", mutate: func(c *Config) { c.Instance.TimeoutSeconds = -1 }, wantErr: "timeout_seconds"},
		{name: "negative debounce", mutate: func(c *Config) { c.Suggest.DebounceMs = -5 }, wantErr: "debounce_ms"},
		{name: "negative rows", mutate: func(c *Config) { c.Suggest.MaxRows = -1 }, wantErr: "max_rows"},
		{name: "negative limit", mutate: func(c *Config) { c.Search.Limit = -1 }, wantErr: "search.limit"},
		{name: "unknown theme", mutate: func(c *Config) { c.UI.Theme = "neon" }, wantErr: "ui.theme"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Default()
			require.NoError(t, err)
			tt.mutate(cfg)
			err = cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)
	cfg.Instance.URL = "https://saved.example.org"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "instance.url", envKey("SEARCHBAR_INSTANCE__URL"))
	assert.Equal(t, "suggest.max_rows", envKey("SEARCHBAR_SUGGEST__MAX_ROWS"))
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/tmp/explicit.yaml", ResolvePath("/tmp/explicit.yaml"))

	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	assert.Equal(t, filepath.Join(xdg, "searchbar", "config.yaml"), ResolvePath(""))
}

func TestLevelValue(t *testing.T) {
	assert.Equal(t, int8(-1), LogConfig{Level: "debug"}.LevelValue())
	assert.Equal(t, int8(0), LogConfig{Level: "info"}.LevelValue())
	assert.Equal(t, int8(0), LogConfig{}.LevelValue())
	assert.Equal(t, int8(2), LogConfig{Level: "error"}.LevelValue())
}

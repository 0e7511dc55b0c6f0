package cmd

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/searchbar/internal/api/apitest"
	"github.com/oakwood-commons/searchbar/internal/config"
	"github.com/oakwood-commons/searchbar/internal/prefs"
)

func TestCLI_ConfigWithoutSubcommandShowsHelp(t *testing.T) {
	out, _, err := runCLI(t, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "remote")
}

func TestCLI_ConfigShowFormats(t *testing.T) {
	out, _, err := runCLI(t, "config", "show")
	require.NoError(t, err)
	var cfg config.Config
	require.NoError(t, yaml.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "http://localhost:5000", cfg.Instance.URL)
	assert.Equal(t, 150, cfg.Suggest.DebounceMs)

	out, _, err = runCLI(t, "config", "show", "-o", "json", "-u", "https://search.example.org")
	require.NoError(t, err)
	cfg = config.Config{}
	require.NoError(t, json.Unmarshal([]byte(out), &cfg))
	assert.Equal(t, "https://search.example.org", cfg.Instance.URL)

	out, _, err = runCLI(t, "config", "show", "-o", "toml", "--no-color")
	require.NoError(t, err)
	cfg = config.Config{}
	require.NoError(t, toml.Unmarshal([]byte(out), &cfg))
	assert.True(t, cfg.UI.NoColor)
	assert.Equal(t, "auto", cfg.UI.Theme)
}

func TestCLI_ConfigPath(t *testing.T) {
	out, _, err := runCLI(t, "config", "path")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "searchbar", "config.yaml")+"\n", out)

	out, _, err = runCLI(t, "config", "path", "--config-file", "/tmp/custom.yaml")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.yaml\n", out)
}

func TestCLI_ConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	out, _, err := runCLI(t, "config", "init", "--config-file", path, "-u", "https://search.example.org")
	require.NoError(t, err)
	assert.Equal(t, "Wrote "+path+"\n", out)

	loaded, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.org", loaded.Instance.URL)

	_, _, err = runCLI(t, "config", "init", "--config-file", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	_, _, err = runCLI(t, "config", "init", "--config-file", path, "--force")
	require.NoError(t, err)
	loaded, err = config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "https://search.example.org", loaded.Instance.URL, "the existing file is part of the effective config")
}

func TestCLI_ConfigRemote(t *testing.T) {
	in := apitest.NewServer(t)
	in.Config = map[string]any{"dark": true, "near": "Berlin"}

	out, _, err := runCLI(t, "config", "remote", "-u", in.URL())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["dark"])
	assert.Equal(t, false, got["nojs"])
	assert.Equal(t, "Berlin", got["near"])
	assert.Equal(t, "", got["url"])
	assert.Equal(t, []string{"GET /config"}, in.RequestLog())
}

func TestCLI_ConfigRemoteFailure(t *testing.T) {
	in := apitest.NewServer(t)
	in.Fail["/config"] = 500

	_, _, err := runCLI(t, "config", "remote", "-u", in.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
	assert.Contains(t, err.Error(), "HTTP 500")
}

func TestCLI_ConfigLoad(t *testing.T) {
	in := apitest.NewServer(t)
	in.Saved["work.conf"] = map[string]any{"safe": true, "near": "Oslo"}

	out, errOut, err := runCLI(t, "config", "load", "work", "-u", in.URL(), "-o", "json")
	require.NoError(t, err)
	assert.Equal(t, "Loaded config work\n", errOut)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, true, got["safe"])
	assert.Equal(t, "Oslo", got["near"])
	assert.Equal(t, []string{"PUT /config", "GET /config"}, in.RequestLog())
}

func TestCLI_ConfigLoadErrors(t *testing.T) {
	in := apitest.NewServer(t)

	_, _, err := runCLI(t, "config", "load", "-u", in.URL())
	require.Error(t, err)
	assert.Equal(t, "Must specify a name for the config to load", err.Error())

	_, _, err = runCLI(t, "config", "load", "bad name", "-u", in.URL())
	require.Error(t, err)
	assert.Equal(t, "Config names may only contain letters, digits, and _ . + -", err.Error())

	_, _, err = runCLI(t, "config", "load", "missing", "-u", in.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 404")
	assert.Equal(t, []string{"PUT /config"}, in.RequestLog())
}

func TestCLI_ConfigLoadPromptsOnTerminal(t *testing.T) {
	origTerm, origPrompt := isTerminalFn, promptNameFn
	t.Cleanup(func() { isTerminalFn, promptNameFn = origTerm, origPrompt })
	isTerminalFn = func() bool { return true }

	var label string
	promptNameFn = func(l string) (string, error) {
		label = l
		return " work ", nil
	}

	in := apitest.NewServer(t)
	in.Saved["work.conf"] = map[string]any{"dark": true}

	_, _, err := runCLI(t, "config", "load", "-u", in.URL())
	require.NoError(t, err)
	assert.Equal(t, "Config name to load", label)
	assert.Equal(t, true, in.Config["dark"])
}

func TestCLI_ConfigPromptAborted(t *testing.T) {
	origTerm, origPrompt := isTerminalFn, promptNameFn
	t.Cleanup(func() { isTerminalFn, promptNameFn = origTerm, origPrompt })
	isTerminalFn = func() bool { return true }
	promptNameFn = func(string) (string, error) { return "", errors.New("^C") }

	in := apitest.NewServer(t)
	_, _, err := runCLI(t, "config", "save", "-u", in.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading config name")
	assert.Empty(t, in.RequestLog())
}

func TestCLI_ConfigSave(t *testing.T) {
	in := apitest.NewServer(t)
	in.Config = map[string]any{"nojs": true, "near": "Rome"}

	out, _, err := runCLI(t, "config", "save", "home", "-u", in.URL(), "--set", "dark=true", "--set", "near=Berlin")
	require.NoError(t, err)
	assert.Equal(t, "Saved config home\n", out)

	saved := in.Saved["home.conf"]
	require.NotNil(t, saved)
	assert.Equal(t, true, saved["nojs"])
	assert.Equal(t, true, saved["dark"])
	assert.Equal(t, "Berlin", saved["near"])
	assert.Equal(t, []string{"GET /config", "POST /config"}, in.RequestLog())
}

func TestCLI_ConfigSaveRejectsBadSet(t *testing.T) {
	in := apitest.NewServer(t)

	_, _, err := runCLI(t, "config", "save", "home", "-u", in.URL(), "--set", "color=red")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown option "color"`)

	_, _, err = runCLI(t, "config", "save", "home", "-u", in.URL(), "--set", "dark")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want option=value")

	_, _, err = runCLI(t, "config", "save", "home", "-u", in.URL(), "--set", "dark=maybe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid boolean "maybe"`)
	assert.NotContains(t, in.RequestLog(), "POST /config")
}

func TestCLI_ConfigSaveFailure(t *testing.T) {
	in := apitest.NewServer(t)
	in.Fail["/config"] = 500

	_, _, err := runCLI(t, "config", "save", "home", "-u", in.URL())
	require.Error(t, err)
	var op *prefs.OpError
	require.ErrorAs(t, err, &op)
	assert.Equal(t, prefs.ActionLoad, op.Action)
}

func TestCLI_ConfigApply(t *testing.T) {
	in := apitest.NewServer(t)
	in.Config = map[string]any{"dark": true}

	out, _, err := runCLI(t, "config", "apply", "-u", in.URL(), "--set", "near=Berlin", "--set", "dark=off", "-o", "json")
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, false, got["dark"])
	assert.Equal(t, "Berlin", got["near"])
	assert.Equal(t, []string{"GET /config", "POST /config", "GET /config"}, in.RequestLog())
	assert.Empty(t, in.Saved)
}

func TestCLI_ConfigApplyRequiresSet(t *testing.T) {
	in := apitest.NewServer(t)
	_, _, err := runCLI(t, "config", "apply", "-u", in.URL())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to apply")
	assert.Empty(t, in.RequestLog())
}

func TestWriteOutputRejectsUnknownFormat(t *testing.T) {
	err := writeOutput(new(discard), "csv", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unsupported output format "csv"`)
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestCLI_ConfigRemoteTable(t *testing.T) {
	in := apitest.NewServer(t)
	in.Config = map[string]any{"dark": true, "near": "Berlin"}

	out, _, err := runCLI(t, "config", "remote", "-u", in.URL(), "-o", "table")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 2+len(prefs.Options()))
	assert.Equal(t, "OPTION    VALUE", lines[0])
	assert.Equal(t, "nojs      false", lines[2])
	assert.Equal(t, "dark      true", lines[3])
	assert.Equal(t, "near      Berlin", lines[8])
	assert.Equal(t, "url", lines[9])
}

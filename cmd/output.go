package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/searchbar/internal/formatter"
	"github.com/oakwood-commons/searchbar/internal/prefs"
)

// Output formats accepted by -o.
const (
	formatText  = "text"
	formatTable = "table"
	formatYAML  = "yaml"
	formatJSON  = "json"
	formatTOML  = "toml"
)

// writeOutput encodes v to w in the requested structured format.
func writeOutput(w io.Writer, format string, v any) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case formatYAML, "":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding yaml: %w", err)
		}
		return enc.Close()
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("encoding json: %w", err)
		}
		return nil
	case formatTOML:
		if err := toml.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding toml: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unsupported output format %q (use text, table, yaml, json or toml)", format)
	}
}

// writeTable renders rows as an aligned table. Styling is dropped when
// stdout is not a terminal or colors are disabled.
func writeTable(w io.Writer, columns []string, rows [][]string, numbered bool, hints ...formatter.ColumnHint) error {
	out := formatter.RenderTable(columns, rows, formatter.TableOptions{
		NoColor:    runCfg.UI.NoColor || !isTerminalFn(),
		RowNumbers: numbered,
		Hints:      hints,
	})
	_, err := io.WriteString(w, out)
	return err
}

// writePrefs prints a preferences form in the requested format.
func writePrefs(w io.Writer, format string, form prefs.Form) error {
	if format != formatTable {
		return writeOutput(w, format, form.Map())
	}
	rows := make([][]string, 0, len(prefs.Options()))
	for _, opt := range prefs.Options() {
		value := form.String(opt)
		if prefs.IsBool(opt) {
			value = fmt.Sprint(form.Bool(opt))
		}
		rows = append(rows, []string{opt, value})
	}
	return writeTable(w, []string{"OPTION", "VALUE"}, rows, false)
}

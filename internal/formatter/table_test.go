package formatter

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"TITLE", "URL"},
		[][]string{{"Go", "https://go.dev/"}, {"Tour", "https://go.dev/tour"}},
		TableOptions{NoColor: true, TotalWidth: 80, RowNumbers: true},
	)
	want := "#    TITLE  URL\n" +
		strings.Repeat("─", 31) + "\n" +
		"1    Go     https://go.dev/\n" +
		"2    Tour   https://go.dev/tour\n"
	assert.Equal(t, want, out)
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Empty(t, RenderTable(nil, [][]string{{"a"}}, TableOptions{}))
	assert.Empty(t, RenderTable([]string{"A"}, nil, TableOptions{}))
}

func TestRenderTableShrinksLowestPriorityFirst(t *testing.T) {
	out := RenderTable(
		[]string{"A", "B"},
		[][]string{{"aaaaaaaaaa", "bbbbbbbbbb"}},
		TableOptions{NoColor: true, TotalWidth: 20, Hints: []ColumnHint{{Priority: 1}, {}}},
	)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "aaaaaaaaaa  bbbbbbb…", lines[2])
}

func TestRenderTableMaxWidthAndAlign(t *testing.T) {
	out := RenderTable(
		[]string{"NAME", "N"},
		[][]string{{"a long name", "7"}, {"b", "12"}},
		TableOptions{NoColor: true, TotalWidth: 80, Hints: []ColumnHint{{MaxWidth: 6}, {Align: "right"}}},
	)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "NAME     N", lines[0])
	assert.Equal(t, "a lon…   7", lines[2])
	assert.Equal(t, "b       12", lines[3])
}

func TestRenderTableColorStripsToPlain(t *testing.T) {
	plain := RenderTable([]string{"K", "V"}, [][]string{{"dark", "true"}}, TableOptions{NoColor: true, TotalWidth: 40})
	colored := RenderTable([]string{"K", "V"}, [][]string{{"dark", "true"}}, TableOptions{TotalWidth: 40})

	strippedLines := strings.Split(ansi.Strip(colored), "\n")
	for i, line := range strings.Split(plain, "\n") {
		assert.Equal(t, line, strings.TrimRight(strippedLines[i], " "))
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "hel…", truncate("hello", 4))
	assert.Equal(t, "hello", truncate("hello", 0))
}

package ui

import (
	_ "embed"
	"strings"

	"github.com/gomarkdown/markdown/ast"
	"github.com/gomarkdown/markdown/parser"
)

//go:embed help.md
var helpMarkdown []byte

type helpKind int

const (
	helpHeading helpKind = iota
	helpText
	helpBinding
)

// helpLine is one rendered line of the help overlay.
type helpLine struct {
	kind  helpKind
	level int
	key   string
	text  string
}

// parseHelp turns markdown into help lines: headings, paragraphs and list
// items whose leading code spans name the keys.
func parseHelp(src []byte) []helpLine {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse(src)

	var lines []helpLine
	for _, block := range doc.GetChildren() {
		switch n := block.(type) {
		case *ast.Heading:
			lines = append(lines, helpLine{kind: helpHeading, level: n.Level, text: plainText(n)})
		case *ast.Paragraph:
			lines = append(lines, helpLine{kind: helpText, text: plainText(n)})
		case *ast.List:
			for _, item := range n.GetChildren() {
				key, desc := splitBinding(item)
				if key == "" {
					lines = append(lines, helpLine{kind: helpText, text: desc})
					continue
				}
				lines = append(lines, helpLine{kind: helpBinding, key: key, text: desc})
			}
		}
	}
	return lines
}

func plainText(n ast.Node) string {
	var b strings.Builder
	ast.WalkFunc(n, func(node ast.Node, entering bool) ast.WalkStatus {
		if !entering {
			return ast.GoToNext
		}
		switch l := node.(type) {
		case *ast.Text:
			b.Write(l.Literal)
		case *ast.Code:
			b.Write(l.Literal)
		case *ast.Softbreak, *ast.Hardbreak:
			b.WriteByte(' ')
		}
		return ast.GoToNext
	})
	return strings.Join(strings.Fields(b.String()), " ")
}

// splitBinding separates the leading key spans of a list item from its
// description. "`j` / `k` move" yields ("j / k", "move").
func splitBinding(item ast.Node) (key, desc string) {
	inline := item.GetChildren()
	if len(inline) > 0 {
		if para, ok := inline[0].(*ast.Paragraph); ok {
			inline = para.GetChildren()
		}
	}

	var keys []string
	var rest strings.Builder
	inKey := true
	for _, c := range inline {
		switch n := c.(type) {
		case *ast.Code:
			if inKey {
				keys = append(keys, string(n.Literal))
				continue
			}
			rest.Write(n.Literal)
		case *ast.Text:
			lit := string(n.Literal)
			if inKey {
				sep := strings.TrimSpace(lit)
				if sep == "" || (len(keys) > 0 && (sep == "/" || sep == "or")) {
					if sep != "" {
						keys = append(keys, sep)
					}
					continue
				}
				inKey = false
			}
			rest.WriteString(lit)
		default:
			inKey = false
			rest.WriteString(plainText(c))
		}
	}
	return strings.Join(keys, " "), strings.Join(strings.Fields(rest.String()), " ")
}

func renderHelp(lines []helpLine, st styles, width int) string {
	keyWidth := 0
	for _, l := range lines {
		if l.kind == helpBinding && len(l.key) > keyWidth {
			keyWidth = len(l.key)
		}
	}

	var b strings.Builder
	for i, l := range lines {
		switch l.kind {
		case helpHeading:
			if i > 0 {
				b.WriteByte('\n')
			}
			b.WriteString(st.title.Render(truncate(l.text, width)))
		case helpText:
			b.WriteString(st.helpValue.Render(truncate(l.text, width)))
		case helpBinding:
			key := l.key + strings.Repeat(" ", keyWidth-len(l.key))
			b.WriteString("  " + st.helpKey.Render(key) + "  " +
				st.helpValue.Render(truncate(l.text, width-keyWidth-4)))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

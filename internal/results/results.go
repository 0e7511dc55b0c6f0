// Package results extracts search results from an instance's results page.
package results

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Result is one organic search result.
type Result struct {
	Title   string `json:"title" yaml:"title" toml:"title"`
	URL     string `json:"url" yaml:"url" toml:"url"`
	Snippet string `json:"snippet,omitempty" yaml:"snippet,omitempty" toml:"snippet,omitempty"`
}

// Parse reads an HTML results page and returns the anchors found at
// #main > div > div > div > a, in document order. Relative links are
// resolved against base when it is not nil.
func Parse(r io.Reader, base *url.URL) ([]Result, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse results page: %w", err)
	}
	main := findByID(doc, "main")
	if main == nil {
		return nil, nil
	}

	var out []Result
	for _, d1 := range childElements(main, atom.Div) {
		for _, d2 := range childElements(d1, atom.Div) {
			for _, d3 := range childElements(d2, atom.Div) {
				for _, a := range childElements(d3, atom.A) {
					if res, ok := fromAnchor(a, base); ok {
						out = append(out, res)
					}
				}
			}
		}
	}
	return out, nil
}

func fromAnchor(a *html.Node, base *url.URL) (Result, bool) {
	href := resolve(attr(a, "href"), base)
	if href == "" {
		return Result{}, false
	}
	title := ""
	if h3 := findFirst(a, atom.H3); h3 != nil {
		title = text(h3)
	}
	if title == "" {
		title = text(a)
	}
	res := Result{Title: title, URL: href}

	sib := nextElement(a)
	if sib == nil && a.Parent != nil {
		sib = nextElement(a.Parent)
	}
	if sib != nil {
		res.Snippet = text(sib)
	}
	return res, true
}

// resolve unwraps /url?q= redirect links and makes href absolute.
func resolve(href string, base *url.URL) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return ""
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.Path == "/url" {
		if q := u.Query().Get("q"); q != "" {
			return q
		}
	}
	if base != nil && !u.IsAbs() {
		return base.ResolveReference(u).String()
	}
	return u.String()
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode && attr(n, "id") == id {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

func findFirst(n *html.Node, a atom.Atom) *html.Node {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			return c
		}
		if found := findFirst(c, a); found != nil {
			return found
		}
	}
	return nil
}

func childElements(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == a {
			out = append(out, c)
		}
	}
	return out
}

func nextElement(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// text returns the visible text below n with whitespace collapsed.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			b.WriteByte(' ')
		case html.ElementNode:
			if n.DataAtom == atom.Script || n.DataAtom == atom.Style {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

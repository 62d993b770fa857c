// Package render converts catalog description fields into display text: rich
// HTML for the modal body and stripped, truncated plain text for cards.
package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	md = goldmark.New()

	// richPolicy keeps the formatting tags catalog descriptions actually use
	// (paragraphs, emphasis, lists, links) and nothing executable.
	richPolicy = bluemonday.UGCPolicy()
)

// RichText renders a game description for the modal body. format is "html"
// (the default) or "markdown". The result is sanitized; a markdown
// conversion failure falls back to the escaped source text.
func RichText(body, format string) template.HTML {
	body = strings.TrimSpace(body)
	if body == "" {
		return ""
	}
	if strings.EqualFold(format, "markdown") {
		var buf bytes.Buffer
		if err := md.Convert([]byte(body), &buf); err != nil {
			return template.HTML(template.HTMLEscapeString(body))
		}
		return template.HTML(richPolicy.Sanitize(buf.String()))
	}
	return template.HTML(richPolicy.Sanitize(body))
}

// PlainText strips all markup from an HTML fragment, collapsing whitespace
// runs into single spaces.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "div",
		DataAtom: atom.Div,
	})
	if err != nil {
		// treat unparseable input as already-plain text
		return collapseSpace(fragment)
	}
	var b strings.Builder
	for _, n := range nodes {
		textContent(n, &b)
	}
	return collapseSpace(b.String())
}

func textContent(n *html.Node, b *strings.Builder) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
	case html.ElementNode:
		if n.Data == "script" || n.Data == "style" {
			return
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		textContent(c, b)
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Excerpt truncates plain text to at most max characters. Truncation cuts at
// the character boundary, not a word boundary, and replaces the final
// character with an ellipsis so the result never exceeds max.
func Excerpt(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}

// CardText derives a card description from the pre-rendered field when
// present, otherwise from the stripped and truncated full description.
func CardText(cardDesc, description string, max int) string {
	if cardDesc != "" {
		return cardDesc
	}
	return Excerpt(PlainText(description), max)
}

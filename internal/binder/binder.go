// Package binder fills localized text into rendered HTML. Elements flagged
// with the text marker attribute get their content replaced by the dictionary
// value for the attribute's dotted key; a second pass fills accessibility
// labels. Unresolvable keys leave the element untouched.
package binder

import (
	"bytes"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"belgames.org/showcase-web/internal/i18n"
)

const (
	// TextAttr marks an element whose text content is bound to a UI key.
	TextAttr = "data-i18n"
	// AriaAttr marks an element whose aria-label is bound to a UI key.
	AriaAttr = "data-i18n-aria"
)

// MissFunc observes keys that failed to resolve. May be nil.
type MissFunc func(key string)

// Apply binds a full HTML document.
func Apply(doc []byte, dict i18n.Dict, onMiss MissFunc) ([]byte, error) {
	root, err := html.Parse(bytes.NewReader(doc))
	if err != nil {
		return nil, err
	}
	walk(root, dict, onMiss)
	var buf bytes.Buffer
	if err := html.Render(&buf, root); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ApplyFragment binds an HTML fragment (modal and carousel responses) without
// wrapping it in a document skeleton.
func ApplyFragment(frag []byte, dict i18n.Dict, onMiss MissFunc) ([]byte, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(bytes.NewReader(frag), ctx)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	for _, n := range nodes {
		walk(n, dict, onMiss)
		if err := html.Render(&buf, n); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

func walk(n *html.Node, dict i18n.Dict, onMiss MissFunc) {
	if n.Type == html.ElementNode {
		if key, ok := attr(n, TextAttr); ok {
			bindText(n, key, dict, onMiss)
		}
		if key, ok := attr(n, AriaAttr); ok {
			bindAria(n, key, dict, onMiss)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, dict, onMiss)
	}
}

func bindText(n *html.Node, key string, dict i18n.Dict, onMiss MissFunc) {
	val, ok := dict.Resolve(key)
	if !ok {
		if onMiss != nil {
			onMiss(key)
		}
		return
	}
	// drop existing children, insert resolved value as text with rendered
	// line breaks; values are never parsed as markup
	for n.FirstChild != nil {
		n.RemoveChild(n.FirstChild)
	}
	lines := strings.Split(val, "\n")
	for i, line := range lines {
		if i > 0 {
			n.AppendChild(&html.Node{Type: html.ElementNode, Data: "br", DataAtom: atom.Br})
		}
		n.AppendChild(&html.Node{Type: html.TextNode, Data: line})
	}
}

func bindAria(n *html.Node, key string, dict i18n.Dict, onMiss MissFunc) {
	val, ok := dict.Resolve(key)
	if !ok {
		if onMiss != nil {
			onMiss(key)
		}
		return
	}
	for i := range n.Attr {
		if n.Attr[i].Key == "aria-label" {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: "aria-label", Val: val})
}

func attr(n *html.Node, name string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == name && a.Val != "" {
			return a.Val, true
		}
	}
	return "", false
}

// Package catalog loads the localized game catalog and UI dictionary
// documents consumed by the showcase. Documents are refetched on every
// bootstrap; there is no cache, no retry.
package catalog

import (
	"strings"
)

// Game is one catalog record describing a single showcased game.
type Game struct {
	Slug        string `json:"slug,omitempty"`
	Title       string `json:"title"`
	Cover       string `json:"cover"`
	CoverMobile string `json:"cover_mobile,omitempty"`
	CardDesc    string `json:"card_description,omitempty"`
	Description string `json:"description,omitempty"`
	DescFormat  string `json:"description_format,omitempty"` // "html" (default) or "markdown"
	PageURL     string `json:"url,omitempty"`
	Platforms   string `json:"platforms,omitempty"`

	Icons       []Icon          `json:"icons,omitempty"`
	Meta        Meta            `json:"meta,omitempty"`
	Downloads   []DownloadGroup `json:"downloads,omitempty"`
	Screenshots []string        `json:"screenshots,omitempty"`
}

// Icon is a small badge image shown in the modal header, optionally linked.
type Icon struct {
	Image string `json:"image"`
	Link  string `json:"link,omitempty"`
}

// Meta holds the four fixed metadata badges. Every field is optional and
// renders as the localized placeholder dash when absent.
type Meta struct {
	Developer   string `json:"developer,omitempty"`
	Genre       string `json:"genre,omitempty"`
	Translators string `json:"translators,omitempty"`
	Words       int64  `json:"words,omitempty"`
}

// DownloadGroup is one per-platform section of labeled external links.
type DownloadGroup struct {
	Platform string `json:"platform"`
	Links    []Link `json:"links,omitempty"`
}

// Link is a labeled external URL opened in a new context.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Key returns the stable identifier used in routes: the explicit slug when
// present, otherwise a slugified title.
func (g Game) Key() string {
	if g.Slug != "" {
		return g.Slug
	}
	return Slugify(g.Title)
}

// Slugify lowercases and collapses a title into a URL-safe slug. Non-ASCII
// runes are kept as-is; chi matches them fine in path params.
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	lastDash := true
	for _, r := range s {
		switch {
		case r == ' ' || r == '_' || r == '/' || r == '-':
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		case r == '\'' || r == '"' || r == '.' || r == ',' || r == ':' || r == '!' || r == '?':
			// drop punctuation
		default:
			b.WriteRune(r)
			lastDash = false
		}
	}
	return strings.Trim(b.String(), "-")
}

// Find returns the entry whose Key matches slug.
func Find(games []Game, slug string) (Game, bool) {
	for _, g := range games {
		if g.Key() == slug {
			return g, true
		}
	}
	return Game{}, false
}

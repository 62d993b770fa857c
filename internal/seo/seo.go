package seo

import "html/template"

// OpenGraph describes the og:* head tags for a page.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
}

// Alternate is one hreflang link for the localized variants of a page.
type Alternate struct {
	Href     string
	Hreflang string
}

// Meta is the head metadata view model shared by all pages.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	OG          OpenGraph
	Alternates  []Alternate
	JSONLD      []template.JS
}

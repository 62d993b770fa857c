package handlers

import (
	"belgames.org/showcase-web/internal/nav"
	"belgames.org/showcase-web/internal/seo"
)

// PageData is the view model for full pages using the shared layout.
type PageData struct {
	Title     string
	Lang      string
	SEO       seo.Meta
	Analytics Analytics

	Path      string
	Languages []nav.LangOption

	// Optional per-page view model payloads
	Home  any
	Error any
}

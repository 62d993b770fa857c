package seo

import (
	"encoding/json"
	"html/template"
)

// JSON marshals v for embedding in an ld+json script tag. It returns an
// empty value on error.
func JSON(v any) template.JS {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return template.JS(b)
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	return m
}

// VideoGame returns a minimal VideoGame schema for a catalog entry.
func VideoGame(name, description, url, imageURL, genre string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "VideoGame",
		"name":     name,
	}
	if description != "" {
		m["description"] = description
	}
	if url != "" {
		m["url"] = url
	}
	if imageURL != "" {
		m["image"] = imageURL
	}
	if genre != "" {
		m["genre"] = genre
	}
	return m
}

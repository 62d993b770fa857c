// Package config resolves server settings from an optional YAML file with
// environment fallbacks.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds everything main needs to wire the server.
type Config struct {
	Addr         string   `yaml:"addr"`
	TemplatesDir string   `yaml:"templates_dir"`
	PublicDir    string   `yaml:"public_dir"`
	AssetsDir    string   `yaml:"assets_dir"`
	ContentURL   string   `yaml:"content_url"` // remote document base; empty reads AssetsDir
	DefaultLang  string   `yaml:"default_lang"`
	Languages    []string `yaml:"languages"`
	Dev          bool     `yaml:"dev"`
}

// Default returns the baseline configuration before file and env overrides.
func Default() Config {
	return Config{
		Addr:         ":8080",
		TemplatesDir: "templates",
		PublicDir:    "public",
		AssetsDir:    "assets",
		DefaultLang:  "be",
		Languages:    []string{"be", "en", "ru"},
	}
}

// Load reads path (missing file is fine) and applies environment overrides:
// SHOWCASE_PORT (then Cloud Run's PORT), SHOWCASE_CONTENT_URL, and
// SHOWCASE_DEV (then DEV) for template reparsing.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return Config{}, fmt.Errorf("config: read %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}
	if port := firstEnv("SHOWCASE_PORT", "PORT"); port != "" {
		cfg.Addr = ":" + port
	}
	if u := os.Getenv("SHOWCASE_CONTENT_URL"); u != "" {
		cfg.ContentURL = u
	}
	if firstEnv("SHOWCASE_DEV", "DEV") != "" {
		cfg.Dev = true
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if strings.TrimSpace(c.DefaultLang) == "" {
		c.DefaultLang = "be"
	}
	c.DefaultLang = strings.ToLower(c.DefaultLang)
	if len(c.Languages) == 0 {
		c.Languages = []string{c.DefaultLang}
	}
	for i, l := range c.Languages {
		c.Languages[i] = strings.ToLower(strings.TrimSpace(l))
	}
	if !c.Supported(c.DefaultLang) {
		c.Languages = append(c.Languages, c.DefaultLang)
	}
}

// Supported reports whether lang is one of the configured languages.
func (c Config) Supported(lang string) bool {
	lang = strings.ToLower(lang)
	for _, l := range c.Languages {
		if l == lang {
			return true
		}
	}
	return false
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

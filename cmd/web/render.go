package main

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"belgames.org/showcase-web/internal/binder"
	"belgames.org/showcase-web/internal/i18n"
)

var tmplCache *template.Template

// parseTemplates discovers and parses all .tmpl files under the configured
// templates directory. ParseGlob doesn't support **, so walk.
func parseTemplates() (*template.Template, error) {
	funcMap := template.FuncMap{
		"now": time.Now,
	}
	var files []string
	if err := filepath.WalkDir(cfg.TemplatesDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if strings.HasSuffix(d.Name(), ".tmpl") {
			files = append(files, path)
		}
		return nil
	}); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no templates found under %s", cfg.TemplatesDir)
	}
	return template.New("_root").Funcs(funcMap).ParseFiles(files...)
}

func templates(w http.ResponseWriter) *template.Template {
	if cfg.Dev {
		tc, err := parseTemplates()
		if err != nil {
			http.Error(w, fmt.Sprintf("template parse error: %v", err), http.StatusInternalServerError)
			return nil
		}
		return tc
	}
	return tmplCache
}

// renderPage executes the base layout and runs the UI text binder over the
// result with the session's dictionary.
func renderPage(w http.ResponseWriter, r *http.Request, dict i18n.Dict, data any) {
	t := templates(w)
	if t == nil {
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
	writeBound(w, r, dict, buf.Bytes(), false)
}

// renderFrag executes a named fragment template (modal, carousel, grid) and
// binds it without wrapping it in a document skeleton.
func renderFrag(w http.ResponseWriter, r *http.Request, dict i18n.Dict, name string, data any) {
	t := templates(w)
	if t == nil {
		return
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, name, data); err != nil {
		http.Error(w, fmt.Sprintf("template exec error: %v", err), http.StatusInternalServerError)
		return
	}
	writeBound(w, r, dict, buf.Bytes(), true)
}

func writeBound(w http.ResponseWriter, r *http.Request, dict i18n.Dict, doc []byte, fragment bool) {
	onMiss := func(key string) {
		logger.Debug("i18n: unresolved key",
			zap.String("key", key), zap.String("path", r.URL.Path))
	}
	var out []byte
	var err error
	if fragment {
		out, err = binder.ApplyFragment(doc, dict, onMiss)
	} else {
		out, err = binder.Apply(doc, dict, onMiss)
	}
	if err != nil {
		// serve the unbound markup rather than failing the request
		logger.Warn("binder failed", zap.Error(err))
		out = doc
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

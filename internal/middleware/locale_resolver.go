package middleware

import (
	"net/http"
	"strings"

	"belgames.org/showcase-web/internal/i18n"
)

// Locale resolves the active language for the request and stores it in the
// session and context. Precedence: `hl` query override, persisted session
// value, Accept-Language negotiation, configured default. Unsupported values
// collapse to the default so the dictionary and catalog always load for a
// language the site actually ships.
func Locale(supported []string, fallback string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			lang := ""
			if q := strings.ToLower(r.URL.Query().Get("hl")); q != "" && contains(supported, q) {
				lang = q
				if s.Lang != q {
					s.Lang = q
					s.MarkDirty()
				}
			} else if s.Lang != "" && contains(supported, s.Lang) {
				lang = s.Lang
			} else {
				lang = i18n.Negotiate(r.Header.Get("Accept-Language"), supported, fallback)
				s.Lang = lang
				s.MarkDirty()
			}
			if lang == "" {
				lang = fallback
			}
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(WithLang(r.Context(), lang)))
		})
	}
}

// Lang returns the request's active language, or empty when the Locale
// middleware did not run.
func Lang(r *http.Request) string {
	if v, ok := LangFromContext(r.Context()); ok {
		return v
	}
	return ""
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

package middleware

import "net/http"

// VaryLocale marks dynamic responses as varying by Accept-Language so shared
// caches keep per-language copies apart.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		next.ServeHTTP(w, r)
	})
}

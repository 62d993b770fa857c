package main

import (
	"net/http"
	"strings"

	"go.uber.org/zap"

	mw "belgames.org/showcase-web/internal/middleware"
)

// HomeHandler renders the card grid for the request language. A bootstrap
// failure degrades to the grid shell with a localized fallback message.
func HomeHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess, err := store.Ensure(r.Context(), lang)
	if err != nil {
		logger.Error("bootstrap failed", zap.String("lang", lang), zap.Error(err))
		home := HomeView{Lang: lang, Error: errorMessage(lang)}
		renderPage(w, r, nil, buildPageData(r, lang, home, nil))
		return
	}
	renderPage(w, r, sess.UI, buildPageData(r, lang, buildHomeView(sess), sess))
}

// LangSwitchHandler handles the language selector. The chosen language is
// persisted in the session before the catalog reload, so a failed reload
// still sticks for the next visit.
func LangSwitchHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "bad form")
		return
	}
	lang := strings.ToLower(strings.TrimSpace(r.PostFormValue("lang")))
	if !cfg.Supported(lang) {
		mw.WriteError(w, r, http.StatusBadRequest, "unsupported language")
		return
	}

	if s := mw.GetSession(r); s != nil && s.Lang != lang {
		s.Lang = lang
		s.MarkDirty()
	}

	sess, err := store.Ensure(r.Context(), lang)
	if err != nil {
		logger.Error("language switch bootstrap failed", zap.String("lang", lang), zap.Error(err))
	}

	if !mw.IsHTMX(r.Context()) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	// any open modal belongs to the previous language
	w.Header().Set("HX-Trigger", "showcase:modal-close")
	if sess == nil {
		home := HomeView{Lang: lang, Error: errorMessage(lang)}
		renderFrag(w, r, nil, "frag_grid", home)
		return
	}
	renderFrag(w, r, sess.UI, "frag_grid", buildHomeView(sess))
}

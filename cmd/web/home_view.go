package main

import (
	"html/template"
	"net/http"

	handlersPkg "belgames.org/showcase-web/internal/handlers"
	"belgames.org/showcase-web/internal/i18n"
	"belgames.org/showcase-web/internal/nav"
	"belgames.org/showcase-web/internal/render"
	"belgames.org/showcase-web/internal/seo"
	"belgames.org/showcase-web/internal/showcase"
)

// cardExcerptMax is the character budget for a stripped card description.
const cardExcerptMax = 180

// HomeView is the payload for the card grid, both as a full page and as the
// fragment swapped in after a language switch.
type HomeView struct {
	Lang  string
	Cards []CardView
	Error string
}

// CardView is one game card.
type CardView struct {
	Slug      string
	Title     string
	Cover     string
	Platforms string
	Desc      template.HTML
	PageURL   string
	ModalURL  string
}

func buildHomeView(sess *showcase.Session) HomeView {
	view := HomeView{Lang: sess.Lang, Cards: make([]CardView, 0, len(sess.Games))}
	for _, g := range sess.Games {
		slug := g.Key()
		view.Cards = append(view.Cards, CardView{
			Slug:      slug,
			Title:     g.Title,
			Cover:     g.Cover,
			Platforms: g.Platforms,
			Desc:      cardDesc(g.CardDesc, g.Description),
			PageURL:   g.PageURL,
			ModalURL:  "/modal/game/" + slug,
		})
	}
	return view
}

// cardDesc applies the card description precedence: the pre-rendered field is
// trusted verbatim; the fallback is the full description stripped of markup
// and truncated at the character boundary.
func cardDesc(cardDesc, description string) template.HTML {
	if cardDesc != "" {
		return template.HTML(cardDesc)
	}
	plain := render.CardText("", description, cardExcerptMax)
	return template.HTML(template.HTMLEscapeString(plain))
}

// errorMessage is the fixed fallback shown in place of the grid when a
// bootstrap fails. Inline so it renders even when no dictionary loaded.
func errorMessage(lang string) string {
	switch lang {
	case "be":
		return "Не атрымалася загрузіць спіс гульняў. Паспрабуйце абнавіць старонку."
	case "ru":
		return "Не удалось загрузить список игр. Попробуйте обновить страницу."
	default:
		return "Failed to load the game list. Try refreshing the page."
	}
}

func buildPageData(r *http.Request, lang string, home HomeView, sess *showcase.Session) handlersPkg.PageData {
	var ui i18n.Dict
	if sess != nil {
		ui = sess.UI
	}
	vm := handlersPkg.PageData{
		Title:     "BelGames",
		Lang:      lang,
		Path:      r.URL.Path,
		Languages: nav.Languages(cfg.Languages, lang),
		Analytics: handlersPkg.LoadAnalyticsFromEnv(),
		Home:      home,
	}
	vm.SEO = seo.Meta{
		Title:       "BelGames",
		Description: ui.Get("brand.tagline"),
		Canonical:   absoluteURL(r),
		OG: seo.OpenGraph{
			Title:    "BelGames",
			Type:     "website",
			URL:      absoluteURL(r),
			SiteName: "BelGames",
		},
		JSONLD: []template.JS{seo.JSON(seo.WebSite("BelGames", absoluteURL(r)))},
	}
	if sess != nil {
		for _, g := range sess.Games {
			vm.SEO.JSONLD = append(vm.SEO.JSONLD, seo.JSON(seo.VideoGame(
				g.Title,
				render.CardText("", g.Description, cardExcerptMax),
				g.PageURL,
				g.Cover,
				g.Meta.Genre,
			)))
		}
	}
	for _, l := range cfg.Languages {
		vm.SEO.Alternates = append(vm.SEO.Alternates, seo.Alternate{
			Href:     absoluteURL(r) + "?hl=" + l,
			Hreflang: l,
		})
	}
	return vm
}

func absoluteURL(r *http.Request) string {
	scheme := "https"
	if r.TLS == nil {
		scheme = "http"
	}
	return scheme + "://" + r.Host + r.URL.Path
}

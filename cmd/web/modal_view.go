package main

import (
	"html/template"
	"strconv"

	"belgames.org/showcase-web/internal/carousel"
	"belgames.org/showcase-web/internal/catalog"
	"belgames.org/showcase-web/internal/format"
	"belgames.org/showcase-web/internal/i18n"
	"belgames.org/showcase-web/internal/render"
)

// ModalView is the payload for the game detail modal fragment.
type ModalView struct {
	Slug        string
	Lang        string
	Title       string
	Cover       string
	CoverMobile string
	Description template.HTML
	Icons       []catalog.Icon
	Badges      []BadgeView
	Downloads   []catalog.DownloadGroup
	Carousel    CarouselView
}

// BadgeView is one of the four fixed metadata badges. LabelKey is resolved by
// the text binder; Value is already localized or the placeholder dash.
type BadgeView struct {
	LabelKey string
	Value    string
}

// CarouselView is the screenshot strip fragment payload.
type CarouselView struct {
	Slug    string
	Shots   []ShotView
	Active  int
	HasPrev bool
	HasNext bool
}

// ShotView is one screenshot cell.
type ShotView struct {
	URL    string
	Index  int
	Active bool
}

func buildModalView(g catalog.Game, lang string, ui i18n.Dict, active int) ModalView {
	coverMobile := g.CoverMobile
	if coverMobile == "" {
		coverMobile = g.Cover
	}
	return ModalView{
		Slug:        g.Key(),
		Lang:        lang,
		Title:       g.Title,
		Cover:       g.Cover,
		CoverMobile: coverMobile,
		Description: render.RichText(g.Description, g.DescFormat),
		Icons:       g.Icons,
		Badges:      buildBadges(g.Meta, ui),
		Downloads:   g.Downloads,
		Carousel:    buildCarouselView(g, active),
	}
}

func buildBadges(m catalog.Meta, ui i18n.Dict) []BadgeView {
	dash := ui.GetOr("modal.meta.missing", "—")
	orDash := func(v string) string {
		if v == "" {
			return dash
		}
		return v
	}
	words := format.FmtWords(m.Words)
	return []BadgeView{
		{LabelKey: "modal.meta.developer", Value: orDash(m.Developer)},
		{LabelKey: "modal.meta.genre", Value: orDash(m.Genre)},
		{LabelKey: "modal.meta.translators", Value: orDash(m.Translators)},
		{LabelKey: "modal.meta.words", Value: orDash(words)},
	}
}

func buildCarouselView(g catalog.Game, active int) CarouselView {
	n := len(g.Screenshots)
	if n == 0 {
		return CarouselView{Slug: g.Key()}
	}
	if active < 0 || active >= n {
		active = carousel.InitialIndex(n)
	}
	cv := CarouselView{
		Slug:    g.Key(),
		Active:  active,
		HasPrev: active > 0,
		HasNext: active < n-1,
		Shots:   make([]ShotView, 0, n),
	}
	for i, url := range g.Screenshots {
		cv.Shots = append(cv.Shots, ShotView{URL: url, Index: i, Active: i == active})
	}
	return cv
}

// parseIndex reads a decimal index query value, returning -1 when absent or
// malformed so the caller falls back to the centered default.
func parseIndex(raw string) int {
	if raw == "" {
		return -1
	}
	i, err := strconv.Atoi(raw)
	if err != nil {
		return -1
	}
	return i
}

package main

import (
	"context"
	"encoding/base64"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"belgames.org/showcase-web/internal/catalog"
	"belgames.org/showcase-web/internal/config"
	"belgames.org/showcase-web/internal/i18n"
	"belgames.org/showcase-web/internal/showcase"
)

// flakyLoader delegates to the fixture-backed client but fails configured
// languages, for exercising the degraded paths.
type flakyLoader struct {
	inner    showcase.Loader
	failLang string
}

func (f *flakyLoader) FetchUI(ctx context.Context, lang string) (i18n.Dict, error) {
	if lang == f.failLang {
		return nil, errors.New("boom")
	}
	return f.inner.FetchUI(ctx, lang)
}

func (f *flakyLoader) FetchGames(ctx context.Context, lang string) ([]catalog.Game, error) {
	if lang == f.failLang {
		return nil, errors.New("boom")
	}
	return f.inner.FetchGames(ctx, lang)
}

// gatedLoader stalls catalog fetches for one language until released.
type gatedLoader struct {
	inner    showcase.Loader
	stall    string
	gate     chan struct{}
	fetching chan struct{}
}

func newGatedLoader(inner showcase.Loader, stall string) *gatedLoader {
	return &gatedLoader{inner: inner, stall: stall, gate: make(chan struct{}), fetching: make(chan struct{}, 1)}
}

func (g *gatedLoader) FetchUI(ctx context.Context, lang string) (i18n.Dict, error) {
	return g.inner.FetchUI(ctx, lang)
}

func (g *gatedLoader) FetchGames(ctx context.Context, lang string) ([]catalog.Game, error) {
	if lang == g.stall {
		select {
		case g.fetching <- struct{}{}:
		default:
		}
		<-g.gate
	}
	return g.inner.FetchGames(ctx, lang)
}

// countingLoader tallies fetches per language.
type countingLoader struct {
	inner showcase.Loader
	ui    map[string]int
	games map[string]int
}

func newCountingLoader(inner showcase.Loader) *countingLoader {
	return &countingLoader{inner: inner, ui: map[string]int{}, games: map[string]int{}}
}

func (c *countingLoader) FetchUI(ctx context.Context, lang string) (i18n.Dict, error) {
	c.ui[lang]++
	return c.inner.FetchUI(ctx, lang)
}

func (c *countingLoader) FetchGames(ctx context.Context, lang string) ([]catalog.Game, error) {
	c.games[lang]++
	return c.inner.FetchGames(ctx, lang)
}

// newTestRouter wires the package globals the way main() does, backed by the
// JSON fixtures under assets/.
func newTestRouter(t *testing.T, loader showcase.Loader) http.Handler {
	t.Helper()
	cfg = config.Default()
	cfg.TemplatesDir = "../../templates"
	cfg.PublicDir = t.TempDir()
	logger = zap.NewNop()
	tc, err := parseTemplates()
	require.NoError(t, err)
	tmplCache = tc
	if loader == nil {
		loader = catalog.NewClient("", "../../assets")
	}
	store = showcase.NewStore(loader, logger)
	return newRouter()
}

func doc(t *testing.T, body io.Reader) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(body)
	require.NoError(t, err)
	return d
}

func TestHealthz(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestHomeRendersBelarusianByDefault(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "be", rec.Header().Get("Content-Language"))

	d := doc(t, rec.Body)
	assert.Equal(t, "Гульні па-беларуску", d.Find("h1.grid-title").Text())
	assert.Equal(t, 2, d.Find(".game-card").Length())
	assert.Contains(t, d.Find(".game-card").First().Text(), "Stardew Valley")

	desc, _ := d.Find(`meta[name=description]`).Attr("content")
	assert.Equal(t, "Гульні ў перакладзе на беларускую мову", desc)

	// one WebSite entry plus one VideoGame entry per catalog game
	ld := d.Find(`script[type='application/ld+json']`)
	require.Equal(t, 3, ld.Length())
	assert.Contains(t, ld.Text(), `"@type":"VideoGame"`)
	assert.Contains(t, ld.Text(), `"Stardew Valley"`)
}

func TestHomeNegotiatesAcceptLanguage(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "en-GB,en;q=0.8")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Games in Belarusian", doc(t, rec.Body).Find("h1.grid-title").Text())
}

func TestHomeRendersFallbackWhenBootstrapFails(t *testing.T) {
	h := newTestRouter(t, &flakyLoader{inner: catalog.NewClient("", "../../assets"), failLang: "be"})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec.Body)
	assert.Contains(t, d.Find(".grid-error").Text(), "Не атрымалася загрузіць")
	assert.Zero(t, d.Find(".game-card").Length())

	// no dictionary loaded: lookups collapse to the sentinel
	desc, _ := d.Find(`meta[name=description]`).Attr("content")
	assert.Equal(t, "undefined", desc)
}

func TestLangSwitchSwapsGridAndClosesModal(t *testing.T) {
	loader := newCountingLoader(catalog.NewClient("", "../../assets"))
	h := newTestRouter(t, loader)
	req := httptest.NewRequest(http.MethodPost, "/lang", strings.NewReader("lang=ru"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "showcase:modal-close", rec.Header().Get("HX-Trigger"))
	assert.Equal(t, "Игры на белорусском", doc(t, rec.Body).Find("h1.grid-title").Text())
	assert.Equal(t, "ru", sessionLangFrom(t, rec))
	// one dictionary fetch and one catalog fetch, for the new language only
	assert.Equal(t, map[string]int{"ru": 1}, loader.ui)
	assert.Equal(t, map[string]int{"ru": 1}, loader.games)
}

func TestLangSwitchPersistsChoiceEvenWhenReloadFails(t *testing.T) {
	h := newTestRouter(t, &flakyLoader{inner: catalog.NewClient("", "../../assets"), failLang: "ru"})
	req := httptest.NewRequest(http.MethodPost, "/lang", strings.NewReader("lang=ru"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, doc(t, rec.Body).Find(".grid-error").Text(), "Не удалось загрузить")
	assert.Equal(t, "ru", sessionLangFrom(t, rec), "choice sticks for the next visit")
}

func TestSlowVisitorStillGetsTheirGridDuringConcurrentSwitch(t *testing.T) {
	loader := newGatedLoader(catalog.NewClient("", "../../assets"), "be")
	h := newTestRouter(t, loader)

	slow := make(chan *httptest.ResponseRecorder, 1)
	go func() {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		slow <- rec
	}()

	// wait until the visitor's catalog fetch is in flight
	<-loader.fetching

	// another visitor switches the site language meanwhile
	req := httptest.NewRequest(http.MethodPost, "/lang", strings.NewReader("lang=ru"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	close(loader.gate)
	slowRec := <-slow
	require.Equal(t, http.StatusOK, slowRec.Code)
	d := doc(t, slowRec.Body)
	assert.Zero(t, d.Find(".grid-error").Length(), "a successful fetch must never render the failure fallback")
	assert.Equal(t, 2, d.Find(".game-card").Length())
	assert.Equal(t, "Гульні па-беларуску", d.Find("h1.grid-title").Text())
}

func TestLangSwitchRejectsUnsupportedLanguage(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/lang", strings.NewReader("lang=de"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLangSwitchRedirectsWithoutHTMX(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/lang", strings.NewReader("lang=en"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestGameModal(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/modal/game/stardew-valley", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec.Body)
	assert.Equal(t, "Stardew Valley", d.Find(".modal-title").Text())
	assert.Equal(t, 2, d.Find(".modal-icons img").Length())

	badges := d.Find(".meta-badge")
	require.Equal(t, 4, badges.Length())
	labels := badges.Find(".meta-badge__label").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"Распрацоўшчык", "Жанр", "Перакладчыкі", "Слоў"}, labels)
	values := badges.Find(".meta-badge__value").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"ConcernedApe", "Сімулятар фермы", "Суполка BelGames", "214,500"}, values)

	assert.Equal(t, 2, d.Find(".modal-downloads .download-group").Length())
	assert.Equal(t, 5, d.Find(".shot").Length())
	// 5 screenshots open centered on the middle one
	assert.Equal(t, 1, d.Find(".shot.is-active").Length())
	active := d.Find(".shot.is-active")
	idx, _ := active.Attr("data-index")
	assert.Equal(t, "2", idx)
}

func TestCarouselButtonsBindArrowKeys(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/modal/game/stardew-valley", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec.Body)
	prev, ok := d.Find(".shot-prev").Attr("hx-trigger")
	require.True(t, ok)
	assert.Contains(t, prev, "click")
	assert.Contains(t, prev, "ArrowLeft")
	next, ok := d.Find(".shot-next").Attr("hx-trigger")
	require.True(t, ok)
	assert.Contains(t, next, "click")
	assert.Contains(t, next, "ArrowRight")
}

func TestGameModalMissingMetadataShowsDash(t *testing.T) {
	h := newTestRouter(t, nil)
	req := httptest.NewRequest(http.MethodGet, "/modal/game/a-short-hike", nil)
	req.Header.Set("HX-Request", "true")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	d := doc(t, rec.Body)
	values := d.Find(".meta-badge__value").Map(func(_ int, s *goquery.Selection) string {
		return s.Text()
	})
	assert.Equal(t, []string{"—", "—", "—", "—"}, values)
	assert.Zero(t, d.Find(".modal-downloads").Length())
	assert.Zero(t, d.Find(".shot").Length())
}

func TestGameModalReopenLeavesNoResidue(t *testing.T) {
	h := newTestRouter(t, nil)
	open := func(slug string) *goquery.Document {
		req := httptest.NewRequest(http.MethodGet, "/modal/game/"+slug, nil)
		req.Header.Set("HX-Request", "true")
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return doc(t, rec.Body)
	}

	first := open("stardew-valley")
	require.Positive(t, first.Find(".modal-downloads").Length())

	second := open("a-short-hike")
	assert.NotContains(t, second.Text(), "ConcernedApe")
	assert.Zero(t, second.Find(".modal-downloads").Length())
	assert.Zero(t, second.Find(".shot").Length())
	slug, _ := second.Find(".modal").Attr("data-slug")
	assert.Equal(t, "a-short-hike", slug)
}

func TestGameModalUnknownSlug(t *testing.T) {
	h := newTestRouter(t, nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/modal/game/nope", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCarouselStepping(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()
	client := jarClient(t)

	activeOf := func(rawURL string) string {
		resp, err := client.Get(rawURL)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		d := doc(t, resp.Body)
		v, _ := d.Find(".modal-screenshots").Attr("data-active")
		return v
	}

	// opening the modal binds the tracker to this visitor's session
	resp, err := client.Get(srv.URL + "/modal/game/stardew-valley")
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, "3", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?dir=1"))
	assert.Equal(t, "4", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?dir=1"))
	// clamped at the last image
	assert.Equal(t, "4", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?dir=1"))
	assert.Equal(t, "3", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?dir=-1"))
	// direct jump
	assert.Equal(t, "0", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?i=0"))
	// out-of-range jump keeps the position
	assert.Equal(t, "0", activeOf(srv.URL+"/modal/game/stardew-valley/carousel?i=9"))
}

func TestCarouselPositionSettles(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t, nil))
	defer srv.Close()
	client := jarClient(t)

	resp, err := client.Get(srv.URL + "/modal/game/stardew-valley")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = client.PostForm(srv.URL+"/modal/game/stardew-valley/carousel/position",
		url.Values{"offset": {"0"}})
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	assert.Eventually(t, func() bool {
		resp, err := client.Get(srv.URL + "/modal/game/stardew-valley/carousel")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		d, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			return false
		}
		v, _ := d.Find(".modal-screenshots").Attr("data-active")
		return v == "1"
	}, 2*time.Second, 20*time.Millisecond, "active image settles after the debounce window")
}

func jarClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// sessionLangFrom decodes the signed session cookie payload and returns the
// persisted language.
func sessionLangFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name != "BELGAMES_SESSION" {
			continue
		}
		payload := strings.SplitN(c.Value, ".", 2)[0]
		raw, err := base64.RawURLEncoding.DecodeString(payload)
		require.NoError(t, err)
		if i := strings.Index(string(raw), `"lang":"`); i >= 0 {
			rest := string(raw)[i+len(`"lang":"`):]
			return rest[:strings.Index(rest, `"`)]
		}
		return ""
	}
	t.Fatal("missing session cookie")
	return ""
}

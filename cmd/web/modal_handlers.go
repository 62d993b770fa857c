package main

import (
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"belgames.org/showcase-web/internal/carousel"
	"belgames.org/showcase-web/internal/catalog"
	mw "belgames.org/showcase-web/internal/middleware"
)

// Carousel geometry assumed when the client reports no measurements. The
// strip renders 300px shots with a 20px gap inside a 640px viewport; the
// position endpoint refines this with real offsets.
const (
	shotViewport = 640.0
	shotWidth    = 300.0
	shotGap      = 20.0
)

// trackerTTL bounds how long an abandoned tracker survives. Visitors who
// close the tab never send the modal-close request, so stale entries are
// swept on every map access.
var trackerTTL = 30 * time.Minute

type trackerEntry struct {
	t        *carousel.Tracker
	shots    int
	lastSeen time.Time
}

// trackers holds one carousel tracker per open modal, keyed by session and
// game so concurrent visitors never share scroll state.
var trackers = struct {
	sync.Mutex
	m map[string]*trackerEntry
}{m: make(map[string]*trackerEntry)}

func trackerKey(r *http.Request, slug string) string {
	id := ""
	if s := mw.GetSession(r); s != nil {
		id = s.ID
	}
	return id + "|" + slug
}

// trackerFor returns the visitor's tracker for slug, rebuilding it when the
// screenshot count changed (a position report can race the modal open and
// otherwise pin an empty strip under the key).
func trackerFor(r *http.Request, slug string, shots int) *carousel.Tracker {
	key := trackerKey(r, slug)
	now := time.Now()
	trackers.Lock()
	defer trackers.Unlock()
	for k, e := range trackers.m {
		if now.Sub(e.lastSeen) > trackerTTL {
			e.t.Stop()
			delete(trackers.m, k)
		}
	}
	if e, ok := trackers.m[key]; ok {
		if e.shots == shots {
			e.lastSeen = now
			return e.t
		}
		e.t.Stop()
	}
	t := carousel.NewTracker(carousel.Uniform(shotViewport, shots, shotWidth, shotGap))
	trackers.m[key] = &trackerEntry{t: t, shots: shots, lastSeen: now}
	return t
}

func dropTrackers(r *http.Request) {
	prefix := trackerKey(r, "")
	trackers.Lock()
	defer trackers.Unlock()
	for key, e := range trackers.m {
		if strings.HasPrefix(key, prefix) {
			e.t.Stop()
			delete(trackers.m, key)
		}
	}
}

// GameModalHandler renders the detail modal for one game. The fragment is
// rebuilt wholesale on every open, so nothing from a previously shown game
// can leak into it.
func GameModalHandler(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess, err := store.Ensure(r.Context(), lang)
	if err != nil {
		mw.WriteError(w, r, http.StatusServiceUnavailable, errorMessage(lang))
		return
	}
	slug := chi.URLParam(r, "slug")
	g, ok := catalog.Find(sess.Games, slug)
	if !ok {
		mw.WriteError(w, r, http.StatusNotFound, "unknown game")
		return
	}

	t := trackerFor(r, g.Key(), len(g.Screenshots))
	renderFrag(w, r, sess.UI, "frag_modal", buildModalView(g, lang, sess.UI, t.Active()))
}

// ModalCloseHandler empties the modal container and releases the visitor's
// carousel state.
func ModalCloseHandler(w http.ResponseWriter, r *http.Request) {
	dropTrackers(r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
}

// CarouselFrag re-renders the screenshot strip after a step (?dir=±1) or a
// direct jump (?i=N). Out-of-range jumps keep the current position.
func CarouselFrag(w http.ResponseWriter, r *http.Request) {
	lang := mw.Lang(r)
	sess, err := store.Ensure(r.Context(), lang)
	if err != nil {
		mw.WriteError(w, r, http.StatusServiceUnavailable, errorMessage(lang))
		return
	}
	slug := chi.URLParam(r, "slug")
	g, ok := catalog.Find(sess.Games, slug)
	if !ok {
		mw.WriteError(w, r, http.StatusNotFound, "unknown game")
		return
	}

	t := trackerFor(r, g.Key(), len(g.Screenshots))
	switch {
	case r.URL.Query().Get("dir") != "":
		if dir, err := strconv.Atoi(r.URL.Query().Get("dir")); err == nil && (dir == 1 || dir == -1) {
			t.Scroll(dir)
		}
	case r.URL.Query().Get("i") != "":
		t.CenterOn(parseIndex(r.URL.Query().Get("i")))
	}

	renderFrag(w, r, sess.UI, "frag_carousel", buildCarouselView(g, t.Active()))
}

// CarouselPositionHandler ingests a raw scroll offset report from the client.
// The active index settles after the debounce window; the response carries no
// body so scrolling stays cheap.
func CarouselPositionHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "bad form")
		return
	}
	offset, err := strconv.ParseFloat(r.PostFormValue("offset"), 64)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "bad offset")
		return
	}
	slug := chi.URLParam(r, "slug")
	sess := store.Current()
	shots := 0
	if sess != nil {
		if g, ok := catalog.Find(sess.Games, slug); ok {
			shots = len(g.Screenshots)
		}
	}
	trackerFor(r, slug, shots).Observe(offset)
	w.WriteHeader(http.StatusNoContent)
}

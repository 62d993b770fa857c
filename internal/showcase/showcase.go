// Package showcase owns the bootstrap sequence: load the UI dictionary, then
// the game catalog, for one language, and publish them as a single immutable
// session context. The current context is replaced wholesale on every
// successful bootstrap; render paths never see a half-switched state.
package showcase

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"belgames.org/showcase-web/internal/catalog"
	"belgames.org/showcase-web/internal/i18n"
)

// ErrStale reports a bootstrap that finished after a newer one started. The
// built session is still returned so the caller can render it; it just never
// becomes the store's current session.
var ErrStale = errors.New("showcase: stale bootstrap not published")

// Session is the immutable per-language context threaded through rendering.
// Dictionary and catalog are always loaded for the same language value.
type Session struct {
	Lang  string
	UI    i18n.Dict
	Games []catalog.Game
}

// Loader fetches the two localized documents of a bootstrap.
type Loader interface {
	FetchUI(ctx context.Context, lang string) (i18n.Dict, error)
	FetchGames(ctx context.Context, lang string) ([]catalog.Game, error)
}

// Store tracks the current session and serializes bootstrap publication.
type Store struct {
	loader Loader
	log    *zap.Logger

	mu  sync.Mutex
	cur *Session
	seq uint64
}

func NewStore(loader Loader, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{loader: loader, log: log}
}

// Bootstrap loads dictionary and catalog for lang, sequentially, and
// publishes the result unless a newer bootstrap started in the meantime.
func (s *Store) Bootstrap(ctx context.Context, lang string) (*Session, error) {
	s.mu.Lock()
	s.seq++
	mine := s.seq
	s.mu.Unlock()

	ui, err := s.loader.FetchUI(ctx, lang)
	if err != nil {
		s.log.Warn("bootstrap: ui dictionary load failed",
			zap.String("lang", lang), zap.Error(err))
		return nil, err
	}
	games, err := s.loader.FetchGames(ctx, lang)
	if err != nil {
		s.log.Warn("bootstrap: game catalog load failed",
			zap.String("lang", lang), zap.Error(err))
		return nil, err
	}
	sess := &Session{Lang: lang, UI: ui, Games: games}

	s.mu.Lock()
	defer s.mu.Unlock()
	if mine != s.seq {
		s.log.Info("bootstrap: stale result not published",
			zap.String("lang", lang), zap.Uint64("seq", mine), zap.Uint64("latest", s.seq))
		return sess, ErrStale
	}
	s.cur = sess
	s.log.Info("bootstrap: session published",
		zap.String("lang", lang), zap.Int("games", len(games)))
	return sess, nil
}

// Current returns the last published session, or nil before the first
// successful bootstrap.
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cur
}

// Ensure returns the current session when it already matches lang, running a
// fresh bootstrap otherwise. A bootstrap that loses the publication race is
// still a success for the caller: its own fetches completed, so its session
// is rendered even though a newer one owns the store.
func (s *Store) Ensure(ctx context.Context, lang string) (*Session, error) {
	s.mu.Lock()
	cur := s.cur
	s.mu.Unlock()
	if cur != nil && cur.Lang == lang {
		return cur, nil
	}
	sess, err := s.Bootstrap(ctx, lang)
	if errors.Is(err, ErrStale) {
		return sess, nil
	}
	return sess, err
}

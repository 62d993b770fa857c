package main

import (
	"context"
	"flag"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"belgames.org/showcase-web/internal/catalog"
	"belgames.org/showcase-web/internal/config"
	"belgames.org/showcase-web/internal/i18n"
	mw "belgames.org/showcase-web/internal/middleware"
	"belgames.org/showcase-web/internal/showcase"
)

var (
	cfg    config.Config
	logger *zap.Logger
	store  *showcase.Store
)

func main() {
	var (
		addr     string
		cfgPath  string
		tmplPath string
		pubPath  string
	)
	flag.StringVar(&addr, "addr", "", "HTTP listen address (overrides config)")
	flag.StringVar(&cfgPath, "config", "showcase.yaml", "configuration file")
	flag.StringVar(&tmplPath, "templates", "", "templates directory (overrides config)")
	flag.StringVar(&pubPath, "public", "", "public assets directory (overrides config)")
	flag.Parse()

	var err error
	cfg, err = config.Load(cfgPath)
	if err != nil {
		panic(err)
	}
	if addr != "" {
		cfg.Addr = addr
	}
	if tmplPath != "" {
		cfg.TemplatesDir = tmplPath
	}
	if pubPath != "" {
		cfg.PublicDir = pubPath
	}

	if cfg.Dev {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if !cfg.Dev {
		// parse templates once in production
		tc, err := parseTemplates()
		if err != nil {
			logger.Fatal("parse templates", zap.Error(err))
		}
		tmplCache = tc
	}

	client := catalog.NewClient(cfg.ContentURL, cfg.AssetsDir)
	store = showcase.NewStore(client, logger)

	// warm the default language; a failure here is not fatal, the first
	// request retries and renders the fallback message
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if sess, err := store.Bootstrap(ctx, cfg.DefaultLang); err != nil {
		logger.Warn("initial bootstrap failed", zap.Error(err))
	} else {
		reportDictCoverage(ctx, client, sess)
	}
	cancel()

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newRouter(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("web listening", zap.String("addr", cfg.Addr), zap.Bool("dev", cfg.Dev))
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("listen", zap.Error(err))
	}
}

// reportDictCoverage logs UI keys present in the default language dictionary
// but untranslated in the others.
func reportDictCoverage(ctx context.Context, client *catalog.Client, base *showcase.Session) {
	for _, lang := range cfg.Languages {
		if lang == base.Lang {
			continue
		}
		d, err := client.FetchUI(ctx, lang)
		if err != nil {
			logger.Warn("dictionary coverage: load failed", zap.String("lang", lang), zap.Error(err))
			continue
		}
		if missing := i18n.Missing(base.UI, d); len(missing) > 0 {
			logger.Warn("dictionary coverage: untranslated keys",
				zap.String("lang", lang),
				zap.Int("count", len(missing)),
				zap.Strings("keys", missing))
		}
	}
}

// newRouter assembles the middleware stack and routes. Shared with tests.
func newRouter() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.HTMX)
	r.Use(mw.Session)
	r.Use(mw.Locale(cfg.Languages, cfg.DefaultLang))
	r.Use(mw.VaryLocale)
	r.Use(mw.Logger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	assets := http.StripPrefix("/assets", mw.AssetsWithCache(cfg.PublicDir))
	r.Handle("/assets/*", assets)

	r.Get("/", HomeHandler)
	r.Post("/lang", LangSwitchHandler)

	r.Get("/modal/game/{slug}", GameModalHandler)
	r.Post("/modal/close", ModalCloseHandler)
	r.Get("/modal/game/{slug}/carousel", CarouselFrag)
	r.Post("/modal/game/{slug}/carousel/position", CarouselPositionHandler)

	return r
}

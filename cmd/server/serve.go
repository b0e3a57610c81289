package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"favorites/internal/admission"
	admissionhandler "favorites/internal/admission/handler"
	"favorites/internal/caller"
	"favorites/internal/consent"
	consenthandler "favorites/internal/consent/handler"
	"favorites/internal/favorites"
	favoriteshandler "favorites/internal/favorites/handler"
	"favorites/internal/nonce"
	"favorites/internal/platform/config"
	"favorites/internal/platform/httpserver"
	"favorites/internal/platform/logger"
	"favorites/internal/platform/metrics"
	platformredis "favorites/internal/platform/redis"
	"favorites/internal/ratelimit"
	"favorites/internal/settings"
	settingshandler "favorites/internal/settings/handler"
	"favorites/internal/site"
	httptransport "favorites/internal/transport/http"
)

const shutdownTimeout = 10 * time.Second

var serveFlags struct {
	addr         string
	settingsFile string
	multisite    bool
	logLevel     string
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the HTTP server. Configuration comes from FAVORITES_* environment
variables; flags override them.`,
	Example: `  FAVORITES_REDIS_URL=redis://localhost:6379/0 favorites serve --addr :8080
  favorites serve --settings ./favorites.yaml --multisite`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveFlags.addr, "addr", "", "listen address (FAVORITES_ADDR)")
	serveCmd.Flags().StringVar(&serveFlags.settingsFile, "settings", "", "settings YAML file (FAVORITES_SETTINGS_FILE)")
	serveCmd.Flags().BoolVar(&serveFlags.multisite, "multisite", false, "serve several sites (FAVORITES_MULTISITE)")
	serveCmd.Flags().StringVar(&serveFlags.logLevel, "log-level", "", "debug, info, warn or error (FAVORITES_LOG_LEVEL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if serveFlags.addr != "" {
		cfg.Addr = serveFlags.addr
	}
	if serveFlags.settingsFile != "" {
		cfg.SettingsFile = serveFlags.settingsFile
	}
	if cmd.Flags().Changed("multisite") {
		cfg.Multisite = serveFlags.multisite
	}
	if serveFlags.logLevel != "" {
		cfg.LogLevel = serveFlags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := buildApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer app.close()

	srv := httpserver.New(cfg.Addr, app.router)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("starting favorites", "addr", cfg.Addr, "multisite", cfg.Multisite)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		return app.watcher.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("shutting down")
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})
	return g.Wait()
}

type app struct {
	router  http.Handler
	watcher *settings.Watcher
	closers []func() error
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}

// buildApp wires stores, services and handlers. Redis and Postgres are used
// when configured; otherwise the in-memory stores serve a single process.
func buildApp(ctx context.Context, cfg config.Server, log *slog.Logger) (*app, error) {
	a := &app{}
	health := map[string]httptransport.HealthCheck{}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	settingsStore := settings.NewFileStore(cfg.SettingsFile)
	repo, err := settings.NewRepository(ctx, settingsStore)
	if err != nil {
		return nil, err
	}
	watcher, err := settings.NewWatcher(repo, settingsStore.Path(), log)
	if err != nil {
		return nil, err
	}
	a.watcher = watcher

	var (
		consentStore   consent.Store        = consent.NewInMemoryStore()
		favoritesStore favorites.Store      = favorites.NewInMemoryStore()
		sites          admission.SiteLookup = site.NewInMemoryStore(site.Site{ID: 1, Path: "/"})
	)

	limitOpts := []ratelimit.Option{ratelimit.WithMetrics(m)}

	rdb, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		a.close()
		return nil, err
	}
	if rdb != nil {
		limitOpts = append(limitOpts, ratelimit.WithStore(ratelimit.NewRedisStore(rdb.Client)))
		a.closers = append(a.closers, rdb.Close)
		health["redis"] = rdb.Health
		consentStore = consent.NewRedisStore(rdb.Client)
		favoritesStore = favorites.NewRedisStore(rdb.Client)
		log.Info("using redis stores")
	}

	if cfg.DatabaseURL != "" {
		db, err := sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			a.close()
			return nil, fmt.Errorf("open database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		if err := db.PingContext(ctx); err != nil {
			a.close()
			return nil, fmt.Errorf("ping database: %w", err)
		}
		pg := site.NewPostgres(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			a.close()
			return nil, err
		}
		health["postgres"] = db.PingContext
		sites = pg
		log.Info("using postgres site lookup")
	}

	sessions := caller.NewSessionService(cfg.SessionKey, "")
	issuer := nonce.NewIssuer(cfg.NonceKey, cfg.NonceTTL)
	consents := consent.NewService(consentStore, cfg.ConsentTTL)

	gate := admission.New(
		admission.WithMultisite(cfg.Multisite),
		admission.WithSiteLookup(sites),
		admission.WithNonceVerifier(issuer),
	)

	limit := ratelimit.Limit{Requests: cfg.RateLimit.Requests, Window: cfg.RateLimit.Window}

	a.router = httptransport.NewRouter(httptransport.Deps{
		Logger:            log,
		Metrics:           m,
		Gatherer:          reg,
		Sessions:          sessions,
		SecureCookies:     cfg.SecureCookies,
		AdminTokenHash:    cfg.AdminTokenHash,
		TrustProxyHeaders: cfg.TrustProxyHeaders,
		Admission:         admissionhandler.New(gate, repo, caller.NewResolver(consents, log), m, log),
		Favorites:         favoriteshandler.New(favorites.NewService(favoritesStore), m, log),
		Consent:           consenthandler.New(consents, m, log, cfg.SecureCookies),
		Nonce:             nonce.NewHandler(issuer, log),
		Settings:          settingshandler.New(repo, issuer, log),
		RateLimit:         ratelimit.New(limit, log, limitOpts...),
		HealthChecks:      health,
	})
	return a, nil
}

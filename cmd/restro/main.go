// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/restro-web/internal/apiclient"
	"github.com/olegiv/restro-web/internal/cache"
	"github.com/olegiv/restro-web/internal/config"
	"github.com/olegiv/restro-web/internal/geoip"
	"github.com/olegiv/restro-web/internal/handler"
	"github.com/olegiv/restro-web/internal/imaging"
	"github.com/olegiv/restro-web/internal/logging"
	"github.com/olegiv/restro-web/internal/metrics"
	"github.com/olegiv/restro-web/internal/middleware"
	"github.com/olegiv/restro-web/internal/model"
	"github.com/olegiv/restro-web/internal/render"
	"github.com/olegiv/restro-web/internal/scheduler"
	"github.com/olegiv/restro-web/internal/service"
	"github.com/olegiv/restro-web/internal/session"
	"github.com/olegiv/restro-web/internal/version"
	"github.com/olegiv/restro-web/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const (
	requestTimeout   = 30 * time.Second
	warmTimeout      = 20 * time.Second
	shutdownTimeout  = 30 * time.Second
	memoryCacheItems = 1000
	staticMaxAge     = 31536000 // one year
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "restro - restaurant website and back-office\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_SESSION_SECRET   Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_API_BASE_URL     Backend API base URL (default: http://127.0.0.1:8000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_REDIS_URL        Redis URL for the shared public cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  RESTRO_GEOIP_DB_PATH    GeoLite2-City database for nearest-branch ordering (optional)\n")
	}

	flag.Parse()

	info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}
	if *showVersion {
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// Load .env files if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	isDev := cfg.IsDevelopment()

	logger := logging.New(os.Stdout, cfg.LogLevel, isDev)
	slog.SetDefault(logger)
	slog.Info("starting", "version", info.Short(), "env", cfg.Env, "api", cfg.APIBaseURL)

	api := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, apiclient.WithLogger(logger))

	// Public catalogue cache
	cacheResult, err := cache.New(cache.Config{
		RedisURL:         cfg.RedisURL,
		Prefix:           cfg.CachePrefix,
		DefaultTTL:       cfg.CacheTTLDuration(),
		MaxSize:          memoryCacheItems,
		CleanupInterval:  time.Minute,
		FallbackToMemory: true,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	cacheManager := cache.NewManager(cacheResult.Cache, cacheResult.Backend)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()

	catalog := service.NewCatalog(api.Anonymous(), cacheManager, cfg.CacheTTLDuration())
	images := imaging.NewProcessor(cfg.ImageMaxDimension)
	inquiries := service.NewInquiries(api.Anonymous(), images.Transform)

	geo := geoip.NewLookup()
	if err := geo.Init(cfg.GeoIPDBPath); err != nil {
		slog.Warn("geoip disabled", "path", cfg.GeoIPDBPath, "error", err)
	}
	defer func() { _ = geo.Close() }()

	sessionManager := session.New(isDev)
	sessions := session.NewStore(sessionManager)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:  templatesFS,
		Flashes:      sessions,
		IsDev:        isDev,
		SiteName:     cfg.SiteName,
		MediaBaseURL: cfg.MediaURL(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}

	loginProtection := middleware.NewLoginProtection(middleware.LoginProtectionConfig{TrustProxy: cfg.TrustProxy})
	formLimiter := middleware.NewFormLimiter(cfg.FormRateLimit, cfg.FormRateBurst, cfg.TrustProxy)

	sched := scheduler.New(logger)
	if err := registerJobs(sched, cfg, catalog, geo, loginProtection, formLimiter); err != nil {
		return fmt.Errorf("registering jobs: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	warmCtx, cancelWarm := context.WithTimeout(context.Background(), warmTimeout)
	if err := catalog.Warm(warmCtx); err != nil {
		slog.Warn("initial catalogue warm-up incomplete", "error", err)
	}
	cancelWarm()

	deps := &handler.Deps{
		API:        api,
		Sessions:   sessions,
		Renderer:   renderer,
		FlashDelay: cfg.FlashDelay,
		PageSize:   cfg.PageSize,
		MaxUpload:  cfg.MaxUploadBytes(),
		Logger:     logger,
	}
	adminHandler := handler.NewAdminHandler(deps, handler.BuildResources(deps, catalog, images))
	authHandler := handler.NewAuthHandler(deps, loginProtection)
	frontendHandler := handler.NewFrontendHandler(deps, catalog, inquiries, geo, cfg.TrustProxy)
	healthHandler := handler.NewHealthHandler(api.Anonymous(), cacheManager, sched, info.Short())
	cacheHandler := handler.NewCacheHandler(deps, cacheManager)
	schedulerHandler := handler.NewSchedulerHandler(deps, sched)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret)[:config.MinSessionSecretLength], isDev, cfg.ServerPort))

	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(logger, cfg.TrustProxy))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(isDev, cfg.MediaURL())))

	staticFS, err := fs.Sub(web.Static, "static/dist")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", middleware.StaticCache(staticMaxAge)(http.StripPrefix("/static/", http.FileServer(http.FS(staticFS)))))

	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(middleware.LoadUser(sessions))

		r.Get(handler.RouteHealth, healthHandler.Health)
		r.Get(handler.RouteHealth+"/live", healthHandler.Liveness)
		r.Get(handler.RouteHealth+"/ready", healthHandler.Readiness)

		r.Group(func(r chi.Router) {
			r.Use(csrfMiddleware)
			r.Use(middleware.Timeout(requestTimeout))

			r.Group(func(r chi.Router) {
				r.Use(loginProtection.Middleware())
				r.Get(handler.RouteLogin, authHandler.LoginForm)
				r.Post(handler.RouteLogin, authHandler.Login)
			})
			r.Post(handler.RouteLogout, authHandler.Logout)

			r.Route("/admin", func(r chi.Router) {
				r.Use(middleware.RequireBackOffice)
				r.Use(middleware.NoStore)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireRole(model.RoleAdmin, model.RoleSuperAdmin))
					r.Route("/cache", cacheHandler.Routes)
					r.Route("/scheduler", schedulerHandler.Routes)
				})
				adminHandler.Routes(r)
			})

			frontendHandler.Routes(r, formLimiter.Middleware)
		})
	})

	r.NotFound(sessionManager.LoadAndSave(http.HandlerFunc(frontendHandler.NotFound)).ServeHTTP)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "cache", cacheResult.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	var metricsSrv *http.Server
	if cfg.MetricsEnabled() {
		metricsSrv = metrics.NewServer(cfg.MetricsAddr)
		go func() {
			slog.Info("starting metrics server", "addr", cfg.MetricsAddr)
			if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				slog.Error("metrics server error", "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(ctx); err != nil {
			slog.Warn("metrics server shutdown", "error", err)
		}
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// registerJobs schedules the maintenance jobs.
func registerJobs(sched *scheduler.Scheduler, cfg *config.Config, catalog *service.Catalog, geo *geoip.Lookup,
	lp *middleware.LoginProtection, fl *middleware.FormLimiter) error {
	warmEvery := max(cfg.CacheTTLDuration()/2, time.Minute)
	jobs := []scheduler.Job{
		{
			Name:        "catalogue-warm",
			Description: "Reload the public menu, branches, gallery, jobs and testimonials into the cache",
			Schedule:    "@every " + warmEvery.String(),
			Run:         catalog.Warm,
		},
		{
			Name:        "login-sweep",
			Description: "Forget expired failed sign-in attempts and idle IP limiters",
			Schedule:    "@every 10m",
			Run: func(context.Context) error {
				lp.Sweep()
				return nil
			},
		},
		{
			Name:        "form-limiter-sweep",
			Description: "Drop idle public form rate limiters",
			Schedule:    "@every 10m",
			Run: func(context.Context) error {
				fl.Sweep()
				return nil
			},
		},
	}
	if cfg.GeoIPEnabled() {
		jobs = append(jobs, scheduler.Job{
			Name:        "geoip-reload",
			Description: "Reopen the GeoIP database when the file has been replaced",
			Schedule:    "30 4 * * *",
			Run:         func(context.Context) error { return geo.Reload() },
		})
	}
	for _, job := range jobs {
		if err := sched.Add(job); err != nil {
			return err
		}
	}
	return nil
}

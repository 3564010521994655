// cmd/api/main.go
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"showcase-backend/internal/config"
	"showcase-backend/internal/handler"
	"showcase-backend/internal/livesync"
	"showcase-backend/internal/service"
	"showcase-backend/internal/storage"
	"showcase-backend/internal/themes"

	"github.com/gorilla/handlers"
	"github.com/hashicorp/go-hclog"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		hclog.Default().Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Preview store ─────────────────────────────────────────────────────────
	store, db, err := openStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to open preview store", "store", cfg.StoreType, "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// ── Themes ────────────────────────────────────────────────────────────────
	registry, err := themes.NewRegistry(cfg.ThemesDir, logger)
	if err != nil {
		logger.Error("failed to load themes", "error", err)
		os.Exit(1)
	}
	if cfg.ThemesDir != "" {
		go func() {
			if err := registry.Watch(ctx, cfg.ThemesDir); err != nil {
				logger.Warn("theme hot reload disabled", "dir", cfg.ThemesDir, "error", err)
			}
		}()
	}
	logger.Info("themes loaded", "themes", registry.Themes())

	// ── Image storage ─────────────────────────────────────────────────────────
	// Handler code depends on storage.ImageStorage only; a new backend is
	// wired here and nowhere else.
	images, err := storage.NewLocalStorage(cfg.UploadDir, cfg.BaseURL)
	if err != nil {
		logger.Error("failed to prepare upload dir", "dir", cfg.UploadDir, "error", err)
		os.Exit(1)
	}
	logger.Info("using local image storage", "dir", cfg.UploadDir)

	// ── Services & Handlers ───────────────────────────────────────────────────
	previews := service.NewPreviewService(store, registry, logger)
	hub := livesync.NewHub(logger, originChecker(cfg.AllowedOrigins))

	routes := &handler.Router{
		Previews: &handler.PreviewHandler{
			Service:      previews,
			PublicOrigin: cfg.PublicOrigin,
			Logger:       logger.Named("http"),
		},
		Uploads: &handler.UploadHandler{
			Storage:  images,
			MaxBytes: cfg.MaxUploadBytes,
			Logger:   logger.Named("uploads"),
		},
		Sync:      &handler.SyncHandler{Hub: hub},
		UploadDir: cfg.UploadDir,
	}
	if db != nil {
		routes.Health = func(r *http.Request) error { return db.PingContext(r.Context()) }
	}

	// ── CORS — read from env, not hardcoded ────────────────────────────────────
	// Dev:        ALLOWED_ORIGINS=http://localhost:5173
	// Production: ALLOWED_ORIGINS=https://yourproduct.com,https://www.yourproduct.com
	cors := handlers.CORS(
		handlers.AllowedOrigins(cfg.AllowedOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
	)

	// ── HTTP Server with timeouts ──────────────────────────────────────────────
	// WriteTimeout does not apply to hijacked WebSocket connections.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      cors(routes.Build()),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second, // 30s for uploads
		IdleTimeout:  60 * time.Second,
		ErrorLog:     logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}

	// ── Graceful Shutdown ──────────────────────────────────────────────────────
	// On SIGTERM in-flight requests finish before exit; no publish is dropped mid-save.
	go func() {
		logger.Info("showcase service running", "port", cfg.Port, "store", cfg.StoreType)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received, draining requests")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("forced shutdown", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped cleanly")
}

// openStore selects the preview store from STORE_TYPE. The returned *sql.DB
// is nil for the memory store.
func openStore(ctx context.Context, cfg *config.Config, logger hclog.Logger) (storage.PreviewStore, *sql.DB, error) {
	var driver, dsn string
	var dialect storage.Dialect

	switch cfg.StoreType {
	case config.StoreMemory:
		logger.Warn("using in-memory preview store; previews are lost on restart")
		return storage.NewMemoryPreviewStore(), nil, nil
	case config.StoreSQLite:
		driver, dsn, dialect = "sqlite", cfg.SQLitePath, storage.SQLite
	default:
		driver, dsn, dialect = "postgres", cfg.DatabaseURL, storage.Postgres
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, nil, err
	}

	// Connection pool — prevents overwhelming DB under concurrent load
	if driver == "sqlite" {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
	}
	db.SetConnMaxLifetime(5 * time.Minute)

	// Verify connection at startup — fail fast rather than accepting traffic
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, err
	}

	store := storage.NewSQLPreviewStore(db, dialect)
	if err := store.Migrate(pingCtx); err != nil {
		db.Close()
		return nil, nil, err
	}

	logger.Info("connected to preview store", "driver", driver)
	return store, db, nil
}

// originChecker restricts sync WebSocket upgrades to the CORS origins.
func originChecker(allowed []string) func(*http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || set["*"] || set[origin]
	}
}

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ericfisherdev/phonebook/internal/adapter/driven/auditlog"
	sqliteadapter "github.com/ericfisherdev/phonebook/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/phonebook/internal/adapter/driven/token"
	httphandler "github.com/ericfisherdev/phonebook/internal/adapter/driving/http"
	"github.com/ericfisherdev/phonebook/internal/application"
	"github.com/ericfisherdev/phonebook/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on missing required env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"token_ttl", cfg.TokenTTL,
		"audit_log_path", cfg.Audit.Path,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database (dual reader/writer with WAL mode).
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("error closing database", "error", closeErr)
		}
	}()
	logger.Info("database opened", "path", cfg.DBPath)

	// 4. Run migrations on writer connection.
	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		return err
	}
	logger.Info("migrations complete", "version", version)

	// 5. Open the audit trail.
	audit := auditlog.New(auditlog.Options{
		Path:       cfg.Audit.Path,
		MaxSizeMB:  cfg.Audit.MaxSizeMB,
		MaxBackups: cfg.Audit.MaxBackups,
		MaxAgeDays: cfg.Audit.MaxAgeDays,
		Compress:   cfg.Audit.Compress,
	}, logger)
	defer func() {
		if closeErr := audit.Close(); closeErr != nil {
			logger.Error("error closing audit log", "error", closeErr)
		}
	}()

	// 6. Wire adapters and services.
	recordStore := sqliteadapter.NewRecordRepo(db)
	userStore := sqliteadapter.NewUserRepo(db)
	tokens := token.NewService(cfg.JWTSecret, cfg.TokenTTL)

	authSvc := application.NewAuthService(userStore, tokens, audit)
	phonebookSvc := application.NewPhoneBookService(application.NewGuard(tokens), recordStore, audit)
	healthSvc := application.NewHealthService(db)

	users, err := userStore.ListUsers(ctx)
	if err != nil {
		return err
	}
	if len(users) == 0 {
		logger.Warn("no users configured, every login will fail until one is added with phonebookctl users set")
	}

	// 7. Create HTTP handler with routes and middleware.
	handler := httphandler.NewServeMux(httphandler.NewHandler(authSvc, phonebookSvc, healthSvc, logger), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	audit.Record(ctx, "service started", "listen_addr", cfg.ListenAddr)
	logger.Info("phonebook started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal or a listener failure.
	select {
	case <-ctx.Done():
		logger.Info("shutting down")
	case err := <-serveErr:
		if err != nil {
			logger.Error("http server error", "error", err)
			return err
		}
	}

	// 9. Graceful shutdown with 10s timeout to drain in-flight requests.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	audit.Record(shutdownCtx, "service stopped")
	logger.Info("shutdown complete")
	return nil
}

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

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	"github.com/ericfisherdev/spamwall/internal/adapter/driven/encryption"
	"github.com/ericfisherdev/spamwall/internal/adapter/driven/metrics"
	"github.com/ericfisherdev/spamwall/internal/adapter/driven/openai"
	sqliteadapter "github.com/ericfisherdev/spamwall/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/spamwall/internal/adapter/driving/http"
	webhandler "github.com/ericfisherdev/spamwall/internal/adapter/driving/web"
	"github.com/ericfisherdev/spamwall/internal/application"
	"github.com/ericfisherdev/spamwall/internal/config"
	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"openai_base_url", cfg.OpenAIBaseURL,
		"openai_timeout", cfg.OpenAITimeout,
		"unknown_policy", cfg.UnknownPolicy,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 3. Open database and run migrations on the writer connection.
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}
	slog.Info("migrations complete")

	// 4. Resolve the site secret. Without one the cipher passes values through.
	cipher, source := encryption.NewFromSources(cfg.EncryptionKey, cfg.UseKeyring, slog.Default())
	if cipher.Enabled() {
		slog.Info("encryption enabled", "source", source)
	} else {
		slog.Warn("no encryption key configured, API key will be stored in plaintext")
	}

	// 5. Wire adapters.
	optionStore := sqliteadapter.NewOptionRepo(db)

	clientOpts := []openai.Option{
		openai.WithBaseURL(cfg.OpenAIBaseURL),
		openai.WithTimeout(cfg.OpenAITimeout),
		openai.WithLogger(slog.Default()),
	}
	buildClassifier := func(ctx context.Context) driven.SpamClassifier {
		return openai.NewClient(ctx, optionStore, cipher, clientOpts...)
	}
	client := openai.NewClient(ctx, optionStore, cipher, clientOpts...)
	if !client.Configured() {
		slog.Info("no OpenAI API key configured, comments pass through until one is saved in settings")
	}
	provider := application.NewClassifierProvider(client)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder(reg)

	// 6. Register the comment gate on the pre-approval hook.
	filters := application.NewFilterRegistry()
	gate := application.NewCommentGate(provider, cfg.UnknownPolicy, recorder, slog.Default())
	gate.Register(filters)

	settingsSvc := application.NewSettingsService(optionStore, cipher)

	// 7. HTTP API and settings pages share one mux.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(filters, provider, cipher, reg, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(settingsSvc, provider, buildClassifier, cipher, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	// Write timeout covers a full classification round trip.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      cfg.OpenAITimeout + 15*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("spamwall started", "listen_addr", cfg.ListenAddr)

	// 8. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// Command spamwall-uninstall removes every option SpamWall stored.
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/ericfisherdev/spamwall/internal/adapter/driven/encryption"
	sqliteadapter "github.com/ericfisherdev/spamwall/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/spamwall/internal/application"
	"github.com/ericfisherdev/spamwall/internal/config"
	"github.com/ericfisherdev/spamwall/internal/domain/model"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()

	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		return err
	}

	// Deleting options never needs the key, so a pass-through cipher is enough.
	svc := application.NewSettingsService(sqliteadapter.NewOptionRepo(db), encryption.New(""))
	if err := svc.Uninstall(ctx); err != nil {
		return err
	}

	slog.Info("options removed", "db_path", cfg.DBPath, "keys", model.OptionKeys())
	return nil
}

package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/alecthomas/kong"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/repository"
)

// CLI is the command line of the schema migrator.
type CLI struct {
	Config  string   `help:"Path to a YAML config file (default ./config.yaml if present)." type:"path"`
	EnvFile []string `help:".env files to load before reading the environment." default:".env,../.env" name:"env-file"`
	Status  bool     `help:"List pending migrations without applying them."`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("migrate"),
		kong.Description("Apply the contact store schema migrations for DATABASE_URL."),
	)

	config.LoadEnvFiles(cli.EnvFile...)
	cfg, err := config.Load(cli.Config)
	if err != nil {
		logging.Fatal("load config failed", "error", err)
	}
	logging.Setup(cfg.LogLevel)

	if cfg.DatabaseURL == "" {
		logging.Fatal("DATABASE_URL is required", "error", repository.ErrEmptyConnString)
	}
	connector, err := repository.NewConnector(cfg.DatabaseURL)
	if err != nil {
		logging.Fatal("invalid DATABASE_URL", "error", err)
	}

	ctx := context.Background()
	store, err := connector.Connect(ctx)
	if err != nil {
		logging.Fatal("connect failed", "dialect", connector.Dialect(), "error", err)
	}
	defer func() {
		if err := store.Close(ctx); err != nil && !errors.Is(err, context.Canceled) {
			slog.Warn("close failed", "error", err)
		}
	}()

	if cli.Status {
		pending, err := store.PendingMigrations(ctx)
		if err != nil {
			logging.Fatal("read migration status failed", "error", err)
		}
		if len(pending) == 0 {
			slog.Info("all migrations already applied", "dialect", store.Dialect())
			return
		}
		for _, name := range pending {
			slog.Info("pending migration", "migration", name)
		}
		slog.Info("migrations pending", "count", len(pending))
		return
	}

	applied, err := store.Migrate(ctx)
	if err != nil {
		logging.Fatal("migration failed", "error", err)
	}
	if applied == 0 {
		slog.Info("all migrations already applied", "dialect", store.Dialect())
	} else {
		slog.Info("migrations completed", "dialect", store.Dialect(), "count", applied)
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/portfolio/backend/internal/config"
	"github.com/portfolio/backend/internal/content"
	"github.com/portfolio/backend/internal/handler"
	"github.com/portfolio/backend/internal/logging"
	"github.com/portfolio/backend/internal/notify"
	"github.com/portfolio/backend/internal/page"
	"github.com/portfolio/backend/internal/repository"
	"github.com/portfolio/backend/internal/service"
	"github.com/portfolio/backend/pkg/auth"
)

var version = "dev"

// CLI is the command line of the portfolio server.
type CLI struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Path to a YAML config file (default ./config.yaml if present)." type:"path"`
	Addr    string           `help:"Listen address, overrides ADDR."`
	EnvFile []string         `help:".env files to load before reading the environment." default:".env" name:"env-file"`
}

func main() {
	var cli CLI
	kong.Parse(&cli,
		kong.Name("server"),
		kong.Description("Portfolio site and contact form API."),
		kong.Vars{"version": version},
	)
	if err := run(cli); err != nil {
		logging.Fatal("server failed", "error", err)
	}
}

func run(cli CLI) error {
	config.LoadEnvFiles(cli.EnvFile...)
	cfg, err := config.Load(cli.Config)
	if err != nil {
		return err
	}
	if cli.Addr != "" {
		cfg.Addr = cli.Addr
	}
	logging.Setup(cfg.LogLevel)

	// DATABASE_URL 未設定時は connector を nil のまま渡し、送信時に設定エラーを返す
	var connector repository.Connector
	if cfg.DatabaseURL != "" {
		c, err := repository.NewConnector(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("database url: %w", err)
		}
		connector = c
		slog.Info("store configured", "dialect", c.Dialect())
	} else {
		slog.Warn("DATABASE_URL not set; contact submissions will be rejected")
	}

	if cfg.AutoMigrate && connector != nil {
		if err := migrate(context.Background(), connector); err != nil {
			return err
		}
	}

	// メール認証情報が無い場合は通知を無効化する（EMAIL_REQUIRED=true なら送信時に設定エラー）
	var notifier notify.Notifier
	if cfg.HasEmailCredentials() {
		notifier = notify.NewSMTPNotifier(notify.SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.EmailUser,
			Password: cfg.EmailPass,
			To:       cfg.NotifyTo,
			Timeout:  cfg.EmailTimeout,
		})
	} else {
		slog.Warn("email credentials missing; notifications disabled",
			"missing", cfg.MissingEmailKeys(), "required", cfg.EmailRequired)
	}

	catalogue, err := content.Load(cfg.ContentFile)
	if err != nil {
		return err
	}
	site, err := page.New(catalogue)
	if err != nil {
		return fmt.Errorf("parse page templates: %w", err)
	}

	contactService := service.NewContactService(connector, notifier, service.ContactOptions{
		MaxMessageLength: cfg.MaxMessageLength,
		RequireNotifier:  cfg.EmailRequired,
	})

	showDetails := !cfg.IsProduction()
	h := handler.New(contactService, cfg.FrontendURL, showDetails)
	contactHandler := handler.NewContactHandler(contactService, showDetails)
	contentHandler := handler.NewContentHandler(catalogue)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/health", h.Health)
	mux.HandleFunc("POST /api/contact", contactHandler.Submit)

	// コンテンツ API（認証不要）
	mux.HandleFunc("GET /api/projects", contentHandler.Projects)
	mux.HandleFunc("GET /api/skills", contentHandler.Skills)
	mux.HandleFunc("GET /api/services", contentHandler.Services)
	mux.HandleFunc("GET /api/profile", contentHandler.Profile)

	// 管理者 API（ADMIN_TOKEN 未設定時は全て 401）
	if cfg.AdminToken == "" {
		slog.Warn("ADMIN_TOKEN not set; admin routes disabled")
	}
	requireAdmin := auth.RequireAdminToken(cfg.AdminToken)
	mux.Handle("GET /api/admin/contacts", handler.NoStore(requireAdmin(http.HandlerFunc(contactHandler.AdminList))))

	// サイト本体と静的ファイル
	mux.Handle("GET /{$}", site)
	mux.Handle("GET /static/", page.Static())

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.RequestLogger(handler.SecurityHeaders(h.CORS(mux))),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// 保存後の通知メール送信の時間も含める
		WriteTimeout: 10*time.Second + cfg.EmailTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", server.Addr, "env", cfg.AppEnv, "version", version)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-quit:
		slog.Info("shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	return nil
}

// migrate は専用の接続で未適用のマイグレーションを適用する
func migrate(ctx context.Context, connector repository.Connector) error {
	store, err := connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("auto-migrate connect: %w", err)
	}
	defer func() { _ = store.Close(ctx) }()

	applied, err := store.Migrate(ctx)
	if err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	slog.Info("auto-migrate finished", "dialect", store.Dialect(), "applied", applied)
	return nil
}

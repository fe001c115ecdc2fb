package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv unsets every config key for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for k := range defaults {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SMTPHost != "smtp.gmail.com" {
		t.Errorf("expected SMTPHost=smtp.gmail.com, got %q", cfg.SMTPHost)
	}
	if cfg.SMTPPort != 465 {
		t.Errorf("expected SMTPPort=465, got %d", cfg.SMTPPort)
	}
	if cfg.EmailTimeout != 10*time.Second {
		t.Errorf("expected EmailTimeout=10s, got %v", cfg.EmailTimeout)
	}
	if cfg.MaxMessageLength != 5000 {
		t.Errorf("expected MaxMessageLength=5000, got %d", cfg.MaxMessageLength)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("expected empty DatabaseURL, got %q", cfg.DatabaseURL)
	}
	if cfg.IsProduction() {
		t.Error("expected development by default")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost/db")
	t.Setenv("EMAIL_USER", "me@example.com")
	t.Setenv("EMAIL_PASS", "secret")
	t.Setenv("SMTP_PORT", "587")
	t.Setenv("APP_ENV", "Production")
	t.Setenv("EMAIL_TIMEOUT", "3s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "postgres://u:p@localhost/db" {
		t.Errorf("unexpected DatabaseURL %q", cfg.DatabaseURL)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("expected SMTPPort=587, got %d", cfg.SMTPPort)
	}
	if !cfg.IsProduction() {
		t.Error("expected production")
	}
	if cfg.EmailTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.EmailTimeout)
	}
	if cfg.NotifyTo != "me@example.com" {
		t.Errorf("expected NotifyTo to default to EMAIL_USER, got %q", cfg.NotifyTo)
	}
	if !cfg.HasEmailCredentials() {
		t.Error("expected email credentials present")
	}
}

func TestLoad_ConfigFileThenEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")
	data := "DATABASE_URL: sqlite://from-file.db\nNOTIFY_TO: ops@example.com\nADDR: \":9090\"\n"
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ADDR", ":7070")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DatabaseURL != "sqlite://from-file.db" {
		t.Errorf("expected DatabaseURL from file, got %q", cfg.DatabaseURL)
	}
	if cfg.NotifyTo != "ops@example.com" {
		t.Errorf("expected NotifyTo from file, got %q", cfg.NotifyTo)
	}
	if cfg.Addr != ":7070" {
		t.Errorf("expected env to override file, got %q", cfg.Addr)
	}
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}

func TestMissingEmailKeys(t *testing.T) {
	cfg := &Config{EmailUser: "me@example.com"}
	missing := cfg.MissingEmailKeys()
	if len(missing) != 1 || missing[0] != "EMAIL_PASS" {
		t.Errorf("expected [EMAIL_PASS], got %v", missing)
	}
	if cfg.HasEmailCredentials() {
		t.Error("expected credentials incomplete")
	}
}

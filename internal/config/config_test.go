package config

import "testing"

func TestLoadDevelopmentDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("POSTGRES_PASSWORD", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if !cfg.IsDev() {
		t.Error("IsDev() = false in development")
	}
	if cfg.Addr() != "0.0.0.0:8080" {
		t.Errorf("Addr() = %q", cfg.Addr())
	}
}

func TestLoadProductionRequiresSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("POSTGRES_PASSWORD", "")
	t.Setenv("FORM_SECRET", "")

	if _, err := Load(); err == nil {
		t.Error("expected error for default DB password in production")
	}

	t.Setenv("POSTGRES_PASSWORD", "real-password")
	if _, err := Load(); err == nil {
		t.Error("expected error for default form secret in production")
	}

	t.Setenv("FORM_SECRET", "real-secret")
	if _, err := Load(); err != nil {
		t.Errorf("Load with secrets set: %v", err)
	}
}

func TestDSN(t *testing.T) {
	t.Setenv("POSTGRES_HOST", "db.internal")
	t.Setenv("POSTGRES_PORT", "5433")
	t.Setenv("POSTGRES_USER", "site")
	t.Setenv("POSTGRES_PASSWORD", "pw")
	t.Setenv("POSTGRES_DB", "site")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := "postgres://site:pw@db.internal:5433/site?sslmode=disable"
	if cfg.DSN() != want {
		t.Errorf("DSN() = %q, want %q", cfg.DSN(), want)
	}
}

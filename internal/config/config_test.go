package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestMustLoad_Defaults(t *testing.T) {
	for _, k := range []string{"PORT", "CATALOG_PATH", "TRANSACTIONS_PATH", "API_KEY", "JWT_SECRET", "JWT_EXPIRES_IN", "TELEGRAM_BOT_TOKEN", "WEBHOOK_BASE_URL", "LOG_LEVEL", "GIN_MODE"} {
		t.Setenv(k, "")
	}
	cfg := MustLoad()
	if cfg.ServerPort != ":8080" {
		t.Errorf("ServerPort = %q", cfg.ServerPort)
	}
	if cfg.CatalogPath != "./data/cc_options.json" {
		t.Errorf("CatalogPath = %q", cfg.CatalogPath)
	}
	if cfg.JWTExpiresIn != 24*time.Hour {
		t.Errorf("JWTExpiresIn = %v", cfg.JWTExpiresIn)
	}
	if cfg.LogLevel != slog.LevelInfo || cfg.GinMode != "release" {
		t.Errorf("LogLevel = %v GinMode = %q", cfg.LogLevel, cfg.GinMode)
	}
}

func TestMustLoad_Overrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("JWT_EXPIRES_IN", "90m")
	t.Setenv("WEBHOOK_BASE_URL", "https://example.org/")
	t.Setenv("LOG_LEVEL", "DEBUG")
	cfg := MustLoad()
	if cfg.ServerPort != ":9000" || cfg.JWTExpiresIn != 90*time.Minute {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.WebhookBaseURL != "https://example.org" {
		t.Errorf("WebhookBaseURL = %q", cfg.WebhookBaseURL)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
		"":      slog.LevelInfo,
		"loud":  slog.LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

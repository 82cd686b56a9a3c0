package config

import (
	"testing"
	"time"
)

func TestParseNormalizesValues(t *testing.T) {
	t.Setenv("ENV", "Prod")
	t.Setenv("OBJECT_STORE", "S3")
	t.Setenv("CORS_ALLOW_ORIGINS", " https://a.example , ,https://b.example")
	t.Setenv("RATE_LIMIT_WRITE_BURST", "3")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "s3" {
		t.Fatalf("expected s3, got %q", cfg.ObjectStoreType)
	}
	if len(cfg.CORSAllowOrigin) != 2 || cfg.CORSAllowOrigin[1] != "https://b.example" {
		t.Fatalf("unexpected origins: %#v", cfg.CORSAllowOrigin)
	}
	if cfg.WriteBurst != 3 {
		t.Fatalf("expected burst 3, got %d", cfg.WriteBurst)
	}
	if cfg.IsDevLike() {
		t.Fatalf("production must not be dev-like")
	}
}

func TestParseDefaults(t *testing.T) {
	t.Setenv("ENV", "")
	t.Setenv("PORT", "")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %q", cfg.Port)
	}
	if !cfg.IsDevLike() {
		t.Fatalf("expected dev default")
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store default, got %q", cfg.ObjectStoreType)
	}
}

func TestParsePoolSettings(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("DB_CONN_MAX_IDLE_TIME", "45s")
	t.Setenv("DB_PING_TIMEOUT", "")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := Pool{
		MaxOpenConns:    7,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 45 * time.Second,
		PingTimeout:     5 * time.Second,
	}
	if cfg.DB != want {
		t.Fatalf("pool = %+v, want %+v", cfg.DB, want)
	}
}

func TestParseRejectsBadDuration(t *testing.T) {
	t.Setenv("DB_CONN_MAX_LIFETIME", "forever")
	if _, err := Parse(); err == nil {
		t.Fatalf("expected parse error")
	}
}

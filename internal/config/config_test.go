package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigs(t *testing.T, public, private []byte) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "public.yaml"), public, 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "private.yaml"), private, 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestMustLoad(t *testing.T) {
	public := []byte("jwt_ttl: 24h\nbcrypt_cost: 10\nlog_level: debug\nsecure_cookies: true\n")
	private := []byte("jwt_key: 'secret123'\npg:\n  host: localhost\n  port: 5432\n  user: whisperbox\n  password: pass\n  dbname: whisperbox\n")
	dir := writeConfigs(t, public, private)

	cfg := MustLoad(dir)

	if cfg.JwtTTL() != 24*time.Hour {
		t.Errorf("JwtTTL, got: %s, want: 24h", cfg.JwtTTL())
	}
	if cfg.JwtKey() != "secret123" {
		t.Errorf("JwtKey, got: %s, want: secret123", cfg.JwtKey())
	}
	if cfg.BcryptCost() != 10 {
		t.Errorf("BcryptCost, got: %d, want: 10", cfg.BcryptCost())
	}
	if cfg.Private.Pg.Host != "localhost" {
		t.Errorf("pg.Host, got: %s, want: localhost", cfg.Private.Pg.Host)
	}
	if cfg.Private.Pg.Port != 5432 {
		t.Errorf("pg.Port, got: %d, want: 5432", cfg.Private.Pg.Port)
	}
	if !cfg.Public.SecureCookies {
		t.Error("SecureCookies, got: false, want: true")
	}
}

func TestMustLoad_MissingJwtKey(t *testing.T) {
	// Absent signing secret must be fatal at startup, not a per-request error
	dir := writeConfigs(t, []byte("jwt_ttl: 1h\n"), []byte("jwt_key: ''\n"))

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing jwt_key, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_MissingFile(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing config files, got none")
		}
	}()

	_ = MustLoad(t.TempDir())
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "")
	t.Setenv("TOKEN_TTL", "")
	t.Setenv("KEYWORD_TOP_N", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	t.Setenv("TRUST_PROXY_HEADERS", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected default token ttl 24h, got %v", cfg.TokenTTL)
	}
	if cfg.KeywordTopN != 10 {
		t.Fatalf("expected default top n 10, got %d", cfg.KeywordTopN)
	}
	if len(cfg.CORSAllowedOrigins) != 1 || cfg.CORSAllowedOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected default origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.TrustProxyHeaders {
		t.Fatal("expected proxy headers to be untrusted by default")
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("PORT", "9000")
	t.Setenv("TOKEN_TTL", "2h")
	t.Setenv("KEYWORD_TOP_N", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("REDIS_URI", "redis://cache:6379")
	t.Setenv("TRUST_PROXY_HEADERS", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9000" {
		t.Fatalf("expected port override, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Fatalf("expected token ttl 2h, got %v", cfg.TokenTTL)
	}
	if cfg.KeywordTopN != 15 {
		t.Fatalf("expected top n 15, got %d", cfg.KeywordTopN)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://b.example" {
		t.Fatalf("unexpected origins %v", cfg.CORSAllowedOrigins)
	}
	if !cfg.TrustProxyHeaders {
		t.Fatal("expected proxy headers to be trusted")
	}
	if cfg.RedisAddr() != "cache:6379" {
		t.Fatalf("expected scheme stripped, got %q", cfg.RedisAddr())
	}
}

func TestLoadIgnoresMalformedNumbers(t *testing.T) {
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("KEYWORD_TOP_N", "many")
	t.Setenv("TOKEN_TTL", "forever")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.KeywordTopN != 10 || cfg.TokenTTL != 24*time.Hour {
		t.Fatalf("expected fallbacks, got top n %d ttl %v", cfg.KeywordTopN, cfg.TokenTTL)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	body := "port: \"7000\"\nmongo_database: feedback_test\nanalytics_cache_ttl: 30s\nlogin_burst: 2\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "")
	t.Setenv("MONGO_DATABASE", "")
	t.Setenv("ANALYTICS_CACHE_TTL", "")
	t.Setenv("LOGIN_BURST", "9")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "7000" || cfg.MongoDatabase != "feedback_test" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.AnalyticsCacheTTL != 30*time.Second {
		t.Fatalf("expected cache ttl 30s, got %v", cfg.AnalyticsCacheTTL)
	}
	if cfg.LoginBurst != 9 {
		t.Fatalf("expected env to win over file, got %d", cfg.LoginBurst)
	}
}

func TestLoadMissingFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.yml"))

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestLoadReadsDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("MONGO_DATABASE=from_dotenv\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	chdir(t, dir)
	t.Setenv("CONFIG_FILE", "")
	t.Setenv("MONGO_DATABASE", "")
	os.Unsetenv("MONGO_DATABASE")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.MongoDatabase != "from_dotenv" {
		t.Fatalf("expected value from .env, got %q", cfg.MongoDatabase)
	}
}

func TestLoadRejectsMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("BAD-KEY=value\n"), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	chdir(t, dir)
	t.Setenv("CONFIG_FILE", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for malformed .env")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (equivalent of testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd() error = %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir() error = %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("Chdir() restore error = %v", err)
		}
	})
}

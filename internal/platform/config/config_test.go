package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	env := map[string]string{
		"DP_FIRESTORE_PROJECT_ID":  "dp-dev",
		"DP_STORAGE_ASSETS_BUCKET": "dealerpress-assets-dev",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Firestore.ProjectID != "dp-dev" {
		t.Errorf("unexpected firestore project: %s", cfg.Firestore.ProjectID)
	}
	if cfg.Environment != "local" {
		t.Errorf("expected default environment local, got %s", cfg.Environment)
	}
	if cfg.Demo.SitePrefix != defaultDemoPrefix {
		t.Errorf("expected default demo prefix, got %s", cfg.Demo.SitePrefix)
	}
	if cfg.Storage.SignedURLTTL != defaultSignedURLTTL {
		t.Errorf("unexpected default signed url ttl: %s", cfg.Storage.SignedURLTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 0 {
		t.Errorf("expected no allowed origins, got %v", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"DP_SERVER_PORT":             "9090",
		"DP_SERVER_READ_TIMEOUT":     "20s",
		"DP_SERVER_WRITE_TIMEOUT":    "25s",
		"DP_SERVER_IDLE_TIMEOUT":     "2m",
		"DP_FIRESTORE_PROJECT_ID":    "dp-prod",
		"DP_FIRESTORE_EMULATOR_HOST": "localhost:8200",
		"DP_STORAGE_ASSETS_BUCKET":   "assets-prod",
		"DP_STORAGE_CDN_BASE_URL":    "https://cdn.example.com/",
		"DP_STORAGE_SIGNER_EMAIL":    "signer@dp-prod.iam.gserviceaccount.com",
		"DP_STORAGE_SIGNED_URL_TTL":  "30m",
		"DP_CORS_ALLOWED_ORIGINS":    "https://example.com, https://editor.example.com",
		"DP_DEMO_SITE_PREFIX":        "preview-",
		"DP_ENVIRONMENT":             "Prod",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Firestore.EmulatorHost != "localhost:8200" {
		t.Errorf("unexpected emulator host: %s", cfg.Firestore.EmulatorHost)
	}
	if cfg.Storage.CDNBaseURL != "https://cdn.example.com" {
		t.Errorf("expected trailing slash stripped, got %s", cfg.Storage.CDNBaseURL)
	}
	if cfg.Storage.SignedURLTTL != 30*time.Minute {
		t.Errorf("unexpected signed url ttl: %s", cfg.Storage.SignedURLTTL)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 {
		t.Fatalf("expected 2 allowed origins, got %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.CORS.AllowedOrigins[1] != "https://editor.example.com" {
		t.Errorf("unexpected allowed origin: %s", cfg.CORS.AllowedOrigins[1])
	}
	if cfg.Demo.SitePrefix != "preview-" {
		t.Errorf("unexpected demo prefix: %s", cfg.Demo.SitePrefix)
	}
	if cfg.Environment != "prod" {
		t.Errorf("expected environment lowered to prod, got %s", cfg.Environment)
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "DP_SERVER_PORT=7070\nDP_FIRESTORE_PROJECT_ID=dp-dot\nDP_STORAGE_ASSETS_BUCKET=assets-dot\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "dp-dot" {
		t.Errorf("expected firestore project from dotenv, got %s", cfg.Firestore.ProjectID)
	}
}

func TestLoadMissingRequired(t *testing.T) {
	_, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validationErr.Fields()
	found := false
	for _, field := range fields {
		if field == "Firestore.ProjectID" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected Firestore.ProjectID among missing fields, got %v", fields)
	}
}

func TestLoadRejectsNonNumericPort(t *testing.T) {
	env := map[string]string{
		"DP_SERVER_PORT":           "http",
		"DP_FIRESTORE_PROJECT_ID":  "dp-dev",
		"DP_STORAGE_ASSETS_BUCKET": "assets",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadEnvMapTakesPrecedence(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "DP_SERVER_PORT=7070\n"
	if err := os.WriteFile(envPath, []byte(content), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}

	env := map[string]string{
		"DP_SERVER_PORT":           "9191",
		"DP_FIRESTORE_PROJECT_ID":  "dp-dev",
		"DP_STORAGE_ASSETS_BUCKET": "assets",
	}

	cfg, err := Load(WithEnvFile(envPath), WithEnvMap(env), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "9191" {
		t.Fatalf("expected env map to win over dotenv, got %s", cfg.Server.Port)
	}
}

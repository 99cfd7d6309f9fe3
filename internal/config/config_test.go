package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so the host environment cannot leak in.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{configPathEnv, concurrencyEnv, timeoutEnv, outputEnv, logLevelEnv, metricsFileEnv, databaseDSNEnv} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "unhoster.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fetch.Concurrency != 15 || cfg.Fetch.Timeout != 30*time.Second {
		t.Fatalf("unexpected fetch defaults: %+v", cfg.Fetch)
	}
	if cfg.Extractor.Schema != "default" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Ledger.DSN != "" || cfg.Metrics.Textfile != "" {
		t.Fatalf("optional integrations must be disabled by default: %+v", cfg)
	}
}

func TestLoadFileAndEnvPrecedence(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
fetch:
  concurrency: 20
  timeout: 45s
  userAgent: test-agent
output:
  dir: /srv/assets
  overwrite: true
extractor:
  schema: extended
  nested: true
logging:
  level: debug
`)
	t.Setenv(configPathEnv, path)
	t.Setenv(concurrencyEnv, "5")
	t.Setenv(databaseDSNEnv, "postgres://u:p@localhost/assets")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Fetch.Concurrency != 5 {
		t.Fatalf("env must override file concurrency, got %d", cfg.Fetch.Concurrency)
	}
	if cfg.Fetch.Timeout != 45*time.Second || cfg.Fetch.UserAgent != "test-agent" {
		t.Fatalf("unexpected fetch config: %+v", cfg.Fetch)
	}
	if cfg.Output.Dir != "/srv/assets" || !cfg.Output.Overwrite {
		t.Fatalf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Extractor.Schema != "extended" || !cfg.Extractor.Nested {
		t.Fatalf("unexpected extractor config: %+v", cfg.Extractor)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %s", cfg.Logging.Level)
	}
	if cfg.Ledger.DSN != "postgres://u:p@localhost/assets" {
		t.Fatalf("unexpected dsn: %s", cfg.Ledger.DSN)
	}
}

func TestLoadExplicitPathWins(t *testing.T) {
	clearEnv(t)

	t.Setenv(configPathEnv, filepath.Join(t.TempDir(), "missing.yaml"))
	path := writeConfig(t, "fetch:\n  concurrency: 3\n")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Fetch.Concurrency != 3 {
		t.Fatalf("unexpected concurrency: %d", cfg.Fetch.Concurrency)
	}
}

func TestLoadErrors(t *testing.T) {
	clearEnv(t)

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}

	if _, err := Load(writeConfig(t, "fetch: [")); err == nil {
		t.Fatalf("expected parse error")
	}

	t.Setenv(concurrencyEnv, "many")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), concurrencyEnv) {
		t.Fatalf("expected invalid concurrency error, got %v", err)
	}

	t.Setenv(concurrencyEnv, "-1")
	if _, err := Load(""); err == nil || !strings.Contains(err.Error(), "fetch.concurrency") {
		t.Fatalf("expected validation error, got %v", err)
	}

	t.Setenv(concurrencyEnv, "")
	t.Setenv(timeoutEnv, "soon")
	if _, err := Load(""); err == nil {
		t.Fatalf("expected invalid timeout error")
	}
}

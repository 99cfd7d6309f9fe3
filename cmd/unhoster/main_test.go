package main

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"Unhoster/internal/config"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	if err := cmd.ParseFlags([]string{"-o", "/tmp/out", "-r", "--timeout", "2s", "--nested"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg := config.Config{
		Fetch:     config.FetchConfig{Concurrency: 15, Timeout: 30 * time.Second},
		Extractor: config.ExtractorConfig{Schema: "extended"},
		Logging:   config.LoggingConfig{Level: "info"},
	}

	var flags rootFlags
	flags.output, _ = cmd.Flags().GetString("output")
	flags.replace, _ = cmd.Flags().GetBool("replace")
	flags.timeout, _ = cmd.Flags().GetDuration("timeout")
	flags.nested, _ = cmd.Flags().GetBool("nested")
	flags.apply(cmd, &cfg)

	if cfg.Output.Dir != "/tmp/out" || !cfg.Output.Overwrite {
		t.Fatalf("unexpected output config: %+v", cfg.Output)
	}
	if cfg.Fetch.Timeout != 2*time.Second || cfg.Fetch.Concurrency != 15 {
		t.Fatalf("unexpected fetch config: %+v", cfg.Fetch)
	}
	if cfg.Extractor.Schema != "extended" || !cfg.Extractor.Nested {
		t.Fatalf("unset schema flag must keep config value: %+v", cfg.Extractor)
	}
}

func TestRootCommandRequiresInput(t *testing.T) {
	t.Parallel()

	cmd := newRootCommand()
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "requires at least 1 arg") {
		t.Fatalf("expected missing argument error, got %v", err)
	}
}

package config

import (
	"strings"
	"testing"
	"time"
)

type envTestConfig struct {
	Port int `env:"INTAKEDESK_TEST_PORT" envDefault:"123"`
}

type prefixedTestConfig struct {
	Addr     string        `env:"TEST_ADDR" envDefault:"localhost:1"`
	Interval time.Duration `env:"TEST_INTERVAL" envDefault:"1h"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Port != 123 {
		t.Fatalf("expected default port 123, got %d", cfg.Port)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("INTAKEDESK_TEST_PORT", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}

func TestParseEnvWithPrefixUsesSharedPrefix(t *testing.T) {
	t.Setenv("INTAKEDESK_TEST_ADDR", "127.0.0.1:9")
	t.Setenv("INTAKEDESK_TEST_INTERVAL", "90s")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, ""); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9" {
		t.Fatalf("Addr = %q, want %q", cfg.Addr, "127.0.0.1:9")
	}
	if cfg.Interval != 90*time.Second {
		t.Fatalf("Interval = %s, want 90s", cfg.Interval)
	}
}

func TestParseEnvWithPrefixIgnoresUnprefixed(t *testing.T) {
	t.Setenv("TEST_ADDR", "ignored:1")

	var cfg prefixedTestConfig
	if err := ParseEnvWithPrefix(&cfg, "INTAKEDESK_"); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Addr != "localhost:1" {
		t.Fatalf("Addr = %q, want default", cfg.Addr)
	}
}

package shell

import (
	"context"
	"flag"
	"testing"
	"time"
)

func TestParseConfigDefaults(t *testing.T) {
	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "localhost:8090" {
		t.Fatalf("HTTPAddr = %q, want %q", cfg.HTTPAddr, "localhost:8090")
	}
	if cfg.AuthBaseURL != "http://localhost:8084" {
		t.Fatalf("AuthBaseURL = %q, want %q", cfg.AuthBaseURL, "http://localhost:8084")
	}
	if cfg.StatePath != "data/intakedesk.db" {
		t.Fatalf("StatePath = %q, want %q", cfg.StatePath, "data/intakedesk.db")
	}
	if cfg.RefreshInterval != time.Hour {
		t.Fatalf("RefreshInterval = %s, want 1h", cfg.RefreshInterval)
	}
	if cfg.AuthTimeout != 10*time.Second {
		t.Fatalf("AuthTimeout = %s, want 10s", cfg.AuthTimeout)
	}
}

func TestParseConfigReadsEnv(t *testing.T) {
	t.Setenv("INTAKEDESK_HTTP_ADDR", "127.0.0.1:9100")
	t.Setenv("INTAKEDESK_REFRESH_INTERVAL", "30m")

	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.HTTPAddr != "127.0.0.1:9100" {
		t.Fatalf("HTTPAddr = %q, want env value", cfg.HTTPAddr)
	}
	if cfg.RefreshInterval != 30*time.Minute {
		t.Fatalf("RefreshInterval = %s, want 30m", cfg.RefreshInterval)
	}
}

func TestParseConfigFlagsOverrideEnv(t *testing.T) {
	t.Setenv("INTAKEDESK_STATE_PATH", "/tmp/env.db")

	fs := flag.NewFlagSet("shell", flag.ContinueOnError)
	cfg, err := ParseConfig(fs, []string{"-state-path", ":memory:", "-auth-timeout", "3s"})
	if err != nil {
		t.Fatalf("ParseConfig() error = %v", err)
	}
	if cfg.StatePath != ":memory:" {
		t.Fatalf("StatePath = %q, want :memory:", cfg.StatePath)
	}
	if cfg.AuthTimeout != 3*time.Second {
		t.Fatalf("AuthTimeout = %s, want 3s", cfg.AuthTimeout)
	}
}

func TestParseConfigRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		env  string
		args []string
	}{
		{name: "bad env duration", env: "soon"},
		{name: "zero interval flag", args: []string{"-refresh-interval", "0s"}},
		{name: "unknown flag", args: []string{"-nope"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.env != "" {
				t.Setenv("INTAKEDESK_REFRESH_INTERVAL", tc.env)
			}
			fs := flag.NewFlagSet("shell", flag.ContinueOnError)
			if _, err := ParseConfig(fs, tc.args); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestRunFailsOnBadConfig(t *testing.T) {
	err := Run(context.Background(), Config{HTTPAddr: "127.0.0.1:0", StatePath: ":memory:"})
	if err == nil {
		t.Fatal("expected error for missing auth base url")
	}
}

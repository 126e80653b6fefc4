// Package shell parses intakedesk shell flags and launches the server.
package shell

import (
	"context"
	"flag"
	"fmt"
	"time"

	entrypoint "github.com/louisbranch/intakedesk/internal/platform/cmd"
	shellserver "github.com/louisbranch/intakedesk/internal/services/shell"
)

// Config holds the shell command configuration. Environment variables carry
// the INTAKEDESK_ prefix.
type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" envDefault:"localhost:8090"`
	AuthBaseURL     string        `env:"AUTH_BASE_URL" envDefault:"http://localhost:8084"`
	StatePath       string        `env:"STATE_PATH" envDefault:"data/intakedesk.db"`
	RefreshInterval time.Duration `env:"REFRESH_INTERVAL" envDefault:"1h"`
	AuthTimeout     time.Duration `env:"AUTH_TIMEOUT" envDefault:"10s"`
}

// ParseConfig parses environment and flags into Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.AuthBaseURL, "auth-base-url", cfg.AuthBaseURL, "Auth authority HTTP base URL")
	fs.StringVar(&cfg.StatePath, "state-path", cfg.StatePath, "SQLite file holding the auth token, or :memory:")
	fs.DurationVar(&cfg.RefreshInterval, "refresh-interval", cfg.RefreshInterval, "Token refresh interval")
	fs.DurationVar(&cfg.AuthTimeout, "auth-timeout", cfg.AuthTimeout, "Timeout for one auth authority request")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	if cfg.RefreshInterval <= 0 {
		return Config{}, fmt.Errorf("refresh interval must be positive, got %s", cfg.RefreshInterval)
	}
	return cfg, nil
}

// Run starts the shell server and blocks until ctx ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceShell, func(ctx context.Context) error {
		server, err := shellserver.NewServerWithContext(ctx, shellserver.Config{
			HTTPAddr:        cfg.HTTPAddr,
			AuthBaseURL:     cfg.AuthBaseURL,
			StatePath:       cfg.StatePath,
			RefreshInterval: cfg.RefreshInterval,
			AuthTimeout:     cfg.AuthTimeout,
		})
		if err != nil {
			return fmt.Errorf("init shell server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve shell: %w", err)
		}
		return nil
	})
}

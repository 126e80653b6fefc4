package shell

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/louisbranch/intakedesk/internal/platform/i18n/catalog"
	"github.com/louisbranch/intakedesk/internal/platform/timeouts"
	"github.com/louisbranch/intakedesk/internal/services/shell/app"
	"github.com/louisbranch/intakedesk/internal/services/shell/authclient"
	"github.com/louisbranch/intakedesk/internal/services/shell/metrics"
	"github.com/louisbranch/intakedesk/internal/services/shell/refresh"
	"github.com/louisbranch/intakedesk/internal/services/shell/storage"
	"github.com/louisbranch/intakedesk/internal/services/shell/storage/memory"
	"github.com/louisbranch/intakedesk/internal/services/shell/storage/sqlite"
	"github.com/louisbranch/intakedesk/internal/services/shell/tokenstore"
	"github.com/louisbranch/intakedesk/internal/services/shell/transport/httpmux"
	"github.com/louisbranch/intakedesk/internal/services/shell/views"
)

// MemoryStatePath selects the in-process token store.
const MemoryStatePath = ":memory:"

// Config defines the inputs for the shell server.
type Config struct {
	HTTPAddr    string
	AuthBaseURL string
	// StatePath is the SQLite file holding the token, or MemoryStatePath.
	StatePath       string
	RefreshInterval time.Duration
	AuthTimeout     time.Duration
	// Clock drives the refresh timer; nil uses the real clock.
	Clock clockwork.Clock
}

// Server hosts the shell HTTP server and owns its session.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	app        *app.Shell
	store      storage.Store

	closeOnce sync.Once
}

// NewServer builds a shell server.
func NewServer(config Config) (*Server, error) {
	return NewServerWithContext(context.Background(), config)
}

// NewServerWithContext builds a shell server and restores any persisted
// session before returning.
func NewServerWithContext(ctx context.Context, config Config) (*Server, error) {
	if ctx == nil {
		return nil, errors.New("context is required")
	}
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	if strings.TrimSpace(config.AuthBaseURL) == "" {
		return nil, errors.New("auth base url is required")
	}
	if config.AuthTimeout <= 0 {
		config.AuthTimeout = timeouts.AuthRequest
	}

	auth, err := authclient.New(config.AuthBaseURL, &http.Client{Timeout: config.AuthTimeout})
	if err != nil {
		return nil, fmt.Errorf("build auth client: %w", err)
	}
	bundle, err := catalog.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	languages, err := views.NewLanguages(bundle)
	if err != nil {
		return nil, err
	}

	store, err := openStore(config.StatePath)
	if err != nil {
		return nil, err
	}
	tokens, err := tokenstore.New(store, auth)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	registry := metrics.NewRegistry()
	shellMetrics := metrics.NewShellMetrics(registry)
	shellApp, err := app.New(tokens, refresh.NewScheduler(config.Clock, config.RefreshInterval), shellMetrics)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if err := shellApp.Start(ctx); err != nil {
		_ = shellApp.Close()
		_ = store.Close()
		return nil, fmt.Errorf("start session: %w", err)
	}
	log.Printf("session restored state=%s", shellApp.State())

	handler, err := httpmux.New(httpmux.Config{
		Shell:          shellApp,
		Auth:           auth,
		Languages:      languages,
		Metrics:        shellMetrics,
		MetricsHandler: metrics.Handler(registry),
	})
	if err != nil {
		_ = shellApp.Close()
		_ = store.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}

	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		app:   shellApp,
		store: store,
	}, nil
}

func openStore(path string) (storage.Store, error) {
	path = strings.TrimSpace(path)
	if path == MemoryStatePath {
		return memory.New(), nil
	}
	store, err := sqlite.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open state store: %w", err)
	}
	return store, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// ListenAndServe runs the HTTP server until the context ends.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("shell server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	serveErr := make(chan error, 1)
	log.Printf("shell listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close stops the refresh timer and releases the token store. It is safe to
// call more than once.
func (s *Server) Close() {
	if s == nil {
		return
	}
	s.closeOnce.Do(func() {
		if s.app != nil {
			if err := s.app.Close(); err != nil {
				log.Printf("close session: %v", err)
			}
		}
		if s.store != nil {
			if err := s.store.Close(); err != nil {
				log.Printf("close state store: %v", err)
			}
		}
	})
}

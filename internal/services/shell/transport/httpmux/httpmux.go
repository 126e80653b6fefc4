// Package httpmux mounts the shell's pages and auth actions on an http.ServeMux.
//
// Every page request goes through the route guard with the current session.
// Login and logout are form posts that drive the app shell and redirect.
package httpmux

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/time/rate"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
	"github.com/louisbranch/intakedesk/internal/platform/requestctx"
	"github.com/louisbranch/intakedesk/internal/services/shell/app"
	"github.com/louisbranch/intakedesk/internal/services/shell/authclient"
	"github.com/louisbranch/intakedesk/internal/services/shell/guard"
	"github.com/louisbranch/intakedesk/internal/services/shell/metrics"
	"github.com/louisbranch/intakedesk/internal/services/shell/platform/httpx"
	"github.com/louisbranch/intakedesk/internal/services/shell/routepath"
	"github.com/louisbranch/intakedesk/internal/services/shell/views"
)

// Shell is the session state machine the transport drives.
type Shell interface {
	SessionContext() app.SessionContext
	Login(ctx context.Context, token string) error
}

// Authenticator exchanges credentials for a token.
type Authenticator interface {
	Login(ctx context.Context, creds authclient.Credentials) (string, error)
}

// Config holds the handler's collaborators.
type Config struct {
	Shell     Shell
	Auth      Authenticator
	Languages *views.Languages
	// Routes defaults to guard.DefaultTable.
	Routes  []guard.Route
	Metrics *metrics.ShellMetrics
	// MetricsHandler is mounted at /metrics when set.
	MetricsHandler http.Handler
	// LoginLimiter throttles login posts. Defaults to DefaultLoginLimiter.
	LoginLimiter *rate.Limiter
}

const (
	loginRate  = rate.Limit(1.0 / 2)
	loginBurst = 5
)

// DefaultLoginLimiter allows a burst of five login posts, then one every two seconds.
func DefaultLoginLimiter() *rate.Limiter {
	return rate.NewLimiter(loginRate, loginBurst)
}

type handler struct {
	shell     Shell
	auth      Authenticator
	languages *views.Languages
	routes    []guard.Route
	metrics   *metrics.ShellMetrics
	limiter   *rate.Limiter
}

// New returns the shell's root handler with middleware applied.
func New(cfg Config) (http.Handler, error) {
	if cfg.Shell == nil {
		return nil, fmt.Errorf("shell is required")
	}
	if cfg.Auth == nil {
		return nil, fmt.Errorf("authenticator is required")
	}
	if cfg.Languages == nil {
		return nil, fmt.Errorf("languages are required")
	}
	routes := cfg.Routes
	if routes == nil {
		routes = guard.DefaultTable()
	}
	if err := guard.Validate(routes); err != nil {
		return nil, fmt.Errorf("route table: %w", err)
	}

	limiter := cfg.LoginLimiter
	if limiter == nil {
		limiter = DefaultLoginLimiter()
	}

	h := &handler{
		shell:     cfg.Shell,
		auth:      cfg.Auth,
		languages: cfg.Languages,
		routes:    routes,
		metrics:   cfg.Metrics,
		limiter:   limiter,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+routepath.Health, h.health)
	if cfg.MetricsHandler != nil {
		mux.Handle("GET "+routepath.Metrics, cfg.MetricsHandler)
	}
	mux.HandleFunc("POST "+routepath.Login, h.login)
	mux.HandleFunc("POST "+routepath.Logout, h.logout)
	mux.HandleFunc("GET /", h.page)

	return httpx.Chain(mux, httpx.RequestID(), httpx.RecoverPanic(), httpx.Trace()), nil
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h *handler) page(w http.ResponseWriter, r *http.Request) {
	sc := h.shell.SessionContext()
	decision := guard.Resolve(h.routes, guard.Request{Path: r.URL.Path, RawQuery: r.URL.RawQuery}, sc.Session)
	h.metrics.Decision(decision.Route.Name, decision.Kind.String())
	if decision.Kind == guard.KindRedirect {
		httpx.WriteRedirect(w, r, decision.Location)
		return
	}

	page := h.languages.Page(r, views.NewSessionContext(sc.Session))
	status := http.StatusOK
	var component templ.Component
	switch decision.View {
	case guard.ViewLogin:
		query := r.URL.Query()
		component = views.Login(page, views.LoginView{
			From:   query.Get(routepath.FromQueryKey),
			Failed: query.Get(routepath.LoginErrorQueryKey) != "",
		})
	case guard.ViewParticipants:
		component = views.Participants(page)
	case guard.ViewParticipant:
		component = views.Participant(page, decision.Params["id"])
	case guard.ViewIntakeForm:
		component = views.IntakeForm(page)
	default:
		status = http.StatusNotFound
		component = views.NoMatch(page, decision.Requested)
	}
	templ.Handler(component, templ.WithStatus(status)).ServeHTTP(w, r)
}

func (h *handler) login(w http.ResponseWriter, r *http.Request) {
	if !h.limiter.Allow() {
		log.Printf("login throttled request_id=%s", requestctx.RequestIDFromContext(r.Context()))
		w.Header().Set("Retry-After", retryAfter(h.limiter))
		http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
		return
	}
	if err := r.ParseForm(); err != nil {
		httpx.WriteError(w, apperrors.Wrap(apperrors.CodeInvalidInput, "parse login form", err))
		return
	}
	from := strings.TrimSpace(r.PostFormValue(routepath.FromQueryKey))
	creds := authclient.Credentials{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
	}

	token, err := h.auth.Login(r.Context(), creds)
	if err != nil {
		log.Printf("login rejected request_id=%s user=%q: %v", requestctx.RequestIDFromContext(r.Context()), creds.Username, err)
		httpx.WriteSeeOther(w, r, routepath.LoginRetry(from))
		return
	}
	if err := h.shell.Login(r.Context(), token); err != nil {
		log.Printf("login token rejected request_id=%s user=%q: %v", requestctx.RequestIDFromContext(r.Context()), creds.Username, err)
		httpx.WriteSeeOther(w, r, routepath.LoginRetry(from))
		return
	}
	httpx.WriteSeeOther(w, r, routepath.SafeReturnPath(from))
}

func (h *handler) logout(w http.ResponseWriter, r *http.Request) {
	if err := h.shell.SessionContext().Logout(r.Context()); err != nil {
		log.Printf("logout request_id=%s: %v", requestctx.RequestIDFromContext(r.Context()), err)
	}
	httpx.WriteSeeOther(w, r, routepath.Login)
}

// maxRetryAfter bounds the hint for limiters that never refill.
const maxRetryAfter = 24 * 60 * 60

func retryAfter(l *rate.Limiter) string {
	limit := float64(l.Limit())
	if limit <= 0 || math.IsNaN(limit) {
		return strconv.Itoa(maxRetryAfter)
	}
	secs := math.Round(1 / limit)
	switch {
	case secs < 1:
		secs = 1
	case secs > maxRetryAfter:
		secs = maxRetryAfter
	}
	return strconv.Itoa(int(secs))
}

// Package app owns the signed-in state of the shell: the decoded session
// and the refresh timer that keeps its token alive.
//
// Every transition runs under one lock, so startup, login, logout and
// teardown are applied one at a time in arrival order.
package app

import (
	"context"
	"fmt"
	"log"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
	platformotel "github.com/louisbranch/intakedesk/internal/platform/otel"
	"github.com/louisbranch/intakedesk/internal/services/shell/metrics"
	"github.com/louisbranch/intakedesk/internal/services/shell/refresh"
	"github.com/louisbranch/intakedesk/internal/services/shell/session"
)

// State is the shell's authentication state.
type State int

const (
	StateLoggedOut State = iota
	StateLoggedIn
)

func (s State) String() string {
	if s == StateLoggedIn {
		return "logged_in"
	}
	return "logged_out"
}

// TokenStore is the token persistence the shell depends on.
type TokenStore interface {
	Token(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	RefreshToken(ctx context.Context) (string, error)
}

// SessionContext is the session snapshot and logout action the transport
// renders pages with, in place of ambient session state.
type SessionContext struct {
	Session *session.Session
	Logout  func(ctx context.Context) error
}

// Shell is the LoggedOut/LoggedIn state machine.
type Shell struct {
	tokens    TokenStore
	scheduler *refresh.Scheduler
	metrics   *metrics.ShellMetrics

	// runCtx parents refresh timers so they outlive the request that
	// started them and end with Close.
	runCtx    context.Context
	cancelRun context.CancelFunc

	mu      sync.Mutex
	session *session.Session
	timer   *refresh.Handle
	closed  bool
}

// New builds a logged-out shell. Call Start to restore a persisted session.
// A nil scheduler uses the real clock and the default interval.
func New(tokens TokenStore, scheduler *refresh.Scheduler, m *metrics.ShellMetrics) (*Shell, error) {
	if tokens == nil {
		return nil, fmt.Errorf("token store is required")
	}
	if scheduler == nil {
		scheduler = refresh.NewScheduler(nil, refresh.DefaultInterval)
	}
	runCtx, cancel := context.WithCancel(context.Background())
	return &Shell{
		tokens:    tokens,
		scheduler: scheduler,
		metrics:   m,
		runCtx:    runCtx,
		cancelRun: cancel,
	}, nil
}

// Start restores the session from the persisted token.
//
// No token leaves the shell logged out. The corrupt sentinel and tokens that
// fail to decode are cleared from storage and also leave it logged out; only
// a storage failure is returned.
func (s *Shell) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("shell is closed")
	}

	token, ok, err := s.tokens.Token(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok {
		s.logoutLocked()
		return nil
	}
	if session.IsCorrupt(token) {
		log.Printf("stored auth token is %q; clearing credentials", session.CorruptSentinel)
		return s.discardLocked(ctx)
	}

	sess, err := session.Decode(token)
	if err != nil {
		log.Printf("stored auth token could not be decoded; clearing credentials: %v", err)
		return s.discardLocked(ctx)
	}
	s.session = sess
	s.restartTimerLocked()
	s.metrics.Transition(metrics.TransitionRestored)
	return nil
}

// Login persists token and signs in with the identity it carries. A token
// that does not decode is rejected and the current state is kept.
func (s *Shell) Login(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	sess, err := session.Decode(token)
	if err != nil {
		s.metrics.Transition(metrics.TransitionRejected)
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return fmt.Errorf("shell is closed")
	}
	// An in-flight refresh of the previous session must finish before the
	// new token is written, or it could overwrite it.
	s.stopTimerLocked()
	if err := s.tokens.SetToken(ctx, token); err != nil {
		if s.session != nil {
			s.restartTimerLocked()
		}
		return fmt.Errorf("login: %w", err)
	}
	s.session = sess
	s.restartTimerLocked()
	s.metrics.Transition(metrics.TransitionLogin)
	return nil
}

// Logout stops the refresh timer, drops the session and clears the persisted
// token. The session is dropped even when clearing storage fails.
func (s *Shell) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logoutLocked()
	s.metrics.Transition(metrics.TransitionLogout)
	if err := s.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	return nil
}

// Close stops the refresh timer. The persisted token is kept so the next
// process start restores the session. Close is idempotent.
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.stopTimerLocked()
	s.cancelRun()
	return nil
}

// Session returns the current session, or nil when logged out.
func (s *Shell) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.session
}

// State returns the current authentication state.
func (s *Shell) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.session != nil {
		return StateLoggedIn
	}
	return StateLoggedOut
}

// SessionContext returns the session snapshot and logout action for views.
func (s *Shell) SessionContext() SessionContext {
	return SessionContext{Session: s.Session(), Logout: s.Logout}
}

// ActiveTimers reports how many refresh timers are running.
func (s *Shell) ActiveTimers() int {
	return s.scheduler.Active()
}

func (s *Shell) discardLocked(ctx context.Context) error {
	s.logoutLocked()
	s.metrics.Transition(metrics.TransitionCorrupt)
	if err := s.tokens.ClearToken(ctx); err != nil {
		return fmt.Errorf("clear corrupt token: %w", err)
	}
	return nil
}

func (s *Shell) logoutLocked() {
	s.stopTimerLocked()
	s.session = nil
}

func (s *Shell) restartTimerLocked() {
	s.stopTimerLocked()
	s.timer = s.scheduler.Start(s.runCtx, s.refreshToken)
	s.metrics.SetActiveTimers(s.scheduler.Active())
}

func (s *Shell) stopTimerLocked() {
	if s.timer == nil {
		return
	}
	s.timer.Stop()
	s.timer = nil
	s.metrics.SetActiveTimers(s.scheduler.Active())
}

// refreshToken runs on the timer goroutine. It must not take s.mu: stopping
// the timer under the lock waits for this function to return.
func (s *Shell) refreshToken(ctx context.Context) {
	ctx, span := platformotel.Tracer().Start(ctx, "shell.refresh_token")
	defer span.End()

	if _, err := s.tokens.RefreshToken(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "refresh token")
		if apperrors.HasCode(err, apperrors.CodeTokenMissing) {
			s.metrics.Refresh(metrics.RefreshSkipped)
			log.Printf("refresh token skipped: %v", err)
			return
		}
		s.metrics.Refresh(metrics.RefreshFailed)
		log.Printf("refresh token failed: %v", err)
		return
	}
	s.metrics.Refresh(metrics.RefreshSucceeded)
}

// Package tokenstore keeps the shell's auth token in durable local storage
// and renews it against the remote authority.
package tokenstore

import (
	"context"
	"fmt"
	"strings"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
	"github.com/louisbranch/intakedesk/internal/services/shell/storage"
)

// Key is the fixed storage key holding the token.
const Key = "authToken"

// Refresher mints a replacement token from the current one.
type Refresher interface {
	Refresh(ctx context.Context, token string) (string, error)
}

// TokenStore is the local/remote token contract used by the shell.
type TokenStore struct {
	store     storage.Store
	refresher Refresher
}

// New builds a token store over local storage and a remote refresher.
func New(store storage.Store, refresher Refresher) (*TokenStore, error) {
	if store == nil {
		return nil, fmt.Errorf("token storage is required")
	}
	if refresher == nil {
		return nil, fmt.Errorf("token refresher is required")
	}
	return &TokenStore{store: store, refresher: refresher}, nil
}

// Token returns the persisted token verbatim; ok is false when none is stored.
// The "undefined" sentinel is returned as-is for the caller to recognise.
func (t *TokenStore) Token(ctx context.Context) (string, bool, error) {
	value, ok, err := t.store.GetValue(ctx, Key)
	if err != nil {
		return "", false, apperrors.Wrap(apperrors.CodeStorageFailure, "read token", err)
	}
	if !ok || value == "" {
		return "", false, nil
	}
	return value, true, nil
}

// SetToken persists token.
func (t *TokenStore) SetToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return apperrors.New(apperrors.CodeInvalidInput, "token is required")
	}
	if err := t.store.PutValue(ctx, Key, token); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailure, "write token", err)
	}
	return nil
}

// ClearToken removes the persisted token. Clearing an empty store is a no-op.
func (t *TokenStore) ClearToken(ctx context.Context) error {
	if err := t.store.DeleteValue(ctx, Key); err != nil {
		return apperrors.Wrap(apperrors.CodeStorageFailure, "clear token", err)
	}
	return nil
}

// RefreshToken exchanges the stored token for a new one and persists it.
// The replacement is dropped when ctx ends while the remote call is running.
func (t *TokenStore) RefreshToken(ctx context.Context) (string, error) {
	current, ok, err := t.Token(ctx)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.New(apperrors.CodeTokenMissing, "no token to refresh")
	}
	next, err := t.refresher.Refresh(ctx, current)
	if err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("refresh token: %w", err)
	}
	if err := t.SetToken(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}

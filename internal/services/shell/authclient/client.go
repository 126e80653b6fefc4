// Package authclient talks to the remote authority that mints auth tokens.
package authclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
)

const (
	loginPath   = "/api/auth/login"
	refreshPath = "/api/auth/refresh"

	// maxResponseBytes bounds token response bodies.
	maxResponseBytes = 64 << 10
)

// Credentials is the login form payload forwarded to the authority.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type tokenResponse struct {
	Token string `json:"token"`
}

// Client calls the authority's login and refresh endpoints.
type Client struct {
	baseURL string
	client  *http.Client
}

// New creates a client rooted at baseURL. A nil httpClient uses http.DefaultClient.
func New(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, fmt.Errorf("auth base url is required")
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, client: httpClient}, nil
}

// Login exchanges credentials for a fresh token.
func (c *Client) Login(ctx context.Context, creds Credentials) (string, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return "", apperrors.New(apperrors.CodeInvalidInput, "username and password are required")
	}
	body, err := json.Marshal(creds)
	if err != nil {
		return "", fmt.Errorf("encode login request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.doToken(req, "login")
}

// Refresh asks the authority to mint a replacement for token.
func (c *Client) Refresh(ctx context.Context, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", apperrors.New(apperrors.CodeTokenMissing, "refresh requires a token")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+refreshPath, nil)
	if err != nil {
		return "", fmt.Errorf("build refresh request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	return c.doToken(req, "refresh")
}

func (c *Client) doToken(req *http.Request, op string) (string, error) {
	req.Header.Set("Accept", "application/json")
	resp, err := c.client.Do(req)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeRemoteUnavailable, op+" request", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return "", apperrors.New(apperrors.CodeRemoteUnauthorized, op+" rejected: "+resp.Status)
	case resp.StatusCode != http.StatusOK:
		return "", apperrors.New(apperrors.CodeRemoteUnavailable, op+" returned "+resp.Status)
	}

	var payload tokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&payload); err != nil {
		return "", apperrors.Wrap(apperrors.CodeRemoteUnavailable, "decode "+op+" response", err)
	}
	token := strings.TrimSpace(payload.Token)
	if token == "" {
		return "", apperrors.New(apperrors.CodeRemoteUnavailable, op+" response has no token")
	}
	return token, nil
}

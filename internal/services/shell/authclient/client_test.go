package authclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
)

func TestNewRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := New(" ", nil); err == nil {
		t.Fatal("expected missing base url error")
	}
}

func TestLoginPostsCredentials(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/auth/login" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds Credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Errorf("decode body: %v", err)
		}
		if creds.Username != "ada" || creds.Password != "pw" {
			t.Errorf("creds = %+v", creds)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-1"})
	}))
	defer srv.Close()

	client, err := New(srv.URL+"/", srv.Client())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	token, err := client.Login(context.Background(), Credentials{Username: " ada ", Password: "pw"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if token != "tok-1" {
		t.Fatalf("token = %q", token)
	}
}

func TestLoginRejectsBlankCredentials(t *testing.T) {
	t.Parallel()

	client, _ := New("http://127.0.0.1:1", nil)
	_, err := client.Login(context.Background(), Credentials{Username: "ada"})
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("err = %v, want invalid input", err)
	}
}

func TestRefreshSendsBearerToken(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/refresh" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer old" {
			t.Errorf("Authorization = %q", got)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "new"})
	}))
	defer srv.Close()

	client, _ := New(srv.URL, srv.Client())
	token, err := client.Refresh(context.Background(), "old")
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if token != "new" {
		t.Fatalf("token = %q", token)
	}
}

func TestRefreshMapsFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    apperrors.Code
	}{
		{
			name:    "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusUnauthorized) },
			want:    apperrors.CodeRemoteUnauthorized,
		},
		{
			name:    "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusInternalServerError) },
			want:    apperrors.CodeRemoteUnavailable,
		},
		{
			name:    "bad json",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte("{")) },
			want:    apperrors.CodeRemoteUnavailable,
		},
		{
			name:    "empty token",
			handler: func(w http.ResponseWriter, _ *http.Request) { _, _ = w.Write([]byte(`{"token":""}`)) },
			want:    apperrors.CodeRemoteUnavailable,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			client, _ := New(srv.URL, srv.Client())
			_, err := client.Refresh(context.Background(), "old")
			if !apperrors.HasCode(err, tc.want) {
				t.Fatalf("err = %v, want code %s", err, tc.want)
			}
		})
	}
}

func TestRefreshRequiresToken(t *testing.T) {
	t.Parallel()

	client, _ := New("http://127.0.0.1:1", nil)
	if _, err := client.Refresh(context.Background(), ""); !apperrors.HasCode(err, apperrors.CodeTokenMissing) {
		t.Fatalf("err = %v, want token missing", err)
	}
}

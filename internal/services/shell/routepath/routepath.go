// Package routepath stores canonical HTTP paths for the shell.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root                     = "/"
	Login                    = "/login"
	Logout                   = "/logout"
	Form                     = "/form"
	Health                   = "/up"
	Metrics                  = "/metrics"
	ParticipantsPrefix       = "/participants/"
	ParticipantDetailPattern = ParticipantsPrefix + "{id}/"

	// FromQueryKey carries the originally requested location through login.
	FromQueryKey = "from"
	// LoginErrorQueryKey marks a login page shown after a failed attempt.
	LoginErrorQueryKey = "error"
)

// Participant returns the participant detail route.
func Participant(id string) string {
	return ParticipantsPrefix + url.PathEscape(strings.TrimSpace(id)) + "/"
}

// LoginFrom returns the login route carrying the requested location.
func LoginFrom(location string) string {
	location = strings.TrimSpace(location)
	if location == "" {
		return Login
	}
	return Login + "?" + url.Values{FromQueryKey: {location}}.Encode()
}

// LoginRetry returns the login route after a failed attempt, keeping the
// requested location.
func LoginRetry(location string) string {
	values := url.Values{LoginErrorQueryKey: {"1"}}
	if location = strings.TrimSpace(location); location != "" {
		values.Set(FromQueryKey, location)
	}
	return Login + "?" + values.Encode()
}

// SafeReturnPath resolves a post-login destination. Only same-origin
// absolute paths are honoured; anything else lands on Root.
func SafeReturnPath(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.Contains(raw, `\`) {
		return Root
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" {
		return Root
	}
	// Browsers read "/\host" as "//host", so backslashes never pass.
	p := parsed.Path
	if !strings.HasPrefix(p, "/") || strings.Contains(p, `\`) {
		return Root
	}
	if len(p) > 1 && (p[1] == '/' || p[1] == '\\') {
		return Root
	}
	if p == Login || strings.HasPrefix(p, Login+"/") {
		return Root
	}
	if parsed.RawQuery != "" {
		return p + "?" + parsed.RawQuery
	}
	return p
}

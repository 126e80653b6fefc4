// Package session decodes auth tokens into the signed-in identity.
//
// Decoding reads the claims only. Signatures are checked by the remote
// authority whenever the token is used or refreshed, never here.
package session

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/louisbranch/intakedesk/internal/platform/errors"
)

// CorruptSentinel is the literal value left behind when a client stored an
// unset token. It is never a real token.
const CorruptSentinel = "undefined"

// User is the identity carried in the token claims.
type User struct {
	Subject   string
	Name      string
	Email     string
	Role      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	Claims    map[string]any
}

// DisplayName returns the best human label for the user.
func (u User) DisplayName() string {
	if name := strings.TrimSpace(u.Name); name != "" {
		return name
	}
	if email := strings.TrimSpace(u.Email); email != "" {
		return email
	}
	return u.Subject
}

// Session is a decoded identity. A nil *Session means logged out.
type Session struct {
	User User
}

// IsCorrupt reports whether token is the corrupt sentinel.
func IsCorrupt(token string) bool {
	return strings.TrimSpace(token) == CorruptSentinel
}

var parser = jwt.NewParser()

// Decode parses token claims into a Session. It has no side effects.
func Decode(token string) (*Session, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperrors.New(apperrors.CodeTokenMissing, "token is empty")
	}
	if IsCorrupt(token) {
		return nil, apperrors.New(apperrors.CodeTokenCorrupt, "token is the corrupt sentinel")
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionDecodeFailed, "decode token", err)
	}

	user := User{
		Name:   stringClaim(claims, "name"),
		Email:  stringClaim(claims, "email"),
		Role:   stringClaim(claims, "role"),
		Claims: map[string]any(claims),
	}
	subject, err := claims.GetSubject()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.CodeSessionDecodeFailed, "decode sub claim", err)
	}
	user.Subject = subject
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		user.IssuedAt = iat.Time.UTC()
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		user.ExpiresAt = exp.Time.UTC()
	}
	return &Session{User: user}, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	value, _ := claims[key].(string)
	return strings.TrimSpace(value)
}

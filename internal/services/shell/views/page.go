package views

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"
	"golang.org/x/text/message"

	"github.com/louisbranch/intakedesk/internal/services/shell/routepath"
	"github.com/louisbranch/intakedesk/internal/services/shell/session"
)

// Localizer resolves catalog keys. *message.Printer satisfies it.
type Localizer interface {
	Sprintf(key message.Reference, a ...any) string
}

// SessionContext is the signed-in identity and logout action a page may use.
// A nil User means signed out.
type SessionContext struct {
	User       *session.User
	LogoutPath string
}

// SignedIn reports whether a user is present.
func (c SessionContext) SignedIn() bool {
	return c.User != nil
}

// NewSessionContext builds the view context for sess, which may be nil.
func NewSessionContext(sess *session.Session) SessionContext {
	if sess == nil {
		return SessionContext{}
	}
	user := sess.User
	return SessionContext{User: &user, LogoutPath: routepath.Logout}
}

// Page is the per-request input shared by every view.
type Page struct {
	Lang    string
	Loc     Localizer
	Session SessionContext
}

func (p Page) t(key string, a ...any) string {
	if p.Loc == nil {
		return key
	}
	return p.Loc.Sprintf(key, a...)
}

func (p Page) lang() string {
	if strings.TrimSpace(p.Lang) == "" {
		return "en-US"
	}
	return p.Lang
}

// markup accumulates escaped HTML for one component.
type markup struct {
	b strings.Builder
}

func (m *markup) raw(s string) *markup {
	m.b.WriteString(s)
	return m
}

func (m *markup) text(s string) *markup {
	m.b.WriteString(templ.EscapeString(s))
	return m
}

func (m *markup) flush(w io.Writer) error {
	_, err := io.WriteString(w, m.b.String())
	return err
}

func component(build func(m *markup)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var m markup
		build(&m)
		return m.flush(w)
	})
}

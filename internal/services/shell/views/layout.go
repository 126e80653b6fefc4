package views

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/louisbranch/intakedesk/internal/services/shell/routepath"
)

// Layout wraps body in the document shell and navigation bar.
func Layout(page Page, title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var head markup
		head.raw(`<!DOCTYPE html><html lang="`).text(page.lang()).raw(`"><head><meta charset="utf-8"><title>`).
			text(title + " | " + page.t("app.title")).raw(`</title></head><body>`)
		if err := head.flush(w); err != nil {
			return err
		}
		if err := NavBar(page).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `<main id="content">`); err != nil {
			return err
		}
		if body != nil {
			if err := body.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// NavBar renders the top navigation. Signed-in users get a logout form.
func NavBar(page Page) templ.Component {
	return component(func(m *markup) {
		m.raw(`<nav id="nav"><a href="`).text(routepath.Root).raw(`">`).text(page.t("app.title")).raw(`</a>`)
		m.raw(`<a href="`).text(routepath.Form).raw(`">`).text(page.t("nav.form")).raw(`</a>`)
		if !page.Session.SignedIn() {
			m.raw(`<a id="nav-login" href="`).text(routepath.Login).raw(`">`).text(page.t("nav.login")).raw(`</a></nav>`)
			return
		}
		m.raw(`<a href="`).text(routepath.Root).raw(`">`).text(page.t("nav.participants")).raw(`</a>`)
		m.raw(`<span id="nav-user">`).text(page.t("nav.signed_in_as", page.Session.User.DisplayName())).raw(`</span>`)
		logout := page.Session.LogoutPath
		if logout == "" {
			logout = routepath.Logout
		}
		m.raw(`<form id="logout" method="post" action="`).text(logout).raw(`"><button type="submit">`).
			text(page.t("nav.logout")).raw(`</button></form></nav>`)
	})
}

package views

import (
	"github.com/a-h/templ"

	"github.com/louisbranch/intakedesk/internal/services/shell/routepath"
)

// LoginView is the sign-in form. From is replayed as a hidden field so a
// successful sign-in returns to the requested location.
type LoginView struct {
	From   string
	Failed bool
}

// Login renders the sign-in page.
func Login(page Page, view LoginView) templ.Component {
	title := page.t("login.title")
	return Layout(page, title, component(func(m *markup) {
		m.raw(`<h1>`).text(title).raw(`</h1>`)
		if view.Failed {
			m.raw(`<p id="login-error" role="alert">`).text(page.t("login.failed")).raw(`</p>`)
		}
		m.raw(`<form id="login" method="post" action="`).text(routepath.Login).raw(`">`)
		m.raw(`<input type="hidden" name="`).text(routepath.FromQueryKey).raw(`" value="`).text(view.From).raw(`">`)
		m.raw(`<label>`).text(page.t("login.username")).raw(`<input type="text" name="username" autocomplete="username" required></label>`)
		m.raw(`<label>`).text(page.t("login.password")).raw(`<input type="password" name="password" autocomplete="current-password" required></label>`)
		m.raw(`<button type="submit">`).text(page.t("login.submit")).raw(`</button></form>`)
	}))
}

// Participants renders the participant list placeholder.
func Participants(page Page) templ.Component {
	title := page.t("participants.title")
	return Layout(page, title, component(func(m *markup) {
		m.raw(`<h1>`).text(title).raw(`</h1><p id="participants-empty">`).text(page.t("participants.empty")).raw(`</p>`)
	}))
}

// Participant renders the detail placeholder for one participant.
func Participant(page Page, id string) templ.Component {
	title := page.t("participant.title", id)
	return Layout(page, title, component(func(m *markup) {
		m.raw(`<h1 data-participant-id="`).text(id).raw(`">`).text(title).raw(`</h1>`)
		m.raw(`<a href="`).text(routepath.Root).raw(`">`).text(page.t("participant.back")).raw(`</a>`)
	}))
}

// IntakeForm renders the intake form placeholder.
func IntakeForm(page Page) templ.Component {
	title := page.t("form.title")
	return Layout(page, title, component(func(m *markup) {
		m.raw(`<h1>`).text(title).raw(`</h1><p id="intake-form">`).text(page.t("form.body")).raw(`</p>`)
	}))
}

// NoMatch renders the not-found page for location.
func NoMatch(page Page, location string) templ.Component {
	title := page.t("no_match.title")
	return Layout(page, title, component(func(m *markup) {
		m.raw(`<h1>`).text(title).raw(`</h1><p id="no-match">`).text(page.t("no_match.body", location)).raw(`</p>`)
		m.raw(`<a href="`).text(routepath.Root).raw(`">`).text(page.t("no_match.home")).raw(`</a>`)
	}))
}

// Package views renders the shell's pages as templ components.
//
// Components never look up session state on their own. Callers pass a Page
// carrying the localizer and the SessionContext for the request.
package views

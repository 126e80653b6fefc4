// Package guard decides, for a requested path and the current session,
// whether a view renders or the request is redirected.
//
// Routes are evaluated in table order and the first match wins, so the
// fallback entry must come last.
package guard

import (
	"fmt"
	"strings"

	"github.com/louisbranch/intakedesk/internal/services/shell/routepath"
	"github.com/louisbranch/intakedesk/internal/services/shell/session"
)

// Access classifies how a matched route treats the session.
type Access int

const (
	// AccessPublic always renders.
	AccessPublic Access = iota
	// AccessProtected renders only with a session; otherwise redirects to login.
	AccessProtected
	// AccessRedirect always redirects to Route.RedirectTo.
	AccessRedirect
	// AccessFallback matches any path and renders the no-match view.
	AccessFallback
)

func (a Access) String() string {
	switch a {
	case AccessPublic:
		return "public"
	case AccessProtected:
		return "protected"
	case AccessRedirect:
		return "redirect"
	case AccessFallback:
		return "fallback"
	default:
		return fmt.Sprintf("access(%d)", int(a))
	}
}

// Match selects exact or prefix path matching.
type Match int

const (
	MatchExact Match = iota
	MatchPrefix
)

// View names a renderable view.
type View string

const (
	ViewLogin        View = "login"
	ViewParticipants View = "participants"
	ViewParticipant  View = "participant"
	ViewIntakeForm   View = "intake_form"
	ViewNoMatch      View = "no_match"
)

// Route is one entry of the ordered route table. Pattern segments written
// as {name} capture a required, non-empty path parameter.
type Route struct {
	Name       string
	Pattern    string
	Match      Match
	Access     Access
	View       View
	RedirectTo string
}

// Kind is the outcome of a guard decision.
type Kind int

const (
	KindRender Kind = iota
	KindRedirect
)

func (k Kind) String() string {
	if k == KindRedirect {
		return "redirect"
	}
	return "render"
}

// Decision is what the shell does with a request.
type Decision struct {
	Kind     Kind
	Route    Route
	View     View
	Params   map[string]string
	Location string
	// Requested is the original path and query, preserved for login bounce-back.
	Requested string
}

// Request is the part of an incoming request the guard looks at.
type Request struct {
	Path     string
	RawQuery string
}

// Location returns the path plus query, as it should be replayed after login.
func (r Request) Location() string {
	path := r.Path
	if path == "" {
		path = routepath.Root
	}
	if r.RawQuery == "" {
		return path
	}
	return path + "?" + r.RawQuery
}

// DefaultTable returns the shell's route table.
func DefaultTable() []Route {
	return []Route{
		{Name: "login", Pattern: routepath.Login, Match: MatchPrefix, Access: AccessPublic, View: ViewLogin},
		{Name: "participants", Pattern: routepath.Root, Match: MatchExact, Access: AccessProtected, View: ViewParticipants},
		{Name: "participant", Pattern: routepath.ParticipantDetailPattern, Match: MatchExact, Access: AccessProtected, View: ViewParticipant},
		// Intake stays reachable without a session until product decides to gate it.
		{Name: "intake_form", Pattern: routepath.Form, Match: MatchExact, Access: AccessPublic, View: ViewIntakeForm},
		// Exact, so unmatched paths reach no_match instead of the login redirect.
		{Name: "root_to_login", Pattern: routepath.Root, Match: MatchExact, Access: AccessRedirect, RedirectTo: routepath.Login},
		{Name: "no_match", Access: AccessFallback, View: ViewNoMatch},
	}
}

// Validate checks table invariants: exactly one fallback, placed last, and
// well-formed entries.
func Validate(table []Route) error {
	if len(table) == 0 {
		return fmt.Errorf("route table is empty")
	}
	fallbacks := 0
	for i, route := range table {
		switch route.Access {
		case AccessFallback:
			fallbacks++
			if i != len(table)-1 {
				return fmt.Errorf("fallback route %q must be last, found at %d", route.Name, i)
			}
			if route.View == "" {
				return fmt.Errorf("fallback route %q has no view", route.Name)
			}
			continue
		case AccessRedirect:
			if strings.TrimSpace(route.RedirectTo) == "" {
				return fmt.Errorf("redirect route %q has no target", route.Name)
			}
		case AccessPublic, AccessProtected:
			if route.View == "" {
				return fmt.Errorf("route %q has no view", route.Name)
			}
		default:
			return fmt.Errorf("route %q has unknown access %s", route.Name, route.Access)
		}
		if !strings.HasPrefix(route.Pattern, "/") {
			return fmt.Errorf("route %q pattern %q must begin with /", route.Name, route.Pattern)
		}
	}
	if fallbacks != 1 {
		return fmt.Errorf("route table needs exactly one fallback, found %d", fallbacks)
	}
	return nil
}

// Resolve walks table in order and returns the decision for req given sess.
// A nil sess means logged out. Tables must pass Validate.
func Resolve(table []Route, req Request, sess *session.Session) Decision {
	requested := req.Location()
	for _, route := range table {
		params, ok := route.matches(req.Path)
		if !ok {
			continue
		}
		switch route.Access {
		case AccessProtected:
			if sess == nil {
				return Decision{
					Kind:      KindRedirect,
					Route:     route,
					Location:  routepath.LoginFrom(requested),
					Requested: requested,
				}
			}
			return Decision{Kind: KindRender, Route: route, View: route.View, Params: params, Requested: requested}
		case AccessRedirect:
			return Decision{Kind: KindRedirect, Route: route, Location: route.RedirectTo, Requested: requested}
		default:
			return Decision{Kind: KindRender, Route: route, View: route.View, Params: params, Requested: requested}
		}
	}
	return Decision{Kind: KindRender, View: ViewNoMatch, Requested: requested}
}

func (r Route) matches(path string) (map[string]string, bool) {
	if r.Access == AccessFallback {
		return nil, true
	}
	want := splitPath(r.Pattern)
	got := splitPath(path)
	if r.Match == MatchExact && len(got) != len(want) {
		return nil, false
	}
	if len(got) < len(want) {
		return nil, false
	}

	var params map[string]string
	for i, segment := range want {
		if name, ok := paramName(segment); ok {
			if got[i] == "" {
				return nil, false
			}
			if params == nil {
				params = make(map[string]string, 1)
			}
			params[name] = got[i]
			continue
		}
		if got[i] != segment {
			return nil, false
		}
	}
	return params, true
}

// splitPath splits a path into segments, ignoring one trailing slash.
// The root path has zero segments.
func splitPath(path string) []string {
	path = strings.TrimSpace(path)
	path = strings.TrimPrefix(path, "/")
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		return nil
	}
	return strings.Split(path, "/")
}

func paramName(segment string) (string, bool) {
	if len(segment) > 2 && strings.HasPrefix(segment, "{") && strings.HasSuffix(segment, "}") {
		return segment[1 : len(segment)-1], true
	}
	return "", false
}

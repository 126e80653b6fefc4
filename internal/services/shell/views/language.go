package views

import (
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/intakedesk/internal/platform/i18n/catalog"
)

// LangParam overrides Accept-Language when present on a request.
const LangParam = "lang"

// Languages picks a localizer for each request from the loaded catalogs.
type Languages struct {
	tags    []language.Tag
	matcher language.Matcher
}

// NewLanguages registers bundle with x/text and builds a matcher over its
// locales.
func NewLanguages(bundle *catalog.Bundle) (*Languages, error) {
	if bundle == nil {
		return nil, fmt.Errorf("catalog bundle is required")
	}
	if err := bundle.Register(); err != nil {
		return nil, fmt.Errorf("register catalog: %w", err)
	}
	tags := bundle.Tags()
	return &Languages{tags: tags, matcher: language.NewMatcher(tags)}, nil
}

// Resolve returns the best supported tag for r.
func (l *Languages) Resolve(r *http.Request) language.Tag {
	if r == nil {
		return l.tags[0]
	}
	var wanted []language.Tag
	if lang := strings.TrimSpace(r.URL.Query().Get(LangParam)); lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			wanted = append(wanted, tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			wanted = append(wanted, tags...)
		}
	}
	if len(wanted) == 0 {
		return l.tags[0]
	}
	_, index, confidence := l.matcher.Match(wanted...)
	if confidence == language.No {
		return l.tags[0]
	}
	return l.tags[index]
}

// Page builds the page input for r.
func (l *Languages) Page(r *http.Request, sc SessionContext) Page {
	tag := l.Resolve(r)
	return Page{Lang: tag.String(), Loc: message.NewPrinter(tag), Session: sc}
}

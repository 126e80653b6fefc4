// Package catalog loads the embedded UI copy and registers it with
// golang.org/x/text/message.
//
// Catalog files live at locales/<locale>/<namespace>.yaml and hold a locale,
// a namespace and a flat messages map.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the source locale every other locale falls back to.
const BaseLocale = "en-US"

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

// Bundle holds messages keyed by locale then message key.
type Bundle struct {
	locales map[string]map[string]string
}

type file struct {
	locale    string
	namespace string
	messages  map[string]string
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads every locales/*/*.yaml file in fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	bundle := &Bundle{locales: map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		parsed, err := parse(data)
		if err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := bundle.add(p, parsed); err != nil {
			return nil, err
		}
	}
	if !bundle.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined", BaseLocale)
	}
	return bundle, nil
}

func (b *Bundle) add(p string, f file) error {
	dirLocale := path.Base(path.Dir(p))
	fileNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))
	if f.locale != dirLocale {
		return fmt.Errorf("catalog %s: locale %q does not match directory %q", p, f.locale, dirLocale)
	}
	if f.namespace != fileNamespace {
		return fmt.Errorf("catalog %s: namespace %q does not match file name %q", p, f.namespace, fileNamespace)
	}

	messages, ok := b.locales[f.locale]
	if !ok {
		messages = map[string]string{}
		b.locales[f.locale] = messages
	}
	for key, value := range f.messages {
		if _, dup := messages[key]; dup {
			return fmt.Errorf("catalog %s: duplicate key %q in locale %s", p, key, f.locale)
		}
		messages[key] = value
	}
	return nil
}

// Register installs every message in the default x/text catalog, under the
// locale tag and its base language.
func (b *Bundle) Register() error {
	for _, locale := range b.Locales() {
		tag, err := language.Parse(locale)
		if err != nil {
			return fmt.Errorf("parse locale %q: %w", locale, err)
		}
		tags := []language.Tag{tag}
		if base, conf := tag.Base(); conf != language.No {
			if baseTag, err := language.Parse(base.String()); err == nil && baseTag.String() != tag.String() {
				tags = append(tags, baseTag)
			}
		}
		for key, value := range b.locales[locale] {
			for _, t := range tags {
				if err := message.SetString(t, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", t, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether locale has any messages.
func (b *Bundle) HasLocale(locale string) bool {
	if b == nil {
		return false
	}
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the loaded locales, sorted.
func (b *Bundle) Locales() []string {
	if b == nil {
		return nil
	}
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Tags returns the loaded locales as language tags with BaseLocale first,
// the order language.NewMatcher expects.
func (b *Bundle) Tags() []language.Tag {
	tags := []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale == BaseLocale {
			continue
		}
		if tag, err := language.Parse(locale); err == nil {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Message returns one message, falling back to BaseLocale.
func (b *Bundle) Message(locale, key string) (string, bool) {
	if b == nil {
		return "", false
	}
	if value, ok := b.locales[strings.TrimSpace(locale)][key]; ok {
		return value, true
	}
	value, ok := b.locales[BaseLocale][key]
	return value, ok
}

// Keys returns the message keys of locale, sorted.
func (b *Bundle) Keys(locale string) []string {
	if b == nil {
		return nil
	}
	messages := b.locales[strings.TrimSpace(locale)]
	out := make([]string, 0, len(messages))
	for key := range messages {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

func parse(data []byte) (file, error) {
	var doc struct {
		Locale    string            `yaml:"locale"`
		Namespace string            `yaml:"namespace"`
		Messages  map[string]string `yaml:"messages"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return file{}, err
	}
	out := file{
		locale:    strings.TrimSpace(doc.Locale),
		namespace: strings.TrimSpace(doc.Namespace),
		messages:  make(map[string]string, len(doc.Messages)),
	}
	for key, value := range doc.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return file{}, fmt.Errorf("blank message key")
		}
		out.messages[key] = value
	}
	switch {
	case out.locale == "":
		return file{}, fmt.Errorf("missing locale")
	case out.namespace == "":
		return file{}, fmt.Errorf("missing namespace")
	case len(out.messages) == 0:
		return file{}, fmt.Errorf("missing messages")
	}
	return out, nil
}

// Package i18n holds the localized texts teamwork sends to reasoning
// providers and prints as progress status.
//
// Texts are text/template sources keyed by message ID. A Catalog maps
// languages to texts; a Localizer renders the texts of the language
// matched for a locale tag, falling back to English per message:
//
//	loc := i18n.Default().Localizer("de-AT")
//	loc.T(i18n.StatusWaiting, map[string]any{"Tools": "fetch"}) // "Warten auf Werkzeuge: fetch"
package i18n

import (
	"sort"

	"github.com/hupe1980/teamwork/internal/util"
	"golang.org/x/text/language"
)

// Fallback is the language every catalog is complete in.
const Fallback = "en"

// Catalog maps languages to message texts. It is immutable once built.
type Catalog struct {
	texts   map[string]map[string]string
	names   []string
	matcher language.Matcher
}

// NewCatalog builds a catalog from texts keyed by language, then message ID.
// Messages missing in a language fall back to the English text.
func NewCatalog(texts map[string]map[string]string) *Catalog {
	c := &Catalog{texts: make(map[string]map[string]string, len(texts)+1)}

	for lang, msgs := range texts {
		cp := make(map[string]string, len(msgs))
		for id, text := range msgs {
			cp[id] = text
		}
		c.texts[lang] = cp
	}

	if _, ok := c.texts[Fallback]; !ok {
		c.texts[Fallback] = map[string]string{}
	}

	c.names = make([]string, 0, len(c.texts))
	for lang := range c.texts {
		if lang != Fallback {
			c.names = append(c.names, lang)
		}
	}
	sort.Strings(c.names)

	// the first tag is the matcher's default
	c.names = append([]string{Fallback}, c.names...)

	tags := make([]language.Tag, len(c.names))
	for i, name := range c.names {
		tags[i] = language.Make(name)
	}

	c.matcher = language.NewMatcher(tags)

	return c
}

// Extend returns a new catalog with texts merged over the receiver's texts
// for lang.
func (c *Catalog) Extend(lang string, texts map[string]string) *Catalog {
	merged := make(map[string]map[string]string, len(c.texts)+1)
	for l, msgs := range c.texts {
		merged[l] = msgs
	}

	next := make(map[string]string, len(merged[lang])+len(texts))
	for id, text := range merged[lang] {
		next[id] = text
	}
	for id, text := range texts {
		next[id] = text
	}
	merged[lang] = next

	return NewCatalog(merged)
}

// Languages returns the catalog languages, English first.
func (c *Catalog) Languages() []string {
	return append([]string(nil), c.names...)
}

// Match returns the catalog language best matching locale (a BCP 47 tag
// such as "pl" or "de-AT"). Empty or unknown locales match English.
func (c *Catalog) Match(locale string) string {
	if locale == "" {
		return Fallback
	}

	_, idx := language.MatchStrings(c.matcher, locale)

	return c.names[idx]
}

// Localizer returns a renderer for the language matched for locale.
func (c *Catalog) Localizer(locale string) Localizer {
	return Localizer{catalog: c, lang: c.Match(locale)}
}

// Localizer renders catalog messages in one language.
type Localizer struct {
	catalog *Catalog
	lang    string
}

// Language returns the matched catalog language.
func (l Localizer) Language() string {
	if l.catalog == nil {
		return Fallback
	}
	return l.lang
}

// Text returns the raw template of id, falling back to English and then to
// id itself.
func (l Localizer) Text(id string) string {
	c := l.catalog
	if c == nil {
		c = Default()
	}

	if text, ok := c.texts[l.lang][id]; ok {
		return text
	}

	if text, ok := c.texts[Fallback][id]; ok {
		return text
	}

	return id
}

// T renders message id with data. A template that fails to render yields
// the English rendering, or the raw text when that fails too.
func (l Localizer) T(id string, data map[string]any) string {
	text := l.Text(id)

	out, err := util.RenderTemplate(text, data)
	if err == nil {
		return out
	}

	if l.lang != Fallback {
		return Localizer{catalog: l.catalog, lang: Fallback}.T(id, data)
	}

	return text
}

var defaultCatalog = NewCatalog(builtinTexts)

// Default returns the built-in catalog (en, pl, de, fr, es).
func Default() *Catalog { return defaultCatalog }

// For is shorthand for Default().Localizer(locale).
func For(locale string) Localizer { return defaultCatalog.Localizer(locale) }

// pattern: Functional Core

package present

import (
	"strings"

	"skillview/internal/catalog"
)

// DetailLength caps the text shown by Detail, in characters.
const DetailLength = 300

// Presenter resolves what to show for catalog entries in one language.
type Presenter struct {
	*Translator
	overrides Overrides
}

// New returns a Presenter for lang backed by the given overrides table.
func New(lang Language, overrides Overrides) *Presenter {
	return &Presenter{
		Translator: NewTranslator(lang),
		overrides:  overrides,
	}
}

// WithLanguage returns a Presenter sharing p's overrides in another language.
func (p *Presenter) WithLanguage(lang Language) *Presenter {
	return New(lang, p.overrides)
}

// Name returns the curated name if one exists, else the derived display name.
func (p *Presenter) Name(e catalog.Entry) string {
	if name := p.overrides[e.ID].NameFor(p.Language()); name != "" {
		return name
	}
	return e.DisplayName
}

// Summary returns the text describing e: the curated description, the
// excerpt from its descriptor, a child count for groups, or a placeholder.
func (p *Presenter) Summary(e catalog.Entry) string {
	if desc := p.overrides[e.ID].DescriptionFor(p.Language()); desc != "" {
		return desc
	}
	if e.Description != "" {
		return e.Description
	}
	if e.IsGroup {
		return p.T(KeyChildCount, e.ChildCount())
	}
	return p.T(KeyNoDescription)
}

// Detail returns Summary with whitespace runs collapsed, cut to DetailLength
// characters.
func (p *Presenter) Detail(e catalog.Entry) string {
	text := strings.Join(strings.Fields(p.Summary(e)), " ")
	runes := []rune(text)
	if len(runes) > DetailLength {
		return string(runes[:DetailLength]) + catalog.Ellipsis
	}
	return text
}

// Icon returns the icon for e.
func (p *Presenter) Icon(e catalog.Entry) string {
	return Icon(e.ID, e.IsGroup)
}

// Localized is an entry as rendered in one language.
type Localized struct {
	catalog.Entry
	Icon     string      `json:"icon"`
	Title    string      `json:"title"`
	Summary  string      `json:"summary"`
	Language Language    `json:"language"`
	Children []Localized `json:"children,omitempty"`
}

// Localize renders e and its children.
func (p *Presenter) Localize(e catalog.Entry) Localized {
	l := Localized{
		Entry:    e,
		Icon:     p.Icon(e),
		Title:    p.Name(e),
		Summary:  p.Summary(e),
		Language: p.Language(),
	}
	for _, c := range e.Children {
		l.Children = append(l.Children, p.Localize(c))
	}
	return l
}

// pattern: Functional Core

// Package present turns catalog entries into what a person reads: localized
// labels, curated names and descriptions, and icons. It never modifies the
// entries it is given.
package present

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Language selects the display language.
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// DefaultLanguage is used when nothing is configured.
const DefaultLanguage = Chinese

// ParseLanguage accepts "zh" or "en" (case-insensitive, surrounding space
// ignored). An empty string yields DefaultLanguage.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return DefaultLanguage, nil
	case "zh":
		return Chinese, nil
	case "en":
		return English, nil
	}
	return "", fmt.Errorf("unknown language %q (want zh or en)", s)
}

// Toggle switches between the two supported languages.
func (l Language) Toggle() Language {
	if l == English {
		return Chinese
	}
	return English
}

// Tag returns the BCP 47 tag for the language.
func (l Language) Tag() language.Tag {
	if l == English {
		return language.English
	}
	return language.Chinese
}

func (l Language) String() string {
	return string(l)
}

// pattern: Functional Core

package catalog

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// newCollator returns a collator for tag. Collators keep internal buffers and
// must not be shared between goroutines, so every scan builds its own.
func newCollator(tag language.Tag) *collate.Collator {
	return collate.New(tag)
}

// sortEntries orders entries by DisplayName using locale collation. Entries
// with equal names keep their input order.
func sortEntries(entries []Entry, col *collate.Collator) {
	slices.SortStableFunc(entries, func(a, b Entry) int {
		return col.CompareString(a.DisplayName, b.DisplayName)
	})
}

// ParseLocale parses a BCP 47 tag for collation. Empty or malformed input
// yields the root locale.
func ParseLocale(s string) language.Tag {
	if s == "" {
		return language.Und
	}
	tag, err := language.Parse(s)
	if err != nil {
		return language.Und
	}
	return tag
}

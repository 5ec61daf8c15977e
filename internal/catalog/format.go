// pattern: Functional Core

package catalog

import (
	"strings"
	"unicode"
)

// FormatName converts a kebab- or snake-case directory name to a title:
// every '-' and '_' becomes a space and the first letter of each word is
// upper-cased. The rest of each word is left as is.
//
//	FormatName("meeting-summary") == "Meeting Summary"
//	FormatName("rag_qa")          == "Rag Qa"
func FormatName(id string) string {
	var sb strings.Builder
	sb.Grow(len(id))

	atBoundary := true
	for _, r := range id {
		if r == '-' || r == '_' {
			r = ' '
		}
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r)
		if atBoundary && isWord {
			r = unicode.ToUpper(r)
		}
		atBoundary = !isWord
		sb.WriteRune(r)
	}
	return sb.String()
}

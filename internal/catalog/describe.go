// pattern: Functional Core

package catalog

import (
	"path/filepath"
	"strings"
)

const (
	// ExcerptLength is the number of raw descriptor characters a description
	// is derived from.
	ExcerptLength = 200

	// Ellipsis marks a description cut at ExcerptLength.
	Ellipsis = "..."
)

// markupReplacer turns heading, emphasis and code markers plus newlines into
// spaces so a preview stays on one line.
var markupReplacer = strings.NewReplacer("#", " ", "*", " ", "`", " ", "\n", " ")

// Describe derives a one-line description from raw descriptor text. The
// excerpt is the first ExcerptLength characters of raw, measured before any
// markup is stripped; Ellipsis is appended when raw is longer than that.
func Describe(raw string) string {
	runes := []rune(raw)
	excerpt := runes
	if len(runes) > ExcerptLength {
		excerpt = runes[:ExcerptLength]
	}

	desc := strings.TrimSpace(markupReplacer.Replace(string(excerpt)))
	if len(runes) > ExcerptLength {
		desc += Ellipsis
	}
	return desc
}

// readDescription reads dir's descriptor and derives its description.
func readDescription(r DirectoryReader, dir string) (string, error) {
	data, err := r.ReadFile(filepath.Join(dir, DescriptorFile))
	if err != nil {
		return "", err
	}
	return Describe(string(data)), nil
}

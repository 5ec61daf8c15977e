// pattern: Functional Core

package tui

import (
	"github.com/sahilm/fuzzy"

	"skillview/internal/catalog"
	"skillview/internal/present"
)

// row is one visible line of the tree.
type row struct {
	entry catalog.Entry
	depth int
	last  bool // last child of its group
	// matches are rune positions in the display name hit by the filter.
	matches []int
}

// flatten lists top-level entries, followed by the children of every
// expanded group.
func flatten(entries []catalog.Entry, expanded map[string]bool) []row {
	rows := make([]row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, row{entry: e})
		if !e.IsGroup || !expanded[e.ID] {
			continue
		}
		for i, child := range e.Children {
			rows = append(rows, row{entry: child, depth: 1, last: i == len(e.Children)-1})
		}
	}
	return rows
}

// searchSource exposes every entry, children included, to fuzzy matching
// as "<localized name> <id>".
type searchSource struct {
	entries []catalog.Entry
	names   []string
}

func newSearchSource(entries []catalog.Entry, p *present.Presenter) searchSource {
	var src searchSource
	for _, e := range entries {
		src.add(e, p)
		for _, child := range e.Children {
			src.add(child, p)
		}
	}
	return src
}

func (s *searchSource) add(e catalog.Entry, p *present.Presenter) {
	s.entries = append(s.entries, e)
	s.names = append(s.names, p.Name(e))
}

func (s searchSource) String(i int) string { return s.names[i] + " " + s.entries[i].ID }
func (s searchSource) Len() int            { return len(s.entries) }

// filterRows returns the entries matching pattern, best match first, as a
// flat list.
func filterRows(entries []catalog.Entry, p *present.Presenter, pattern string) []row {
	src := newSearchSource(entries, p)
	found := fuzzy.FindFrom(pattern, src)
	rows := make([]row, 0, len(found))
	for _, m := range found {
		rows = append(rows, row{
			entry:   src.entries[m.Index],
			matches: nameRunes(src.names[m.Index], m.MatchedIndexes),
		})
	}
	return rows
}

// nameRunes converts fuzzy's byte offsets into rune positions, keeping only
// those that fall inside name.
func nameRunes(name string, offsets []int) []int {
	if len(offsets) == 0 {
		return nil
	}
	runeAt := make(map[int]int, len(name))
	i := 0
	for b := range name {
		runeAt[b] = i
		i++
	}
	var out []int
	for _, off := range offsets {
		if r, ok := runeAt[off]; ok {
			out = append(out, r)
		}
	}
	return out
}

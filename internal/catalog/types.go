// pattern: Functional Core

// Package catalog discovers skill directories under a root and assembles them
// into an ordered, render-ready tree.
//
// A skill is a directory, optionally carrying a SKILL.md descriptor. A
// directory whose immediate subdirectories carry descriptors is a group; its
// qualifying subdirectories become its children. Grouping is one level deep.
package catalog

const (
	// DescriptorFile is the fixed, case-sensitive descriptor filename.
	DescriptorFile = "SKILL.md"

	// AuxiliaryExt is appended to an entry ID to form the marker file name
	// that sits next to top-level skill directories in the root.
	AuxiliaryExt = ".skill"
)

// Entry is one skill or skill group in a scanned catalog.
type Entry struct {
	ID               string  `json:"id"`             // Directory base name, unique among siblings
	DisplayName      string  `json:"name"`           // FormatName(ID)
	Description      string  `json:"description"`    // Excerpt of SKILL.md, possibly empty
	Path             string  `json:"path"`           // Absolute path of the backing directory
	HasAuxiliaryFile bool    `json:"has_skill_file"` // <root>/<ID>.skill exists (top level only)
	IsGroup          bool    `json:"is_folder"`      // Has at least one child
	Children         []Entry `json:"children,omitempty"`
}

// ChildCount returns the number of children of a group entry.
func (e Entry) ChildCount() int {
	return len(e.Children)
}

// Find returns the entry with the given ID, searching top-level entries first
// and then the children of each group.
func Find(entries []Entry, id string) (Entry, bool) {
	for _, e := range entries {
		if e.ID == id {
			return e, true
		}
	}
	for _, e := range entries {
		for _, c := range e.Children {
			if c.ID == id {
				return c, true
			}
		}
	}
	return Entry{}, false
}

// Count returns the number of entries in the tree, counting groups and their
// children.
func Count(entries []Entry) int {
	n := len(entries)
	for _, e := range entries {
		n += len(e.Children)
	}
	return n
}

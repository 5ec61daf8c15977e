// pattern: Imperative Shell

package catalog

import (
	"errors"
	"io/fs"
	"path/filepath"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"skillview/internal/logging"
)

// Scanner builds catalogs of the skill directories under one root.
// A Scanner holds no mutable state; Scan may be called from any goroutine.
type Scanner struct {
	root   string
	reader DirectoryReader
	logger *logging.ScopedLogger
	locale language.Tag
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithReader replaces the filesystem the scanner reads.
func WithReader(r DirectoryReader) Option {
	return func(s *Scanner) { s.reader = r }
}

// WithLogger sets the logger used to report swallowed read failures.
func WithLogger(l *logging.ScopedLogger) Option {
	return func(s *Scanner) { s.logger = l }
}

// WithLocale sets the collation locale used to order entries.
func WithLocale(tag language.Tag) Option {
	return func(s *Scanner) { s.locale = tag }
}

// NewScanner creates a scanner for the given root directory.
func NewScanner(root string, opts ...Option) *Scanner {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	s := &Scanner{
		root:   root,
		reader: OSReader{},
		logger: logging.NopLogger(),
		locale: language.Und,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Root returns the absolute root directory being cataloged.
func (s *Scanner) Root() string {
	return s.root
}

// Scan walks the root and returns its entries ordered by display name.
// Scan never fails: a missing or unreadable root yields an empty catalog,
// and an unreadable subdirectory only affects its own entry.
func (s *Scanner) Scan() []Entry {
	entries := []Entry{}

	names, err := s.reader.ListDirectories(s.root)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Debug("skills directory does not exist", "root", s.root)
		} else {
			s.logger.Warn("failed to read skills directory", "root", s.root, "error", err)
		}
		return entries
	}

	col := newCollator(s.locale)
	for _, name := range names {
		entries = append(entries, s.topLevelEntry(name, col))
	}
	sortEntries(entries, col)

	s.logger.Debug("catalog scanned", "root", s.root, "entries", len(entries))
	return entries
}

// topLevelEntry builds the entry for a directory directly under the root.
func (s *Scanner) topLevelEntry(name string, col *collate.Collator) Entry {
	dir := filepath.Join(s.root, name)
	children := s.childEntries(dir, col)

	e := Entry{
		ID:               name,
		DisplayName:      FormatName(name),
		Description:      s.description(dir),
		Path:             dir,
		HasAuxiliaryFile: s.reader.Exists(filepath.Join(s.root, name+AuxiliaryExt)),
		IsGroup:          len(children) > 0,
	}
	if e.IsGroup {
		e.Children = children
	}
	return e
}

// childEntries returns the subdirectories of dir that directly contain a
// descriptor. Their own subdirectories are never inspected.
func (s *Scanner) childEntries(dir string, col *collate.Collator) []Entry {
	names, err := s.reader.ListDirectories(dir)
	if err != nil {
		s.logger.Warn("failed to read skill directory", "path", dir, "error", err)
		return nil
	}

	var children []Entry
	for _, name := range names {
		childDir := filepath.Join(dir, name)
		if !s.reader.Exists(filepath.Join(childDir, DescriptorFile)) {
			continue // assets, scripts, references
		}
		children = append(children, Entry{
			ID:          name,
			DisplayName: FormatName(name),
			Description: s.description(childDir),
			Path:        childDir,
		})
	}
	sortEntries(children, col)
	return children
}

// description returns dir's description, or "" when it cannot be read.
func (s *Scanner) description(dir string) string {
	desc, err := readDescription(s.reader, dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logger.Warn("failed to read descriptor", "path", dir, "error", err)
		}
		return ""
	}
	return desc
}

// pattern: Imperative Shell

package catalog

import (
	"io/fs"
	"os"
	"path/filepath"
)

// DirectoryReader is the filesystem capability the scanner depends on.
type DirectoryReader interface {
	// ListDirectories returns the base names of the immediate subdirectories
	// of path. Plain files are never returned. A missing path yields an error
	// satisfying errors.Is(err, fs.ErrNotExist).
	ListDirectories(path string) ([]string, error)
	ReadFile(path string) ([]byte, error)
	Exists(path string) bool
}

// OSReader reads the real filesystem.
type OSReader struct{}

// ListDirectories lists subdirectories of path in name order. Symlinks are
// followed so a linked skill directory is cataloged like a real one.
func (OSReader) ListDirectories(path string) ([]string, error) {
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, err
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
			continue
		}
		if entry.Type()&fs.ModeSymlink == 0 {
			continue
		}
		info, err := os.Stat(filepath.Join(path, entry.Name()))
		if err != nil || !info.IsDir() {
			continue // dangling link or link to a file
		}
		names = append(names, entry.Name())
	}
	return names, nil
}

// ReadFile returns the contents of the file at path.
func (OSReader) ReadFile(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// Exists reports whether anything exists at path.
func (OSReader) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

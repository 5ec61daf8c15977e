// pattern: Functional Core

package catalog

import (
	"io/fs"
	"path/filepath"
	"slices"
	"sync"
)

// MemReader is an in-memory DirectoryReader. Use in tests or anywhere a
// catalog has to be built without touching the disk.
type MemReader struct {
	mu    sync.RWMutex
	dirs  map[string]bool
	files map[string][]byte
	fails map[string]error
}

// NewMemReader creates an empty in-memory tree.
func NewMemReader() *MemReader {
	return &MemReader{
		dirs:  make(map[string]bool),
		files: make(map[string][]byte),
		fails: make(map[string]error),
	}
}

// AddDir creates the directory at path and all of its parents.
func (r *MemReader) AddDir(path string) *MemReader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.mkdirAll(filepath.Clean(path))
	return r
}

// AddFile creates a file with the given content, creating parent directories.
func (r *MemReader) AddFile(path, content string) *MemReader {
	r.mu.Lock()
	defer r.mu.Unlock()
	path = filepath.Clean(path)
	r.mkdirAll(filepath.Dir(path))
	r.files[path] = []byte(content)
	return r
}

// Fail makes every ListDirectories and ReadFile call on path return err.
func (r *MemReader) Fail(path string, err error) *MemReader {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fails[filepath.Clean(path)] = err
	return r
}

// ListDirectories implements DirectoryReader.
func (r *MemReader) ListDirectories(path string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path = filepath.Clean(path)
	if err, ok := r.fails[path]; ok {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: err}
	}
	if !r.dirs[path] {
		return nil, &fs.PathError{Op: "readdir", Path: path, Err: fs.ErrNotExist}
	}

	var names []string
	for dir := range r.dirs {
		if dir != path && filepath.Dir(dir) == path {
			names = append(names, filepath.Base(dir))
		}
	}
	slices.Sort(names)
	return names, nil
}

// ReadFile implements DirectoryReader.
func (r *MemReader) ReadFile(path string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path = filepath.Clean(path)
	if err, ok := r.fails[path]; ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: err}
	}
	data, ok := r.files[path]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	return slices.Clone(data), nil
}

// Exists implements DirectoryReader.
func (r *MemReader) Exists(path string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	path = filepath.Clean(path)
	_, isFile := r.files[path]
	return isFile || r.dirs[path]
}

func (r *MemReader) mkdirAll(path string) {
	for {
		r.dirs[path] = true
		parent := filepath.Dir(path)
		if parent == path {
			return
		}
		path = parent
	}
}

// pattern: Imperative Shell

// Package instance enforces a single interactive skillview per data directory
// and lets CLI commands reach the running one over HTTP.
package instance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gofrs/flock"
)

const (
	lockFileName = "skillview.lock"
	portFileName = "skillview.port"
)

// ErrAlreadyRunning is returned by Lock when another process holds the lock.
var ErrAlreadyRunning = errors.New("another skillview instance is already running")

// Lock acquires an exclusive file lock for single-instance enforcement.
// Returns the flock handle (caller must defer Cleanup) or ErrAlreadyRunning
// if another instance already holds the lock.
func Lock(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock: %w", err)
	}
	if !locked {
		return nil, ErrAlreadyRunning
	}
	return fl, nil
}

// WritePort records the web server's listener address for Discover.
func WritePort(dataDir, addr string) error {
	return os.WriteFile(filepath.Join(dataDir, portFileName), []byte(addr), 0o600)
}

// ReadPort returns the address recorded by WritePort.
func ReadPort(dataDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dataDir, portFileName))
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Cleanup removes the port file and releases the file lock.
func Cleanup(dataDir string, fl *flock.Flock) {
	_ = os.Remove(filepath.Join(dataDir, portFileName))
	if fl != nil {
		_ = fl.Unlock()
	}
}

// RemoveStale deletes lock and port files left behind by a crashed process.
// It refuses while a live process holds the lock. The returned paths are
// the files that were removed.
func RemoveStale(dataDir string) ([]string, error) {
	fl, err := Lock(dataDir)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fl.Unlock() }()

	var removed []string
	for _, name := range []string{portFileName, lockFileName} {
		path := filepath.Join(dataDir, name)
		if err := os.Remove(path); err == nil {
			removed = append(removed, path)
		} else if !errors.Is(err, os.ErrNotExist) {
			return removed, fmt.Errorf("failed to remove %s: %w", path, err)
		}
	}
	return removed, nil
}

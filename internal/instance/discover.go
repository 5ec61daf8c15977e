// pattern: Imperative Shell

package instance

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const healthTimeout = 2 * time.Second

// ErrNotRunning is returned by Discover when no process holds the lock.
var ErrNotRunning = errors.New("no running skillview instance found (start skillview or 'skillview serve' first)")

// Discover checks whether a running skillview instance exists and returns
// its base URL (e.g. "http://127.0.0.1:12345"). Returns an error if no
// instance is running, the port file is missing, or the health check fails.
func Discover(dataDir string) (string, error) {
	// If we can take the lock, nobody else holds it.
	fl := flock.New(filepath.Join(dataDir, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return "", fmt.Errorf("failed to check lock: %w", err)
	}
	if locked {
		_ = fl.Unlock()
		return "", ErrNotRunning
	}

	addr, err := ReadPort(dataDir)
	if err != nil {
		return "", fmt.Errorf("skillview instance detected but port file missing (try 'skillview cleanup'): %w", err)
	}
	if addr == "" {
		return "", fmt.Errorf("skillview port file is empty (try 'skillview cleanup')")
	}

	baseURL := "http://" + addr

	client := &http.Client{Timeout: healthTimeout}
	resp, err := client.Get(baseURL + "/api/health")
	if err != nil {
		return "", fmt.Errorf("skillview instance not responding (try 'skillview cleanup'): %w", err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("skillview health check failed (status %d)", resp.StatusCode)
	}

	return baseURL, nil
}

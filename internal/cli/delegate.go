// pattern: Imperative Shell
package cli

import (
	"errors"
	"time"

	"skillview/internal/instance"
)

// ExitError carries a specific exit status out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }
func (e *ExitError) Unwrap() error { return e.Err }

// Delegate discovers a running skillview instance and hands a CLI command
// an HTTP client targeting it.
type Delegate struct {
	// DataDir holds the lock and port files.
	DataDir string

	// Discover finds the running instance. Defaults to instance.Discover.
	Discover func(dataDir string) (string, error)

	// ClientTimeout is the HTTP client timeout. Defaults to 10 seconds.
	ClientTimeout time.Duration
}

// Run invokes fn with a client for the running instance.
//
// Exit codes:
// - 2: no running skillview instance found
// - 1: any other error (connection, client method failed, etc.)
// - 0: success (fn returned nil)
func (d *Delegate) Run(fn func(*instance.Client) error) error {
	discover := d.Discover
	if discover == nil {
		discover = instance.Discover
	}
	timeout := d.ClientTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	baseURL, err := discover(d.DataDir)
	if err != nil {
		if errors.Is(err, instance.ErrNotRunning) {
			return &ExitError{Code: 2, Err: err}
		}
		return err
	}

	return fn(instance.NewClientWithTimeout(baseURL, timeout))
}

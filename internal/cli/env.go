// pattern: Imperative Shell
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"skillview/internal/catalog"
	"skillview/internal/config"
	"skillview/internal/logging"
	"skillview/internal/present"
	"skillview/internal/usage"
)

// LogFileName is the rotated log file inside the data directory.
const LogFileName = "skillview.log"

// Options are the global flags shared by every command.
type Options struct {
	ConfigDir string // --config-dir; empty means config.Dir()
	SkillsDir string // --skills-dir; empty means the configured root
}

// Env is everything a command needs, resolved once per invocation.
type Env struct {
	Config    config.Config
	DataDir   string
	SkillsDir string
	Overrides present.Overrides
	Stdout    io.Writer
	Stderr    io.Writer
}

// ResolveDataDir returns the data directory for lock, port, usage and log
// files. If configDir is specified, uses that; otherwise config.Dir().
func ResolveDataDir(configDir string) string {
	if configDir != "" {
		return configDir
	}
	return config.Dir()
}

// LoadEnv loads configuration and resolves the catalog root. A config file
// that fails to parse is reported on stderr and defaults are used.
func LoadEnv(opts Options) (*Env, error) {
	dataDir := ResolveDataDir(opts.ConfigDir)

	cfg, err := config.LoadFromDir(dataDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to load config: %v\n", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	overrides, err := present.LoadOverrides(cfg.ResolveOverridesFile())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	return &Env{
		Config:    cfg,
		DataDir:   dataDir,
		SkillsDir: cfg.ResolveSkillsDir(opts.SkillsDir),
		Overrides: overrides,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}, nil
}

// Scanner returns a catalog scanner for the resolved root.
func (e *Env) Scanner(logger *logging.ScopedLogger) *catalog.Scanner {
	return catalog.NewScanner(e.SkillsDir,
		catalog.WithLogger(logger),
		catalog.WithLocale(catalog.ParseLocale(e.Config.CollationLocale())),
	)
}

// Presenter returns a presenter for lang, or the configured language when
// lang is empty.
func (e *Env) Presenter(lang string) (*present.Presenter, error) {
	if lang == "" {
		lang = e.Config.Language
	}
	l, err := present.ParseLanguage(lang)
	if err != nil {
		return nil, err
	}
	return present.New(l, e.Overrides), nil
}

// OpenUsage opens the usage counter store in the data directory.
func (e *Env) OpenUsage(logger *logging.ScopedLogger) (*usage.Store, error) {
	return usage.Open(e.DataDir, logger)
}

// NewLogManager creates the rotating log manager. console, if non-nil,
// mirrors log lines in human-readable form.
func (e *Env) NewLogManager(console io.Writer) (*logging.Manager, error) {
	return logging.NewManager(logging.Config{
		FilePath:       filepath.Join(e.DataDir, LogFileName),
		MaxSizeMB:      10,
		MaxBackups:     3,
		MaxAgeDays:     7,
		ChannelBufSize: 1000,
		Level:          e.Config.LogLevel,
		Console:        console,
	})
}

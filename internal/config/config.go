package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const appName = "skillview"

type Config struct {
	Theme         string    `yaml:"theme"`
	Language      string    `yaml:"language"`
	Locale        string    `yaml:"locale"`
	LogLevel      string    `yaml:"log_level"`
	SkillsDir     string    `yaml:"skills_dir"`
	OverridesFile string    `yaml:"overrides_file"`
	Web           WebConfig `yaml:"web"`
}

type WebConfig struct {
	Bind string `yaml:"bind"`
	Port int    `yaml:"port"`
}

// HomeDirFunc is the function signature for looking up the home directory.
type HomeDirFunc func() (string, error)

func DefaultConfig() Config {
	return Config{
		Theme:    "mocha",
		Language: "zh",
		LogLevel: "info",
		Web: WebConfig{
			Bind: "127.0.0.1",
		},
	}
}

func Load() (Config, error) {
	return LoadFrom(filepath.Join(Dir(), "config.yaml"))
}

// LoadFromDir loads config.yaml from the given directory.
func LoadFromDir(dir string) (Config, error) {
	return LoadFrom(filepath.Join(dir, "config.yaml"))
}

func LoadFrom(configPath string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("parse %s: %w", configPath, err)
	}

	defaults := DefaultConfig()
	if cfg.Theme == "" {
		cfg.Theme = defaults.Theme
	}
	if cfg.Language == "" {
		cfg.Language = defaults.Language
	}
	if cfg.Web.Bind == "" {
		cfg.Web.Bind = defaults.Web.Bind
	}

	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	switch c.Language {
	case "zh", "en":
	default:
		return fmt.Errorf("unsupported language %q (want zh or en)", c.Language)
	}
	if c.Web.Port < 0 || c.Web.Port > 65535 {
		return fmt.Errorf("web.port %d out of range", c.Web.Port)
	}
	return nil
}

// CollationLocale returns the locale used to order catalog entries:
// the explicit locale if set, otherwise the display language.
func (c *Config) CollationLocale() string {
	if c.Locale != "" {
		return c.Locale
	}
	return c.Language
}

// ResolveSkillsDir returns the catalog root. An explicit override wins over
// skills_dir, which wins over ~/.claude/skills. A leading ~ is expanded.
func (c *Config) ResolveSkillsDir(override string) string {
	return c.ResolveSkillsDirWith(override, os.UserHomeDir)
}

// ResolveSkillsDirWith is ResolveSkillsDir with an injectable home lookup.
func (c *Config) ResolveSkillsDirWith(override string, homeDir HomeDirFunc) string {
	dir := override
	if dir == "" {
		dir = c.SkillsDir
	}
	if dir == "" {
		home, err := homeDir()
		if err != nil {
			return filepath.Join(".claude", "skills")
		}
		return filepath.Join(home, ".claude", "skills")
	}
	return expandHome(dir, homeDir)
}

// ResolveOverridesFile returns the expanded overrides file path, or "".
func (c *Config) ResolveOverridesFile() string {
	if c.OverridesFile == "" {
		return ""
	}
	return expandHome(c.OverridesFile, os.UserHomeDir)
}

// Dir returns the configuration directory, which also holds the lock, port,
// usage and log files.
func Dir() string {
	if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
		return filepath.Join(xdgConfig, appName)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".config", appName)
	}

	return filepath.Join(home, ".config", appName)
}

func expandHome(path string, homeDir HomeDirFunc) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := homeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}

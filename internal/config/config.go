// internal/config/config.go
//
// This package handles configuration and the .tally directory structure.
// Every project that uses Tally gets a .tally/ folder created in its root.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/tally/internal/i18n"
	"github.com/kingrea/tally/internal/lifecycle"
)

const (
	// TallyDir is the name of the directory we create in each project
	TallyDir = ".tally"

	defaultLocale          = "en-US"
	defaultInvoicesFile    = "invoices.yaml"
	defaultSearchDebounce  = 200
	maxSearchDebounceMilli = 5000
)

const defaultProjectConfigYAML = `# tally project configuration
version: 1

# Display language for action labels and status names (en-US, fr-FR).
locale: en-US

invoices:
  # Relative paths resolve against the project directory.
  path: .tally/invoices.yaml

search:
  debounce_ms: 200

# Extra actions appended after the built-in invoice actions.
# actions:
#   - key: remind
#     label: Send reminder
#     variant: outline
#     icon: generic
#     membership: out
#     statuses: [unset, paid]
`

// InvoicesConfig points at the invoice book.
type InvoicesConfig struct {
	Path string `yaml:"path"`
}

// SearchConfig tunes the table toolbar search.
type SearchConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
}

// ProjectConfig models .tally/config.yaml.
type ProjectConfig struct {
	Version  int                    `yaml:"version"`
	Locale   string                 `yaml:"locale"`
	Invoices InvoicesConfig         `yaml:"invoices"`
	Search   SearchConfig           `yaml:"search"`
	Actions  []lifecycle.Definition `yaml:"actions,omitempty"`
}

// EnvOverrides are read from the process environment and win over the file.
type EnvOverrides struct {
	Locale     string `env:"TALLY_LOCALE"`
	Invoices   string `env:"TALLY_INVOICES"`
	DebounceMS *int   `env:"TALLY_SEARCH_DEBOUNCE_MS"`
}

// Config holds the runtime configuration for Tally.
type Config struct {
	// ProjectDir is the directory where the user ran `tally` from
	ProjectDir string

	// TallyProjectDir is ProjectDir/.tally
	TallyProjectDir string

	Project ProjectConfig
}

// InitTallyDir creates the .tally directory structure in the given project
// directory and writes a default config.yaml when none exists.
//
// Structure created:
// .tally/
// ├── config.yaml
// ├── actions/   <- extra action definitions (*.yaml)
// ├── logs/      <- diagnostics and the activity journal
// └── exports/   <- downloaded invoices
func InitTallyDir(projectDir string) error {
	tallyDir := filepath.Join(projectDir, TallyDir)
	dirs := []string{
		filepath.Join(tallyDir, "actions"),
		filepath.Join(tallyDir, "logs"),
		filepath.Join(tallyDir, "exports"),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return ensureProjectConfig(filepath.Join(tallyDir, "config.yaml"))
}

// NewConfig loads .tally/config.yaml (if present) and applies environment
// overrides.
func NewConfig(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:      projectDir,
		TallyProjectDir: filepath.Join(projectDir, TallyDir),
		Project:         defaultProjectConfig(),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LogsDir returns the path to the logs directory
func (c *Config) LogsDir() string {
	return filepath.Join(c.TallyProjectDir, "logs")
}

// DiagnosticsLogPath is the session log for projectDir. It is known before
// the project config is read so load failures can be recorded too.
func DiagnosticsLogPath(projectDir string) string {
	return filepath.Join(projectDir, TallyDir, "logs", "tally.log")
}

// ExportsDir returns the directory downloads are written to
func (c *Config) ExportsDir() string {
	return filepath.Join(c.TallyProjectDir, "exports")
}

// ActionsDir returns the directory scanned for extra action files
func (c *Config) ActionsDir() string {
	return filepath.Join(c.TallyProjectDir, "actions")
}

// ActivityLogPath returns the activity journal location
func (c *Config) ActivityLogPath() string {
	return filepath.Join(c.LogsDir(), "activity.log")
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.TallyProjectDir, "config.yaml")
}

// InvoicesPath returns the invoice book location. Relative paths from the
// config file or TALLY_INVOICES are joined onto the project directory.
func (c *Config) InvoicesPath() string {
	return c.Project.Invoices.Path
}

// Locale returns the configured locale string.
func (c *Config) Locale() string {
	return c.Project.Locale
}

// SearchDebounce returns the toolbar search debounce interval.
func (c *Config) SearchDebounce() time.Duration {
	return time.Duration(c.Project.Search.DebounceMS) * time.Millisecond
}

// Registry returns the built-in action registry extended with the actions
// declared in config.yaml, followed by those found in .tally/actions/.
func (c *Config) Registry() (*lifecycle.Registry, error) {
	base := lifecycle.Default()
	if c == nil {
		return base, nil
	}
	sources, err := lifecycle.LoadDefinitionDir(c.ActionsDir())
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if len(c.Project.Actions) == 0 && len(sources) == 0 {
		return base, nil
	}
	extra, err := lifecycle.Descriptors(c.Project.Actions)
	if err != nil {
		return nil, fmt.Errorf("config: actions: %w", err)
	}
	discovered, err := lifecycle.DescriptorsFromSources(sources)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	reg, err := base.Extend(append(extra, discovered...)...)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return reg, nil
}

// SetLocale updates the locale and persists it back to .tally/config.yaml.
func (c *Config) SetLocale(locale string) error {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return fmt.Errorf("config: locale is required")
	}
	if _, ok := i18n.ParseTag(locale); !ok {
		return fmt.Errorf("config: unsupported locale %q", locale)
	}
	c.Project.Locale = locale
	return c.saveProjectConfig()
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			c.Project.normalize(c.ProjectDir, c.TallyProjectDir)
			return nil
		}
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	// Keys absent from the file keep their defaults; debounce_ms: 0 is kept.
	parsed := defaultProjectConfig()
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	parsed.applyDefaults()
	parsed.normalize(c.ProjectDir, c.TallyProjectDir)
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	c.Project = parsed
	return nil
}

func (c *Config) applyEnv() error {
	var overrides EnvOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	if locale := strings.TrimSpace(overrides.Locale); locale != "" {
		c.Project.Locale = locale
	}
	if path := strings.TrimSpace(overrides.Invoices); path != "" {
		c.Project.Invoices.Path = path
	}
	if overrides.DebounceMS != nil {
		c.Project.Search.DebounceMS = *overrides.DebounceMS
	}
	c.Project.normalize(c.ProjectDir, c.TallyProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Locale:  defaultLocale,
		Search:  SearchConfig{DebounceMS: defaultSearchDebounce},
	}
}

func (pc *ProjectConfig) applyDefaults() {
	if pc.Version == 0 {
		pc.Version = 1
	}
}

func (pc *ProjectConfig) normalize(base, tallyDir string) {
	pc.Locale = strings.TrimSpace(pc.Locale)
	if pc.Locale == "" {
		pc.Locale = defaultLocale
	}
	pc.Invoices.Path = resolvePath(base, pc.Invoices.Path)
	if pc.Invoices.Path == "" {
		pc.Invoices.Path = filepath.Join(tallyDir, defaultInvoicesFile)
	}
}

func (pc *ProjectConfig) validate() error {
	if pc.Version < 1 {
		return fmt.Errorf("config version must be >= 1")
	}
	if _, ok := i18n.ParseTag(pc.Locale); !ok {
		return fmt.Errorf("locale %q is not supported", pc.Locale)
	}
	if pc.Search.DebounceMS < 0 || pc.Search.DebounceMS > maxSearchDebounceMilli {
		return fmt.Errorf("search.debounce_ms must be between 0 and %d", maxSearchDebounceMilli)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}

func (c *Config) saveProjectConfig() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.applyDefaults()
	c.Project.normalize(c.ProjectDir, c.TallyProjectDir)
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.TallyProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure tally dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

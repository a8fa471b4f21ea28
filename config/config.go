// Package config loads the codeplay configuration file.
//
// The file is YAML. Every field is optional; missing fields keep the values
// from Default. Durations are Go duration strings ("10s", "500ms").
//
//	default_language: python
//	locale: en
//	languages:
//	  python:
//	    timeout: 5s
//	    max_steps: 1000000
//	  javascript:
//	    enabled: false
//	server:
//	  addr: ":8080"
//	history:
//	  enabled: true
//	  path: codeplay.db
//	log:
//	  level: info
//	  format: text
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig indicates a configuration that failed validation.
var ErrInvalidConfig = errors.New("invalid config")

// Defaults.
const (
	DefaultLanguage     = "python"
	DefaultLocale       = "en"
	DefaultTimeout      = 10 * time.Second
	DefaultMaxCallStack = 1024
	DefaultAddr         = ":8080"
	DefaultHistoryPath  = "codeplay.db"
)

// KnownLanguages are the languages an interpreter backend exists for.
var KnownLanguages = []string{"python", "javascript"}

// Config is the top-level configuration.
type Config struct {
	DefaultLanguage string              `yaml:"default_language"`
	Locale          string              `yaml:"locale"`
	Languages       map[string]Language `yaml:"languages"`
	Server          Server              `yaml:"server"`
	History         History             `yaml:"history"`
	Log             Log                 `yaml:"log"`
}

// Language configures one interpreter.
type Language struct {
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled,omitempty"`

	// Timeout bounds one execution. Negative disables the watchdog.
	Timeout time.Duration `yaml:"timeout"`

	// LoadTimeout bounds interpreter start-up. Zero means no bound.
	LoadTimeout time.Duration `yaml:"load_timeout"`

	// MaxSteps caps Starlark execution steps. Zero means unlimited.
	MaxSteps uint64 `yaml:"max_steps"`

	// MaxCallStack caps JavaScript call depth.
	MaxCallStack int `yaml:"max_call_stack"`

	// Persistent keeps JavaScript globals between runs. It is never read
	// from the file: only an interactive session sets it.
	Persistent bool `yaml:"-"`
}

// IsEnabled reports whether the language is enabled.
func (l Language) IsEnabled() bool {
	return l.Enabled == nil || *l.Enabled
}

// Server configures the HTTP API.
type Server struct {
	Addr            string        `yaml:"addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// History configures the execution history store.
type History struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		DefaultLanguage: DefaultLanguage,
		Locale:          DefaultLocale,
		Languages: map[string]Language{
			"python":     {Timeout: DefaultTimeout},
			"javascript": {Timeout: DefaultTimeout, MaxCallStack: DefaultMaxCallStack},
		},
		Server: Server{
			Addr:            DefaultAddr,
			ShutdownTimeout: 5 * time.Second,
		},
		History: History{Path: DefaultHistoryPath},
		Log:     Log{Level: "info", Format: "text"},
	}
}

// Load reads the file at path over the defaults and validates the result.
// An empty path returns Default.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes YAML over the defaults and validates the result.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyDefaults fills fields that decoding a partial language entry reset.
func (c *Config) applyDefaults() {
	for name, lang := range c.Languages {
		if lang.Timeout == 0 {
			lang.Timeout = DefaultTimeout
		}
		if name == "javascript" && lang.MaxCallStack == 0 {
			lang.MaxCallStack = DefaultMaxCallStack
		}
		c.Languages[name] = lang
	}
	if c.History.Path == "" {
		c.History.Path = DefaultHistoryPath
	}
}

// Validate checks the configuration.
// Returns ErrInvalidConfig describing every problem found.
func (c *Config) Validate() error {
	var problems []string

	for name, lang := range c.Languages {
		if !slices.Contains(KnownLanguages, name) {
			problems = append(problems, fmt.Sprintf("unknown language %q", name))
		}
		if lang.MaxCallStack < 0 {
			problems = append(problems, fmt.Sprintf("languages.%s.max_call_stack must not be negative", name))
		}
		if lang.LoadTimeout < 0 {
			problems = append(problems, fmt.Sprintf("languages.%s.load_timeout must not be negative", name))
		}
	}

	if lang, ok := c.Languages[c.DefaultLanguage]; !ok {
		problems = append(problems, fmt.Sprintf("default_language %q is not configured", c.DefaultLanguage))
	} else if !lang.IsEnabled() {
		problems = append(problems, fmt.Sprintf("default_language %q is disabled", c.DefaultLanguage))
	}

	if c.Locale == "" {
		problems = append(problems, "locale is required")
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		problems = append(problems, fmt.Sprintf("log.level %q is not one of debug, info, warn, error", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("log.format %q is not one of text, json", c.Log.Format))
	}

	if c.Server.Addr == "" {
		problems = append(problems, "server.addr is required")
	}

	if len(problems) > 0 {
		sort.Strings(problems)
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// Enabled returns the enabled language names, sorted.
func (c *Config) Enabled() []string {
	var names []string
	for name, lang := range c.Languages {
		if lang.IsEnabled() {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

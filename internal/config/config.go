package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// StdoutPath makes the CLI write the page to standard output.
const StdoutPath = "-"

// Config holds all configuration for a page render.
type Config struct {
	// Inputs
	ContentPath  string `env:"PAGEGEN_CONTENT" envDefault:"config/content.json"`
	TemplatesDir string `env:"PAGEGEN_TEMPLATES" envDefault:"src"`
	PartialsDir  string `env:"PAGEGEN_PARTIALS"`
	ManifestPath string `env:"PAGEGEN_MANIFEST"`

	// EmbeddedTheme renders the bundled theme instead of TemplatesDir.
	EmbeddedTheme bool `env:"PAGEGEN_EMBEDDED_THEME" envDefault:"false"`

	// Output
	OutputPath string `env:"PAGEGEN_OUTPUT" envDefault:"index.html"`

	// Sanitize runs content strings through the markup policy.
	Sanitize bool `env:"PAGEGEN_SANITIZE" envDefault:"false"`

	// Remote content
	HTTPTimeout time.Duration `env:"PAGEGEN_HTTP_TIMEOUT" envDefault:"30s"`

	// Logging configuration
	LogLevel  string `env:"PAGEGEN_LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"PAGEGEN_LOG_FORMAT" envDefault:"console"`
}

// Load loads configuration from the process environment.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom loads configuration from environ instead of the process
// environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.ContentPath) == "" {
		return fmt.Errorf("PAGEGEN_CONTENT is required")
	}

	if !c.EmbeddedTheme && strings.TrimSpace(c.TemplatesDir) == "" {
		return fmt.Errorf("PAGEGEN_TEMPLATES is required unless PAGEGEN_EMBEDDED_THEME is set")
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		return fmt.Errorf("PAGEGEN_OUTPUT is required")
	}

	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("PAGEGEN_HTTP_TIMEOUT must be positive")
	}

	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("PAGEGEN_LOG_LEVEL must be one of: debug, info, warn, error")
	}

	if c.LogFormat != "console" && c.LogFormat != "json" {
		return fmt.Errorf("PAGEGEN_LOG_FORMAT must be one of: console, json")
	}

	return nil
}

// WritesStdout reports whether the page goes to standard output.
func (c *Config) WritesStdout() bool {
	return c.OutputPath == StdoutPath
}

func isValidLogLevel(level string) bool {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	return validLevels[level]
}

// String returns a string representation of the config
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Content=%s, Templates=%s, Partials=%s, Manifest=%s, Output=%s, "+
			"Sanitize=%v, HTTPTimeout=%s, LogLevel=%s, LogFormat=%s}",
		c.ContentPath,
		c.templatesLabel(),
		orEmbedded(c.PartialsDir),
		orEmbedded(c.ManifestPath),
		c.OutputPath,
		c.Sanitize,
		c.HTTPTimeout,
		c.LogLevel,
		c.LogFormat,
	)
}

func (c *Config) templatesLabel() string {
	if c.EmbeddedTheme {
		return "<embedded>"
	}
	return c.TemplatesDir
}

func orEmbedded(value string) string {
	if value == "" {
		return "<embedded>"
	}
	return value
}

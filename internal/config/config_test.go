package config

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFrom_Defaults(t *testing.T) {
	cfg, err := LoadFrom(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		ContentPath:  "config/content.json",
		TemplatesDir: "src",
		OutputPath:   "index.html",
		HTTPTimeout:  30 * time.Second,
		LogLevel:     "info",
		LogFormat:    "console",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
	if cfg.WritesStdout() {
		t.Fatalf("default output should be a file")
	}
}

func TestLoadFrom_Overrides(t *testing.T) {
	cfg, err := LoadFrom(map[string]string{
		"PAGEGEN_CONTENT":        "site/content.yaml",
		"PAGEGEN_TEMPLATES":      "src",
		"PAGEGEN_PARTIALS":       "src/partials",
		"PAGEGEN_MANIFEST":       "site/manifest.yaml",
		"PAGEGEN_OUTPUT":         "-",
		"PAGEGEN_SANITIZE":       "true",
		"PAGEGEN_EMBEDDED_THEME": "true",
		"PAGEGEN_HTTP_TIMEOUT":   "5s",
		"PAGEGEN_LOG_LEVEL":      "debug",
		"PAGEGEN_LOG_FORMAT":     "json",
	})
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := &Config{
		ContentPath:   "site/content.yaml",
		TemplatesDir:  "src",
		PartialsDir:   "src/partials",
		ManifestPath:  "site/manifest.yaml",
		OutputPath:    "-",
		Sanitize:      true,
		EmbeddedTheme: true,
		HTTPTimeout:   5 * time.Second,
		LogLevel:      "debug",
		LogFormat:     "json",
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("overrides mismatch (-want +got):\n%s", diff)
	}
	if !cfg.WritesStdout() {
		t.Fatalf("expected stdout output")
	}
}

func TestLoadFrom_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"log level":  {"PAGEGEN_LOG_LEVEL": "loud"},
		"log format": {"PAGEGEN_LOG_FORMAT": "xml"},
		"timeout":    {"PAGEGEN_HTTP_TIMEOUT": "0s"},
		"duration":   {"PAGEGEN_HTTP_TIMEOUT": "soon"},
		"sanitize":   {"PAGEGEN_SANITIZE": "maybe"},
	}
	for name, environ := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := LoadFrom(environ); err == nil {
				t.Fatalf("expected error for %v", environ)
			}
		})
	}
}

func TestValidate_RequiredPaths(t *testing.T) {
	cfg, err := LoadFrom(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg.ContentPath = " "
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "PAGEGEN_CONTENT") {
		t.Fatalf("expected content path error, got %v", err)
	}
	cfg.ContentPath = "content.json"
	cfg.TemplatesDir = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "PAGEGEN_TEMPLATES") {
		t.Fatalf("expected templates dir error, got %v", err)
	}
	cfg.EmbeddedTheme = true
	if err := cfg.Validate(); err != nil {
		t.Fatalf("embedded theme should not need a templates dir: %v", err)
	}
	cfg.OutputPath = ""
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "PAGEGEN_OUTPUT") {
		t.Fatalf("expected output path error, got %v", err)
	}
}

func TestString_MarksEmbeddedInputs(t *testing.T) {
	cfg, err := LoadFrom(nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	got := cfg.String()
	cfg.EmbeddedTheme = true
	if !strings.Contains(cfg.String(), "Templates=<embedded>") {
		t.Fatalf("String() should mark the embedded theme: %s", cfg.String())
	}
	for _, fragment := range []string{"Content=config/content.json", "Templates=src", "Manifest=<embedded>", "Output=index.html"} {
		if !strings.Contains(got, fragment) {
			t.Fatalf("String() missing %q: %s", fragment, got)
		}
	}
}

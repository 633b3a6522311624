package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/natefinch/atomic"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	pagegen "github.com/goliatone/go-pagegen"
	"github.com/goliatone/go-pagegen/internal/config"
	"github.com/goliatone/go-pagegen/pkg/orchestrator"
	"github.com/goliatone/go-pagegen/pkg/source"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if err := applyFlags(cfg, flag.CommandLine, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid flags: %v\n", err)
		os.Exit(2)
	}

	logger, err := initLogger(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	logger.Debug("starting pagegen",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
	)
	logger.Debug("configuration loaded", zap.String("config", cfg.String()))

	if err := run(context.Background(), cfg, logger, os.Stdout); err != nil {
		logger.Error("page generation failed", zap.Error(err))
		_ = logger.Sync()
		os.Exit(1)
	}
}

// applyFlags overrides environment configuration with command line flags and
// validates the result.
func applyFlags(cfg *config.Config, fs *flag.FlagSet, args []string) error {
	fs.StringVar(&cfg.ContentPath, "content", cfg.ContentPath, "content document path or URL (JSON or YAML)")
	fs.StringVar(&cfg.TemplatesDir, "templates", cfg.TemplatesDir, "directory holding base.html and sections/")
	fs.BoolVar(&cfg.EmbeddedTheme, "embedded-theme", cfg.EmbeddedTheme, "render the bundled theme instead of -templates")
	fs.StringVar(&cfg.PartialsDir, "partials", cfg.PartialsDir, "directory of list item partials layered over the embedded ones")
	fs.StringVar(&cfg.ManifestPath, "manifest", cfg.ManifestPath, "site manifest path or URL (embedded manifest if empty)")
	fs.StringVar(&cfg.OutputPath, "output", cfg.OutputPath, `output file ("-" for stdout)`)
	fs.BoolVar(&cfg.Sanitize, "sanitize", cfg.Sanitize, "strip unsafe markup from content values")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg.Validate()
}

// run renders the page and writes it once. Nothing is written when any input
// is missing or rendering fails.
func run(ctx context.Context, cfg *config.Config, logger *zap.Logger, stdout io.Writer) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	contentSrc, err := source.Parse(cfg.ContentPath)
	if err != nil {
		return fmt.Errorf("content: %w", err)
	}

	options := []orchestrator.Option{
		orchestrator.WithLoader(pagegen.NewLoader(source.WithHTTPFallback(cfg.HTTPTimeout))),
		orchestrator.WithLogger(logger),
	}
	if !cfg.EmbeddedTheme {
		if err := requireDir(cfg.TemplatesDir); err != nil {
			return fmt.Errorf("templates: %w", err)
		}
		options = append(options, orchestrator.WithTemplatesFS(os.DirFS(cfg.TemplatesDir)))
	}
	if cfg.PartialsDir != "" {
		options = append(options, orchestrator.WithPartialsDir(cfg.PartialsDir))
	}
	if cfg.ManifestPath != "" {
		manifestSrc, err := source.Parse(cfg.ManifestPath)
		if err != nil {
			return fmt.Errorf("manifest: %w", err)
		}
		options = append(options, orchestrator.WithManifestSource(manifestSrc))
	}
	if cfg.Sanitize {
		options = append(options, orchestrator.WithSanitizer(nil))
	}

	logger.Info("generating page", zap.String("content", contentSrc.Location()))
	html, err := pagegen.GenerateHTML(ctx, contentSrc, options...)
	if err != nil {
		return err
	}

	if cfg.WritesStdout() {
		_, err := stdout.Write(html)
		return err
	}
	if err := atomic.WriteFile(cfg.OutputPath, bytes.NewReader(html)); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	logger.Info("page generated",
		zap.String("output", cfg.OutputPath),
		zap.Int("bytes", len(html)),
	)
	return nil
}

func requireDir(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", path)
	}
	return nil
}

// initLogger builds a zap logger writing to w. Output stays off stdout so the
// page can be piped.
func initLogger(level, format string, w io.Writer) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("unknown log level %q", level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	switch format {
	case "json":
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case "console", "":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, fmt.Errorf("unknown log format %q", format)
	}

	core := zapcore.NewCore(encoder, zapcore.AddSync(w), zap.NewAtomicLevelAt(zapLevel))
	return zap.New(core), nil
}

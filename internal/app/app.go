package app

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/vk/stepgrid/internal/config"
	"github.com/vk/stepgrid/internal/ctxlog"
	"github.com/vk/stepgrid/internal/hcl"
	"github.com/vk/stepgrid/internal/publish"
	"github.com/vk/stepgrid/internal/stepfile"
	"github.com/vk/stepgrid/internal/yamlplan"
)

// Publisher delivers rendered results somewhere outside the process.
type Publisher interface {
	Publish(ctx context.Context, payloads []any) error
}

// App encapsulates the application's dependencies and configuration.
type App struct {
	outW      io.Writer
	logger    *slog.Logger
	config    *Config
	fs        afero.Fs
	loader    config.Loader
	publisher Publisher
}

// Option customises an App at construction.
type Option func(*App)

// WithFs makes the loaders read from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithLoader overrides the loader chosen from Config.Format.
func WithLoader(l config.Loader) Option {
	return func(a *App) { a.loader = l }
}

// WithPublisher overrides the socket.io publisher built from
// Config.PublishURL.
func WithPublisher(p Publisher) Option {
	return func(a *App) { a.publisher = p }
}

// NewApp returns a ready-to-run App. The report goes to outW and logs go to
// logW.
func NewApp(outW, logW io.Writer, cfg *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, logW),
		config: cfg,
		fs:     afero.NewOsFs(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.loader == nil {
		a.loader = loaderFor(a.fs, cfg)
	}
	if a.publisher == nil && cfg.PublishURL != "" {
		a.publisher = publish.New(publish.Options{
			URL:                cfg.PublishURL,
			Namespace:          cfg.PublishNamespace,
			InsecureSkipVerify: cfg.PublishInsecure,
		})
	}
	a.logger.Debug("App configured.", "plan", cfg.PlanPath, "format", cfg.Format, "output", cfg.Output)
	return a
}

// Logger returns the app's logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}

// loaderFor picks the plan loader from the configured format, or from the
// plan path's extension when the format is auto. Directories default to HCL.
func loaderFor(fs afero.Fs, cfg *Config) config.Loader {
	format := cfg.Format
	if format == FormatAuto || format == "" {
		format = detectFormat(fs, cfg.PlanPath)
	}
	switch format {
	case FormatHCL:
		return hcl.NewLoader(fs)
	case FormatYAML:
		return yamlplan.NewLoader(fs)
	default:
		return stepfile.NewLoader(fs)
	}
}

func detectFormat(fs afero.Fs, path string) string {
	switch filepath.Ext(path) {
	case ".hcl":
		return FormatHCL
	case ".yaml", ".yml":
		return FormatYAML
	}
	if isDir, err := afero.IsDir(fs, path); err == nil && isDir {
		return FormatHCL
	}
	return FormatText
}

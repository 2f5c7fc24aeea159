package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/loomspec/internal/ctxlog"
	"github.com/vk/loomspec/internal/document"
	"github.com/vk/loomspec/internal/hcladapter"
	"github.com/vk/loomspec/internal/ir"
	"github.com/vk/loomspec/internal/validator"
	"github.com/vk/loomspec/internal/yamladapter"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	errW    io.Writer
	logger  *slog.Logger
	config  *Config
	loaders []document.Loader
}

// New constructs an App with its own isolated logger. Diagnostics and the
// report go to outW; logs go to errW.
func New(outW, errW io.Writer, cfg *Config) *App {
	return &App{
		outW:   outW,
		errW:   errW,
		logger: newLogger(cfg.LogLevel, cfg.LogFormat, errW),
		config: cfg,
		loaders: []document.Loader{
			hcladapter.NewLoader(),
			yamladapter.NewLoader(),
		},
	}
}

// Validate loads every document file reachable from the configured paths,
// runs the semantic pipeline, and renders the report. It returns the result
// so callers can map validity onto an exit code. The returned error covers
// structural and I/O failures only; semantic problems are diagnostics in
// the result.
func (a *App) Validate(ctx context.Context) (*ir.Result, error) {
	ctx = ctxlog.WithLogger(ctx, a.logger)

	doc := &document.Document{}
	for _, loader := range a.loaders {
		part, err := loader.Load(ctx, a.config.Paths...)
		if err != nil {
			return nil, fmt.Errorf("failed to load documents: %w", err)
		}
		doc.Merge(part)
	}
	if empty(doc) {
		return nil, fmt.Errorf("no document files found under %v", a.config.Paths)
	}

	result := validator.Validate(ctx, doc)

	if err := a.renderReport(result); err != nil {
		return nil, err
	}
	return result, nil
}

func empty(doc *document.Document) bool {
	return len(doc.Components()) == 0
}

// Run is the top-level entrypoint used by the CLI: validate and translate
// the outcome into a process-style error.
func (a *App) Run(ctx context.Context) error {
	result, err := a.Validate(ctx)
	if err != nil {
		return err
	}
	if !result.Valid() {
		return ErrInvalidDocument
	}
	return nil
}

// ErrInvalidDocument marks a run that completed but produced error
// diagnostics. The caller must refuse to proceed to execution.
var ErrInvalidDocument = fmt.Errorf("document is invalid")

package ssg

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/imjustablacknerd/docusaurus/logfields"
	"github.com/imjustablacknerd/docusaurus/metrics"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency caps simultaneous renders when nothing else is set.
const DefaultConcurrency = 32

// Generator renders pathnames to static HTML files.
type Generator struct {
	publisher   *Publisher
	concurrency int
	logger      *slog.Logger
	recorder    metrics.Recorder
}

type GeneratorOption func(*Generator)

// WithConcurrency overrides DefaultConcurrency. Values below 1 are ignored.
func WithConcurrency(n int) GeneratorOption {
	return func(g *Generator) {
		if n > 0 {
			g.concurrency = n
		}
	}
}

func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

func WithRecorder(recorder metrics.Recorder) GeneratorOption {
	return func(g *Generator) {
		if recorder != nil {
			g.recorder = recorder
		}
	}
}

func WithMinify(enabled bool) GeneratorOption {
	return func(g *Generator) {
		g.publisher.SetMinify(enabled)
	}
}

// NewGenerator returns a Generator writing through fs.
func NewGenerator(fs afero.Fs, opts ...GeneratorOption) *Generator {
	g := &Generator{
		publisher:   NewPublisher(fs),
		concurrency: DefaultConcurrency,
		logger:      slog.Default(),
		recorder:    metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Concurrency reports the effective render cap.
func (g *Generator) Concurrency() int { return g.concurrency }

// Generate renders every pathname and writes it below params.OutDir.
//
// At most Concurrency renders run at once; the rest wait in submission
// order. A failing page does not stop the others: every dispatched page runs
// to completion and the first failure recorded is returned as a *RenderError.
// Pages written before a failure stay on disk.
func (g *Generator) Generate(
	ctx context.Context,
	renderer Renderer,
	pathnames []string,
	params *Params,
	trailingSlash TrailingSlash,
) error {
	if renderer == nil {
		return errors.New("generate: renderer is required")
	}
	if params == nil {
		return errors.New("generate: params are required")
	}

	start := time.Now()
	g.recorder.SetConcurrency(g.concurrency)
	g.logger.Info("Generating static files",
		logfields.Pages(len(pathnames)),
		logfields.Concurrency(g.concurrency),
		slog.String("trailing_slash", trailingSlash.String()))

	var (
		group  errgroup.Group
		failed = atomic.NewInt64(0)
	)
	group.SetLimit(g.concurrency)

	for _, pathname := range pathnames {
		pathname := pathname
		group.Go(func() error {
			g.recorder.IncInFlight()
			defer g.recorder.DecInFlight()

			if err := g.generateStaticFile(ctx, renderer, pathname, params, trailingSlash); err != nil {
				failed.Inc()
				g.logger.Error("Static page generation failed", logfields.Pathname(pathname), logfields.Error(err))
				return err
			}
			return nil
		})
	}

	err := group.Wait()
	g.recorder.ObserveGenerateDuration(time.Since(start), err == nil)
	if err != nil {
		g.logger.Error("Static generation incomplete",
			slog.Int64("failed", failed.Load()),
			logfields.Pages(len(pathnames)),
			logfields.Since(start))
		return err
	}

	g.logger.Info("Static files generated", logfields.Pages(len(pathnames)), logfields.Since(start))
	return nil
}

func (g *Generator) generateStaticFile(
	ctx context.Context,
	renderer Renderer,
	pathname string,
	params *Params,
	trailingSlash TrailingSlash,
) error {
	start := time.Now()
	err := g.renderAndPublish(ctx, renderer, pathname, params, trailingSlash)

	result := metrics.ResultSuccess
	if err != nil {
		result = metrics.ResultFailed
		err = &RenderError{Pathname: pathname, Err: err}
	}
	g.recorder.ObservePageDuration(time.Since(start), result)
	g.recorder.IncPageResult(result)
	return err
}

func (g *Generator) renderAndPublish(
	ctx context.Context,
	renderer Renderer,
	pathname string,
	params *Params,
	trailingSlash TrailingSlash,
) error {
	html, err := render(ctx, renderer, pathname, params)
	if err != nil {
		return err
	}

	filePath := filepath.Join(params.OutDir, filepath.FromSlash(PathnameToFilename(pathname, trailingSlash)))
	if err := g.publisher.Publish(filePath, html); err != nil {
		return err
	}
	g.logger.Debug("Static page written", logfields.Pathname(pathname), logfields.File(filePath))
	return nil
}

// render keeps a panicking renderer from taking the whole run down.
func render(ctx context.Context, renderer Renderer, pathname string, params *Params) (html string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("renderer panicked: %v", r)
		}
	}()
	return renderer(ctx, pathname, params)
}

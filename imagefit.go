package imagefit

import (
	"context"
	"image"
	"time"

	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/config"
	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/filter"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/hooks"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/resize"
	"github.com/Skryldev/imgfit/source"
	"github.com/Skryldev/imgfit/strategy"
)

// Engine is the shared, reusable configuration every Builder is spawned
// from: registries, resize backends, and observability hooks. Build one
// Engine per process (or per configuration profile) and call its From*
// constructors for each image.
type Engine struct {
	cfg            config.Config
	sourceOpts     source.Options
	filters        *filter.Registry
	encoders       *encoder.Registry
	backends       map[strategy.Kind]resize.Backend
	hooks          []hooks.Hook
	memoryPressure func() bool
	pool           *raster.Pool
}

// EngineOption customizes a newly constructed Engine.
type EngineOption func(*Engine)

// WithFilterRegistry overrides the default filter registry.
func WithFilterRegistry(r *filter.Registry) EngineOption {
	return func(e *Engine) { e.filters = r }
}

// WithSourceOptions overrides the fetch/resolve/rasterize collaborators used
// to materialize URLLike and VectorText tokens.
func WithSourceOptions(opts source.Options) EngineOption {
	return func(e *Engine) { e.sourceOpts = opts }
}

// WithHook registers an observability hook, invoked around every stage.
func WithHook(h hooks.Hook) EngineOption {
	return func(e *Engine) { e.hooks = append(e.hooks, h) }
}

// WithMemoryPressure installs a callback the strategy selector polls before
// every resize; when it reports true the memory-pressure ladder overrides
// the normal byte-count ladder (spec §4.3).
func WithMemoryPressure(fn func() bool) EngineOption {
	return func(e *Engine) { e.memoryPressure = fn }
}

// New constructs an Engine from cfg, pre-populated with the default filter
// registry, encoder registry, and all four resize backends.
func New(cfg config.Config, opts ...EngineOption) *Engine {
	concurrency := cfg.TileConcurrency
	if concurrency <= 0 {
		concurrency = 2
	}
	overlap := cfg.TileOverlap
	if overlap <= 0 {
		overlap = 32
	}

	pool := raster.NewPool()
	e := &Engine{
		cfg:      cfg,
		filters:  filter.DefaultRegistry(),
		encoders: encoder.NewRegistry(),
		backends: map[strategy.Kind]resize.Backend{
			strategy.Direct:  resize.Direct{Pool: pool},
			strategy.Chunked: resize.Chunked{Concurrency: concurrency, Pool: pool},
			strategy.Stepped: resize.Stepped{Pool: pool},
			strategy.Tiled:   resize.Tiled{Overlap: overlap, Concurrency: concurrency, Pool: pool},
		},
		sourceOpts: source.Options{Registry: source.DefaultRegistry(), MaxBytes: cfg.MaxImageBytes},
		pool:       pool,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// From starts a new single-use pipeline over an arbitrary source.Token.
func (e *Engine) From(tok source.Token) *Builder {
	return &Builder{engine: e, token: tok, state: stateFresh}
}

// FromImage wraps an already-decoded image.Image (the Handle token variant).
func (e *Engine) FromImage(img image.Image) *Builder { return e.From(source.Handle{Image: img}) }

// FromBytes wraps raw encoded bytes with an optional MIME hint.
func (e *Engine) FromBytes(data []byte, mime string) *Builder {
	return e.From(source.EncodedBytes{Data: data, MIME: mime})
}

// FromURL wraps a URL-like or path-like reference, resolved lazily at the
// terminal call via the Engine's Fetcher/FileResolver.
func (e *Engine) FromURL(ref string) *Builder { return e.From(source.URLLike{Ref: ref}) }

// FromSVG wraps inline SVG markup, rasterized lazily via the Engine's
// SVGRasterizer.
func (e *Engine) FromSVG(markup string) *Builder { return e.From(source.VectorText{Markup: markup}) }

func (e *Engine) notifyBefore(ctx context.Context, stage string, r *raster.Raster) {
	for _, h := range e.hooks {
		h.BeforeStage(ctx, stage, r)
	}
}

func (e *Engine) notifyAfter(ctx context.Context, stage string, r *raster.Raster, d time.Duration, err error) {
	for _, h := range e.hooks {
		h.AfterStage(ctx, stage, r, d, err)
	}
}

func (e *Engine) pressureActive() bool {
	if e.memoryPressure == nil {
		return false
	}
	return e.memoryPressure()
}

// clearPoolOnCritical drops every pooled canvas when err carries a critical
// code (per errors.IsCritical), since a critical failure during allocation
// or compositing leaves no guarantee the pool's retained buffers are sane.
func (e *Engine) clearPoolOnCritical(err error) {
	if err == nil || e.pool == nil {
		return
	}
	if code, ok := imgerr.CodeOf(err); ok && imgerr.IsCritical(code) {
		e.pool.Clear()
	}
}

func dimsOf(d geometry.Dimensions) strategy.Dimensions { return strategy.Dimensions{W: d.W, H: d.H} }

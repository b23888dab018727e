package imagefit

import (
	"context"
	"fmt"
	"image"
	"time"

	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/config"
	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/filter"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/source"
	"github.com/Skryldev/imgfit/strategy"
)

// state is the pipeline's type-state, enforced at runtime since Go cannot
// cheaply express a linear/consuming builder without heavy generics. A
// runtime guard plus terminal methods that never return *Builder communicate
// single use to callers the way a type system would.
type state int

const (
	stateFresh state = iota
	stateResized
	stateTerminal
)

// resizePlanner defers target-dimension computation until the source's
// intrinsic size is known (needed by Scale/ScaleX/ScaleY, which scale
// relative to the source rather than to a fixed box).
type resizePlanner func(src geometry.Dimensions) geometry.FitSpec

// Builder is the single-use pipeline over one source token. Every method
// that is not a terminal operation returns *Builder for chaining; terminal
// operations (ToRaster, ToEncoded) consume the builder and return a value.
type Builder struct {
	engine *Engine
	token  source.Token
	state  state

	planner    resizePlanner
	filterOps  []filter.Op
	outputHint *encoder.Format

	err         error // first error recorded by a chained call; surfaced at terminal
	rejectedErr error // first non-poisoning rejection (e.g. a second resize call)
}

// fail records err (if none is already recorded) and moves the builder to
// stateTerminal so every subsequent call is rejected uniformly.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	b.state = stateTerminal
	return b
}

// resize is the single internal entry point every shortcut funnels through,
// preserving the "at most one resize" invariant. A second resize call on an
// already-resized builder is rejected WITHOUT mutating state: the first
// planner and stateResized are left intact so a subsequent terminal call
// still renders the first resize's output (spec invariant 2, scenario S7).
// The rejection is recorded non-fluently — via RejectedErr and a terminal
// warning — rather than by poisoning the chain, since poisoning would make
// the rejected call observably destructive, which the invariant forbids.
func (b *Builder) resize(p resizePlanner) *Builder {
	if b.state == stateTerminal {
		return b.fail(imgerr.New(imgerr.CodeMultipleResizeNotAllowed, "imagefit.resize", imgerr.ErrAlreadyTerminal))
	}
	if b.state != stateFresh {
		if b.rejectedErr == nil {
			b.rejectedErr = imgerr.New(imgerr.CodeMultipleResizeNotAllowed, "imagefit.resize", imgerr.ErrAlreadyResized)
		}
		return b
	}
	b.planner = p
	b.state = stateResized
	return b
}

// RejectedErr returns the first non-poisoning rejection recorded by a
// chained call (currently: a second resize call on an already-resized
// builder). It is safe to call at any point in the chain; unlike the error
// from a terminal operation, a non-nil RejectedErr does not mean the
// pipeline failed to execute.
func (b *Builder) RejectedErr() error { return b.rejectedErr }

// Filter records a filter application; legal from Fresh or Resized, any
// number of times, in any order relative to other filters.
func (b *Builder) Filter(name string, params filter.Params) *Builder {
	if b.state == stateTerminal {
		return b.fail(imgerr.New(imgerr.CodeMultipleResizeNotAllowed, "imagefit.Filter", imgerr.ErrAlreadyTerminal))
	}
	b.filterOps = append(b.filterOps, filter.Op{Name: name, Params: params})
	return b
}

// OutputHint records a preferred output format consulted by ToEncoded when
// its own format argument is empty.
func (b *Builder) OutputHint(f encoder.Format) *Builder {
	if b.state == stateTerminal {
		return b.fail(imgerr.New(imgerr.CodeMultipleResizeNotAllowed, "imagefit.OutputHint", imgerr.ErrAlreadyTerminal))
	}
	b.outputHint = &f
	return b
}

// execute drives the full pipeline exactly once: materialize, plan + select
// + run a resize backend if one was recorded, apply the filter chain in
// recorded order, and return the final raster plus metadata.
func (b *Builder) execute(ctx context.Context) (*raster.Raster, Metadata, error) {
	if b.err != nil {
		return nil, Metadata{}, b.err
	}
	if b.state == stateTerminal {
		return nil, Metadata{}, imgerr.New(imgerr.CodeMultipleResizeNotAllowed, "imagefit.execute", imgerr.ErrAlreadyTerminal)
	}
	b.state = stateTerminal

	start := time.Now()
	e := b.engine

	e.notifyBefore(ctx, "materialize", nil)
	t0 := time.Now()
	r, intrinsic, err := source.Materialize(ctx, b.token, e.sourceOpts)
	e.notifyAfter(ctx, "materialize", r, time.Since(t0), err)
	if err != nil {
		return nil, Metadata{}, err
	}

	meta := Metadata{Original: Intrinsic{Width: intrinsic.W, Height: intrinsic.H}}

	if b.planner != nil {
		spec := b.planner(intrinsic)
		e.notifyBefore(ctx, "plan", r)
		t1 := time.Now()
		plan, err := geometry.Plan(intrinsic, spec)
		if err != nil {
			e.notifyAfter(ctx, "plan", r, time.Since(t1), err)
			return nil, Metadata{}, err
		}

		budget := strategy.Budget{MaxSafeDimension: e.cfg.MaxSafeDimension, MemoryBudgetBytes: e.cfg.MemoryBudgetBytes}
		qual := resolveQuality(e.cfg.Quality)
		strat := strategy.Select(dimsOf(intrinsic), dimsOf(plan.Canvas), budget, qual, e.pressureActive())
		backend, ok := e.backends[strat.Kind]
		if !ok {
			e.notifyAfter(ctx, "plan", r, time.Since(t1), nil)
			return nil, Metadata{}, imgerr.New(imgerr.CodeResizeFailed, "imagefit.execute",
				fmt.Errorf("no backend registered for strategy %q", strat.Kind))
		}

		e.notifyAfter(ctx, "plan", r, time.Since(t1), nil)
		e.notifyBefore(ctx, "resize", r)
		t1b := time.Now()
		resized, err := backend.Run(ctx, r.Pix, plan, strat.Quality, nil)
		e.notifyAfter(ctx, "resize", resized, time.Since(t1b), err)
		if err != nil {
			e.clearPoolOnCritical(err)
			return nil, Metadata{}, err
		}
		r = resized
	}

	if len(b.filterOps) > 0 {
		e.notifyBefore(ctx, "filter", r)
		t2 := time.Now()
		filtered, err := e.filters.ApplyChain(ctx, r, b.filterOps)
		e.notifyAfter(ctx, "filter", filtered, time.Since(t2), err)
		if err != nil {
			return nil, Metadata{}, imgerr.Wrap(imgerr.CodeProcessingFailed, "imagefit.execute.filters", err)
		}
		r = filtered
	}

	meta.Width = r.Width()
	meta.Height = r.Height()
	meta.ProcessingTimeMs = durationMs(time.Since(start))
	if b.rejectedErr != nil {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("ignored: %v", b.rejectedErr))
	}
	return r, meta, nil
}

// ToRaster is a terminal operation: it executes the recorded pipeline and
// returns the final decoded raster plus metadata.
func (b *Builder) ToRaster(ctx context.Context) (*raster.Raster, Metadata, error) {
	return b.execute(ctx)
}

// ToEncoded is a terminal operation: it executes the recorded pipeline and
// encodes the result. An empty format falls back to the builder's
// OutputHint, then to PNG; a format with no registered encoder falls back to
// PNG with a warning.
func (b *Builder) ToEncoded(ctx context.Context, format encoder.Format, quality float64) (Result, error) {
	r, meta, err := b.execute(ctx)
	if err != nil {
		return Result{}, err
	}

	if format == "" {
		if b.outputHint != nil {
			format = *b.outputHint
		} else {
			format = encoder.FormatPNG
		}
	}

	enc, ok := b.engine.encoders.EncoderFor(format)
	if !ok {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("unsupported format %q, falling back to png", format))
		format = encoder.FormatPNG
		enc, _ = b.engine.encoders.EncoderFor(format)
	}

	b.engine.notifyBefore(ctx, "encode", r)
	t0 := time.Now()
	data, usedQuality, err := b.encodeAdaptive(ctx, enc, r.Pix, quality)
	b.engine.notifyAfter(ctx, "encode", r, time.Since(t0), err)
	if err != nil {
		return Result{}, err
	}
	if usedQuality != quality {
		meta.Warnings = append(meta.Warnings, fmt.Sprintf("adaptive compression reduced quality to %.2f to fit target size", usedQuality))
	}

	meta.BytesLen = len(data)
	meta.Format = format
	return Result{Data: data, Meta: meta}, nil
}

// encodeAdaptive encodes img once at quality, then — when AdaptiveCompression
// is enabled and a target size is configured — re-encodes at successively
// lower quality (in StepSize decrements, floored at MinQuality) until the
// output fits TargetSizeBytes or the floor is reached. Returns the quality
// the winning encode actually used.
func (b *Builder) encodeAdaptive(ctx context.Context, enc encoder.Encoder, img image.Image, quality float64) ([]byte, float64, error) {
	data, err := enc.Encode(ctx, img, encoder.Options{Quality: quality})
	if err != nil {
		return nil, quality, err
	}

	ac := b.engine.cfg.AdaptiveCompression
	if !ac.Enabled || ac.TargetSizeBytes <= 0 {
		return data, quality, nil
	}

	q100 := int(quality*100 + 0.5)
	if q100 <= 0 || q100 > ac.MaxQuality {
		q100 = ac.MaxQuality
	}
	step := ac.StepSize
	if step <= 0 {
		step = 5
	}

	for int64(len(data)) > ac.TargetSizeBytes && q100 > ac.MinQuality {
		q100 -= step
		if q100 < ac.MinQuality {
			q100 = ac.MinQuality
		}
		q := float64(q100) / 100
		next, err := enc.Encode(ctx, img, encoder.Options{Quality: q})
		if err != nil {
			return data, quality, err
		}
		if len(next) >= len(data) {
			// This format's encoder isn't quality-sensitive (e.g. PNG); further
			// iterations won't help.
			break
		}
		data, quality = next, q
		if q100 <= ac.MinQuality {
			break
		}
	}
	return data, quality, nil
}

func resolveQuality(q config.Quality) strategy.Quality {
	switch q {
	case config.QualityFast:
		return strategy.Fast
	case config.QualityHigh:
		return strategy.High
	default:
		return strategy.Balanced
	}
}

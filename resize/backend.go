// Package resize executes a geometry.Plan against a decoded source image,
// using one of four backends selected by package strategy: a single-shot
// direct draw, a concurrent tile-grid draw, a pyramid-halving downscale, and
// an overlap-tile composite for sources too large to hold in one buffer.
package resize

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/strategy"
)

// ProgressFunc is invoked after each unit of work completes: once per tile
// for Chunked and Tiled, once per pyramid step for Stepped, and once with
// completed == total == 1 for Direct.
type ProgressFunc func(completed, total int)

// Backend executes a geometry.Plan against src, producing a raster of
// exactly plan.Canvas dimensions.
type Backend interface {
	Run(ctx context.Context, src image.Image, plan geometry.Plan, quality strategy.Quality, progress ProgressFunc) (*raster.Raster, error)
}

// interpolatorFor maps a quality tier to a sampling filter. CatmullRom
// stands in for "best available" bicubic-equivalent sampling.
func interpolatorFor(q strategy.Quality) draw.Interpolator {
	switch q {
	case strategy.Fast:
		return draw.NearestNeighbor
	case strategy.High:
		return draw.CatmullRom
	default:
		return draw.BiLinear
	}
}

// paintBackground fills dst with bg, or leaves it fully transparent when bg
// is nil (the zero value of NRGBA is already transparent black).
func paintBackground(dst *image.NRGBA, bg *color.NRGBA) {
	if bg == nil {
		return
	}
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: *bg}, image.Point{}, draw.Src)
}

func checkCanvasDims(w, h int, op string) error {
	if w <= 0 || h <= 0 {
		return imgerr.New(imgerr.CodeInvalidDimensions, op, nil)
	}
	return nil
}

// allocCanvas acquires a w×h scratch/destination raster, preferring pool
// (when non-nil) over a bare allocation so repeated tile/chunk passes reuse
// backing storage instead of churning the allocator. A panic from the
// underlying allocation (pathological dimensions exhausting memory) is
// converted into a CodeCanvasCreationFailed error, which is critical and
// triggers pool.Clear() at the call site per spec §4.8.
func allocCanvas(pool *raster.Pool, w, h int, op string) (r *raster.Raster, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			r = nil
			err = imgerr.New(imgerr.CodeCanvasCreationFailed, op, fmt.Errorf("canvas allocation failed: %v", rec))
		}
	}()
	if pool != nil {
		return pool.Acquire(w, h), nil
	}
	return raster.New(w, h), nil
}

// releaseCanvas returns r to pool when both are non-nil. Safe to call with a
// nil pool (the no-pooling case) or a nil r.
func releaseCanvas(pool *raster.Pool, r *raster.Raster) {
	if pool != nil && r != nil {
		pool.Release(r)
	}
}

package resize

import (
	"context"
	"image"

	"golang.org/x/image/draw"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/strategy"
)

// Direct allocates the canvas, paints the background, and draws the scaled
// source into the plan's draw rect in a single operation. Used whenever the
// destination pixel count fits comfortably in memory.
type Direct struct {
	Pool *raster.Pool
}

func (d Direct) Run(ctx context.Context, src image.Image, plan geometry.Plan, quality strategy.Quality, progress ProgressFunc) (*raster.Raster, error) {
	if err := checkCanvasDims(plan.Canvas.W, plan.Canvas.H, "resize.Direct"); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeTimeoutError, "resize.Direct", err)
	}

	dst, err := allocCanvas(d.Pool, plan.Canvas.W, plan.Canvas.H, "resize.Direct")
	if err != nil {
		return nil, err
	}
	paintBackground(dst.Pix, plan.Background)

	dr := image.Rect(plan.Draw.X, plan.Draw.Y, plan.Draw.X+plan.Draw.W, plan.Draw.Y+plan.Draw.H)
	interp := interpolatorFor(quality)
	interp.Scale(dst.Pix, dr, src, src.Bounds(), draw.Over, nil)

	if progress != nil {
		progress(1, 1)
	}
	return dst, nil
}

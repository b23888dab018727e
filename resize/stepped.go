package resize

import (
	"context"
	"image"
	"math"

	"golang.org/x/image/draw"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/strategy"
)

const maxPyramidSteps = 8

// Stepped downscales via a pyramid of halving steps rather than one large
// jump, which keeps each intermediate sampling kernel small relative to the
// step's scale ratio. Each intermediate canvas is discarded as soon as the
// next is drawn.
type Stepped struct {
	Pool *raster.Pool
}

func (s Stepped) Run(ctx context.Context, src image.Image, plan geometry.Plan, quality strategy.Quality, progress ProgressFunc) (*raster.Raster, error) {
	if err := checkCanvasDims(plan.Canvas.W, plan.Canvas.H, "resize.Stepped"); err != nil {
		return nil, err
	}

	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	targetW, targetH := plan.Draw.W, plan.Draw.H

	sx := float64(targetW) / float64(srcW)
	sy := float64(targetH) / float64(srcH)
	s := math.Min(sx, sy)
	if s <= 0 {
		s = 1
	}

	n := 1
	if s < 1 {
		n = clampInt(int(math.Ceil(math.Log2(1/s))), 1, maxPyramidSteps)
	}

	interp := interpolatorFor(strategy.High)

	var cur image.Image = src
	curW, curH := srcW, srcH
	var prev *raster.Raster // previously acquired intermediate, released once superseded
	for i := 1; i <= n; i++ {
		if err := ctx.Err(); err != nil {
			releaseCanvas(s.Pool, prev)
			return nil, imgerr.Wrap(imgerr.CodeTimeoutError, "resize.Stepped", err)
		}
		var nextW, nextH int
		if i == n {
			nextW, nextH = targetW, targetH
		} else {
			frac := float64(i) / float64(n)
			nextW = int(math.Round(float64(srcW) * math.Pow(sx, frac)))
			nextH = int(math.Round(float64(srcH) * math.Pow(sy, frac)))
			// Never reduce by more than half relative to the prior step, so
			// no single pass aliases the intermediate image too aggressively.
			if nextW < (curW+1)/2 {
				nextW = (curW + 1) / 2
			}
			if nextH < (curH+1)/2 {
				nextH = (curH + 1) / 2
			}
			if nextW < 1 {
				nextW = 1
			}
			if nextH < 1 {
				nextH = 1
			}
		}

		nextR, err := allocCanvas(s.Pool, nextW, nextH, "resize.Stepped")
		if err != nil {
			releaseCanvas(s.Pool, prev)
			return nil, err
		}
		next := nextR.Pix
		interp.Scale(next, next.Bounds(), cur, cur.Bounds(), draw.Src, nil)

		releaseCanvas(s.Pool, prev)
		prev = nextR
		cur = next
		curW, curH = nextW, nextH

		if progress != nil {
			progress(i, n)
		}
	}

	dstR, err := allocCanvas(s.Pool, plan.Canvas.W, plan.Canvas.H, "resize.Stepped")
	if err != nil {
		releaseCanvas(s.Pool, prev)
		return nil, err
	}
	dst := dstR.Pix
	paintBackground(dst, plan.Background)
	dr := image.Rect(plan.Draw.X, plan.Draw.Y, plan.Draw.X+plan.Draw.W, plan.Draw.Y+plan.Draw.H)
	draw.Draw(dst, dr, cur, cur.Bounds().Min, draw.Over)
	releaseCanvas(s.Pool, prev)

	return dstR, nil
}

package resize

import (
	"context"
	"image"
	"math"
	"sync"

	"golang.org/x/image/draw"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/raster"
	"github.com/Skryldev/imgfit/strategy"
)

const (
	defaultTileOverlap     = 32
	defaultMaxMemPerTile   = 64 * 1024 * 1024
)

// tiledTileSide returns clamp(sqrt(maxMemoryPerTile/bytesPerPixel), 256, 2048).
func tiledTileSide(maxMemPerTile int64) int {
	if maxMemPerTile <= 0 {
		maxMemPerTile = defaultMaxMemPerTile
	}
	side := int(math.Sqrt(float64(maxMemPerTile) / 4))
	return clampInt(side, 256, 2048)
}

// Tiled partitions the *source* into overlapping tiles, renders each with
// High-quality sampling using extra context from the overlap margin, and
// composites only each tile's non-overlapping core into the destination
// canvas. Used when the source itself is too large to decode into one
// scratch buffer safely.
type Tiled struct {
	TileSize    int
	Overlap     int
	Concurrency int
	Pool        *raster.Pool
}

func (t Tiled) Run(ctx context.Context, src image.Image, plan geometry.Plan, quality strategy.Quality, progress ProgressFunc) (*raster.Raster, error) {
	if err := checkCanvasDims(plan.Canvas.W, plan.Canvas.H, "resize.Tiled"); err != nil {
		return nil, err
	}

	dstR, err := allocCanvas(t.Pool, plan.Canvas.W, plan.Canvas.H, "resize.Tiled")
	if err != nil {
		return nil, err
	}
	dst := dstR.Pix
	paintBackground(dst, plan.Background)

	drawRect := image.Rect(plan.Draw.X, plan.Draw.Y, plan.Draw.X+plan.Draw.W, plan.Draw.Y+plan.Draw.H)
	if drawRect.Empty() {
		return dstR, nil
	}

	srcBounds := src.Bounds()
	srcW, srcH := srcBounds.Dx(), srcBounds.Dy()
	scaleX := float64(plan.Draw.W) / float64(srcW)
	scaleY := float64(plan.Draw.H) / float64(srcH)

	tileSize := t.TileSize
	if tileSize <= 0 {
		tileSize = tiledTileSide(0)
	}
	overlap := t.Overlap
	if overlap <= 0 {
		overlap = defaultTileOverlap
	}
	if overlap >= tileSize {
		overlap = tileSize / 4
	}
	core := tileSize - 2*overlap
	if core <= 0 {
		core = tileSize / 2
	}

	type job struct {
		coreRect image.Rectangle
	}
	var jobs []job
	for y := 0; y < srcH; y += core {
		for x := 0; x < srcW; x += core {
			cr := image.Rect(srcBounds.Min.X+x, srcBounds.Min.Y+y, srcBounds.Min.X+x+core, srcBounds.Min.Y+y+core).Intersect(srcBounds)
			if cr.Empty() {
				continue
			}
			jobs = append(jobs, job{coreRect: cr})
		}
	}

	concurrency := t.Concurrency
	if concurrency <= 0 {
		concurrency = defaultTileConcurrency
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error
	completed := 0
	interp := interpolatorFor(strategy.High)

	for _, j := range jobs {
		j := j
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = imgerr.Wrap(imgerr.CodeTimeoutError, "resize.Tiled", err)
				}
				mu.Unlock()
				return
			}

			expanded := image.Rect(
				j.coreRect.Min.X-overlap, j.coreRect.Min.Y-overlap,
				j.coreRect.Max.X+overlap, j.coreRect.Max.Y+overlap,
			).Intersect(srcBounds)

			dx0 := drawRect.Min.X + int(math.Floor(float64(j.coreRect.Min.X-srcBounds.Min.X)*scaleX))
			dy0 := drawRect.Min.Y + int(math.Floor(float64(j.coreRect.Min.Y-srcBounds.Min.Y)*scaleY))
			dx1 := drawRect.Min.X + int(math.Ceil(float64(j.coreRect.Max.X-srcBounds.Min.X)*scaleX))
			dy1 := drawRect.Min.Y + int(math.Ceil(float64(j.coreRect.Max.Y-srcBounds.Min.Y)*scaleY))
			destCore := image.Rect(dx0, dy0, dx1, dy1).Intersect(drawRect)
			if destCore.Empty() {
				mu.Lock()
				completed++
				if progress != nil {
					progress(completed, len(jobs))
				}
				mu.Unlock()
				return
			}

			edx0 := drawRect.Min.X + int(math.Floor(float64(expanded.Min.X-srcBounds.Min.X)*scaleX))
			edy0 := drawRect.Min.Y + int(math.Floor(float64(expanded.Min.Y-srcBounds.Min.Y)*scaleY))
			edx1 := drawRect.Min.X + int(math.Ceil(float64(expanded.Max.X-srcBounds.Min.X)*scaleX))
			edy1 := drawRect.Min.Y + int(math.Ceil(float64(expanded.Max.Y-srcBounds.Min.Y)*scaleY))
			expandedW, expandedH := edx1-edx0, edy1-edy0
			if expandedW <= 0 || expandedH <= 0 {
				return
			}

			scratchR, err := allocCanvas(t.Pool, expandedW, expandedH, "resize.Tiled")
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = err
				}
				mu.Unlock()
				return
			}
			scratch := scratchR.Pix
			interp.Scale(scratch, scratch.Bounds(), src, expanded, draw.Src, nil)

			offX := destCore.Min.X - edx0
			offY := destCore.Min.Y - edy0
			coreInScratch := image.Rect(offX, offY, offX+destCore.Dx(), offY+destCore.Dy()).Intersect(scratch.Bounds())
			if coreInScratch.Empty() {
				releaseCanvas(t.Pool, scratchR)
				return
			}
			draw.Draw(dst, destCore, scratch.SubImage(coreInScratch), coreInScratch.Min, draw.Over)
			releaseCanvas(t.Pool, scratchR)

			mu.Lock()
			completed++
			if progress != nil {
				progress(completed, len(jobs))
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	if firstErr != nil {
		releaseCanvas(t.Pool, dstR)
		return nil, firstErr
	}
	return dstR, nil
}

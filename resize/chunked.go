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

const defaultTileConcurrency = 2

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chunkedTileSide returns clamp(sqrt(16MiB/bytesPerPixel), 512, 2048).
func chunkedTileSide() int {
	side := int(math.Sqrt(16 * 1024 * 1024 / 4))
	return clampInt(side, 512, 2048)
}

// Chunked partitions the destination canvas into tiles and draws each tile's
// corresponding source sub-rectangle independently, with bounded
// concurrency. Tiles write into non-overlapping SubImage regions of the same
// backing buffer, so no locking is needed between goroutines.
type Chunked struct {
	Concurrency int
	Pool        *raster.Pool
}

func (c Chunked) Run(ctx context.Context, src image.Image, plan geometry.Plan, quality strategy.Quality, progress ProgressFunc) (*raster.Raster, error) {
	if err := checkCanvasDims(plan.Canvas.W, plan.Canvas.H, "resize.Chunked"); err != nil {
		return nil, err
	}

	dstR, err := allocCanvas(c.Pool, plan.Canvas.W, plan.Canvas.H, "resize.Chunked")
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
	scaleX := float64(srcBounds.Dx()) / float64(plan.Draw.W)
	scaleY := float64(srcBounds.Dy()) / float64(plan.Draw.H)

	tileSide := chunkedTileSide()
	var tiles []image.Rectangle
	for y := dst.Bounds().Min.Y; y < dst.Bounds().Max.Y; y += tileSide {
		for x := dst.Bounds().Min.X; x < dst.Bounds().Max.X; x += tileSide {
			tile := image.Rect(x, y, x+tileSide, y+tileSide).Intersect(dst.Bounds())
			visible := tile.Intersect(drawRect)
			if visible.Empty() {
				continue
			}
			tiles = append(tiles, visible)
		}
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = defaultTileConcurrency
	}
	sem := make(chan struct{}, concurrency)
	var wg sync.WaitGroup
	var firstErr error
	var errMu sync.Mutex
	interp := interpolatorFor(quality)
	completed := 0
	var progMu sync.Mutex

	for _, tile := range tiles {
		tile := tile
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()

			if err := ctx.Err(); err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = imgerr.Wrap(imgerr.CodeTimeoutError, "resize.Chunked", err)
				}
				errMu.Unlock()
				return
			}

			lx0 := float64(tile.Min.X - drawRect.Min.X)
			ly0 := float64(tile.Min.Y - drawRect.Min.Y)
			lx1 := float64(tile.Max.X - drawRect.Min.X)
			ly1 := float64(tile.Max.Y - drawRect.Min.Y)

			sr := image.Rect(
				srcBounds.Min.X+int(math.Floor(lx0*scaleX)),
				srcBounds.Min.Y+int(math.Floor(ly0*scaleY)),
				srcBounds.Min.X+int(math.Ceil(lx1*scaleX)),
				srcBounds.Min.Y+int(math.Ceil(ly1*scaleY)),
			).Intersect(srcBounds)
			if sr.Empty() {
				sr = srcBounds
			}

			sub := dst.SubImage(tile).(*image.NRGBA)
			interp.Scale(sub, tile, src, sr, draw.Over, nil)

			if progress != nil {
				progMu.Lock()
				completed++
				progress(completed, len(tiles))
				progMu.Unlock()
			}
		}()
	}
	wg.Wait()

	if firstErr != nil {
		releaseCanvas(c.Pool, dstR)
		return nil, firstErr
	}
	return dstR, nil
}

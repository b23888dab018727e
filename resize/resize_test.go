package resize

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/strategy"
)

func solidSource(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestDirectProducesExactCanvasSize(t *testing.T) {
	src := solidSource(100, 100, color.NRGBA{255, 0, 0, 255})
	plan, err := geometry.Plan(geometry.Dimensions{100, 100}, geometry.FitSpec{Config: geometry.Cover{50, 80}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := (Direct{}).Run(context.Background(), src, plan, strategy.Balanced, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 50 || r.Height() != 80 {
		t.Fatalf("got %dx%d, want 50x80", r.Width(), r.Height())
	}
}

func TestChunkedMatchesCanvasSize(t *testing.T) {
	src := solidSource(4000, 3000, color.NRGBA{0, 255, 0, 255})
	plan, err := geometry.Plan(geometry.Dimensions{4000, 3000}, geometry.FitSpec{Config: geometry.Fill{1200, 900}})
	if err != nil {
		t.Fatal(err)
	}
	var progressCalls int
	r, err := (Chunked{}).Run(context.Background(), src, plan, strategy.Balanced, func(completed, total int) {
		progressCalls++
	})
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 1200 || r.Height() != 900 {
		t.Fatalf("got %dx%d, want 1200x900", r.Width(), r.Height())
	}
	if progressCalls == 0 {
		t.Fatal("expected at least one progress callback")
	}
}

func TestSteppedMatchesCanvasSize(t *testing.T) {
	src := solidSource(4000, 4000, color.NRGBA{0, 0, 255, 255})
	plan, err := geometry.Plan(geometry.Dimensions{4000, 4000}, geometry.FitSpec{Config: geometry.Fill{100, 100}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := (Stepped{}).Run(context.Background(), src, plan, strategy.High, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 100 || r.Height() != 100 {
		t.Fatalf("got %dx%d, want 100x100", r.Width(), r.Height())
	}
}

func TestTiledMatchesCanvasSize(t *testing.T) {
	src := solidSource(2000, 1500, color.NRGBA{255, 255, 0, 255})
	plan, err := geometry.Plan(geometry.Dimensions{2000, 1500}, geometry.FitSpec{Config: geometry.Fill{500, 375}})
	if err != nil {
		t.Fatal(err)
	}
	r, err := (Tiled{TileSize: 256, Overlap: 16}).Run(context.Background(), src, plan, strategy.High, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r.Width() != 500 || r.Height() != 375 {
		t.Fatalf("got %dx%d, want 500x375", r.Width(), r.Height())
	}
}

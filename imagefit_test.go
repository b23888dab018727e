package imagefit_test

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"testing"

	imagefit "github.com/Skryldev/imgfit"
	"github.com/Skryldev/imgfit/adapters/encoder"
	"github.com/Skryldev/imgfit/config"
	"github.com/Skryldev/imgfit/filter"
)

func newSolidPNG(t *testing.T, w, h int, c color.NRGBA) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

func newEngine(t *testing.T) *imagefit.Engine {
	t.Helper()
	return imagefit.New(config.Default())
}

func TestExactSizeStretches(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 300, 100, color.NRGBA{R: 200, G: 50, B: 50, A: 255})

	r, meta, err := e.FromBytes(raw, "image/png").ExactSize(100, 100).ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if meta.Width != 100 || meta.Height != 100 {
		t.Fatalf("size: got %dx%d, want 100x100", meta.Width, meta.Height)
	}
	if r.Width() != 100 || r.Height() != 100 {
		t.Fatalf("raster size: got %dx%d, want 100x100", r.Width(), r.Height())
	}
	if meta.Original.Width != 300 || meta.Original.Height != 100 {
		t.Fatalf("original size not preserved: got %+v", meta.Original)
	}
}

func TestCoverBoxCrops(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 1000, 500, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	_, meta, err := e.FromBytes(raw, "image/png").CoverBox(400, 400).ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if meta.Width != 400 || meta.Height != 400 {
		t.Fatalf("size: got %dx%d, want 400x400", meta.Width, meta.Height)
	}
}

func TestSecondResizeRejectedWithoutMutatingState(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 100, 100, color.NRGBA{A: 255})

	b := e.FromBytes(raw, "image/png").CoverBox(100, 100)
	b = b.MaxWidth(20)
	if b.RejectedErr() == nil {
		t.Fatal("expected RejectedErr to be set after a second resize call")
	}

	// S7: a subsequent terminal call must still produce the first resize's
	// output — the rejected second resize must not have mutated state.
	_, meta, err := b.ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if meta.Width != 100 || meta.Height != 100 {
		t.Fatalf("size: got %dx%d, want 100x100 (first resize should have won)", meta.Width, meta.Height)
	}
	if len(meta.Warnings) == 0 {
		t.Fatal("expected a warning surfacing the rejected second resize")
	}
}

func TestTerminalIsSingleUse(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 50, 50, color.NRGBA{A: 255})

	b := e.FromBytes(raw, "image/png")
	if _, _, err := b.ToRaster(context.Background()); err != nil {
		t.Fatalf("first ToRaster: %v", err)
	}
	if _, _, err := b.ToRaster(context.Background()); err == nil {
		t.Fatal("expected error calling a terminal op twice on the same builder")
	}
}

func TestFilterChainAppliesInOrder(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 20, 20, color.NRGBA{R: 100, G: 100, B: 100, A: 255})

	_, meta, err := e.FromBytes(raw, "image/png").
		Filter("invert", nil).
		Filter("grayscale", nil).
		ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster: %v", err)
	}
	if meta.Width != 20 || meta.Height != 20 {
		t.Fatalf("filters must not change dimensions: got %dx%d", meta.Width, meta.Height)
	}

	// brightness(+50) then invert: 100 → 227 → 28; the reverse order
	// gives 100 → 155 → 255 (clamped).
	r1, _, err := e.FromBytes(raw, "image/png").
		Filter("brightness", filter.Params{"value": 50}).
		Filter("invert", nil).
		ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster brightness→invert: %v", err)
	}
	r2, _, err := e.FromBytes(raw, "image/png").
		Filter("invert", nil).
		Filter("brightness", filter.Params{"value": 50}).
		ToRaster(context.Background())
	if err != nil {
		t.Fatalf("ToRaster invert→brightness: %v", err)
	}
	if got := r1.Pix.NRGBAAt(0, 0).R; got != 28 {
		t.Fatalf("brightness then invert: got R=%d, want 28", got)
	}
	if got := r2.Pix.NRGBAAt(0, 0).R; got != 255 {
		t.Fatalf("invert then brightness: got R=%d, want 255", got)
	}
}

func TestToEncodedJPEG(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 64, 64, color.NRGBA{R: 10, G: 200, B: 10, A: 255})

	res, err := e.FromBytes(raw, "image/png").MaxWidth(32).ToEncoded(context.Background(), encoder.FormatJPEG, 0.8)
	if err != nil {
		t.Fatalf("ToEncoded: %v", err)
	}
	if res.Meta.Format != encoder.FormatJPEG {
		t.Fatalf("format: got %s, want jpeg", res.Meta.Format)
	}
	if len(res.Data) == 0 {
		t.Fatal("encoded data is empty")
	}
	if res.Meta.BytesLen != len(res.Data) {
		t.Fatalf("BytesLen mismatch: meta says %d, got %d bytes", res.Meta.BytesLen, len(res.Data))
	}
}

func TestUnsupportedFormatFallsBackToPNG(t *testing.T) {
	e := newEngine(t)
	raw := newSolidPNG(t, 16, 16, color.NRGBA{A: 255})

	res, err := e.FromBytes(raw, "image/png").ToEncoded(context.Background(), encoder.Format("tiff"), 0)
	if err != nil {
		t.Fatalf("ToEncoded: %v", err)
	}
	if res.Meta.Format != encoder.FormatPNG {
		t.Fatalf("expected fallback to png, got %s", res.Meta.Format)
	}
	if len(res.Meta.Warnings) == 0 {
		t.Fatal("expected a fallback warning")
	}
}

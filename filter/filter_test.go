package filter

import (
	"context"
	"image/color"
	"strings"
	"testing"

	"github.com/Skryldev/imgfit/raster"
)

func solid(w, h int, c color.NRGBA) *raster.Raster {
	r := raster.New(w, h)
	r.Fill(c)
	return r
}

func TestEmptyChainIsIdentity(t *testing.T) {
	img := solid(4, 4, color.NRGBA{10, 20, 30, 255})
	out, err := ApplyChain(context.Background(), img, nil)
	if err != nil {
		t.Fatal(err)
	}
	c := out.Pix.NRGBAAt(0, 0)
	if c.R != 10 || c.G != 20 || c.B != 30 {
		t.Fatalf("identity chain mutated pixel: %+v", c)
	}
}

func TestInvert(t *testing.T) {
	img := solid(2, 2, color.NRGBA{10, 20, 30, 255})
	out, err := DefaultRegistry().ApplyFilter(context.Background(), img, "invert", nil)
	if err != nil {
		t.Fatal(err)
	}
	c := out.Pix.NRGBAAt(0, 0)
	if c.R != 245 || c.G != 235 || c.B != 225 {
		t.Fatalf("invert wrong: %+v", c)
	}
}

func TestBrightnessFormula(t *testing.T) {
	img := solid(1, 1, color.NRGBA{100, 100, 100, 255})
	out, err := DefaultRegistry().ApplyFilter(context.Background(), img, "brightness", Params{"value": 50})
	if err != nil {
		t.Fatal(err)
	}
	c := out.Pix.NRGBAAt(0, 0)
	want := clampByte(100 + 50.0/100*255)
	if c.R != want {
		t.Fatalf("brightness: got %d want %d", c.R, want)
	}
}

func TestChainAbortsOnFirstFailureWithIndex(t *testing.T) {
	img := solid(2, 2, color.NRGBA{0, 0, 0, 255})
	_, err := ApplyChain(context.Background(), img, []Op{
		{Name: "brightness", Params: Params{"value": 0}},
		{Name: "contrast", Params: Params{"value": 500}}, // out of range
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "index 1") {
		t.Fatalf("error should report the failing op's index 1, got %q", err.Error())
	}
}

func TestPosterizeQuantizes(t *testing.T) {
	img := solid(1, 1, color.NRGBA{130, 130, 130, 255})
	out, err := DefaultRegistry().ApplyFilter(context.Background(), img, "posterize", Params{"levels": 2})
	if err != nil {
		t.Fatal(err)
	}
	c := out.Pix.NRGBAAt(0, 0)
	if c.R != 0 && c.R != 255 {
		t.Fatalf("posterize with 2 levels should snap to 0 or 255, got %d", c.R)
	}
}

func TestUnknownFilterErrors(t *testing.T) {
	img := solid(1, 1, color.NRGBA{})
	if _, err := DefaultRegistry().ApplyFilter(context.Background(), img, "does-not-exist", nil); err == nil {
		t.Fatal("expected error for unknown filter")
	}
}

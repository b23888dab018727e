package filter

import (
	"context"
	"fmt"
	"image"

	"github.com/Skryldev/imgfit/raster"
)

func clampByte(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// --- brightness ---

type brightnessPlugin struct{}

func (brightnessPlugin) Name() string            { return "brightness" }
func (brightnessPlugin) DefaultParams() Params    { return Params{"value": 0} }
func (brightnessPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "value", -100, 100)
}
func (brightnessPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	delta := p["value"] / 100 * 255
	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		off := c.PixOffset(x, y)
		c.Pix[off] = clampByte(float64(c.Pix[off]) + delta)
		c.Pix[off+1] = clampByte(float64(c.Pix[off+1]) + delta)
		c.Pix[off+2] = clampByte(float64(c.Pix[off+2]) + delta)
	})
	return img, nil
}

// --- contrast ---

type contrastPlugin struct{}

func (contrastPlugin) Name() string         { return "contrast" }
func (contrastPlugin) DefaultParams() Params { return Params{"value": 0} }
func (contrastPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "value", -100, 100)
}
func (contrastPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	v := p["value"]
	f := (259 * (v + 255)) / (255 * (259 - v))
	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		off := c.PixOffset(x, y)
		c.Pix[off] = clampByte(f*(float64(c.Pix[off])-128) + 128)
		c.Pix[off+1] = clampByte(f*(float64(c.Pix[off+1])-128) + 128)
		c.Pix[off+2] = clampByte(f*(float64(c.Pix[off+2])-128) + 128)
	})
	return img, nil
}

// --- saturation ---

type saturationPlugin struct{}

func (saturationPlugin) Name() string         { return "saturation" }
func (saturationPlugin) DefaultParams() Params { return Params{"value": 0} }
func (saturationPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "value", -100, 100)
}
func (saturationPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	factor := 1 + p["value"]/100
	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		off := c.PixOffset(x, y)
		r, g, b := float64(c.Pix[off]), float64(c.Pix[off+1]), float64(c.Pix[off+2])
		lum := 0.299*r + 0.587*g + 0.114*b
		c.Pix[off] = clampByte(lum + factor*(r-lum))
		c.Pix[off+1] = clampByte(lum + factor*(g-lum))
		c.Pix[off+2] = clampByte(lum + factor*(b-lum))
	})
	return img, nil
}

// --- posterize ---

type posterizePlugin struct{}

func (posterizePlugin) Name() string         { return "posterize" }
func (posterizePlugin) DefaultParams() Params { return Params{"levels": 256} }
func (posterizePlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "levels", 2, 256)
}
func (posterizePlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	levels := p["levels"]
	step := 255 / (levels - 1)
	quant := func(v uint8) uint8 {
		q := float64(round(float64(v)/step)) * step
		return clampByte(q)
	}
	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		off := c.PixOffset(x, y)
		c.Pix[off] = quant(c.Pix[off])
		c.Pix[off+1] = quant(c.Pix[off+1])
		c.Pix[off+2] = quant(c.Pix[off+2])
	})
	return img, nil
}

func round(v float64) float64 {
	if v < 0 {
		return float64(int(v - 0.5))
	}
	return float64(int(v + 0.5))
}

// forEachPixelNRGBA walks every pixel of img's bounds, invoking fn to mutate
// the backing *image.NRGBA directly at (x,y) — used by filters that only
// touch R,G,B and want to avoid a NRGBAAt/SetNRGBA round trip per pixel.
func forEachPixelNRGBA(img *raster.Raster, fn func(c *image.NRGBA, x, y int)) {
	b := img.Pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			fn(img.Pix, x, y)
		}
	}
}

// rangeValidate is the common bounds-check used by every scalar-param
// filter: param must be present and within [lo, hi].
func rangeValidate(p Params, key string, lo, hi float64) (ValidationResult, error) {
	v, ok := p[key]
	if !ok {
		return ValidationResult{Valid: false, Errors: []string{fmt.Sprintf("missing param %q", key)}}, nil
	}
	if v < lo || v > hi {
		return ValidationResult{Valid: false, Errors: []string{fmt.Sprintf("%s must be in [%g,%g], got %g", key, lo, hi, v)}}, nil
	}
	return ValidationResult{Valid: true}, nil
}

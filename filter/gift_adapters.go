package filter

import (
	"context"
	"image"

	"github.com/disintegration/gift"

	"github.com/Skryldev/imgfit/raster"
)

// runGift draws filters over img's pixels in place, following the same
// `gift.New(filters...)` / `(*GIFT).Draw(dst, src)` pattern used elsewhere
// in the retrieved corpus for gaussian-blur-style effects.
func runGift(img *raster.Raster, filters ...gift.Filter) *raster.Raster {
	g := gift.New(filters...)
	dst := image.NewNRGBA(g.Bounds(img.Pix.Bounds()))
	g.Draw(dst, img.Pix)
	return raster.Wrap(dst)
}

// --- grayscale ---

type grayscalePlugin struct{}

func (grayscalePlugin) Name() string                                     { return "grayscale" }
func (grayscalePlugin) DefaultParams() Params                            { return Params{} }
func (grayscalePlugin) Validate(Params) (ValidationResult, error)        { return ValidationResult{Valid: true}, nil }
func (grayscalePlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	return runGift(img, gift.Grayscale()), nil
}

// --- invert ---

type invertPlugin struct{}

func (invertPlugin) Name() string                                 { return "invert" }
func (invertPlugin) DefaultParams() Params                        { return Params{} }
func (invertPlugin) Validate(Params) (ValidationResult, error)     { return ValidationResult{Valid: true}, nil }
func (invertPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	return runGift(img, gift.Invert()), nil
}

// --- sepia ---

type sepiaPlugin struct{}

func (sepiaPlugin) Name() string         { return "sepia" }
func (sepiaPlugin) DefaultParams() Params { return Params{"intensity": 100} }
func (sepiaPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "intensity", 0, 100)
}
func (sepiaPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	return runGift(img, gift.Sepia(float32(p["intensity"]))), nil
}

// --- pixelate ---

type pixelatePlugin struct{}

func (pixelatePlugin) Name() string         { return "pixelate" }
func (pixelatePlugin) DefaultParams() Params { return Params{"pixelSize": 8} }
func (pixelatePlugin) Validate(p Params) (ValidationResult, error) {
	v, ok := p["pixelSize"]
	if !ok || v < 1 {
		return ValidationResult{Valid: false, Errors: []string{"pixelSize must be >= 1"}}, nil
	}
	return ValidationResult{Valid: true}, nil
}
func (pixelatePlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	return runGift(img, gift.Pixelate(int(p["pixelSize"]))), nil
}

// --- emboss ---

type embossPlugin struct{}

func (embossPlugin) Name() string         { return "emboss" }
func (embossPlugin) DefaultParams() Params { return Params{"strength": 1} }
func (embossPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "strength", 0, 3)
}
func (embossPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	s := float32(p["strength"])
	kernel := []float32{-2 * s, -1 * s, 0, -1 * s, 1 * s, 1 * s, 0, 1 * s, 2 * s}
	return runGift(img, gift.Convolution(kernel, false, false, false, 0)), nil
}

// --- edgeDetection ---

type edgeDetectionPlugin struct{}

func (edgeDetectionPlugin) Name() string         { return "edgeDetection" }
func (edgeDetectionPlugin) DefaultParams() Params { return Params{"sensitivity": 1} }
func (edgeDetectionPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "sensitivity", 0, 2)
}
func (edgeDetectionPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	s := float32(p["sensitivity"])
	kernel := []float32{-1 * s, -1 * s, -1 * s, -1 * s, 8 * s, -1 * s, -1 * s, -1 * s, -1 * s}
	return runGift(img, gift.Convolution(kernel, false, false, false, 0)), nil
}

package filter

import (
	"context"
	"image"
	"math/rand"

	"github.com/Skryldev/imgfit/raster"
)

// noisePlugin adds bounded uniform per-pixel noise. It is hand-rolled
// because the retrieved corpus's only noise generator
// (github.com/aquilax/go-perlin) produces coherent Perlin noise, not the
// independent uniform per-pixel noise this filter's contract calls for.
type noisePlugin struct{}

func (noisePlugin) Name() string         { return "noise" }
func (noisePlugin) DefaultParams() Params { return Params{"intensity": 0} }
func (noisePlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "intensity", 0, 100)
}

func (noisePlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	intensity := p["intensity"]
	if intensity <= 0 {
		return img, nil
	}
	a := intensity / 100 * 255
	rng := rand.New(rand.NewSource(rand.Int63()))
	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		off := c.PixOffset(x, y)
		n := (rng.Float64() - 0.5) * a
		c.Pix[off] = clampByte(float64(c.Pix[off]) + n)
		c.Pix[off+1] = clampByte(float64(c.Pix[off+1]) + n)
		c.Pix[off+2] = clampByte(float64(c.Pix[off+2]) + n)
	})
	return img, nil
}

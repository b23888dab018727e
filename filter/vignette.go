package filter

import (
	"context"
	"image"
	"math"

	"github.com/Skryldev/imgfit/raster"
)

type vignettePlugin struct{}

func (vignettePlugin) Name() string {
	return "vignette"
}
func (vignettePlugin) DefaultParams() Params {
	return Params{"intensity": 0.5, "size": 0.5, "blur": 0.5}
}
func (vignettePlugin) Validate(p Params) (ValidationResult, error) {
	for _, key := range []string{"intensity", "size", "blur"} {
		if res, err := rangeValidate(p, key, 0, 1); err != nil || !res.Valid {
			return res, err
		}
	}
	return ValidationResult{Valid: true}, nil
}

func (vignettePlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	intensity, size, blur := p["intensity"], p["size"], p["blur"]
	if intensity <= 0 {
		return img, nil
	}
	b := img.Pix.Bounds()
	w, h := b.Dx(), b.Dy()
	cx, cy := float64(w)/2, float64(h)/2
	maxD := math.Hypot(cx, cy)
	invBlur := 1.0
	if blur > 0 {
		invBlur = 1 / blur
	}

	forEachPixelNRGBA(img, func(c *image.NRGBA, x, y int) {
		dx := float64(x-b.Min.X) - cx
		dy := float64(y-b.Min.Y) - cy
		d := math.Hypot(dx, dy)
		base := 1 - (d/maxD)*size
		factor := math.Pow(clampUnit(base), invBlur)
		mult := 1 - (1-factor)*intensity
		off := c.PixOffset(x, y)
		c.Pix[off] = clampByte(float64(c.Pix[off]) * mult)
		c.Pix[off+1] = clampByte(float64(c.Pix[off+1]) * mult)
		c.Pix[off+2] = clampByte(float64(c.Pix[off+2]) * mult)
	})
	return img, nil
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

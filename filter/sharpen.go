package filter

import (
	"context"
	"image"

	"github.com/Skryldev/imgfit/raster"
)

type sharpenPlugin struct{}

func (sharpenPlugin) Name() string         { return "sharpen" }
func (sharpenPlugin) DefaultParams() Params { return Params{"amount": 0} }
func (sharpenPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "amount", 0, 100)
}

// Apply composes with gaussianBlur: out = orig + (amount/100)*(orig - blur(orig, r=1)).
func (sharpenPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	amount := p["amount"]
	if amount <= 0 {
		return img, nil
	}
	factor := amount / 100
	blurred := gaussianBlur(img.Pix, 1)

	b := img.Pix.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			orig := img.Pix.NRGBAAt(x, y)
			bl := blurred.NRGBAAt(x, y)
			r := float64(orig.R) + factor*(float64(orig.R)-float64(bl.R))
			g := float64(orig.G) + factor*(float64(orig.G)-float64(bl.G))
			bch := float64(orig.B) + factor*(float64(orig.B)-float64(bl.B))
			out.SetNRGBA(x, y, nrgba(r, g, bch, float64(orig.A)))
		}
	}
	return raster.Wrap(out), nil
}

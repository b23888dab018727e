package filter

import (
	"context"
	"image"
	"image/color"
	"math"

	"github.com/Skryldev/imgfit/raster"
)

// gaussianKernel1D builds a normalized 1D kernel of size 2*ceil(radius)+1
// with sigma = radius/3, matching the exact kernel-size/sigma contract.
func gaussianKernel1D(radius float64) []float64 {
	r := int(math.Ceil(radius))
	if r < 1 {
		r = 1
	}
	sigma := radius / 3
	if sigma <= 0 {
		sigma = 1e-6
	}
	size := 2*r + 1
	kernel := make([]float64, size)
	sum := 0.0
	for i := -r; i <= r; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+r] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clampCoord(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// gaussianBlur performs a separable two-pass blur (horizontal then
// vertical), clamping sample coordinates at the image edges, and blurs the
// alpha channel identically to color to avoid edge halos.
func gaussianBlur(img *image.NRGBA, radius float64) *image.NRGBA {
	kernel := gaussianKernel1D(radius)
	half := len(kernel) / 2
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	tmp := image.NewNRGBA(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl, a float64
			for k := -half; k <= half; k++ {
				sx := clampCoord(x+k, 0, w-1)
				c := img.NRGBAAt(b.Min.X+sx, b.Min.Y+y)
				weight := kernel[k+half]
				r += float64(c.R) * weight
				g += float64(c.G) * weight
				bl += float64(c.B) * weight
				a += float64(c.A) * weight
			}
			tmp.SetNRGBA(b.Min.X+x, b.Min.Y+y, nrgba(r, g, bl, a))
		}
	}

	out := image.NewNRGBA(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var r, g, bl, a float64
			for k := -half; k <= half; k++ {
				sy := clampCoord(y+k, 0, h-1)
				c := tmp.NRGBAAt(b.Min.X+x, b.Min.Y+sy)
				weight := kernel[k+half]
				r += float64(c.R) * weight
				g += float64(c.G) * weight
				bl += float64(c.B) * weight
				a += float64(c.A) * weight
			}
			out.SetNRGBA(b.Min.X+x, b.Min.Y+y, nrgba(r, g, bl, a))
		}
	}
	return out
}

func nrgba(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{R: clampByte(r), G: clampByte(g), B: clampByte(b), A: clampByte(a)}
}

// --- blur plugin ---

type blurPlugin struct{}

func (blurPlugin) Name() string         { return "blur" }
func (blurPlugin) DefaultParams() Params { return Params{"radius": 0} }
func (blurPlugin) Validate(p Params) (ValidationResult, error) {
	return rangeValidate(p, "radius", 0, 20)
}
func (blurPlugin) Apply(ctx context.Context, img *raster.Raster, p Params) (*raster.Raster, error) {
	radius := p["radius"]
	if radius <= 0 {
		return img, nil
	}
	return raster.Wrap(gaussianBlur(img.Pix, radius)), nil
}

// Package raster wraps image.NRGBA, the RGBA8-unpremultiplied-alpha pixel
// buffer every stage of the engine reads and writes, and provides a pooled
// allocator so repeated resize/filter passes don't churn the allocator.
package raster

import (
	"image"
	"image/color"
)

// Raster is the in-memory pixel buffer passed between pipeline stages.
// It is a thin, allocation-transparent wrapper over *image.NRGBA chosen
// because NRGBA is the one stdlib format that matches "RGBA8, unpremultiplied
// alpha" exactly — no premultiply/unpremultiply round-trip is ever needed.
type Raster struct {
	Pix *image.NRGBA
}

// New allocates a fresh w×h raster, zeroed (fully transparent black).
func New(w, h int) *Raster {
	return &Raster{Pix: image.NewNRGBA(image.Rect(0, 0, w, h))}
}

// Wrap adapts an existing *image.NRGBA without copying.
func Wrap(img *image.NRGBA) *Raster { return &Raster{Pix: img} }

// FromImage converts any image.Image into a Raster, copying pixels into
// NRGBA form. If img is already *image.NRGBA, it is wrapped without copying.
func FromImage(img image.Image) *Raster {
	if n, ok := img.(*image.NRGBA); ok {
		return Wrap(n)
	}
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, img.At(x, y))
		}
	}
	return Wrap(dst)
}

// Bounds returns the pixel rectangle.
func (r *Raster) Bounds() image.Rectangle { return r.Pix.Bounds() }

// Width and Height return the raster's dimensions in pixels.
func (r *Raster) Width() int  { return r.Pix.Bounds().Dx() }
func (r *Raster) Height() int { return r.Pix.Bounds().Dy() }

// HasAlpha reports whether any pixel has alpha < 255.
func (r *Raster) HasAlpha() bool {
	b := r.Pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := r.Pix.PixOffset(b.Min.X, y)
		row := r.Pix.Pix[off : off+b.Dx()*4]
		for i := 3; i < len(row); i += 4 {
			if row[i] != 255 {
				return true
			}
		}
	}
	return false
}

// Fill paints the entire raster with c, used to establish a background
// before a Contain-mode paste or a non-cropping rotate.
func (r *Raster) Fill(c color.NRGBA) {
	b := r.Pix.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.Pix.SetNRGBA(x, y, c)
		}
	}
}

// SizeBytes estimates the in-memory footprint of the pixel buffer, used by
// hooks.MetricsHook to record throughput.
func (r *Raster) SizeBytes() int64 {
	b := r.Pix.Bounds()
	return int64(b.Dx()) * int64(b.Dy()) * 4
}

// EstimateBytes returns the projected pixel-buffer size for a w×h raster
// without allocating one (w*h*4 bytes).
func EstimateBytes(w, h int) int64 {
	return int64(w) * int64(h) * 4
}

// Package geometry computes the destination canvas size and draw rectangle
// for a resize request, independent of any pixel I/O. All functions here are
// pure and safe to unit test without allocating a single raster.
package geometry

import "image/color"

// Dimensions is an intrinsic width/height pair, always positive.
type Dimensions struct {
	W, H int
}

// FitConfig is the closed sum type over the five fit modes. Each concrete
// type below is the only implementation of isFit, so a type switch on
// FitConfig is exhaustive without runtime reflection.
type FitConfig interface {
	isFit()
}

// Cover scales to fill (tw,th) entirely, cropping any excess.
type Cover struct {
	W, H int
}

// Contain scales to fit entirely within (tw,th), padding or backgrounding
// any gap. Background is nil for transparent. PadX/PadY expand the canvas
// beyond (tw,th) symmetrically.
type Contain struct {
	W, H       int
	Background *color.NRGBA
	PadX, PadY int
}

// Fill stretches to exactly (tw,th), ignoring aspect ratio.
type Fill struct {
	W, H int
}

// MaxFit caps the result to at most the given axis/axes, preserving aspect.
// Zero means "unconstrained on this axis".
type MaxFit struct {
	W, H int
}

// MinFit grows the result to at least the given axis/axes, preserving aspect.
// Zero means "unconstrained on this axis".
type MinFit struct {
	W, H int
}

func (Cover) isFit()   {}
func (Contain) isFit() {}
func (Fill) isFit()    {}
func (MaxFit) isFit()  {}
func (MinFit) isFit()  {}

// FitSpec bundles a FitConfig with the shared withoutEnlargement flag. Cover
// and Contain clamp their scale to 1 when it is set, Fill caps each axis at
// the source size, and MaxFit and MinFit do not read it (MaxFit never
// enlarges in any case).
type FitSpec struct {
	Config             FitConfig
	WithoutEnlargement bool
}

// Rect is an integer draw rectangle, (X,Y) is the top-left corner.
type Rect struct {
	X, Y, W, H int
}

// Plan is the output of Plan(): a canvas size, a single draw rectangle for
// the scaled source, and an optional background to paint first.
type Plan struct {
	Canvas     Dimensions
	Draw       Rect
	Background *color.NRGBA
}

package geometry

import (
	"fmt"
	"math"

	imgerr "github.com/Skryldev/imgfit/errors"
)

// round applies banker's rounding (half-to-even), matching the "rounding
// policy" requirement that draw-rect math be reproducible across platforms.
func round(v float64) int {
	return int(math.RoundToEven(v))
}

func validateDims(d Dimensions) error {
	if d.W <= 0 || d.H <= 0 {
		return imgerr.New(imgerr.CodeInvalidDimensions, "geometry.Plan",
			fmt.Errorf("source dimensions must be positive, got %dx%d", d.W, d.H))
	}
	return nil
}

// Plan computes the canvas size and draw rectangle for resizing src under
// spec. It performs no I/O and allocates no pixel buffers.
func Plan(src Dimensions, spec FitSpec) (Plan, error) {
	if err := validateDims(src); err != nil {
		return Plan{}, err
	}
	switch cfg := spec.Config.(type) {
	case Cover:
		return planCover(src, cfg, spec.WithoutEnlargement)
	case Contain:
		return planContain(src, cfg, spec.WithoutEnlargement)
	case Fill:
		return planFill(src, cfg, spec.WithoutEnlargement)
	case MaxFit:
		return planMaxFit(src, cfg)
	case MinFit:
		return planMinFit(src, cfg)
	default:
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.Plan",
			fmt.Errorf("unknown fit config type %T", cfg))
	}
}

// clampOvershoot trims dw/dh by 1 if rounding caused the draw rect to spill
// past the canvas, guaranteeing dx+dw <= W and dy+dh <= H.
func clampOvershoot(dx, dy, dw, dh, W, H int) (int, int, int, int) {
	if dx+dw > W {
		dw = W - dx
	}
	if dy+dh > H {
		dh = H - dy
	}
	return dx, dy, dw, dh
}

func planCover(src Dimensions, cfg Cover, withoutEnlargement bool) (Plan, error) {
	if cfg.W <= 0 || cfg.H <= 0 {
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.planCover",
			fmt.Errorf("target dimensions must be positive, got %dx%d", cfg.W, cfg.H))
	}
	s := math.Max(float64(cfg.W)/float64(src.W), float64(cfg.H)/float64(src.H))
	if withoutEnlargement && s > 1 {
		s = 1
	}
	dw := round(float64(src.W) * s)
	dh := round(float64(src.H) * s)
	dx := round(float64(cfg.W-dw) / 2)
	dy := round(float64(cfg.H-dh) / 2)
	return Plan{
		Canvas: Dimensions{cfg.W, cfg.H},
		Draw:   Rect{X: dx, Y: dy, W: dw, H: dh},
	}, nil
}

func planContain(src Dimensions, cfg Contain, withoutEnlargement bool) (Plan, error) {
	if cfg.W <= 0 || cfg.H <= 0 {
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.planContain",
			fmt.Errorf("target dimensions must be positive, got %dx%d", cfg.W, cfg.H))
	}
	s := math.Min(float64(cfg.W)/float64(src.W), float64(cfg.H)/float64(src.H))
	if withoutEnlargement && s > 1 {
		s = 1
	}
	dw := round(float64(src.W) * s)
	dh := round(float64(src.H) * s)

	innerX := round(float64(cfg.W-dw) / 2)
	innerY := round(float64(cfg.H-dh) / 2)

	canvasW, canvasH := cfg.W, cfg.H
	dx, dy := innerX, innerY
	if cfg.PadX > 0 || cfg.PadY > 0 {
		canvasW += 2 * cfg.PadX
		canvasH += 2 * cfg.PadY
		dx += cfg.PadX
		dy += cfg.PadY
	}

	dx, dy, dw, dh = clampOvershoot(dx, dy, dw, dh, canvasW, canvasH)
	return Plan{
		Canvas:     Dimensions{canvasW, canvasH},
		Draw:       Rect{X: dx, Y: dy, W: dw, H: dh},
		Background: cfg.Background,
	}, nil
}

func planFill(src Dimensions, cfg Fill, withoutEnlargement bool) (Plan, error) {
	if cfg.W <= 0 || cfg.H <= 0 {
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.planFill",
			fmt.Errorf("target dimensions must be positive, got %dx%d", cfg.W, cfg.H))
	}
	tw, th := cfg.W, cfg.H
	if withoutEnlargement {
		// Fill's withoutEnlargement caps each axis independently to source,
		// since a single uniform scale factor would not preserve "fill".
		if tw > src.W {
			tw = src.W
		}
		if th > src.H {
			th = src.H
		}
	}
	return Plan{
		Canvas: Dimensions{tw, th},
		Draw:   Rect{X: 0, Y: 0, W: tw, H: th},
	}, nil
}

func planMaxFit(src Dimensions, cfg MaxFit) (Plan, error) {
	if cfg.W <= 0 && cfg.H <= 0 {
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.planMaxFit",
			fmt.Errorf("at least one of width/height must be given"))
	}
	s := 1.0
	if cfg.W > 0 {
		s = math.Min(s, float64(cfg.W)/float64(src.W))
	}
	if cfg.H > 0 {
		s = math.Min(s, float64(cfg.H)/float64(src.H))
	}
	w := round(float64(src.W) * s)
	h := round(float64(src.H) * s)
	return Plan{
		Canvas: Dimensions{w, h},
		Draw:   Rect{X: 0, Y: 0, W: w, H: h},
	}, nil
}

func planMinFit(src Dimensions, cfg MinFit) (Plan, error) {
	if cfg.W <= 0 && cfg.H <= 0 {
		return Plan{}, imgerr.New(imgerr.CodeInvalidDimensions, "geometry.planMinFit",
			fmt.Errorf("at least one of width/height must be given"))
	}
	s := 1.0
	if cfg.W > 0 {
		s = math.Max(s, float64(cfg.W)/float64(src.W))
	}
	if cfg.H > 0 {
		s = math.Max(s, float64(cfg.H)/float64(src.H))
	}
	w := round(float64(src.W) * s)
	h := round(float64(src.H) * s)
	return Plan{
		Canvas: Dimensions{w, h},
		Draw:   Rect{X: 0, Y: 0, W: w, H: h},
	}, nil
}

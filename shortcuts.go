package imagefit

import (
	"math"

	"github.com/Skryldev/imgfit/geometry"
)

func fixed(cfg geometry.FitConfig, withoutEnlargement bool) resizePlanner {
	return func(geometry.Dimensions) geometry.FitSpec {
		return geometry.FitSpec{Config: cfg, WithoutEnlargement: withoutEnlargement}
	}
}

// CoverBox scales to fill (w,h) entirely, cropping any excess.
func (b *Builder) CoverBox(w, h int) *Builder {
	return b.resize(fixed(geometry.Cover{W: w, H: h}, false))
}

// ContainBox scales to fit entirely within (w,h), backgrounding any gap.
func (b *Builder) ContainBox(w, h int) *Builder {
	return b.resize(fixed(geometry.Contain{W: w, H: h}, false))
}

// ExactSize stretches to exactly (w,h), ignoring the source aspect ratio.
func (b *Builder) ExactSize(w, h int) *Builder {
	return b.resize(fixed(geometry.Fill{W: w, H: h}, false))
}

// MaxWidth caps the result's width to at most n, preserving aspect and
// never enlarging.
func (b *Builder) MaxWidth(n int) *Builder {
	return b.resize(fixed(geometry.MaxFit{W: n}, false))
}

// MaxHeight caps the result's height to at most n, preserving aspect and
// never enlarging.
func (b *Builder) MaxHeight(n int) *Builder {
	return b.resize(fixed(geometry.MaxFit{H: n}, false))
}

// MinWidth grows the result's width to at least n, preserving aspect.
func (b *Builder) MinWidth(n int) *Builder {
	return b.resize(fixed(geometry.MinFit{W: n}, false))
}

// MinHeight grows the result's height to at least n, preserving aspect.
func (b *Builder) MinHeight(n int) *Builder {
	return b.resize(fixed(geometry.MinFit{H: n}, false))
}

// ExactWidth resizes to width n, height computed to preserve aspect. It is
// MaxFit on the width, so a source narrower than n keeps its own size.
func (b *Builder) ExactWidth(n int) *Builder {
	return b.resize(fixed(geometry.MaxFit{W: n}, false))
}

// ExactHeight resizes to height n, width computed to preserve aspect. It is
// MaxFit on the height, so a source shorter than n keeps its own size.
func (b *Builder) ExactHeight(n int) *Builder {
	return b.resize(fixed(geometry.MaxFit{H: n}, false))
}

// Scale resizes uniformly by factor k relative to the source's intrinsic
// size, preserving aspect ratio exactly.
func (b *Builder) Scale(k float64) *Builder {
	return b.resize(func(src geometry.Dimensions) geometry.FitSpec {
		w := round1(float64(src.W) * k)
		h := round1(float64(src.H) * k)
		return geometry.FitSpec{Config: geometry.Fill{W: w, H: h}}
	})
}

// ScaleX resizes the width by factor k, leaving height unchanged (aspect is
// not preserved).
func (b *Builder) ScaleX(k float64) *Builder {
	return b.resize(func(src geometry.Dimensions) geometry.FitSpec {
		w := round1(float64(src.W) * k)
		return geometry.FitSpec{Config: geometry.Fill{W: w, H: src.H}}
	})
}

// ScaleY resizes the height by factor k, leaving width unchanged (aspect is
// not preserved).
func (b *Builder) ScaleY(k float64) *Builder {
	return b.resize(func(src geometry.Dimensions) geometry.FitSpec {
		h := round1(float64(src.H) * k)
		return geometry.FitSpec{Config: geometry.Fill{W: src.W, H: h}}
	})
}

func round1(v float64) int { return int(math.RoundToEven(v)) }

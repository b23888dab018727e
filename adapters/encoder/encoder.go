// Package encoder bridges the engine's internal raster.Raster to encoded
// output bytes: PNG, JPEG, and WebP.
package encoder

import (
	"context"
	"image"
)

// Format is an output image format.
type Format string

const (
	FormatPNG  Format = "png"
	FormatJPEG Format = "jpeg"
	FormatWebP Format = "webp"
)

// MIME returns the standard image/* MIME type for f.
func (f Format) MIME() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatWebP:
		return "image/webp"
	default:
		return "image/png"
	}
}

// Options configures a single encode call. Quality is expressed in the
// spec's 0.0-1.0 range; encoders map it to their own native scale.
type Options struct {
	Quality    float64 // 0.0-1.0, default 0.8 for lossy formats
	Lossless   bool
	Interlaced bool
}

// Encoder encodes a decoded image into a specific output format.
type Encoder interface {
	CanEncode(format Format) bool
	Encode(ctx context.Context, img image.Image, opts Options) ([]byte, error)
}

// Registry looks up an Encoder by Format, mirroring source.Registry's
// decoder-lookup-by-tag pattern on the output side.
type Registry struct {
	encoders []Encoder
}

// NewRegistry returns a Registry pre-populated with PNG, JPEG, and WebP.
func NewRegistry() *Registry {
	return &Registry{encoders: []Encoder{NewPNG(), NewJPEG(80), NewWebP(80)}}
}

// EncoderFor returns the first registered Encoder that can handle format.
func (r *Registry) EncoderFor(format Format) (Encoder, bool) {
	for _, e := range r.encoders {
		if e.CanEncode(format) {
			return e, true
		}
	}
	return nil, false
}

// qualityTo100 maps the spec's 0.0-1.0 quality dial to a 1-100 integer,
// falling back to defaultQ when q is zero (unset).
func qualityTo100(q float64, defaultQ int) int {
	if q <= 0 {
		return defaultQ
	}
	if q > 1 {
		q = 1
	}
	v := int(q*100 + 0.5)
	if v < 1 {
		v = 1
	}
	if v > 100 {
		v = 100
	}
	return v
}

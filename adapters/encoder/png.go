package encoder

import (
	"bytes"
	"context"
	"image"
	"image/png"

	imgerr "github.com/Skryldev/imgfit/errors"
)

// PNG encodes images to PNG format.
type PNG struct{}

func NewPNG() *PNG { return &PNG{} }

func (p *PNG) CanEncode(format Format) bool { return format == FormatPNG }

func (p *PNG) Encode(ctx context.Context, img image.Image, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "png.encode", err)
	}
	if img == nil {
		return nil, imgerr.New(imgerr.CodeOutputFailed, "png.encode", imgerr.ErrEmptyInput)
	}

	enc := &png.Encoder{}
	if opts.Lossless {
		enc.CompressionLevel = png.BestCompression
	} else {
		enc.CompressionLevel = png.DefaultCompression
	}
	if opts.Interlaced {
		enc.CompressionLevel = png.BestCompression // closest approximation
	}

	var buf bytes.Buffer
	if err := enc.Encode(&buf, img); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "png.encode", err)
	}
	return buf.Bytes(), nil
}

package encoder

import (
	"bytes"
	"context"
	"image"

	deepwebp "github.com/deepteams/webp"

	imgerr "github.com/Skryldev/imgfit/errors"
)

// WebP encodes images to WebP format via github.com/deepteams/webp, a
// pure-Go VP8/VP8L encoder (the swap the teacher's own placeholder named as
// its production target, using the implementation this pack retrieved).
type WebP struct {
	DefaultQuality int // 1-100, used when Options.Quality is unset
}

func NewWebP(defaultQuality int) *WebP {
	if defaultQuality <= 0 {
		defaultQuality = 80
	}
	return &WebP{DefaultQuality: defaultQuality}
}

func (w *WebP) CanEncode(format Format) bool { return format == FormatWebP }

func (w *WebP) Encode(ctx context.Context, img image.Image, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "webp.encode", err)
	}
	if img == nil {
		return nil, imgerr.New(imgerr.CodeOutputFailed, "webp.encode", imgerr.ErrEmptyInput)
	}

	quality := qualityTo100(opts.Quality, w.DefaultQuality)

	webpOpts := deepwebp.DefaultOptions()
	webpOpts.Lossless = opts.Lossless
	webpOpts.Quality = float32(quality)

	var buf bytes.Buffer
	if err := deepwebp.Encode(&buf, img, webpOpts); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "webp.encode", err)
	}
	return buf.Bytes(), nil
}

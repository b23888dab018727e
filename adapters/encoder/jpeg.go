package encoder

import (
	"bytes"
	"context"
	"image"
	"image/jpeg"

	imgerr "github.com/Skryldev/imgfit/errors"
)

// JPEG encodes images to JPEG format.
type JPEG struct {
	DefaultQuality int // 1-100, used when Options.Quality is unset
}

func NewJPEG(defaultQuality int) *JPEG {
	if defaultQuality <= 0 {
		defaultQuality = 85
	}
	return &JPEG{DefaultQuality: defaultQuality}
}

func (j *JPEG) CanEncode(format Format) bool { return format == FormatJPEG }

func (j *JPEG) Encode(ctx context.Context, img image.Image, opts Options) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "jpeg.encode", err)
	}
	if img == nil {
		return nil, imgerr.New(imgerr.CodeOutputFailed, "jpeg.encode", imgerr.ErrEmptyInput)
	}

	quality := qualityTo100(opts.Quality, j.DefaultQuality)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeOutputFailed, "jpeg.encode", err)
	}
	return buf.Bytes(), nil
}

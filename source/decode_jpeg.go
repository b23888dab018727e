package source

import (
	"context"
	"image"
	"image/jpeg"
	"io"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/internal/sniff"
)

// JPEGDecoder decodes JPEG images using the standard library.
type JPEGDecoder struct{}

func NewJPEGDecoder() *JPEGDecoder { return &JPEGDecoder{} }

func (JPEGDecoder) CanDecode(format sniff.Format) bool {
	return format == sniff.FormatJPEG || format == sniff.FormatUnknown
}

func (JPEGDecoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.jpeg.decode", err)
	}
	img, err := jpeg.Decode(r)
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.jpeg.decode", err)
	}
	return img, nil
}

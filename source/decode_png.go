package source

import (
	"context"
	"image"
	"image/png"
	"io"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/internal/sniff"
)

// PNGDecoder decodes PNG images using the standard library.
type PNGDecoder struct{}

func NewPNGDecoder() *PNGDecoder { return &PNGDecoder{} }

func (PNGDecoder) CanDecode(format sniff.Format) bool { return format == sniff.FormatPNG }

func (PNGDecoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.png.decode", err)
	}
	img, err := png.Decode(r)
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.png.decode", err)
	}
	return img, nil
}

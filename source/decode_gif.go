package source

import (
	"bytes"
	"context"
	"image"
	"image/gif"
	"io"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/internal/sniff"
)

func bytesReader(b []byte) *bytes.Reader { return bytes.NewReader(b) }

// GIFDecoder decodes the first frame of a GIF only; animated decoding is an
// explicit Non-goal.
type GIFDecoder struct{}

func NewGIFDecoder() *GIFDecoder { return &GIFDecoder{} }

func (GIFDecoder) CanDecode(format sniff.Format) bool { return format == sniff.FormatGIF }

func (GIFDecoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.gif.decode", err)
	}
	g, err := gif.DecodeAll(r)
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.gif.decode", err)
	}
	if len(g.Image) == 0 {
		return nil, imgerr.New(imgerr.CodeSourceLoadFailed, "source.gif.decode", imgerr.ErrEmptyInput)
	}
	return g.Image[0], nil
}

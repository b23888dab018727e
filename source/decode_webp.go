package source

import (
	"context"
	"image"
	"io"

	"golang.org/x/image/webp"

	"github.com/Skryldev/imgfit/internal/bufpool"
	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/internal/sniff"
)

// WebPDecoder decodes WebP images using golang.org/x/image/webp.
//
// golang.org/x/image/webp decodes still lossy (VP8) and lossless (VP8L)
// images; animated WebP is not decoded (animated decoding is an explicit
// Non-goal).
type WebPDecoder struct{}

func NewWebPDecoder() *WebPDecoder { return &WebPDecoder{} }

func (WebPDecoder) CanDecode(format sniff.Format) bool { return format == sniff.FormatWebP }

func (WebPDecoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.webp.decode", err)
	}

	buf, err := bufpool.Drain(ctx, r, 32*1024)
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.webp.drain", err)
	}
	defer bufpool.Release(buf)

	img, err := webp.Decode(bytesReader(buf.Bytes()))
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.webp.decode", err)
	}
	return img, nil
}

package source

import (
	"context"
	"fmt"
	"image"
	"strings"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/geometry"
	"github.com/Skryldev/imgfit/internal/bufpool"
	"github.com/Skryldev/imgfit/internal/sniff"
	"github.com/Skryldev/imgfit/raster"
)

// Fetcher resolves a URL-like reference to encoded bytes plus a MIME hint.
// Network access is an external collaborator; the core never dials out
// itself.
type Fetcher interface {
	Fetch(ctx context.Context, ref string) (data []byte, mime string, err error)
}

// FileResolver resolves a local path-like reference to encoded bytes.
type FileResolver interface {
	Resolve(ctx context.Context, ref string) ([]byte, error)
}

// SVGRasterizer rasterizes SVG markup at the given pixel size. The core has
// no built-in SVG renderer; rasterizing is always delegated.
type SVGRasterizer interface {
	Rasterize(ctx context.Context, markup string, w, h int) (image.Image, error)
}

// Options configures a single Materialize call.
type Options struct {
	Registry      *Registry
	MaxBytes      int64 // 0 = unlimited
	Fetcher       Fetcher
	FileResolver  FileResolver
	SVGRasterizer SVGRasterizer
}

func (o Options) registry() *Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return DefaultRegistry()
}

// Materialize normalizes any Token into a raster.Raster plus its intrinsic
// dimensions.
func Materialize(ctx context.Context, tok Token, opts Options) (*raster.Raster, geometry.Dimensions, error) {
	switch t := tok.(type) {
	case DecodedRaster:
		return fromImage(t.Image)
	case Handle:
		return fromImage(t.Image)
	case EncodedBytes:
		return materializeEncoded(ctx, t, opts)
	case URLLike:
		return materializeURL(ctx, t, opts)
	case VectorText:
		return materializeSVG(ctx, t, opts)
	default:
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeInvalidSource, "source.Materialize",
			fmt.Errorf("unknown token type %T", tok))
	}
}

func fromImage(img image.Image) (*raster.Raster, geometry.Dimensions, error) {
	if img == nil {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeInvalidSource, "source.Materialize", imgerr.ErrEmptyInput)
	}
	r := raster.FromImage(img)
	return r, geometry.Dimensions{W: r.Width(), H: r.Height()}, nil
}

func materializeEncoded(ctx context.Context, t EncodedBytes, opts Options) (*raster.Raster, geometry.Dimensions, error) {
	if len(t.Data) == 0 {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeInvalidSource, "source.Materialize", imgerr.ErrEmptyInput)
	}
	if opts.MaxBytes > 0 && int64(len(t.Data)) > opts.MaxBytes {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeFileTooLarge, "source.Materialize",
			fmt.Errorf("%d bytes exceeds limit of %d", len(t.Data), opts.MaxBytes))
	}

	format := sniff.Detect(t.Data)
	dec, ok := opts.registry().DecoderFor(format)
	if !ok {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeUnsupportedFormat, "source.Materialize",
			fmt.Errorf("no decoder registered for format %q", format))
	}

	buf, err := bufpool.Drain(ctx, bytesReader(t.Data), 32*1024)
	if err != nil {
		return nil, geometry.Dimensions{}, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.Materialize", err)
	}
	defer bufpool.Release(buf)

	img, err := dec.Decode(ctx, bytesReader(buf.Bytes()))
	if err != nil {
		return nil, geometry.Dimensions{}, err
	}
	return fromImage(img)
}

func materializeURL(ctx context.Context, t URLLike, opts Options) (*raster.Raster, geometry.Dimensions, error) {
	if isFileLike(t.Ref) && opts.FileResolver != nil {
		data, err := opts.FileResolver.Resolve(ctx, t.Ref)
		if err != nil {
			return nil, geometry.Dimensions{}, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.Materialize.file", err)
		}
		return materializeEncoded(ctx, EncodedBytes{Data: data}, opts)
	}
	if opts.Fetcher == nil {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeInvalidSource, "source.Materialize",
			fmt.Errorf("URLLike token requires a Fetcher or FileResolver"))
	}
	data, mime, err := opts.Fetcher.Fetch(ctx, t.Ref)
	if err != nil {
		return nil, geometry.Dimensions{}, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.Materialize.fetch", err)
	}
	return materializeEncoded(ctx, EncodedBytes{Data: data, MIME: mime}, opts)
}

func isFileLike(ref string) bool {
	return len(ref) > 0 && (ref[0] == '/' || ref[0] == '.' || strings.HasPrefix(ref, "file://"))
}

func materializeSVG(ctx context.Context, t VectorText, opts Options) (*raster.Raster, geometry.Dimensions, error) {
	if opts.SVGRasterizer == nil {
		return nil, geometry.Dimensions{}, imgerr.New(imgerr.CodeSVGProcessingFailed, "source.Materialize",
			fmt.Errorf("VectorText token requires an SVGRasterizer"))
	}
	w, h := intrinsicSVGSize(t.Markup)
	img, err := opts.SVGRasterizer.Rasterize(ctx, t.Markup, w, h)
	if err != nil {
		return nil, geometry.Dimensions{}, imgerr.Wrap(imgerr.CodeSVGLoadFailed, "source.Materialize.svg", err)
	}
	r, dims, err := fromImage(img)
	if err != nil {
		return nil, geometry.Dimensions{}, err
	}
	return r, dims, nil
}

// DataURL exposes svgDataURL for callers that want a data: URL instead of
// rasterizing through an SVGRasterizer directly (e.g. handing markup to a
// browser-hosted <img> tag).
func DataURL(markup string) string { return svgDataURL(markup) }

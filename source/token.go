// Package source normalizes any supported source variant — raw encoded
// bytes, an already-decoded raster, vector markup, a URL/path token, or an
// in-memory image handle — into a raster.Raster plus its intrinsic
// dimensions.
package source

import "image"

// Token is the closed sum type over the five source variants. Each concrete
// type is the only implementation of isToken, so Materialize's type switch
// is exhaustive without runtime reflection.
type Token interface {
	isToken()
}

// DecodedRaster wraps pixels the caller has already decoded.
type DecodedRaster struct {
	Image image.Image
}

// EncodedBytes carries compressed image bytes plus an optional MIME hint.
// Materialize does not read MIME: the format is always sniffed from the
// bytes themselves, and the decoder is chosen from the sniffed format.
type EncodedBytes struct {
	Data []byte
	MIME string
}

// VectorText carries raw SVG markup. Rasterization is delegated to a
// caller-supplied SVGRasterizer; the core only extracts intrinsic size.
type VectorText struct {
	Markup string
}

// URLLike carries a URL or file-path-like string, resolved via a
// caller-supplied Fetcher or FileResolver and then treated as EncodedBytes.
type URLLike struct {
	Ref string
}

// Handle wraps an already-decoded, caller-owned image.Image — used when the
// caller has obtained an image.Image from outside the package entirely.
type Handle struct {
	Image image.Image
}

func (DecodedRaster) isToken() {}
func (EncodedBytes) isToken()  {}
func (VectorText) isToken()    {}
func (URLLike) isToken()       {}
func (Handle) isToken()        {}

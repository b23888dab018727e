package source

import (
	"context"
	"image"
	"io"
	"sync"

	"github.com/Skryldev/imgfit/internal/sniff"
)

// Decoder converts raw bytes into a decoded image. Implementations live
// alongside this file (decode_png.go, decode_jpeg.go, ...).
type Decoder interface {
	Decode(ctx context.Context, r io.Reader) (image.Image, error)
	CanDecode(format sniff.Format) bool
}

// Registry maps sniffed formats to decoders, mirroring the RWMutex-guarded
// registration pattern used by the filter plugin registry.
type Registry struct {
	mu       sync.RWMutex
	decoders map[sniff.Format]Decoder
}

// NewRegistry returns a registry pre-populated with the built-in decoders
// for png, jpeg, webp, gif, bmp, and ico.
func NewRegistry() *Registry {
	r := &Registry{decoders: make(map[sniff.Format]Decoder)}
	r.Register(sniff.FormatPNG, NewPNGDecoder())
	r.Register(sniff.FormatJPEG, NewJPEGDecoder())
	r.Register(sniff.FormatWebP, NewWebPDecoder())
	r.Register(sniff.FormatGIF, NewGIFDecoder())
	r.Register(sniff.FormatBMP, NewBMPDecoder())
	r.Register(sniff.FormatICO, NewBMPDecoder())
	return r
}

// Register adds or replaces the decoder for format; last registration wins.
func (r *Registry) Register(format sniff.Format, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decoders[format] = d
}

// DecoderFor returns the decoder registered for format, if any.
func (r *Registry) DecoderFor(format sniff.Format) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.decoders[format]
	return d, ok
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the package-level registry used by Materialize
// when no custom Registry is supplied via Options.
func DefaultRegistry() *Registry { return defaultRegistry }

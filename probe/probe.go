// Package probe reports read-only library capability, mirroring spec.md §6's
// client-side feature-detection surface for a server/CLI-less Go library.
package probe

// FeatureProbe is a read-only snapshot of what this build can do.
type FeatureProbe struct {
	WebP bool // true: decode via golang.org/x/image/webp, encode via github.com/deepteams/webp
	AVIF bool // false: no retrieved dependency implements AVIF

	// Browser-only concepts from spec.md §6, kept for API-surface parity.
	// A server/CLI-less Go library has neither a main thread nor an
	// ImageBitmap, so these are always false rather than silently dropped.
	OffMainThreadCanvas bool
	DecodedImageBitmap  bool
}

// Features returns this build's capability record.
func Features() FeatureProbe {
	return FeatureProbe{
		WebP:                true,
		AVIF:                false,
		OffMainThreadCanvas: false,
		DecodedImageBitmap:  false,
	}
}

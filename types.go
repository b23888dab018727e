// Package imagefit is the root package: a lazy, single-use pipeline builder
// that ties together source materialization, geometry planning, strategy
// selection, resize execution, filter application, and encoding into one
// terminal call.
package imagefit

import (
	"time"

	"github.com/Skryldev/imgfit/adapters/encoder"
)

// Intrinsic is the natural pixel size of a materialized source, before any
// resize is applied.
type Intrinsic struct {
	Width, Height int
}

// Metadata describes the result of a terminal operation.
type Metadata struct {
	Width            int
	Height           int
	Original         Intrinsic
	ProcessingTimeMs int64
	BytesLen         int // 0 for ToRaster
	Format           encoder.Format
	Warnings         []string
}

// Result pairs the encoded bytes from ToEncoded with its Metadata.
type Result struct {
	Data []byte
	Meta Metadata
}

func durationMs(d time.Duration) int64 { return d.Milliseconds() }

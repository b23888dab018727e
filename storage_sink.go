package imagefit

import (
	"bytes"
	"context"
	"strconv"

	"github.com/Skryldev/imgfit/adapters/encoder"
	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/storage"
)

// ToStorage is a terminal operation: it executes the recorded pipeline,
// encodes the result exactly as ToEncoded does, and persists the bytes to
// adapter under key. The Metadata returned describes the encode, not the
// storage write; a storage failure is reported as CodeOutputFailed wrapping
// the adapter's error.
func (b *Builder) ToStorage(ctx context.Context, adapter storage.Adapter, key storage.Key, format encoder.Format, quality float64) (Metadata, error) {
	res, err := b.ToEncoded(ctx, format, quality)
	if err != nil {
		return Metadata{}, err
	}

	meta := map[string]string{
		"format": string(res.Meta.Format),
		"width":  strconv.Itoa(res.Meta.Width),
		"height": strconv.Itoa(res.Meta.Height),
	}
	if err := adapter.Put(ctx, key, bytes.NewReader(res.Data), meta); err != nil {
		return Metadata{}, imgerr.New(imgerr.CodeOutputFailed, "imagefit.ToStorage", err)
	}
	return res.Meta, nil
}

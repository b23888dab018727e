package source_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/Skryldev/imgfit/internal/sniff"
	"github.com/Skryldev/imgfit/source"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 50, G: 100, B: 150, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode test png: %v", err)
	}
	return buf.Bytes()
}

// buildICO assembles a minimal single-type ICO file embedding each of
// payloads as one directory entry, sized w[i]xh[i].
func buildICO(t *testing.T, payloads [][]byte, dims [][2]int) []byte {
	t.Helper()
	const headerSize = 6
	const dirEntrySize = 16

	var buf bytes.Buffer
	buf.Write([]byte{0, 0, 1, 0}) // reserved, type=1 (icon)
	countBuf := make([]byte, 2)
	binary.LittleEndian.PutUint16(countBuf, uint16(len(payloads)))
	buf.Write(countBuf)

	offset := headerSize + dirEntrySize*len(payloads)
	for i, p := range payloads {
		entry := make([]byte, dirEntrySize)
		w, h := dims[i][0], dims[i][1]
		if w >= 256 {
			w = 0
		}
		if h >= 256 {
			h = 0
		}
		entry[0] = byte(w)
		entry[1] = byte(h)
		binary.LittleEndian.PutUint32(entry[8:12], uint32(len(p)))
		binary.LittleEndian.PutUint32(entry[12:16], uint32(offset))
		buf.Write(entry)
		offset += len(p)
	}
	for _, p := range payloads {
		buf.Write(p)
	}
	return buf.Bytes()
}

func TestICODecodesLargestEmbeddedPNG(t *testing.T) {
	small := encodePNG(t, 16, 16)
	large := encodePNG(t, 48, 48)
	ico := buildICO(t, [][]byte{small, large}, [][2]int{{16, 16}, {48, 48}})

	if got := sniff.Detect(ico); got != sniff.FormatICO {
		t.Fatalf("sniff.Detect: got %q, want ico", got)
	}

	r, dims, err := source.Materialize(context.Background(), source.EncodedBytes{Data: ico}, source.Options{})
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}
	if dims.W != 48 || dims.H != 48 {
		t.Fatalf("expected the largest (48x48) entry to be picked, got %dx%d", dims.W, dims.H)
	}
	if r.Width() != 48 || r.Height() != 48 {
		t.Fatalf("raster size: got %dx%d, want 48x48", r.Width(), r.Height())
	}
}

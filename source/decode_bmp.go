package source

import (
	"context"
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"golang.org/x/image/bmp"

	imgerr "github.com/Skryldev/imgfit/errors"
	"github.com/Skryldev/imgfit/internal/bufpool"
	"github.com/Skryldev/imgfit/internal/sniff"
)

// BMPDecoder decodes Windows bitmap images via golang.org/x/image/bmp, and
// is also registered for sniff.FormatICO: an ICO container is a directory of
// embedded BMP/PNG images, and decodeICO below picks the largest one.
type BMPDecoder struct{}

func NewBMPDecoder() *BMPDecoder { return &BMPDecoder{} }

func (BMPDecoder) CanDecode(format sniff.Format) bool {
	return format == sniff.FormatBMP || format == sniff.FormatICO
}

func (BMPDecoder) Decode(ctx context.Context, r io.Reader) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.bmp.decode", err)
	}

	buf, err := bufpool.Drain(ctx, r, 32*1024)
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.bmp.drain", err)
	}
	defer bufpool.Release(buf)
	data := buf.Bytes()

	if sniff.Detect(data) == sniff.FormatICO {
		return decodeICO(data)
	}

	img, err := bmp.Decode(bytesReader(data))
	if err != nil {
		return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.bmp.decode", err)
	}
	return img, nil
}

// decodeICO reads an ICO directory and decodes the largest embedded image
// (BMP or PNG payload), which is the variant a resize pipeline cares about.
func decodeICO(data []byte) (image.Image, error) {
	if len(data) < 6 {
		return nil, imgerr.New(imgerr.CodeSourceLoadFailed, "source.ico.decode", fmt.Errorf("truncated ICO header"))
	}
	count := int(binary.LittleEndian.Uint16(data[4:6]))
	const dirEntrySize = 16
	headerEnd := 6 + count*dirEntrySize
	if len(data) < headerEnd {
		return nil, imgerr.New(imgerr.CodeSourceLoadFailed, "source.ico.decode", fmt.Errorf("truncated ICO directory"))
	}

	bestSize := -1
	bestOffset, bestLen := 0, 0
	for i := 0; i < count; i++ {
		entry := data[6+i*dirEntrySize : 6+(i+1)*dirEntrySize]
		w, h := int(entry[0]), int(entry[1])
		if w == 0 {
			w = 256
		}
		if h == 0 {
			h = 256
		}
		size := int(binary.LittleEndian.Uint32(entry[8:12]))
		offset := int(binary.LittleEndian.Uint32(entry[12:16]))
		if offset+size > len(data) {
			continue
		}
		if w*h > bestSize {
			bestSize = w * h
			bestOffset, bestLen = offset, size
		}
	}
	if bestSize < 0 {
		return nil, imgerr.New(imgerr.CodeSourceLoadFailed, "source.ico.decode", fmt.Errorf("no usable image entry"))
	}

	payload := data[bestOffset : bestOffset+bestLen]
	switch sniff.Detect(payload) {
	case sniff.FormatPNG:
		return NewPNGDecoder().Decode(context.Background(), bytesReader(payload))
	default:
		// The payload is a raw DIB (BITMAPINFOHEADER + pixels), not a full
		// .bmp file: it has no 14-byte BITMAPFILEHEADER, and its declared
		// height is doubled to also cover the trailing 1bpp AND mask.
		// Synthesize the file header bmp.Decode expects and halve the
		// height so it reads only the XOR color image.
		bmpFile, err := synthesizeBMPFile(payload)
		if err != nil {
			return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.ico.decode", err)
		}
		img, err := bmp.Decode(bytesReader(bmpFile))
		if err != nil {
			return nil, imgerr.Wrap(imgerr.CodeSourceLoadFailed, "source.ico.decode", err)
		}
		return img, nil
	}
}

// synthesizeBMPFile wraps a raw ICO-embedded DIB in a minimal 14-byte
// BITMAPFILEHEADER so golang.org/x/image/bmp, which only reads full .bmp
// files, can decode it.
func synthesizeBMPFile(dib []byte) ([]byte, error) {
	if len(dib) < 40 {
		return nil, fmt.Errorf("ico: truncated DIB header")
	}
	biSize := binary.LittleEndian.Uint32(dib[0:4])
	biHeight := int32(binary.LittleEndian.Uint32(dib[8:12]))
	biBitCount := binary.LittleEndian.Uint16(dib[14:16])
	biClrUsed := binary.LittleEndian.Uint32(dib[32:36])

	halfHeight := biHeight / 2
	if halfHeight <= 0 {
		halfHeight = biHeight
	}

	var colorCount uint32
	if biBitCount <= 8 {
		colorCount = biClrUsed
		if colorCount == 0 {
			colorCount = 1 << biBitCount
		}
	}
	pixelOffset := uint32(14) + biSize + colorCount*4

	out := make([]byte, 14+len(dib))
	out[0], out[1] = 'B', 'M'
	binary.LittleEndian.PutUint32(out[2:6], uint32(len(out)))
	binary.LittleEndian.PutUint32(out[10:14], pixelOffset)
	copy(out[14:], dib)
	binary.LittleEndian.PutUint32(out[14+8:14+12], uint32(halfHeight))
	return out, nil
}

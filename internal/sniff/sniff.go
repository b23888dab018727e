// Package sniff identifies image formats from raw bytes by magic number,
// falling back to net/http's content-type sniffer for anything it doesn't
// recognize directly.
package sniff

import "net/http"

// Format is a sniffed container format, independent of any codec package.
type Format string

const (
	FormatJPEG    Format = "jpeg"
	FormatPNG     Format = "png"
	FormatWebP    Format = "webp"
	FormatGIF     Format = "gif"
	FormatBMP     Format = "bmp"
	FormatICO     Format = "ico"
	FormatSVG     Format = "svg"
	FormatUnknown Format = "unknown"
)

// Detect sniffs the first bytes of data and returns the container format.
func Detect(data []byte) Format {
	if len(data) < 4 {
		return sniffSmall(data)
	}
	switch {
	case data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF:
		return FormatJPEG
	case data[0] == 0x89 && data[1] == 0x50 && data[2] == 0x4E && data[3] == 0x47:
		return FormatPNG
	case len(data) >= 12 && data[0] == 'R' && data[1] == 'I' && data[2] == 'F' && data[3] == 'F' &&
		data[8] == 'W' && data[9] == 'E' && data[10] == 'B' && data[11] == 'P':
		return FormatWebP
	case data[0] == 'G' && data[1] == 'I' && data[2] == 'F' && data[3] == '8':
		return FormatGIF
	case data[0] == 0 && data[1] == 0 && data[2] == 1 && data[3] == 0:
		return FormatICO
	case data[0] == 'B' && data[1] == 'M':
		return FormatBMP
	}
	if looksLikeSVG(data) {
		return FormatSVG
	}
	switch http.DetectContentType(data) {
	case "image/jpeg":
		return FormatJPEG
	case "image/png":
		return FormatPNG
	case "image/webp":
		return FormatWebP
	case "image/gif":
		return FormatGIF
	case "image/bmp", "image/x-ms-bmp":
		return FormatBMP
	case "image/vnd.microsoft.icon", "image/x-icon":
		return FormatICO
	}
	return FormatUnknown
}

func sniffSmall(data []byte) Format {
	if len(data) >= 2 && data[0] == 'B' && data[1] == 'M' {
		return FormatBMP
	}
	return FormatUnknown
}

// looksLikeSVG does a cheap textual check for an XML/SVG prologue within the
// first KiB; SVG has no fixed magic bytes.
func looksLikeSVG(data []byte) bool {
	n := len(data)
	if n > 1024 {
		n = 1024
	}
	head := data[:n]
	for i := 0; i < len(head); i++ {
		switch head[i] {
		case ' ', '\t', '\n', '\r':
			continue
		}
		break
	}
	return containsFold(head, "<svg") || containsFold(head, "<?xml")
}

func containsFold(haystack []byte, needle string) bool {
	n := len(needle)
	for i := 0; i+n <= len(haystack); i++ {
		match := true
		for j := 0; j < n; j++ {
			a, b := haystack[i+j], needle[j]
			if 'A' <= a && a <= 'Z' {
				a += 'a' - 'A'
			}
			if a != b {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

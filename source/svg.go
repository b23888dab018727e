package source

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// defaultSVGWidth and defaultSVGHeight back intrinsic-dimension fallback
// when an SVG document has neither width/height attributes nor a viewBox.
const (
	defaultSVGWidth  = 300
	defaultSVGHeight = 150
)

var (
	widthAttrRe  = regexp.MustCompile(`(?i)\bwidth\s*=\s*"([0-9.]+)[a-z%]*"`)
	heightAttrRe = regexp.MustCompile(`(?i)\bheight\s*=\s*"([0-9.]+)[a-z%]*"`)
	viewBoxRe    = regexp.MustCompile(`(?i)\bviewBox\s*=\s*"\s*([0-9.+-]+)\s+([0-9.+-]+)\s+([0-9.+-]+)\s+([0-9.+-]+)\s*"`)
)

// intrinsicSVGSize extracts width/height from an SVG document's attributes,
// falling back to viewBox, then to the spec default of 300x150.
func intrinsicSVGSize(markup string) (w, h int) {
	if m := widthAttrRe.FindStringSubmatch(markup); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			w = int(v)
		}
	}
	if m := heightAttrRe.FindStringSubmatch(markup); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			h = int(v)
		}
	}
	if w > 0 && h > 0 {
		return w, h
	}
	if m := viewBoxRe.FindStringSubmatch(markup); m != nil {
		vbW, errW := strconv.ParseFloat(m[3], 64)
		vbH, errH := strconv.ParseFloat(m[4], 64)
		if errW == nil && errH == nil {
			if w <= 0 {
				w = int(vbW)
			}
			if h <= 0 {
				h = int(vbH)
			}
		}
	}
	if w <= 0 {
		w = defaultSVGWidth
	}
	if h <= 0 {
		h = defaultSVGHeight
	}
	return w, h
}

// svgDataURL percent-encodes markup into a `data:image/svg+xml,...` URL.
// Encoding is UTF-8 safe and replaces the literal "&nbsp;" entity (which
// some SVG exporters emit but which is invalid outside an HTML context)
// with its numeric equivalent "&#160;" before encoding.
func svgDataURL(markup string) string {
	markup = strings.ReplaceAll(markup, "&nbsp;", "&#160;")
	var b strings.Builder
	b.Grow(len(markup) + 32)
	b.WriteString("data:image/svg+xml,")
	for _, r := range markup {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '-' || r == '_' || r == '.' || r == '~' || r == '/' || r == ':' || r == '=':
			b.WriteRune(r)
		default:
			for _, c := range []byte(string(r)) {
				fmt.Fprintf(&b, "%%%02X", c)
			}
		}
	}
	return b.String()
}

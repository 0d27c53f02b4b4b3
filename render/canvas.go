package render

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// Viewport is the drawable area in pixels.
type Viewport struct {
	W, H float64
}

// Align positions text horizontally around its anchor.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Canvas is the drawing surface a frontend provides to the render pass. Coordinates are
// pixels from the top-left of the surface; Text anchors y at the bottom of the line.
type Canvas interface {
	Clear(c color.NRGBA)
	FillRect(x, y, w, h float64, c color.NRGBA)
	StrokeRect(x, y, w, h, lineWidth float64, c color.NRGBA)
	FillCircle(cx, cy, r float64, c color.NRGBA)
	StrokeCircle(cx, cy, r, lineWidth float64, c color.NRGBA)
	Text(s string, x, y, size float64, c color.NRGBA, align Align)
}

// ParseColor reads #rgb, #rgba, #rrggbb and #rrggbbaa hex colors.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	alpha := uint64(0xff)
	switch len(hex) {
	case 4, 8:
		n := len(hex) / 4
		a, err := strconv.ParseUint(hex[len(hex)-n:], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
		}
		if n == 1 {
			a *= 0x11
		}
		alpha = a
		hex = hex[:len(hex)-n]
	case 3, 6:
	default:
		return color.NRGBA{}, fmt.Errorf("parse color %q: unsupported length", s)
	}
	c, err := colorful.Hex("#" + hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: uint8(alpha)}, nil
}

// ColorOf resolves a color string, falling back to fallback when it cannot be parsed.
func ColorOf(s, fallback string) color.NRGBA {
	if c, err := ParseColor(s); err == nil {
		return c
	}
	if c, err := ParseColor(fallback); err == nil {
		return c
	}
	return color.NRGBA{A: 0xff}
}

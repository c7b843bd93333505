package layout

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color is an opaque RGB triple or the transparent sentinel. The two
// are distinguishable on purpose: "no stroke" and "black stroke" are
// different settings. The zero value is transparent.
type Color struct {
	R, G, B uint8
	set     bool
}

// Transparent is the no-color sentinel.
var Transparent = Color{}

// RGB builds a concrete opaque color.
func RGB(r, g, b uint8) Color { return Color{R: r, G: g, B: b, set: true} }

// IsTransparent reports whether the color is the transparent sentinel.
func (c Color) IsTransparent() bool { return !c.set }

// RGBA converts to an image/color value: alpha 255 for concrete
// colors, the zero color for transparent.
func (c Color) RGBA() color.RGBA {
	if !c.set {
		return color.RGBA{}
	}
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}

// ParseColor parses <transparent | R,G,B | 0xL | 0xLL | 0xRGB |
// 0xRRGGBB>; hex values may also start with '#'. Short hex forms
// expand to grays (L, LL) or per-nibble channels (RGB).
func ParseColor(value string) (Color, error) {
	v := strings.TrimSpace(value)
	if v == "transparent" {
		return Transparent, nil
	}

	if hex, ok := trimHexPrefix(v); ok {
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return Color{}, fmt.Errorf("%w: %q", ErrInvalidColor, value)
		}
		switch len(hex) {
		case 1:
			l := uint8(n) * 0x11
			return RGB(l, l, l), nil
		case 2:
			return RGB(uint8(n), uint8(n), uint8(n)), nil
		case 3:
			return RGB(
				uint8(n>>8&0xF)*0x11,
				uint8(n>>4&0xF)*0x11,
				uint8(n>>0&0xF)*0x11,
			), nil
		case 6:
			return RGB(uint8(n>>16), uint8(n>>8), uint8(n)), nil
		default:
			return Color{}, fmt.Errorf("%w: hex color %q must have 1, 2, 3 or 6 digits", ErrInvalidColor, value)
		}
	}

	parts := strings.Split(v, ",")
	if len(parts) != 3 {
		return Color{}, fmt.Errorf("%w: %q is not a comma-separated RGB triple", ErrInvalidColor, value)
	}
	var ch [3]uint8
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 0 || n > 255 {
			return Color{}, fmt.Errorf("%w: %q channels must be integers in [0,255]", ErrInvalidColor, value)
		}
		ch[i] = uint8(n)
	}
	return RGB(ch[0], ch[1], ch[2]), nil
}

func trimHexPrefix(v string) (string, bool) {
	if rest, ok := strings.CutPrefix(v, "#"); ok {
		return rest, true
	}
	if rest, ok := strings.CutPrefix(v, "0x"); ok {
		return rest, true
	}
	return "", false
}

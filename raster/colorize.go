// Package raster implements the pixel-level operations behind image
// generation: shadow colorization, box blur and alpha compositing on
// plain RGBA buffers.
package raster

import (
	"fmt"
	"image"
	"runtime"
	"sync"

	"github.com/ostraca/stela/layout"
)

// BlendMethod selects the per-pixel intensity formula used when a
// glyph buffer is recolored into a shadow buffer.
type BlendMethod string

const (
	// BlendGrayscaleSum normalizes the channel sum by a single
	// channel's maximum, so bright pixels overshoot 1 and tint the
	// shadow brighter than its base color. Channels clamp at 255.
	BlendGrayscaleSum BlendMethod = "grayscale+"
	// BlendGrayscale is the mean channel intensity in [0,1].
	BlendGrayscale BlendMethod = "grayscale"
	// BlendLuminance is the BT.601-weighted intensity in [0,1].
	BlendLuminance BlendMethod = "luminance"
)

// ParseBlendMethod validates one of grayscale+/grayscale/luminance.
func ParseBlendMethod(value string) (BlendMethod, error) {
	switch BlendMethod(value) {
	case BlendGrayscaleSum, BlendGrayscale, BlendLuminance:
		return BlendMethod(value), nil
	}
	return "", fmt.Errorf("blend method %q must be one of grayscale+, grayscale or luminance", value)
}

// Colorize recolors img in place: every pixel becomes the tint scaled
// by the pixel's intensity under the given method, alpha untouched.
// Overbright results clamp silently to 255. The transform has no
// ordering dependency between pixels, so rows are split across
// GOMAXPROCS workers.
func Colorize(img *image.RGBA, tint layout.Color, method BlendMethod) {
	b := img.Bounds()
	if b.Empty() {
		return
	}
	tc := tint.RGBA()

	rows := b.Dy()
	workers := min(runtime.GOMAXPROCS(0), rows)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		lo := b.Min.Y + rows*w/workers
		hi := b.Min.Y + rows*(w+1)/workers
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			for y := lo; y < hi; y++ {
				i := img.PixOffset(b.Min.X, y)
				for x := b.Min.X; x < b.Max.X; x++ {
					f := intensity(img.Pix[i], img.Pix[i+1], img.Pix[i+2], method)
					img.Pix[i+0] = clamp8(float64(tc.R) * f)
					img.Pix[i+1] = clamp8(float64(tc.G) * f)
					img.Pix[i+2] = clamp8(float64(tc.B) * f)
					i += 4
				}
			}
		}(lo, hi)
	}
	wg.Wait()
}

func intensity(r, g, b uint8, method BlendMethod) float64 {
	switch method {
	case BlendGrayscale:
		return float64(uint32(r)+uint32(g)+uint32(b)) / (3 * 255.0)
	case BlendLuminance:
		return (0.299*float64(r) + 0.587*float64(g) + 0.114*float64(b)) / 255.0
	default:
		return float64(uint32(r)+uint32(g)+uint32(b)) / 255.0
	}
}

// clamp8 truncates toward zero after clamping to [0,255].
func clamp8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

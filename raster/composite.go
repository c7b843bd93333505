package raster

import (
	"image"
	"image/draw"

	"github.com/ostraca/stela/layout"
)

// NewCanvas allocates a width×height canvas filled with the
// background color, or left fully transparent for the transparent
// sentinel.
func NewCanvas(width, height layout.Measure, background layout.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(width), int(height)))
	if !background.IsTransparent() {
		draw.Draw(img, img.Bounds(), &image.Uniform{C: background.RGBA()}, image.Point{}, draw.Src)
	}
	return img
}

// Composite source-over blends src onto dst with the source's
// top-left corner at the given origin. The destination keeps its own
// alpha contribution.
func Composite(dst *image.RGBA, src image.Image, at image.Point) {
	r := src.Bounds().Sub(src.Bounds().Min).Add(at)
	draw.Draw(dst, r, src, src.Bounds().Min, draw.Over)
}

// Clone returns an independent copy of img.
func Clone(img *image.RGBA) *image.RGBA {
	out := image.NewRGBA(img.Bounds())
	copy(out.Pix, img.Pix)
	return out
}

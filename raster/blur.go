package raster

import (
	"image"
	"math"
)

// BoxBlur returns a copy of img convolved with a moving-average
// window of the given radius on both axes, as a separable two-pass
// filter. Edges extend the nearest pixel. A non-integer radius
// weights the outermost window cells fractionally. Radius <= 0
// returns img unchanged.
func BoxBlur(img *image.RGBA, radius float64) *image.RGBA {
	if radius <= 0 {
		return img
	}
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width == 0 || height == 0 {
		return img
	}

	kernel := boxKernel(radius)
	half := len(kernel) / 2

	// Pass 1: horizontal, img -> temp.
	temp := make([]float64, width*height*4)
	for y := 0; y < height; y++ {
		row := img.PixOffset(b.Min.X, b.Min.Y+y)
		for x := 0; x < width; x++ {
			var r, g, bl, a float64
			for k, weight := range kernel {
				kx := x + k - half
				if kx < 0 {
					kx = 0
				} else if kx >= width {
					kx = width - 1
				}
				i := row + kx*4
				r += float64(img.Pix[i+0]) * weight
				g += float64(img.Pix[i+1]) * weight
				bl += float64(img.Pix[i+2]) * weight
				a += float64(img.Pix[i+3]) * weight
			}
			t := (y*width + x) * 4
			temp[t+0] = r
			temp[t+1] = g
			temp[t+2] = bl
			temp[t+3] = a
		}
	}

	// Pass 2: vertical, temp -> out.
	out := image.NewRGBA(b)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var r, g, bl, a float64
			for k, weight := range kernel {
				ky := y + k - half
				if ky < 0 {
					ky = 0
				} else if ky >= height {
					ky = height - 1
				}
				t := (ky*width + x) * 4
				r += temp[t+0] * weight
				g += temp[t+1] * weight
				bl += temp[t+2] * weight
				a += temp[t+3] * weight
			}
			i := out.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.Pix[i+0] = roundUint8(r)
			out.Pix[i+1] = roundUint8(g)
			out.Pix[i+2] = roundUint8(bl)
			out.Pix[i+3] = roundUint8(a)
		}
	}
	return out
}

// boxKernel builds the normalized 1D moving-average kernel for a
// possibly fractional radius: interior cells weigh 1, the two outer
// cells weigh the fractional remainder, all divided by 2r+1.
func boxKernel(radius float64) []float64 {
	n := int(math.Floor(radius))
	frac := radius - float64(n)
	size := 2*n + 1
	if frac > 0 {
		size += 2
	}
	kernel := make([]float64, size)
	total := 2*radius + 1
	for i := range kernel {
		kernel[i] = 1 / total
	}
	if frac > 0 {
		kernel[0] = frac / total
		kernel[size-1] = frac / total
	}
	return kernel
}

func roundUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

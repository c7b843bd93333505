// Package generate runs the full text-to-image pipeline: measure the
// text, derive the canvas geometry, then compose background, shadow
// and text layers.
package generate

import (
	"fmt"
	"image"
	"strings"
	"unicode"

	"github.com/ostraca/stela/layout"
	"github.com/ostraca/stela/raster"
	"github.com/ostraca/stela/renderer"
)

// ShadowSpec describes the drop shadow behind the text layer.
type ShadowSpec struct {
	Color  layout.Color
	Offset layout.Vec2
	// Blur is a box blur radius applied to the whole canvas after the
	// shadow is placed. Zero or negative means no blur.
	Blur float64
	// Blend recolors a copy of the rendered text through Method.
	// Without it the shadow is the text re-rendered with the shadow
	// color as both fill and stroke.
	Blend  bool
	Method raster.BlendMethod
}

// Request bundles everything one image generation needs.
type Request struct {
	Text  string
	Style renderer.Style

	Background layout.Color
	Shadow     *ShadowSpec

	PadX layout.Vec2 // left, right
	PadY layout.Vec2 // top, bottom
	// Padding, when set, overrides PadX and PadY symmetrically: X on
	// both horizontal sides, Y on both vertical sides.
	Padding *layout.Vec2

	MinSize  *layout.Vec2
	Ratio    *float64
	Baseline layout.BaselineAlignment
}

// Image renders the request onto a freshly allocated canvas.
func Image(m renderer.Measurer, req Request) (*image.RGBA, error) {
	img, _, err := ImageWithLayout(m, req)
	return img, err
}

// ImageWithLayout renders the request and also reports the computed
// geometry for inspection.
func ImageWithLayout(m renderer.Measurer, req Request) (*image.RGBA, *layout.Result, error) {
	textImg, metrics, err := m.Measure(req.Text, req.Style)
	if err != nil {
		return nil, nil, fmt.Errorf("measure text: %w", err)
	}
	if metrics.Multiline {
		metrics.Descent = 0
	}

	var shadowImg *image.RGBA
	if req.Shadow != nil {
		shadowImg, err = shadowLayer(m, req, textImg)
		if err != nil {
			return nil, nil, err
		}
	}

	padX, padY := req.PadX, req.PadY
	if req.Padding != nil {
		padX = layout.Vec2{X: req.Padding.X, Y: req.Padding.X}
		padY = layout.Vec2{X: req.Padding.Y, Y: req.Padding.Y}
	}

	cons := layout.Constraints{
		PadLeft:   padX.X,
		PadRight:  padX.Y,
		PadTop:    padY.X,
		PadBottom: padY.Y,
		MinSize:   req.MinSize,
		Ratio:     req.Ratio,
		Baseline:  req.Baseline,
	}
	if req.Shadow != nil {
		cons.HasShadow = true
		cons.ShadowOffset = req.Shadow.Offset
	}
	res := layout.Compute(metrics, cons)

	canvas := raster.NewCanvas(res.Width, res.Height, req.Background)
	if shadowImg != nil {
		raster.Composite(canvas, shadowImg, image.Pt(int(res.ShadowOrigin.X), int(res.ShadowOrigin.Y)))
		if req.Shadow.Blur > 0 {
			canvas = raster.BoxBlur(canvas, req.Shadow.Blur)
		}
	}
	raster.Composite(canvas, textImg, image.Pt(int(res.TextOrigin.X), int(res.TextOrigin.Y)))
	return canvas, &res, nil
}

// shadowLayer builds the shadow buffer, either by recoloring a copy
// of the text buffer or by re-rendering the text in the shadow color.
func shadowLayer(m renderer.Measurer, req Request, textImg *image.RGBA) (*image.RGBA, error) {
	sh := req.Shadow
	if sh.Blend {
		method := sh.Method
		if method == "" {
			method = raster.BlendGrayscaleSum
		}
		img := raster.Clone(textImg)
		raster.Colorize(img, sh.Color, method)
		return img, nil
	}

	// The shadow color drives both fill and stroke, even when the text
	// itself has no stroke color: a stroke width alone still carries
	// shadow ink.
	style := req.Style
	style.Fill = sh.Color
	style.Stroke = sh.Color
	img, _, err := m.Measure(req.Text, style)
	if err != nil {
		return nil, fmt.Errorf("render shadow: %w", err)
	}
	return img, nil
}

// Save renders the request and writes it to path as PNG.
func Save(m renderer.Measurer, req Request, path string) error {
	img, err := Image(m, req)
	if err != nil {
		return err
	}
	return raster.WritePNG(path, img)
}

// SanitizeFilename maps arbitrary text onto a safe file name:
// alphanumerics, dots, dashes and spaces pass through, other
// whitespace becomes a space, non-ASCII runes become "U-<code>-" and
// everything else is dropped. Leading and trailing dots and spaces
// are trimmed so the extension appends cleanly.
func SanitizeFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '.' || r == '-' || r == ' ' ||
			(r >= '0' && r <= '9') ||
			(r >= 'a' && r <= 'z') ||
			(r >= 'A' && r <= 'Z'):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		case r >= 128:
			fmt.Fprintf(&b, "U-%d-", r)
		}
	}
	return strings.Trim(b.String(), ". ")
}

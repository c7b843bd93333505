package generate

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ostraca/stela/layout"
	"github.com/ostraca/stela/raster"
	"github.com/ostraca/stela/renderer"
)

// stubMeasurer renders every character as a solid charWidth×lineHeight
// block of the fill color, which makes pipeline geometry exact.
type stubMeasurer struct {
	charWidth  int
	lineHeight int
	descent    int
}

func (s stubMeasurer) Measure(text string, style renderer.Style) (*image.RGBA, layout.TextMetrics, error) {
	lines := strings.Split(text, "\n")
	width := 1
	for _, line := range lines {
		if w := s.charWidth * len(line); w > width {
			width = w
		}
	}
	height := s.lineHeight * len(lines)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	fill := style.Fill.RGBA()
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = fill.R
		img.Pix[i+1] = fill.G
		img.Pix[i+2] = fill.B
		img.Pix[i+3] = 255
	}
	return img, layout.TextMetrics{
		Width:     layout.Measure(width),
		Height:    layout.Measure(height),
		Descent:   layout.Measure(s.descent),
		Multiline: len(lines) > 1,
	}, nil
}

func mustColor(t *testing.T, s string) layout.Color {
	t.Helper()
	c, err := layout.ParseColor(s)
	if err != nil {
		t.Fatalf("ParseColor(%q): %v", s, err)
	}
	return c
}

func TestImagePadsAroundText(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:       "Foo\nBar\nBaz",
		Style:      renderer.Style{Fill: mustColor(t, "255,0,0")},
		Background: mustColor(t, "0xFFFFFF"),
		PadX:       layout.Vec2{X: 10, Y: 10},
		PadY:       layout.Vec2{X: 10, Y: 10},
	}

	img, res, err := ImageWithLayout(m, req)
	if err != nil {
		t.Fatalf("ImageWithLayout: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 50, 80); got != want {
		t.Fatalf("canvas = %v, want %v", got, want)
	}
	if res.Width != 50 || res.Height != 80 {
		t.Fatalf("result size = %dx%d, want 50x80", res.Width, res.Height)
	}
	if res.TextOrigin != (layout.Vec2{X: 10, Y: 10}) {
		t.Fatalf("text origin = %+v", res.TextOrigin)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("border pixel = %v, want background", got)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("text pixel = %v, want fill", got)
	}
	if got := img.RGBAAt(49, 79); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("far corner = %v, want background", got)
	}
}

func TestImageShadowExtendsCanvas(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:  "Hi",
		Style: renderer.Style{Fill: mustColor(t, "0xFFFFFF")},
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "40,40,40"),
			Offset: layout.Vec2{X: 5, Y: 5},
			Blend:  true,
			Method: raster.BlendGrayscale,
		},
	}

	img, res, err := ImageWithLayout(m, req)
	if err != nil {
		t.Fatalf("ImageWithLayout: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 25, 25); got != want {
		t.Fatalf("canvas = %v, want %v", got, want)
	}
	if res.TextOrigin != (layout.Vec2{}) {
		t.Fatalf("text origin = %+v, want 0,0", res.TextOrigin)
	}
	if res.ShadowOrigin != (layout.Vec2{X: 5, Y: 5}) {
		t.Fatalf("shadow origin = %+v, want 5,5", res.ShadowOrigin)
	}
	// Bottom-right strip is shadow only, top-left is text only.
	if got := img.RGBAAt(24, 24); got != (color.RGBA{40, 40, 40, 255}) {
		t.Fatalf("shadow pixel = %v", got)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("text pixel = %v", got)
	}
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("overlap pixel = %v, want text on top", got)
	}
}

func TestImageNegativeOffsetShiftsText(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:  "Hi",
		Style: renderer.Style{Fill: mustColor(t, "0xFFFFFF")},
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "40,40,40"),
			Offset: layout.Vec2{X: -5, Y: -3},
			Blend:  true,
			Method: raster.BlendGrayscale,
		},
	}

	img, res, err := ImageWithLayout(m, req)
	if err != nil {
		t.Fatalf("ImageWithLayout: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 25, 23); got != want {
		t.Fatalf("canvas = %v, want %v", got, want)
	}
	if res.TextOrigin != (layout.Vec2{X: 5, Y: 3}) {
		t.Fatalf("text origin = %+v, want 5,3", res.TextOrigin)
	}
	if res.ShadowOrigin != (layout.Vec2{}) {
		t.Fatalf("shadow origin = %+v, want 0,0", res.ShadowOrigin)
	}
}

func TestImagePaddingOverride(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:    "Hi",
		Style:   renderer.Style{Fill: mustColor(t, "0xFFFFFF")},
		PadX:    layout.Vec2{X: 1, Y: 2},
		PadY:    layout.Vec2{X: 3, Y: 4},
		Padding: &layout.Vec2{X: 7, Y: 9},
	}

	img, res, err := ImageWithLayout(m, req)
	if err != nil {
		t.Fatalf("ImageWithLayout: %v", err)
	}
	if got, want := img.Bounds(), image.Rect(0, 0, 34, 38); got != want {
		t.Fatalf("canvas = %v, want %v", got, want)
	}
	if res.TextOrigin != (layout.Vec2{X: 7, Y: 9}) {
		t.Fatalf("text origin = %+v, want 7,9", res.TextOrigin)
	}
}

func TestImageBlendDefaultsToOverbrightGrayscale(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:  "Hi",
		Style: renderer.Style{Fill: mustColor(t, "0xFFFFFF")},
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "100,100,100"),
			Offset: layout.Vec2{X: 5, Y: 5},
			Blend:  true,
		},
	}

	img, err := Image(m, req)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	// grayscale+ of a white source overshoots and clamps, so the
	// shadow is brighter than its configured color.
	if got := img.RGBAAt(24, 24); got != (color.RGBA{255, 255, 255, 255}) {
		t.Fatalf("shadow pixel = %v, want clamped white", got)
	}
}

func TestImageShadowWithoutBlendRerenders(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:  "Hi",
		Style: renderer.Style{Fill: mustColor(t, "255,0,0")},
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "10,20,30"),
			Offset: layout.Vec2{X: 5, Y: 5},
		},
	}

	img, err := Image(m, req)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	// Re-rendered shadow carries the shadow color directly, untouched
	// by the red fill.
	if got := img.RGBAAt(24, 24); got != (color.RGBA{10, 20, 30, 255}) {
		t.Fatalf("shadow pixel = %v", got)
	}
}

// recordingMeasurer keeps the style of every measurement so tests can
// inspect how the shadow layer was re-rendered.
type recordingMeasurer struct {
	stubMeasurer
	styles []renderer.Style
}

func (r *recordingMeasurer) Measure(text string, style renderer.Style) (*image.RGBA, layout.TextMetrics, error) {
	r.styles = append(r.styles, style)
	return r.stubMeasurer.Measure(text, style)
}

func TestImageShadowRerenderCarriesStrokeInk(t *testing.T) {
	m := &recordingMeasurer{stubMeasurer: stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}}
	req := Request{
		Text: "Hi",
		// A stroke width without a stroke color: the text layer has no
		// outline, but the shadow re-render still strokes in the
		// shadow color.
		Style: renderer.Style{Fill: mustColor(t, "255,0,0"), StrokeWidth: 2},
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "10,20,30"),
			Offset: layout.Vec2{X: 5, Y: 5},
		},
	}

	if _, err := Image(m, req); err != nil {
		t.Fatalf("Image: %v", err)
	}
	if len(m.styles) != 2 {
		t.Fatalf("measure calls = %d, want text + shadow", len(m.styles))
	}
	shadow := m.styles[1]
	if shadow.Fill != mustColor(t, "10,20,30") {
		t.Fatalf("shadow fill = %+v, want shadow color", shadow.Fill)
	}
	if shadow.Stroke != mustColor(t, "10,20,30") {
		t.Fatalf("shadow stroke = %+v, want shadow color despite the transparent text stroke", shadow.Stroke)
	}
	if shadow.StrokeWidth != 2 {
		t.Fatalf("shadow stroke width = %d, want 2", shadow.StrokeWidth)
	}
}

func TestImageBlurSoftensShadowEdges(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	req := Request{
		Text:       "Hi",
		Style:      renderer.Style{Fill: mustColor(t, "255,0,0")},
		Background: mustColor(t, "0xFFFFFF"),
		Shadow: &ShadowSpec{
			Color:  mustColor(t, "123,123,123"),
			Offset: layout.Vec2{X: 5, Y: 5},
			Blur:   1,
			Blend:  true,
			Method: raster.BlendGrayscale,
		},
	}

	img, err := Image(m, req)
	if err != nil {
		t.Fatalf("Image: %v", err)
	}
	// Red fill blends to 41 gray; after the blur a pixel just left of
	// the shadow edge mixes background and shadow.
	edge := img.RGBAAt(4, 24)
	if edge.R <= 41 || edge.R >= 255 {
		t.Fatalf("edge pixel not blurred: %v", edge)
	}
	// Text composites after the blur, so it stays crisp.
	if got := img.RGBAAt(10, 10); got != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("text pixel = %v, want sharp fill", got)
	}
}

func TestSaveWritesPNG(t *testing.T) {
	m := stubMeasurer{charWidth: 10, lineHeight: 20, descent: 5}
	path := filepath.Join(t.TempDir(), "out.png")
	req := Request{
		Text:       "Hi",
		Style:      renderer.Style{Fill: mustColor(t, "255,0,0")},
		Background: mustColor(t, "0x000000"),
	}

	if err := Save(m, req, path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Width != 20 || cfg.Height != 20 {
		t.Fatalf("decoded size %dx%d, want 20x20", cfg.Width, cfg.Height)
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain-name.png", "plain-name.png"},
		{"Héllo World!", "HU-233-llo World"},
		{"a\nb\tc", "a b c"},
		{"semi;colon/slash", "semicolonslash"},
		{"日本", "U-26085-U-26412-"},
		{"  .dotted name. ", "dotted name"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

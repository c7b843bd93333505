// Package canvasrenderer measures and rasterizes text via
// github.com/tdewolff/canvas.
package canvasrenderer

import (
	"fmt"
	"image"
	"math"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ostraca/stela/fonts"
	"github.com/ostraca/stela/layout"
	"github.com/ostraca/stela/renderer"
)

// The canvas package works in millimeters. Rasterizing at one dot per
// millimeter makes canvas units and output pixels coincide, so only
// font sizes need converting.
const ptPerMm = 72.0 / 25.4

// Measurer rasterizes text buffers with the canvas rasterizer. Font
// families are parsed once and cached per source and style.
type Measurer struct {
	fontMu       sync.Mutex
	fontFamilies map[string]*canvas.FontFamily
}

var _ renderer.Measurer = (*Measurer)(nil)

func New() *Measurer {
	return &Measurer{fontFamilies: map[string]*canvas.FontFamily{}}
}

// Measure renders text into a tight RGBA buffer. Lines split on "\n"
// and stack by the face's ascent plus descent plus the requested
// spacing. A stroke width reserves a margin on every side so offset
// outline passes stay inside the buffer.
func (m *Measurer) Measure(text string, style renderer.Style) (*image.RGBA, layout.TextMetrics, error) {
	family, fontStyle, err := m.ensureFontFamily(style.Font, style.FontStyle)
	if err != nil {
		return nil, layout.TextMetrics{}, err
	}
	sizePt := float64(style.FontSize) * ptPerMm
	face := family.Face(sizePt, style.Fill.RGBA(), fontStyle, canvas.FontNormal)

	lines := splitLines(text)
	metrics := face.Metrics()
	lineHeight := metrics.Ascent + metrics.Descent
	spacing := float64(style.Spacing)
	margin := int(style.StrokeWidth)
	if margin < 0 {
		margin = 0
	}

	var maxWidth float64
	for _, line := range lines {
		maxWidth = math.Max(maxWidth, face.TextWidth(line))
	}
	width := int(math.Ceil(maxWidth)) + 2*margin
	height := int(math.Ceil(float64(len(lines))*lineHeight+float64(len(lines)-1)*spacing)) + 2*margin
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	c := canvas.New(float64(width), float64(height))
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	var strokeFace *canvas.FontFace
	if margin > 0 && !style.Stroke.IsTransparent() {
		strokeFace = family.Face(sizePt, style.Stroke.RGBA(), fontStyle, canvas.FontNormal)
	}

	for i, line := range lines {
		if line == "" {
			continue
		}
		baseline := float64(margin) + float64(i)*(lineHeight+spacing) + metrics.Ascent
		anchorX, align := anchor(style.Align, width, margin)

		// The outline is the same glyphs stamped at eight offsets
		// around the fill.
		if strokeFace != nil {
			sw := float64(margin)
			outline := canvas.NewTextLine(strokeFace, line, align)
			for _, d := range [8][2]float64{
				{-sw, -sw}, {0, -sw}, {sw, -sw},
				{-sw, 0}, {sw, 0},
				{-sw, sw}, {0, sw}, {sw, sw},
			} {
				ctx.DrawText(anchorX+d[0], baseline+d[1], outline)
			}
		}
		ctx.DrawText(anchorX, baseline, canvas.NewTextLine(face, line, align))
	}

	img := rasterizer.Draw(c, canvas.DPMM(1.0), canvas.DefaultColorSpace)
	tm := layout.TextMetrics{
		Width:     layout.Measure(width),
		Height:    layout.Measure(height),
		Descent:   layout.Measure(int(math.Ceil(metrics.Descent)) + margin),
		Multiline: len(lines) > 1,
	}
	return img, tm, nil
}

// splitLines breaks text on "\n" only. A carriage return is not a
// line separator and renders as a regular glyph.
func splitLines(text string) []string {
	return strings.Split(text, "\n")
}

func anchor(align layout.Alignment, width, margin int) (float64, canvas.TextAlign) {
	switch align {
	case layout.AlignCenter:
		return float64(width) / 2, canvas.Center
	case layout.AlignRight:
		return float64(width - margin), canvas.Right
	default:
		return float64(margin), canvas.Left
	}
}

func (m *Measurer) ensureFontFamily(src, styleName string) (*canvas.FontFamily, canvas.FontStyle, error) {
	if src == "" {
		src = "embed:" + fonts.DefaultName
	}
	style := parseFontStyle(styleName)
	key := src + "|" + styleName

	m.fontMu.Lock()
	defer m.fontMu.Unlock()
	if family, ok := m.fontFamilies[key]; ok {
		return family, style, nil
	}

	data, err := loadFontBytes(src)
	if err != nil {
		return nil, style, fmt.Errorf("%w: %s: %v", renderer.ErrFontLoad, src, err)
	}
	family := canvas.NewFontFamily(familyName(src))
	if err := family.LoadFont(data, 0, style); err != nil {
		return nil, style, fmt.Errorf("%w: %s: %v", renderer.ErrFontLoad, src, err)
	}
	m.fontFamilies[key] = family
	return family, style, nil
}

func loadFontBytes(src string) ([]byte, error) {
	if strings.HasPrefix(src, "embed:") {
		return fonts.Load(src)
	}
	return os.ReadFile(src)
}

func familyName(src string) string {
	base := filepath.Base(strings.TrimPrefix(src, "embed:"))
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func parseFontStyle(style string) canvas.FontStyle {
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// Package renderer defines the text measurement backend consumed by
// the generation pipeline.
package renderer

import (
	"errors"
	"image"

	"github.com/ostraca/stela/layout"
)

// ErrFontLoad reports that a font source could not be opened or
// parsed.
var ErrFontLoad = errors.New("font load failed")

// Style carries the visual parameters of a single measurement
// request. All measures are pixels.
type Style struct {
	// Font is a TTF/OTF file path, or "embed:<name>" for one of the
	// bundled faces. Empty selects the bundled default.
	Font      string
	FontStyle string

	FontSize    layout.Measure
	Fill        layout.Color
	Stroke      layout.Color
	StrokeWidth layout.Measure
	Align       layout.Alignment
	// Spacing is the extra gap inserted between consecutive lines.
	Spacing layout.Measure
}

// Measurer rasterizes text into a tightly sized RGBA buffer and
// reports the metrics the layout engine works from. The buffer's
// bounds match the returned metrics exactly.
type Measurer interface {
	Measure(text string, style Style) (*image.RGBA, layout.TextMetrics, error)
}

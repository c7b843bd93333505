package layout

// Compute derives the final canvas size and the placement of the text
// and shadow layers from the measured text and the geometric
// constraints. It runs in a single pass: base placement, shadow
// extension, minimum size, aspect fitting, baseline alignment. All
// arithmetic is integer; centering a growth of odd size biases the
// extra pixel to the right/bottom.
func Compute(text TextMetrics, c Constraints) Result {
	dx, dy := int(c.ShadowOffset.X), int(c.ShadowOffset.Y)
	if !c.HasShadow {
		dx, dy = 0, 0
	}

	x := int(c.PadLeft)
	y := int(c.PadTop)
	width := int(text.Width) + int(c.PadLeft) + int(c.PadRight)
	height := int(text.Height) + int(c.PadTop) + int(c.PadBottom)

	// Widen the canvas so the offset shadow stays inside it. A
	// negative offset pushes the text layer instead of the edge.
	if c.HasShadow {
		if dx >= 0 {
			width += dx
		} else {
			x -= dx
			width -= dx
		}
		if dy >= 0 {
			height += dy
		} else {
			y -= dy
			height -= dy
		}
	}

	ratio := c.Ratio
	if c.MinSize != nil {
		minW, minH := int(c.MinSize.X), int(c.MinSize.Y)
		if width < minW {
			x += (minW - width) / 2
			width = minW
		}
		// The height branch grows at equality as well. Callers depend
		// on the boundary behavior; keep the comparison as-is.
		if height <= minH {
			y += (minH - height) / 2
			height = minH
		}
		if ratio == nil && minH != 0 {
			r := float64(minW) / float64(minH)
			ratio = &r
		}
	}

	if ratio != nil && *ratio > 0 {
		desiredWidth := max(int(float64(height)*(*ratio)), width)
		desiredHeight := max(int(float64(width) / *ratio), height)
		if desiredWidth > desiredHeight {
			x += (desiredWidth - width) / 2
			width = desiredWidth

			newHeight := int(float64(desiredWidth) / *ratio)
			y += (newHeight - height) / 2
			height = newHeight
		} else {
			y += (desiredHeight - height) / 2
			height = desiredHeight

			newWidth := int(float64(desiredHeight) * (*ratio))
			x += (newWidth - width) / 2
			width = newWidth
		}
	}

	// The baseline nudge and its clamp run only for broad/perfect on
	// single-line text: "none" leaves the origin untouched even when
	// it sits outside the clamp window.
	if !text.Multiline && (c.Baseline == BaselineBroad || c.Baseline == BaselinePerfect) {
		var offset int
		switch c.Baseline {
		case BaselineBroad:
			offset = int(text.Descent) / 2
		case BaselinePerfect:
			offset = int(text.Descent) - int(text.Height)/2
		}

		// Bounds that keep text plus shadow inside the padded region.
		lower := int(c.PadTop) - min(0, dy)
		upper := height - (int(c.PadBottom) + int(text.Height) + max(0, dy))
		y = min(max(y+offset, lower), upper)
	}

	return Result{
		Width:        Measure(width),
		Height:       Measure(height),
		TextOrigin:   Vec2{X: Measure(x), Y: Measure(y)},
		ShadowOrigin: Vec2{X: Measure(x + dx), Y: Measure(y + dy)},
	}
}

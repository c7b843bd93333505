package layout

import "fmt"

// This file defines the inputs and outputs of the canvas sizing
// engine, shared by the orchestrator, the renderer adapter and the
// debug JSON.

// Alignment controls the horizontal alignment of multi-line text.
type Alignment string

const (
	AlignLeft   Alignment = "left"
	AlignCenter Alignment = "center"
	AlignRight  Alignment = "right"
)

// ParseAlignment validates one of left/center/right.
func ParseAlignment(value string) (Alignment, error) {
	switch Alignment(value) {
	case AlignLeft, AlignCenter, AlignRight:
		return Alignment(value), nil
	}
	return "", fmt.Errorf("%w: %q must be one of left, center or right", ErrInvalidAlignment, value)
}

// BaselineAlignment is the vertical alignment policy for single-line
// text. Multi-line text ignores it.
type BaselineAlignment string

const (
	BaselineNone    BaselineAlignment = "none"
	BaselineBroad   BaselineAlignment = "broad"
	BaselinePerfect BaselineAlignment = "perfect"
)

// ParseBaseline validates one of none/broad/perfect.
func ParseBaseline(value string) (BaselineAlignment, error) {
	switch BaselineAlignment(value) {
	case BaselineNone, BaselineBroad, BaselinePerfect:
		return BaselineAlignment(value), nil
	}
	return "", fmt.Errorf("%w: %q must be one of none, broad or perfect", ErrInvalidAlignment, value)
}

// TextMetrics describes a tightly cropped glyph buffer. Width and
// Height are the buffer bounds. Descent is the distance from the
// buffer bottom to the text baseline and is meaningful only when
// Multiline is false; the orchestrator forces it to zero otherwise.
type TextMetrics struct {
	Width     Measure `json:"width"`
	Height    Measure `json:"height"`
	Descent   Measure `json:"descent"`
	Multiline bool    `json:"multiline"`
}

// Constraints collects the geometric settings consumed by Compute.
// The shadow offset is ignored when HasShadow is false.
type Constraints struct {
	PadLeft, PadRight Measure
	PadTop, PadBottom Measure
	ShadowOffset      Vec2
	HasShadow         bool
	// MinSize, when set, is a lower bound on both canvas dimensions.
	MinSize *Vec2
	// Ratio distinguishes unset (nil) from an explicit non-positive
	// value: only an unset ratio may be derived from MinSize, and any
	// value <= 0 means fit-to-content.
	Ratio    *float64
	Baseline BaselineAlignment
}

// Result is the finished canvas geometry. ShadowOrigin is always
// TextOrigin displaced by the shadow offset.
type Result struct {
	Width        Measure `json:"width"`
	Height       Measure `json:"height"`
	TextOrigin   Vec2    `json:"textOrigin"`
	ShadowOrigin Vec2    `json:"shadowOrigin"`
}

package layout

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// This file defines unit-safe value types and parse helpers for the
// measures, coordinate pairs and aspect ratios accepted from flags and
// job scripts.

// Validation errors surfaced by the parse helpers. The sizing engine
// itself assumes pre-validated inputs and never returns these.
var (
	ErrInvalidMeasure   = errors.New("invalid measure")
	ErrInvalidVec2      = errors.New("invalid vec2")
	ErrInvalidRatio     = errors.New("invalid ratio")
	ErrIncompleteRatio  = errors.New("incomplete aspect ratio")
	ErrInvalidColor     = errors.New("invalid color")
	ErrInvalidAlignment = errors.New("invalid alignment")
)

// Measure is a length in whole pixels. Point values convert at the
// fixed screen ratio of 96 pixels per 72 points.
type Measure int

const pxPerPt = 96.0 / 72.0

// Px wraps a raw pixel count.
func Px(v int) Measure { return Measure(v) }

// Pt converts a point value to pixels, rounding to the nearest pixel.
func Pt(v int) Measure { return Measure(math.Round(float64(v) * pxPerPt)) }

// ParseMeasure parses <PIXELS | Npx | Npt>. The value may be negative;
// use ParseSize where a negative length is meaningless.
func ParseMeasure(value string) (Measure, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidMeasure)
	}
	conv := Px
	for _, suf := range []struct {
		s string
		f func(int) Measure
	}{{"px", Px}, {"pt", Pt}} {
		if strings.HasSuffix(v, suf.s) {
			conv = suf.f
			v = strings.TrimSuffix(v, suf.s)
			break
		}
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidMeasure, value)
	}
	return conv(n), nil
}

// ParseSize parses a measure and rejects negative results.
func ParseSize(value string) (Measure, error) {
	m, err := ParseMeasure(value)
	if err != nil {
		return 0, err
	}
	if m < 0 {
		return 0, fmt.Errorf("%w: %q must be non-negative", ErrInvalidMeasure, value)
	}
	return m, nil
}

// Vec2 is an ordered pair of measures. Whether negative components are
// meaningful depends on the use: shadow offsets may be negative,
// paddings and minimum sizes may not.
type Vec2 struct {
	X Measure `json:"x"`
	Y Measure `json:"y"`
}

// ParseVec2 parses <X,Y> where each component is a measure.
func ParseVec2(value string) (Vec2, error) {
	return parseVec2(value, ParseMeasure)
}

// ParseSizeVec2 parses <X,Y> rejecting negative components.
func ParseSizeVec2(value string) (Vec2, error) {
	return parseVec2(value, ParseSize)
}

func parseVec2(value string, parse func(string) (Measure, error)) (Vec2, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 2 {
		return Vec2{}, fmt.Errorf("%w: %q is not a pair of comma-separated measures", ErrInvalidVec2, value)
	}
	x, err := parse(parts[0])
	if err != nil {
		return Vec2{}, fmt.Errorf("%w: %q: %v", ErrInvalidVec2, value, err)
	}
	y, err := parse(parts[1])
	if err != nil {
		return Vec2{}, fmt.Errorf("%w: %q: %v", ErrInvalidVec2, value, err)
	}
	return Vec2{X: x, Y: y}, nil
}

// ParseRatio parses <N | N/D> into a float. A zero denominator is a
// degenerate ratio and is rejected here, before any layout runs.
func ParseRatio(value string) (float64, error) {
	parts := strings.Split(strings.TrimSpace(value), "/")
	switch len(parts) {
	case 1:
		f, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, value)
		}
		return f, nil
	case 2:
		num, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, value)
		}
		den, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidRatio, value)
		}
		if den == 0 {
			return 0, fmt.Errorf("%w: %q has a zero denominator", ErrIncompleteRatio, value)
		}
		return num / den, nil
	default:
		return 0, fmt.Errorf("%w: %q must be a float or a pair of floats separated by /", ErrInvalidRatio, value)
	}
}

package layout

import (
	"errors"
	"image/color"
	"testing"
)

// TestColorParsing covers the transparent sentinel, RGB triples and
// every accepted hex width.
func TestColorParsing(t *testing.T) {
	samples := []struct {
		in   string
		want Color
	}{
		{"transparent", Transparent},
		{"19,34,50", RGB(19, 34, 50)},
		{"0xE6E2E1", RGB(0xE6, 0xE2, 0xE1)},
		{"#132232", RGB(0x13, 0x22, 0x32)},
		{"#F00", RGB(255, 0, 0)},
		{"0xA", RGB(0xAA, 0xAA, 0xAA)},
		{"0x80", RGB(0x80, 0x80, 0x80)},
	}
	for _, s := range samples {
		got, err := ParseColor(s.in)
		if err != nil {
			t.Fatalf("ParseColor(%q) failed: %v", s.in, err)
		}
		if got != s.want {
			t.Fatalf("ParseColor(%q) = %+v, want %+v", s.in, got, s.want)
		}
	}

	for _, bad := range []string{"", "0xABCD", "0x1234567", "1,2", "1,2,3,4", "256,0,0", "-1,0,0", "#GGG"} {
		if _, err := ParseColor(bad); !errors.Is(err, ErrInvalidColor) {
			t.Fatalf("ParseColor(%q) error = %v, want ErrInvalidColor", bad, err)
		}
	}
}

// TestColorSentinelDistinct asserts that transparent and zero-value
// black stay distinguishable through conversion.
func TestColorSentinelDistinct(t *testing.T) {
	if !Transparent.IsTransparent() {
		t.Fatalf("Transparent must report IsTransparent")
	}
	if RGB(0, 0, 0).IsTransparent() {
		t.Fatalf("opaque black must not report IsTransparent")
	}
	if got := Transparent.RGBA(); got != (color.RGBA{}) {
		t.Fatalf("Transparent.RGBA() = %+v, want zero", got)
	}
	if got := RGB(0, 0, 0).RGBA(); got != (color.RGBA{A: 255}) {
		t.Fatalf("black.RGBA() = %+v, want alpha 255", got)
	}
}

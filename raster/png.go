package raster

import (
	"fmt"
	"image"
	"image/png"
	"os"
)

// WritePNG encodes img to a PNG file at the given path.
func WritePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode PNG %s: %w", path, err)
	}
	return nil
}

// Package fonts exposes the bundled Go typefaces so the tool works
// without any font files on disk.
package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

// DefaultName is the face used when no font is configured.
const DefaultName = "goregular"

// Load returns the TTF bytes of a bundled face. The name may carry an
// "embed:" prefix, so both "goregular" and "embed:goregular" resolve.
func Load(name string) ([]byte, error) {
	switch strings.TrimPrefix(name, "embed:") {
	case "goregular":
		return goregular.TTF, nil
	case "gobold":
		return gobold.TTF, nil
	case "goitalic":
		return goitalic.TTF, nil
	case "gobolditalic":
		return gobolditalic.TTF, nil
	case "gomono":
		return gomono.TTF, nil
	}
	return nil, fmt.Errorf("unknown bundled font %q, have %s", name, strings.Join(Names(), ", "))
}

// Names lists the bundled faces in a stable order.
func Names() []string {
	return []string{"goregular", "gobold", "goitalic", "gobolditalic", "gomono"}
}

package imaging

import (
	"fmt"
	"image"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// RGBAColor represents an RGBA color with 8-bit, non-premultiplied components.
type RGBAColor struct {
	R uint8 `json:"r"` // Red component (0-255)
	G uint8 `json:"g"` // Green component (0-255)
	B uint8 `json:"b"` // Blue component (0-255)
	A uint8 `json:"a"` // Alpha/opacity component (0-255)
}

// HSLColor represents a color in HSL (Hue, Saturation, Lightness) color space.
type HSLColor struct {
	H int `json:"h"` // Hue: 0-360 degrees (0=red, 120=green, 240=blue)
	S int `json:"s"` // Saturation: 0-100 percent (0=gray, 100=vivid)
	L int `json:"l"` // Lightness: 0-100 percent (0=black, 50=normal, 100=white)
}

// ColorResult contains a pixel value in several representations, plus the
// histogram bucket the pixel falls into.
type ColorResult struct {
	X          int       `json:"x"`
	Y          int       `json:"y"`
	Hex        string    `json:"hex"`        // Hex format "#RRGGBB" (no alpha)
	RGBA       RGBAColor `json:"rgba"`       // RGBA components with alpha
	HSL        HSLColor  `json:"hsl"`        // HSL representation
	Brightness int       `json:"brightness"` // Histogram bucket 0-255
}

// SampleColor extracts the color value at a specific pixel coordinate.
//
// Coordinates are 0-based with origin at top-left. The returned channels are
// non-premultiplied, matching what GetPixels hands to the transforms.
func SampleColor(img image.Image, x, y int) (*ColorResult, error) {
	bounds := img.Bounds()
	if !(image.Point{X: x, Y: y}).In(bounds) {
		return nil, fmt.Errorf("coordinates (%d,%d) outside image bounds", x, y)
	}

	c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)

	return &ColorResult{
		X:          x,
		Y:          y,
		Hex:        fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B),
		RGBA:       RGBAColor{R: c.R, G: c.G, B: c.B, A: c.A},
		HSL:        toHSL(c),
		Brightness: pixels.Brightness(c.R, c.G, c.B),
	}, nil
}

// toHSL converts the color part of c to integer HSL, ignoring alpha.
func toHSL(c color.NRGBA) HSLColor {
	cf := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, l := cf.Hsl()
	if math.IsNaN(h) {
		h = 0
	}
	return HSLColor{
		H: int(h),
		S: int(s * 100),
		L: int(l * 100),
	}
}

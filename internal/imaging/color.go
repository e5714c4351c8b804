package imaging

import (
	"fmt"
	"image/color"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// RGBColor represents an RGB color with 8-bit components.
type RGBColor struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// HSLColor is a color in HSL space: hue in degrees (0-360), saturation and
// lightness in percent (0-100).
type HSLColor struct {
	H int `json:"h"`
	S int `json:"s"`
	L int `json:"l"`
}

// HSVColor is the HSV form the component colours are generated in: hue in
// degrees, saturation and value in 0..1.
type HSVColor struct {
	H float64 `json:"h"`
	S float64 `json:"s"`
	V float64 `json:"v"`
}

// ColorResult contains a color value in multiple representations.
type ColorResult struct {
	Hex string   `json:"hex"` // "#RRGGBB"
	RGB RGBColor `json:"rgb"`
	HSL HSLColor `json:"hsl"`
	HSV HSVColor `json:"hsv"`
}

// ColorInfo describes c in hex, RGB, HSL and HSV form. Alpha is ignored.
func ColorInfo(c color.Color) ColorResult {
	cf, ok := c.(colorful.Color)
	if !ok {
		cf, _ = colorful.MakeColor(c)
	}
	cf = cf.Clamped()

	r8, g8, b8 := cf.RGB255()
	h, s, l := cf.Hsl()
	hv, sv, vv := cf.Hsv()

	return ColorResult{
		Hex: fmt.Sprintf("#%02X%02X%02X", r8, g8, b8),
		RGB: RGBColor{R: r8, G: g8, B: b8},
		HSL: HSLColor{
			H: int(math.Round(h)) % 360,
			S: int(math.Round(s * 100)),
			L: int(math.Round(l * 100)),
		},
		HSV: HSVColor{H: hv, S: sv, V: vv},
	}
}

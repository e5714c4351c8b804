package blob

import (
	"fmt"
	"math/rand"
	"time"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Colour parameters, as HSV with hue in degrees.
const (
	randomValue   = 0.9
	randomSatMin  = 0.4
	randomSatSpan = 0.5
	rainbowSpan   = 0.8 * 360
	rainbowSat    = 0.8
	rainbowValue  = 0.9
)

// ColorMode selects how Colorize picks component colours.
type ColorMode string

const (
	// BySize ramps the hue with component size (ColorBySize).
	BySize ColorMode = "size"
	// Random gives every component a random hue (ColorRandom).
	Random ColorMode = "random"
)

// ParseColorMode maps "size" or "random" to a ColorMode.
func ParseColorMode(name string) (ColorMode, error) {
	switch m := ColorMode(name); m {
	case BySize, Random:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (want %q or %q): %w", name, BySize, Random, ErrInvalidArgument)
	}
}

// Colorize replaces every colour with a fresh colouring in mode. BySize
// spans stats.Smallest to stats.Biggest; Random is driven by seed, where
// 0 picks a time based seed. It returns the seed actually used so the
// colouring can be repeated. An unknown mode leaves the colours alone.
func (f *Forest) Colorize(mode ColorMode, stats Stats, seed int64) (int64, error) {
	if _, err := ParseColorMode(string(mode)); err != nil {
		return seed, err
	}

	f.ClearColors()
	switch mode {
	case BySize:
		f.ColorBySize(stats.Smallest, stats.Biggest)
	case Random:
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		f.ColorRandom(rand.New(rand.NewSource(seed)))
	}
	return seed, nil
}

// ColorRandom gives every enabled component a bright colour with a
// uniformly random hue and a saturation in [0.4, 0.9). Components are
// visited in root order, so a seeded rng gives reproducible colours.
func (f *Forest) ColorRandom(rng *rand.Rand) {
	for _, c := range f.meta.sorted() {
		if !c.Enabled {
			continue
		}
		hue := rng.Float64() * 360
		sat := randomSatMin + rng.Float64()*randomSatSpan
		c.Color = colorful.Hsv(hue, sat, randomValue)
		c.Colored = true
	}
}

// ColorBySize colours every enabled component along a red to violet ramp
// by its size: min maps to red, max to violet. Sizes outside [min, max]
// are clamped. When max == min every component gets the hue of min.
//
// min and max are normally Stats.Smallest and Stats.Biggest.
func (f *Forest) ColorBySize(min, max int) {
	span := float64(max - min)
	for _, r := range f.meta.regions {
		if !r.Enabled {
			continue
		}
		r.Color = colorful.Hsv(sizeRamp(r.Size, min, span)*rainbowSpan, rainbowSat, rainbowValue)
		r.Colored = true
	}
}

// sizeRamp maps size into [0, 1].
func sizeRamp(size, min int, span float64) float64 {
	if span <= 0 {
		return 0
	}
	t := float64(size-min) / span
	switch {
	case t < 0:
		return 0
	case t > 1:
		return 1
	}
	return t
}

// ClearColors drops every assigned colour.
func (f *Forest) ClearColors() {
	for _, r := range f.meta.regions {
		r.Color = colorful.Color{}
		r.Colored = false
	}
}

package shape

import (
	"image"
	"math"
)

// Kind names the shape a component's pixel count and bounding box suggest.
type Kind string

const (
	Circle         Kind = "circle"
	PossibleCircle Kind = "possible_circle"
	Rectangle      Kind = "rectangle"
	Line           Kind = "line"
	Blob           Kind = "blob"
)

// Caption returns the short text drawn next to a component of this kind.
func (k Kind) Caption() string {
	if k == PossibleCircle {
		return "circle?"
	}
	return string(k)
}

// Heuristic thresholds.
const (
	minCircleSize   = 300
	minCircleAspect = 0.6
	maxCircleAspect = 1.66
	circleError     = 0.08
	maybeCircleErr  = 0.12
	minRectFill     = 0.9
	maxLineWidth    = 2
	minLineLength   = 10
)

// Classification is the result of Classify.
type Classification struct {
	Kind Kind `json:"kind"`

	// AspectRatio is bounding box width over height.
	AspectRatio float64 `json:"aspect_ratio"`

	// FillRatio is the share of the bounding box covered by the component.
	FillRatio float64 `json:"fill_ratio"`

	// EllipseError is the relative difference between the pixel count and
	// the area of the ellipse inscribed in the box. It is 1 when the box
	// is a single row or column.
	EllipseError float64 `json:"ellipse_error"`
}

// Classify guesses the shape of a component from its pixel count and
// bounding box (max exclusive).
//
// A component is a circle when it is big enough (more than 300 pixels),
// not too squashed (aspect strictly between 0.6 and 1.66) and its size is
// within 8% of the inscribed ellipse; within 12% it is a possible circle.
// The ellipse uses the distance between the outermost pixel centres as
// its axes, so a filled disc of radius r compares against pi*r*r.
// Otherwise a box at most 2 pixels thick and at least 10 long is a line,
// and a component filling 90% of its box is a rectangle. Everything else
// is a blob.
func Classify(size int, bounds image.Rectangle) Classification {
	w, h := bounds.Dx(), bounds.Dy()
	if size <= 0 || w <= 0 || h <= 0 {
		return Classification{Kind: Blob}
	}

	c := Classification{
		Kind:         Blob,
		AspectRatio:  float64(w) / float64(h),
		FillRatio:    float64(size) / float64(w*h),
		EllipseError: 1,
	}

	spanW, spanH := w-1, h-1
	if spanW > 0 && spanH > 0 {
		ellipse := float64(spanW*spanH) * math.Pi / 4
		c.EllipseError = math.Abs(float64(size)-ellipse) / ellipse

		aspect := float64(spanW) / float64(spanH)
		if size > minCircleSize && aspect > minCircleAspect && aspect < maxCircleAspect {
			switch {
			case c.EllipseError < circleError:
				c.Kind = Circle
				return c
			case c.EllipseError < maybeCircleErr:
				c.Kind = PossibleCircle
				return c
			}
		}
	}

	thin, long := w, h
	if thin > long {
		thin, long = long, thin
	}
	switch {
	case thin <= maxLineWidth && long >= minLineLength:
		c.Kind = Line
	case c.FillRatio >= minRectFill:
		c.Kind = Rectangle
	}
	return c
}

package imaging

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/convolution"
	"github.com/anthonynsimon/bild/effect"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
)

// LumaRaster is a precomputed 0-255 luminance plane over an image. It
// implements blob.Raster.
//
// Luminance uses the BT.601 weights on 8-bit channels:
//
//	L = 0.299*R + 0.587*G + 0.114*B
type LumaRaster struct {
	width  int
	height int
	lum    []float64
}

var _ blob.Raster = (*LumaRaster)(nil)

// NewLumaRaster computes the luminance of every pixel in img. Coordinates
// are rebased so that img.Bounds().Min maps to (0, 0).
func NewLumaRaster(img image.Image) *LumaRaster {
	b := img.Bounds()
	r := &LumaRaster{
		width:  b.Dx(),
		height: b.Dy(),
		lum:    make([]float64, b.Dx()*b.Dy()),
	}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r.lum[i] = luma(img.At(x, y))
			i++
		}
	}
	return r
}

func luma(c color.Color) float64 {
	r, g, b, _ := c.RGBA()
	return 0.299*float64(r>>8) + 0.587*float64(g>>8) + 0.114*float64(b>>8)
}

// Width returns the raster width.
func (r *LumaRaster) Width() int { return r.width }

// Height returns the raster height.
func (r *LumaRaster) Height() int { return r.height }

// Lum returns the luminance at (x, y).
func (r *LumaRaster) Lum(x, y int) float64 { return r.lum[y*r.width+x] }

// blurKernel is the 3x3 binomial approximation of a Gaussian.
var blurKernel = &convolution.Kernel{
	Matrix: []float64{
		1, 2, 1,
		2, 4, 2,
		1, 2, 1,
	},
	Width:  3,
	Height: 3,
}

// Blur smooths img with a 3x3 Gaussian kernel. Labeling a blurred image
// keeps single-pixel noise from forming components of its own.
func Blur(img image.Image) *image.RGBA {
	return convolution.Convolve(img, blurKernel.Normalized(), &convolution.Options{
		Bias:      0,
		Wrap:      false,
		KeepAlpha: true,
	})
}

// Invert returns the colour negative of img, turning dark shapes on a light
// background into foreground.
func Invert(img image.Image) *image.RGBA {
	return effect.Invert(img)
}

// Preprocess applies the optional blur and inversion steps of a labeling
// run, in that order, and returns the raster to threshold.
func Preprocess(img image.Image, blur, invert bool) *LumaRaster {
	if blur {
		img = Blur(img)
	}
	if invert {
		img = Invert(img)
	}
	return NewLumaRaster(img)
}

// Binarize renders the foreground mask of r at threshold: white where the
// luminance is strictly above it, black elsewhere.
func Binarize(r blob.Raster, threshold float64) *image.Gray {
	w, h := r.Width(), r.Height()
	out := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if r.Lum(x, y) > threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

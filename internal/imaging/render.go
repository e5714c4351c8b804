package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
)

var (
	backgroundColor = color.NRGBA{0, 0, 0, 255}
	disabledColor   = color.NRGBA{80, 80, 80, 255}
	boxColor        = color.NRGBA{255, 0, 0, 255}
	captionColor    = color.NRGBA{255, 255, 255, 255}
)

// ImageResult is an encoded image ready to be returned to a client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodePNG encodes img as a base64 PNG result.
func EncodePNG(img image.Image) (*ImageResult, error) {
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}
	return &ImageResult{
		Width:       img.Bounds().Dx(),
		Height:      img.Bounds().Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    "image/png",
	}, nil
}

// SaveImage writes img to path. The format follows the file extension.
func SaveImage(img image.Image, path string) error {
	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("failed to save image: %w", err)
	}
	return nil
}

// RenderOptions controls what RenderComponents draws besides the coloured
// component pixels.
type RenderOptions struct {
	// DrawBoxes outlines every enabled component's bounding box in red.
	DrawBoxes bool

	// ShowDisabled paints filtered-out components in gray instead of
	// leaving them black.
	ShowDisabled bool

	// Captions maps a component root to a short text drawn next to its
	// bounding box.
	Captions map[int]string
}

// RenderComponents draws the labeled components on a black canvas.
//
// labels is the flattened label array (one root index or -1 per pixel) and
// comps the components to draw. Only enabled, coloured components are
// painted, and only their bounding boxes are scanned; the full image is
// scanned once more when ShowDisabled is set.
func RenderComponents(width, height int, labels []int, comps []blob.Component, opts RenderOptions) (*image.NRGBA, error) {
	if width <= 0 || height <= 0 || len(labels) != width*height {
		return nil, fmt.Errorf("label array of %d does not match %dx%d", len(labels), width, height)
	}

	canvas := imaging.New(width, height, backgroundColor)

	if opts.ShowDisabled {
		disabled := make(map[int]bool)
		for _, c := range comps {
			if !c.Enabled {
				disabled[c.Root] = true
			}
		}
		for i, root := range labels {
			if root >= 0 && disabled[root] {
				canvas.SetNRGBA(i%width, i/width, disabledColor)
			}
		}
	}

	for _, c := range comps {
		if !c.Enabled || !c.Colored || !c.HasBounds() {
			continue
		}
		r, g, b := c.Color.Clamped().RGB255()
		fill := color.NRGBA{r, g, b, 255}
		for y := c.MinY; y <= c.MaxY; y++ {
			row := y * width
			for x := c.MinX; x <= c.MaxX; x++ {
				if labels[row+x] == c.Root {
					canvas.SetNRGBA(x, y, fill)
				}
			}
		}
	}

	if opts.DrawBoxes {
		for _, c := range comps {
			if c.Enabled && c.HasBounds() {
				drawRect(canvas, c.Bounds(), boxColor)
			}
		}
	}

	for _, c := range comps {
		if text, ok := opts.Captions[c.Root]; ok && c.Enabled && c.HasBounds() {
			drawCaption(canvas, c.Bounds(), text)
		}
	}

	return canvas, nil
}

// drawRect outlines r one pixel wide, clipped to the canvas.
func drawRect(img *image.NRGBA, r image.Rectangle, c color.NRGBA) {
	r = r.Intersect(img.Bounds())
	if r.Empty() {
		return
	}
	for x := r.Min.X; x < r.Max.X; x++ {
		img.SetNRGBA(x, r.Min.Y, c)
		img.SetNRGBA(x, r.Max.Y-1, c)
	}
	for y := r.Min.Y; y < r.Max.Y; y++ {
		img.SetNRGBA(r.Min.X, y, c)
		img.SetNRGBA(r.Max.X-1, y, c)
	}
}

// drawCaption writes text above the box, or below it when there is no
// room at the top of the canvas.
func drawCaption(img *image.NRGBA, box image.Rectangle, text string) {
	face := basicfont.Face7x13
	baseline := box.Min.Y - 2
	if baseline-face.Ascent < 0 {
		baseline = box.Max.Y + face.Ascent + 1
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(captionColor),
		Face: face,
		Dot:  fixed.P(box.Min.X, baseline),
	}
	d.DrawString(text)
}

package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
)

// CropComponent cuts the box of one component out of img, grown by padding
// pixels on every side and clipped to the image. A scale other than 1
// resizes the crop with a Lanczos filter.
//
// box is in image-relative coordinates, (0,0) being the top-left pixel of
// img regardless of img.Bounds().Min.
func CropComponent(img image.Image, box image.Rectangle, padding int, scale float64) (*ImageResult, error) {
	if box.Empty() {
		return nil, fmt.Errorf("empty component bounds %v", box)
	}
	if padding < 0 {
		return nil, fmt.Errorf("negative padding %d", padding)
	}
	if scale <= 0 {
		return nil, fmt.Errorf("scale must be positive, got %g", scale)
	}

	bounds := img.Bounds()
	region := box.Inset(-padding).Add(bounds.Min).Intersect(bounds)
	if region.Empty() {
		return nil, fmt.Errorf("component bounds %v outside image bounds %v", box, bounds)
	}

	cropped := imaging.Crop(img, region)

	if scale != 1.0 {
		newWidth := int(float64(cropped.Bounds().Dx()) * scale)
		newHeight := int(float64(cropped.Bounds().Dy()) * scale)
		if newWidth < 1 {
			newWidth = 1
		}
		if newHeight < 1 {
			newHeight = 1
		}
		cropped = imaging.Resize(cropped, newWidth, newHeight, imaging.Lanczos)
	}

	return EncodePNG(cropped)
}

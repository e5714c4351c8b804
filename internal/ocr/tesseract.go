package ocr

import (
	"bytes"
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/otiai10/gosseract/v2"
)

// margin is the number of pixels kept around a component's box before the
// crop is handed to Tesseract, which misreads glyphs touching the edge.
const margin = 4

// Bounds represents a rectangular bounding box in pixel coordinates.
type Bounds struct {
	X1 int `json:"x1"` // Left edge
	Y1 int `json:"y1"` // Top edge
	X2 int `json:"x2"` // Right edge
	Y2 int `json:"y2"` // Bottom edge
}

func boundsOf(r image.Rectangle) Bounds {
	return Bounds{X1: r.Min.X, Y1: r.Min.Y, X2: r.Max.X, Y2: r.Max.Y}
}

// Word is one recognized word with its location in the source image.
type Word struct {
	Text string `json:"text"`

	// Confidence is Tesseract's confidence score (0.0 to 1.0).
	Confidence float64 `json:"confidence"`

	Bounds Bounds `json:"bounds"`
}

// Result is the text read from one component.
type Result struct {
	// Text is all recognized text with Tesseract's spacing and newlines.
	Text string `json:"text"`

	// Words holds word boxes in source image coordinates. It may be empty
	// when box extraction fails even though Text is set.
	Words []Word `json:"words"`

	// Region is the area that was actually read: the component box plus
	// a small margin, clipped to the image.
	Region Bounds `json:"region"`
}

// ReadComponent runs OCR over the bounding box of one component.
//
// box is relative to the top-left pixel of img. The crop is encoded in
// memory and passed to Tesseract without touching disk; word boxes are
// shifted back into image coordinates.
func ReadComponent(img image.Image, box image.Rectangle, language string) (*Result, error) {
	if box.Empty() {
		return nil, fmt.Errorf("empty component bounds %v", box)
	}
	if language == "" {
		language = "eng"
	}

	bounds := img.Bounds()
	region := box.Inset(-margin).Add(bounds.Min).Intersect(bounds)
	if region.Empty() {
		return nil, fmt.Errorf("component bounds %v outside image bounds %v", box, bounds)
	}
	origin := region.Min.Sub(bounds.Min)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, imaging.Crop(img, region), imaging.PNG); err != nil {
		return nil, fmt.Errorf("failed to encode component: %w", err)
	}

	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(language); err != nil {
		return nil, fmt.Errorf("failed to set language: %w", err)
	}
	if err := client.SetImageFromBytes(buf.Bytes()); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return nil, fmt.Errorf("tesseract OCR failed: %w", err)
	}

	result := &Result{
		Text:   text,
		Words:  []Word{},
		Region: boundsOf(region.Sub(bounds.Min)),
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return result, nil
	}
	for _, b := range boxes {
		if b.Word == "" {
			continue
		}
		result.Words = append(result.Words, Word{
			Text:       b.Word,
			Confidence: float64(b.Confidence) / 100.0,
			Bounds:     boundsOf(b.Box.Add(origin)),
		})
	}

	return result, nil
}

// Info describes the OCR backend.
type Info struct {
	Backend string `json:"backend"`
	Version string `json:"version"`
}

// BackendInfo reports the Tesseract version gosseract is linked against.
func BackendInfo() Info {
	client := gosseract.NewClient()
	defer client.Close()
	return Info{Backend: "gosseract", Version: client.Version()}
}

package blob

import "fmt"

// Raster is the read-only luminance view the labeler scans. Lum returns a
// value in 0..255.
type Raster interface {
	Width() int
	Height() int
	Lum(x, y int) float64
}

// Populate labels r: every pixel with Lum > threshold is foreground, and
// foreground pixels that touch horizontally or vertically end up in the
// same component. Any previous labeling is discarded.
//
// The first pass binarizes each row and links every pixel of a horizontal
// run directly to the run's first pixel, so runs are already flat. The
// second pass only checks the pixel above and unions runs together; that
// is two neighbour checks per pixel instead of four.
func (f *Forest) Populate(r Raster, threshold float64) error {
	width, height := r.Width(), r.Height()
	if width <= 0 || height <= 0 {
		return fmt.Errorf("raster %dx%d: %w", width, height, ErrInvalidArgument)
	}
	if width > len(f.tree)/height || width*height != len(f.tree) {
		return fmt.Errorf("raster %dx%d does not cover %d pixels: %w",
			width, height, len(f.tree), ErrInvalidArgument)
	}

	f.meta = newRegistry()
	f.width, f.height = width, height
	f.flat = false
	f.findCalls, f.findIterations = 0, 0

	index := 0
	for y := 0; y < height; y++ {
		leftRoot := -1
		for x := 0; x < width; x, index = x+1, index+1 {
			if r.Lum(x, y) <= threshold {
				f.tree[index] = -1
				leftRoot = -1
				continue
			}
			if leftRoot >= 0 {
				f.tree[index] = leftRoot
				f.meta.inc(leftRoot)
				continue
			}
			f.tree[index] = index
			leftRoot = index
			f.meta.inc(index)
		}
	}
	f.prePass = f.meta.len()
	Logger().Debug("blob: pre-pass done", "groups", f.prePass, "width", width, "height", height)

	// Row 0 has nothing above it.
	index = width
	for y := 1; y < height; y++ {
		top := index - width
		for x := 0; x < width; x, index, top = x+1, index+1, top+1 {
			if f.tree[index] >= 0 && f.tree[top] >= 0 {
				f.union(top, index)
			}
		}
	}
	Logger().Debug("blob: final pass done", "groups", f.meta.len())

	return nil
}

package imaging

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
)

func TestNewLumaRaster(t *testing.T) {
	tests := []struct {
		name string
		c    color.Color
		want float64
	}{
		{"white", color.RGBA{255, 255, 255, 255}, 255},
		{"black", color.RGBA{0, 0, 0, 255}, 0},
		{"red", color.RGBA{255, 0, 0, 255}, 0.299 * 255},
		{"green", color.RGBA{0, 255, 0, 255}, 0.587 * 255},
		{"blue", color.RGBA{0, 0, 255, 255}, 0.114 * 255},
		{"gray", color.Gray{100}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewLumaRaster(createInMemoryImage(4, 3, tt.c))
			if r.Width() != 4 || r.Height() != 3 {
				t.Fatalf("dimensions: got %dx%d, want 4x3", r.Width(), r.Height())
			}
			if got := r.Lum(3, 2); math.Abs(got-tt.want) > 1e-6 {
				t.Errorf("Lum: got %f, want %f", got, tt.want)
			}
		})
	}
}

func TestNewLumaRaster_Rebased(t *testing.T) {
	src := createPatternImage(10, 10)
	sub := src.SubImage(image.Rect(5, 5, 10, 10))

	r := NewLumaRaster(sub)
	if r.Width() != 5 || r.Height() != 5 {
		t.Fatalf("dimensions: got %dx%d, want 5x5", r.Width(), r.Height())
	}
	// The bottom-right quadrant of the pattern is white.
	if got := r.Lum(0, 0); math.Abs(got-255) > 1e-6 {
		t.Errorf("Lum(0,0): got %f, want 255", got)
	}
}

func TestBinarize(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 1))
	img.Pix = []uint8{127, 128, 129}

	mask := Binarize(NewLumaRaster(img), 128)
	want := []uint8{0, 0, 255}
	for x, w := range want {
		if got := mask.GrayAt(x, 0).Y; got != w {
			t.Errorf("pixel %d: got %d, want %d", x, got, w)
		}
	}
}

func TestBlur_SinglePixel(t *testing.T) {
	img := createInMemoryImage(5, 5, color.RGBA{0, 0, 0, 255})
	img.Set(2, 2, color.RGBA{255, 255, 255, 255})

	r := NewLumaRaster(Blur(img))

	tests := []struct {
		name     string
		x, y     int
		min, max float64
	}{
		{"center", 2, 2, 60, 68},
		{"edge neighbour", 1, 2, 28, 36},
		{"corner neighbour", 1, 1, 12, 20},
		{"outside kernel", 0, 0, 0, 0.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.Lum(tt.x, tt.y); got < tt.min || got > tt.max {
				t.Errorf("Lum(%d,%d): got %f, want in [%g,%g]", tt.x, tt.y, got, tt.min, tt.max)
			}
		})
	}
}

func TestBlur_KeepsUniformInterior(t *testing.T) {
	img := createInMemoryImage(6, 6, color.RGBA{200, 200, 200, 255})
	r := NewLumaRaster(Blur(img))
	if got := r.Lum(3, 3); math.Abs(got-200) > 1 {
		t.Errorf("interior Lum: got %f, want 200", got)
	}
}

func TestInvert(t *testing.T) {
	img := createInMemoryImage(2, 2, color.RGBA{255, 0, 0, 255})
	out := Invert(img)
	if got := out.RGBAAt(1, 1); got.R != 0 || got.G != 255 || got.B != 255 {
		t.Errorf("inverted red: got %v, want cyan", got)
	}
}

func TestPreprocess(t *testing.T) {
	black := createInMemoryImage(4, 4, color.RGBA{0, 0, 0, 255})

	if got := Preprocess(black, false, false).Lum(1, 1); got != 0 {
		t.Errorf("plain: got %f, want 0", got)
	}
	if got := Preprocess(black, false, true).Lum(1, 1); math.Abs(got-255) > 1e-6 {
		t.Errorf("inverted: got %f, want 255", got)
	}
	if got := Preprocess(black, true, true).Lum(1, 1); math.Abs(got-255) > 1 {
		t.Errorf("blurred and inverted: got %f, want 255", got)
	}
}

func TestLumaRaster_Labeling(t *testing.T) {
	img := createInMemoryImage(10, 6, color.RGBA{0, 0, 0, 255})
	white := color.RGBA{255, 255, 255, 255}
	for y := 1; y < 4; y++ {
		for x := 1; x < 3; x++ {
			img.Set(x, y, white)
		}
	}
	for x := 5; x < 9; x++ {
		img.Set(x, 4, white)
	}

	r := NewLumaRaster(img)
	f, err := blob.New(r.Width() * r.Height())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := f.Populate(r, 128); err != nil {
		t.Fatalf("Populate: %v", err)
	}
	if err := f.Flatten(); err != nil {
		t.Fatalf("Flatten: %v", err)
	}

	comps := f.Components()
	if len(comps) != 2 {
		t.Fatalf("components: got %d, want 2", len(comps))
	}
	if comps[0].Size != 6 || comps[0].Bounds() != image.Rect(1, 1, 3, 4) {
		t.Errorf("square: got size %d bounds %v", comps[0].Size, comps[0].Bounds())
	}
	if comps[1].Size != 4 || comps[1].Bounds() != image.Rect(5, 4, 9, 5) {
		t.Errorf("line: got size %d bounds %v", comps[1].Size, comps[1].Bounds())
	}
}

package blob

import (
	"errors"
	"image"
	"math/rand"
	"strconv"
	"strings"
	"testing"
)

// gridRaster is a Raster built from rows of '#' (255) and '.' (0).
type gridRaster struct {
	rows []string
}

func newGrid(rows ...string) *gridRaster {
	return &gridRaster{rows: rows}
}

func (g *gridRaster) Width() int {
	if len(g.rows) == 0 {
		return 0
	}
	return len(g.rows[0])
}

func (g *gridRaster) Height() int { return len(g.rows) }

func (g *gridRaster) Lum(x, y int) float64 {
	if g.rows[y][x] == '#' {
		return 255
	}
	return 0
}

// randomGrid returns a w x h grid where each pixel is foreground with
// probability density.
func randomGrid(rng *rand.Rand, w, h int, density float64) *gridRaster {
	rows := make([]string, h)
	for y := range rows {
		var b strings.Builder
		for x := 0; x < w; x++ {
			if rng.Float64() < density {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		rows[y] = b.String()
	}
	return newGrid(rows...)
}

// label runs Populate and, if flatten is set, Flatten.
func label(t *testing.T, r Raster, flatten bool, opts ...Option) *Forest {
	t.Helper()
	f, err := New(r.Width()*r.Height(), opts...)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	if err := f.Populate(r, 128); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	if flatten {
		if err := f.Flatten(); err != nil {
			t.Fatalf("Flatten failed: %v", err)
		}
	}
	return f
}

func foregroundCount(g *gridRaster) int {
	n := 0
	for _, row := range g.rows {
		n += strings.Count(row, "#")
	}
	return n
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"negative", -1, true},
		{"empty", 0, false},
		{"some pixels", 12, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.n)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidArgument) {
					t.Fatalf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if f.Len() != tt.n {
				t.Errorf("Len: got %d, want %d", f.Len(), tt.n)
			}
			for i := 0; i < tt.n; i++ {
				if p, _ := f.Parent(i); p != -1 {
					t.Fatalf("Parent(%d): got %d, want -1", i, p)
				}
			}
			if f.Count() != 0 {
				t.Errorf("Count: got %d, want 0", f.Count())
			}
		})
	}
}

func TestPopulate_AllForeground(t *testing.T) {
	f := label(t, newGrid("###", "###", "###"), true)

	comps := f.Components()
	if len(comps) != 1 {
		t.Fatalf("expected 1 component, got %d", len(comps))
	}
	c := comps[0]
	if c.Size != 9 {
		t.Errorf("Size: got %d, want 9", c.Size)
	}
	if c.MinX != 0 || c.MinY != 0 || c.MaxX != 2 || c.MaxY != 2 {
		t.Errorf("bounds: got X=%d-%d Y=%d-%d, want 0-2 0-2", c.MinX, c.MaxX, c.MinY, c.MaxY)
	}
	if c.Root != 0 {
		t.Errorf("Root: got %d, want 0", c.Root)
	}
}

func TestPopulate_Checkerboard(t *testing.T) {
	f := label(t, newGrid("#.#.", ".#.#", "#.#.", ".#.#"), true)

	comps := f.Components()
	if len(comps) != 8 {
		t.Fatalf("expected 8 components, got %d", len(comps))
	}
	for _, c := range comps {
		if c.Size != 1 {
			t.Errorf("component %d: size %d, want 1", c.Root, c.Size)
		}
		if c.Width() != 1 || c.Height() != 1 {
			t.Errorf("component %d: box %dx%d, want 1x1", c.Root, c.Width(), c.Height())
		}
	}
}

func TestPopulate_VerticalMerge(t *testing.T) {
	tests := []struct {
		name  string
		rows  []string
		count int
	}{
		{"shared column", []string{"###....", "..#####"}, 1},
		{"no shared column", []string{"###....", "...####"}, 2},
		{"bars split by empty row", []string{"#####", ".....", "#####"}, 2},
		{"bars joined by one pixel", []string{"#####", "...#.", "#####"}, 1},
		{"gap in both bars", []string{"##.##", "#...#", "#####"}, 1},
		{"u shape closes late", []string{"#...#", "#...#", "#...#", "#####"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newGrid(tt.rows...)
			f := label(t, g, true)
			if f.Count() != tt.count {
				t.Errorf("Count: got %d, want %d", f.Count(), tt.count)
			}
		})
	}
}

func TestPopulate_PrePassGroups(t *testing.T) {
	f := label(t, newGrid("##.##", "#####"), false)

	if f.PrePassGroups() != 3 {
		t.Errorf("PrePassGroups: got %d, want 3", f.PrePassGroups())
	}
	if f.Count() != 1 {
		t.Errorf("Count: got %d, want 1", f.Count())
	}
}

func TestPopulate_Threshold(t *testing.T) {
	r := &funcRaster{w: 4, h: 1, lum: func(x, y int) float64 { return float64(x) * 100 }}
	f, _ := New(4)
	// Lum values are 0, 100, 200, 300; only values strictly above 100 count.
	if err := f.Populate(r, 100); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	for i, want := range []int{-1, -1, 2, 2} {
		if p, _ := f.Parent(i); p != want {
			t.Errorf("Parent(%d): got %d, want %d", i, p, want)
		}
	}
}

func TestPopulate_Errors(t *testing.T) {
	f, _ := New(6)
	if err := f.Populate(newGrid(), 128); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("empty raster: expected ErrInvalidArgument, got %v", err)
	}
	if err := f.Populate(newGrid("##", "##"), 128); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("size mismatch: expected ErrInvalidArgument, got %v", err)
	}

	// half*half wraps to 0; the scan must never start.
	const half = 1 << (strconv.IntSize / 2)
	huge := &funcRaster{w: half, h: half, lum: func(x, y int) float64 {
		t.Fatal("Lum called on an oversized raster")
		return 0
	}}
	empty, _ := New(0)
	if err := empty.Populate(huge, 128); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("overflowing size: expected ErrInvalidArgument, got %v", err)
	}
}

func TestPopulate_Relabel(t *testing.T) {
	f := label(t, newGrid("###", "###"), true)
	if err := f.Populate(newGrid("#.#", "#.#"), 128); err != nil {
		t.Fatalf("Populate failed: %v", err)
	}
	if f.IsFlat() {
		t.Error("Populate should clear the flat flag")
	}
	if f.Count() != 2 {
		t.Errorf("Count: got %d, want 2", f.Count())
	}
}

func TestSizesSumToForeground(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 20; i++ {
		g := randomGrid(rng, 17, 11, 0.55)
		f := label(t, g, false)

		total := 0
		for _, c := range f.Components() {
			total += c.Size
		}
		if want := foregroundCount(g); total != want {
			t.Fatalf("grid %d: sizes sum to %d, want %d", i, total, want)
		}
	}
}

func TestRegistryKeysAreRoots(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	g := randomGrid(rng, 23, 19, 0.5)
	f := label(t, g, false)

	roots := make(map[int]bool)
	for i := 0; i < f.Len(); i++ {
		if p, _ := f.Parent(i); p < 0 {
			continue
		}
		root, err := f.Find(i)
		if err != nil {
			t.Fatalf("Find(%d) failed: %v", i, err)
		}
		roots[root] = true
	}
	if len(roots) != f.Count() {
		t.Fatalf("distinct roots %d, registry entries %d", len(roots), f.Count())
	}
	for root := range roots {
		if _, ok := f.Region(root); !ok {
			t.Errorf("root %d has no region", root)
		}
	}
}

func TestConnectedAgreesWithFind(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGrid(rng, 20, 15, 0.6)
	f := label(t, g, false)

	var fg []int
	for i := 0; i < f.Len(); i++ {
		if p, _ := f.Parent(i); p >= 0 {
			fg = append(fg, i)
		}
	}

	check := func(stage string) {
		for n := 0; n < 300; n++ {
			p := fg[rng.Intn(len(fg))]
			q := fg[rng.Intn(len(fg))]
			rp, _ := f.Find(p)
			rq, _ := f.Find(q)
			got, err := f.Connected(p, q)
			if err != nil {
				t.Fatalf("%s: Connected(%d,%d) failed: %v", stage, p, q, err)
			}
			if got != (rp == rq) {
				t.Fatalf("%s: Connected(%d,%d)=%v but roots %d,%d", stage, p, q, got, rp, rq)
			}
		}
	}

	check("before flatten")
	before := make(map[int]int, len(fg))
	for _, p := range fg {
		before[p], _ = f.Find(p)
	}

	if err := f.Flatten(); err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	check("after flatten")

	for _, p := range fg {
		flat, err := f.FindFlat(p)
		if err != nil {
			t.Fatalf("FindFlat(%d) failed: %v", p, err)
		}
		root, _ := f.Find(p)
		if flat != root || root != before[p] {
			t.Fatalf("pixel %d: FindFlat %d, Find %d, before flatten %d", p, flat, root, before[p])
		}
	}
}

func TestFlatten_DepthOne(t *testing.T) {
	g := newGrid("#...#", "#...#", "#.#.#", "#####")
	f := label(t, g, true)

	for i := 0; i < f.Len(); i++ {
		p, _ := f.Parent(i)
		if p < 0 {
			continue
		}
		if pp, _ := f.Parent(p); pp != p {
			t.Errorf("pixel %d points at %d which is not a root", i, p)
		}
	}
	c := f.Components()[0]
	if c.Bounds().Dx() != 5 || c.Bounds().Dy() != 4 {
		t.Errorf("Bounds: got %v, want 5x4", c.Bounds())
	}
}

func TestFlatten_BeforePopulate(t *testing.T) {
	f, _ := New(4)
	if err := f.Flatten(); !errors.Is(err, ErrNotPopulated) {
		t.Errorf("expected ErrNotPopulated, got %v", err)
	}
}

func TestFlatOnlyOperations(t *testing.T) {
	f := label(t, newGrid("#.", ".#"), false)

	if _, err := f.FindFlat(0); !errors.Is(err, ErrNotFlat) {
		t.Errorf("FindFlat: expected ErrNotFlat, got %v", err)
	}
	if _, err := f.Labels(); !errors.Is(err, ErrNotFlat) {
		t.Errorf("Labels: expected ErrNotFlat, got %v", err)
	}
	if _, _, err := f.ColorAt(0); !errors.Is(err, ErrNotFlat) {
		t.Errorf("ColorAt: expected ErrNotFlat, got %v", err)
	}

	if err := f.Flatten(); err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	labels, err := f.Labels()
	if err != nil {
		t.Fatalf("Labels failed: %v", err)
	}
	want := []int{0, -1, -1, 3}
	for i := range want {
		if labels[i] != want[i] {
			t.Errorf("labels[%d]: got %d, want %d", i, labels[i], want[i])
		}
	}
	if root, _ := f.FindFlat(1); root != -1 {
		t.Errorf("FindFlat on background: got %d, want -1", root)
	}
}

func TestIndexErrors(t *testing.T) {
	f := label(t, newGrid("#.", "##"), true)

	if _, err := f.Find(4); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Find(4): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := f.Find(-1); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Find(-1): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := f.FindFlat(9); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("FindFlat(9): expected ErrIndexOutOfRange, got %v", err)
	}
	if err := f.Union(0, 7); !errors.Is(err, ErrIndexOutOfRange) {
		t.Errorf("Union(0,7): expected ErrIndexOutOfRange, got %v", err)
	}
	if _, err := f.Find(1); !errors.Is(err, ErrBackground) {
		t.Errorf("Find(1): expected ErrBackground, got %v", err)
	}
	if err := f.Union(0, 1); !errors.Is(err, ErrBackground) {
		t.Errorf("Union(0,1): expected ErrBackground, got %v", err)
	}
}

func TestUnion_Idempotent(t *testing.T) {
	f := label(t, newGrid("#.#.#"), true)
	if f.Count() != 3 {
		t.Fatalf("Count: got %d, want 3", f.Count())
	}

	if err := f.Union(0, 2); err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	root, _ := f.Find(2)
	if err := f.Union(0, 2); err != nil {
		t.Fatalf("second Union failed: %v", err)
	}
	if f.Count() != 2 {
		t.Errorf("Count after repeated union: got %d, want 2", f.Count())
	}
	if again, _ := f.Find(2); again != root {
		t.Errorf("root changed on repeated union: %d -> %d", root, again)
	}
	r, _ := f.Region(root)
	if r.Size != 2 {
		t.Errorf("Size: got %d, want 2", r.Size)
	}
	if ok, _ := f.Connected(0, 4); ok {
		t.Error("pixels 0 and 4 should not be connected")
	}
}

func TestUnion_Strategy(t *testing.T) {
	tests := []struct {
		name     string
		strategy Strategy
		rows     []string
		p, q     int
		wantRoot int
	}{
		{"weighted tie keeps p", Weighted, []string{"#.#"}, 0, 2, 0},
		{"weighted larger wins", Weighted, []string{"#.##"}, 0, 2, 2},
		{"weighted larger p wins", Weighted, []string{"##.#"}, 3, 0, 0},
		{"unweighted keeps q", Unweighted, []string{"##.#"}, 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := label(t, newGrid(tt.rows...), false, WithStrategy(tt.strategy))
			if err := f.Union(tt.p, tt.q); err != nil {
				t.Fatalf("Union failed: %v", err)
			}
			root, _ := f.Find(tt.p)
			if root != tt.wantRoot {
				t.Errorf("root: got %d, want %d", root, tt.wantRoot)
			}
			if _, ok := f.Region(tt.wantRoot); !ok || f.Count() != 1 {
				t.Errorf("registry should hold only root %d, has %d entries", tt.wantRoot, f.Count())
			}
		})
	}
}

func TestUnion_ClearsFlat(t *testing.T) {
	f := label(t, newGrid("#.#"), true)
	if !f.IsFlat() {
		t.Fatal("expected flat forest")
	}
	if err := f.Union(0, 0); err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	if !f.IsFlat() {
		t.Error("a no-op union should keep the forest flat")
	}
	if err := f.Union(0, 2); err != nil {
		t.Fatalf("Union failed: %v", err)
	}
	if f.IsFlat() {
		t.Error("a merging union should clear the flat flag")
	}
	if err := f.Flatten(); err != nil {
		t.Fatalf("Flatten failed: %v", err)
	}
	c := f.Components()[0]
	if c.MinX != 0 || c.MaxX != 2 {
		t.Errorf("merged bounds X=%d-%d, want 0-2", c.MinX, c.MaxX)
	}
}

func TestUnion_AfterFlattenKeepsBounds(t *testing.T) {
	for _, strategy := range []Strategy{Weighted, Unweighted} {
		t.Run(strategy.String(), func(t *testing.T) {
			f := label(t, newGrid("#..", "..#"), true, WithStrategy(strategy))
			if err := f.Union(0, 5); err != nil {
				t.Fatalf("Union failed: %v", err)
			}
			comps := f.Components()
			if len(comps) != 1 {
				t.Fatalf("got %d components, want 1", len(comps))
			}
			c := comps[0]
			if c.Size != 2 {
				t.Errorf("Size: got %d, want 2", c.Size)
			}
			if got, want := c.Bounds(), image.Rect(0, 0, 3, 2); got != want {
				t.Errorf("Bounds: got %v, want %v", got, want)
			}
		})
	}
}

func TestStrategyTreesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	g := randomGrid(rng, 30, 20, 0.6)
	weighted := label(t, g, true)
	plain := label(t, g, true, WithStrategy(Unweighted))

	if weighted.Count() != plain.Count() {
		t.Fatalf("component counts differ: %d vs %d", weighted.Count(), plain.Count())
	}
	for p := 0; p < weighted.Len(); p++ {
		for _, q := range []int{p + 1, p + 30} {
			if q >= weighted.Len() {
				continue
			}
			wp, _ := weighted.FindFlat(p)
			wq, _ := weighted.FindFlat(q)
			pp, _ := plain.FindFlat(p)
			pq, _ := plain.FindFlat(q)
			if (wp >= 0 && wp == wq) != (pp >= 0 && pp == pq) {
				t.Fatalf("pixels %d,%d grouped differently", p, q)
			}
		}
	}
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		in      string
		want    Strategy
		wantErr bool
	}{
		{"", Weighted, false},
		{"weighted", Weighted, false},
		{"unweighted", Unweighted, false},
		{"quick", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStrategy(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got != tt.want {
			t.Errorf("ParseStrategy(%q): got %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestFindStats(t *testing.T) {
	f := label(t, newGrid("####", "####"), true)
	stats := f.FindStats()
	if stats.Calls == 0 {
		t.Error("expected find calls to be counted")
	}
	if stats.PerCall() < 0 {
		t.Errorf("PerCall: got %f", stats.PerCall())
	}
	if (FindStats{}).PerCall() != 0 {
		t.Error("PerCall of zero stats should be 0")
	}
}

// funcRaster adapts a luminance function to Raster.
type funcRaster struct {
	w, h int
	lum  func(x, y int) float64
}

func (r *funcRaster) Width() int           { return r.w }
func (r *funcRaster) Height() int          { return r.h }
func (r *funcRaster) Lum(x, y int) float64 { return r.lum(x, y) }

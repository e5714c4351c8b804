package blob

import (
	"fmt"
	"image"
	"math"
	"sort"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Region holds the metadata of one connected component.
//
// The bounding box is inclusive on both ends and only meaningful after
// Flatten; before that MinX/MinY hold math.MaxInt and MaxX/MaxY hold -1.
type Region struct {
	Size    int
	MinX    int
	MaxX    int
	MinY    int
	MaxY    int
	Color   colorful.Color
	Colored bool
	Enabled bool
}

func newRegion() *Region {
	return &Region{
		Size:    1,
		MinX:    math.MaxInt,
		MaxX:    -1,
		MinY:    math.MaxInt,
		MaxY:    -1,
		Enabled: true,
	}
}

// grow extends the bounding box to include (x, y).
func (r *Region) grow(x, y int) {
	if x < r.MinX {
		r.MinX = x
	}
	if x > r.MaxX {
		r.MaxX = x
	}
	if y < r.MinY {
		r.MinY = y
	}
	if y > r.MaxY {
		r.MaxY = y
	}
}

// HasBounds reports whether the bounding box has been computed.
func (r *Region) HasBounds() bool {
	return r.MaxX >= 0 && r.MaxY >= 0
}

// Bounds returns the bounding box as an image.Rectangle (max exclusive).
// It is empty until Flatten has run.
func (r *Region) Bounds() image.Rectangle {
	if !r.HasBounds() {
		return image.Rectangle{}
	}
	return image.Rect(r.MinX, r.MinY, r.MaxX+1, r.MaxY+1)
}

// Width returns the bounding box width in pixels.
func (r *Region) Width() int { return r.Bounds().Dx() }

// Height returns the bounding box height in pixels.
func (r *Region) Height() int { return r.Bounds().Dy() }

func (r *Region) String() string {
	return fmt.Sprintf("Group weight=%6d \t X=%4d -%4d \t Y=%4d -%4d \t (%4d x %4d)",
		r.Size, r.MinX, r.MaxX, r.MinY, r.MaxY, r.MaxX-r.MinX+1, r.MaxY-r.MinY+1)
}

// Component pairs a region with the root index that identifies it.
type Component struct {
	Root int
	*Region
}

// registry maps root index to region. Keys always equal the set of roots
// of all foreground pixels.
type registry struct {
	regions map[int]*Region
}

func newRegistry() *registry {
	return &registry{regions: make(map[int]*Region)}
}

// inc adds one pixel to the region rooted at key, creating it with size 1
// on first use.
func (g *registry) inc(key int) {
	if r, ok := g.regions[key]; ok {
		r.Size++
		return
	}
	g.regions[key] = newRegion()
}

// merge folds loser into winner and drops the loser's entry. A computed
// loser box is folded in too, so bounds stay right after a post-flatten
// Union.
func (g *registry) merge(winner, loser int) {
	w, l := g.regions[winner], g.regions[loser]
	w.Size += l.Size
	if l.HasBounds() {
		w.grow(l.MinX, l.MinY)
		w.grow(l.MaxX, l.MaxY)
	}
	delete(g.regions, loser)
}

func (g *registry) size(key int) int {
	return g.regions[key].Size
}

func (g *registry) len() int {
	return len(g.regions)
}

// sorted returns every component ordered by root index.
func (g *registry) sorted() []Component {
	keys := make([]int, 0, len(g.regions))
	for k := range g.regions {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	out := make([]Component, len(keys))
	for i, k := range keys {
		out[i] = Component{Root: k, Region: g.regions[k]}
	}
	return out
}

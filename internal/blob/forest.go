package blob

import (
	"fmt"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// Strategy selects how Union links two roots.
type Strategy int

const (
	// Weighted points the smaller component's root at the larger one,
	// keeping trees O(log n) deep.
	Weighted Strategy = iota

	// Unweighted always points p's root at q's root.
	Unweighted
)

func (s Strategy) String() string {
	switch s {
	case Weighted:
		return "weighted"
	case Unweighted:
		return "unweighted"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy maps "weighted" or "unweighted" to a Strategy. The empty
// string selects Weighted.
func ParseStrategy(name string) (Strategy, error) {
	switch name {
	case "", "weighted":
		return Weighted, nil
	case "unweighted":
		return Unweighted, nil
	default:
		return 0, fmt.Errorf("unknown union strategy %q: %w", name, ErrInvalidArgument)
	}
}

// Union is the disjoint-set contract the labeling pipeline is written
// against. *Forest is the implementation; the Strategy option picks the
// linking rule.
type Union interface {
	Find(p int) (int, error)
	FindFlat(p int) (int, error)
	Union(p, q int) error
	Connected(p, q int) (bool, error)
	Flatten() error
	IsFlat() bool
}

var _ Union = (*Forest)(nil)

// Option configures a Forest.
type Option func(*Forest)

// WithStrategy selects the union strategy. The default is Weighted.
func WithStrategy(s Strategy) Option {
	return func(f *Forest) {
		f.strategy = s
	}
}

// Forest is a union-find over pixel indices together with the registry of
// per-component metadata.
//
// The parent array, the registry and the scanning passes share one type on
// purpose: Populate and Flatten write tree and registry fields directly in
// their inner loops instead of going through accessors.
//
// A Forest is not safe for concurrent use.
type Forest struct {
	tree     []int
	meta     *registry
	strategy Strategy

	width  int
	height int
	flat   bool

	prePass        int
	findCalls      int
	findIterations int
}

// New allocates a forest over n pixels, all of them background.
func New(n int, opts ...Option) (*Forest, error) {
	if n < 0 {
		return nil, fmt.Errorf("pixel count %d: %w", n, ErrInvalidArgument)
	}
	f := &Forest{
		tree: make([]int, n),
		meta: newRegistry(),
	}
	for i := range f.tree {
		f.tree[i] = -1
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Len returns the number of pixels the forest covers.
func (f *Forest) Len() int { return len(f.tree) }

// Strategy returns the union strategy in use.
func (f *Forest) Strategy() Strategy { return f.strategy }

// Width returns the raster width recorded by Populate, or 0.
func (f *Forest) Width() int { return f.width }

// Height returns the raster height recorded by Populate, or 0.
func (f *Forest) Height() int { return f.height }

// IsFlat reports whether Flatten has run since the last Populate.
func (f *Forest) IsFlat() bool { return f.flat }

func (f *Forest) checkIndex(p int) error {
	if p < 0 || p >= len(f.tree) {
		return fmt.Errorf("index %d not in [0,%d): %w", p, len(f.tree), ErrIndexOutOfRange)
	}
	return nil
}

// Find returns the root of the component containing p. Paths are not
// compressed; Flatten is the only operation that shortens trees.
func (f *Forest) Find(p int) (int, error) {
	if err := f.checkIndex(p); err != nil {
		return -1, err
	}
	if f.tree[p] < 0 {
		return -1, fmt.Errorf("find %d: %w", p, ErrBackground)
	}
	return f.find(p), nil
}

// find is Find without checks. p must be a foreground index.
func (f *Forest) find(p int) int {
	f.findCalls++
	for p != f.tree[p] {
		p = f.tree[p]
		f.findIterations++
	}
	return p
}

// FindFlat returns the root of p in O(1). It is only valid after Flatten.
// Background pixels yield -1 and no error.
func (f *Forest) FindFlat(p int) (int, error) {
	if !f.flat {
		return -1, ErrNotFlat
	}
	if err := f.checkIndex(p); err != nil {
		return -1, err
	}
	return f.tree[p], nil
}

// Connected reports whether p and q are in the same component.
func (f *Forest) Connected(p, q int) (bool, error) {
	rp, err := f.Find(p)
	if err != nil {
		return false, err
	}
	rq, err := f.Find(q)
	if err != nil {
		return false, err
	}
	return rp == rq, nil
}

// Union merges the components containing p and q. Merging two pixels
// that already share a root does nothing.
func (f *Forest) Union(p, q int) error {
	for _, i := range [2]int{p, q} {
		if err := f.checkIndex(i); err != nil {
			return err
		}
		if f.tree[i] < 0 {
			return fmt.Errorf("union %d,%d: %w", p, q, ErrBackground)
		}
	}
	f.union(p, q)
	return nil
}

// union links the roots of two foreground pixels.
func (f *Forest) union(p, q int) {
	rootP := f.find(p)
	rootQ := f.find(q)
	if rootP == rootQ {
		return
	}

	// The loser's pixels end up one hop further from their root.
	f.flat = false

	if f.strategy == Unweighted || f.meta.size(rootP) < f.meta.size(rootQ) {
		f.tree[rootP] = rootQ
		f.meta.merge(rootQ, rootP)
		return
	}
	f.tree[rootQ] = rootP
	f.meta.merge(rootP, rootQ)
}

// Parent returns the raw parent entry of p: -1 for background, the index
// itself for a root.
func (f *Forest) Parent(p int) (int, error) {
	if err := f.checkIndex(p); err != nil {
		return -1, err
	}
	return f.tree[p], nil
}

// Labels returns a copy of the flattened parent array: for every pixel
// the root index of its component, or -1.
func (f *Forest) Labels() ([]int, error) {
	if !f.flat {
		return nil, ErrNotFlat
	}
	out := make([]int, len(f.tree))
	copy(out, f.tree)
	return out, nil
}

// Count returns the number of components, enabled or not.
func (f *Forest) Count() int { return f.meta.len() }

// PrePassGroups returns the number of horizontal runs found by the first
// scan pass of the last Populate.
func (f *Forest) PrePassGroups() int { return f.prePass }

// Region returns the region rooted at root.
func (f *Forest) Region(root int) (*Region, bool) {
	r, ok := f.meta.regions[root]
	return r, ok
}

// Components returns every component ordered by root index.
func (f *Forest) Components() []Component {
	return f.meta.sorted()
}

// EnabledComponents returns the components that passed the last Filter,
// ordered by root index.
func (f *Forest) EnabledComponents() []Component {
	all := f.meta.sorted()
	out := all[:0]
	for _, c := range all {
		if c.Enabled {
			out = append(out, c)
		}
	}
	return out
}

// ColorAt returns the colour of the component containing pixel p. The
// boolean is false for background pixels and uncoloured components.
func (f *Forest) ColorAt(p int) (colorful.Color, bool, error) {
	root, err := f.FindFlat(p)
	if err != nil {
		return colorful.Color{}, false, err
	}
	if root < 0 {
		return colorful.Color{}, false, nil
	}
	r := f.meta.regions[root]
	return r.Color, r.Colored, nil
}

// FindStats reports how many finds ran and how many parent hops they took
// in total.
type FindStats struct {
	Calls      int
	Iterations int
}

// PerCall returns the average number of hops per find.
func (s FindStats) PerCall() float64 {
	if s.Calls == 0 {
		return 0
	}
	return float64(s.Iterations) / float64(s.Calls)
}

// FindStats returns the find counters accumulated since the last Populate.
func (f *Forest) FindStats() FindStats {
	return FindStats{Calls: f.findCalls, Iterations: f.findIterations}
}

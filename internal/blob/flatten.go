package blob

import "math"

// Flatten points every foreground pixel directly at its root, so FindFlat
// answers in one lookup, and computes each component's bounding box.
//
// Pixels of one horizontal run share a pre-flatten parent, so the last
// resolved (parent, root) pair is cached and a whole run costs one find.
func (f *Forest) Flatten() error {
	if f.width == 0 {
		return ErrNotPopulated
	}

	for _, r := range f.meta.regions {
		r.MinX, r.MaxX = math.MaxInt, -1
		r.MinY, r.MaxY = math.MaxInt, -1
	}

	cacheGroup, cacheRoot := -1, -1
	index := 0
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x, index = x+1, index+1 {
			group := f.tree[index]
			if group < 0 {
				continue
			}
			if group != cacheGroup {
				cacheGroup = group
				cacheRoot = f.find(group)
			}
			f.tree[index] = cacheRoot
			f.meta.regions[cacheRoot].grow(x, y)
		}
	}
	f.flat = true

	stats := f.FindStats()
	Logger().Debug("blob: flattened",
		"groups", f.meta.len(),
		"find_calls", stats.Calls,
		"find_iterations", stats.Iterations,
		"per_call", stats.PerCall())
	return nil
}

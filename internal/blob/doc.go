// Package blob labels the connected components of a binarized raster.
//
// A Forest is a union-find over pixel indices (index = y*width + x) that
// also owns a registry of per-component metadata: size, bounding box,
// colour and an enabled flag. The usual sequence is:
//
//	f, err := blob.New(w * h)
//	if err != nil { ... }
//	if err := f.Populate(raster, threshold); err != nil { ... }
//	if err := f.Flatten(); err != nil { ... }
//	stats := f.Filter(minSize)
//	f.ColorBySize(stats.Smallest, stats.Biggest)
//
// # Connectivity
//
// Pixels with luminance strictly above the threshold are foreground.
// Components are 4-connected: left and top neighbours are merged during
// the scan, which makes right and bottom adjacency follow transitively.
// Diagonal neighbours are not connected.
//
// # Flattening
//
// Find walks parent pointers without compressing them. Flatten rewrites
// the whole parent array so every pixel points at its root, after which
// FindFlat, Labels and ColorAt answer in O(1). A Union that actually
// merges clears the flat flag again.
//
// # Errors
//
// Operations return wrapped sentinel errors (ErrInvalidArgument,
// ErrIndexOutOfRange, ErrBackground, ErrNotFlat, ErrNotPopulated). These
// are caller mistakes; nothing in the package retries.
package blob

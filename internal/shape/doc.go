// Package shape classifies labeled components as circles, rectangles,
// lines or shapeless blobs from nothing more than their pixel count and
// bounding box.
package shape

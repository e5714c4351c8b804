// Package imaging connects image files to the blob labeler and turns the
// labeling results back into images.
//
// The input side loads and caches source images (ImageCache), optionally
// blurs or inverts them (Blur, Invert, Preprocess) and exposes their
// luminance as a blob.Raster (LumaRaster). The output side renders a
// labeling as a coloured component map (RenderComponents), a foreground
// mask (Binarize) or a crop around one component (CropComponent), and
// encodes results as base64 PNG records for MCP clients.
//
// # Coordinate System
//
// All pixel coordinates are 0-based with (0,0) at the top-left corner, X
// increasing rightward and Y downward. Rectangles follow image.Rectangle:
// Min is inclusive, Max exclusive. A pixel's index in a label array is
// y*width + x.
//
// # Thread Safety
//
// ImageCache is safe for concurrent use. The remaining functions are
// stateless and may run concurrently on different images.
package imaging

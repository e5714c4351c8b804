// Package server implements the MCP (Model Context Protocol) server for
// connected-component analysis.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Image Information:
//   - image_load: Load image and get metadata
//
// Labeling:
//   - blob_label: Threshold, label, flatten and filter an image
//   - blob_filter: Re-filter with a different minimum size
//
// Component Queries:
//   - blob_components: List components with bounds and colours
//   - blob_component_at: Component under a pixel
//
// Rendering:
//   - blob_colorize: Coloured component map
//   - blob_binary: Thresholded foreground mask
//   - blob_crop_component: Source image cropped to one component
//
// Analysis:
//   - blob_classify: Shape guess per component
//   - blob_ocr_component: Tesseract OCR inside one component
//
// # Sessions
//
// blob_label keeps its result per image path. The other blob_* tools work
// on that result and fail with ErrNotLabeled until blob_label has run for
// the path. Relabeling replaces the session. Decoded images are cached by
// path for the lifetime of the process.
//
// # Configuration
//
// Defaults for threshold, minimum size, blur, inversion, union strategy,
// colour mode and OCR language come from the config file passed to New.
// Tool arguments override them per call.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: The Go error string
package server

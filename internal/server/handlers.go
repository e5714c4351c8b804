package server

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ironsheep/blob-tools-mcp/internal/blob"
	"github.com/ironsheep/blob-tools-mcp/internal/imaging"
	"github.com/ironsheep/blob-tools-mcp/internal/ocr"
	"github.com/ironsheep/blob-tools-mcp/internal/shape"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "blob_label").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler unmarshals its arguments, fills in defaults from the
// server config, looks up the image or its labeling session and calls into
// the blob, imaging, shape or ocr packages.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	// Labeling
	case "blob_label":
		return s.handleBlobLabel(args)
	case "blob_filter":
		return s.handleBlobFilter(args)

	// Component Queries
	case "blob_components":
		return s.handleBlobComponents(args)
	case "blob_component_at":
		return s.handleBlobComponentAt(args)

	// Rendering
	case "blob_colorize":
		return s.handleBlobColorize(args)
	case "blob_binary":
		return s.handleBlobBinary(args)
	case "blob_crop_component":
		return s.handleBlobCropComponent(args)

	// Analysis
	case "blob_classify":
		return s.handleBlobClassify(args)
	case "blob_ocr_component":
		return s.handleBlobOCRComponent(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Result Types ===

// BoundsResult is a bounding box; X2 and Y2 are exclusive.
type BoundsResult struct {
	X1 int `json:"x1"`
	Y1 int `json:"y1"`
	X2 int `json:"x2"`
	Y2 int `json:"y2"`
}

// ComponentInfo describes one component.
type ComponentInfo struct {
	Root    int                  `json:"root"`
	Size    int                  `json:"size"`
	Enabled bool                 `json:"enabled"`
	Bounds  BoundsResult         `json:"bounds"`
	Width   int                  `json:"width"`
	Height  int                  `json:"height"`
	Color   *imaging.ColorResult `json:"color,omitempty"`
	Summary string               `json:"summary"`
}

func componentInfo(c blob.Component) ComponentInfo {
	b := c.Bounds()
	info := ComponentInfo{
		Root:    c.Root,
		Size:    c.Size,
		Enabled: c.Enabled,
		Bounds:  BoundsResult{X1: b.Min.X, Y1: b.Min.Y, X2: b.Max.X, Y2: b.Max.Y},
		Width:   b.Dx(),
		Height:  b.Dy(),
		Summary: c.Region.String(),
	}
	if c.Colored {
		color := imaging.ColorInfo(c.Color)
		info.Color = &color
	}
	return info
}

// FindStatsResult reports the cost of the find operations of a run.
type FindStatsResult struct {
	Calls      int     `json:"calls"`
	Iterations int     `json:"iterations"`
	PerCall    float64 `json:"per_call"`
}

// LabelResult is returned by blob_label.
type LabelResult struct {
	Path          string          `json:"path"`
	Width         int             `json:"width"`
	Height        int             `json:"height"`
	Threshold     float64         `json:"threshold"`
	Blur          bool            `json:"blur"`
	Invert        bool            `json:"invert"`
	Strategy      string          `json:"strategy"`
	PrePassGroups int             `json:"pre_pass_groups"`
	Components    int             `json:"components"`
	Stats         blob.Stats      `json:"stats"`
	Summary       string          `json:"summary"`
	Find          FindStatsResult `json:"find"`
}

// FilterResult is returned by blob_filter.
type FilterResult struct {
	Stats   blob.Stats `json:"stats"`
	Summary string     `json:"summary"`
}

// ComponentsResult is returned by blob_components.
type ComponentsResult struct {
	Components []ComponentInfo `json:"components"`
	Count      int             `json:"count"`
	Total      int             `json:"total"`
}

// ComponentAtResult is returned by blob_component_at.
type ComponentAtResult struct {
	X          int            `json:"x"`
	Y          int            `json:"y"`
	Background bool           `json:"background"`
	Component  *ComponentInfo `json:"component,omitempty"`
}

// ColorizeResult is returned by blob_colorize.
type ColorizeResult struct {
	imaging.ImageResult
	Mode  string     `json:"mode"`
	Stats blob.Stats `json:"stats"`
}

// ShapeResult is one entry of blob_classify.
type ShapeResult struct {
	Root int `json:"root"`
	shape.Classification
}

// ClassifyResult is returned by blob_classify.
type ClassifyResult struct {
	Shapes []ShapeResult `json:"shapes"`
	Count  int           `json:"count"`
}

// === Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Labeling Handlers ===

type blobLabelArgs struct {
	Path      string   `json:"path"`
	Threshold *float64 `json:"threshold"`
	MinSize   *int     `json:"min_size"`
	Blur      *bool    `json:"blur"`
	Invert    *bool    `json:"invert"`
	Strategy  string   `json:"strategy"`
}

func (s *Server) handleBlobLabel(args json.RawMessage) (interface{}, error) {
	var a blobLabelArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	p := labelParams{
		Threshold: s.cfg.Labeling.Threshold,
		MinSize:   s.cfg.Labeling.MinSize,
		Blur:      s.cfg.Labeling.Blur,
		Invert:    s.cfg.Labeling.Invert,
	}
	if a.Threshold != nil {
		p.Threshold = *a.Threshold
	}
	if a.MinSize != nil {
		p.MinSize = *a.MinSize
	}
	if a.Blur != nil {
		p.Blur = *a.Blur
	}
	if a.Invert != nil {
		p.Invert = *a.Invert
	}
	if a.Strategy == "" {
		a.Strategy = s.cfg.Labeling.Strategy
	}
	strategy, err := blob.ParseStrategy(a.Strategy)
	if err != nil {
		return nil, err
	}
	p.Strategy = strategy

	if p.Threshold < 0 || p.Threshold > 255 {
		return nil, fmt.Errorf("threshold %g not in [0,255]", p.Threshold)
	}
	if p.MinSize < 0 {
		return nil, fmt.Errorf("min_size %d is negative", p.MinSize)
	}

	sess, err := s.label(a.Path, p)
	if err != nil {
		return nil, err
	}

	fs := sess.forest.FindStats()
	return &LabelResult{
		Path:          a.Path,
		Width:         sess.forest.Width(),
		Height:        sess.forest.Height(),
		Threshold:     p.Threshold,
		Blur:          p.Blur,
		Invert:        p.Invert,
		Strategy:      p.Strategy.String(),
		PrePassGroups: sess.forest.PrePassGroups(),
		Components:    sess.forest.Count(),
		Stats:         sess.stats,
		Summary:       sess.stats.String(),
		Find: FindStatsResult{
			Calls:      fs.Calls,
			Iterations: fs.Iterations,
			PerCall:    fs.PerCall(),
		},
	}, nil
}

type blobFilterArgs struct {
	Path    string `json:"path"`
	MinSize *int   `json:"min_size"`
}

func (s *Server) handleBlobFilter(args json.RawMessage) (interface{}, error) {
	var a blobFilterArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	minSize := s.cfg.Labeling.MinSize
	if a.MinSize != nil {
		minSize = *a.MinSize
	}
	if minSize < 0 {
		return nil, fmt.Errorf("min_size %d is negative", minSize)
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	stats := sess.filter(minSize)
	return &FilterResult{Stats: stats, Summary: stats.String()}, nil
}

// === Component Query Handlers ===

type blobComponentsArgs struct {
	Path            string `json:"path"`
	IncludeDisabled bool   `json:"include_disabled"`
	Sort            string `json:"sort"`
	Limit           int    `json:"limit"`
}

func (s *Server) handleBlobComponents(args json.RawMessage) (interface{}, error) {
	var a blobComponentsArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	var comps []blob.Component
	if a.IncludeDisabled {
		comps = sess.forest.Components()
	} else {
		comps = sess.forest.EnabledComponents()
	}

	switch a.Sort {
	case "", "root":
	case "size":
		sort.SliceStable(comps, func(i, j int) bool {
			return comps[i].Size > comps[j].Size
		})
	default:
		return nil, fmt.Errorf("unknown sort order %q (want root or size)", a.Sort)
	}

	total := len(comps)
	if a.Limit > 0 && len(comps) > a.Limit {
		comps = comps[:a.Limit]
	}

	infos := make([]ComponentInfo, len(comps))
	for i, c := range comps {
		infos[i] = componentInfo(c)
	}
	return &ComponentsResult{Components: infos, Count: len(infos), Total: total}, nil
}

type blobComponentAtArgs struct {
	Path string `json:"path"`
	X    int    `json:"x"`
	Y    int    `json:"y"`
}

func (s *Server) handleBlobComponentAt(args json.RawMessage) (interface{}, error) {
	var a blobComponentAtArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	c, ok, err := sess.componentAt(a.X, a.Y)
	if err != nil {
		return nil, err
	}
	result := &ComponentAtResult{X: a.X, Y: a.Y, Background: !ok}
	if ok {
		info := componentInfo(c)
		result.Component = &info
	}
	return result, nil
}

// === Rendering Handlers ===

type blobColorizeArgs struct {
	Path         string `json:"path"`
	Mode         string `json:"mode"`
	Seed         *int64 `json:"seed"`
	DrawBoxes    *bool  `json:"draw_boxes"`
	ShowDisabled bool   `json:"show_disabled"`
	LabelShapes  bool   `json:"label_shapes"`
}

func (s *Server) handleBlobColorize(args json.RawMessage) (interface{}, error) {
	var a blobColorizeArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Mode == "" {
		a.Mode = s.cfg.Render.ColorMode
	}
	seed := s.cfg.Render.Seed
	if a.Seed != nil {
		seed = *a.Seed
	}
	opts := imaging.RenderOptions{
		DrawBoxes:    s.cfg.Render.DrawBoxes,
		ShowDisabled: a.ShowDisabled,
	}
	if a.DrawBoxes != nil {
		opts.DrawBoxes = *a.DrawBoxes
	}

	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	if err := sess.colorize(a.Mode, seed); err != nil {
		return nil, err
	}

	comps := sess.forest.Components()
	if a.LabelShapes {
		opts.Captions = make(map[int]string)
		for _, c := range comps {
			if c.Enabled {
				opts.Captions[c.Root] = shape.Classify(c.Size, c.Bounds()).Kind.Caption()
			}
		}
	}

	canvas, err := imaging.RenderComponents(sess.forest.Width(), sess.forest.Height(), sess.labels, comps, opts)
	if err != nil {
		return nil, err
	}
	img, err := imaging.EncodePNG(canvas)
	if err != nil {
		return nil, err
	}
	return &ColorizeResult{ImageResult: *img, Mode: a.Mode, Stats: sess.stats}, nil
}

type blobPathArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleBlobBinary(args json.RawMessage) (interface{}, error) {
	var a blobPathArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodePNG(imaging.Binarize(sess.raster, sess.params.Threshold))
}

type blobCropComponentArgs struct {
	Path    string  `json:"path"`
	Root    int     `json:"root"`
	Padding *int    `json:"padding"`
	Scale   float64 `json:"scale"`
}

func (s *Server) handleBlobCropComponent(args json.RawMessage) (interface{}, error) {
	var a blobCropComponentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	padding := 2
	if a.Padding != nil {
		padding = *a.Padding
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}

	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	c, err := sess.component(a.Root)
	if err != nil {
		return nil, err
	}
	return imaging.CropComponent(sess.img, c.Bounds(), padding, a.Scale)
}

// === Analysis Handlers ===

type blobClassifyArgs struct {
	Path string `json:"path"`
	Root *int   `json:"root"`
}

func (s *Server) handleBlobClassify(args json.RawMessage) (interface{}, error) {
	var a blobClassifyArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}

	var comps []blob.Component
	if a.Root != nil {
		c, err := sess.component(*a.Root)
		if err != nil {
			return nil, err
		}
		comps = []blob.Component{c}
	} else {
		comps = sess.forest.EnabledComponents()
	}

	shapes := make([]ShapeResult, len(comps))
	for i, c := range comps {
		shapes[i] = ShapeResult{Root: c.Root, Classification: shape.Classify(c.Size, c.Bounds())}
	}
	return &ClassifyResult{Shapes: shapes, Count: len(shapes)}, nil
}

type blobOCRComponentArgs struct {
	Path     string `json:"path"`
	Root     int    `json:"root"`
	Language string `json:"language"`
}

func (s *Server) handleBlobOCRComponent(args json.RawMessage) (interface{}, error) {
	var a blobOCRComponentArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Language == "" {
		a.Language = s.cfg.OCR.Language
	}

	sess, err := s.session(a.Path)
	if err != nil {
		return nil, err
	}
	c, err := sess.component(a.Root)
	if err != nil {
		return nil, err
	}
	return ocr.ReadComponent(sess.img, c.Bounds(), a.Language)
}

package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

var pathProperty = map[string]interface{}{
	"type":        "string",
	"description": "Absolute path to the image file",
}

var rootProperty = map[string]interface{}{
	"type":        "integer",
	"description": "Root index identifying the component, as returned by blob_components or blob_component_at",
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions, format and pixel count.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},

		// Labeling
		{
			Name:        "blob_label",
			Description: "Find the connected components (blobs) of an image: pixels brighter than the threshold that touch horizontally or vertically form one component. Components smaller than min_size are filtered out. The result is kept for the other blob_* tools.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"threshold": map[string]interface{}{
						"type":        "number",
						"description": "Luminance (0-255) a pixel must exceed to be foreground. Default from config (128)",
					},
					"min_size": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest component size in pixels to keep. Default from config (6)",
					},
					"blur": map[string]interface{}{
						"type":        "boolean",
						"description": "Smooth with a 3x3 Gaussian before thresholding. Default from config (true)",
					},
					"invert": map[string]interface{}{
						"type":        "boolean",
						"description": "Invert the image first so dark shapes on a light background become foreground. Default from config (false)",
					},
					"strategy": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"weighted", "unweighted"},
						"description": "Union strategy. Default from config (weighted)",
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_filter",
			Description: "Re-run the size filter of a labeled image with a new minimum size and return the statistics of the components that remain.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"min_size": map[string]interface{}{
						"type":        "integer",
						"description": "Smallest component size in pixels to keep (default: labeling.minSize from config)",
					},
				},
				"required": []string{"path"},
			},
		},

		// Component Queries
		{
			Name:        "blob_components",
			Description: "List the components of a labeled image with size, bounding box and colour.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"include_disabled": map[string]interface{}{
						"type":        "boolean",
						"description": "Also list components removed by the size filter. Default false",
						"default":     false,
					},
					"sort": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"root", "size"},
						"description": "Order by root index (scan order) or by size, largest first. Default root",
						"default":     "root",
					},
					"limit": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum number of components to return. 0 means all",
						"default":     0,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_component_at",
			Description: "Return the component covering a pixel, or report that the pixel is background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based)",
					},
				},
				"required": []string{"path", "x", "y"},
			},
		},

		// Rendering
		{
			Name:        "blob_colorize",
			Description: "Colour every component of a labeled image and return the component map as base64 PNG on a black background.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"mode": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"size", "random"},
						"description": "size: hue ramp from smallest (red) to biggest (violet). random: random hue per component. Default from config (size)",
					},
					"seed": map[string]interface{}{
						"type":        "integer",
						"description": "Seed for random colours. 0 picks a new seed. Default from config",
					},
					"draw_boxes": map[string]interface{}{
						"type":        "boolean",
						"description": "Outline each component's bounding box in red. Default from config (false)",
					},
					"show_disabled": map[string]interface{}{
						"type":        "boolean",
						"description": "Draw filtered-out components in gray. Default false",
						"default":     false,
					},
					"label_shapes": map[string]interface{}{
						"type":        "boolean",
						"description": "Write the classified shape next to each component. Default false",
						"default":     false,
					},
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_binary",
			Description: "Return the thresholded foreground mask of a labeled image (white foreground on black) as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_crop_component",
			Description: "Crop the source image around one component and return it as base64 PNG.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"root": rootProperty,
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels to add around the bounding box. Default 2",
						"default":     2,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 2.0 to double size). Default 1.0",
						"default":     1.0,
					},
				},
				"required": []string{"path", "root"},
			},
		},

		// Analysis
		{
			Name:        "blob_classify",
			Description: "Guess the shape (circle, possible_circle, rectangle, line, blob) of one component, or of every enabled component when root is omitted.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"root": rootProperty,
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "blob_ocr_component",
			Description: "Read the text inside one component's bounding box with Tesseract OCR.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty,
					"root": rootProperty,
					"language": map[string]interface{}{
						"type":        "string",
						"description": "Tesseract language code. Default from config (eng)",
					},
				},
				"required": []string{"path", "root"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}

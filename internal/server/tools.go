package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// noArgsSchema is the input schema of tools without parameters.
func noArgsSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{},
	}
}

// numericParamSchema describes a single required parameter that may be sent
// as a JSON number or as numeric text.
func numericParamSchema(name, kind, description string) map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			name: map[string]interface{}{
				"type":        []string{kind, "string"},
				"description": description,
			},
		},
		"required": []string{name},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Canvas
		{
			Name:        "image_load",
			Description: "Load an image (file path or http/https URL) onto the canvas, replacing the current one, and return its brightness histogram. Without a source the configured default image is loaded.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"source": map[string]interface{}{
						"type":        "string",
						"description": "Absolute file path or http(s) URL of the image. Optional.",
					},
					"width": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas width in pixels. 0 keeps the native width, or the aspect ratio if height is set.",
						"default":     0,
					},
					"height": map[string]interface{}{
						"type":        "integer",
						"description": "Canvas height in pixels. 0 keeps the native height, or the aspect ratio if width is set.",
						"default":     0,
					},
				},
			},
		},

		// Transforms
		{
			Name:        "image_invert",
			Description: "Invert the colors of the canvas (each of R,G,B becomes 255 minus its value; alpha is kept).",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_grayscale",
			Description: "Convert the canvas to grayscale using the truncated average of R, G and B.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_brightness",
			Description: "Add an offset to R, G and B of every pixel, clamping to 0-255.",
			InputSchema: numericParamSchema("offset", "integer", "Brightness offset, may be negative (e.g. 20 or -35). JSON numbers must be integral (20.0 is accepted); strings must be plain integers"),
		},
		{
			Name:        "image_contrast",
			Description: "Scale every channel around the mean brightness. Coefficient > 1 increases contrast, between 0 and 1 decreases it, 1 leaves the image unchanged.",
			InputSchema: numericParamSchema("coefficient", "number", "Contrast coefficient, a decimal number in [-100, 100]"),
		},
		{
			Name:        "image_binarize",
			Description: "Binarize the canvas: pixels whose R+G+B (0-765) exceeds the threshold become white, all others black.",
			InputSchema: numericParamSchema("threshold", "integer", "Threshold compared against R+G+B (0-765). JSON numbers must be integral (382.0 is accepted); strings must be plain integers"),
		},

		// Analysis
		{
			Name:        "image_histogram",
			Description: "Return the 256-bucket brightness histogram of the canvas and a bar chart of it.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_channel_histogram",
			Description: "Return separate 256-bucket histograms for the red, green, blue and alpha channels of the canvas.",
			InputSchema: noArgsSchema(),
		},
		{
			Name:        "image_sample_color",
			Description: "Get the exact color value at a specific canvas pixel.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"x": map[string]interface{}{
						"type":        "integer",
						"description": "X coordinate (0-based, from left)",
					},
					"y": map[string]interface{}{
						"type":        "integer",
						"description": "Y coordinate (0-based, from top)",
					},
				},
				"required": []string{"x", "y"},
			},
		},

		// Output
		{
			Name:        "image_export",
			Description: "Return the canvas as a base64-encoded PNG, optionally also saving it to a file (.png, .jpg or .bmp).",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Optional absolute output path",
					},
				},
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

package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "Absolute path to the image file (.png, .jpg, .jpeg, .bmp)",
			},
		},
		"required": []string{"path"},
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name:        "ocr_image",
			Description: "Recognize printed text in an image. The image is converted to grayscale, upscaled 2x, blurred and binarized with Otsu's method before Tesseract runs. Returns the raw text with line breaks preserved.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "preprocess_image",
			Description: "Run only the preprocessing stage and return the black-and-white bitmap that would be passed to the OCR engine, as base64-encoded PNG. Useful to see why recognition failed.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "image_dimensions",
			Description: "Get the width and height of an image file.",
			InputSchema: pathSchema(),
		},
		{
			Name:        "ocr_engine_info",
			Description: "Report the OCR backend, Tesseract version, executable path and recognition settings (language, engine mode, page segmentation mode).",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": map[string]interface{}{},
			},
		},
	}
}

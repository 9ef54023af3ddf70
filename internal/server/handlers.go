package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/ocrpad/internal/imaging"
	"github.com/ironsheep/ocrpad/internal/pipeline"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "ocr_image").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// ToolErrorData is the data member of a tool execution error.
type ToolErrorData struct {
	Kind   string `json:"kind"`
	Detail string `json:"detail"`
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
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		var argErr *argumentError
		if errors.As(err, &argErr) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.log.WithField("tool", params.Name).WithError(err).Warn("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", ToolErrorData{
			Kind:   pipeline.Classify(err).String(),
			Detail: err.Error(),
		})
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "ocr_image":
		return s.handleOCRImage(ctx, args)
	case "preprocess_image":
		return s.handlePreprocessImage(ctx, args)
	case "image_dimensions":
		return s.handleImageDimensions(args)
	case "ocr_engine_info":
		return s.backend.Info(ctx), nil
	default:
		return nil, &argumentError{fmt.Errorf("unknown tool: %s", name)}
	}
}

// argumentError marks a malformed tool call, reported as -32602.
type argumentError struct {
	err error
}

func (e *argumentError) Error() string { return e.err.Error() }
func (e *argumentError) Unwrap() error { return e.err }

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type pathArgs struct {
	Path string `json:"path"`
}

func parsePathArgs(args json.RawMessage) (pathArgs, error) {
	var a pathArgs
	if len(args) > 0 {
		if err := json.Unmarshal(args, &a); err != nil {
			return a, &argumentError{err}
		}
	}
	if a.Path == "" {
		return a, &argumentError{errors.New("path is required")}
	}
	return a, nil
}

// OCRResult is the ocr_image result.
type OCRResult struct {
	Path string `json:"path"`
	Text string `json:"text"`
}

func (s *Server) handleOCRImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	text, err := s.backend.Run(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return &OCRResult{Path: a.Path, Text: text}, nil
}

func (s *Server) handlePreprocessImage(ctx context.Context, args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	bitmap, err := s.backend.Preprocess(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeBase64(bitmap)
}

// DimensionsResult is the image_dimensions result.
type DimensionsResult struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	a, err := parsePathArgs(args)
	if err != nil {
		return nil, err
	}
	img, err := imaging.Load(a.Path)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	return &DimensionsResult{Width: b.Dx(), Height: b.Dy()}, nil
}

// Package server exposes recognition as MCP (Model Context Protocol) tools
// for headless use.
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
//   - ocr_image: Preprocess an image and return the recognized text
//   - preprocess_image: Return the binarized bitmap as base64 PNG
//   - image_dimensions: Get width and height of a source image
//   - ocr_engine_info: Report the OCR backend, version and settings
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: {"kind": "decode"|"recognition"|"canceled", "detail": "<Go error>"}
//
// # Usage
//
//	srv := server.New(pipe, os.Stdin, os.Stdout, log)
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

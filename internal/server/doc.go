// Package server implements the MCP (Model Context Protocol) server for image editing tools.
//
// This package provides a JSON-RPC 2.0 server that exposes a single editable
// canvas through the MCP protocol. A client loads an image onto the canvas,
// applies pixel transforms to it, and reads back the brightness histogram
// after every edit.
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
// Canvas:
//   - image_load: Load a file or URL onto the canvas
//
// Transforms (each returns the new brightness histogram):
//   - image_invert: 255 minus each color channel
//   - image_grayscale: Truncated channel average
//   - image_brightness: Add an offset to every channel
//   - image_contrast: Scale channels around the mean brightness
//   - image_binarize: Black or white by R+G+B threshold
//
// Analysis:
//   - image_histogram: 256-bucket brightness histogram and chart
//   - image_channel_histogram: Per-channel histograms
//   - image_sample_color: Color at one pixel
//
// Output:
//   - image_export: Canvas as base64 PNG, optionally saved to disk
//
// Numeric parameters (offset, coefficient, threshold) are accepted as JSON
// numbers or as numeric strings and are parsed strictly. Anything that is not
// a plain decimal literal is rejected before the canvas is touched.
//
// # Histogram Charts
//
// Results that carry a histogram also carry a bar chart of it as a second
// MCP content block of type "image". A chart that fails to render is logged
// and omitted; the edit itself still succeeds.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
// The server is typically started by an MCP client:
//
//	srv := server.New(config.FromEnv())
//	if err := srv.Run(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server

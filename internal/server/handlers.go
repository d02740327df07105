package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"

	"github.com/ironsheep/image-edit-mcp/internal/editor"
	"github.com/ironsheep/image-edit-mcp/internal/imaging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_invert").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// chartCarrier is implemented by results that include a rendered histogram
// chart. The chart is sent as a separate MCP image content block.
type chartCarrier interface {
	chartPNG() []byte
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [
//	    {"type": "text", "text": "<JSON result>"},
//	    {"type": "image", "data": "<base64 PNG>", "mimeType": "image/png"}
//	  ]
//	}
//
// The image block is present only for results carrying a histogram chart.
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		if s.cfg.Debug() {
			log.Printf("Tool %s failed: %v", params.Name, err)
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	content := []map[string]interface{}{
		{
			"type": "text",
			"text": mustMarshalJSON(result),
		},
	}
	if cc, ok := result.(chartCarrier); ok {
		if png := cc.chartPNG(); len(png) > 0 {
			content = append(content, map[string]interface{}{
				"type":     "image",
				"data":     base64.StdEncoding.EncodeToString(png),
				"mimeType": "image/png",
			})
		}
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": content,
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Parses numeric parameters strictly
//  3. Runs the edit or query against the canvas
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Canvas
	case "image_load":
		return s.handleImageLoad(ctx, args)

	// Transforms
	case "image_invert":
		return s.applyEdit(editor.Invert())
	case "image_grayscale":
		return s.applyEdit(editor.Grayscale())
	case "image_brightness":
		return s.handleImageBrightness(args)
	case "image_contrast":
		return s.handleImageContrast(args)
	case "image_binarize":
		return s.handleImageBinarize(args)

	// Analysis
	case "image_histogram":
		return s.handleImageHistogram()
	case "image_channel_histogram":
		return s.handleImageChannelHistogram()
	case "image_sample_color":
		return s.handleImageSampleColor(args)

	// Output
	case "image_export":
		return s.handleImageExport(args)

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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// unmarshalArgs decodes tool arguments, treating missing arguments as {}.
func unmarshalArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || string(bytes.TrimSpace(args)) == "null" {
		return nil
	}
	return json.Unmarshal(args, v)
}

// numericText holds a parameter sent either as a JSON number or as a JSON
// string. The raw text is parsed later by the editor's strict parsers.
type numericText struct {
	text   string
	set    bool
	number bool
}

// maxExactInteger is the largest magnitude a float64 holds without losing
// integer precision.
const maxExactInteger = 1 << 53

// integerText returns the text for an integer parameter. A JSON number with
// an integral value such as 20.0 or 2e1 is rewritten as "20"; strings and
// fractional numbers are returned unchanged for the strict parser to judge.
func (n numericText) integerText() string {
	if !n.number {
		return n.text
	}
	f, err := strconv.ParseFloat(n.text, 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > maxExactInteger {
		return n.text
	}
	return strconv.FormatInt(int64(f), 10)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *numericText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		n.text, n.set = s, true
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a number or numeric string, got %s", data)
	}
	n.text, n.set, n.number = num.String(), true, true
	return nil
}

// === Result types ===

// histogramPayload is the JSON form of a brightness histogram.
type histogramPayload struct {
	Counts []int `json:"counts"`
	Pixels int   `json:"pixels"`
}

// editResponse is returned by the transform tools.
type editResponse struct {
	Operation string           `json:"operation"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Histogram histogramPayload `json:"histogram"`
	chart     []byte
}

func (r *editResponse) chartPNG() []byte { return r.chart }

// loadResponse is returned by image_load.
type loadResponse struct {
	Canvas    *imaging.CanvasInfo `json:"canvas"`
	Histogram histogramPayload    `json:"histogram"`
	chart     []byte
}

func (r *loadResponse) chartPNG() []byte { return r.chart }

// histogramResponse is returned by image_histogram.
type histogramResponse struct {
	histogramPayload
	chart []byte
}

func (r *histogramResponse) chartPNG() []byte { return r.chart }

// exportResponse is returned by image_export.
type exportResponse struct {
	*imaging.EncodedImage
	SavedTo string `json:"saved_to,omitempty"`
}

// === Canvas Handlers ===

type imageLoadArgs struct {
	Source string `json:"source"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageLoad(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Source == "" {
		a.Source = s.cfg.DefaultSource
	}

	info, err := s.canvas.Load(ctx, a.Source, a.Width, a.Height)
	if err != nil {
		return nil, err
	}
	if s.cfg.Debug() {
		log.Printf("Loaded %s (%s) as %dx%d canvas", info.Source, info.Format, info.Width, info.Height)
	}

	hist, err := s.editor.Histogram()
	if err != nil {
		return nil, err
	}
	return &loadResponse{
		Canvas:    info,
		Histogram: histogramPayload{Counts: hist.Counts, Pixels: hist.Pixels},
		chart:     hist.ChartPNG,
	}, nil
}

// === Transform Handlers ===

func (s *Server) applyEdit(op editor.Op) (interface{}, error) {
	res, err := s.editor.Apply(op)
	if err != nil {
		return nil, err
	}
	return &editResponse{
		Operation: res.Op.String(),
		Width:     res.Width,
		Height:    res.Height,
		Histogram: histogramPayload{Counts: res.Histogram.Counts, Pixels: res.Histogram.Pixels},
		chart:     res.Histogram.ChartPNG,
	}, nil
}

type imageBrightnessArgs struct {
	Offset numericText `json:"offset"`
}

func (s *Server) handleImageBrightness(args json.RawMessage) (interface{}, error) {
	var a imageBrightnessArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if !a.Offset.set {
		return nil, fmt.Errorf("offset is required")
	}
	op, err := editor.NewOp(editor.KindBrightness, a.Offset.integerText())
	if err != nil {
		return nil, err
	}
	return s.applyEdit(op)
}

type imageContrastArgs struct {
	Coefficient numericText `json:"coefficient"`
}

func (s *Server) handleImageContrast(args json.RawMessage) (interface{}, error) {
	var a imageContrastArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if !a.Coefficient.set {
		return nil, fmt.Errorf("coefficient is required")
	}
	op, err := editor.NewOp(editor.KindContrast, a.Coefficient.text)
	if err != nil {
		return nil, err
	}
	return s.applyEdit(op)
}

type imageBinarizeArgs struct {
	Threshold numericText `json:"threshold"`
}

func (s *Server) handleImageBinarize(args json.RawMessage) (interface{}, error) {
	var a imageBinarizeArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	if !a.Threshold.set {
		return nil, fmt.Errorf("threshold is required")
	}
	op, err := editor.NewOp(editor.KindBinarize, a.Threshold.integerText())
	if err != nil {
		return nil, err
	}
	return s.applyEdit(op)
}

// === Analysis Handlers ===

func (s *Server) handleImageHistogram() (interface{}, error) {
	hist, err := s.editor.Histogram()
	if err != nil {
		return nil, err
	}
	return &histogramResponse{
		histogramPayload: histogramPayload{Counts: hist.Counts, Pixels: hist.Pixels},
		chart:            hist.ChartPNG,
	}, nil
}

func (s *Server) handleImageChannelHistogram() (interface{}, error) {
	img, err := s.canvas.Snapshot()
	if err != nil {
		return nil, err
	}
	return imaging.ChannelHistograms(img), nil
}

type imageSampleColorArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleImageSampleColor(args json.RawMessage) (interface{}, error) {
	var a imageSampleColorArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.canvas.Snapshot()
	if err != nil {
		return nil, err
	}
	return imaging.SampleColor(img, a.X, a.Y)
}

// === Output Handlers ===

type imageExportArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageExport(args json.RawMessage) (interface{}, error) {
	var a imageExportArgs
	if err := unmarshalArgs(args, &a); err != nil {
		return nil, err
	}
	img, err := s.canvas.Snapshot()
	if err != nil {
		return nil, err
	}

	if a.Path != "" {
		if err := imaging.Save(img, a.Path); err != nil {
			return nil, err
		}
	}

	encoded, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, err
	}
	return &exportResponse{EncodedImage: encoded, SavedTo: a.Path}, nil
}

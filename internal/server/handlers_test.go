package server

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/image-edit-mcp/internal/config"
)

// createTestImageFile writes a 2x1 PNG with two known pixels and returns its
// path. Pixel (0,0) is {10,20,30} and pixel (1,0) is {200,100,50}.
func createTestImageFile(t *testing.T) string {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	img.SetNRGBA(0, 0, color.NRGBA{10, 20, 30, 255})
	img.SetNRGBA(1, 0, color.NRGBA{200, 100, 50, 255})

	path := filepath.Join(t.TempDir(), "handler-test.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return path
}

// callTool sends a tools/call request through handleRequest.
func callTool(t *testing.T, s *Server, name string, args interface{}) *MCPResponse {
	t.Helper()

	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	paramsJSON, _ := json.Marshal(params)

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  paramsJSON,
	}

	resp := s.handleRequest(context.Background(), req)
	if resp == nil {
		t.Fatal("handleRequest returned nil")
	}
	return resp
}

// mustCallTool calls a tool, fails the test on an error response and returns
// the content blocks.
func mustCallTool(t *testing.T, s *Server, name string, args interface{}) []map[string]interface{} {
	t.Helper()

	resp := callTool(t, s, name, args)
	if resp.Error != nil {
		t.Fatalf("%s: unexpected error: %v (%v)", name, resp.Error.Message, resp.Error.Data)
	}
	result, ok := resp.Result.(map[string]interface{})
	if !ok {
		t.Fatal("Result should be a map")
	}
	content, ok := result["content"].([]map[string]interface{})
	if !ok || len(content) == 0 {
		t.Fatal("Result should contain content blocks")
	}
	if content[0]["type"] != "text" {
		t.Fatalf("first content block: got type %v, want text", content[0]["type"])
	}
	return content
}

// decodeText unmarshals the JSON text block into v.
func decodeText(t *testing.T, content []map[string]interface{}, v interface{}) {
	t.Helper()

	text, ok := content[0]["text"].(string)
	if !ok {
		t.Fatal("text block has no text")
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		t.Fatalf("failed to decode result: %v", err)
	}
}

// loadedServer returns a server with the 2x1 test image on its canvas.
func loadedServer(t *testing.T) *Server {
	t.Helper()

	s := New(config.Default())
	mustCallTool(t, s, "image_load", map[string]interface{}{"source": createTestImageFile(t)})
	return s
}

// sampleHex returns the hex color at (x, y).
func sampleHex(t *testing.T, s *Server, x, y int) string {
	t.Helper()

	content := mustCallTool(t, s, "image_sample_color", map[string]interface{}{"x": x, "y": y})
	var got struct {
		Hex string `json:"hex"`
	}
	decodeText(t, content, &got)
	return got.Hex
}

func TestHandleToolsCall_ImageLoad(t *testing.T) {
	s := New(config.Default())
	path := createTestImageFile(t)

	content := mustCallTool(t, s, "image_load", map[string]interface{}{"source": path})

	var got struct {
		Canvas struct {
			Source string `json:"source"`
			Format string `json:"format"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"canvas"`
		Histogram struct {
			Counts []int `json:"counts"`
			Pixels int   `json:"pixels"`
		} `json:"histogram"`
	}
	decodeText(t, content, &got)

	if got.Canvas.Source != path || got.Canvas.Format != "png" {
		t.Errorf("canvas: got %s (%s)", got.Canvas.Source, got.Canvas.Format)
	}
	if got.Canvas.Width != 2 || got.Canvas.Height != 1 {
		t.Errorf("size: got %dx%d, want 2x1", got.Canvas.Width, got.Canvas.Height)
	}
	if len(got.Histogram.Counts) != 256 || got.Histogram.Pixels != 2 {
		t.Errorf("histogram: %d buckets, %d pixels", len(got.Histogram.Counts), got.Histogram.Pixels)
	}

	if len(content) != 2 {
		t.Fatalf("content blocks: got %d, want 2 (text and chart)", len(content))
	}
	if content[1]["type"] != "image" || content[1]["mimeType"] != "image/png" {
		t.Errorf("chart block: got %v / %v", content[1]["type"], content[1]["mimeType"])
	}
	if data, _ := content[1]["data"].(string); data == "" {
		t.Error("chart block has no data")
	}
}

func TestHandleToolsCall_ImageLoad_Resize(t *testing.T) {
	s := New(config.Default())
	content := mustCallTool(t, s, "image_load", map[string]interface{}{
		"source": createTestImageFile(t),
		"width":  8,
	})

	var got struct {
		Canvas struct {
			OriginalWidth int `json:"original_width"`
			Width         int `json:"width"`
			Height        int `json:"height"`
		} `json:"canvas"`
	}
	decodeText(t, content, &got)

	if got.Canvas.OriginalWidth != 2 || got.Canvas.Width != 8 || got.Canvas.Height != 4 {
		t.Errorf("got original %d, canvas %dx%d; want 2, 8x4", got.Canvas.OriginalWidth, got.Canvas.Width, got.Canvas.Height)
	}
}

func TestHandleToolsCall_ImageLoad_DefaultSource(t *testing.T) {
	cfg := config.Default()
	cfg.DefaultSource = createTestImageFile(t)
	s := New(cfg)

	content := mustCallTool(t, s, "image_load", map[string]interface{}{})

	var got struct {
		Canvas struct {
			Source string `json:"source"`
		} `json:"canvas"`
	}
	decodeText(t, content, &got)
	if got.Canvas.Source != cfg.DefaultSource {
		t.Errorf("source: got %s, want %s", got.Canvas.Source, cfg.DefaultSource)
	}
}

func TestHandleToolsCall_ImageLoad_URL(t *testing.T) {
	body, err := os.ReadFile(createTestImageFile(t))
	if err != nil {
		t.Fatal(err)
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(body)
	}))
	defer srv.Close()

	s := New(config.Default())
	mustCallTool(t, s, "image_load", map[string]interface{}{"source": srv.URL + "/pic.png"})

	if got := sampleHex(t, s, 1, 0); got != "#C86432" {
		t.Errorf("pixel (1,0): got %s, want #C86432", got)
	}
}

func TestHandleToolsCall_NonExistentFile(t *testing.T) {
	s := loadedServer(t)

	resp := callTool(t, s, "image_load", map[string]interface{}{"source": "/nonexistent/image.png"})
	if resp.Error == nil {
		t.Fatal("Expected error for non-existent file")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}

	// A failed load keeps the previous canvas.
	if got := sampleHex(t, s, 0, 0); got != "#0A141E" {
		t.Errorf("pixel (0,0): got %s, want #0A141E", got)
	}
}

func TestHandleToolsCall_Transforms(t *testing.T) {
	tests := []struct {
		name  string
		tool  string
		args  map[string]interface{}
		want0 string
		want1 string
	}{
		{"invert", "image_invert", nil, "#F5EBE1", "#379BCD"},
		{"grayscale", "image_grayscale", nil, "#141414", "#747474"},
		{"brightness number", "image_brightness", map[string]interface{}{"offset": 20}, "#1E2832", "#DC7846"},
		{"brightness string", "image_brightness", map[string]interface{}{"offset": "-15"}, "#00050F", "#B95523"},
		{"brightness saturates", "image_brightness", map[string]interface{}{"offset": 1000}, "#FFFFFF", "#FFFFFF"},
		{"contrast identity", "image_contrast", map[string]interface{}{"coefficient": "1"}, "#0A141E", "#C86432"},
		{"contrast zero", "image_contrast", map[string]interface{}{"coefficient": 0}, "#444444", "#444444"},
		{"binarize", "image_binarize", map[string]interface{}{"threshold": 100}, "#000000", "#FFFFFF"},
		{"binarize string", "image_binarize", map[string]interface{}{"threshold": "382"}, "#000000", "#000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := loadedServer(t)

			content := mustCallTool(t, s, tt.tool, tt.args)
			var got struct {
				Operation string `json:"operation"`
				Width     int    `json:"width"`
				Height    int    `json:"height"`
				Histogram struct {
					Pixels int `json:"pixels"`
				} `json:"histogram"`
			}
			decodeText(t, content, &got)

			if got.Operation == "" {
				t.Error("operation is empty")
			}
			if got.Width != 2 || got.Height != 1 || got.Histogram.Pixels != 2 {
				t.Errorf("got %dx%d with %d pixels", got.Width, got.Height, got.Histogram.Pixels)
			}

			if hex := sampleHex(t, s, 0, 0); hex != tt.want0 {
				t.Errorf("pixel (0,0): got %s, want %s", hex, tt.want0)
			}
			if hex := sampleHex(t, s, 1, 0); hex != tt.want1 {
				t.Errorf("pixel (1,0): got %s, want %s", hex, tt.want1)
			}
		})
	}
}

func TestHandleToolsCall_RejectsBadNumbers(t *testing.T) {
	tests := []struct {
		tool string
		args map[string]interface{}
	}{
		{"image_brightness", map[string]interface{}{}},
		{"image_brightness", map[string]interface{}{"offset": "1.5"}},
		{"image_brightness", map[string]interface{}{"offset": 1.5}},
		{"image_brightness", map[string]interface{}{"offset": true}},
		{"image_contrast", map[string]interface{}{"coefficient": "2*3"}},
		{"image_contrast", map[string]interface{}{"coefficient": "alert(1)"}},
		{"image_contrast", map[string]interface{}{"coefficient": 1000}},
		{"image_contrast", map[string]interface{}{"coefficient": nil}},
		{"image_binarize", map[string]interface{}{"threshold": "abc"}},
		{"image_binarize", map[string]interface{}{"threshold": ""}},
	}

	for _, tt := range tests {
		argsJSON, _ := json.Marshal(tt.args)
		t.Run(tt.tool+" "+string(argsJSON), func(t *testing.T) {
			s := loadedServer(t)

			resp := callTool(t, s, tt.tool, tt.args)
			if resp.Error == nil {
				t.Fatal("Expected error")
			}

			// The canvas is untouched.
			if got := sampleHex(t, s, 0, 0); got != "#0A141E" {
				t.Errorf("pixel (0,0): got %s, want #0A141E", got)
			}
		})
	}
}

func TestHandleToolsCall_NoImageLoaded(t *testing.T) {
	s := New(config.Default())

	for _, name := range []string{
		"image_invert",
		"image_grayscale",
		"image_histogram",
		"image_channel_histogram",
		"image_export",
	} {
		t.Run(name, func(t *testing.T) {
			resp := callTool(t, s, name, map[string]interface{}{})
			if resp.Error == nil {
				t.Fatal("Expected error before any image is loaded")
			}
			if resp.Error.Code != -32000 {
				t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
			}
		})
	}
}

func TestHandleToolsCall_Histogram(t *testing.T) {
	s := loadedServer(t)
	mustCallTool(t, s, "image_binarize", map[string]interface{}{"threshold": 100})

	content := mustCallTool(t, s, "image_histogram", nil)
	var got struct {
		Counts []int `json:"counts"`
		Pixels int   `json:"pixels"`
	}
	decodeText(t, content, &got)

	if len(got.Counts) != 256 {
		t.Fatalf("buckets: got %d, want 256", len(got.Counts))
	}
	if got.Counts[0] != 1 || got.Counts[255] != 1 || got.Pixels != 2 {
		t.Errorf("got counts[0]=%d counts[255]=%d pixels=%d", got.Counts[0], got.Counts[255], got.Pixels)
	}
	if len(content) != 2 || content[1]["type"] != "image" {
		t.Error("histogram should include a chart block")
	}
}

func TestHandleToolsCall_ChannelHistogram(t *testing.T) {
	s := loadedServer(t)

	content := mustCallTool(t, s, "image_channel_histogram", nil)
	var got struct {
		Red    []int `json:"red"`
		Green  []int `json:"green"`
		Blue   []int `json:"blue"`
		Alpha  []int `json:"alpha"`
		Pixels int   `json:"pixels"`
	}
	decodeText(t, content, &got)

	if got.Red[10] != 1 || got.Red[200] != 1 {
		t.Errorf("red: [10]=%d [200]=%d", got.Red[10], got.Red[200])
	}
	if got.Green[20] != 1 || got.Blue[50] != 1 || got.Alpha[255] != 2 {
		t.Error("unexpected channel counts")
	}
	if got.Pixels != 2 {
		t.Errorf("pixels: got %d, want 2", got.Pixels)
	}
	if len(content) != 1 {
		t.Errorf("content blocks: got %d, want 1", len(content))
	}
}

func TestHandleToolsCall_SampleColor_OutOfBounds(t *testing.T) {
	s := loadedServer(t)

	resp := callTool(t, s, "image_sample_color", map[string]interface{}{"x": 5, "y": 0})
	if resp.Error == nil {
		t.Error("Expected error for out-of-bounds coordinates")
	}
}

func TestHandleToolsCall_Export(t *testing.T) {
	s := loadedServer(t)
	mustCallTool(t, s, "image_invert", nil)

	out := filepath.Join(t.TempDir(), "out.png")
	content := mustCallTool(t, s, "image_export", map[string]interface{}{"path": out})

	var got struct {
		Width       int    `json:"width"`
		Height      int    `json:"height"`
		ImageBase64 string `json:"image_base64"`
		MimeType    string `json:"mime_type"`
		SavedTo     string `json:"saved_to"`
	}
	decodeText(t, content, &got)

	if got.Width != 2 || got.Height != 1 || got.MimeType != "image/png" || got.ImageBase64 == "" {
		t.Errorf("unexpected export result: %dx%d %s", got.Width, got.Height, got.MimeType)
	}
	if got.SavedTo != out {
		t.Errorf("saved_to: got %s, want %s", got.SavedTo, out)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("exported file missing: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("exported file is not a PNG: %v", err)
	}
	r, g, b, _ := img.At(0, 0).RGBA()
	if r>>8 != 245 || g>>8 != 235 || b>>8 != 225 {
		t.Errorf("exported pixel: got %d,%d,%d", r>>8, g>>8, b>>8)
	}
}

func TestHandleToolsCall_Export_UnsupportedFormat(t *testing.T) {
	s := loadedServer(t)

	resp := callTool(t, s, "image_export", map[string]interface{}{"path": filepath.Join(t.TempDir(), "out.tiff")})
	if resp.Error == nil {
		t.Error("Expected error for unsupported export format")
	}
}

func TestHandleToolsCall_InvalidTool(t *testing.T) {
	s := New(config.Default())

	resp := callTool(t, s, "nonexistent_tool", map[string]interface{}{})
	if resp.Error == nil {
		t.Fatal("Expected error for unknown tool")
	}
	if resp.Error.Code != -32000 {
		t.Errorf("Error code: got %d, want -32000", resp.Error.Code)
	}
}

func TestHandleToolsCall_InvalidParams(t *testing.T) {
	s := New(config.Default())

	req := &MCPRequest{
		JSONRPC: "2.0",
		ID:      1,
		Method:  "tools/call",
		Params:  json.RawMessage(`"not an object"`),
	}

	resp := s.handleToolsCall(context.Background(), req)
	if resp.Error == nil {
		t.Fatal("Expected error for invalid params")
	}
	if resp.Error.Code != -32602 {
		t.Errorf("Error code: got %d, want -32602", resp.Error.Code)
	}
}

func TestNumericText_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		set     bool
		wantErr bool
	}{
		{`20`, "20", true, false},
		{`-1.5e2`, "-1.5e2", true, false},
		{`"0.5"`, "0.5", true, false},
		{`"  7 "`, "  7 ", true, false},
		{`null`, "", false, false},
		{`true`, "", false, true},
		{`[1]`, "", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n numericText
			err := n.UnmarshalJSON([]byte(tt.in))
			if (err != nil) != tt.wantErr {
				t.Fatalf("error: got %v, wantErr %v", err, tt.wantErr)
			}
			if n.text != tt.want || n.set != tt.set {
				t.Errorf("got %q (set=%v), want %q (set=%v)", n.text, n.set, tt.want, tt.set)
			}
		})
	}
}

func TestExecuteTool_UnknownTool(t *testing.T) {
	s := New(config.Default())

	_, err := s.executeTool(context.Background(), "unknown_tool", json.RawMessage(`{}`))
	if err == nil {
		t.Error("executeTool should fail for unknown tool")
	}
}

func TestExecuteTool_InvalidJSON(t *testing.T) {
	s := New(config.Default())

	_, err := s.executeTool(context.Background(), "image_load", json.RawMessage(`{invalid`))
	if err == nil {
		t.Error("executeTool should fail for invalid JSON")
	}
}

func TestHandleToolsCall_IntegralFloatParams(t *testing.T) {
	tests := []struct {
		tool  string
		args  string
		want0 string
		want1 string
	}{
		{"image_brightness", `{"offset": 20.0}`, "#1E2832", "#DC7846"},
		{"image_brightness", `{"offset": 2e1}`, "#1E2832", "#DC7846"},
		{"image_brightness", `{"offset": -1.5E1}`, "#00050F", "#B95523"},
		{"image_binarize", `{"threshold": 100.0}`, "#000000", "#FFFFFF"},
	}

	for _, tt := range tests {
		t.Run(tt.tool+" "+tt.args, func(t *testing.T) {
			s := loadedServer(t)
			mustCallTool(t, s, tt.tool, json.RawMessage(tt.args))

			if hex := sampleHex(t, s, 0, 0); hex != tt.want0 {
				t.Errorf("pixel (0,0): got %s, want %s", hex, tt.want0)
			}
			if hex := sampleHex(t, s, 1, 0); hex != tt.want1 {
				t.Errorf("pixel (1,0): got %s, want %s", hex, tt.want1)
			}
		})
	}
}

func TestNumericText_IntegerText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{`20`, "20"},
		{`20.0`, "20"},
		{`2e1`, "20"},
		{`-0.0`, "0"},
		{`1.5`, "1.5"},
		{`1e300`, "1e300"},
		{`"20.0"`, "20.0"},
		{`" 7 "`, " 7 "},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var n numericText
			if err := n.UnmarshalJSON([]byte(tt.in)); err != nil {
				t.Fatalf("UnmarshalJSON failed: %v", err)
			}
			if got := n.integerText(); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

// Package chart renders brightness histograms as PNG bar charts.
package chart

import (
	"bytes"
	"fmt"
	"strconv"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// Defaults for a Renderer created with NewRenderer.
const (
	DefaultWidth  = 1200
	DefaultHeight = 400
	DefaultTitle  = "Histogram"

	// labelEvery controls how many buckets share one x-axis label.
	labelEvery = 32
)

// DefaultBarColor is rgba(124, 77, 255, 1).
var DefaultBarColor = drawing.Color{R: 124, G: 77, B: 255, A: 255}

// Renderer draws a 256-bucket histogram as a bar chart, one bar per
// brightness level. The y axis always starts at zero.
type Renderer struct {
	Width    int
	Height   int
	Title    string
	BarColor drawing.Color
}

// NewRenderer returns a Renderer with the default title and colour. Width
// and height fall back to the defaults when not positive.
func NewRenderer(width, height int) *Renderer {
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	return &Renderer{
		Width:    width,
		Height:   height,
		Title:    DefaultTitle,
		BarColor: DefaultBarColor,
	}
}

// RenderHistogram renders h and returns the PNG bytes. Each call produces a
// complete chart; nothing is kept between calls.
func (r *Renderer) RenderHistogram(h *pixels.Histogram) ([]byte, error) {
	style := gochart.Style{
		FillColor:   r.BarColor,
		StrokeColor: r.BarColor,
		StrokeWidth: 1,
	}

	bars := make([]gochart.Value, pixels.Levels)
	for level, count := range h {
		label := ""
		if level%labelEvery == 0 || level == pixels.Levels-1 {
			label = strconv.Itoa(level)
		}
		bars[level] = gochart.Value{
			Value: float64(count),
			Label: label,
			Style: style,
		}
	}

	// An all-zero histogram would leave the y range empty.
	yMax := float64(h.Max())
	if yMax < 1 {
		yMax = 1
	}

	graph := gochart.BarChart{
		Title:  r.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 10, Right: 10, Bottom: 10},
		},
		BarWidth:   3,
		BarSpacing: 1,
		YAxis: gochart.YAxis{
			Range:          &gochart.ContinuousRange{Min: 0, Max: yMax},
			ValueFormatter: gochart.IntValueFormatter,
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("failed to render histogram chart: %w", err)
	}
	return buf.Bytes(), nil
}

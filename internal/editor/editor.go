// Package editor runs edit requests against a drawing surface.
//
// Each edit reads the pixels of the surface, applies one transform from
// package pixels, commits the pixels back, rebuilds the brightness histogram
// and asks the chart renderer to redraw it. The editor owns the buffer only
// for the duration of one call.
package editor

import (
	"fmt"
	"image"
	"log"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// Surface is the drawing surface an Editor reads from and writes to.
// *imaging.Canvas implements it.
type Surface interface {
	Bounds() image.Rectangle
	GetPixels(region image.Rectangle) (pixels.Buffer, error)

	// Update hands fn the pixels of the whole surface and commits what fn
	// leaves in the buffer. No other access to the surface may happen in
	// between. It returns the edited region.
	Update(fn func(buf pixels.Buffer)) (image.Rectangle, error)
}

// HistogramRenderer draws a histogram as an image. *chart.Renderer
// implements it.
type HistogramRenderer interface {
	RenderHistogram(h *pixels.Histogram) ([]byte, error)
}

// Editor applies transforms to a Surface and reports the histogram after
// each one.
type Editor struct {
	surface  Surface
	renderer HistogramRenderer
	debug    bool
}

// HistogramResult is the brightness histogram of the surface.
type HistogramResult struct {
	// Counts has 256 entries, one per brightness level.
	Counts []int `json:"counts"`

	// Pixels is the number of pixels counted; it equals the sum of Counts.
	Pixels int `json:"pixels"`

	// ChartPNG is the rendered bar chart, empty when rendering failed or no
	// renderer is configured.
	ChartPNG []byte `json:"-"`
}

// EditResult reports the outcome of one transform.
type EditResult struct {
	Op        Op               `json:"op"`
	Width     int              `json:"width"`
	Height    int              `json:"height"`
	Histogram *HistogramResult `json:"histogram"`
}

// New creates an Editor. renderer may be nil, in which case no chart is
// produced.
func New(surface Surface, renderer HistogramRenderer) *Editor {
	return &Editor{surface: surface, renderer: renderer}
}

// SetDebug enables logging of each applied operation.
func (e *Editor) SetDebug(debug bool) {
	e.debug = debug
}

// Apply runs op over the whole surface and returns the new histogram.
//
// # Errors
//
//   - Returns error if op is invalid
//   - Returns error if the surface has no pixels yet
//   - Returns error if the pixels cannot be committed
//
// The read, transform and commit happen inside one Surface.Update, so edits
// from several goroutines are applied one after another and none is lost.
func (e *Editor) Apply(op Op) (*EditResult, error) {
	if err := op.Validate(); err != nil {
		return nil, err
	}

	var edited pixels.Buffer
	region, err := e.surface.Update(func(buf pixels.Buffer) {
		op.Apply(buf)
		edited = buf
	})
	if err != nil {
		return nil, fmt.Errorf("failed to edit pixels: %w", err)
	}
	if e.debug {
		log.Printf("Applied %s to %dx%d region", op, region.Dx(), region.Dy())
	}

	return &EditResult{
		Op:        op,
		Width:     region.Dx(),
		Height:    region.Dy(),
		Histogram: e.histogramOf(edited),
	}, nil
}

// ApplyAll applies ops in order and returns the result of the last one. It
// stops at the first failing op.
func (e *Editor) ApplyAll(ops []Op) (*EditResult, error) {
	if len(ops) == 0 {
		return nil, fmt.Errorf("no operations given")
	}
	var last *EditResult
	for i, op := range ops {
		res, err := e.Apply(op)
		if err != nil {
			return nil, fmt.Errorf("operation %d (%s): %w", i+1, op, err)
		}
		last = res
	}
	return last, nil
}

// Histogram rebuilds the histogram of the surface without modifying it.
func (e *Editor) Histogram() (*HistogramResult, error) {
	buf, err := e.surface.GetPixels(e.surface.Bounds())
	if err != nil {
		return nil, fmt.Errorf("failed to read pixels: %w", err)
	}
	return e.histogramOf(buf), nil
}

func (e *Editor) histogramOf(buf pixels.Buffer) *HistogramResult {
	h := pixels.BrightnessHistogram(buf)
	result := &HistogramResult{
		Counts: h.Counts(),
		Pixels: h.Total(),
	}

	if e.renderer != nil {
		// Chart failures are not edit failures.
		png, err := e.renderer.RenderHistogram(&h)
		if err != nil {
			log.Printf("Histogram chart render failed: %v", err)
		} else {
			result.ChartPNG = png
		}
	}
	return result
}

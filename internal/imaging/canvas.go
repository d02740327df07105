package imaging

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// ErrNoImage is returned by Canvas operations that need pixels before any
// image has been loaded.
var ErrNoImage = errors.New("no image loaded")

// Canvas is the single drawing surface the editor works on.
//
// It stores the current image as non-premultiplied RGBA (*image.NRGBA), which
// is the layout pixels.Buffer expects. Pixels are read with GetPixels and
// committed back with PutPixels, or edited in place with Update; Canvas never
// transforms pixels itself.
//
// Canvas is safe for concurrent use by multiple goroutines.
//
// # Example Usage
//
//	canvas := imaging.NewCanvas(&imaging.Loader{})
//	if _, err := canvas.Load(ctx, "/path/to/image.png", 0, 0); err != nil {
//	    log.Fatal(err)
//	}
//	region, err := canvas.Update(pixels.Invert)
type Canvas struct {
	mu     sync.RWMutex
	loader *Loader
	img    *image.NRGBA
	info   CanvasInfo
}

// CanvasInfo describes the image currently on the canvas.
type CanvasInfo struct {
	// Source is the file path or URL the image was loaded from.
	Source string `json:"source"`

	// Format is the decoded format: "png", "jpeg", "gif", "bmp", "webp" or "unknown".
	Format string `json:"format"`

	// OriginalWidth and OriginalHeight are the dimensions before scaling.
	OriginalWidth  int `json:"original_width"`
	OriginalHeight int `json:"original_height"`

	// Width and Height are the canvas dimensions in pixels.
	Width  int `json:"width"`
	Height int `json:"height"`
}

// NewCanvas creates an empty canvas that loads images through loader.
// A nil loader uses a zero Loader.
func NewCanvas(loader *Loader) *Canvas {
	if loader == nil {
		loader = &Loader{}
	}
	return &Canvas{loader: loader}
}

// Load decodes source and places it on the canvas, replacing any previous
// image.
//
// Parameters:
//   - ctx: Bounds a remote download.
//   - source: File path or http(s) URL.
//   - width, height: Target canvas size. If both are 0 the native size is
//     kept. If exactly one is 0 the aspect ratio is preserved.
//
// The previous image stays in place if loading fails.
func (c *Canvas) Load(ctx context.Context, source string, width, height int) (*CanvasInfo, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}

	img, format, err := c.loader.Load(ctx, source)
	if err != nil {
		return nil, err
	}
	orig := img.Bounds()

	var surface *image.NRGBA
	if width > 0 || height > 0 {
		surface = imaging.Resize(img, width, height, imaging.Linear)
	} else {
		surface = imaging.Clone(img)
	}

	info := CanvasInfo{
		Source:         source,
		Format:         format,
		OriginalWidth:  orig.Dx(),
		OriginalHeight: orig.Dy(),
		Width:          surface.Bounds().Dx(),
		Height:         surface.Bounds().Dy(),
	}

	c.mu.Lock()
	c.img = surface
	c.info = info
	c.mu.Unlock()

	return &info, nil
}

// SetImage places img on the canvas directly, without decoding.
func (c *Canvas) SetImage(img image.Image, source string) *CanvasInfo {
	surface := imaging.Clone(img)
	b := surface.Bounds()
	info := CanvasInfo{
		Source:         source,
		Format:         "unknown",
		OriginalWidth:  img.Bounds().Dx(),
		OriginalHeight: img.Bounds().Dy(),
		Width:          b.Dx(),
		Height:         b.Dy(),
	}

	c.mu.Lock()
	c.img = surface
	c.info = info
	c.mu.Unlock()

	return &info
}

// Info returns metadata about the current image.
func (c *Canvas) Info() (*CanvasInfo, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return nil, ErrNoImage
	}
	info := c.info
	return &info, nil
}

// Bounds returns the canvas rectangle, or the empty rectangle if no image is
// loaded.
func (c *Canvas) Bounds() image.Rectangle {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return image.Rectangle{}
	}
	return c.img.Bounds()
}

// GetPixels copies the RGBA channels of region into a new buffer, row-major.
//
// # Errors
//
//   - ErrNoImage if nothing has been loaded
//   - Returns error if region is empty or not inside the canvas
func (c *Canvas) GetPixels(region image.Rectangle) (pixels.Buffer, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if err := c.checkRegion(region); err != nil {
		return nil, err
	}

	return c.readLocked(region), nil
}

// PutPixels writes buf into region. The buffer must hold exactly one RGBA
// quadruple per pixel of the region.
//
// # Errors
//
//   - ErrNoImage if nothing has been loaded
//   - Returns error if region is empty or not inside the canvas
//   - Returns error if len(buf) does not match the region size
func (c *Canvas) PutPixels(buf pixels.Buffer, region image.Rectangle) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkRegion(region); err != nil {
		return err
	}

	rowLen := region.Dx() * pixels.Channels
	if want := rowLen * region.Dy(); len(buf) != want {
		return fmt.Errorf("buffer length %d does not match region %v (want %d)", len(buf), region, want)
	}

	c.writeLocked(buf, region)
	return nil
}

// Update runs fn on a copy of the whole canvas and commits the result, all
// under the write lock, so no other Load, PutPixels or Update can interleave.
// fn must not call back into the Canvas. It returns the region that was
// edited.
//
// # Errors
//
//   - ErrNoImage if nothing has been loaded
func (c *Canvas) Update(fn func(buf pixels.Buffer)) (image.Rectangle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.img == nil {
		return image.Rectangle{}, ErrNoImage
	}
	region := c.img.Bounds()

	buf := c.readLocked(region)
	fn(buf)
	c.writeLocked(buf, region)
	return region, nil
}

// Snapshot returns a copy of the current image.
func (c *Canvas) Snapshot() (*image.NRGBA, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.img == nil {
		return nil, ErrNoImage
	}
	return imaging.Clone(c.img), nil
}

// Clear removes the current image.
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.img = nil
	c.info = CanvasInfo{}
	c.mu.Unlock()
}

// checkRegion must be called with c.mu held.
func (c *Canvas) checkRegion(region image.Rectangle) error {
	if c.img == nil {
		return ErrNoImage
	}
	if region.Empty() {
		return fmt.Errorf("empty region %v", region)
	}
	bounds := c.img.Bounds()
	if !region.In(bounds) {
		return fmt.Errorf("region (%d,%d)-(%d,%d) outside canvas bounds (%d,%d)-(%d,%d)",
			region.Min.X, region.Min.Y, region.Max.X, region.Max.Y,
			bounds.Min.X, bounds.Min.Y, bounds.Max.X, bounds.Max.Y)
	}
	return nil
}

// readLocked copies region out of the image, row-major. c.mu must be held.
func (c *Canvas) readLocked(region image.Rectangle) pixels.Buffer {
	rowLen := region.Dx() * pixels.Channels
	buf := make(pixels.Buffer, 0, rowLen*region.Dy())
	for y := region.Min.Y; y < region.Max.Y; y++ {
		off := c.img.PixOffset(region.Min.X, y)
		buf = append(buf, c.img.Pix[off:off+rowLen]...)
	}
	return buf
}

// writeLocked copies buf into region. c.mu must be held for writing.
func (c *Canvas) writeLocked(buf pixels.Buffer, region image.Rectangle) {
	rowLen := region.Dx() * pixels.Channels
	for row, y := 0, region.Min.Y; y < region.Max.Y; row, y = row+1, y+1 {
		off := c.img.PixOffset(region.Min.X, y)
		copy(c.img.Pix[off:off+rowLen], buf[row*rowLen:(row+1)*rowLen])
	}
}

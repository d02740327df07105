// Package imaging provides the drawing surface the editor reads pixels from
// and commits pixels to, plus image loading, encoding and inspection helpers.
//
// The Canvas holds exactly one image at a time as *image.NRGBA. Callers take
// a pixels.Buffer out with GetPixels, transform it, and write it back with
// PutPixels, or hands a function to Update. Nothing in this package changes pixel values on its own.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//   - Regions are image.Rectangle values: Min is inclusive, Max is exclusive
//
// # Loading
//
// Loader accepts local paths and http(s) URLs. PNG, JPEG, GIF, BMP and WebP
// are decoded. A loaded image may be scaled to a target canvas size, the way
// a browser canvas stretches an image drawn into it.
//
// # Thread Safety
//
// Canvas is safe for concurrent use. GetPixels returns a copy and PutPixels
// replaces a region in one step. A read-modify-write edit must go through
// Update, which holds the write lock from the read until the commit, so two
// concurrent edits cannot overwrite each other.
//
// # Error Handling
//
// Functions return errors for invalid inputs such as:
//   - Operations on an empty canvas (ErrNoImage)
//   - Regions outside the canvas or empty regions
//   - Buffers whose length does not match the region
//   - File I/O, download and decoding errors
package imaging

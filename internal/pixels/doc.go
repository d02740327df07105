// Package pixels implements the pixel transforms and the brightness histogram
// that drive the editor.
//
// Every function operates on a Buffer: a flat slice of 8-bit RGBA channel
// values, four per pixel, in row-major order. This is the layout returned by
// image.NRGBA.Pix for a tightly packed region and by a browser canvas'
// getImageData.
//
// # Transforms
//
// Transforms mutate the buffer in place and never touch the alpha channel:
//   - Invert: each of R,G,B becomes 255 - value
//   - Grayscale: R,G,B become the truncated average (R+G+B)/3
//   - AdjustBrightness: adds an offset and clamps to [0,255]
//   - AdjustContrast: scales each channel around the luma-weighted mean
//   - Binarize: R,G,B become 255 when R+G+B exceeds a threshold, else 0
//
// All transforms are single pass except AdjustContrast, which first needs the
// mean brightness of the whole buffer.
//
// # Rounding
//
// Grayscale truncates. AdjustContrast and BrightnessHistogram round half up
// (floor(x + 0.5)). The two policies are intentional and must not be merged.
//
// # Luma Weights
//
// Two weight vectors are in use:
//   - Contrast mean: 0.2126*R + 0.7152*G + 0.0722*B
//   - Histogram brightness: 0.299*R + 0.5876*G + 0.114*B
//
// # Preconditions
//
// A Buffer must have a length that is a multiple of 4. Transforms do not
// check this; use Buffer.Valid at the boundary where buffers are created.
// None of the functions retain the buffer after returning and none are safe
// to run concurrently on the same buffer.
package pixels

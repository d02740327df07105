package pixels

import "math"

// Channels is the number of channel values per pixel (R, G, B, A).
const Channels = 4

// Buffer is a flat RGBA8 pixel sequence, row-major, four bytes per pixel.
type Buffer []uint8

// Pixels returns the number of whole pixels in the buffer.
func (b Buffer) Pixels() int {
	return len(b) / Channels
}

// Valid reports whether the buffer length is a multiple of four.
func (b Buffer) Valid() bool {
	return len(b)%Channels == 0
}

// Clone returns an independent copy of the buffer.
func (b Buffer) Clone() Buffer {
	if b == nil {
		return nil
	}
	c := make(Buffer, len(b))
	copy(c, b)
	return c
}

// clampChannel constrains v to [0,255].
func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// roundHalfUp rounds to the nearest integer with .5 going towards +Inf.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

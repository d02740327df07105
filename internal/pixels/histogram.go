package pixels

// Levels is the number of brightness buckets in a Histogram.
const Levels = 256

// Weights of the perceptual brightness used as the histogram bucket index.
// They differ from the contrast weights on purpose.
const (
	histogramWeightR = 0.299
	histogramWeightG = 0.5876
	histogramWeightB = 0.114
)

// Histogram holds one count per brightness level 0-255.
type Histogram [Levels]int

// Brightness returns round(0.299*R + 0.5876*G + 0.114*B) for one pixel,
// clamped to [0,255].
func Brightness(r, g, b uint8) int {
	v := roundHalfUp(float64(r)*histogramWeightR +
		float64(g)*histogramWeightG +
		float64(b)*histogramWeightB)
	// The weights sum to slightly above 1, so v stays <= 255 for valid
	// channels; the clamp keeps the index in range regardless.
	return int(clampChannel(v))
}

// BrightnessHistogram counts the pixels of buf per brightness level. The
// histogram is built from scratch on every call.
func BrightnessHistogram(buf Buffer) Histogram {
	var h Histogram
	for i := 0; i+3 < len(buf); i += Channels {
		h[Brightness(buf[i], buf[i+1], buf[i+2])]++
	}
	return h
}

// Total returns the sum of all counts, which equals the pixel count of the
// buffer the histogram was built from.
func (h *Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Max returns the largest single bucket count.
func (h *Histogram) Max() int {
	m := 0
	for _, c := range h {
		if c > m {
			m = c
		}
	}
	return m
}

// Counts returns the histogram as a slice, convenient for JSON encoding.
func (h *Histogram) Counts() []int {
	out := make([]int, Levels)
	copy(out, h[:])
	return out
}

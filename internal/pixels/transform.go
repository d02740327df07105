package pixels

// Weights of the luma formula used for the contrast mean.
const (
	contrastWeightR = 0.2126
	contrastWeightG = 0.7152
	contrastWeightB = 0.0722
)

// Invert replaces each colour channel with 255 minus its value.
func Invert(buf Buffer) {
	for i := 0; i+3 < len(buf); i += Channels {
		buf[i] = 255 - buf[i]
		buf[i+1] = 255 - buf[i+1]
		buf[i+2] = 255 - buf[i+2]
	}
}

// Grayscale sets R, G and B of every pixel to the truncated average of the
// three. All three channels receive the same value.
func Grayscale(buf Buffer) {
	for i := 0; i+3 < len(buf); i += Channels {
		avg := uint8((int(buf[i]) + int(buf[i+1]) + int(buf[i+2])) / 3)
		buf[i] = avg
		buf[i+1] = avg
		buf[i+2] = avg
	}
}

// AdjustBrightness adds offset to each colour channel, clamping to [0,255].
func AdjustBrightness(buf Buffer, offset int) {
	// Any offset beyond ±255 saturates every channel the same way.
	if offset > 255 {
		offset = 255
	} else if offset < -255 {
		offset = -255
	}
	if offset == 0 {
		return
	}

	for i := 0; i+3 < len(buf); i += Channels {
		buf[i] = clampChannel(int(buf[i]) + offset)
		buf[i+1] = clampChannel(int(buf[i+1]) + offset)
		buf[i+2] = clampChannel(int(buf[i+2]) + offset)
	}
}

// MeanLuma returns the mean of 0.2126*R + 0.7152*G + 0.0722*B over all
// pixels. It returns 0 for an empty buffer.
func MeanLuma(buf Buffer) float64 {
	n := buf.Pixels()
	if n == 0 {
		return 0
	}

	var sum float64
	for i := 0; i+3 < len(buf); i += Channels {
		sum += float64(buf[i])*contrastWeightR +
			float64(buf[i+1])*contrastWeightG +
			float64(buf[i+2])*contrastWeightB
	}
	return sum / float64(n)
}

// AdjustContrast scales every colour channel around the mean luma of the
// buffer: v' = clamp(round(coefficient*(v-mean) + mean)).
//
// A coefficient above 1 increases contrast, between 0 and 1 decreases it and
// exactly 1 leaves the buffer unchanged.
func AdjustContrast(buf Buffer, coefficient float64) {
	if buf.Pixels() == 0 {
		return
	}

	mean := MeanLuma(buf)
	for i := 0; i+3 < len(buf); i += Channels {
		buf[i] = contrastChannel(buf[i], mean, coefficient)
		buf[i+1] = contrastChannel(buf[i+1], mean, coefficient)
		buf[i+2] = contrastChannel(buf[i+2], mean, coefficient)
	}
}

// contrastChannel scales one channel value around mean. Halves round up.
func contrastChannel(v uint8, mean, coefficient float64) uint8 {
	return clampChannel(roundHalfUp(coefficient*(float64(v)-mean) + mean))
}

// Binarize sets R, G and B to 255 when R+G+B is greater than threshold and
// to 0 otherwise. The sum ranges over [0,765].
func Binarize(buf Buffer, threshold int) {
	for i := 0; i+3 < len(buf); i += Channels {
		var v uint8
		if int(buf[i])+int(buf[i+1])+int(buf[i+2]) > threshold {
			v = 255
		}
		buf[i] = v
		buf[i+1] = v
		buf[i+2] = v
	}
}

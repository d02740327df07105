package imaging

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/ironsheep/image-edit-mcp/internal/pixels"
)

// ChannelHistogramsResult holds per-channel 256-bucket counts.
type ChannelHistogramsResult struct {
	Red    []int `json:"red"`
	Green  []int `json:"green"`
	Blue   []int `json:"blue"`
	Alpha  []int `json:"alpha"`
	Pixels int   `json:"pixels"`
}

// ChannelHistograms counts the values of each RGBA channel independently.
//
// Values are counted non-premultiplied, the same channel values GetPixels
// hands to the transforms, so a half-transparent {200,200,200,128} pixel is
// counted at red 200, not 100.
//
// Unlike pixels.BrightnessHistogram, which buckets a weighted brightness,
// this shows how each channel is distributed, e.g. to check that grayscale
// made R, G and B identical.
func ChannelHistograms(img image.Image) *ChannelHistogramsResult {
	nrgba, ok := img.(*image.NRGBA)
	if !ok {
		nrgba = imaging.Clone(img)
	}

	result := &ChannelHistogramsResult{
		Red:   make([]int, pixels.Levels),
		Green: make([]int, pixels.Levels),
		Blue:  make([]int, pixels.Levels),
		Alpha: make([]int, pixels.Levels),
	}

	b := nrgba.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		off := nrgba.PixOffset(b.Min.X, y)
		row := nrgba.Pix[off : off+b.Dx()*pixels.Channels]
		for i := 0; i+3 < len(row); i += pixels.Channels {
			result.Red[row[i]]++
			result.Green[row[i+1]]++
			result.Blue[row[i+2]]++
			result.Alpha[row[i+3]]++
		}
	}
	result.Pixels = b.Dx() * b.Dy()
	return result
}

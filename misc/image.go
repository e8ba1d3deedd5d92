package misc

import (
	"image/color"
	"math"
)

func LerpFloat64(v1 float64, v2 float64, fraction float64) float64 {
	return v1 + (v2-v1)*fraction
}

// LerpUint8 rounds to the nearest channel value.
func LerpUint8(v1 uint8, v2 uint8, fraction float64) uint8 {
	v1f := float64(v1)
	v2f := float64(v2)
	return uint8(math.Round(LerpFloat64(v1f, v2f, fraction)))
}

// AverageRGBA averages the channels of the samples into a single opaque color.
func AverageRGBA(samples []color.RGBA) color.RGBA {
	if len(samples) == 0 {
		return color.RGBA{A: 255}
	}

	var r, g, b int
	for _, sample := range samples {
		r += int(sample.R)
		g += int(sample.G)
		b += int(sample.B)
	}
	divisor := len(samples)
	return color.RGBA{R: uint8(r / divisor), G: uint8(g / divisor), B: uint8(b / divisor), A: 255}
}

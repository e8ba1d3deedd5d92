package palette

import (
	"image/color"
	"math"

	"FractalViewer/fractal"
	"FractalViewer/misc"

	"github.com/lucasb-eyer/go-colorful"
)

var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	AxisColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}

	linearStart = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	linearEnd   = color.RGBA{R: 0, G: 0, B: 255, A: 255}
)

var ln2 = math.Log(2)

// Colormap holds one color per iteration count, indexed by the step an orbit escaped at.
type Colormap []color.RGBA

// NewLinearColormap fades from red to blue over the iteration budget.
func NewLinearColormap(iterations int) Colormap {
	if iterations < 0 {
		iterations = 0
	}

	colormap := make(Colormap, iterations)
	for i := 0; i < iterations; i++ {
		fraction := float64(i) / float64(iterations)
		colormap[i] = color.RGBA{
			R: misc.LerpUint8(linearStart.R, linearEnd.R, fraction),
			G: misc.LerpUint8(linearStart.G, linearEnd.G, fraction),
			B: misc.LerpUint8(linearStart.B, linearEnd.B, fraction),
			A: 255,
		}
	}
	return colormap
}

func (c Colormap) At(iteration int) color.RGBA {
	if iteration < 0 || iteration >= len(c) {
		return Black
	}
	return c[iteration]
}

// Mapper turns iteration results into colors for one color mode and iteration budget.
type Mapper struct {
	colormap   Colormap
	iterations int
	mode       fractal.ColorMode
}

func NewMapper(mode fractal.ColorMode, iterations int) *Mapper {
	m := &Mapper{mode: mode}
	m.SetIterations(iterations)
	return m
}

// SetIterations regenerates the linear colormap when the budget actually changes.
func (m *Mapper) SetIterations(iterations int) {
	if m.colormap != nil && iterations == m.iterations {
		return
	}
	m.iterations = iterations
	m.colormap = NewLinearColormap(iterations)
}

func (m *Mapper) SetMode(mode fractal.ColorMode) {
	m.mode = mode
}

func (m *Mapper) Mode() fractal.ColorMode {
	return m.mode
}

func (m *Mapper) Colormap() Colormap {
	return m.colormap
}

func (m *Mapper) Color(result fractal.Result) color.RGBA {
	if m.mode == fractal.Linear {
		return Linear(result, m.colormap)
	}
	return Smooth(result, m.iterations)
}

func Linear(result fractal.Result, colormap Colormap) color.RGBA {
	if !result.Escaped {
		return Black
	}
	return colormap.At(result.Iterations)
}

// Smooth uses the normalized iteration count as hue. This is the usual approximation, not an exact potential.
// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Continuous_(smooth)_coloring
func Smooth(result fractal.Result, iterations int) color.RGBA {
	if !result.Escaped || iterations <= 0 {
		return HSV(0, 0, 0)
	}

	h := (float64(result.Iterations) - LogLog(result.Magnitude)/ln2) / float64(iterations)
	return HSV(h, 1, 1)
}

// LogLog is log(log(x)), defined as 0 where the inner log would not be positive.
func LogLog(x float64) float64 {
	if !(x > 1) {
		return 0
	}
	return math.Log(math.Log(x))
}

// HSV converts a color with hue in [0, 1] (not degrees) to RGB. Hues outside the range wrap around.
func HSV(h float64, s float64, v float64) color.RGBA {
	if !fractal.IsFinite(h) {
		h = 0
	}
	h -= math.Floor(h)

	r, g, b := colorful.Hsv(h*360, s, v).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// OnAxis reports whether (x, y) sits exactly on the vertical or horizontal centerline of a width x height
// canvas. Odd dimensions have no pixel exactly on the centerline.
func OnAxis(x int, y int, width int, height int) bool {
	return 2*x == width || 2*y == height
}

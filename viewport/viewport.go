package viewport

import (
	"fmt"

	"FractalViewer/fractal"
)

type Range struct {
	Min float64
	Max float64
}

func (r Range) Span() float64 {
	return r.Max - r.Min
}

func (r Range) Center() float64 {
	return (r.Min + r.Max) / 2
}

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g]", r.Min, r.Max)
}

// View is the rectangle of the complex plane currently visible on a Width x Height canvas. X covers the real
// axis and Y the imaginary axis. The two axes are scaled independently, so the plane window keeps whatever
// aspect ratio it was given rather than following the canvas.
type View struct {
	X      Range
	Y      Range
	Width  int
	Height int
}

var (
	MandelbrotX = Range{Min: -2.5, Max: 1}
	MandelbrotY = Range{Min: -1, Max: 1}
	JuliaX      = Range{Min: -1.5, Max: 1.5}
	JuliaY      = Range{Min: -1, Max: 1}
)

func Default(family fractal.Family, width int, height int) View {
	view := View{
		X:      MandelbrotX,
		Y:      MandelbrotY,
		Width:  width,
		Height: height,
	}
	if family == fractal.Julia {
		view.X = JuliaX
		view.Y = JuliaY
	}
	return view
}

func (v View) Validate() error {
	if v.Width <= 0 {
		return &fractal.ConfigurationError{Field: "Width", Value: v.Width, Reason: "must be positive"}
	}
	if v.Height <= 0 {
		return &fractal.ConfigurationError{Field: "Height", Value: v.Height, Reason: "must be positive"}
	}
	if !fractal.IsFinite(v.X.Min) || !fractal.IsFinite(v.X.Max) || !(v.X.Max > v.X.Min) || !fractal.IsFinite(v.X.Span()) {
		return &fractal.ConfigurationError{Field: "XRange", Value: v.X, Reason: "max must be greater than min"}
	}
	if !fractal.IsFinite(v.Y.Min) || !fractal.IsFinite(v.Y.Max) || !(v.Y.Max > v.Y.Min) || !fractal.IsFinite(v.Y.Span()) {
		return &fractal.ConfigurationError{Field: "YRange", Value: v.Y, Reason: "max must be greater than min"}
	}
	return nil
}

/*
 * Convert the (px, py) point on the canvas to the (x, y) point on the complex plane
 *
 * - Pixel rows grow downwards while the imaginary axis grows upwards, so the row is measured from the bottom
 *   edge of the canvas. Row 0 therefore maps to Y.Max and ends up at the top of the displayed image.
 * - px and py may carry a fraction to address sub pixel positions
 */
func (v View) ToFractalSpace(px float64, py float64) (float64, float64) {
	x := px*v.X.Span()/float64(v.Width) + v.X.Min
	y := (float64(v.Height)-py)*v.Y.Span()/float64(v.Height) + v.Y.Min
	return x, y
}

// ToPixelSpace is the inverse of ToFractalSpace.
func (v View) ToPixelSpace(x float64, y float64) (float64, float64) {
	px := (x - v.X.Min) * float64(v.Width) / v.X.Span()
	py := float64(v.Height) - (y-v.Y.Min)*float64(v.Height)/v.Y.Span()
	return px, py
}

func (v View) Center() (float64, float64) {
	return v.X.Center(), v.Y.Center()
}

// Zoom centers the view on the plane point under (px, py) and then divides both half spans by level. A level
// of 2 halves the visible area along each axis. A zoom that would collapse or overflow a range leaves the view
// unchanged.
func (v *View) Zoom(level float64, px float64, py float64) error {
	if !fractal.IsFinite(level) || level <= 0 {
		return &fractal.ConfigurationError{Field: "ZoomLevel", Value: level, Reason: "must be a positive number"}
	}

	next := *v
	x, y := next.ToFractalSpace(px, py)
	oldX, oldY := next.Center()

	xDiff := x - oldX
	yDiff := y - oldY
	next.X = Range{Min: next.X.Min + xDiff, Max: next.X.Max + xDiff}
	next.Y = Range{Min: next.Y.Min + yDiff, Max: next.Y.Max + yDiff}

	xSpan := next.X.Span() / 2 / level
	ySpan := next.Y.Span() / 2 / level
	cx, cy := next.Center()
	next.X = Range{Min: cx - xSpan, Max: cx + xSpan}
	next.Y = Range{Min: cy - ySpan, Max: cy + ySpan}

	if err := next.Validate(); err != nil {
		return err
	}
	*v = next
	return nil
}

// Resize changes the canvas dimensions without touching the plane ranges.
func (v *View) Resize(width int, height int) error {
	if width <= 0 {
		return &fractal.ConfigurationError{Field: "Width", Value: width, Reason: "must be positive"}
	}
	if height <= 0 {
		return &fractal.ConfigurationError{Field: "Height", Value: height, Reason: "must be positive"}
	}
	v.Width = width
	v.Height = height
	return nil
}

func (v View) String() string {
	output := "{View "
	output += fmt.Sprintf("X: %s ", v.X)
	output += fmt.Sprintf("Y: %s ", v.Y)
	output += fmt.Sprintf("Width: %d ", v.Width)
	output += fmt.Sprintf("Height: %d}", v.Height)
	return output
}

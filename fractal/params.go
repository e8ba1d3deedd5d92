package fractal

import (
	"fmt"
	"math"
	"math/cmplx"
	"strings"
)

const (
	Mandelbrot Family = iota
	Julia
)

type Family int

func (f Family) String() string {
	if f < Mandelbrot || f > Julia {
		return fmt.Sprintf("Family(%d)", int(f))
	}
	return []string{
		"mandelbrot", "julia",
	}[f]
}

// ParseFamily accepts the long names as well as the single letter form used by links ("m", "j").
func ParseFamily(s string) (Family, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "m", "mandelbrot":
		return Mandelbrot, nil
	case "j", "julia":
		return Julia, nil
	}
	return Mandelbrot, &ConfigurationError{Field: "Family", Value: s, Reason: "expected mandelbrot or julia"}
}

const (
	Smooth ColorMode = iota
	Linear
)

type ColorMode int

func (c ColorMode) String() string {
	if c < Smooth || c > Linear {
		return fmt.Sprintf("ColorMode(%d)", int(c))
	}
	return []string{
		"smooth", "linear",
	}[c]
}

func ParseColorMode(s string) (ColorMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "smooth":
		return Smooth, nil
	case "linear":
		return Linear, nil
	}
	return Smooth, &ConfigurationError{Field: "ColorMode", Value: s, Reason: "expected linear or smooth"}
}

const DefaultIterations = 20

// Params holds everything a single render pass needs besides the view. A pass never modifies it; changing a
// control means building a new Params.
type Params struct {
	Iterations int
	ColorMode  ColorMode
	ShowAxes   bool
	Family     Family

	// Constant is only read for Julia sets
	Constant complex128
}

func DefaultParams() Params {
	return Params{
		Iterations: DefaultIterations,
		ColorMode:  Smooth,
		ShowAxes:   false,
		Family:     Mandelbrot,
	}
}

func (p Params) Validate() error {
	if p.Iterations <= 0 {
		return &ConfigurationError{Field: "Iterations", Value: p.Iterations, Reason: "must be positive"}
	}
	if p.ColorMode < Smooth || p.ColorMode > Linear {
		return &ConfigurationError{Field: "ColorMode", Value: p.ColorMode, Reason: "unknown color mode"}
	}
	if p.Family < Mandelbrot || p.Family > Julia {
		return &ConfigurationError{Field: "Family", Value: p.Family, Reason: "unknown fractal family"}
	}
	if p.Family == Julia && (cmplx.IsNaN(p.Constant) || cmplx.IsInf(p.Constant)) {
		return &ConfigurationError{Field: "Constant", Value: p.Constant, Reason: "must be finite"}
	}
	return nil
}

func (p Params) String() string {
	output := fmt.Sprintf("{Params Family: %s ", p.Family)
	if p.Family == Julia {
		output += fmt.Sprintf("Constant: %v ", p.Constant)
	}
	output += fmt.Sprintf("Iterations: %d ", p.Iterations)
	output += fmt.Sprintf("ColorMode: %s ", p.ColorMode)
	output += fmt.Sprintf("ShowAxes: %t}", p.ShowAxes)
	return output
}

// ConfigurationError names the field that failed validation. The core never substitutes defaults itself.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// IsFinite reports whether v can be used as a coordinate or a zoom level.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

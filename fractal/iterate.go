package fractal

import (
	"math"
)

// Number of steps between refreshes of the orbit checkpoint used for cycle detection
const checkpointPeriod = 20

// escapeRadiusSquared is the squared bailout radius; an orbit leaving the disk of radius 2 never returns.
const escapeRadiusSquared = 4.0

// Result of iterating a single point. Iterations and Magnitude only mean something when Escaped is set.
type Result struct {
	Escaped    bool
	Iterations int
	Magnitude  float64
}

// Iterator classifies a point of the complex plane given as (x, y) = (real, imaginary).
type Iterator interface {
	Iterate(x float64, y float64) Result
	MaxIterations() int
}

func NewIterator(p Params) (Iterator, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch p.Family {
	case Julia:
		return NewJuliaSet(p.Iterations, p.Constant), nil
	default:
		return NewMandelbrotSet(p.Iterations), nil
	}
}

type MandelbrotSet struct {
	maxIterations int
	interiorTest  bool
}

func NewMandelbrotSet(maxIterations int) *MandelbrotSet {
	return &MandelbrotSet{
		maxIterations: maxIterations,
		interiorTest:  true,
	}
}

// WithoutInteriorTest returns a copy that iterates every point, including the ones inside the main cardioid
// and the period-2 bulb.
func (m *MandelbrotSet) WithoutInteriorTest() *MandelbrotSet {
	return &MandelbrotSet{
		maxIterations: m.maxIterations,
		interiorTest:  false,
	}
}

func (m *MandelbrotSet) MaxIterations() int {
	return m.maxIterations
}

// Iterate treats (cr, ci) as c and starts the orbit at the origin.
func (m *MandelbrotSet) Iterate(cr float64, ci float64) Result {
	if m.interiorTest && InInterior(cr, ci) {
		return Result{}
	}
	return escapeTime(0, 0, cr, ci, m.maxIterations)
}

// InInterior reports whether c lies in the main cardioid or the period-2 bulb, both of which are known to be
// part of the Mandelbrot set.
// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Cardioid_/_bulb_checking
func InInterior(cr float64, ci float64) bool {
	ci2 := ci * ci

	cro := cr - 0.25
	q := cro*cro + ci2
	if q*(q+cro) < 0.25*ci2 {
		return true
	}

	cra := cr + 1
	return cra*cra+ci2 < 0.0625
}

type JuliaSet struct {
	maxIterations int
	cr            float64
	ci            float64
}

func NewJuliaSet(maxIterations int, constant complex128) *JuliaSet {
	return &JuliaSet{
		maxIterations: maxIterations,
		cr:            real(constant),
		ci:            imag(constant),
	}
}

func (j *JuliaSet) MaxIterations() int {
	return j.maxIterations
}

func (j *JuliaSet) Constant() complex128 {
	return complex(j.cr, j.ci)
}

// Iterate starts the orbit at (zr, zi) and adds the fixed constant on every step.
func (j *JuliaSet) Iterate(zr float64, zi float64) Result {
	return escapeTime(zr, zi, j.cr, j.ci, j.maxIterations)
}

// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Optimized_escape_time_algorithms
func escapeTime(zr float64, zi float64, cr float64, ci float64, maxIterations int) Result {
	var prevR, prevI float64
	checkR, checkI := zr, zi
	repeatCandidate := false
	period := 0

	for iteration := 0; iteration < maxIterations; iteration++ {
		zr2 := zr * zr
		zi2 := zi * zi
		zi = 2*zr*zi + ci
		zr = zr2 - zi2 + cr

		zr2 = zr * zr
		zi2 = zi * zi
		if zr2+zi2 > escapeRadiusSquared {
			return Result{
				Escaped:    true,
				Iterations: iteration,
				Magnitude:  math.Sqrt(zr2 + zi2),
			}
		}

		// An orbit that lands exactly on its previous value is stuck on a fixed point
		if repeatCandidate && zr == prevR && zi == prevI {
			return Result{}
		}
		prevR, prevI = zr, zi
		repeatCandidate = true

		// periodicity checking for cycles longer than one step
		// https://en.wikipedia.org/wiki/Plotting_algorithms_for_the_Mandelbrot_set#Periodicity_checking
		if zr == checkR && zi == checkI {
			return Result{}
		}
		period++
		if period > checkpointPeriod {
			period = 0
			checkR, checkI = zr, zi
		}
	}

	return Result{}
}

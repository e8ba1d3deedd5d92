package fractal

import (
	"errors"
	"math"
	"math/cmplx"
	"testing"
)

func TestMandelbrotOriginNeverEscapes(t *testing.T) {
	for _, budget := range []int{1, 2, 5, 20, 1000, 100000} {
		m := NewMandelbrotSet(budget)
		if r := m.Iterate(0, 0); r.Escaped {
			t.Errorf("budget %d: origin escaped at %d", budget, r.Iterations)
		}
		if r := m.WithoutInteriorTest().Iterate(0, 0); r.Escaped {
			t.Errorf("budget %d: origin escaped at %d without interior test", budget, r.Iterations)
		}
	}
}

func TestMandelbrotOutsideRadiusEscapesImmediately(t *testing.T) {
	points := []complex128{
		complex(3, 3),
		complex(-2.01, 0),
		complex(0, 2.5),
		complex(1.5, -1.5),
		complex(-100, 40),
	}

	m := NewMandelbrotSet(5)
	for _, c := range points {
		r := m.Iterate(real(c), imag(c))
		if !r.Escaped {
			t.Errorf("%v did not escape", c)
			continue
		}
		if r.Iterations != 0 {
			t.Errorf("%v escaped at step %d, expected 0", c, r.Iterations)
		}
		if math.Abs(r.Magnitude-cmplx.Abs(c)) > 1e-12 {
			t.Errorf("%v magnitude %f, expected %f", c, r.Magnitude, cmplx.Abs(c))
		}
	}
}

func TestMandelbrotEscapeBound(t *testing.T) {
	// Once |z| > 2 the orbit grows at least geometrically, so anything starting outside radius 2 has to escape
	// on the first step, and points just inside the disk but outside the set escape well within the budget.
	m := NewMandelbrotSet(50)
	for _, c := range []complex128{complex(0.5, 0.5), complex(-1.9, 0.5), complex(0.3, -0.8)} {
		r := m.Iterate(real(c), imag(c))
		if !r.Escaped {
			t.Errorf("%v did not escape within %d steps", c, m.MaxIterations())
		}
		if r.Escaped && r.Magnitude <= 2 {
			t.Errorf("%v escaped with magnitude %f", c, r.Magnitude)
		}
	}
}

func TestInteriorTestAgreesWithBruteForce(t *testing.T) {
	points := []complex128{
		complex(0, 0),
		complex(-0.1, 0.1),
		complex(0.2, 0.3),
		complex(-0.5, 0.5),
		complex(0.25, 0),
		complex(-1, 0),
		complex(-1.1, 0.1),
		complex(-0.9, -0.05),
	}

	const budget = 2000
	fast := NewMandelbrotSet(budget)
	slow := fast.WithoutInteriorTest()
	for _, c := range points {
		if !InInterior(real(c), imag(c)) {
			// 0.25 sits on the cusp and is not strictly inside the cardioid
			if c != complex(0.25, 0) {
				t.Errorf("%v expected to be inside the cardioid or bulb", c)
			}
			continue
		}
		if r := fast.Iterate(real(c), imag(c)); r.Escaped {
			t.Errorf("%v escaped with interior test", c)
		}
		if r := slow.Iterate(real(c), imag(c)); r.Escaped {
			t.Errorf("%v escaped by brute force at step %d", c, r.Iterations)
		}
	}
}

func TestInInteriorRejectsOutsidePoints(t *testing.T) {
	for _, c := range []complex128{complex(0.5, 0), complex(-2, 0), complex(0, 1), complex(-0.75, 0.2)} {
		if InInterior(real(c), imag(c)) {
			t.Errorf("%v reported inside", c)
		}
	}
}

func TestCycleDetectionStopsPeriodicOrbits(t *testing.T) {
	// c = -1 cycles 0, -1, 0, -1 exactly
	if r := NewMandelbrotSet(1000000).WithoutInteriorTest().Iterate(-1, 0); r.Escaped {
		t.Errorf("c=-1 escaped at %d", r.Iterations)
	}
	// c = -2 lands on the fixed point 2 after two steps and stays there
	if r := NewMandelbrotSet(1000000).Iterate(-2, 0); r.Escaped {
		t.Errorf("c=-2 escaped at %d", r.Iterations)
	}
}

func TestJuliaIteration(t *testing.T) {
	j := NewJuliaSet(5, complex(0, 0))
	if j.Constant() != 0 {
		t.Errorf("constant %v", j.Constant())
	}

	// c = 0 gives the unit circle as Julia set
	if r := j.Iterate(0.5, 0.5); r.Escaped {
		t.Errorf("inside point escaped at %d", r.Iterations)
	}
	r := j.Iterate(3, 3)
	if !r.Escaped || r.Iterations != 0 {
		t.Errorf("(3,3) expected to escape at step 0, got %+v", r)
	}
	if math.Abs(r.Magnitude-cmplx.Abs(complex(3, 3)*complex(3, 3))) > 1e-9 {
		t.Errorf("magnitude %f", r.Magnitude)
	}

	// a point just outside the unit circle escapes after a few squarings
	r = NewJuliaSet(100, 0).Iterate(1.1, 0)
	if !r.Escaped {
		t.Fatal("1.1 did not escape")
	}
	// 1.1^2^k > 2 first at k=3, which is step index 2
	if r.Iterations != 2 {
		t.Errorf("1.1 escaped at %d, expected 2", r.Iterations)
	}
}

func TestNewIterator(t *testing.T) {
	p := DefaultParams()
	it, err := NewIterator(p)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := it.(*MandelbrotSet); !ok {
		t.Errorf("expected *MandelbrotSet, got %T", it)
	}

	p.Family = Julia
	p.Constant = complex(-0.8, 0.156)
	it, err = NewIterator(p)
	if err != nil {
		t.Fatal(err)
	}
	j, ok := it.(*JuliaSet)
	if !ok {
		t.Fatalf("expected *JuliaSet, got %T", it)
	}
	if j.Constant() != p.Constant || j.MaxIterations() != p.Iterations {
		t.Errorf("julia built with %v/%d", j.Constant(), j.MaxIterations())
	}

	p.Iterations = 0
	_, err = NewIterator(p)
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) || cfgErr.Field != "Iterations" {
		t.Errorf("expected Iterations configuration error, got %v", err)
	}
}

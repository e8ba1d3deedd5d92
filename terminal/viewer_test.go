package terminal

import (
	"image"
	"image/color"
	"math"
	"strings"
	"testing"

	"FractalViewer/fractal"
	"FractalViewer/settings"
	"FractalViewer/viewport"

	"github.com/gdamore/tcell/v2"
)

func newTestScreen(t *testing.T, cols int, rows int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	screen.SetSize(cols, rows)
	t.Cleanup(screen.Fini)
	return screen
}

func newTestViewer(t *testing.T, cols int, rows int) (*Viewer, tcell.SimulationScreen) {
	t.Helper()
	screen := newTestScreen(t, cols, rows)
	v, err := NewViewer(screen, settings.Default())
	if err != nil {
		t.Fatalf("NewViewer: %v", err)
	}
	if err := v.draw(); err != nil {
		t.Fatalf("draw: %v", err)
	}
	return v, screen
}

func statusLine(screen tcell.SimulationScreen) string {
	cols, rows := screen.Size()
	var b strings.Builder
	for x := 0; x < cols; x++ {
		r, _, _, _ := screen.GetContent(x, rows-1)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		cols, rows    int
		width, height int
	}{
		{80, 25, 80, 48},
		{10, 2, 10, 2},
		{10, 1, 10, 0},
	}
	for _, test := range tests {
		w, h := CanvasSize(test.cols, test.rows)
		if w != test.width || h != test.height {
			t.Errorf("CanvasSize(%d, %d) = %d, %d", test.cols, test.rows, w, h)
		}
	}
}

func TestDisplayShow(t *testing.T) {
	screen := newTestScreen(t, 2, 2)
	d := NewDisplay(screen)
	d.status = "ok"

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(0, 1, color.RGBA{B: 255, A: 255})
	if err := d.Show(img); err != nil {
		t.Fatal(err)
	}

	r, _, _, _ := screen.GetContent(0, 0)
	if r != halfBlock {
		t.Errorf("cell (0, 0) = %q", r)
	}
	if s := statusLine(screen); s != "ok" {
		t.Errorf("status %q", s)
	}
}

func TestNewViewerSizesCanvas(t *testing.T) {
	v, screen := newTestViewer(t, 40, 11)
	view := v.Session().Renderer().View()
	if view.Width != 40 || view.Height != 20 {
		t.Errorf("view %s", view)
	}
	if r, _, _, _ := screen.GetContent(0, 0); r != halfBlock {
		t.Errorf("cell (0, 0) = %q", r)
	}
	if s := statusLine(screen); !strings.HasPrefix(s, "mandelbrot") {
		t.Errorf("status %q", s)
	}

	if _, err := NewViewer(newTestScreen(t, 40, 1), settings.Default()); err == nil {
		t.Error("expected error for a one row terminal")
	}
}

func TestClickZoomsOncePerPress(t *testing.T) {
	v, _ := newTestViewer(t, 40, 11)

	v.handleMouse(20, 5, tcell.Button1)
	span := v.Session().Renderer().View().X.Span()
	if span != viewport.MandelbrotX.Span()/2 {
		t.Fatalf("span after click %g", span)
	}

	v.handleMouse(21, 5, tcell.Button1)
	if v.Session().Renderer().View().X.Span() != span {
		t.Error("held button zoomed again")
	}

	v.handleMouse(21, 5, tcell.ButtonNone)
	v.handleMouse(21, 5, tcell.Button1)
	if math.Abs(v.Session().Renderer().View().X.Span()-span/2) > 1e-12 {
		t.Error("second press did not zoom")
	}

	// clicks on the status line are ignored
	renders := v.Session().Renders()
	v.handleMouse(0, 0, tcell.ButtonNone)
	v.handleMouse(1, 10, tcell.Button1)
	if v.Session().Renders() != renders {
		t.Error("status line click rendered")
	}
}

func TestHoverUpdatesStatus(t *testing.T) {
	v, screen := newTestViewer(t, 200, 11)
	v.handleMouse(5, 3, tcell.ButtonNone)
	if v.hoverX != 5 || v.hoverY != 6 {
		t.Errorf("hover (%d, %d)", v.hoverX, v.hoverY)
	}
	if s := statusLine(screen); !strings.Contains(s, "(5, 6)") || !strings.Contains(s, "?f=j&r=") {
		t.Errorf("status %q", s)
	}
}

func TestJuliaNavigation(t *testing.T) {
	v, _ := newTestViewer(t, 40, 11)
	v.handleMouse(10, 5, tcell.ButtonNone)
	v.handleMouse(10, 5, tcell.Button2)

	params := v.Session().Renderer().Params()
	if params.Family != fractal.Julia {
		t.Fatalf("family %s", params.Family)
	}
	x, y := viewport.Default(fractal.Mandelbrot, 40, 20).ToFractalSpace(10, 10)
	if params.Constant != complex(x, y) {
		t.Errorf("constant %v, expected %v", params.Constant, complex(x, y))
	}

	renders := v.Session().Renders()
	if !v.handleKey(tcell.KeyRune, 'j') {
		t.Fatal("j quit the viewer")
	}
	if v.Session().Renders() != renders || !strings.Contains(v.message, "mandelbrot") {
		t.Errorf("julia from julia: renders %d message %q", v.Session().Renders(), v.message)
	}

	v.handleKey(tcell.KeyRune, 'm')
	if v.Session().Renderer().Params().Family != fractal.Mandelbrot {
		t.Error("m did not return to the mandelbrot set")
	}
}

func TestKeys(t *testing.T) {
	v, _ := newTestViewer(t, 20, 6)
	params := func() fractal.Params { return v.Session().Renderer().Params() }

	v.handleKey(tcell.KeyRune, 'l')
	if params().ColorMode != fractal.Linear {
		t.Error("l did not select linear coloring")
	}
	v.handleKey(tcell.KeyRune, 's')
	if params().ColorMode != fractal.Smooth {
		t.Error("s did not select smooth coloring")
	}
	v.handleKey(tcell.KeyRune, 'a')
	if !params().ShowAxes {
		t.Error("a did not show the axes")
	}
	v.handleKey(tcell.KeyRune, '+')
	if params().Iterations != 2*fractal.DefaultIterations {
		t.Errorf("iterations %d", params().Iterations)
	}
	v.handleKey(tcell.KeyRune, '-')
	v.handleKey(tcell.KeyRune, '-')
	if params().Iterations != fractal.DefaultIterations/2 {
		t.Errorf("iterations %d", params().Iterations)
	}

	v.handleMouse(3, 3, tcell.Button1)
	v.handleKey(tcell.KeyRune, 'r')
	if v.Session().Renderer().View().X != viewport.MandelbrotX {
		t.Error("r did not reset the view")
	}

	if v.handleKey(tcell.KeyRune, 'q') || v.handleKey(tcell.KeyEscape, 0) {
		t.Error("quit keys did not stop the viewer")
	}
	if !v.handleKey(tcell.KeyRune, 'x') {
		t.Error("unbound key stopped the viewer")
	}
}

func TestResize(t *testing.T) {
	v, screen := newTestViewer(t, 20, 6)
	screen.SetSize(30, 8)
	v.handleResize()
	if view := v.Session().Renderer().View(); view.Width != 30 || view.Height != 14 {
		t.Errorf("view after resize %s", view)
	}
}

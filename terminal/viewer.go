package terminal

import (
	"errors"
	"fmt"

	"FractalViewer/fractal"
	"FractalViewer/misc"
	"FractalViewer/render"
	"FractalViewer/settings"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/gdamore/tcell/v2"
)

const helpText = "click zoom | right click/j julia | l/s color | a axes | +/- iterations | m mandelbrot | r reset | q quit"

// Viewer is the interactive fractal explorer. All state is touched from the event loop goroutine only.
type Viewer struct {
	buttons   tcell.ButtonMask
	display   *Display
	hoverX    int
	hoverY    int
	logger    bslogger.Logger
	message   string
	screen    tcell.Screen
	session   *render.Session
	zoomLevel float64
}

// NewViewer sizes the canvas to the screen, which must already be initialised.
func NewViewer(screen tcell.Screen, s settings.Settings) (*Viewer, error) {
	s.Width, s.Height = CanvasSize(screen.Size())
	if s.Height == 0 {
		return nil, errors.New("terminal is too small to show a fractal")
	}

	renderer, err := s.Renderer()
	if err != nil {
		return nil, err
	}

	display := NewDisplay(screen)
	return &Viewer{
		display:   display,
		logger:    bslogger.NewLogger("Viewer", bslogger.Normal, nil),
		message:   helpText,
		screen:    screen,
		session:   render.NewSession(renderer, display),
		zoomLevel: s.ZoomLevel,
	}, nil
}

func (v *Viewer) Session() *render.Session {
	return v.session
}

// Run draws the first frame and handles events until the user quits or the screen is finalised.
func (v *Viewer) Run() error {
	v.screen.EnableMouse()
	v.screen.HideCursor()

	if err := v.draw(); err != nil {
		return err
	}

	for {
		ev := v.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if !v.handleEvent(ev) {
			return nil
		}
	}
}

// handleEvent returns false once the viewer should exit.
func (v *Viewer) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return v.handleKey(ev.Key(), ev.Rune())
	case *tcell.EventMouse:
		x, y := ev.Position()
		v.handleMouse(x, y, ev.Buttons())
	case *tcell.EventResize:
		v.screen.Sync()
		v.handleResize()
	}
	return true
}

func (v *Viewer) handleKey(key tcell.Key, r rune) bool {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return false
	case tcell.KeyRune:
	default:
		return true
	}

	params := v.session.Renderer().Params()
	switch r {
	case 'q':
		return false
	case 'l':
		params.ColorMode = fractal.Linear
		v.report(v.session.Apply(params))
	case 's':
		params.ColorMode = fractal.Smooth
		v.report(v.session.Apply(params))
	case 'a':
		params.ShowAxes = !params.ShowAxes
		v.report(v.session.Apply(params))
	case '+', '=':
		if params.Iterations*2 <= settings.MaxIterations {
			params.Iterations *= 2
			v.report(v.session.Apply(params))
		}
	case '-':
		if params.Iterations > 1 {
			params.Iterations /= 2
			v.report(v.session.Apply(params))
		}
	case 'm':
		v.report(v.session.SwitchFamily(fractal.Mandelbrot, 0))
	case 'r':
		v.report(v.session.Reset())
	case 'j':
		v.openJulia()
	}
	return true
}

// handleMouse tracks the hovered pixel and reacts to button presses, not to held buttons.
func (v *Viewer) handleMouse(x int, y int, buttons tcell.ButtonMask) {
	pressed := buttons &^ v.buttons
	v.buttons = buttons

	_, rows := v.screen.Size()
	if y >= rows-1 {
		return
	}
	v.hoverX, v.hoverY = CellToPixel(x, y)

	switch {
	case pressed&tcell.Button1 != 0:
		v.report(v.session.Zoom(v.zoomLevel, float64(v.hoverX), float64(v.hoverY)))
	case pressed&tcell.Button2 != 0:
		v.openJulia()
	default:
		v.display.SetStatus(v.status())
	}
}

func (v *Viewer) handleResize() {
	width, height := CanvasSize(v.screen.Size())
	if height == 0 {
		return
	}
	v.report(v.session.Resize(width, height))
}

func (v *Viewer) openJulia() {
	l, err := v.session.OpenJulia(float64(v.hoverX), float64(v.hoverY))
	if errors.Is(err, render.ErrNotMandelbrot) {
		v.message = "press m to go back to the mandelbrot set first"
		v.display.SetStatus(v.status())
		return
	}
	v.report(err)
	if err == nil {
		v.logger.Infof("Opened %s", l.String())
	}
}

func (v *Viewer) draw() error {
	v.display.status = v.status()
	return v.session.Draw()
}

// report puts the outcome of an interaction on the status line.
func (v *Viewer) report(err error) {
	if misc.CheckError(err, v.logger, misc.Warning) {
		v.message = err.Error()
	} else {
		v.message = fmt.Sprintf("rendered in %s", v.session.LastRender())
	}
	v.display.SetStatus(v.status())
}

func (v *Viewer) status() string {
	renderer := v.session.Renderer()
	params := renderer.Params()
	x, y := renderer.View().ToFractalSpace(float64(v.hoverX), float64(v.hoverY))

	output := fmt.Sprintf("%s %d iterations (%d, %d) = %.6g%+.6gi", params.Family, params.Iterations, v.hoverX, v.hoverY, x, y)
	if params.Family == fractal.Mandelbrot {
		output += " " + renderer.JuliaAt(float64(v.hoverX), float64(v.hoverY)).String()
	}
	return output + " | " + v.message
}

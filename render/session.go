package render

import (
	"errors"
	"fmt"
	"image"
	"time"

	"FractalViewer/fractal"
	"FractalViewer/link"

	"github.com/BrugadaSyndrome/bslogger"
)

var ErrNotMandelbrot = errors.New("julia sets can only be opened from the mandelbrot set")

// Display presents a finished buffer. Show receives every buffer exactly once and owns it afterwards.
type Display interface {
	Show(img *image.RGBA) error
}

type DisplayFunc func(img *image.RGBA) error

func (f DisplayFunc) Show(img *image.RGBA) error {
	return f(img)
}

// Session ties a renderer to the surface it draws on. Interaction handlers receive the session and every
// change they make is followed by a full redraw.
type Session struct {
	display    Display
	lastRender time.Duration
	logger     bslogger.Logger
	renderer   *Renderer
	renders    int
}

func NewSession(renderer *Renderer, display Display) *Session {
	return &Session{
		display:  display,
		logger:   bslogger.NewLogger("Session", bslogger.Normal, nil),
		renderer: renderer,
	}
}

func (s *Session) Renderer() *Renderer {
	return s.renderer
}

func (s *Session) LastRender() time.Duration {
	return s.lastRender
}

func (s *Session) Renders() int {
	return s.renders
}

// Draw runs one full render pass and hands the buffer to the display in a single call.
func (s *Session) Draw() error {
	startTime := time.Now()
	img := s.renderer.Render()
	s.lastRender = time.Since(startTime)
	s.renders++

	view := s.renderer.View()
	s.logger.Infof("Rendered %s %dx%d in %s", s.renderer.Params().Family, view.Width, view.Height, s.lastRender)

	if err := s.display.Show(img); err != nil {
		return fmt.Errorf("unable to display render %d - %w", s.renders, err)
	}
	return nil
}

func (s *Session) Zoom(level float64, px float64, py float64) error {
	if err := s.renderer.Zoom(level, px, py); err != nil {
		return err
	}
	s.logger.Debugf("Zoomed %gx at (%g, %g): %s", level, px, py, s.renderer.View().String())
	return s.Draw()
}

// Apply replaces the parameters and redraws.
func (s *Session) Apply(params fractal.Params) error {
	if err := s.renderer.SetParams(params); err != nil {
		return err
	}
	return s.Draw()
}

func (s *Session) SwitchFamily(family fractal.Family, constant complex128) error {
	if err := s.renderer.SwitchFamily(family, constant); err != nil {
		return err
	}
	s.logger.Infof("Switched to %s", s.renderer.Params().String())
	return s.Draw()
}

// OpenJulia replaces the current mandelbrot view with the Julia set rooted at the clicked pixel and returns
// the link to it.
func (s *Session) OpenJulia(px float64, py float64) (link.Link, error) {
	if s.renderer.Params().Family != fractal.Mandelbrot {
		return link.Link{}, ErrNotMandelbrot
	}

	l := s.renderer.JuliaAt(px, py)
	return l, s.SwitchFamily(l.Family, l.Constant)
}

// Open navigates to whatever a link points at.
func (s *Session) Open(l link.Link) error {
	return s.SwitchFamily(l.Family, l.Constant)
}

func (s *Session) Reset() error {
	s.renderer.Reset()
	return s.Draw()
}

func (s *Session) Resize(width int, height int) error {
	if err := s.renderer.Resize(width, height); err != nil {
		return err
	}
	return s.Draw()
}

// ZoomSequence shows the current view and then zooms frames-1 times at the same pixel, showing every step.
func ZoomSequence(s *Session, level float64, px float64, py float64, frames int) error {
	if frames < 1 {
		return &fractal.ConfigurationError{Field: "Frames", Value: frames, Reason: "must be at least 1"}
	}

	var elapsedTime time.Duration
	if err := s.Draw(); err != nil {
		return err
	}
	elapsedTime += s.LastRender()

	for frame := 1; frame < frames; frame++ {
		if err := s.Zoom(level, px, py); err != nil {
			return err
		}
		elapsedTime += s.LastRender()
	}

	s.logger.Infof("Rendered %d frames in %s", frames, elapsedTime)
	return nil
}

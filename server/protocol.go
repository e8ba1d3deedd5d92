package server

import (
	"FractalViewer/render"
	"FractalViewer/viewport"
)

// Actions a websocket client can send
const (
	ActionDraw       = "draw"
	ActionJulia      = "julia"
	ActionMandelbrot = "mandelbrot"
	ActionOpen       = "open"
	ActionParams     = "params"
	ActionReset      = "reset"
	ActionResize     = "resize"
	ActionZoom       = "zoom"
)

// Command is one interaction sent by a websocket client as JSON. X and Y are canvas pixels, Query carries
// link or parameter keys in URL query form ("iters=100&color=linear", "f=j&r=-0.4&i=0.6").
type Command struct {
	Action string  `json:"action"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Level  float64 `json:"level,omitempty"`
	Query  string  `json:"query,omitempty"`
	Width  int     `json:"width,omitempty"`
	Height int     `json:"height,omitempty"`
}

// Status follows every command. A command that failed is answered with a Status carrying Error and no image.
type Status struct {
	Family       string  `json:"family"`
	Link         string  `json:"link"`
	Iterations   int     `json:"iterations"`
	ColorMode    string  `json:"colorMode"`
	ShowAxes     bool    `json:"showAxes"`
	XMin         float64 `json:"xMin"`
	XMax         float64 `json:"xMax"`
	YMin         float64 `json:"yMin"`
	YMax         float64 `json:"yMax"`
	Width        int     `json:"width"`
	Height       int     `json:"height"`
	RenderTimeMs float64 `json:"renderTimeMs"`
	Error        string  `json:"error,omitempty"`
}

func newStatus(session *render.Session, err error) Status {
	renderer := session.Renderer()
	params := renderer.Params()
	view := renderer.View()

	status := Status{
		Family:       params.Family.String(),
		Link:         linkOf(params).Encode(),
		Iterations:   params.Iterations,
		ColorMode:    params.ColorMode.String(),
		ShowAxes:     params.ShowAxes,
		RenderTimeMs: float64(session.LastRender().Microseconds()) / 1000,
	}
	status.setView(view)
	if err != nil {
		status.Error = err.Error()
	}
	return status
}

func (s *Status) setView(view viewport.View) {
	s.XMin, s.XMax = view.X.Min, view.X.Max
	s.YMin, s.YMax = view.Y.Min, view.Y.Max
	s.Width, s.Height = view.Width, view.Height
}

package render

import (
	"image"
	"image/color"

	"FractalViewer/fractal"
	"FractalViewer/link"
	"FractalViewer/misc"
	"FractalViewer/palette"
	"FractalViewer/viewport"

	"github.com/BrugadaSyndrome/bslogger"
)

// Renderer owns the view and parameters of one fractal and turns them into pixel buffers. It is not safe for
// concurrent use; every render pass runs to completion on the calling goroutine.
type Renderer struct {
	iterator      fractal.Iterator
	logger        bslogger.Logger
	mapper        *palette.Mapper
	params        fractal.Params
	subPixels     []float64
	superSampling int
	view          viewport.View
}

func NewRenderer(params fractal.Params, width int, height int) (*Renderer, error) {
	iterator, err := fractal.NewIterator(params)
	if err != nil {
		return nil, err
	}

	view := viewport.Default(params.Family, width, height)
	if err := view.Validate(); err != nil {
		return nil, err
	}

	r := &Renderer{
		iterator: iterator,
		logger:   bslogger.NewLogger("Renderer", bslogger.Normal, nil),
		mapper:   palette.NewMapper(params.ColorMode, params.Iterations),
		params:   params,
		view:     view,
	}
	misc.CheckError(r.SetSuperSampling(1), r.logger, misc.Fatal)
	return r, nil
}

func (r *Renderer) Params() fractal.Params {
	return r.params
}

func (r *Renderer) View() viewport.View {
	return r.view
}

// SetView replaces the visible window, e.g. to restore a view that was shared.
func (r *Renderer) SetView(view viewport.View) error {
	if err := view.Validate(); err != nil {
		return err
	}
	r.view = view
	return nil
}

// SetParams replaces the parameters wholesale. Changing the family puts the view back to that family's
// defaults; everything else keeps the current view.
func (r *Renderer) SetParams(params fractal.Params) error {
	iterator, err := fractal.NewIterator(params)
	if err != nil {
		return err
	}

	if params.Family != r.params.Family {
		r.view = viewport.Default(params.Family, r.view.Width, r.view.Height)
	}
	r.iterator = iterator
	r.mapper.SetMode(params.ColorMode)
	r.mapper.SetIterations(params.Iterations)
	r.params = params
	r.logger.Debugf("Using %s", params.String())
	return nil
}

// SwitchFamily navigates to another fractal, always starting from that family's default view.
func (r *Renderer) SwitchFamily(family fractal.Family, constant complex128) error {
	params := r.params
	params.Family = family
	params.Constant = constant
	if err := r.SetParams(params); err != nil {
		return err
	}
	r.view = viewport.Default(family, r.view.Width, r.view.Height)
	return nil
}

func (r *Renderer) Reset() {
	r.view = viewport.Default(r.params.Family, r.view.Width, r.view.Height)
}

func (r *Renderer) Zoom(level float64, px float64, py float64) error {
	return r.view.Zoom(level, px, py)
}

func (r *Renderer) Resize(width int, height int) error {
	return r.view.Resize(width, height)
}

// SetSuperSampling renders every pixel as the average of n x n samples on a regular grid. n = 1 samples the
// pixel corner only.
func (r *Renderer) SetSuperSampling(n int) error {
	if n < 1 {
		return &fractal.ConfigurationError{Field: "SuperSampling", Value: n, Reason: "must be at least 1"}
	}

	subPixels := make([]float64, n)
	if n > 1 {
		// Using grid super sampling
		for i := 0; i < n; i++ {
			subPixels[i] = (0.5+float64(i))/float64(n) - 0.5
		}
	}
	r.subPixels = subPixels
	r.superSampling = n
	return nil
}

// JuliaAt returns the link to the Julia set rooted at the plane point under the pixel.
func (r *Renderer) JuliaAt(px float64, py float64) link.Link {
	x, y := r.view.ToFractalSpace(px, py)
	return link.Julia(x, y)
}

// Render fills a new buffer in raster order. Row 0 holds the top of the view (the largest imaginary part) so
// the buffer can be shown as is.
func (r *Renderer) Render() *image.RGBA {
	width, height := r.view.Width, r.view.Height
	img := image.NewRGBA(image.Rect(0, 0, width, height))

	for py := 0; py < height; py++ {
		for px := 0; px < width; px++ {
			c := r.pixelColor(px, py)
			if r.params.ShowAxes && palette.OnAxis(px, py, width, height) {
				c = palette.AxisColor
			}
			img.SetRGBA(px, py, c)
		}
	}

	return img
}

// Classify iterates the plane point under a pixel without coloring it.
func (r *Renderer) Classify(px float64, py float64) fractal.Result {
	x, y := r.view.ToFractalSpace(px, py)
	return r.iterator.Iterate(x, y)
}

func (r *Renderer) pixelColor(px int, py int) color.RGBA {
	if r.superSampling == 1 {
		return r.mapper.Color(r.Classify(float64(px), float64(py)))
	}

	samples := make([]color.RGBA, 0, r.superSampling*r.superSampling)
	for _, sx := range r.subPixels {
		for _, sy := range r.subPixels {
			samples = append(samples, r.mapper.Color(r.Classify(float64(px)+sx, float64(py)+sy)))
		}
	}
	return misc.AverageRGBA(samples)
}

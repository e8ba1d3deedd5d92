package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"FractalViewer/fractal"
	"FractalViewer/link"
	"FractalViewer/misc"
	"FractalViewer/render"

	"github.com/BrugadaSyndrome/bslogger"
)

const (
	DefaultWidth         = 600
	DefaultHeight        = 400
	DefaultZoomLevel     = 2
	DefaultServerAddress = "localhost:8080"

	// MaxDimension bounds every side of the output image, scaling included
	MaxDimension  = 4096
	MaxScale      = 16
	MaxIterations = 100000
)

// Query keys understood by FromQuery besides the link keys
const (
	IterationsKey = "iters"
	ColorKey      = "color"
	AxesKey       = "axes"
	WidthKey      = "width"
	HeightKey     = "height"
	ScaleKey      = "scale"
)

type Settings struct {
	logger bslogger.Logger

	ColorMode      string
	Family         string
	Height         int
	Iterations     int
	JuliaImaginary float64
	JuliaReal      float64
	LogToFile      bool
	RunName        string
	SavePath       string
	Scale          int
	ServerAddress  string
	ShowAxes       bool
	SuperSampling  int
	Width          int
	ZoomLevel      float64
	ZoomSequence   ZoomSequence
}

// ZoomSequence describes a series of frames zooming into one pixel of the starting view. Without X and Y the
// sequence zooms into the middle of the canvas.
type ZoomSequence struct {
	Frames int
	X      *float64
	Y      *float64
}

// Target is the pixel the sequence zooms into on a width x height canvas.
func (z ZoomSequence) Target(width int, height int) (float64, float64) {
	x, y := float64(width)/2, float64(height)/2
	if z.X != nil {
		x = *z.X
	}
	if z.Y != nil {
		y = *z.Y
	}
	return x, y
}

func newLogger() bslogger.Logger {
	return bslogger.NewLogger("Settings", bslogger.Normal, nil)
}

// Default returns verified settings for the default Mandelbrot view.
func Default() Settings {
	s := Settings{logger: newLogger()}
	misc.CheckError(s.Verify(), s.logger, misc.Fatal)
	return s
}

// NewSettings reads a JSON settings file. Fields missing from the file get their defaults.
func NewSettings(settingsFile string) (Settings, error) {
	s := Settings{logger: newLogger()}
	fileBytes, err := misc.ReadFile(settingsFile)
	if err != nil {
		return s, err
	}
	if err := json.Unmarshal(fileBytes, &s); err != nil {
		return s, fmt.Errorf("unable to parse settings file %s - %w", settingsFile, err)
	}
	if err := s.Verify(); err != nil {
		return s, err
	}
	s.logger.Debug(s.String())
	return s, nil
}

func (s *Settings) Verify() error {
	s.logger = newLogger()

	// Parse failures fall back to smooth coloring and the mandelbrot set, names are stored in their long form
	colorMode, err := fractal.ParseColorMode(s.ColorMode)
	misc.CheckError(err, s.logger, misc.Warning)
	s.ColorMode = colorMode.String()
	family, err := fractal.ParseFamily(s.Family)
	misc.CheckError(err, s.logger, misc.Warning)
	s.Family = family.String()
	if s.Height <= 0 || s.Height > MaxDimension {
		s.Height = DefaultHeight
	}
	if s.Iterations <= 0 || s.Iterations > MaxIterations {
		s.Iterations = fractal.DefaultIterations
	}
	if !fractal.IsFinite(s.JuliaReal) || !fractal.IsFinite(s.JuliaImaginary) {
		s.logger.Warning("Julia constant is not finite, using 0")
		s.JuliaReal = 0
		s.JuliaImaginary = 0
	}
	// LogToFile defaults to false already
	if s.RunName == "" {
		s.RunName = "run_" + time.Now().Format("2006_01_02-03_04_05")
	}
	if s.SavePath == "" {
		s.SavePath, _ = os.Getwd()
	}
	if s.Scale < 1 || s.Scale > MaxScale {
		s.Scale = 1
	}
	if s.ServerAddress == "" {
		s.ServerAddress = DefaultServerAddress
	}
	// ShowAxes defaults to false already
	if s.SuperSampling < 1 {
		s.SuperSampling = 1
	}
	if s.Width <= 0 || s.Width > MaxDimension {
		s.Width = DefaultWidth
	}
	if CheckSize(s.Width, s.Height, s.Scale) != nil {
		s.Scale = 1
	}
	if !fractal.IsFinite(s.ZoomLevel) || s.ZoomLevel <= 0 {
		s.ZoomLevel = DefaultZoomLevel
	}
	if s.ZoomSequence.Frames < 1 {
		s.ZoomSequence.Frames = 1
	}

	return nil
}

// Params converts the verified settings into render parameters.
func (s Settings) Params() (fractal.Params, error) {
	family, err := fractal.ParseFamily(s.Family)
	if err != nil {
		return fractal.Params{}, err
	}
	colorMode, err := fractal.ParseColorMode(s.ColorMode)
	if err != nil {
		return fractal.Params{}, err
	}

	params := fractal.Params{
		Iterations: s.Iterations,
		ColorMode:  colorMode,
		ShowAxes:   s.ShowAxes,
		Family:     family,
		Constant:   complex(s.JuliaReal, s.JuliaImaginary),
	}
	return params, params.Validate()
}

// WithParams returns a copy of the settings describing params instead.
func (s Settings) WithParams(params fractal.Params) Settings {
	s.Iterations = params.Iterations
	s.ColorMode = params.ColorMode.String()
	s.ShowAxes = params.ShowAxes
	s.Family = params.Family.String()
	s.JuliaReal = real(params.Constant)
	s.JuliaImaginary = imag(params.Constant)
	return s
}

// Renderer builds a renderer for the settings' fractal at its default view.
func (s Settings) Renderer() (*render.Renderer, error) {
	params, err := s.Params()
	if err != nil {
		return nil, err
	}
	r, err := render.NewRenderer(params, s.Width, s.Height)
	if err != nil {
		return nil, err
	}
	if err := r.SetSuperSampling(s.SuperSampling); err != nil {
		return nil, err
	}
	return r, nil
}

// Link is the coordinate link of the fractal the settings describe.
func (s Settings) Link() link.Link {
	if s.Family == fractal.Julia.String() {
		return link.Julia(s.JuliaReal, s.JuliaImaginary)
	}
	return link.Link{Family: fractal.Mandelbrot}
}

/*
 * Build settings from URL query values on top of base
 *
 * - Every key that parses is applied, the others keep the value from base
 * - The returned error joins one ConfigurationError per rejected key so callers can decide whether to report it
 */
func FromQuery(values url.Values, base Settings) (Settings, error) {
	s := base
	var errs []error

	if values.Has(link.FamilyKey) || values.Has(link.RealKey) || values.Has(link.ImaginaryKey) {
		l, err := link.Parse(values)
		if err != nil {
			errs = append(errs, err)
		} else {
			s.Family = l.Family.String()
			s.JuliaReal = real(l.Constant)
			s.JuliaImaginary = imag(l.Constant)
		}
	}

	if v := values.Get(IterationsKey); v != "" {
		if n, err := strconv.Atoi(v); err != nil || n <= 0 || n > MaxIterations {
			errs = append(errs, &fractal.ConfigurationError{Field: "Iterations", Value: v, Reason: fmt.Sprintf("must be an integer in [1, %d]", MaxIterations)})
		} else {
			s.Iterations = n
		}
	}
	if v := values.Get(ColorKey); v != "" {
		if colorMode, err := fractal.ParseColorMode(v); err != nil {
			errs = append(errs, err)
		} else {
			s.ColorMode = colorMode.String()
		}
	}
	if v := values.Get(AxesKey); v != "" {
		if b, err := strconv.ParseBool(v); err != nil {
			errs = append(errs, &fractal.ConfigurationError{Field: "ShowAxes", Value: v, Reason: "must be true or false"})
		} else {
			s.ShowAxes = b
		}
	}
	if n, err := dimension(values, WidthKey, "Width", MaxDimension); err != nil {
		errs = append(errs, err)
	} else if n > 0 {
		s.Width = n
	}
	if n, err := dimension(values, HeightKey, "Height", MaxDimension); err != nil {
		errs = append(errs, err)
	} else if n > 0 {
		s.Height = n
	}
	if n, err := dimension(values, ScaleKey, "Scale", MaxScale); err != nil {
		errs = append(errs, err)
	} else if n > 0 {
		s.Scale = n
	}
	// Each side may be valid alone while the scaled image is not
	if err := CheckSize(s.Width, s.Height, s.Scale); err != nil {
		errs = append(errs, err)
		s.Width, s.Height, s.Scale = base.Width, base.Height, base.Scale
	}

	return s, errors.Join(errs...)
}

// dimension parses a bounded positive integer. A missing key returns 0 and no error.
func dimension(values url.Values, key string, field string, max int) (int, error) {
	v := values.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 || n > max {
		return 0, &fractal.ConfigurationError{Field: field, Value: v, Reason: fmt.Sprintf("must be an integer in [1, %d]", max)}
	}
	return n, nil
}

// CheckSize reports whether a width x height canvas enlarged scale times fits within MaxDimension.
func CheckSize(width int, height int, scale int) error {
	if width <= 0 || height <= 0 || scale <= 0 || width*scale > MaxDimension || height*scale > MaxDimension {
		return &fractal.ConfigurationError{
			Field:  "Size",
			Value:  fmt.Sprintf("%dx%d scale %d", width, height, scale),
			Reason: fmt.Sprintf("the scaled image must fit in %dx%d", MaxDimension, MaxDimension),
		}
	}
	return nil
}

func (s Settings) zoomTarget() string {
	x, y := s.ZoomSequence.Target(s.Width, s.Height)
	return fmt.Sprintf("(%g, %g)", x, y)
}

func (s Settings) String() string {
	output := "\nFractal settings\n"
	output += fmt.Sprintf("Fractal: %s %s\n", s.Family, s.Link().String())
	output += fmt.Sprintf("Iterations: %d ColorMode: %s ShowAxes: %t\n", s.Iterations, s.ColorMode, s.ShowAxes)
	output += fmt.Sprintf("Size: %dx%d Scale: %d SuperSampling: %d\n", s.Width, s.Height, s.Scale, s.SuperSampling)
	output += fmt.Sprintf("ZoomLevel: %g ZoomSequence: %d frames at %s\n", s.ZoomLevel, s.ZoomSequence.Frames, s.zoomTarget())
	output += fmt.Sprintf("Server Address: %s\n", s.ServerAddress)
	output += fmt.Sprintf("Save Path: %s RunName: %s", s.SavePath, s.RunName)
	return output
}

package main

import (
	"errors"
	"flag"
	"net/url"
	"strconv"

	"FractalViewer/settings"
)

const (
	modePNG      = "png"
	modeTerminal = "terminal"
	modeServe    = "serve"
)

type arguments struct {
	mode         string
	output       string
	settingsFile string

	// Only flags given on the command line override the settings file
	overrides url.Values
	address   string
	frames    int
	saveLog   bool
	samples   int
	zoomLevel float64
}

func parseArguments() arguments {
	args := arguments{overrides: url.Values{}}

	flag.StringVar(&args.mode, "mode", modePNG, "What to do: png, terminal or serve")
	flag.StringVar(&args.output, "output", "", "Image file (or folder for a zoom sequence) to write in png mode")
	flag.StringVar(&args.settingsFile, "settings", "", "Json file with settings")

	// Fractal values, the names match the query keys of /render
	flag.String("f", "m", "Fractal: m (mandelbrot) or j (julia)")
	flag.String("r", "0", "Real part of the julia constant")
	flag.String("i", "0", "Imaginary part of the julia constant")
	flag.String(settings.IterationsKey, strconv.Itoa(20), "Iterations to run to verify each point")
	flag.String(settings.ColorKey, "smooth", "Coloring: smooth or linear")
	flag.String(settings.AxesKey, "false", "Draw the axes")
	flag.String(settings.WidthKey, strconv.Itoa(settings.DefaultWidth), "Width of resulting image")
	flag.String(settings.HeightKey, strconv.Itoa(settings.DefaultHeight), "Height of resulting image")
	flag.String(settings.ScaleKey, "1", "Enlarge every pixel of the png output to a scale x scale block")

	// Run values
	flag.StringVar(&args.address, "address", "", "Address to serve on")
	flag.IntVar(&args.frames, "frames", 0, "Number of frames of a zoom sequence in png mode")
	flag.BoolVar(&args.saveLog, "log", false, "Write a log file next to the output")
	flag.IntVar(&args.samples, "supersampling", 0, "Average n x n samples per pixel")
	flag.Float64Var(&args.zoomLevel, "zoom", 0, "Magnification of each zoom step")

	flag.Parse()

	queryKeys := map[string]bool{
		"f": true, "r": true, "i": true,
		settings.IterationsKey: true, settings.ColorKey: true, settings.AxesKey: true,
		settings.WidthKey: true, settings.HeightKey: true, settings.ScaleKey: true,
	}
	flag.Visit(func(f *flag.Flag) {
		if queryKeys[f.Name] {
			args.overrides.Set(f.Name, f.Value.String())
		}
	})
	return args
}

// apply copies the command line overrides into s. Rejected values keep what the settings file said.
func (args arguments) apply(s *settings.Settings) error {
	next, err := settings.FromQuery(args.overrides, *s)

	if args.address != "" {
		next.ServerAddress = args.address
	}
	if args.frames > 0 {
		next.ZoomSequence.Frames = args.frames
	}
	if args.saveLog {
		next.LogToFile = true
	}
	if args.samples > 0 {
		next.SuperSampling = args.samples
	}
	if args.zoomLevel > 0 {
		next.ZoomLevel = args.zoomLevel
	}

	*s = next
	return errors.Join(err, s.Verify())
}

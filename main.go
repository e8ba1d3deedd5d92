package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"FractalViewer/display"
	"FractalViewer/misc"
	"FractalViewer/render"
	"FractalViewer/server"
	"FractalViewer/settings"
	"FractalViewer/terminal"

	"github.com/BrugadaSyndrome/bslogger"
	"github.com/gdamore/tcell/v2"
)

func main() {
	args := parseArguments()
	logger := bslogger.NewLogger("Main", bslogger.Normal, nil)

	s := settings.Default()
	if args.settingsFile != "" {
		var err error
		s, err = settings.NewSettings(args.settingsFile)
		misc.CheckError(err, logger, misc.Fatal)
	}
	misc.CheckError(args.apply(&s), logger, misc.Warning)

	// Create a log file to record the run
	var logFile *os.File
	if s.LogToFile {
		var err error
		logFile, err = misc.CreateFile(filepath.Join(s.SavePath, s.RunName, "fractal.log"))
		if !misc.CheckError(err, logger, misc.Warning) {
			defer logFile.Close()
			logger = bslogger.NewLogger("Main", bslogger.Normal, logFile)
		}
	}
	logger.Debug(s.String())

	switch args.mode {
	case modePNG:
		runPNG(s, args.output, logger)
	case modeTerminal:
		runTerminal(s, logFile, logger)
	case modeServe:
		runServer(s, logger)
	default:
		logger.Fatalf("Unknown mode %q, expected %s, %s or %s", args.mode, modePNG, modeTerminal, modeServe)
	}
}

// runPNG writes a single image, or one numbered image per frame when a zoom sequence was requested.
func runPNG(s settings.Settings, output string, logger bslogger.Logger) {
	renderer, err := s.Renderer()
	misc.CheckError(err, logger, misc.Fatal)

	if s.ZoomSequence.Frames == 1 {
		if output == "" {
			output = filepath.Join(s.SavePath, s.RunName+".png")
		}
		session := render.NewSession(renderer, display.NewFile(output, s.Scale))
		misc.CheckError(session.Draw(), logger, misc.Fatal)
		logger.Infof("Open the same view with %s", s.Link().String())
		return
	}

	if output == "" {
		output = filepath.Join(s.SavePath, s.RunName)
	}
	sequence := display.NewSequence(output, s.Scale)
	session := render.NewSession(renderer, sequence)
	x, y := s.ZoomSequence.Target(s.Width, s.Height)
	misc.CheckError(render.ZoomSequence(session, s.ZoomLevel, x, y, s.ZoomSequence.Frames), logger, misc.Fatal)
	logger.Infof("Saved %d images to %s", sequence.Count(), output)
}

func runTerminal(s settings.Settings, logFile *os.File, logger bslogger.Logger) {
	screen, err := tcell.NewScreen()
	misc.CheckError(err, logger, misc.Fatal)
	misc.CheckError(screen.Init(), logger, misc.Fatal)

	// Log lines written while the screen is active would tear the picture
	stdout, stderr := os.Stdout, os.Stderr
	if logFile == nil {
		logFile, err = os.OpenFile(os.DevNull, os.O_WRONLY, 0)
		misc.CheckError(err, logger, misc.Warning)
	}
	if logFile != nil {
		os.Stdout, os.Stderr = logFile, logFile
	}

	viewer, err := terminal.NewViewer(screen, s)
	if err == nil {
		err = viewer.Run()
	}

	screen.Fini()
	os.Stdout, os.Stderr = stdout, stderr
	misc.CheckError(err, logger, misc.Fatal)
}

func runServer(s settings.Settings, logger bslogger.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.NewServer(s)
	misc.CheckError(srv.Run(), logger, misc.Fatal)
	logger.Infof("Open http://%s/%s", srv.Addr(), s.Link().String())

	<-ctx.Done()
	misc.CheckError(srv.Stop(), logger, misc.Error)
	srv.WG.Wait()
}

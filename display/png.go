package display

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"path/filepath"

	"FractalViewer/misc"

	"github.com/BrugadaSyndrome/bslogger"
	"golang.org/x/image/draw"
)

// EncodePNG writes img as a PNG, enlarging every pixel to a scale x scale block first.
func EncodePNG(w io.Writer, img *image.RGBA, scale int) error {
	if scale < 1 {
		return fmt.Errorf("invalid scale %d", scale)
	}

	var out image.Image = img
	if scale > 1 {
		bounds := img.Bounds()
		scaled := image.NewRGBA(image.Rect(0, 0, bounds.Dx()*scale, bounds.Dy()*scale))
		draw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, bounds, draw.Src, nil)
		out = scaled
	}

	if err := png.Encode(w, out); err != nil {
		return fmt.Errorf("unable to encode png - %w", err)
	}
	return nil
}

// File writes every render to the same path, replacing the previous one.
type File struct {
	logger bslogger.Logger

	Path  string
	Scale int
}

func NewFile(path string, scale int) *File {
	return &File{
		logger: bslogger.NewLogger("FileDisplay", bslogger.Normal, nil),
		Path:   path,
		Scale:  scale,
	}
}

func (f *File) Show(img *image.RGBA) error {
	if err := save(f.Path, img, f.Scale); err != nil {
		return err
	}
	f.logger.Infof("Saved image to %s", f.Path)
	return nil
}

// Sequence writes every render to the next numbered file in a folder, 0.png, 1.png, ...
type Sequence struct {
	logger bslogger.Logger
	next   int

	Folder string
	Scale  int
}

func NewSequence(folder string, scale int) *Sequence {
	return &Sequence{
		logger: bslogger.NewLogger("SequenceDisplay", bslogger.Normal, nil),
		Folder: folder,
		Scale:  scale,
	}
}

func (s *Sequence) Show(img *image.RGBA) error {
	path := filepath.Join(s.Folder, fmt.Sprintf("%d.png", s.next))
	if err := save(path, img, s.Scale); err != nil {
		return err
	}
	s.logger.Infof("Saved image to %s", path)
	s.next++
	return nil
}

// Count is the number of images written so far.
func (s *Sequence) Count() int {
	return s.next
}

func save(path string, img *image.RGBA, scale int) error {
	f, err := misc.CreateFile(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, img, scale); err != nil {
		f.Close()
		return fmt.Errorf("unable to save image %s - %w", path, err)
	}
	return f.Close()
}

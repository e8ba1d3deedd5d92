package terminal

import (
	"image"
	"image/color"

	"github.com/gdamore/tcell/v2"
)

// Every cell shows two canvas pixels stacked vertically, the upper one as the foreground of this rune and the
// lower one as the background.
const halfBlock = '▀'

// CanvasSize is the pixel size of the canvas for a cols x rows terminal. The last row is kept for the status line.
func CanvasSize(cols int, rows int) (int, int) {
	if rows < 2 {
		return cols, 0
	}
	return cols, (rows - 1) * 2
}

// CellToPixel maps a terminal cell to the canvas pixel drawn in its upper half.
func CellToPixel(cx int, cy int) (int, int) {
	return cx, cy * 2
}

// Display draws rendered buffers onto a tcell screen.
type Display struct {
	screen tcell.Screen
	status string
}

func NewDisplay(screen tcell.Screen) *Display {
	return &Display{screen: screen}
}

// Show draws the whole buffer and the current status line, then flushes the screen once.
func (d *Display) Show(img *image.RGBA) error {
	bounds := img.Bounds()
	cols, rows := d.screen.Size()

	for cy := 0; cy < rows-1; cy++ {
		for cx := 0; cx < cols; cx++ {
			px, py := CellToPixel(cx, cy)
			top := pixelAt(img, bounds, px, py)
			bottom := pixelAt(img, bounds, px, py+1)
			style := tcell.StyleDefault.Foreground(toColor(top)).Background(toColor(bottom))
			d.screen.SetContent(cx, cy, halfBlock, nil, style)
		}
	}

	d.drawStatus()
	d.screen.Show()
	return nil
}

// SetStatus replaces the status line and redraws only that row.
func (d *Display) SetStatus(status string) {
	d.status = status
	d.drawStatus()
	d.screen.Show()
}

func (d *Display) Status() string {
	return d.status
}

func (d *Display) drawStatus() {
	cols, rows := d.screen.Size()
	if rows < 1 {
		return
	}

	style := tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	runes := []rune(d.status)
	for cx := 0; cx < cols; cx++ {
		r := ' '
		if cx < len(runes) {
			r = runes[cx]
		}
		d.screen.SetContent(cx, rows-1, r, nil, style)
	}
}

func pixelAt(img *image.RGBA, bounds image.Rectangle, x int, y int) color.RGBA {
	if !(image.Point{X: x, Y: y}).In(bounds) {
		return color.RGBA{A: 255}
	}
	return img.RGBAAt(x, y)
}

func toColor(c color.RGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

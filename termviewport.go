package tessera

import (
	"image"

	"github.com/gdamore/tcell/v2"
)

// blockRune fills a whole terminal cell.
const blockRune = '█'

// TerminalViewport draws on a terminal through tcell. Every cell stands for
// CellWidth x CellHeight pixels; a tile is drawn as its average color over
// the cells whose centers it covers.
type TerminalViewport struct {
	CellWidth  int
	CellHeight int
	// Background is used by Clear.
	Background tcell.Color

	screen tcell.Screen
	tints  map[image.Image]tcell.Color
}

// NewTerminalViewport wraps an initialized screen. Cell sizes below 1 are
// raised to 1.
func NewTerminalViewport(screen tcell.Screen, cellWidth, cellHeight int) *TerminalViewport {
	return &TerminalViewport{
		CellWidth:  max(cellWidth, 1),
		CellHeight: max(cellHeight, 1),
		Background: tcell.ColorBlack,
		screen:     screen,
		tints:      make(map[image.Image]tcell.Color),
	}
}

// Screen returns the wrapped screen.
func (v *TerminalViewport) Screen() tcell.Screen { return v.screen }

// Width implements Viewport.
func (v *TerminalViewport) Width() int {
	cols, _ := v.screen.Size()
	return cols * v.CellWidth
}

// Height implements Viewport.
func (v *TerminalViewport) Height() int {
	_, rows := v.screen.Size()
	return rows * v.CellHeight
}

// Center implements Viewport.
func (v *TerminalViewport) Center() Vec2 {
	return Vec2{X: float64(v.Width()) / 2, Y: float64(v.Height()) / 2}
}

// Clear implements Viewport.
func (v *TerminalViewport) Clear() {
	v.screen.Fill(' ', tcell.StyleDefault.Background(v.Background))
}

// DrawTile implements Viewport.
func (v *TerminalViewport) DrawTile(img image.Image, dst image.Rectangle) {
	if img == nil {
		return
	}
	c, ok := v.tints[img]
	if !ok {
		c = toTermColor(averageColor(img).RGBA())
		v.tints[img] = c
	}
	v.fill(dst, c)
}

// FillRect implements Viewport.
func (v *TerminalViewport) FillRect(dst image.Rectangle, c Color) {
	v.fill(dst, toTermColor(c.RGBA()))
}

// Show flushes drawn cells to the terminal.
func (v *TerminalViewport) Show() {
	v.screen.Show()
}

func (v *TerminalViewport) fill(dst image.Rectangle, c tcell.Color) {
	cells := v.cellsCovering(dst)
	if cells.Empty() {
		return
	}
	style := tcell.StyleDefault.Foreground(c).Background(c)
	for row := cells.Min.Y; row < cells.Max.Y; row++ {
		for col := cells.Min.X; col < cells.Max.X; col++ {
			v.screen.SetContent(col, row, blockRune, nil, style)
		}
	}
}

// cellsCovering returns the cells whose centers lie inside dst, clipped to
// the screen.
func (v *TerminalViewport) cellsCovering(dst image.Rectangle) image.Rectangle {
	cw, ch := v.CellWidth, v.CellHeight
	r := image.Rect(
		ceilDiv(dst.Min.X*2-cw, 2*cw), ceilDiv(dst.Min.Y*2-ch, 2*ch),
		ceilDiv(dst.Max.X*2-cw, 2*cw), ceilDiv(dst.Max.Y*2-ch, 2*ch),
	)
	cols, rows := v.screen.Size()
	return r.Intersect(image.Rect(0, 0, cols, rows))
}

// ceilDiv divides rounding toward positive infinity; b must be positive.
func ceilDiv(a, b int) int {
	q := a / b
	if a%b != 0 && a > 0 {
		q++
	}
	return q
}

// averageColor returns the mean non-premultiplied color of img, weighting
// each pixel by its alpha.
func averageColor(img image.Image) Color {
	b := img.Bounds()
	var r, g, bl, a float64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			pr, pg, pb, pa := img.At(x, y).RGBA()
			r += float64(pr)
			g += float64(pg)
			bl += float64(pb)
			a += float64(pa)
		}
	}
	if a == 0 {
		return Color{}
	}
	n := float64(b.Dx() * b.Dy())
	return Color{R: r / a, G: g / a, B: bl / a, A: a / n / 0xffff}
}

func toTermColor(c interface{ RGBA() (r, g, b, a uint32) }) tcell.Color {
	r, g, b, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(b>>8))
}

package tessera

import (
	"image"
	"image/color"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimViewport(t *testing.T, cols, rows, cell int) (*TerminalViewport, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	t.Cleanup(screen.Fini)
	screen.SetSize(cols, rows)
	return NewTerminalViewport(screen, cell, cell), screen
}

func TestTerminalViewportSize(t *testing.T) {
	vp, _ := newSimViewport(t, 40, 20, 8)
	if vp.Width() != 320 || vp.Height() != 160 {
		t.Errorf("size = %dx%d, want 320x160", vp.Width(), vp.Height())
	}
	if vp.Center() != (Vec2{X: 160, Y: 80}) {
		t.Errorf("Center = %+v", vp.Center())
	}
}

func TestTerminalViewportDrawTile(t *testing.T) {
	vp, screen := newSimViewport(t, 10, 10, 8)
	vp.Clear()

	tile := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			tile.SetRGBA(x, y, color.RGBA{R: 200, G: 0, B: 0, A: 255})
		}
	}
	vp.DrawTile(tile, image.Rect(8, 8, 24, 16)) // cells (1,1) and (2,1)

	want := tcell.NewRGBColor(200, 0, 0)
	for _, cell := range []image.Point{{1, 1}, {2, 1}} {
		r, _, style, _ := screen.GetContent(cell.X, cell.Y)
		if r != blockRune {
			t.Errorf("cell %v rune = %q, want block", cell, r)
		}
		if style != tcell.StyleDefault.Foreground(want).Background(want) {
			t.Errorf("cell %v style = %v", cell, style)
		}
	}
	for _, cell := range []image.Point{{0, 0}, {3, 1}, {1, 2}} {
		if r, _, _, _ := screen.GetContent(cell.X, cell.Y); r == blockRune {
			t.Errorf("cell %v should be untouched", cell)
		}
	}
}

func TestTerminalViewportClipsToScreen(t *testing.T) {
	vp, _ := newSimViewport(t, 4, 4, 8)
	got := vp.cellsCovering(image.Rect(-100, -100, 1000, 1000))
	if got != image.Rect(0, 0, 4, 4) {
		t.Errorf("cellsCovering = %v, want the whole screen", got)
	}
	if !vp.cellsCovering(image.Rect(1, 1, 3, 3)).Empty() {
		t.Error("a rect covering no cell center should cover nothing")
	}
}

func TestAverageColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 255, A: 255})
	img.SetRGBA(1, 0, color.RGBA{B: 255, A: 255})
	c := averageColor(img)
	if !approxEqual(c.R, 0.5, 1e-3) || !approxEqual(c.B, 0.5, 1e-3) || !approxEqual(c.A, 1, 1e-3) {
		t.Errorf("averageColor = %+v", c)
	}
	if (averageColor(image.NewRGBA(image.Rect(0, 0, 2, 2))) != Color{}) {
		t.Error("transparent image should average to the zero color")
	}
}

func TestTerminalViewportWithRenderer(t *testing.T) {
	vp, screen := newSimViewport(t, 40, 40, 8)
	m := loadTestMap(t)
	cam := NewCamera(m, vp, DefaultCameraConfig())
	cam.CenterOnMap()
	NewRenderer(cam, m, vp).Render()
	vp.Show()

	// Ground row 0 is index 0 on a 32px tile: four cells wide at 8px per cell.
	want := toTermColor(averageColor(m.Tile(1, 0)).RGBA())
	_, _, style, _ := screen.GetContent(0, 0)
	if style != tcell.StyleDefault.Foreground(want).Background(want) {
		t.Errorf("cell (0,0) style = %v, want ground color", style)
	}
}

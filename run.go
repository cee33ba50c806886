package tessera

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title   string
	Width   int
	Height  int
	ShowFPS bool
	// Resizable lets the window be resized; the viewport follows the layout
	// size.
	Resizable bool
}

// ErrNoEbitenViewport is returned by Run when the stage draws on a viewport
// that is not an *EbitenViewport.
var ErrNoEbitenViewport = errors.New("tessera: Run needs a stage drawing on an *EbitenViewport")

// Run opens a window and drives the stage until the window is closed. It
// blocks and must be called from the main goroutine.
func Run(stage *Stage, cfg RunConfig) error {
	vp, ok := stage.Viewport().(*EbitenViewport)
	if !ok {
		return ErrNoEbitenViewport
	}
	if cfg.Width <= 0 {
		cfg.Width = vp.Width()
	}
	if cfg.Height <= 0 {
		cfg.Height = vp.Height()
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	return ebiten.RunGame(&game{stage: stage, viewport: vp, showFPS: cfg.ShowFPS})
}

// game adapts a Stage to ebiten.Game.
type game struct {
	stage    *Stage
	viewport *EbitenViewport
	showFPS  bool
}

func (g *game) Update() error {
	g.stage.Update(1.0 / float64(ebiten.TPS()))
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	g.viewport.Bind(screen)
	g.stage.Draw()
	g.stage.flushScreenshots(screen)
	if g.showFPS {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("FPS: %.1f\nTPS: %.1f\nzoom: %.2f",
			ebiten.ActualFPS(), ebiten.ActualTPS(), g.stage.Camera().Zoom()))
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.viewport.Width() || outsideHeight != g.viewport.Height() {
		g.viewport.Resize(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}

package ecs

import (
	"image"

	"github.com/phanxgames/tessera"
)

func blankSheet() image.Image {
	return image.NewRGBA(image.Rect(0, 0, 32, 32))
}

// fixedViewport is a 64x64 Viewport that draws nothing.
type fixedViewport struct{}

func (fixedViewport) Width() int { return 64 }
func (fixedViewport) Height() int { return 64 }
func (fixedViewport) Center() tessera.Vec2 { return tessera.Vec2{X: 32, Y: 32} }
func (fixedViewport) Clear() {}
func (fixedViewport) DrawTile(image.Image, image.Rectangle) {}
func (fixedViewport) FillRect(image.Rectangle, tessera.Color) {}

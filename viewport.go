package tessera

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Viewport is a fixed-size drawing surface. Creating and resizing the surface
// belongs to the host; the Camera reads its size and the Renderer draws on it.
type Viewport interface {
	// Width and Height return the surface size in pixels.
	Width() int
	Height() int
	// Center returns the surface midpoint in viewport space.
	Center() Vec2
	// Clear erases the whole surface.
	Clear()
	// DrawTile draws img scaled to fill dst.
	DrawTile(img image.Image, dst image.Rectangle)
	// FillRect fills dst with a solid color.
	FillRect(dst image.Rectangle, c Color)
}

// EbitenViewport draws onto an *ebiten.Image. Bind it to the frame's screen
// (Run does this) before the Renderer uses it.
type EbitenViewport struct {
	// ClearColor fills the surface on Clear. The zero value clears to
	// transparent.
	ClearColor Color

	width, height int
	target        *ebiten.Image

	// uploaded caches GPU copies of non-ebiten tile images.
	uploaded map[image.Image]*ebiten.Image
}

// NewEbitenViewport creates a viewport of the given pixel size.
func NewEbitenViewport(width, height int) *EbitenViewport {
	return &EbitenViewport{
		width:    width,
		height:   height,
		uploaded: make(map[image.Image]*ebiten.Image),
	}
}

// Bind sets the image drawn on by subsequent calls.
func (v *EbitenViewport) Bind(target *ebiten.Image) {
	v.target = target
}

// Target returns the bound image, or nil.
func (v *EbitenViewport) Target() *ebiten.Image {
	return v.target
}

// Resize changes the logical size reported to the Camera.
func (v *EbitenViewport) Resize(width, height int) {
	v.width, v.height = width, height
}

// Width implements Viewport.
func (v *EbitenViewport) Width() int { return v.width }

// Height implements Viewport.
func (v *EbitenViewport) Height() int { return v.height }

// Center implements Viewport.
func (v *EbitenViewport) Center() Vec2 {
	return Vec2{X: float64(v.width) / 2, Y: float64(v.height) / 2}
}

// Clear implements Viewport.
func (v *EbitenViewport) Clear() {
	if v.target == nil {
		return
	}
	if v.ClearColor == (Color{}) {
		v.target.Clear()
		return
	}
	v.target.Fill(v.ClearColor.RGBA())
}

// DrawTile implements Viewport.
func (v *EbitenViewport) DrawTile(img image.Image, dst image.Rectangle) {
	if v.target == nil || img == nil || dst.Empty() {
		return
	}
	src := v.ebitenImage(img)
	b := src.Bounds()
	if b.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.Dx())/float64(b.Dx()), float64(dst.Dy())/float64(b.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	v.target.DrawImage(src, op)
}

// FillRect implements Viewport.
func (v *EbitenViewport) FillRect(dst image.Rectangle, c Color) {
	if v.target == nil || dst.Empty() {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(float64(dst.Dx()), float64(dst.Dy()))
	op.GeoM.Translate(float64(dst.Min.X), float64(dst.Min.Y))
	op.ColorScale.ScaleWithColor(c.RGBA())
	v.target.DrawImage(ensureWhitePixel(), op)
}

func (v *EbitenViewport) ebitenImage(img image.Image) *ebiten.Image {
	if e, ok := img.(*ebiten.Image); ok {
		return e
	}
	if e, ok := v.uploaded[img]; ok {
		return e
	}
	e := ebiten.NewImageFromImage(img)
	v.uploaded[img] = e
	return e
}

// --- White pixel singleton (frame code is single-threaded) ---

var whitePixelImage *ebiten.Image

// ensureWhitePixel returns a lazily-initialized 1x1 white pixel image used
// for solid fills.
func ensureWhitePixel() *ebiten.Image {
	if whitePixelImage == nil {
		whitePixelImage = ebiten.NewImage(1, 1)
		whitePixelImage.Fill(color.White)
	}
	return whitePixelImage
}

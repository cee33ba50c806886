package tessera

import (
	"image"
	"math"
	"time"
)

// Renderer draws the tiles visible through a Camera onto a Viewport. It only
// reads camera and map state.
type Renderer struct {
	camera   *Camera
	world    *WorldMap
	viewport Viewport

	debug bool
	area  TileRect    // window used by the last Render
	stats renderStats // last frame, populated when debug is on
}

// NewRenderer creates a renderer for world as seen by camera on viewport.
func NewRenderer(camera *Camera, world *WorldMap, viewport Viewport) *Renderer {
	return &Renderer{camera: camera, world: world, viewport: viewport}
}

// SetDebug enables per-frame stats logging at debug level.
func (r *Renderer) SetDebug(enabled bool) {
	r.debug = enabled
}

// ScaledTileSize returns the on-screen tile size at the current zoom,
// rounded up so adjacent tiles never leave a seam.
func (r *Renderer) ScaledTileSize() image.Point {
	ts := r.world.TileSize()
	s := r.camera.ScaleFactor()
	return image.Point{
		X: int(math.Ceil(ts.Width * s)),
		Y: int(math.Ceil(ts.Height * s)),
	}
}

// Area returns the tile window used by the last Render.
func (r *Renderer) Area() TileRect {
	return r.area
}

// Render clears the viewport once and draws every visible tile layer in
// order. Cell (x, y) lands at ((x-area.X1)*w, (y-area.Y1)*h) with the scaled
// tile size (w, h). Nothing is drawn while the map is not ready.
func (r *Renderer) Render() {
	if !r.world.IsReady() {
		return
	}
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}

	area := r.camera.Area()
	r.area = area
	scaled := r.ScaledTileSize()

	r.viewport.Clear()

	var stats renderStats
	for _, lt := range r.world.TilesIn(area) {
		if !lt.Visible {
			continue
		}
		stats.layers++
		for _, cell := range lt.Cells {
			r.viewport.DrawTile(cell.Image, cellRect(area, cell.Col, cell.Row, scaled))
			stats.tiles++
		}
	}

	if r.debug {
		stats.area = area
		stats.renderTime = time.Since(t0)
		r.stats = stats
	}
}

// RenderActors draws ready, live actors over the tiles drawn by the last
// Render: the actor's sprite when it has one, otherwise a solid block in its
// state color.
func (r *Renderer) RenderActors(actors []*Actor) {
	if !r.world.IsReady() {
		return
	}
	var t0 time.Time
	if r.debug {
		t0 = time.Now()
	}
	screen := image.Rect(0, 0, r.viewport.Width(), r.viewport.Height())
	drawn := 0
	for _, a := range actors {
		if !a.IsReady() || a.Removed() {
			continue
		}
		dst := r.ActorRect(a)
		if !dst.Overlaps(screen) {
			continue
		}
		if sprite := a.Sprite(); sprite != nil {
			r.viewport.DrawTile(sprite, dst)
		} else {
			r.viewport.FillRect(dst, StateColor(a.State()))
		}
		drawn++
	}
	if r.debug {
		r.stats.actors = drawn
		r.stats.actorTime = time.Since(t0)
	}
}

// ActorRect maps an actor's world bounds into the same area-relative screen
// space the tiles were drawn in, so actors line up with the grid.
func (r *Renderer) ActorRect(a *Actor) image.Rectangle {
	ts := r.world.TileSize()
	if ts.Width == 0 || ts.Height == 0 {
		return image.Rectangle{}
	}
	scaled := r.ScaledTileSize()
	sw, sh := float64(scaled.X), float64(scaled.Y)
	b := a.Bounds()
	x0 := (b.X/ts.Width - float64(r.area.X1)) * sw
	y0 := (b.Y/ts.Height - float64(r.area.Y1)) * sh
	x1 := x0 + b.Width/ts.Width*sw
	y1 := y0 + b.Height/ts.Height*sh
	return image.Rect(
		int(math.Round(x0)), int(math.Round(y0)),
		int(math.Round(x1)), int(math.Round(y1)),
	)
}

func cellRect(area TileRect, col, row int, scaled image.Point) image.Rectangle {
	x := (col - area.X1) * scaled.X
	y := (row - area.Y1) * scaled.Y
	return image.Rect(x, y, x+scaled.X, y+scaled.Y)
}

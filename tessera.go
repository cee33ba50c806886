package tessera

import (
	"image/color"
	"math"
)

// Vec2 is a 2D vector used for positions, offsets and directions. Whether a
// Vec2 is in world or viewport space is decided by the API that returns it;
// the two are never mixed without going through the Camera or Renderer.
type Vec2 struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

// Scale returns v * s.
func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

// Len returns the Euclidean length of v.
func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Dist returns the distance between v and o.
func (v Vec2) Dist(o Vec2) float64 { return v.Sub(o).Len() }

// Size is a non-negative width/height pair, in pixels or tiles depending on
// context.
type Size struct {
	Width, Height float64
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward. Rect is also a collider Shape.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// TileRect is a half-open window of tile coordinates: columns [X1, X2) and
// rows [Y1, Y2).
type TileRect struct {
	X1, Y1, X2, Y2 int
}

// Empty reports whether the window contains no cells.
func (r TileRect) Empty() bool {
	return r.X2 <= r.X1 || r.Y2 <= r.Y1
}

// Contains reports whether the cell (col, row) lies inside the window.
func (r TileRect) Contains(col, row int) bool {
	return col >= r.X1 && col < r.X2 && row >= r.Y1 && row < r.Y2
}

// Intersect returns the overlap of r and o. The result may be Empty.
func (r TileRect) Intersect(o TileRect) TileRect {
	return TileRect{
		X1: max(r.X1, o.X1),
		Y1: max(r.Y1, o.Y1),
		X2: min(r.X2, o.X2),
		Y2: min(r.Y2, o.Y2),
	}
}

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Premultiplication occurs when converting to an image/color value.
type Color struct {
	R, G, B, A float64
}

// ColorWhite is the default tint.
var ColorWhite = Color{1, 1, 1, 1}

// RGBA converts c to a premultiplied color.RGBA.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{
		R: uint8(clamp01(c.R*c.A) * 255),
		G: uint8(clamp01(c.G*c.A) * 255),
		B: uint8(clamp01(c.B*c.A) * 255),
		A: uint8(clamp01(c.A) * 255),
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(v, hi))
}

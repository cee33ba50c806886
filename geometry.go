package tessera

import (
	"fmt"
	"math"
)

// Shape is the closed set of collider geometries. Only types in this package
// implement it; every switch over a Shape handles each variant explicitly and
// panics on anything else, so a new variant cannot be silently ignored.
type Shape interface {
	// Bounds returns the axis-aligned bounding box of the shape.
	Bounds() Rect
	shape()
}

// Circle is a collider shape centered at (X, Y).
type Circle struct {
	X, Y, Radius float64
}

func (Rect) shape()   {}
func (Circle) shape() {}

// Bounds returns r itself.
func (r Rect) Bounds() Rect { return r }

// Bounds returns the square enclosing the circle.
func (c Circle) Bounds() Rect {
	return Rect{X: c.X - c.Radius, Y: c.Y - c.Radius, Width: 2 * c.Radius, Height: 2 * c.Radius}
}

// Center returns the circle's center point.
func (c Circle) Center() Vec2 { return Vec2{c.X, c.Y} }

// Collides reports whether two shapes overlap. Touching edges do not count as
// an overlap for rectangles, and a zero-radius circle sitting on a rectangle
// corner does not collide.
func Collides(a, b Shape) bool {
	switch a := a.(type) {
	case Rect:
		switch b := b.(type) {
		case Rect:
			return rectRect(a, b)
		case Circle:
			return rectCircle(a, b)
		}
	case Circle:
		switch b := b.(type) {
		case Rect:
			return rectCircle(b, a)
		case Circle:
			return circleCircle(a, b)
		}
	}
	panic(fmt.Sprintf("tessera: unsupported shape pair %T/%T", a, b))
}

// rectRect is the standard strict AABB overlap test.
func rectRect(a, b Rect) bool {
	return a.X < b.X+b.Width &&
		a.X+a.Width > b.X &&
		a.Y < b.Y+b.Height &&
		a.Y+a.Height > b.Y
}

// rectCircle uses the closest-point test: reject when the center is farther
// than radius+half-extent on either axis, accept when the center projects
// inside the rectangle on either axis, otherwise compare the corner distance.
func rectCircle(r Rect, c Circle) bool {
	halfW := r.Width / 2
	halfH := r.Height / 2
	dx := math.Abs(c.X - (r.X + halfW))
	dy := math.Abs(c.Y - (r.Y + halfH))

	if dx > halfW+c.Radius || dy > halfH+c.Radius {
		return false
	}
	if dx < halfW || dy < halfH {
		// Inside the projection on one axis; the other axis already passed
		// the reject test, but a zero-extent touch is not an overlap.
		return dx < halfW+c.Radius && dy < halfH+c.Radius
	}

	cx := dx - halfW
	cy := dy - halfH
	if c.Radius == 0 {
		return false
	}
	return cx*cx+cy*cy <= c.Radius*c.Radius
}

func circleCircle(a, b Circle) bool {
	r := a.Radius + b.Radius
	dx := a.X - b.X
	dy := a.Y - b.Y
	return dx*dx+dy*dy < r*r
}

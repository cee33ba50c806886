package tessera

import (
	"fmt"
	"math"
	"strings"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// MotionModel selects how a Camera moves toward its target.
type MotionModel uint8

const (
	MotionLinear  MotionModel = iota // constant speed, snaps on the last step
	MotionSmooth                     // exponential approach, snaps below smoothEpsilon
	MotionInstant                    // jumps to the target every update
	MotionCurved                     // cubic Bézier, time-normalized progress
)

var motionNames = [...]string{"linear", "smooth", "instant", "curved"}

func (m MotionModel) String() string {
	if int(m) < len(motionNames) {
		return motionNames[m]
	}
	return fmt.Sprintf("MotionModel(%d)", m)
}

// ParseMotionModel converts a model name ("linear", "smooth", "instant",
// "curved") to a MotionModel.
func ParseMotionModel(s string) (MotionModel, error) {
	for i, name := range motionNames {
		if strings.EqualFold(s, name) {
			return MotionModel(i), nil
		}
	}
	return 0, fmt.Errorf("tessera: unknown camera motion model %q", s)
}

const (
	// smoothEpsilon is the distance (px) under which the smooth model snaps.
	smoothEpsilon = 0.5
	// curveThreshold is the distance (px) under which the curved model snaps.
	curveThreshold = 1.0
	// zoomEpsilon is the zoom difference under which zoom snaps to target.
	zoomEpsilon = 1e-3
	// zoomUnit is the zoom value at which one world pixel is one screen pixel.
	zoomUnit = 1.0
	// followJump is the distance (px) a followed target may move in one
	// update without restarting a curve in progress.
	followJump = 64.0
)

// CameraConfig holds the tunables of a Camera.
type CameraConfig struct {
	Model MotionModel
	// Speed is the linear model's speed in px/s.
	Speed float64
	// Lerp is the smooth model's approach rate per second.
	Lerp float64
	// CurveSpeed is how much curve progress (0..1) advances per second.
	CurveSpeed float64
	// ZoomSpeed is the linear model's zoom change per second.
	ZoomSpeed float64
	// Zoom is the initial zoom; MinZoom and MaxZoom bound every zoom change.
	Zoom, MinZoom, MaxZoom float64
	// CurveOffset1 and CurveOffset2 place the curved model's control points
	// relative to the start and the target.
	CurveOffset1, CurveOffset2 Vec2
	// CurveEase shapes curve progress. Nil means linear.
	CurveEase ease.TweenFunc
}

// DefaultCameraConfig returns the tunables used when none are given.
func DefaultCameraConfig() CameraConfig {
	return CameraConfig{
		Model:        MotionSmooth,
		Speed:        240,
		Lerp:         8,
		CurveSpeed:   1.5,
		ZoomSpeed:    2,
		Zoom:         1,
		MinZoom:      0.5,
		MaxZoom:      4,
		CurveOffset1: Vec2{X: 0, Y: -48},
		CurveOffset2: Vec2{X: 0, Y: -48},
		CurveEase:    ease.Linear,
	}
}

// FollowTarget is anything the camera can track, typically an *Actor.
type FollowTarget interface {
	Center() Vec2
}

// scrollAnim holds active scroll-to tweens for camera X and Y.
type scrollAnim struct {
	tweenX *gween.Tween
	tweenY *gween.Tween
	doneX  bool
	doneY  bool
}

// Camera owns the view transform: a world-space position the viewport is
// centered on and a zoom. It moves toward a target with one motion model and
// keeps the view inside the map. The WorldMap and Viewport are read, never
// modified.
type Camera struct {
	world    *WorldMap
	viewport Viewport
	cfg      CameraConfig

	model   MotionModel
	pending *MotionModel // model switch deferred until the transition ends

	pos, target      Vec2
	zoom, targetZoom float64

	progress  float64 // curved model, 0..1
	curveFrom Vec2

	follow      FollowTarget
	scrollTween *scrollAnim
}

// NewCamera creates a camera looking at world through viewport.
func NewCamera(world *WorldMap, viewport Viewport, cfg CameraConfig) *Camera {
	if cfg.MinZoom <= 0 {
		cfg.MinZoom = 0.5
	}
	if cfg.MaxZoom < cfg.MinZoom {
		cfg.MaxZoom = cfg.MinZoom
	}
	if cfg.Zoom <= 0 {
		cfg.Zoom = 1
	}
	if cfg.CurveEase == nil {
		cfg.CurveEase = ease.Linear
	}
	z := clamp(cfg.Zoom, cfg.MinZoom, cfg.MaxZoom)
	return &Camera{
		world:      world,
		viewport:   viewport,
		cfg:        cfg,
		model:      cfg.Model,
		zoom:       z,
		targetZoom: z,
	}
}

// Position returns the current world-space center of the view.
func (c *Camera) Position() Vec2 { return c.pos }

// Target returns the position the camera is moving toward.
func (c *Camera) Target() Vec2 { return c.target }

// Zoom returns the current zoom.
func (c *Camera) Zoom() float64 { return c.zoom }

// TargetZoom returns the zoom the camera is moving toward.
func (c *Camera) TargetZoom() float64 { return c.targetZoom }

// Model returns the active motion model.
func (c *Camera) Model() MotionModel { return c.model }

// Progress returns the curved model's progress in [0, 1).
func (c *Camera) Progress() float64 { return c.progress }

// Moving reports whether a transition toward the target position or zoom is
// in progress. A target outside the map counts as reached once the camera
// rests at the nearest allowed position.
func (c *Camera) Moving() bool {
	return c.scrollTween != nil || c.zoom != c.targetZoom || c.pos != c.clampPoint(c.target)
}

// SetModel selects the motion model. A switch requested mid-transition takes
// effect once the current transition ends, so models never mix.
func (c *Camera) SetModel(m MotionModel) {
	if c.Moving() {
		c.pending = &m
		return
	}
	c.model = m
	c.pending = nil
	c.progress = 0
}

// SetTarget sets the world position to move toward. The curved model
// restarts its curve from the current position.
func (c *Camera) SetTarget(x, y float64) {
	t := Vec2{X: x, Y: y}
	if t == c.target {
		return
	}
	c.target = t
	c.progress = 0
}

// track moves the target to a followed point. Small moves while a curve is
// under way only shift its end point; a jump restarts it like SetTarget.
func (c *Camera) track(t Vec2) {
	if c.progress > 0 && t.Dist(c.target) <= followJump {
		c.target = t
		return
	}
	c.SetTarget(t.X, t.Y)
}

// SetPosition moves the camera and its target immediately, then clamps.
func (c *Camera) SetPosition(x, y float64) {
	c.pos = Vec2{X: x, Y: y}
	c.target = c.pos
	c.progress = 0
	c.scrollTween = nil
	c.clampToBounds()
}

// CenterOnMap places the camera at the middle of the map.
func (c *Camera) CenterOnMap() {
	ps := c.world.PixelSize()
	c.SetPosition(ps.Width/2, ps.Height/2)
}

// SetZoom sets the target zoom, clamped to [MinZoom, MaxZoom], and recenters
// the target so the point under the viewport center stays put:
// target = center - (center - position) * newZoom/oldZoom.
func (c *Camera) SetZoom(z float64) {
	z = clamp(z, c.cfg.MinZoom, c.cfg.MaxZoom)
	old := c.targetZoom
	if z == old {
		return
	}
	center := c.viewport.Center()
	c.target = center.Sub(center.Sub(c.pos).Scale(z / old))
	c.targetZoom = z
	c.progress = 0
}

// Follow makes the camera retarget on node every update. Pass nil to stop.
func (c *Camera) Follow(node FollowTarget) {
	c.follow = node
}

// ScrollTo animates the camera to the given world position over duration
// seconds. The tween overrides the motion model until it finishes.
func (c *Camera) ScrollTo(x, y float64, duration float32, easeFn ease.TweenFunc) {
	if easeFn == nil {
		easeFn = ease.Linear
	}
	c.scrollTween = &scrollAnim{
		tweenX: gween.New(float32(c.pos.X), float32(x), duration, easeFn),
		tweenY: gween.New(float32(c.pos.Y), float32(y), duration, easeFn),
	}
	c.target = Vec2{X: x, Y: y}
	c.progress = 0
}

// ScrollToTile scrolls to the center of the given tile.
func (c *Camera) ScrollToTile(col, row int, duration float32, easeFn ease.TweenFunc) {
	ts := c.world.TileSize()
	c.ScrollTo(float64(col)*ts.Width+ts.Width/2, float64(row)*ts.Height+ts.Height/2, duration, easeFn)
}

// Update advances the camera by dt seconds and clamps it to the map.
func (c *Camera) Update(dt float64) {
	if c.follow != nil {
		c.track(c.follow.Center())
	}

	if dt > 0 {
		if c.scrollTween != nil {
			c.stepScroll(float32(dt))
		} else {
			// Models steer toward the nearest allowed point so an
			// out-of-map target is reached instead of chased.
			goal := c.clampPoint(c.target)
			switch c.model {
			case MotionLinear:
				c.stepLinear(dt, goal)
			case MotionSmooth:
				c.stepSmooth(dt, goal)
			case MotionInstant:
				c.pos = goal
			case MotionCurved:
				c.stepCurved(dt, goal)
			}
		}
		c.stepZoom(dt)
	}

	c.clampToBounds()

	if c.pending != nil && !c.Moving() {
		c.model = *c.pending
		c.pending = nil
		c.progress = 0
	}
}

func (c *Camera) stepLinear(dt float64, goal Vec2) {
	d := goal.Sub(c.pos)
	dist := d.Len()
	step := c.cfg.Speed * dt
	if dist <= step {
		c.pos = goal
		return
	}
	c.pos = c.pos.Add(d.Scale(step / dist))
}

func (c *Camera) stepSmooth(dt float64, goal Vec2) {
	f := math.Min(c.cfg.Lerp*dt, 1)
	c.pos = c.pos.Add(goal.Sub(c.pos).Scale(f))
	if c.pos.Dist(goal) < smoothEpsilon {
		c.pos = goal
	}
}

func (c *Camera) stepCurved(dt float64, goal Vec2) {
	if c.pos == goal {
		c.progress = 0
		return
	}
	if c.progress == 0 {
		c.curveFrom = c.pos
	}
	c.progress += c.cfg.CurveSpeed * dt
	if c.progress >= 1 {
		c.pos = goal
		c.progress = 0
		return
	}
	t := float64(c.cfg.CurveEase(float32(c.progress), 0, 1, 1))
	p0 := c.curveFrom
	p1 := p0.Add(c.cfg.CurveOffset1)
	p3 := goal
	p2 := p3.Add(c.cfg.CurveOffset2)
	c.pos = cubicBezier(p0, p1, p2, p3, t)
	if c.pos.Dist(goal) < curveThreshold {
		c.pos = goal
		c.progress = 0
	}
}

func cubicBezier(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	a := u * u * u
	b := 3 * u * u * t
	cc := 3 * u * t * t
	d := t * t * t
	return Vec2{
		X: a*p0.X + b*p1.X + cc*p2.X + d*p3.X,
		Y: a*p0.Y + b*p1.Y + cc*p2.Y + d*p3.Y,
	}
}

func (c *Camera) stepScroll(dt float32) {
	s := c.scrollTween
	if !s.doneX {
		val, done := s.tweenX.Update(dt)
		c.pos.X = float64(val)
		s.doneX = done
	}
	if !s.doneY {
		val, done := s.tweenY.Update(dt)
		c.pos.Y = float64(val)
		s.doneY = done
	}
	if s.doneX && s.doneY {
		c.pos = c.target
		c.scrollTween = nil
	}
}

func (c *Camera) stepZoom(dt float64) {
	diff := c.targetZoom - c.zoom
	if diff == 0 {
		return
	}
	switch c.model {
	case MotionInstant:
		c.zoom = c.targetZoom
	case MotionLinear:
		step := c.cfg.ZoomSpeed * dt
		if math.Abs(diff) <= step {
			c.zoom = c.targetZoom
		} else {
			c.zoom += math.Copysign(step, diff)
		}
	default:
		c.zoom += diff * math.Min(c.cfg.Lerp*dt, 1)
		if math.Abs(c.targetZoom-c.zoom) < zoomEpsilon {
			c.zoom = c.targetZoom
		}
	}
}

// clampToBounds restricts the position to
// [halfViewport/zoom, mapPixels - halfViewport/zoom] on each axis.
func (c *Camera) clampToBounds() {
	c.pos = c.clampPoint(c.pos)
}

// clampPoint clamps p to the range the view center may occupy. When the map
// is smaller than the view on an axis the point is centered on that axis.
func (c *Camera) clampPoint(p Vec2) Vec2 {
	ps := c.world.PixelSize()
	if ps.Width == 0 || ps.Height == 0 {
		return p
	}
	halfW := float64(c.viewport.Width()) / (2 * c.zoom)
	halfH := float64(c.viewport.Height()) / (2 * c.zoom)

	if halfW > ps.Width-halfW {
		p.X = ps.Width / 2
	} else {
		p.X = clamp(p.X, halfW, ps.Width-halfW)
	}
	if halfH > ps.Height-halfH {
		p.Y = ps.Height / 2
	} else {
		p.Y = clamp(p.Y, halfH, ps.Height-halfH)
	}
	return p
}

// ViewableTiles returns how many tile columns and rows fit in the viewport at
// the current zoom, rounded up.
func (c *Camera) ViewableTiles() Size {
	ts := c.world.TileSize()
	if ts.Width == 0 || ts.Height == 0 {
		return Size{}
	}
	return Size{
		Width:  math.Ceil(float64(c.viewport.Width()) / ts.Width / c.zoom),
		Height: math.Ceil(float64(c.viewport.Height()) / ts.Height / c.zoom),
	}
}

// Area returns the tile window visible through the viewport, centered on the
// camera, inflated by one tile on every side and clamped to the map.
func (c *Camera) Area() TileRect {
	ts := c.world.TileSize()
	if ts.Width == 0 || ts.Height == 0 {
		return TileRect{}
	}
	vt := c.ViewableTiles()
	cx := c.pos.X / ts.Width
	cy := c.pos.Y / ts.Height
	area := TileRect{
		X1: int(math.Floor(cx-vt.Width/2)) - 1,
		Y1: int(math.Floor(cy-vt.Height/2)) - 1,
		X2: int(math.Ceil(cx+vt.Width/2)) + 1,
		Y2: int(math.Ceil(cy+vt.Height/2)) + 1,
	}
	return area.Intersect(c.world.Bounds())
}

// ScaleFactor converts the zoom to a pixel multiplier.
func (c *Camera) ScaleFactor() float64 {
	return c.zoom / zoomUnit
}

// WorldToScreen converts world coordinates to viewport coordinates.
func (c *Camera) WorldToScreen(w Vec2) Vec2 {
	return w.Sub(c.pos).Scale(c.zoom).Add(c.viewport.Center())
}

// ScreenToWorld converts viewport coordinates to world coordinates.
func (c *Camera) ScreenToWorld(s Vec2) Vec2 {
	return s.Sub(c.viewport.Center()).Scale(1 / c.zoom).Add(c.pos)
}

// VisibleBounds returns the world-space rectangle seen through the viewport.
func (c *Camera) VisibleBounds() Rect {
	w := float64(c.viewport.Width()) / c.zoom
	h := float64(c.viewport.Height()) / c.zoom
	return Rect{X: c.pos.X - w/2, Y: c.pos.Y - h/2, Width: w, Height: h}
}

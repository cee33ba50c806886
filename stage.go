package tessera

import (
	"github.com/sirupsen/logrus"
)

// EventSink receives gameplay events raised by actors. Set one on a Stage to
// forward hits to an ECS or game logic.
type EventSink interface {
	EmitHit(event HitEvent)
}

// HitEvent reports that an attacker's hitbox overlapped a target's hurtbox
// during an Attack.
type HitEvent struct {
	Attacker     ActorID
	Target       ActorID
	AttackerName string
	TargetName   string
	// Point is the target's center at the moment of the hit, in world pixels.
	Point Vec2
}

// Stage is the top-level object that owns a map, the camera looking at it,
// the renderer drawing it and the actors living on it.
type Stage struct {
	world    *WorldMap
	viewport Viewport
	camera   *Camera
	renderer *Renderer

	actors   []*Actor
	byID     map[ActorID]*Actor
	dirty    bool // removed actors waiting to be compacted
	updating bool // inside the OnUpdate loop

	sink   EventSink
	script *Script
	debug  bool

	// ScreenshotDir is where queued screenshots are written. Defaults to
	// "screenshots".
	ScreenshotDir   string
	screenshotQueue []string
}

// NewStage creates a stage for world drawn on viewport, with a camera built
// from cfg.
func NewStage(world *WorldMap, viewport Viewport, cfg CameraConfig) *Stage {
	cam := NewCamera(world, viewport, cfg)
	return &Stage{
		world:         world,
		viewport:      viewport,
		camera:        cam,
		renderer:      NewRenderer(cam, world, viewport),
		byID:          make(map[ActorID]*Actor),
		ScreenshotDir: "screenshots",
	}
}

// World returns the stage's map.
func (s *Stage) World() *WorldMap { return s.world }

// Camera returns the stage's camera.
func (s *Stage) Camera() *Camera { return s.camera }

// Renderer returns the stage's renderer.
func (s *Stage) Renderer() *Renderer { return s.renderer }

// Viewport returns the surface the stage draws on.
func (s *Stage) Viewport() Viewport { return s.viewport }

// NewActor creates an actor bound to this stage and adds it.
func (s *Stage) NewActor(name string, pos Vec2, size Size) *Actor {
	a := NewActor(s, name, pos, size)
	s.AddActor(a)
	return a
}

// AddActor adds an actor to the stage. Adding a removed actor or one that is
// already present is a no-op.
func (s *Stage) AddActor(a *Actor) {
	if a == nil || a.removed {
		return
	}
	if _, ok := s.byID[a.ID]; ok {
		return
	}
	if a.stage == nil {
		a.stage = s
	}
	s.actors = append(s.actors, a)
	s.byID[a.ID] = a
}

// RemoveActor marks the actor removed and drops it from the stage. It stops
// colliding and drawing immediately.
func (s *Stage) RemoveActor(a *Actor) {
	if a == nil || a.removed {
		return
	}
	a.markRemoved()
	if _, ok := s.byID[a.ID]; ok {
		delete(s.byID, a.ID)
		s.dirty = true
	}
	if s.debug {
		log.WithFields(logrus.Fields{"actor": a.Name, "id": a.ID}).Debug("actor removed")
	}
}

// Actor returns the actor with the given ID, or nil.
func (s *Stage) Actor(id ActorID) *Actor {
	return s.byID[id]
}

// FindActor returns the first actor with the given name, or nil.
func (s *Stage) FindActor(name string) *Actor {
	for _, a := range s.actors {
		if !a.removed && a.Name == name {
			return a
		}
	}
	return nil
}

// Actors returns the stage's actors, including ones still loading. Called
// from an OnUpdate hook it may also hold actors removed this frame. The
// returned slice MUST NOT be mutated.
func (s *Stage) Actors() []*Actor {
	s.compact()
	return s.actors
}

func (s *Stage) compact() {
	if !s.dirty || s.updating {
		return
	}
	n := 0
	for _, a := range s.actors {
		if !a.removed {
			s.actors[n] = a
			n++
		}
	}
	clear(s.actors[n:])
	s.actors = s.actors[:n]
	s.dirty = false
}

// SetEventSink sets where hit events are sent. Pass nil to drop them.
func (s *Stage) SetEventSink(sink EventSink) {
	s.sink = sink
}

// SetScript attaches a script whose steps run one per frame from Update.
func (s *Stage) SetScript(script *Script) {
	s.script = script
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame render
// stats are logged, operations on removed actors are warned about, and the
// package logger is raised to debug level.
func (s *Stage) SetDebugMode(enabled bool) {
	s.debug = enabled
	s.renderer.SetDebug(enabled)
	if enabled && log.GetLevel() < logrus.DebugLevel {
		log.SetLevel(logrus.DebugLevel)
	}
}

// Update advances the stage by dt seconds: script, camera, then every ready
// actor's OnUpdate. Nothing moves until the map is ready.
func (s *Stage) Update(dt float64) {
	if !s.world.IsReady() {
		return
	}
	if s.script != nil {
		s.script.step(s)
	}
	s.camera.Update(dt)

	// Index loop: OnUpdate may add actors. Compaction waits until the loop
	// is done so removals cannot shift actors past the index.
	s.updating = true
	for i := 0; i < len(s.actors); i++ {
		a := s.actors[i]
		if a.OnUpdate != nil && a.live() {
			a.OnUpdate(a, dt)
		}
	}
	s.updating = false
	s.compact()
}

// Draw renders the visible tiles and then the actors over them.
func (s *Stage) Draw() {
	s.renderer.Render()
	s.renderer.RenderActors(s.Actors())
	s.renderer.debugLog()
}

// blocked reports whether r overlaps a map collider or the hurtbox of a live
// actor other than self.
func (s *Stage) blocked(self *Actor, r Rect) bool {
	for _, c := range s.world.Colliders() {
		if c.Active && Collides(r, c.Shape) {
			return true
		}
	}
	for _, o := range s.actors {
		if o == self || !o.live() {
			continue
		}
		if Collides(r, o.hurtbox.Shape) {
			return true
		}
	}
	return false
}

func (s *Stage) emitHit(ev HitEvent) {
	if s.debug {
		log.WithFields(logrus.Fields{
			"attacker": ev.AttackerName,
			"target":   ev.TargetName,
			"x":        ev.Point.X,
			"y":        ev.Point.Y,
		}).Debug("hit")
	}
	if s.sink != nil {
		s.sink.EmitHit(ev)
	}
}

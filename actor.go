package tessera

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/sirupsen/logrus"
)

// ActorState is an actor's discrete state. Transitions are made by the
// caller; the core only reads the state to choose how to draw the actor.
type ActorState uint8

const (
	StateIdle ActorState = iota
	StateWalking
	StateAttacking
	StateHurt
	StateDead
)

var stateNames = [...]string{"idle", "walking", "attacking", "hurt", "dead"}

func (s ActorState) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("ActorState(%d)", s)
}

// ParseActorState converts a state name to an ActorState.
func ParseActorState(name string) (ActorState, error) {
	for i, n := range stateNames {
		if n == name {
			return ActorState(i), nil
		}
	}
	return 0, fmt.Errorf("tessera: unknown actor state %q", name)
}

var stateColors = [...]Color{
	StateIdle:      {0.35, 0.55, 0.95, 1},
	StateWalking:   {0.30, 0.85, 0.45, 1},
	StateAttacking: {0.95, 0.75, 0.20, 1},
	StateHurt:      {0.95, 0.30, 0.30, 1},
	StateDead:      {0.35, 0.35, 0.35, 1},
}

// StateColor returns the fill color used for an actor without a sprite.
func StateColor(s ActorState) Color {
	if int(s) < len(stateColors) {
		return stateColors[s]
	}
	return ColorWhite
}

// actorIDCounter is not atomic; actors are created on the frame goroutine.
var actorIDCounter uint32

func nextActorID() ActorID {
	actorIDCounter++
	return ActorID(actorIDCounter)
}

// Actor is a movable entity with a hurtbox (where it can be damaged) and a
// hitbox (where it deals damage). An actor takes part in collision and
// drawing only while it is ready and not removed.
type Actor struct {
	ID   ActorID
	Name string

	// OnUpdate is called by the Stage every frame while the actor is ready
	// and not removed. Movement behaviours hook in here.
	OnUpdate func(a *Actor, dt float64)

	// UserData is free for game code.
	UserData any

	stage *Stage // non-owning; used for lookups and hit events

	pos   Vec2 // top-left, world pixels
	size  Size
	state ActorState
	reach float64

	hurtbox Collider
	hitbox  Collider
	sprite  image.Image

	ready   *readiness
	removed bool
}

// NewActor creates an actor at pos (top-left) with the given size. The actor
// is not ready: call MarkReady, or LoadSprite to become ready once its image
// has loaded.
func NewActor(stage *Stage, name string, pos Vec2, size Size) *Actor {
	a := &Actor{
		ID:    nextActorID(),
		Name:  name,
		stage: stage,
		pos:   pos,
		size:  size,
		ready: newReadiness(),
	}
	a.reach = defaultReach(size)
	a.updateBoxes()
	return a
}

func defaultReach(s Size) float64 {
	return math.Max(s.Width, s.Height) / 2
}

// MarkReady makes an actor without assets ready immediately.
func (a *Actor) MarkReady() {
	a.ready.resolve(nil)
}

// LoadSprite loads the actor's image in the background and marks the actor
// ready once it is available. A failed load is logged and the actor stays
// unready, so it never collides or draws.
func (a *Actor) LoadSprite(ctx context.Context, loader AssetLoader, path string) {
	go func() {
		img, err := loader.LoadImage(ctx, path)
		if err != nil {
			err = &LoadError{MapID: a.Name, Op: "sprite", Path: path, Err: err}
			log.WithFields(logrus.Fields{"actor": a.Name, "path": path}).WithError(err).Error("actor load failed")
			a.ready.resolve(err)
			return
		}
		a.sprite = img
		a.ready.resolve(nil)
	}()
}

// IsReady reports whether the actor's assets have resolved.
func (a *Actor) IsReady() bool { return a.ready.isReady() }

// Done returns a channel closed once the actor's loading has settled.
func (a *Actor) Done() <-chan struct{} { return a.ready.done }

// Wait blocks until loading settles and returns the load error, if any.
func (a *Actor) Wait(ctx context.Context) error { return a.ready.wait(ctx) }

// Err returns the terminal load error, or nil.
func (a *Actor) Err() error { return a.ready.failure() }

// Removed reports whether the actor was taken out of the simulation.
func (a *Actor) Removed() bool { return a.removed }

// Remove takes the actor out of the simulation. Removal is distinct from
// being unready: a removed actor may have loaded fine.
func (a *Actor) Remove() {
	if a.stage != nil {
		a.stage.RemoveActor(a)
		return
	}
	a.markRemoved()
}

func (a *Actor) markRemoved() {
	a.removed = true
	a.hurtbox.Active = false
	a.hitbox.Active = false
}

func (a *Actor) live() bool {
	return !a.removed && a.ready.isReady()
}

// Stage returns the stage the actor was created for, or nil.
func (a *Actor) Stage() *Stage { return a.stage }

// Sprite returns the actor's loaded image, or nil.
func (a *Actor) Sprite() image.Image {
	if !a.IsReady() {
		return nil
	}
	return a.sprite
}

// State returns the actor's current state.
func (a *Actor) State() ActorState { return a.state }

// SetState changes the actor's state.
func (a *Actor) SetState(s ActorState) {
	a.debugCheck("SetState")
	a.state = s
}

// Position returns the actor's top-left corner in world pixels.
func (a *Actor) Position() Vec2 { return a.pos }

// Size returns the actor's size in pixels.
func (a *Actor) Size() Size { return a.size }

// Bounds returns the actor's world rectangle.
func (a *Actor) Bounds() Rect {
	return Rect{X: a.pos.X, Y: a.pos.Y, Width: a.size.Width, Height: a.size.Height}
}

// Center returns the midpoint of the actor's bounds.
func (a *Actor) Center() Vec2 {
	return a.Bounds().Center()
}

// SetPosition moves the actor's top-left corner to (x, y).
func (a *Actor) SetPosition(x, y float64) {
	a.debugCheck("SetPosition")
	a.pos = Vec2{X: x, Y: y}
	a.updateBoxes()
}

// Move offsets the actor by (dx, dy) without collision checks.
func (a *Actor) Move(dx, dy float64) {
	a.SetPosition(a.pos.X+dx, a.pos.Y+dy)
}

// SetSize resizes the actor.
func (a *Actor) SetSize(w, h float64) {
	a.debugCheck("SetSize")
	a.size = Size{Width: w, Height: h}
	a.updateBoxes()
}

// Reach returns how far the hitbox extends beyond the actor's half-extent.
func (a *Actor) Reach() float64 { return a.reach }

// SetReach sets how far the hitbox extends beyond the actor's half-extent.
func (a *Actor) SetReach(r float64) {
	a.reach = math.Max(r, 0)
	a.updateBoxes()
}

// Hurtbox returns the collider through which the actor can be damaged.
func (a *Actor) Hurtbox() Collider { return a.hurtbox }

// Hitbox returns the collider with which the actor deals damage.
func (a *Actor) Hitbox() Collider { return a.hitbox }

// updateBoxes re-derives both colliders from position and size. Called on
// every geometry change so they are never stale.
func (a *Actor) updateBoxes() {
	b := a.Bounds()
	c := b.Center()
	a.hurtbox = Collider{Shape: b, Active: !a.removed, Owner: a.ID}
	a.hitbox = Collider{
		Shape:  Circle{X: c.X, Y: c.Y, Radius: math.Max(a.size.Width, a.size.Height)/2 + a.reach},
		Active: !a.removed,
		Owner:  a.ID,
	}
}

// CollidesWithActor reports whether the two actors' hurtboxes overlap. It is
// false whenever either actor is unready or removed.
func (a *Actor) CollidesWithActor(other *Actor) bool {
	if other == nil || other == a || !a.live() || !other.live() {
		return false
	}
	return a.hurtbox.Collides(other.hurtbox)
}

// CollidesWithCollider reports whether the actor's hurtbox overlaps c. A
// collider owned by an actor counts only while that actor is ready and not
// removed.
func (a *Actor) CollidesWithCollider(c Collider) bool {
	if !a.live() || c.Owner == a.ID {
		return false
	}
	if c.Owner != 0 && a.stage != nil {
		owner := a.stage.Actor(c.Owner)
		if owner == nil || !owner.live() {
			return false
		}
	}
	return a.hurtbox.Collides(c)
}

// HitBy reports whether attacker's hitbox overlaps this actor's hurtbox.
func (a *Actor) HitBy(attacker *Actor) bool {
	if attacker == nil || attacker == a || !a.live() || !attacker.live() {
		return false
	}
	return attacker.hitbox.Collides(a.hurtbox)
}

// Attack resolves an attack on target. On a hit the stage's event sink
// receives a HitEvent; applying damage is up to the sink.
func (a *Actor) Attack(target *Actor) bool {
	if target == nil || !target.HitBy(a) {
		return false
	}
	if a.stage != nil {
		a.stage.emitHit(HitEvent{
			Attacker:     a.ID,
			Target:       target.ID,
			AttackerName: a.Name,
			TargetName:   target.Name,
			Point:        target.Center(),
		})
	}
	return true
}

// TryMove moves the actor by (dx, dy) unless the new hurtbox would overlap a
// map collider or another actor's hurtbox. It reports whether the move
// happened.
func (a *Actor) TryMove(dx, dy float64) bool {
	if !a.live() {
		return false
	}
	next := a.Bounds()
	next.X += dx
	next.Y += dy
	if a.stage != nil && a.stage.blocked(a, next) {
		return false
	}
	a.SetPosition(next.X, next.Y)
	return true
}

func (a *Actor) debugCheck(op string) {
	if a.stage != nil && a.stage.debug {
		debugCheckRemoved(a, op)
	}
}

package tessera

// ActorID identifies an actor within a process. Zero means "no actor".
type ActorID uint32

// Collider is a piece of collision geometry. Colliders are either produced by
// the WorldMap (walls) or owned by an Actor (hurtbox and hitbox). Owner is a
// lookup key back to the owning actor, never an ownership relation.
type Collider struct {
	Shape  Shape
	Active bool
	Owner  ActorID
}

// Collides reports whether two active colliders overlap.
func (c Collider) Collides(other Collider) bool {
	if !c.Active || !other.Active || c.Shape == nil || other.Shape == nil {
		return false
	}
	return Collides(c.Shape, other.Shape)
}

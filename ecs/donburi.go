// Package ecs bridges tessera stages into Donburi worlds.
package ecs

import (
	"github.com/phanxgames/tessera"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// HitEventType is the Donburi event type for tessera hit events.
// Subscribe to this in your ECS systems to apply damage.
var HitEventType = events.NewEventType[tessera.HitEvent]()

// ActorRef links an entity to a tessera actor.
type ActorRef struct {
	ID   tessera.ActorID
	Name string
}

// ActorComponent holds the ActorRef of entities spawned by SpawnActor.
var ActorComponent = donburi.NewComponentType[ActorRef]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Hit events
// are published to HitEventType and can be consumed with events.Subscribe
// and ProcessEvents.
func NewDonburiSink(world donburi.World) tessera.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitHit(event tessera.HitEvent) {
	HitEventType.Publish(s.world, event)
}

// SpawnActor creates an entity carrying an ActorRef for a.
func SpawnActor(world donburi.World, a *tessera.Actor) donburi.Entity {
	e := world.Create(ActorComponent)
	donburi.SetValue(world.Entry(e), ActorComponent, ActorRef{ID: a.ID, Name: a.Name})
	return e
}

// FindActor returns the entry whose ActorRef points at id, or nil.
func FindActor(world donburi.World, id tessera.ActorID) *donburi.Entry {
	var found *donburi.Entry
	donburi.NewQuery(filter.Contains(ActorComponent)).Each(world, func(entry *donburi.Entry) {
		if found == nil && ActorComponent.Get(entry).ID == id {
			found = entry
		}
	})
	return found
}

// Package ecs provides ECS adapters for tessera's hit events.
//
// The primary adapter is [NewDonburiSink], which forwards every landed
// attack on a stage into a [Donburi] world as a typed event. Subscribe to
// [HitEventType] in your ECS systems to receive them, and use [SpawnActor]
// and [FindActor] to keep per-actor components next to the tessera actor.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	stage.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

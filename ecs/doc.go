// Package ecs provides ECS adapters for hologram's lifecycle events.
//
// The primary adapter is [NewDonburiSink], which bridges hologram scene
// events (image loaded, seeded, materialized, revealed, culled, color
// extracted) into a [Donburi] world as typed events. Subscribe to
// [SceneEventType] in your ECS systems to receive them.
//
// Usage:
//
//	sink := ecs.NewDonburiSink(world)
//	scene.SetEventSink(sink)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

// Package ecs provides ECS adapters for grove's action lifecycle events.
//
// The primary adapter is [NewDonburiStore], which bridges action events
// (started, finished, removed, failed) into a [Donburi] world as typed
// events. Subscribe to [ActionEventType] in your ECS systems to receive them.
//
// Usage:
//
//	store := ecs.NewDonburiStore(world)
//	director.SetEntityStore(store)
//
// [Donburi]: https://github.com/yohamta/donburi
package ecs

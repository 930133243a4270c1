package ecs

import (
	"github.com/phanxgames/grove"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// ActionEventType is the Donburi event type for grove action events.
// Subscribe to this in your ECS systems to react to actions starting,
// finishing or failing on entity-backed nodes.
var ActionEventType = events.NewEventType[grove.ActionEvent]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EntityStore backed by a Donburi world.
// Action events are published to ActionEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) grove.EntityStore {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event grove.ActionEvent) {
	ActionEventType.Publish(s.world, event)
}

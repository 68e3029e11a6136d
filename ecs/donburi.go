package ecs

import (
	"github.com/phanxgames/hologram"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
)

// SceneEventType is the Donburi event type for hologram scene events.
var SceneEventType = events.NewEventType[hologram.Event]()

type donburiSink struct {
	world donburi.World
}

// NewDonburiSink creates an EventSink backed by a Donburi world. Scene
// events are published to SceneEventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiSink(world donburi.World) hologram.EventSink {
	return &donburiSink{world: world}
}

func (s *donburiSink) EmitEvent(event hologram.Event) {
	SceneEventType.Publish(s.world, event)
}

package hologram

import "time"

// EventSink is the interface for optional ECS integration.
// When set on a Scene, lifecycle events are forwarded to it.
type EventSink interface {
	EmitEvent(event Event)
}

// EventType identifies a scene lifecycle event.
type EventType uint8

const (
	EventImageLoaded    EventType = iota // image decoded and ready to sample
	EventLoadFailed                      // decode or open failed; Err is set
	EventSeeded                          // field populated; Count is the particle count
	EventMaterialized                    // every particle has settled
	EventRevealed                        // the source image started fading in
	EventCulled                          // partial cull ran; Count is the number dropped
	EventColorExtracted                  // dominant color computed; Color is set
	EventMeltStarted                     // edge emission started
)

func (t EventType) String() string {
	switch t {
	case EventImageLoaded:
		return "image-loaded"
	case EventLoadFailed:
		return "load-failed"
	case EventSeeded:
		return "seeded"
	case EventMaterialized:
		return "materialized"
	case EventRevealed:
		return "revealed"
	case EventCulled:
		return "culled"
	case EventColorExtracted:
		return "color-extracted"
	case EventMeltStarted:
		return "melt-started"
	default:
		return "unknown"
	}
}

// Event carries lifecycle data for the ECS bridge.
type Event struct {
	Type EventType
	// Generation is the load generation the event belongs to.
	Generation uint64
	// At is the scene clock time the event was raised.
	At time.Duration
	// Count is a particle count for EventSeeded and EventCulled.
	Count int
	// Width and Height are the source image size for EventImageLoaded.
	Width, Height int
	// Color is "#rrggbb" for EventColorExtracted.
	Color string
	// Err is set for EventLoadFailed.
	Err error
}

// emit forwards e to the sink, if any.
func (s *Scene) emit(e Event) {
	if s.sink == nil {
		return
	}
	e.Generation = s.gen
	e.At = s.clock.now
	s.sink.EmitEvent(e)
}

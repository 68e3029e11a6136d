package hologram

import "github.com/hajimehoshi/ebiten/v2"

// syntheticPointerEvent represents a single injected pointer event in
// viewport coordinates. A leave event removes the pointer.
type syntheticPointerEvent struct {
	x, y  float64
	leave bool
}

// pointerState is the pointer as the field sees it.
type pointerState struct {
	pos     Vec2
	present bool
	// injected holds the pointer at the last injected position and masks
	// real input until an injected leave.
	injected bool
}

// InjectMove queues a pointer move to (x, y). The event is consumed on the
// next Update; the pointer stays there until InjectLeave.
func (s *Scene) InjectMove(x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{x: x, y: y})
}

// InjectLeave queues the pointer leaving the viewport.
func (s *Scene) InjectLeave() {
	s.injectQueue = append(s.injectQueue, syntheticPointerEvent{leave: true})
}

// InjectSweep queues a straight pointer path from (fromX, fromY) to (toX, toY)
// spread over frames frames, followed by a leave. Minimum frames is 2.
func (s *Scene) InjectSweep(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	for i := 0; i < frames-1; i++ {
		t := float64(i) / float64(frames-1)
		s.InjectMove(lerp(fromX, toX, t), lerp(fromY, toY, t))
	}
	s.InjectMove(toX, toY)
	s.InjectLeave()
}

// Pointer returns the pointer position and whether a pointer is present.
func (s *Scene) Pointer() (Vec2, bool) {
	return s.pointer.pos, s.pointer.present
}

// processInput pops at most one injected event, otherwise reads the real
// cursor or first touch when the scene is driven by Run.
func (s *Scene) processInput() {
	if len(s.injectQueue) > 0 {
		evt := s.injectQueue[0]
		copy(s.injectQueue, s.injectQueue[1:])
		s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]
		if evt.leave {
			s.pointer = pointerState{}
			return
		}
		s.pointer = pointerState{pos: Vec2{X: evt.x, Y: evt.y}, present: true, injected: true}
		return
	}
	if s.pointer.injected || !s.liveInput {
		return
	}

	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	if len(s.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(s.touchIDs[0])
		s.setRealPointer(float64(x), float64(y))
		return
	}
	x, y := ebiten.CursorPosition()
	s.setRealPointer(float64(x), float64(y))
}

// setRealPointer records a device position. Positions outside the viewport
// count as no pointer.
func (s *Scene) setRealPointer(x, y float64) {
	vp := Rect{Width: s.viewport.X, Height: s.viewport.Y}
	if vp.Empty() || !vp.Contains(x, y) {
		s.pointer = pointerState{}
		return
	}
	s.pointer = pointerState{pos: Vec2{X: x, Y: y}, present: true}
}

// fieldPointer returns the pointer to hand the field, or nil when pointer
// interaction is off or no pointer is present.
func (s *Scene) fieldPointer() *Vec2 {
	if !s.config.PointerEnabled || !s.pointer.present {
		return nil
	}
	return &s.pointer.pos
}

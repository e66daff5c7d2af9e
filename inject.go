package motion

// inputEvent is one queued pointer sample or touch event.
type inputEvent struct {
	pointer *PointerEvent
	touch   *TouchEvent
}

// InjectPress queues a pointer press at (x, y). Injected events are
// consumed one per tick, after any host input for that tick.
func (e *Engine) InjectPress(x, y float64) {
	e.injectQueue = append(e.injectQueue, inputEvent{pointer: &PointerEvent{Phase: PointerPress, X: x, Y: y}})
}

// InjectMove queues a pointer move to (x, y). Between InjectPress and
// InjectRelease it moves with the button held.
func (e *Engine) InjectMove(x, y float64) {
	e.injectQueue = append(e.injectQueue, inputEvent{pointer: &PointerEvent{Phase: PointerMove, X: x, Y: y}})
}

// InjectRelease queues a pointer release at (x, y).
func (e *Engine) InjectRelease(x, y float64) {
	e.injectQueue = append(e.injectQueue, inputEvent{pointer: &PointerEvent{Phase: PointerRelease, X: x, Y: y}})
}

// InjectTap is a convenience that queues a press followed by a release at
// the same point. Consumes two ticks.
func (e *Engine) InjectTap(x, y float64) {
	e.InjectPress(x, y)
	e.InjectRelease(x, y)
}

// InjectDrag queues a full drag: press at (fromX, fromY), frames-2
// linearly interpolated moves, and release at (toX, toY). The sequence
// consumes `frames` ticks. Minimum frames is 2 (press + release).
func (e *Engine) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	e.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		e.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	e.InjectRelease(toX, toY)
}

// InjectTouchStart queues fingers going down.
func (e *Engine) InjectTouchStart(touches ...TouchPoint) {
	e.injectTouch(TouchStart, touches)
}

// InjectTouchMove queues finger movement.
func (e *Engine) InjectTouchMove(touches ...TouchPoint) {
	e.injectTouch(TouchMove, touches)
}

// InjectTouchEnd queues fingers lifting.
func (e *Engine) InjectTouchEnd(touches ...TouchPoint) {
	e.injectTouch(TouchEnd, touches)
}

func (e *Engine) injectTouch(phase TouchPhase, touches []TouchPoint) {
	ev := TouchEvent{Phase: phase, Touches: append([]TouchPoint(nil), touches...)}
	e.injectQueue = append(e.injectQueue, inputEvent{touch: &ev})
}

// InjectPinch queues a two-finger pinch around (cx, cy): both fingers start
// fromDist apart on a horizontal line and move to toDist apart over
// frames-2 moves. The sequence consumes `frames` ticks.
func (e *Engine) InjectPinch(cx, cy, fromDist, toDist float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	at := func(d float64) []TouchPoint {
		return []TouchPoint{
			{ID: 1, X: cx - d/2, Y: cy, Pressure: 1},
			{ID: 2, X: cx + d/2, Y: cy, Pressure: 1},
		}
	}
	e.InjectTouchStart(at(fromDist)...)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps)
		e.InjectTouchMove(at(fromDist + (toDist-fromDist)*t)...)
	}
	e.InjectTouchEnd(at(toDist)...)
}

// processInjectedInput pops one event from the inject queue and feeds it
// through the same path as host input. Returns true if an event was
// consumed.
func (e *Engine) processInjectedInput() bool {
	if len(e.injectQueue) == 0 {
		return false
	}
	in := e.injectQueue[0]
	copy(e.injectQueue, e.injectQueue[1:])
	e.injectQueue[len(e.injectQueue)-1] = inputEvent{}
	e.injectQueue = e.injectQueue[:len(e.injectQueue)-1]
	if in.touch != nil {
		stamped := *in.touch
		stamped.Touches = append([]TouchPoint(nil), in.touch.Touches...)
		for i := range stamped.Touches {
			if stamped.Touches[i].Timestamp == 0 {
				stamped.Touches[i].Timestamp = e.clockMS
			}
		}
		in.touch = &stamped
	}
	e.processEvent(in)
	return true
}

// InjectQueueLen returns the number of injected events still waiting.
func (e *Engine) InjectQueueLen() int { return len(e.injectQueue) }

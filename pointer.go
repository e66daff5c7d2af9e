package motion

import "math"

// --- Constants ---

const defaultDragDeadZone = 4.0 // pixels

// PointerPhase says what a pointer sample reports.
type PointerPhase uint8

const (
	PointerMove PointerPhase = iota
	PointerPress
	PointerRelease
)

// PointerEvent is one mouse or primary-touch sample in viewport
// coordinates. TimeMS is the sample time; zero uses the engine clock.
type PointerEvent struct {
	Phase  PointerPhase
	X, Y   float64
	TimeMS float64
}

// --- Per-pointer state ---

type pointerState struct {
	down     bool
	startX   float64
	startY   float64
	lastX    float64
	lastY    float64
	hit      ElementID // element under the press, captured until release
	hover    ElementID // last element the pointer was over
	dragging bool
}

func (ps *pointerState) forget(id ElementID) {
	if ps.hit == id {
		ps.hit = 0
		ps.dragging = false
	}
	if ps.hover == id {
		ps.hover = 0
	}
}

// --- Handler registry ---

type eventHandler struct {
	id uint32
	fn func(Event)
}

type handlerRegistry struct {
	byEvent map[EventType][]eventHandler
	nextID  uint32
}

func (r *handlerRegistry) byType(t EventType) []eventHandler {
	return r.byEvent[t]
}

// CallbackHandle allows removing a registered engine-level callback.
type CallbackHandle struct {
	id    uint32
	reg   *handlerRegistry
	event EventType
}

// Remove unregisters this callback so it no longer fires.
func (h CallbackHandle) Remove() {
	if h.reg == nil {
		return
	}
	s := h.reg.byEvent[h.event]
	for i := range s {
		if s[i].id == h.id {
			copy(s[i:], s[i+1:])
			s[len(s)-1] = eventHandler{}
			h.reg.byEvent[h.event] = s[:len(s)-1]
			return
		}
	}
}

// On registers an engine-level callback for every event of type t. Engine
// callbacks run before the element's own callback.
func (e *Engine) On(t EventType, fn func(Event)) CallbackHandle {
	if e.handlers.byEvent == nil {
		e.handlers.byEvent = make(map[EventType][]eventHandler)
	}
	e.handlers.nextID++
	id := e.handlers.nextID
	e.handlers.byEvent[t] = append(e.handlers.byEvent[t], eventHandler{id: id, fn: fn})
	return CallbackHandle{id: id, reg: &e.handlers, event: t}
}

// SetDragDeadZone sets the minimum movement in pixels before a drag starts.
func (e *Engine) SetDragDeadZone(pixels float64) {
	e.cfg.DragDeadZone = pixels
}

// --- Input processing ---

// HandlePointer queues a pointer sample from the host. Samples are
// processed in order at the start of the next tick.
func (e *Engine) HandlePointer(ev PointerEvent) {
	e.input = append(e.input, inputEvent{pointer: &ev})
}

// HandleTouch queues a touch event from the host.
func (e *Engine) HandleTouch(ev TouchEvent) {
	e.input = append(e.input, inputEvent{touch: &ev})
}

// processInput drains host input, then pops one injected event.
func (e *Engine) processInput() {
	for _, in := range e.input {
		e.processEvent(in)
	}
	e.input = e.input[:0]
	e.processInjectedInput()
}

func (e *Engine) processEvent(in inputEvent) {
	switch {
	case in.pointer != nil:
		ev := *in.pointer
		if ev.TimeMS == 0 {
			ev.TimeMS = e.clockMS
		}
		e.processPointer(ev)
	case in.touch != nil:
		e.processTouch(*in.touch)
	}
}

// processPointer runs the pointer state machine for the single pointer.
func (e *Engine) processPointer(ev PointerEvent) {
	ps := &e.pointer
	x, y := ev.X, ev.Y

	// The pressed element keeps the pointer until release.
	target := ps.hit
	if !ps.down || target == 0 {
		target = e.HitTest(x, y)
	}

	if target != ps.hover {
		if el, ok := e.elements[ps.hover]; ok {
			el.setHovered(false)
			e.emit(el, Event{Type: EventHoverEnd, Element: el.id, X: x, Y: y})
		}
		if el, ok := e.elements[target]; ok {
			el.setHovered(true)
			e.emit(el, Event{Type: EventHoverStart, Element: el.id, X: x, Y: y})
		}
		ps.hover = target
	}

	pressed := ev.Phase == PointerPress || (ev.Phase == PointerMove && ps.down)
	switch {
	case pressed && !ps.down:
		ps.down = true
		ps.startX, ps.startY = x, y
		ps.lastX, ps.lastY = x, y
		ps.hit = target
		ps.dragging = false
		el, ok := e.elements[target]
		if ok {
			el.setPressed(true)
		}
		e.emit(el, Event{Type: EventPointerDown, Element: target, X: x, Y: y})

	case !pressed && ps.down:
		el, ok := e.elements[ps.hit]
		if ps.dragging {
			var vel Vec2
			if ok && el.drag != nil {
				vel = el.drag.End(ev.TimeMS)
			}
			if ok {
				el.setDragging(false)
			}
			e.emit(el, Event{Type: EventDragEnd, Element: ps.hit, X: x, Y: y,
				OffsetX: x - ps.startX, OffsetY: y - ps.startY, VelocityX: vel.X, VelocityY: vel.Y})
		} else if ok && ps.hit == target {
			e.emit(el, Event{Type: EventTap, Element: target, X: x, Y: y})
		}
		if ok {
			el.setPressed(false)
		}
		e.emit(el, Event{Type: EventPointerUp, Element: ps.hit, X: x, Y: y})
		ps.down = false
		ps.hit = 0
		ps.dragging = false

	case pressed && ps.down:
		if x == ps.lastX && y == ps.lastY {
			break
		}
		el, ok := e.elements[ps.hit]
		if !ps.dragging {
			dx := x - ps.startX
			dy := y - ps.startY
			if math.Sqrt(dx*dx+dy*dy) > e.cfg.DragDeadZone {
				ps.dragging = true
				if ok {
					if el.drag != nil {
						el.drag.Start(Vec2{X: ps.startX, Y: ps.startY}, el.dragOffset(), ev.TimeMS)
					}
					el.setDragging(true)
				}
				e.emit(el, Event{Type: EventDragStart, Element: ps.hit, X: x, Y: y,
					OffsetX: dx, OffsetY: dy})
			}
		}
		if ps.dragging {
			var vel Vec2
			if ok && el.drag != nil {
				el.setDragOffset(el.drag.Move(Vec2{X: x, Y: y}, ev.TimeMS))
				vel = el.drag.Velocity()
			}
			e.emit(el, Event{Type: EventDrag, Element: ps.hit, X: x, Y: y,
				OffsetX: x - ps.startX, OffsetY: y - ps.startY, VelocityX: vel.X, VelocityY: vel.Y})
		}
		ps.lastX, ps.lastY = x, y

	default:
		ps.lastX, ps.lastY = x, y
	}
}

// processTouch routes a touch event to the recognizer of the element under
// the first finger, or to the engine-wide recognizer.
func (e *Engine) processTouch(ev TouchEvent) {
	if len(e.touchIDs) == 0 && ev.Phase == TouchStart && len(ev.Touches) > 0 {
		e.touchTarget = e.HitTest(ev.Touches[0].X, ev.Touches[0].Y)
	}
	rec := e.touch
	if el, ok := e.elements[e.touchTarget]; ok && el.touch != nil {
		rec = el.touch
	}
	if _, err := rec.Handle(ev); err != nil {
		e.stats.gestureFaults++
		e.warn("gesture reset: %v", err)
		clear(e.touchIDs)
		e.touchTarget = 0
		return
	}
	for _, t := range ev.Touches {
		switch ev.Phase {
		case TouchStart:
			e.touchIDs[t.ID] = true
		case TouchEnd:
			delete(e.touchIDs, t.ID)
		}
	}
	if len(e.touchIDs) == 0 {
		e.touchTarget = 0
	}
}

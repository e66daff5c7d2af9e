package motion

// ElementID is an opaque handle to an animated element. The host resolves
// handles to its own nodes at write-back time; the engine never holds a
// pointer back into the host.
type ElementID uint32

// Vec2 is a 2D vector used for positions, offsets, velocities and origins.
type Vec2 struct {
	X, Y float64
}

// Bounds is an axis-aligned rectangle in host viewport coordinates. The
// origin is the top-left, with Y increasing downward.
type Bounds struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x <= b.X+b.Width &&
		y >= b.Y && y <= b.Y+b.Height
}

// Intersects reports whether b and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (b Bounds) Intersects(other Bounds) bool {
	return b.X <= other.X+other.Width &&
		b.X+b.Width >= other.X &&
		b.Y <= other.Y+other.Height &&
		b.Y+b.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (b Bounds) Center() Vec2 {
	return Vec2{X: b.X + b.Width/2, Y: b.Y + b.Height/2}
}

// EventType identifies a kind of engine event.
type EventType uint8

const (
	EventPointerDown       EventType = iota // pointer pressed over an element
	EventPointerUp                          // pointer released
	EventHoverStart                         // pointer entered an element's bounds
	EventHoverEnd                           // pointer left an element's bounds
	EventTap                                // press then release without dragging
	EventDragStart                          // movement exceeded the drag dead zone
	EventDrag                               // fires each move while dragging
	EventDragEnd                            // pointer released after dragging
	EventPinch                              // multi-touch scale changed
	EventRotation                           // multi-touch rotation changed
	EventGesture                            // multi-touch gesture recognized or updated
	EventGestureEnd                         // multi-touch gesture finished
	EventAnimationComplete                  // an element's latest run finished
	EventTimelineComplete                   // a timeline player stopped at its end
	EventSafeToUnmount                      // an exiting presence child may be removed
)

var eventTypeNames = [...]string{
	EventPointerDown:       "pointerDown",
	EventPointerUp:         "pointerUp",
	EventHoverStart:        "hoverStart",
	EventHoverEnd:          "hoverEnd",
	EventTap:               "tap",
	EventDragStart:         "dragStart",
	EventDrag:              "drag",
	EventDragEnd:           "dragEnd",
	EventPinch:             "pinch",
	EventRotation:          "rotation",
	EventGesture:           "gesture",
	EventGestureEnd:        "gestureEnd",
	EventAnimationComplete: "animationComplete",
	EventTimelineComplete:  "timelineComplete",
	EventSafeToUnmount:     "safeToUnmount",
}

// String returns the event's name.
func (t EventType) String() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return "event"
}

// EventSink is the interface for optional event forwarding (for example to
// an ECS). When set on an Engine, every event is forwarded after the
// element's own callbacks.
type EventSink interface {
	EmitEvent(event Event)
}

// Event carries engine event data for an EventSink.
type Event struct {
	Type    EventType
	Element ElementID
	Key     string // presence key or timeline player id
	X, Y    float64
	// Drag fields (valid for EventDragStart, EventDrag, EventDragEnd)
	OffsetX, OffsetY     float64
	VelocityX, VelocityY float64
	// Multi-touch fields (valid for EventPinch, EventRotation, EventGesture)
	Scale      float64
	Rotation   float64
	Gesture    MultiTouchGestureType
	Confidence float64
}

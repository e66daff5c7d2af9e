package motion

import (
	"errors"
	"testing"
)

// --- Bounds.Contains ---

func TestBoundsContains(t *testing.T) {
	b := Bounds{10, 20, 100, 50}
	tests := []struct {
		name   string
		x, y   float64
		expect bool
	}{
		{"inside", 50, 40, true},
		{"top-left corner", 10, 20, true},
		{"bottom-right corner", 110, 70, true},
		{"left edge", 10, 40, true},
		{"right edge", 110, 40, true},
		{"outside left", 9, 40, false},
		{"outside right", 111, 40, false},
		{"outside above", 50, 19, false},
		{"outside below", 50, 71, false},
		{"far outside", 999, 999, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := b.Contains(tt.x, tt.y)
			if got != tt.expect {
				t.Errorf("Bounds%v.Contains(%v, %v) = %v, want %v", b, tt.x, tt.y, got, tt.expect)
			}
		})
	}
}

// --- Bounds.Intersects ---

func TestBoundsIntersects(t *testing.T) {
	base := Bounds{10, 10, 100, 100}
	tests := []struct {
		name   string
		other  Bounds
		expect bool
	}{
		{"overlapping", Bounds{50, 50, 100, 100}, true},
		{"fully contained", Bounds{20, 20, 10, 10}, true},
		{"containing", Bounds{0, 0, 200, 200}, true},
		{"adjacent right", Bounds{110, 10, 50, 50}, true},
		{"adjacent bottom", Bounds{10, 110, 50, 50}, true},
		{"disjoint right", Bounds{111, 10, 50, 50}, false},
		{"disjoint above", Bounds{10, -100, 50, 50}, false},
		{"same box", Bounds{10, 10, 100, 100}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := base.Intersects(tt.other)
			if got != tt.expect {
				t.Errorf("Bounds%v.Intersects(Bounds%v) = %v, want %v", base, tt.other, got, tt.expect)
			}
		})
	}
}

func TestBoundsCenter(t *testing.T) {
	c := Bounds{X: 10, Y: 20, Width: 100, Height: 50}.Center()
	if c.X != 60 || c.Y != 45 {
		t.Errorf("Center = %+v, want (60, 45)", c)
	}
}

// --- EventType.String ---

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventPointerDown, "pointerDown"},
		{EventTap, "tap"},
		{EventPinch, "pinch"},
		{EventSafeToUnmount, "safeToUnmount"},
		{EventType(200), "event"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

// --- Errors ---

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		msg      string
	}{
		{"property", invalidProperty(""), ErrInvalidProperty, "motion: invalid property: property name must be non-empty"},
		{"value", invalidValue("x", "bad %d", 3), ErrInvalidValue, `motion: invalid value "x": bad 3`},
		{"variant", unknownVariant("open"), ErrUnknownVariant, `motion: unknown variant "open"`},
		{"transition", invalidTransition("negative"), ErrInvalidTransitionConfig, "motion: invalid transition config: negative"},
		{"capacity", ErrGestureCapacityExceeded, ErrGestureCapacityExceeded, "motion: gesture capacity exceeded"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.sentinel)
			}
			if tt.err.Error() != tt.msg {
				t.Errorf("Error() = %q, want %q", tt.err.Error(), tt.msg)
			}
		})
	}
	if errors.Is(unknownVariant("a"), ErrInvalidValue) {
		t.Error("unknown variant matched invalid value")
	}
}

package motion

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

// captureStderr runs fn with os.Stderr redirected and returns what it wrote.
func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	oldStderr := os.Stderr
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	os.Stderr = w
	defer func() { os.Stderr = oldStderr }()

	fn()

	w.Close()
	var buf bytes.Buffer
	buf.ReadFrom(r)
	return buf.String()
}

// ---- Debug mode tests ------------------------------------------------------

func TestDebugMode_ElementCountWarning(t *testing.T) {
	output := captureStderr(t, func() {
		debugCheckElementCount(debugMaxElements + 1)
	})
	if !strings.Contains(output, "[motion] warning:") || !strings.Contains(output, "elements mounted") {
		t.Errorf("expected element count warning in stderr, got: %q", output)
	}

	output = captureStderr(t, func() {
		debugCheckElementCount(debugMaxElements)
	})
	if output != "" {
		t.Errorf("expected no warning at the threshold, got: %q", output)
	}
}

func TestDebugMode_TickLog(t *testing.T) {
	e := NewEngine(EngineConfig{})
	e.SetDebugMode(true)
	mustMount(t, e, ElementConfig{
		Animate:    Target{"x": Pixels(10)},
		Transition: Tween(0.1, Linear),
	})

	output := captureStderr(t, func() {
		tickN(t, e, 1, 0.05)
	})
	if !strings.Contains(output, "[motion] tick 1") {
		t.Errorf("expected tick timing line, got: %q", output)
	}
	if !strings.Contains(output, "elements: 1 | animating: 1 | animators: 1 | frames: 1") {
		t.Errorf("expected element stats line, got: %q", output)
	}
}

func TestReleaseMode_Silent(t *testing.T) {
	e := NewEngine(EngineConfig{})
	mustMount(t, e, ElementConfig{Animate: Target{"x": Pixels(10)}})
	output := captureStderr(t, func() {
		tickN(t, e, 2, 0.05)
		e.warn("should not print %d", 1)
	})
	if output != "" {
		t.Errorf("release mode should not write to stderr, got: %q", output)
	}
}

func TestDebugMode_GestureFaultWarning(t *testing.T) {
	e := NewEngine(EngineConfig{Gesture: GestureConfig{MultiTouch: true, MaxTouches: 2}})
	e.SetDebugMode(true)
	e.HandleTouch(TouchEvent{Phase: TouchStart, Touches: []TouchPoint{
		{ID: 1, X: 0, Y: 0}, {ID: 2, X: 10, Y: 0}, {ID: 3, X: 20, Y: 0},
	}})
	output := captureStderr(t, func() {
		tickN(t, e, 1, 0.016)
	})
	if !strings.Contains(output, "warning: gesture reset") {
		t.Errorf("expected gesture reset warning, got: %q", output)
	}
	if e.Stats().GestureFaults != 1 {
		t.Errorf("GestureFaults = %d, want 1", e.Stats().GestureFaults)
	}
}

func TestStats(t *testing.T) {
	e := NewEngine(EngineConfig{})
	log := &eventLog{}
	e.SetEventSink(log)
	mustMount(t, e, ElementConfig{
		Bounds:     Bounds{Width: 10, Height: 10},
		Animate:    Target{"opacity": Number(0.5)},
		Transition: Tween(0.05, Linear),
	})
	mustMount(t, e, ElementConfig{})
	e.HandlePointer(PointerEvent{Phase: PointerMove, X: 5, Y: 5})
	tickN(t, e, 1, 0.05)

	st := e.Stats()
	if st.Frame != 1 || st.Elements != 2 || st.Frames != 1 {
		t.Errorf("Stats = %+v", st)
	}
	// hoverStart plus the completed run.
	if st.Events != 2 || len(log.events) != 2 {
		t.Errorf("Events = %d, sink saw %d, want 2", st.Events, len(log.events))
	}
}

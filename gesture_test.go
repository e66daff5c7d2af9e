package motion

import (
	"errors"
	"math"
	"testing"
)

func touchEv(phase TouchPhase, pts ...TouchPoint) TouchEvent {
	return TouchEvent{Phase: phase, Touches: pts}
}

func tp(id uint64, x, y, ms float64) TouchPoint {
	return TouchPoint{ID: id, X: x, Y: y, Pressure: 1, Timestamp: ms}
}

func TestPinchDetection(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	var pinched []float64
	r.OnPinch = func(scale float64) { pinched = append(pinched, scale) }

	if _, err := r.Handle(touchEv(TouchStart, tp(1, 100, 100, 0), tp(2, 200, 200, 0))); err != nil {
		t.Fatal(err)
	}
	if !r.Active() {
		t.Fatal("two fingers should activate the recognizer")
	}
	res, err := r.Handle(touchEv(TouchMove, tp(1, 50, 50, 16), tp(2, 250, 250, 16)))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Recognized || res.Type != GesturePinch {
		t.Fatalf("result = %+v, want recognized pinch", res)
	}
	if res.Scale <= 1 || !approxEqual(res.Scale, 2, 1e-9) {
		t.Errorf("scale = %v, want 2", res.Scale)
	}
	if res.Confidence < 0.3 || r.Confidence() != res.Confidence {
		t.Errorf("confidence = %v", res.Confidence)
	}
	if len(pinched) != 1 || !approxEqual(pinched[0], 2, 1e-9) {
		t.Errorf("OnPinch calls = %v", pinched)
	}
	if res.Center != (Vec2{150, 150}) {
		t.Errorf("center = %+v", res.Center)
	}
}

func TestRotationDetection(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	var angle float64
	r.OnRotation = func(a float64) { angle = a }
	r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 100, 0, 0)))
	res, _ := r.Handle(touchEv(TouchMove, tp(2, 0, 100, 16)))
	if res.Type != GestureRotation || !res.Recognized {
		t.Fatalf("result = %+v", res)
	}
	if !approxEqual(angle, math.Pi/2, 1e-9) || !approxEqual(res.Rotation, math.Pi/2, 1e-9) {
		t.Errorf("rotation = %v", angle)
	}
	if res.Confidence <= 0.6 {
		t.Errorf("steady-distance rotation confidence = %v", res.Confidence)
	}
}

func TestPinchAndRotate(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	pinch, rot := 0, 0
	r.OnPinch = func(float64) { pinch++ }
	r.OnRotation = func(float64) { rot++ }
	r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 100, 0, 0)))
	res, _ := r.Handle(touchEv(TouchMove, tp(2, 0, 200, 16)))
	if res.Type != GesturePinchAndRotate || pinch != 1 || rot != 1 {
		t.Errorf("type = %v, pinch = %d, rot = %d", res.Type, pinch, rot)
	}
}

func TestMultiTapAndSwipe(t *testing.T) {
	t.Run("tap", func(t *testing.T) {
		r := NewMultiTouchRecognizer(DefaultGestureConfig())
		r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 100, 0, 0)))
		res, _ := r.Handle(touchEv(TouchMove, tp(2, 100, 0, 50)))
		if res.Type != GestureMultiTap || !res.Recognized {
			t.Errorf("result = %+v", res)
		}
	})
	t.Run("swipe", func(t *testing.T) {
		r := NewMultiTouchRecognizer(DefaultGestureConfig())
		r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 100, 0, 0)))
		res, _ := r.Handle(touchEv(TouchMove, tp(1, 50, 0, 100), tp(2, 150, 0, 100)))
		if res.Type != GestureMultiSwipe || !res.Recognized {
			t.Errorf("result = %+v", res)
		}
	})
}

func TestGestureCapacityExceeded(t *testing.T) {
	cfg := DefaultGestureConfig()
	cfg.MaxTouches = 2
	r := NewMultiTouchRecognizer(cfg)
	r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 10, 0, 0)))
	res, err := r.Handle(touchEv(TouchStart, tp(3, 20, 0, 0)))
	if !errors.Is(err, ErrGestureCapacityExceeded) {
		t.Fatalf("err = %v", err)
	}
	if res.Recognized || r.Active() || len(r.State().Touches) != 0 {
		t.Errorf("recognizer should reset, got %+v", r.State())
	}
}

func TestGestureDroppedEndResets(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 10, 0, 0)))
	res, err := r.Handle(touchEv(TouchStart, tp(1, 5, 5, 10)))
	if err != nil || res.Recognized || r.Active() {
		t.Errorf("duplicate start: res %+v err %v active %v", res, err, r.Active())
	}
}

func TestGestureTimeout(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 10, 0, 0)))
	r.Advance(0.2)
	if !r.Active() {
		t.Fatal("reset before the timeout")
	}
	r.Advance(0.2)
	if r.Active() {
		t.Error("idle gesture should time out")
	}
	if len(r.State().Touches) != 2 {
		t.Error("fingers that are still down stay tracked")
	}
}

func TestGestureEnd(t *testing.T) {
	r := NewMultiTouchRecognizer(DefaultGestureConfig())
	var ended []GestureResult
	r.OnGestureEnd = func(res GestureResult) { ended = append(ended, res) }
	r.Handle(touchEv(TouchStart, tp(1, 100, 100, 0), tp(2, 200, 200, 0), tp(3, 150, 0, 0)))
	r.Handle(touchEv(TouchEnd, tp(3, 150, 0, 10)))
	if !r.Active() || len(ended) != 0 {
		t.Fatal("two remaining fingers keep the gesture alive")
	}
	r.Handle(touchEv(TouchMove, tp(1, 50, 50, 20), tp(2, 250, 250, 20)))
	res, _ := r.Handle(touchEv(TouchEnd, tp(2, 250, 250, 30)))
	if !res.Completed || res.Type != GesturePinch || len(ended) != 1 {
		t.Errorf("end result = %+v, ended = %d", res, len(ended))
	}
	if r.Active() || len(r.State().Touches) != 1 {
		t.Errorf("state after end = %+v", r.State())
	}
}

func TestGestureDisabled(t *testing.T) {
	cfg := DefaultGestureConfig()
	cfg.MultiTouch = false
	r := NewMultiTouchRecognizer(cfg)
	res, err := r.Handle(touchEv(TouchStart, tp(1, 0, 0, 0), tp(2, 10, 0, 0)))
	if err != nil || res.Recognized || r.Active() {
		t.Error("disabled recognizer should ignore touches")
	}

	cfg = DefaultGestureConfig()
	cfg.PinchToZoom = false
	r = NewMultiTouchRecognizer(cfg)
	r.Handle(touchEv(TouchStart, tp(1, 100, 100, 0), tp(2, 200, 200, 0)))
	if res, _ := r.Handle(touchEv(TouchMove, tp(1, 50, 50, 16), tp(2, 250, 250, 16))); res.Type == GesturePinch {
		t.Error("pinch recognized with PinchToZoom off")
	}
}

func TestGestureSensitivity(t *testing.T) {
	cfg := DefaultGestureConfig()
	if got := cfg.scaleThreshold(); !approxEqual(got, 0.01, 1e-12) {
		t.Errorf("default scale threshold = %v", got)
	}
	cfg.Sensitivity = 1
	if got := cfg.angleThreshold(); !approxEqual(got, 0.05, 1e-12) {
		t.Errorf("max sensitivity angle threshold = %v", got)
	}
	cfg.Sensitivity = 0
	if got := cfg.sensitivityScale(); got != 1 {
		t.Errorf("zero sensitivity falls back to default, got %v", got)
	}
}

func TestNormalizeAngle(t *testing.T) {
	tests := []struct{ in, want float64 }{
		{0, 0},
		{math.Pi, math.Pi},
		{-math.Pi, math.Pi},
		{3 * math.Pi / 2, -math.Pi / 2},
		{-5 * math.Pi / 2, -math.Pi / 2},
	}
	for _, tt := range tests {
		if got := normalizeAngle(tt.in); !approxEqual(got, tt.want, 1e-9) {
			t.Errorf("normalizeAngle(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestGestureTypeString(t *testing.T) {
	if GesturePinchAndRotate.String() != "pinchAndRotate" || MultiTouchGestureType(50).String() != "gesture" {
		t.Error("gesture names")
	}
}

package motion

import (
	"errors"
	"math"
	"testing"
)

func TestFlipBox(t *testing.T) {
	f, err := NewFlip(Bounds{0, 0, 100, 100}, Bounds{200, 150, 100, 100}, 0.3, Linear)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		p      float64
		tx, ty float64
	}{
		{0, -200, -150},
		{0.5, -100, -75},
		{1, 0, 0},
	}
	for _, tt := range tests {
		got := f.At(tt.p)
		if !approxEqual(got.TranslateX, tt.tx, 1e-9) || !approxEqual(got.TranslateY, tt.ty, 1e-9) {
			t.Errorf("At(%v) translate = (%v, %v), want (%v, %v)", tt.p, got.TranslateX, got.TranslateY, tt.tx, tt.ty)
		}
		if got.ScaleX != 1 || got.ScaleY != 1 {
			t.Errorf("At(%v) scale = (%v, %v)", tt.p, got.ScaleX, got.ScaleY)
		}
	}
	if !f.At(1).IsIdentity() {
		t.Error("At(1) must be identity")
	}
}

func TestFlipResize(t *testing.T) {
	f, _ := NewFlip(Bounds{0, 0, 50, 200}, Bounds{0, 0, 100, 100}, 1, Linear)
	start := f.At(0)
	if start.ScaleX != 0.5 || start.ScaleY != 2 {
		t.Errorf("start scale = (%v, %v)", start.ScaleX, start.ScaleY)
	}
	vb := start.VisualBounds(f.Final, Vec2{})
	if vb != f.Initial {
		t.Errorf("inverse does not land on the initial box: %+v", vb)
	}
	f.RotationChange = 90
	if r := f.At(0.5).RotateZ; r != -45 {
		t.Errorf("rotation = %v", r)
	}
}

func TestFlipZeroSizeFinal(t *testing.T) {
	f, _ := NewFlip(Bounds{0, 0, 10, 10}, Bounds{0, 0, 0, 0}, 1, Linear)
	if s := f.At(0); s.ScaleX != 1 || s.ScaleY != 1 {
		t.Errorf("zero-size final scale = (%v, %v)", s.ScaleX, s.ScaleY)
	}
}

func TestFlipPlayback(t *testing.T) {
	f, _ := NewFlip(Bounds{0, 0, 10, 10}, Bounds{100, 0, 10, 10}, 0.3, Linear)
	if _, done := f.Step(0.1); done || f.Progress() != 0 {
		t.Error("a ready flip must not advance")
	}
	f.Play()
	tr, _ := f.Step(0.15)
	if !approxEqual(f.Progress(), 0.5, 1e-6) || !approxEqual(tr.TranslateX, -50, 1e-4) {
		t.Errorf("half way: progress %v, x %v", f.Progress(), tr.TranslateX)
	}
	f.Pause()
	f.Step(0.1)
	if !approxEqual(f.Progress(), 0.5, 1e-6) || f.State() != FlipPaused {
		t.Error("paused flip advanced")
	}
	f.Play()
	done := false
	for i := 0; i < 10 && !done; i++ {
		tr, done = f.Step(0.05)
	}
	if !done || !tr.IsIdentity() || f.State() != FlipCompleted || f.Progress() != 1 {
		t.Errorf("final: done %v state %v transform %+v", done, f.State(), tr)
	}
	if vb := f.VisualBounds(); vb != f.Final {
		t.Errorf("VisualBounds = %+v", vb)
	}
}

func TestFlipSeekAndCancel(t *testing.T) {
	f, _ := NewFlip(Bounds{0, 0, 10, 10}, Bounds{0, 100, 10, 10}, 1, Linear)
	f.Play()
	f.Seek(0.75)
	if !approxEqual(f.Current().TranslateY, -25, 1e-9) {
		t.Errorf("seek 0.75 y = %v", f.Current().TranslateY)
	}
	f.Seek(4)
	if f.Progress() != 1 {
		t.Errorf("seek clamps, got %v", f.Progress())
	}
	f.Cancel()
	if tr, done := f.Step(0.1); !done || !tr.IsIdentity() {
		t.Error("cancel should jump to identity")
	}
}

func TestFlipZeroDuration(t *testing.T) {
	f, _ := NewFlip(Bounds{0, 0, 10, 10}, Bounds{5, 5, 10, 10}, 0, Linear)
	f.Play()
	if tr, done := f.Step(1.0 / 60); !done || !tr.IsIdentity() {
		t.Error("zero duration flip should finish on its first step")
	}
}

func TestNewFlipErrors(t *testing.T) {
	if _, err := NewFlip(Bounds{X: math.NaN()}, Bounds{}, 1, Linear); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("NaN bounds err = %v", err)
	}
	if _, err := NewFlip(Bounds{}, Bounds{}, -1, Linear); !errors.Is(err, ErrInvalidTransitionConfig) {
		t.Errorf("negative duration err = %v", err)
	}
	if _, err := NewFlip(Bounds{}, Bounds{}, 1, SpringEasing(SpringConfig{})); !errors.Is(err, ErrInvalidTransitionConfig) {
		t.Errorf("bad easing err = %v", err)
	}
}

func TestFlipGroupStagger(t *testing.T) {
	g := NewFlipGroup(0.1)
	for i := 0; i < 3; i++ {
		f, _ := NewFlip(Bounds{0, 0, 10, 10}, Bounds{100, 0, 10, 10}, 0.2, Linear)
		g.Add(ElementID(i+1), f)
	}
	if g.Len() != 3 {
		t.Fatalf("Len = %d", g.Len())
	}
	g.Play()
	xs := make(map[ElementID]float64)
	g.Step(0.1, func(id ElementID, tr Transform3D) { xs[id] = tr.TranslateX })
	if !approxEqual(xs[1], -50, 1e-4) || xs[2] != -100 || xs[3] != -100 {
		t.Errorf("after 0.1s xs = %v", xs)
	}
	done := false
	for i := 0; i < 20 && !done; i++ {
		done = g.Step(0.05, nil)
	}
	if !done {
		t.Error("group never completed")
	}
}

// --- LayoutTracker ---

func TestLayoutTracker(t *testing.T) {
	l := NewLayoutTracker(LayoutConfig{Duration: 0.2, Easing: Linear, Threshold: 0.5})
	if _, started := l.Measure(1, Bounds{0, 0, 100, 100}); started {
		t.Error("first measure has nothing to animate from")
	}
	if _, started := l.Measure(1, Bounds{0.2, 0, 100, 100}); started {
		t.Error("sub-threshold change should be ignored")
	}
	f, started := l.Measure(1, Bounds{100, 0, 100, 100})
	if !started || f.State() != FlipRunning {
		t.Fatal("expected a running flip")
	}
	if !approxEqual(f.Initial.X, 0.2, 1e-12) {
		t.Errorf("flip starts from %+v", f.Initial)
	}

	applied := map[ElementID]Transform3D{}
	l.Step(0.1, func(id ElementID, tr Transform3D) { applied[id] = tr })
	mid := applied[1].TranslateX

	// Interrupting starts from where the element appears.
	f2, _ := l.Measure(1, Bounds{200, 0, 100, 100})
	if !approxEqual(f2.Initial.X, 100+mid, 1e-4) {
		t.Errorf("interrupted flip starts at %v, want %v", f2.Initial.X, 100+mid)
	}
	for i := 0; i < 10; i++ {
		l.Step(0.05, func(id ElementID, tr Transform3D) { applied[id] = tr })
	}
	if _, ok := l.Active(1); ok {
		t.Error("finished flip still active")
	}
	if !applied[1].IsIdentity() {
		t.Errorf("last applied transform = %+v", applied[1])
	}
	if b, ok := l.Bounds(1); !ok || b.X != 200 {
		t.Errorf("Bounds = %+v", b)
	}
	l.Forget(1)
	if _, ok := l.Bounds(1); ok {
		t.Error("Forget kept bounds")
	}
}

func TestDefaultLayoutConfig(t *testing.T) {
	c := DefaultLayoutConfig()
	if c.Duration != 0.3 || c.Easing.Kind != EaseInOut || c.Threshold != 0.5 {
		t.Errorf("DefaultLayoutConfig = %+v", c)
	}
}

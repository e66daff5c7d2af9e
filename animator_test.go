package motion

import (
	"errors"
	"math"
	"testing"
)

func mustAnimation(t *testing.T, start, target Value, tr Transition) *PropertyAnimation {
	t.Helper()
	a, err := NewPropertyAnimation("x", start, target, tr)
	if err != nil {
		t.Fatalf("NewPropertyAnimation: %v", err)
	}
	return a
}

func TestPropertyAnimationTween(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear))
	var updates, completes int
	a.OnUpdate = func(Value) { updates++ }
	a.OnComplete = func(cancelled bool) {
		completes++
		if cancelled {
			t.Error("natural completion reported as cancelled")
		}
	}

	for i, want := range []float64{25, 50, 75, 100} {
		v, done := a.Step(0.25)
		if !approxEqual(v.Scalar, want, 1e-9) {
			t.Errorf("step %d = %v, want %v", i, v.Scalar, want)
		}
		if done != (i == 3) {
			t.Errorf("step %d done = %v", i, done)
		}
	}
	if a.State() != AnimationCompleted || !a.Done() || a.Cycle() != 1 {
		t.Errorf("state = %v, cycle = %d", a.State(), a.Cycle())
	}
	if v, done := a.Step(0.25); !done || v.Scalar != 100 {
		t.Errorf("step after completion = %v, %v", v, done)
	}
	if updates != 4 || completes != 1 {
		t.Errorf("updates = %d, completes = %d; want 4 and 1", updates, completes)
	}
	if a.Velocity() != 0 {
		t.Errorf("velocity after completion = %v", a.Velocity())
	}
}

func TestPropertyAnimationZeroDurationSnaps(t *testing.T) {
	a := mustAnimation(t, Pixels(0), Pixels(40), Tween(0, Ease(EaseOut)))
	v, done := a.Step(1.0 / 60)
	if !done || !v.Equal(Pixels(40)) {
		t.Errorf("first step = %v, %v; want snap to target", v, done)
	}
}

func TestPropertyAnimationDelay(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear).WithDelay(0.5))
	if a.State() != AnimationDelayed {
		t.Fatalf("initial state = %v, want delayed", a.State())
	}
	if v, _ := a.Step(0.25); v.Scalar != 0 || a.State() != AnimationDelayed {
		t.Errorf("during delay = %v (%v)", v, a.State())
	}
	if v, _ := a.Step(0.5); !approxEqual(v.Scalar, 25, 1e-9) || a.State() != AnimationRunning {
		t.Errorf("after delay = %v (%v), want 25", v, a.State())
	}
}

func TestPropertyAnimationNegativeDelay(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear).WithDelay(-0.5))
	if v, _ := a.Step(0.25); !approxEqual(v.Scalar, 75, 1e-9) {
		t.Errorf("first step = %v, want 75", v.Scalar)
	}
}

func TestPropertyAnimationSpringNegativeDelay(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), SpringTransition(DefaultSpringConfig()).WithDelay(-2e6))
	v, done := a.Step(1.0 / 60)
	if !done || v.Scalar != 100 {
		t.Errorf("first step = %v, %v; want settled on 100", v.Scalar, done)
	}
}

func TestPropertyAnimationRepeat(t *testing.T) {
	t.Run("count", func(t *testing.T) {
		a := mustAnimation(t, Number(0), Number(1), Tween(1, Linear).WithRepeat(RepeatTimes(2)))
		completes := 0
		a.OnComplete = func(bool) { completes++ }
		steps := 0
		for !a.Done() && steps < 10 {
			a.Step(1)
			steps++
		}
		if steps != 3 || a.Cycle() != 3 || completes != 1 {
			t.Errorf("steps = %d, cycles = %d, completes = %d; want 3, 3, 1", steps, a.Cycle(), completes)
		}
	})
	t.Run("forever", func(t *testing.T) {
		a := mustAnimation(t, Number(0), Number(1), Tween(1, Linear).WithRepeat(RepeatForever))
		for i := 0; i < 20; i++ {
			if _, done := a.Step(0.5); done {
				t.Fatal("infinite repeat completed")
			}
		}
		if a.Cycle() != 10 {
			t.Errorf("cycles = %d, want 10", a.Cycle())
		}
	})
	t.Run("carries overshoot", func(t *testing.T) {
		a := mustAnimation(t, Number(0), Number(1), Tween(1, Linear).WithRepeat(RepeatForever))
		for i := 0; i < 4; i++ {
			a.Step(0.75)
		}
		// Cycles end at 1.5, 1.25 and 1.0 s of their own clocks.
		if a.Cycle() != 3 {
			t.Errorf("cycles after 3s = %d, want 3", a.Cycle())
		}
		if v, _ := a.Step(0.75); v.Scalar != 0.75 {
			t.Errorf("value at 3.75s = %v, want 0.75", v.Scalar)
		}
		for i := 0; i < 3; i++ {
			a.Step(0.75)
		}
		if a.Cycle() != 6 {
			t.Errorf("cycles after 6s = %d, want 6", a.Cycle())
		}
	})
	t.Run("reverse", func(t *testing.T) {
		a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear).WithRepeat(RepeatForeverReverse))
		want := []float64{100, 50, 0, 50, 100}
		steps := []float64{1, 0.5, 0.5, 0.5, 0.5}
		for i, dt := range steps {
			v, _ := a.Step(dt)
			if !approxEqual(v.Scalar, want[i], 1e-9) {
				t.Errorf("step %d = %v, want %v", i, v.Scalar, want[i])
			}
		}
	})
}

func TestPropertyAnimationCancel(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear))
	calls := 0
	a.OnComplete = func(cancelled bool) {
		calls++
		if !cancelled {
			t.Error("cancel reported as natural completion")
		}
	}
	a.Step(0.5)
	a.Cancel()
	a.Cancel()
	if calls != 1 || a.State() != AnimationCancelled {
		t.Errorf("calls = %d, state = %v", calls, a.State())
	}
	if v, done := a.Step(0.5); !done || !approxEqual(v.Scalar, 50, 1e-9) {
		t.Errorf("step after cancel = %v, %v", v, done)
	}
}

func TestPropertyAnimationRetargetTween(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), Tween(1, Linear))
	a.Step(0.5)
	if err := a.Retarget(Number(0), nil); err != nil {
		t.Fatal(err)
	}
	if !a.Start().Equal(Number(50)) || !a.Target().Equal(Number(0)) {
		t.Errorf("start = %v, target = %v", a.Start(), a.Target())
	}
	if v, _ := a.Step(0.5); !approxEqual(v.Scalar, 25, 1e-9) {
		t.Errorf("after retarget = %v, want 25", v.Scalar)
	}
	if err := a.Retarget(Color("red"), nil); !errors.Is(err, ErrInvalidValue) {
		t.Errorf("kind change err = %v", err)
	}
	bad := Tween(-1, Linear)
	if err := a.Retarget(Number(1), &bad); !errors.Is(err, ErrInvalidTransitionConfig) {
		t.Errorf("bad transition err = %v", err)
	}
}

// A spring retargeted mid-flight keeps its position and velocity.
func TestPropertyAnimationSpringTakeover(t *testing.T) {
	tr := SpringTransition(DefaultSpringConfig())
	a := mustAnimation(t, Number(0), Number(100), tr)
	for i := 0; i < 12; i++ {
		a.Step(1.0 / 60)
	}
	before, vBefore := a.Value().Scalar, a.Velocity()
	if vBefore <= 0 {
		t.Fatalf("velocity before takeover = %v", vBefore)
	}
	if err := a.Retarget(Number(200), &tr); err != nil {
		t.Fatal(err)
	}
	if d := math.Abs(a.Velocity() - vBefore); d >= 1e-9 {
		t.Errorf("velocity jump = %v", d)
	}
	if a.Value().Scalar != before {
		t.Errorf("value jumped from %v to %v", before, a.Value().Scalar)
	}
	v, _ := a.Step(1.0 / 60)
	if step := v.Scalar - before; step <= 0 || step > vBefore/60*1.5 {
		t.Errorf("first step after takeover moved %v (velocity %v)", step, vBefore)
	}
	for i := 0; i < 1200 && !a.Done(); i++ {
		a.Step(1.0 / 60)
	}
	if !a.Done() || a.Value().Scalar != 200 {
		t.Errorf("final = %v done=%v", a.Value(), a.Done())
	}
}

func TestPropertyAnimationTweenRetargetDropsVelocity(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(100), SpringTransition(DefaultSpringConfig()))
	a.Step(0.1)
	tw := Tween(1, Linear)
	if err := a.Retarget(Number(0), &tw); err != nil {
		t.Fatal(err)
	}
	if a.Velocity() != 0 {
		t.Errorf("velocity = %v, want 0 when switching to a tween", a.Velocity())
	}
}

func TestPropertyAnimationSpringNonNumeric(t *testing.T) {
	a := mustAnimation(t, Color("#000000"), Color("#ffffff"), SpringTransition(SpringPresets["snappy"]))
	for i := 0; i < 600 && !a.Done(); i++ {
		v, _ := a.Step(1.0 / 60)
		if v.Kind != ValueColor {
			t.Fatalf("kind = %v", v.Kind)
		}
	}
	if !a.Done() || !a.Value().Equal(Color("#ffffff")) {
		t.Errorf("final = %v done=%v", a.Value(), a.Done())
	}
}

func TestPropertyAnimationBadDt(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(1), Tween(1, Linear))
	for _, dt := range []float64{math.NaN(), -1, math.Inf(1)} {
		if v, done := a.Step(dt); v.Scalar != 0 || done {
			t.Errorf("Step(%v) = %v, %v", dt, v, done)
		}
	}
}

func TestNewPropertyAnimationErrors(t *testing.T) {
	tests := []struct {
		name   string
		prop   string
		a, b   Value
		tr     Transition
		target error
	}{
		{"empty property", "", Number(0), Number(1), DefaultTransition(), ErrInvalidProperty},
		{"kind mismatch", "x", Pixels(0), Percent(1), DefaultTransition(), ErrInvalidValue},
		{"bad transition", "x", Number(0), Number(1), Tween(-1, Linear), ErrInvalidTransitionConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPropertyAnimation(tt.prop, tt.a, tt.b, tt.tr)
			if !errors.Is(err, tt.target) {
				t.Errorf("err = %v, want %v", err, tt.target)
			}
		})
	}
}

func TestAnimationHandlesUnique(t *testing.T) {
	a := mustAnimation(t, Number(0), Number(1), DefaultTransition())
	b := mustAnimation(t, Number(0), Number(1), DefaultTransition())
	if a.Handle == b.Handle {
		t.Error("handles should be unique")
	}
}

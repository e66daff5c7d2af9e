package motion

import (
	"errors"
	"testing"
)

func stepController(c *Controller, dt float64, n int) {
	for i := 0; i < n; i++ {
		c.Step(dt)
		c.DispatchCallbacks()
	}
}

// Fading an element in from half opacity completes exactly once and never
// steps backward.
func TestControllerFadeIn(t *testing.T) {
	c := NewController(1)
	if err := c.Set(Target{"opacity": Number(0.5)}); err != nil {
		t.Fatal(err)
	}
	completes := 0
	c.OnComplete = func() { completes++ }

	run, err := c.AnimateTo(Target{"opacity": Number(1)}, Tween(0.3, Ease(EaseOut)))
	if err != nil {
		t.Fatal(err)
	}
	prev := 0.5
	for i := 0; i < 30; i++ {
		c.Step(1.0 / 60)
		f := c.Frame()
		if !f.HasOpacity || f.Opacity < prev {
			t.Fatalf("tick %d: opacity %v after %v", i, f.Opacity, prev)
		}
		prev = f.Opacity
		c.DispatchCallbacks()
	}
	if prev != 1 {
		t.Errorf("final opacity = %v, want 1", prev)
	}
	if completes != 1 {
		t.Errorf("OnComplete fired %d times, want 1", completes)
	}
	if !c.RunComplete(run) || c.IsAnimating() {
		t.Error("run should be complete and idle")
	}
}

func TestControllerIdempotentAnimateTo(t *testing.T) {
	c := NewController(1)
	completes := 0
	c.OnComplete = func() { completes++ }
	target := Target{"x": Pixels(100)}
	first, _ := c.AnimateTo(target, Tween(0.2, Linear))
	second, _ := c.AnimateTo(target, Tween(0.2, Linear))
	if !c.RunComplete(first) {
		t.Error("replaced run should count as complete")
	}
	if a, ok := c.Animation("x"); !ok || a.Done() {
		t.Fatal("expected one running animation on x")
	}
	stepController(c, 0.05, 10)
	if v, _ := c.Value("x"); !v.Equal(Pixels(100)) {
		t.Errorf("x = %v", v)
	}
	if completes != 1 || !c.RunComplete(second) {
		t.Errorf("completes = %d", completes)
	}
}

func TestControllerRetargetKeepsSingleAnimation(t *testing.T) {
	c := NewController(1)
	c.AnimateTo(Target{"x": Pixels(100)}, Tween(1, Linear))
	stepController(c, 0.5, 1)
	first, _ := c.Animation("x")
	c.AnimateTo(Target{"x": Pixels(0)}, Tween(1, Linear))
	second, _ := c.Animation("x")
	if first != second {
		t.Error("retarget should reuse the animation")
	}
	if !second.Start().Equal(Pixels(50)) {
		t.Errorf("retarget start = %v, want 50px", second.Start())
	}
}

func TestControllerStartValues(t *testing.T) {
	tests := []struct {
		name    string
		initial Target
		prop    string
		to      Value
		want    Value
	}{
		{"default translate", nil, "x", Pixels(100), Pixels(0)},
		{"default scale", nil, "scale", Number(2), Number(1)},
		{"default opacity", nil, "opacity", Number(0), Number(1)},
		{"number to pixels", Target{"x": Number(10)}, "x", Pixels(20), Pixels(10)},
		{"no default snaps", nil, "color", Color("red"), Color("red")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewController(1)
			if tt.initial != nil {
				c.Set(tt.initial)
			}
			if _, err := c.AnimateTo(Target{tt.prop: tt.to}, Tween(1, Linear)); err != nil {
				t.Fatal(err)
			}
			a, ok := c.Animation(tt.prop)
			if !ok {
				t.Fatal("no animation")
			}
			if !a.Start().Equal(tt.want) {
				t.Errorf("start = %v, want %v", a.Start(), tt.want)
			}
		})
	}

	c := NewController(1)
	c.Set(Target{"rotate": Degrees(180)})
	c.AnimateTo(Target{"rotate": Radians(0)}, Tween(1, Linear))
	a, _ := c.Animation("rotate")
	if a.Start().Kind != ValueRadians || !approxEqual(a.Start().Scalar, 3.14159265, 1e-6) {
		t.Errorf("degree start converted to %v", a.Start())
	}
}

func TestControllerAnimateToErrorsLeaveStateUntouched(t *testing.T) {
	c := NewController(1)
	c.Set(Target{"x": Pixels(5)})
	_, err := c.AnimateTo(Target{"x": Percent(50), "y": Pixels(10)}, DefaultTransition())
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("err = %v, want ErrInvalidValue", err)
	}
	if c.IsAnimating() {
		t.Error("a rejected call must not start any animation")
	}
	if _, err := c.AnimateTo(Target{"": Number(1)}, DefaultTransition()); !errors.Is(err, ErrInvalidProperty) {
		t.Errorf("empty key err = %v", err)
	}
	if _, err := c.AnimateTo(Target{"x": Pixels(1)}, Tween(-1, Linear)); !errors.Is(err, ErrInvalidTransitionConfig) {
		t.Errorf("bad transition err = %v", err)
	}
}

func TestControllerSetCancels(t *testing.T) {
	c := NewController(1)
	c.AnimateTo(Target{"x": Pixels(100)}, Tween(1, Linear))
	a, _ := c.Animation("x")
	c.Set(Target{"x": Pixels(7)})
	if a.State() != AnimationCancelled || c.IsAnimating() {
		t.Error("Set should cancel the running animation")
	}
	if v, _ := c.Value("x"); !v.Equal(Pixels(7)) {
		t.Errorf("x = %v", v)
	}
	if !c.Dirty() {
		t.Error("Set should mark the controller dirty")
	}
}

func TestControllerStop(t *testing.T) {
	c := NewController(1)
	c.AnimateTo(Target{"x": Pixels(100), "y": Pixels(100)}, Tween(1, Linear))
	stepController(c, 0.5, 1)
	c.Stop("x")
	if _, ok := c.Animation("x"); ok {
		t.Error("x still animating")
	}
	if _, ok := c.Animation("y"); !ok {
		t.Error("y should keep animating")
	}
	c.Stop()
	if c.IsAnimating() {
		t.Error("Stop() should cancel everything")
	}
	if v, _ := c.Value("x"); !v.Equal(Pixels(50)) {
		t.Errorf("x = %v, want it left at 50px", v)
	}
}

func TestControllerFrame(t *testing.T) {
	c := NewController(3)
	c.Set(Target{
		"x":               Pixels(10),
		"scale":           Number(2),
		"opacity":         Number(1.4),
		"backgroundColor": Color("#ff0000"),
		"width":           Pixels(50),
	})
	f := c.Frame()
	if f.Element != 3 {
		t.Errorf("Element = %d", f.Element)
	}
	if f.Transform != "translate(10px, 0px) scale(2, 2)" {
		t.Errorf("Transform = %q", f.Transform)
	}
	if !f.HasOpacity || f.Opacity != 1 || f.OpacityString() != "1" {
		t.Errorf("opacity = %v (%v)", f.Opacity, f.HasOpacity)
	}
	if f.Styles["backgroundColor"] != "#ff0000" || f.Styles["width"] != "50px" || len(f.Styles) != 2 {
		t.Errorf("Styles = %v", f.Styles)
	}

	c.SetTransformMode(Transform3DMode)
	if got := c.Frame().Transform; got != "translate3d(10px, 0px, 0px) scale3d(2, 2, 1)" {
		t.Errorf("3D Transform = %q", got)
	}
}

func TestControllerFramePercentOpacity(t *testing.T) {
	c := NewController(1)
	c.Set(Target{"opacity": Percent(25)})
	if f := c.Frame(); f.Opacity != 0.25 {
		t.Errorf("opacity = %v", f.Opacity)
	}
}

func TestControllerLayoutTransform(t *testing.T) {
	c := NewController(1)
	c.Set(Target{"x": Pixels(10)})
	layout := IdentityTransform()
	layout.TranslateX, layout.ScaleX = -30, 0.5
	c.SetLayoutTransform(layout)
	f := c.Frame()
	if f.TransformRecord.TranslateX != -20 || f.TransformRecord.ScaleX != 0.5 {
		t.Errorf("layered = %+v", f.TransformRecord)
	}
	c.SetLayoutTransform(IdentityTransform())
	if got := c.Frame().TransformRecord.TranslateX; got != 10 {
		t.Errorf("after clear x = %v", got)
	}
}

func TestControllerCallbacks(t *testing.T) {
	c := NewController(1)
	var updates []Target
	c.OnUpdate = func(v Target) { updates = append(updates, v) }
	c.AnimateTo(Target{"opacity": Number(0)}, Tween(0.1, Linear))
	stepController(c, 0.05, 4)
	if len(updates) != 2 {
		t.Fatalf("updates = %d, want 2", len(updates))
	}
	if !updates[1]["opacity"].Equal(Number(0)) {
		t.Errorf("last update = %v", updates[1])
	}
	updates[1]["opacity"] = Number(9)
	if v, _ := c.Value("opacity"); !v.Equal(Number(0)) {
		t.Error("OnUpdate should receive a copy")
	}
}

package motion

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// FlipState is the lifecycle stage of a FlipAnimation.
type FlipState uint8

const (
	FlipReady FlipState = iota
	FlipRunning
	FlipPaused
	FlipCompleted
)

// FlipAnimation plays a layout change: the element already sits at Final,
// and the animation applies the inverse of the move from Initial, shrinking
// it to identity as progress goes from 0 to 1. Transforms assume a top-left
// transform origin. RotationChange is in degrees.
type FlipAnimation struct {
	Initial, Final Bounds
	Duration       float64
	Easing         Easing
	RotationChange float64
	// Delay holds the start back; FlipGroup uses it for stagger.
	Delay float64

	state    FlipState
	clock    *gween.Tween
	progress float64
	waited   float64
}

// NewFlip validates its inputs and returns a ready animation.
func NewFlip(initial, final Bounds, duration float64, e Easing) (*FlipAnimation, error) {
	for _, f := range [...]float64{
		initial.X, initial.Y, initial.Width, initial.Height,
		final.X, final.Y, final.Width, final.Height,
	} {
		if !isFinite(f) {
			return nil, invalidValue("", "flip bounds must be finite")
		}
	}
	if !isFinite(duration) || duration < 0 {
		return nil, invalidTransition("flip duration must be a finite non-negative number, got %v", duration)
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &FlipAnimation{Initial: initial, Final: final, Duration: duration, Easing: e}, nil
}

// At returns the inverse transform at progress p. At p = 1 it is the
// identity and the element visibly occupies Final.
func (f *FlipAnimation) At(p float64) Transform3D {
	inv := 1 - f.Easing.Eval(p)
	sx := sizeRatio(f.Initial.Width, f.Final.Width)
	sy := sizeRatio(f.Initial.Height, f.Final.Height)
	t := IdentityTransform()
	t.TranslateX = -(f.Final.X - f.Initial.X) * inv
	t.TranslateY = -(f.Final.Y - f.Initial.Y) * inv
	t.ScaleX = 1 + (sx-1)*inv
	t.ScaleY = 1 + (sy-1)*inv
	t.RotateZ = -f.RotationChange * inv
	if inv == 0 {
		return IdentityTransform()
	}
	return t
}

// sizeRatio guards the degenerate zero-size final box.
func sizeRatio(first, last float64) float64 {
	if last == 0 || first == 0 {
		return 1
	}
	return first / last
}

// Play starts a ready animation or resumes a paused one.
func (f *FlipAnimation) Play() {
	switch f.state {
	case FlipReady:
		f.clock = gween.New(0, 1, float32(f.Duration), ease.Linear)
		f.state = FlipRunning
	case FlipPaused:
		f.state = FlipRunning
	}
}

// Pause holds a running animation at its current progress.
func (f *FlipAnimation) Pause() {
	if f.state == FlipRunning {
		f.state = FlipPaused
	}
}

// Cancel jumps to the end: the transform becomes identity.
func (f *FlipAnimation) Cancel() {
	f.progress = 1
	f.state = FlipCompleted
}

// Seek moves a started animation to progress p.
func (f *FlipAnimation) Seek(p float64) {
	p = math.Min(math.Max(p, 0), 1)
	f.progress = p
	if f.clock != nil {
		f.clock.Set(float32(p * f.Duration))
	}
}

// Step advances a running animation by dt seconds and returns its transform
// and whether it completed.
func (f *FlipAnimation) Step(dt float64) (Transform3D, bool) {
	if f.state == FlipCompleted {
		return IdentityTransform(), true
	}
	if f.state != FlipRunning || !(dt > 0) {
		return f.At(f.progress), false
	}
	if f.waited < f.Delay {
		f.waited += dt
		if f.waited < f.Delay {
			return f.At(0), false
		}
		dt = f.waited - f.Delay
	}
	if f.Duration <= 0 {
		f.Cancel()
		return IdentityTransform(), true
	}
	v, done := f.clock.Update(float32(dt))
	f.progress = float64(v)
	if done {
		f.progress = 1
		f.state = FlipCompleted
		return IdentityTransform(), true
	}
	return f.At(f.progress), false
}

// Progress returns linear progress in [0, 1].
func (f *FlipAnimation) Progress() float64 { return f.progress }

// State returns the lifecycle stage.
func (f *FlipAnimation) State() FlipState { return f.state }

// Current returns the transform at the current progress.
func (f *FlipAnimation) Current() Transform3D { return f.At(f.progress) }

// VisualBounds returns where the element currently appears on screen.
func (f *FlipAnimation) VisualBounds() Bounds {
	return f.Current().VisualBounds(f.Final, Vec2{})
}

// --- Group ---

// FlipGroup plays several layout changes together, holding item i back by
// i·StaggerDelay.
type FlipGroup struct {
	StaggerDelay float64
	ids          []ElementID
	anims        []*FlipAnimation
}

// NewFlipGroup returns an empty group.
func NewFlipGroup(stagger float64) *FlipGroup {
	return &FlipGroup{StaggerDelay: stagger}
}

// Add appends an animation for an element and sets its stagger delay.
func (g *FlipGroup) Add(id ElementID, f *FlipAnimation) {
	f.Delay = float64(len(g.anims)) * g.StaggerDelay
	g.ids = append(g.ids, id)
	g.anims = append(g.anims, f)
}

// Play starts every animation in the group.
func (g *FlipGroup) Play() {
	for _, f := range g.anims {
		f.Play()
	}
}

// Step advances every animation and calls apply with each element's
// transform. It reports whether the whole group completed.
func (g *FlipGroup) Step(dt float64, apply func(ElementID, Transform3D)) bool {
	all := true
	for i, f := range g.anims {
		t, done := f.Step(dt)
		if apply != nil {
			apply(g.ids[i], t)
		}
		if !done {
			all = false
		}
	}
	return all
}

// Len returns the number of animations in the group.
func (g *FlipGroup) Len() int { return len(g.anims) }

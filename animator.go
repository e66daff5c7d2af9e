package motion

import "math"

// AnimationHandle identifies one PropertyAnimation for its lifetime.
type AnimationHandle uint64

// animationHandleCounter is a plain counter; the engine is single-threaded.
var animationHandleCounter AnimationHandle

func nextAnimationHandle() AnimationHandle {
	animationHandleCounter++
	return animationHandleCounter
}

// AnimationState is the lifecycle stage of a PropertyAnimation.
type AnimationState uint8

const (
	AnimationDelayed   AnimationState = iota // waiting out a positive delay
	AnimationRunning                         // curve or spring in progress
	AnimationCompleted                       // reached its target for the last time
	AnimationCancelled                       // stopped by Cancel
)

// PropertyAnimation drives one property of one element from a start value
// to a target value. It is created running; call Step once per frame.
//
// Numeric springs integrate in value space so their velocity is in value
// units per second. Every other value kind springs along a 0→1 progress
// axis and reports progress per second.
type PropertyAnimation struct {
	Handle   AnimationHandle
	Property string

	start, target, current Value
	tr                     Transition

	elapsed    float64
	springTime float64
	spring     *Spring
	valueSpace bool
	velocity   float64

	cycle     int
	remaining int
	state     AnimationState
	notified  bool

	// OnUpdate receives every emitted value. OnComplete fires at most once
	// per run, with cancelled set when the run ended through Cancel.
	OnUpdate   func(Value)
	OnComplete func(cancelled bool)
}

// NewPropertyAnimation validates its inputs and starts a run from start to
// target. start and target must be the same value kind.
func NewPropertyAnimation(prop string, start, target Value, tr Transition) (*PropertyAnimation, error) {
	if prop == "" {
		return nil, invalidProperty(prop)
	}
	if err := tr.Validate(); err != nil {
		return nil, err
	}
	if !canInterpolate(start, target) {
		return nil, invalidValue(prop, "cannot animate %s to %s", start.Kind, target.Kind)
	}
	a := &PropertyAnimation{
		Handle:   nextAnimationHandle(),
		Property: prop,
		start:    start,
		target:   target,
		current:  start,
		tr:       tr,
	}
	a.begin(tr.Ease.Spring.Velocity)
	return a, nil
}

// begin resets the run clock and, for springs, builds the integrator with
// the given initial velocity.
func (a *PropertyAnimation) begin(velocity float64) {
	a.elapsed = 0
	a.springTime = 0
	a.cycle = 0
	a.remaining = a.tr.Repeat.Count
	a.notified = false
	a.state = AnimationRunning
	if a.tr.Delay > 0 {
		a.state = AnimationDelayed
	}
	a.buildSpring(velocity)
}

func (a *PropertyAnimation) buildSpring(velocity float64) {
	a.spring = nil
	a.velocity = 0
	if !a.tr.Ease.IsSpring() {
		return
	}
	cfg := a.tr.Ease.Spring
	cfg.Velocity = velocity
	a.valueSpace = a.start.IsNumeric()
	var err error
	if a.valueSpace {
		a.spring, err = NewSpring(cfg, a.start.Scalar, a.target.Scalar)
	} else {
		a.spring, err = NewSpring(cfg, 0, 1)
	}
	if err != nil {
		// Validated on entry; a failure here means the config was mutated.
		a.spring = nil
		return
	}
	a.velocity = a.spring.Velocity
}

// Step advances the run by dt seconds and returns the value to emit and
// whether the animation has finished. Stepping a finished animation is a
// no-op that returns its last value.
func (a *PropertyAnimation) Step(dt float64) (Value, bool) {
	if a.state >= AnimationCompleted {
		return a.current, true
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		dt = 0
	}
	a.elapsed += dt
	if a.elapsed < a.tr.Delay {
		a.state = AnimationDelayed
		a.current = a.start
		a.emit()
		return a.current, false
	}
	a.state = AnimationRunning
	tau := a.elapsed - a.tr.Delay

	if a.spring != nil {
		h := tau - a.springTime
		a.springTime = tau
		if h > maxSettleTime {
			h = maxSettleTime
		}
		pos, rest := a.spring.Step(h)
		if a.valueSpace {
			a.current = Value{Kind: a.start.Kind, Scalar: pos}
		} else {
			a.current, _ = Interpolate(a.start, a.target, pos)
		}
		a.velocity = a.spring.Velocity
		if rest {
			a.current = a.target
			a.endCycle(0)
		}
	} else {
		d := a.tr.DurationOrDefault()
		p := 1.0
		if d > 0 {
			p = math.Min(math.Max(tau/d, 0), 1)
		}
		prev := a.current
		a.current, _ = Interpolate(a.start, a.target, a.tr.Ease.Eval(p))
		if dt > 0 && a.current.IsNumeric() {
			a.velocity = (a.current.Scalar - prev.Scalar) / dt
		}
		if p >= 1 {
			over := 0.0
			if d > 0 {
				over = math.Min(tau-d, d)
			}
			a.endCycle(over)
		}
	}
	a.emit()
	if a.state == AnimationCompleted {
		a.notify(false)
	}
	return a.current, a.state == AnimationCompleted
}

// endCycle runs on the frame a curve reaches its end. The end value has
// already been emitted for this frame; a repeat starts on the next Step with
// over seconds of the frame already played.
func (a *PropertyAnimation) endCycle(over float64) {
	a.cycle++
	switch a.tr.Repeat.Mode {
	case RepeatCount:
		if a.remaining > 0 {
			a.remaining--
			a.restart(false, over)
			return
		}
	case RepeatInfinite:
		a.restart(false, over)
		return
	case RepeatInfiniteReverse:
		a.restart(true, over)
		return
	}
	a.state = AnimationCompleted
	a.velocity = 0
}

func (a *PropertyAnimation) restart(reverse bool, over float64) {
	if reverse {
		a.start, a.target = a.target, a.start
	}
	a.elapsed = a.tr.Delay + over
	a.springTime = 0
	a.buildSpring(a.tr.Ease.Spring.Velocity)
}

// Retarget replaces the destination in place. The current value becomes the
// new start, the clock restarts and completion clears. When both the old and
// the new transition are springs the velocity carries over; otherwise it
// starts from zero. A nil tr keeps the current transition.
func (a *PropertyAnimation) Retarget(target Value, tr *Transition) error {
	if !canInterpolate(a.current, target) {
		return invalidValue(a.Property, "cannot animate %s to %s", a.current.Kind, target.Kind)
	}
	next := a.tr
	if tr != nil {
		if err := tr.Validate(); err != nil {
			return err
		}
		next = *tr
	}
	carry := 0.0
	if a.spring != nil && next.Ease.IsSpring() && a.valueSpace == a.current.IsNumeric() {
		carry = a.spring.Velocity
	}
	a.start = a.current
	a.target = target
	a.tr = next
	a.begin(carry)
	return nil
}

// Cancel stops the run where it is. It is idempotent and notifies
// OnComplete with cancelled=true unless the run already completed.
func (a *PropertyAnimation) Cancel() {
	if a.state >= AnimationCompleted {
		return
	}
	a.state = AnimationCancelled
	a.velocity = 0
	a.notify(true)
}

func (a *PropertyAnimation) emit() {
	if a.OnUpdate != nil {
		a.OnUpdate(a.current)
	}
}

func (a *PropertyAnimation) notify(cancelled bool) {
	if a.notified {
		return
	}
	a.notified = true
	if a.OnComplete != nil {
		a.OnComplete(cancelled)
	}
}

// Value returns the most recently emitted value.
func (a *PropertyAnimation) Value() Value { return a.current }

// Start returns the value the current run started from.
func (a *PropertyAnimation) Start() Value { return a.start }

// Target returns the value the current run is heading to.
func (a *PropertyAnimation) Target() Value { return a.target }

// Transition returns the active transition.
func (a *PropertyAnimation) Transition() Transition { return a.tr }

// Velocity returns the instantaneous velocity: value units per second for
// numeric values, progress per second otherwise.
func (a *PropertyAnimation) Velocity() float64 { return a.velocity }

// State returns the lifecycle stage.
func (a *PropertyAnimation) State() AnimationState { return a.state }

// Done reports whether the animation completed or was cancelled.
func (a *PropertyAnimation) Done() bool { return a.state >= AnimationCompleted }

// Cycle returns how many runs have reached their end.
func (a *PropertyAnimation) Cycle() int { return a.cycle }

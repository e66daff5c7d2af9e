package motion

import "math"

// Frame is the write-back produced for one element on one tick.
type Frame struct {
	Element ElementID

	// Transform is the composed transform in CSS form ("none" at identity).
	Transform       string
	TransformRecord Transform3D

	// Opacity is the unit-clamped opacity when the element animates one.
	Opacity    float64
	HasOpacity bool

	// Styles holds every other property, stringified.
	Styles map[string]string
}

// OpacityString returns Opacity formatted for a style property.
func (f Frame) OpacityString() string {
	return formatNumber(f.Opacity)
}

// Controller owns the property animations of one element. It guarantees at
// most one animation per property: animating a property that is already in
// flight retargets it in place.
//
// A Controller is driven by Step; Frame composes the current values for
// write-back; DispatchCallbacks fires OnUpdate and OnComplete. The Engine
// calls these in that order each tick.
type Controller struct {
	id        ElementID
	values    Target
	animators map[string]*PropertyAnimation
	waiting   map[string]bool
	mode      TransformMode

	run     uint64
	runDone bool

	layout    Transform3D
	hasLayout bool

	dirty           bool
	pendingComplete bool

	// OnUpdate receives the full current property map after every tick in
	// which a value changed.
	OnUpdate func(values Target)
	// OnComplete fires once every property of the most recent AnimateTo has
	// finished. A retarget before that point restarts the wait.
	OnComplete func()
}

// NewController returns an empty controller for the element.
func NewController(id ElementID) *Controller {
	return &Controller{
		id:        id,
		values:    make(Target),
		animators: make(map[string]*PropertyAnimation),
		waiting:   make(map[string]bool),
		runDone:   true,
	}
}

// ID returns the element handle this controller drives.
func (c *Controller) ID() ElementID { return c.id }

// SetTransformMode selects how Frame writes the transform.
func (c *Controller) SetTransformMode(m TransformMode) { c.mode = m }

// Set jumps properties to values immediately, cancelling any animation on
// them. An empty property name rejects the whole call.
func (c *Controller) Set(values Target) error {
	if err := values.Validate(); err != nil {
		return err
	}
	for k, v := range values {
		if a, ok := c.animators[k]; ok {
			a.Cancel()
			delete(c.animators, k)
		}
		delete(c.waiting, k)
		c.values[k] = v
	}
	c.dirty = true
	return nil
}

// AnimateTo starts or retargets one animation per property of target.
// Properties not named in target are left alone. The whole call is
// validated before anything changes. The returned run id can be passed to
// RunComplete.
func (c *Controller) AnimateTo(target Target, tr Transition) (uint64, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if err := tr.Validate(); err != nil {
		return 0, err
	}
	starts := make(map[string]Value, len(target))
	for k, v := range target {
		from, err := c.startValue(k, v)
		if err != nil {
			return 0, err
		}
		starts[k] = from
	}

	c.run++
	c.runDone = false
	c.waiting = make(map[string]bool, len(target))
	for k, v := range target {
		c.waiting[k] = true
		if a, ok := c.animators[k]; ok && !a.Done() && a.Value().Kind == v.Kind {
			trCopy := tr
			if err := a.Retarget(v, &trCopy); err == nil {
				continue
			}
		}
		a, err := NewPropertyAnimation(k, starts[k], v, tr)
		if err != nil {
			// Inputs were validated above.
			delete(c.waiting, k)
			continue
		}
		if old, ok := c.animators[k]; ok {
			old.Cancel()
		}
		c.animators[k] = a
	}
	return c.run, nil
}

// startValue returns the value a new run on prop starts from, converting
// the current value's unit where the conversion is lossless.
func (c *Controller) startValue(prop string, to Value) (Value, error) {
	cur, ok := c.values[prop]
	if !ok {
		if d, ok := defaultValue(prop, to); ok {
			return d, nil
		}
		return to, nil
	}
	return convertStart(prop, cur, to)
}

// convertStart returns cur expressed in to's unit, or an error when the two
// kinds cannot be interpolated.
func convertStart(prop string, cur, to Value) (Value, error) {
	if cur.Kind == to.Kind {
		return cur, nil
	}
	switch {
	case cur.Kind == ValueNumber && to.IsNumeric():
		return Value{Kind: to.Kind, Scalar: cur.Scalar}, nil
	case cur.Kind == ValueDegrees && to.Kind == ValueRadians:
		return Radians(cur.Scalar * math.Pi / 180), nil
	case cur.Kind == ValueRadians && to.Kind == ValueDegrees:
		return Degrees(cur.Scalar * 180 / math.Pi), nil
	}
	return Value{}, invalidValue(prop, "cannot animate %s to %s", cur.Kind, to.Kind)
}

// Step advances every active animation by dt seconds and removes the ones
// that finished. It reports whether any value changed.
func (c *Controller) Step(dt float64) bool {
	changed := false
	for k, a := range c.animators {
		v, done := a.Step(dt)
		c.values[k] = v
		changed = true
		if done {
			delete(c.animators, k)
			delete(c.waiting, k)
		}
	}
	for k := range c.waiting {
		if _, ok := c.animators[k]; !ok {
			delete(c.waiting, k)
		}
	}
	if !c.runDone && len(c.waiting) == 0 {
		c.runDone = true
		c.pendingComplete = true
	}
	if changed {
		c.dirty = true
	}
	return changed
}

// Stop cancels the animations of the named properties, or of every
// property when none are named. Values stay where they are.
func (c *Controller) Stop(props ...string) {
	if len(props) == 0 {
		for k := range c.animators {
			props = append(props, k)
		}
	}
	for _, k := range props {
		if a, ok := c.animators[k]; ok {
			a.Cancel()
			delete(c.animators, k)
		}
		delete(c.waiting, k)
	}
}

// SetLayoutTransform layers a transient transform (a FLIP inverse) on top of
// the composed transform. Identity clears it.
func (c *Controller) SetLayoutTransform(t Transform3D) {
	c.hasLayout = !t.IsIdentity()
	c.layout = t
	c.dirty = true
}

// Frame composes the current values into a write-back record.
func (c *Controller) Frame() Frame {
	t, rest := ComposeTransform(c.values)
	if c.hasLayout {
		t = c.layout.Then(t)
	}
	f := Frame{
		Element:         c.id,
		Transform:       t.CSS(c.mode),
		TransformRecord: t,
		Styles:          make(map[string]string, len(rest)),
	}
	for k, v := range rest {
		if k == "opacity" && v.IsNumeric() {
			f.Opacity = clamp01(v.Scalar)
			if v.Kind == ValuePercent {
				f.Opacity = clamp01(v.Scalar / 100)
			}
			f.HasOpacity = true
			continue
		}
		f.Styles[k] = v.String()
	}
	return f
}

// Dirty reports whether values changed since the last DispatchCallbacks.
func (c *Controller) Dirty() bool { return c.dirty }

// DispatchCallbacks fires OnUpdate when values changed and OnComplete when
// the latest run finished during the last Step. Call it after write-back.
func (c *Controller) DispatchCallbacks() {
	if c.dirty && c.OnUpdate != nil {
		c.OnUpdate(c.values.Clone())
	}
	c.dirty = false
	if c.pendingComplete {
		c.pendingComplete = false
		if c.OnComplete != nil {
			c.OnComplete()
		}
	}
}

// RunComplete reports whether the run returned by AnimateTo has finished,
// either on its own or because a later run replaced it.
func (c *Controller) RunComplete(run uint64) bool {
	return run < c.run || (run == c.run && c.runDone)
}

// IsAnimating reports whether any property animation is active.
func (c *Controller) IsAnimating() bool { return len(c.animators) > 0 }

// Animation returns the active animation of prop.
func (c *Controller) Animation(prop string) (*PropertyAnimation, bool) {
	a, ok := c.animators[prop]
	return a, ok
}

// Value returns the current value of prop.
func (c *Controller) Value(prop string) (Value, bool) {
	v, ok := c.values[prop]
	return v, ok
}

// Values returns a copy of the full current property map.
func (c *Controller) Values() Target { return c.values.Clone() }

// animatorCount is used by debug stats.
func (c *Controller) animatorCount() int { return len(c.animators) }

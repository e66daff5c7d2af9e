package motion

// ElementConfig declares an animated element. Targets are optional; a nil
// Transition field in a Variant falls back to Transition.
type ElementConfig struct {
	// ID is the host's handle for the element. Zero allocates one.
	ID ElementID
	// Key identifies the element inside a Presence set.
	Key string
	// Bounds is the element's layout box, used for hit testing and FLIP.
	Bounds Bounds

	Initial Target
	Animate Target
	Exit    Target

	// Gesture layers, applied on top of Animate while active. Drag wins over
	// tap, tap over hover.
	WhileHover Target
	WhileTap   Target
	WhileDrag  Target

	Variants       Variants
	InitialVariant string
	AnimateVariant string

	Transition Transition
	Mode       TransformMode

	Drag    *DragConfig
	Gesture *GestureConfig
	Layout  bool

	OnUpdate     func(values Target)
	OnComplete   func()
	OnHoverStart func(Event)
	OnHoverEnd   func(Event)
	OnTap        func(Event)
	OnDragStart  func(Event)
	OnDrag       func(Event)
	OnDragEnd    func(Event)
	OnPinch      func(scale float64)
	OnRotation   func(angle float64)
	OnGesture    func(Event)
}

func (c *ElementConfig) validate() error {
	for _, t := range [...]Target{c.Initial, c.Animate, c.Exit, c.WhileHover, c.WhileTap, c.WhileDrag} {
		if err := t.Validate(); err != nil {
			return err
		}
	}
	if err := c.validateExit(); err != nil {
		return err
	}
	for name, v := range c.Variants {
		if name == "" {
			return invalidValue("variants", "variant names must not be empty")
		}
		if err := v.Target.Validate(); err != nil {
			return err
		}
		if v.Transition != nil {
			if err := v.Transition.Validate(); err != nil {
				return err
			}
		}
	}
	for _, name := range [...]string{c.InitialVariant, c.AnimateVariant} {
		if name == "" {
			continue
		}
		if _, ok := c.Variants[name]; !ok {
			return unknownVariant(name)
		}
	}
	if err := c.Transition.Validate(); err != nil {
		return err
	}
	if c.Drag != nil {
		if err := c.Drag.Validate(); err != nil {
			return err
		}
	}
	if c.Gesture != nil && c.Gesture.MaxTouches < 2 {
		return invalidValue("maxTouches", "must be at least 2, got %d", c.Gesture.MaxTouches)
	}
	return nil
}

// validateExit rejects exit values whose unit cannot be reached from the
// values the element is declared or dragged with.
func (c *ElementConfig) validateExit() error {
	from := []Target{c.Initial, c.Animate}
	if c.Drag != nil {
		from = append(from, Target{"x": Pixels(0), "y": Pixels(0)})
	}
	for k, to := range c.Exit {
		for _, t := range from {
			cur, ok := t[k]
			if !ok {
				continue
			}
			if _, err := convertStart(k, cur, to); err != nil {
				return err
			}
		}
	}
	return nil
}

type queuedAnimate struct {
	target Target
	tr     Transition
	exit   bool
}

// Element is a mounted animated element. It owns one Controller and the
// gesture state that layers transient targets over its resting target.
type Element struct {
	engine *Engine
	id     ElementID
	key    string
	cfg    ElementConfig
	ctrl   *Controller
	vars   *VariantsManager
	bounds Bounds

	base   Target // resting target
	layer  Target // active gesture layer
	before Target // values to restore when a layer lifts

	hovered  bool
	pressed  bool
	dragging bool
	drag     *DragIntegrator
	touch    *MultiTouchRecognizer

	track        *KeyframeTrack
	trackTime    float64
	trackLoop    bool
	trackPlaying bool

	queued        []queuedAnimate
	queuedVariant string
	hasVariant    bool

	exiting     bool
	exitStarted bool
	exitSnapped bool
	exitRun     uint64
	unmounted   bool
}

func newElement(e *Engine, id ElementID, cfg ElementConfig) *Element {
	el := &Element{
		engine: e,
		id:     id,
		key:    cfg.Key,
		cfg:    cfg,
		ctrl:   NewController(id),
		vars:   NewVariantsManager(cfg.Variants),
		bounds: cfg.Bounds,
		base:   make(Target),
		layer:  make(Target),
		before: make(Target),
	}
	mode := cfg.Mode
	if mode == TransformAuto {
		mode = e.cfg.Mode
	}
	el.ctrl.SetTransformMode(mode)
	el.ctrl.OnUpdate = cfg.OnUpdate
	el.ctrl.OnComplete = func() {
		if el.cfg.OnComplete != nil {
			el.cfg.OnComplete()
		}
		e.dispatch(el, Event{Type: EventAnimationComplete, Element: id, Key: el.key})
	}
	if cfg.Drag != nil {
		el.drag = NewDragIntegrator(*cfg.Drag)
	}
	if cfg.Gesture != nil {
		el.touch = NewMultiTouchRecognizer(*cfg.Gesture)
		e.wireRecognizer(el.touch, el)
	}
	return el
}

// --- Accessors ---

// ID returns the element's handle.
func (el *Element) ID() ElementID { return el.id }

// Key returns the presence key the element was mounted with.
func (el *Element) Key() string { return el.key }

// Controller returns the element's property controller.
func (el *Element) Controller() *Controller { return el.ctrl }

// Bounds returns the last layout box reported for the element.
func (el *Element) Bounds() Bounds { return el.bounds }

// Value returns the current value of prop.
func (el *Element) Value(prop string) (Value, bool) { return el.ctrl.Value(prop) }

// Values returns a copy of every current property value.
func (el *Element) Values() Target { return el.ctrl.Values() }

// Frame returns the write-back record for the element's current values.
func (el *Element) Frame() Frame { return el.ctrl.Frame() }

// Hovered reports whether the pointer is over the element.
func (el *Element) Hovered() bool { return el.hovered }

// Pressed reports whether the pointer went down on the element and has not
// been released.
func (el *Element) Pressed() bool { return el.pressed }

// Dragging reports whether the element is being dragged.
func (el *Element) Dragging() bool { return el.dragging }

// Exiting reports whether the element is playing its exit run.
func (el *Element) Exiting() bool { return el.exiting }

// DragState returns the drag integrator, or nil when dragging is disabled.
func (el *Element) DragState() *DragIntegrator { return el.drag }

// Recognizer returns the element's multi-touch recognizer, or nil.
func (el *Element) Recognizer() *MultiTouchRecognizer { return el.touch }

// CurrentVariant returns the name of the active variant.
func (el *Element) CurrentVariant() (string, bool) { return el.vars.Current() }

// --- Targets ---

// Set jumps properties to values immediately.
func (el *Element) Set(values Target) error {
	if el.exiting {
		return nil
	}
	if err := el.ctrl.Set(values); err != nil {
		return err
	}
	for k, v := range values {
		el.base[k] = v
	}
	return nil
}

// AnimateTo queues a run toward target, dispatched on the next tick. A nil
// tr uses the element's transition. Properties held by an active gesture
// layer take the new value once the layer lifts. Exiting elements ignore
// the call.
func (el *Element) AnimateTo(target Target, tr *Transition) error {
	if err := target.Validate(); err != nil {
		return err
	}
	t := el.cfg.Transition
	if tr != nil {
		t = *tr
	}
	if err := t.Validate(); err != nil {
		return err
	}
	for k, v := range target {
		if _, err := el.ctrl.startValue(k, v); err != nil {
			return err
		}
	}
	if el.exiting {
		return nil
	}
	out := make(Target, len(target))
	for k, v := range target {
		el.base[k] = v
		if _, held := el.layer[k]; !held {
			out[k] = v
		}
	}
	el.enqueue(out, t, false)
	return nil
}

// SetVariant queues the named variant. Unknown names are rejected without
// changing anything.
func (el *Element) SetVariant(name string) error {
	if _, ok := el.cfg.Variants[name]; !ok {
		return unknownVariant(name)
	}
	if el.exiting {
		return nil
	}
	el.queuedVariant = name
	el.hasVariant = true
	return nil
}

// ResetVariant forgets the active variant. Values stay where they are.
func (el *Element) ResetVariant() {
	el.vars.Reset()
	el.hasVariant = false
}

// Stop cancels the animations of the named properties, or all of them.
func (el *Element) Stop(props ...string) {
	el.ctrl.Stop(props...)
}

func (el *Element) enqueue(target Target, tr Transition, exit bool) {
	if len(target) == 0 && !exit {
		return
	}
	el.queued = append(el.queued, queuedAnimate{target: target, tr: tr, exit: exit})
}

// flush resolves a queued variant and dispatches queued runs in order.
// Runs queued in the same tick start from the same values, so the last one
// wins per property.
func (el *Element) flush() {
	if el.hasVariant {
		el.hasVariant = false
		if v, ok := el.vars.Set(el.queuedVariant); ok {
			tr := el.cfg.Transition
			if v.Transition != nil {
				tr = *v.Transition
			}
			out := make(Target, len(v.Target))
			for k, val := range v.Target {
				el.base[k] = val
				if _, held := el.layer[k]; !held {
					out[k] = val
				}
			}
			el.enqueue(out, tr, false)
		}
	}
	for _, q := range el.queued {
		run, err := el.ctrl.AnimateTo(q.target, q.tr)
		if err != nil {
			el.engine.warn("element %d: dropped run: %v", el.id, err)
			if q.exit {
				// Snap so the exit still completes and the element unmounts.
				_ = el.ctrl.Set(q.target)
				el.exitSnapped = true
				el.exitStarted = true
			}
			continue
		}
		if q.exit {
			el.exitRun = run
			el.exitStarted = true
		}
	}
	el.queued = el.queued[:0]
}

// --- Gesture layers ---

func (el *Element) setHovered(v bool) {
	if el.hovered == v {
		return
	}
	el.hovered = v
	el.applyLayers()
}

func (el *Element) setPressed(v bool) {
	if el.pressed == v {
		return
	}
	el.pressed = v
	el.applyLayers()
}

func (el *Element) setDragging(v bool) {
	if el.dragging == v {
		return
	}
	el.dragging = v
	el.applyLayers()
}

func (el *Element) layerTarget() Target {
	out := make(Target)
	if el.hovered {
		for k, v := range el.cfg.WhileHover {
			out[k] = v
		}
	}
	if el.pressed {
		for k, v := range el.cfg.WhileTap {
			out[k] = v
		}
	}
	if el.dragging {
		for k, v := range el.cfg.WhileDrag {
			out[k] = v
		}
	}
	return out
}

// applyLayers animates toward the active gesture layer. Properties that a
// lifted layer no longer holds return to the resting target, or to the
// value they had before the layer took them.
func (el *Element) applyLayers() {
	if el.exiting {
		return
	}
	next := el.layerTarget()
	out := make(Target)
	for k := range el.layer {
		if _, still := next[k]; still {
			continue
		}
		if v, ok := el.base[k]; ok {
			out[k] = v
		} else if v, ok := el.before[k]; ok {
			out[k] = v
		}
		delete(el.before, k)
	}
	for k, v := range next {
		if _, was := el.layer[k]; !was {
			if _, inBase := el.base[k]; !inBase {
				if cur, ok := el.ctrl.Value(k); ok {
					el.before[k] = cur
				} else if d, ok := defaultValue(k, v); ok {
					el.before[k] = d
				}
			}
		}
		out[k] = v
	}
	el.layer = next
	el.enqueue(out, el.cfg.Transition, false)
}

// dragOffset returns the element's current x/y translation in px.
func (el *Element) dragOffset() Vec2 {
	var p Vec2
	if v, ok := el.ctrl.Value("x"); ok && v.IsNumeric() {
		p.X = v.Scalar
	}
	if v, ok := el.ctrl.Value("y"); ok && v.IsNumeric() {
		p.Y = v.Scalar
	}
	return p
}

func (el *Element) setDragOffset(p Vec2) {
	_ = el.ctrl.Set(Target{"x": Pixels(p.X), "y": Pixels(p.Y)})
}

// --- Exit ---

// exit drops pending work and queues the exit run. The returned func
// reports whether the run finished.
func (el *Element) exit() func() bool {
	el.exiting = true
	el.queued = el.queued[:0]
	el.hasVariant = false
	el.trackPlaying = false
	el.hovered, el.pressed, el.dragging = false, false, false
	if el.drag != nil {
		el.drag.Cancel()
	}
	if len(el.cfg.Exit) == 0 {
		return func() bool { return true }
	}
	el.enqueue(el.cfg.Exit.Clone(), el.cfg.Transition, true)
	return func() bool {
		return el.unmounted || el.exitSnapped || (el.exitStarted && el.ctrl.RunComplete(el.exitRun))
	}
}

// --- Callbacks ---

// callback runs the element's own handler for ev.
func (el *Element) callback(ev Event) {
	c := &el.cfg
	switch ev.Type {
	case EventHoverStart:
		if c.OnHoverStart != nil {
			c.OnHoverStart(ev)
		}
	case EventHoverEnd:
		if c.OnHoverEnd != nil {
			c.OnHoverEnd(ev)
		}
	case EventTap:
		if c.OnTap != nil {
			c.OnTap(ev)
		}
	case EventDragStart:
		if c.OnDragStart != nil {
			c.OnDragStart(ev)
		}
	case EventDrag:
		if c.OnDrag != nil {
			c.OnDrag(ev)
		}
	case EventDragEnd:
		if c.OnDragEnd != nil {
			c.OnDragEnd(ev)
		}
	case EventPinch:
		if c.OnPinch != nil {
			c.OnPinch(ev.Scale)
		}
	case EventRotation:
		if c.OnRotation != nil {
			c.OnRotation(ev.Rotation)
		}
	case EventGesture, EventGestureEnd:
		if c.OnGesture != nil {
			c.OnGesture(ev)
		}
	}
}

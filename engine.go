package motion

import (
	"math"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// --- Constants ---

const (
	defaultMaxDt       = 0.1 // s; longer frames are clamped
	parallelThreshold  = 64  // fewer elements than this always step serially
	defaultElementsCap = 64
)

// EngineConfig configures an Engine. Zero fields take their defaults.
type EngineConfig struct {
	// MaxDt clamps long frames, in seconds. Zero means 0.1.
	MaxDt float64
	// Parallel steps controllers of different elements concurrently.
	// Write-back and callbacks stay serial.
	Parallel bool
	// Mode is the transform serialization for elements that do not set
	// their own.
	Mode TransformMode
	// Gesture configures the engine-wide multi-touch recognizer that
	// handles touches not captured by an element's own recognizer.
	Gesture GestureConfig
	// Layout configures FLIP animations for elements mounted with Layout.
	Layout LayoutConfig
	// Presence is the mode of the engine's presence set.
	Presence PresenceMode
	// DragDeadZone is the pointer travel in px before a drag starts.
	DragDeadZone float64
}

// DefaultEngineConfig returns the defaults used by NewEngine for zero
// fields.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		MaxDt:        defaultMaxDt,
		Mode:         TransformAuto,
		Gesture:      DefaultGestureConfig(),
		Layout:       DefaultLayoutConfig(),
		Presence:     PresenceSync,
		DragDeadZone: defaultDragDeadZone,
	}
}

// StyleWriter receives the write-back of every element that changed, once
// per element per tick, after all animations stepped.
type StyleWriter interface {
	WriteFrame(f Frame)
}

// StyleWriterFunc adapts a func to a StyleWriter.
type StyleWriterFunc func(f Frame)

// WriteFrame calls fn(f).
func (fn StyleWriterFunc) WriteFrame(f Frame) { fn(f) }

type timelineBinding struct {
	elements []ElementID
	step     int
}

type pendingEvent struct {
	el *Element
	ev Event
}

// Engine owns every mounted element and drives them from an external frame
// clock. All methods must be called from the goroutine that calls Tick.
type Engine struct {
	cfg      EngineConfig
	elements map[ElementID]*Element
	order    []ElementID
	nextID   ElementID
	writer   StyleWriter
	store    EventSink
	debug    bool

	timelines *TimelineManager
	bindings  map[string]*timelineBinding
	layout    *LayoutTracker
	presence  *Presence

	// Input state
	handlers    handlerRegistry
	pointer     pointerState
	touch       *MultiTouchRecognizer
	touchTarget ElementID
	touchIDs    map[uint64]bool
	input       []inputEvent
	injectQueue []inputEvent
	runner      *ScriptRunner
	clockMS     float64

	pending []pendingEvent
	frame   uint64
	stats   debugStats
}

// NewEngine returns an engine with no elements.
func NewEngine(cfg EngineConfig) *Engine {
	def := DefaultEngineConfig()
	if !(cfg.MaxDt > 0) {
		cfg.MaxDt = def.MaxDt
	}
	if cfg.Gesture == (GestureConfig{}) {
		cfg.Gesture = def.Gesture
	}
	if cfg.Layout == (LayoutConfig{}) {
		cfg.Layout = def.Layout
	}
	if cfg.DragDeadZone <= 0 {
		cfg.DragDeadZone = def.DragDeadZone
	}
	e := &Engine{
		cfg:       cfg,
		elements:  make(map[ElementID]*Element, defaultElementsCap),
		order:     make([]ElementID, 0, defaultElementsCap),
		timelines: NewTimelineManager(),
		bindings:  make(map[string]*timelineBinding),
		layout:    NewLayoutTracker(cfg.Layout),
		touch:     NewMultiTouchRecognizer(cfg.Gesture),
		touchIDs:  make(map[uint64]bool),
	}
	e.wireRecognizer(e.touch, nil)
	return e
}

// Config returns the effective configuration.
func (e *Engine) Config() EngineConfig { return e.cfg }

// SetStyleWriter sets the write-back target.
func (e *Engine) SetStyleWriter(w StyleWriter) { e.writer = w }

// SetEventSink sets the optional event bridge.
func (e *Engine) SetEventSink(sink EventSink) { e.store = sink }

// SetDebugMode enables or disables debug mode. When enabled, per-tick stats
// and warnings are printed to stderr.
func (e *Engine) SetDebugMode(enabled bool) { e.debug = enabled }

// Timelines returns the engine's timeline manager.
func (e *Engine) Timelines() *TimelineManager { return e.timelines }

// Layout returns the engine's layout tracker.
func (e *Engine) Layout() *LayoutTracker { return e.layout }

// Recognizer returns the engine-wide multi-touch recognizer.
func (e *Engine) Recognizer() *MultiTouchRecognizer { return e.touch }

// Frame returns the number of ticks run so far.
func (e *Engine) Frame() uint64 { return e.frame }

// --- Elements ---

// Mount adds an element. Initial (or InitialVariant) is applied at once;
// Animate (or AnimateVariant) is dispatched on the next tick.
func (e *Engine) Mount(cfg ElementConfig) (*Element, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	id := cfg.ID
	if id == 0 {
		id = e.allocID()
	} else if _, taken := e.elements[id]; taken {
		return nil, invalidValue("id", "element %d is already mounted", id)
	}
	el := newElement(e, id, cfg)
	if len(cfg.Initial) > 0 {
		_ = el.ctrl.Set(cfg.Initial)
	}
	if cfg.InitialVariant != "" {
		if v, ok := el.vars.Set(cfg.InitialVariant); ok {
			_ = el.ctrl.Set(v.Target)
		}
	}
	if len(cfg.Animate) > 0 {
		if err := el.AnimateTo(cfg.Animate, nil); err != nil {
			return nil, err
		}
	}
	if cfg.AnimateVariant != "" {
		_ = el.SetVariant(cfg.AnimateVariant)
	}
	if cfg.Layout {
		e.layout.Measure(id, cfg.Bounds)
	}
	e.elements[id] = el
	e.order = append(e.order, id)
	if e.debug {
		debugCheckElementCount(len(e.order))
	}
	return el, nil
}

func (e *Engine) allocID() ElementID {
	for {
		e.nextID++
		if _, taken := e.elements[e.nextID]; !taken && e.nextID != 0 {
			return e.nextID
		}
	}
}

// Unmount removes an element and cancels its animations. Events already
// queued for it are dropped.
func (e *Engine) Unmount(id ElementID) bool {
	el, ok := e.elements[id]
	if !ok {
		return false
	}
	el.ctrl.Stop()
	el.unmounted = true
	delete(e.elements, id)
	for i, oid := range e.order {
		if oid == id {
			e.order = append(e.order[:i], e.order[i+1:]...)
			break
		}
	}
	e.layout.Forget(id)
	for _, b := range e.bindings {
		b.elements = removeElementID(b.elements, id)
	}
	e.pointer.forget(id)
	if e.touchTarget == id {
		e.touchTarget = 0
	}
	return true
}

func removeElementID(s []ElementID, id ElementID) []ElementID {
	for i := range s {
		if s[i] == id {
			copy(s[i:], s[i+1:])
			return s[:len(s)-1]
		}
	}
	return s
}

// Element returns the mounted element with the given id.
func (e *Engine) Element(id ElementID) (*Element, bool) {
	el, ok := e.elements[id]
	return el, ok
}

// Elements returns the ids of every mounted element in mount order.
func (e *Engine) Elements() []ElementID {
	return append([]ElementID(nil), e.order...)
}

// AnimateTo queues a run for one element.
func (e *Engine) AnimateTo(id ElementID, target Target, tr *Transition) error {
	el, ok := e.elements[id]
	if !ok {
		return invalidValue("id", "element %d is not mounted", id)
	}
	return el.AnimateTo(target, tr)
}

// SetVariant queues a variant for one element.
func (e *Engine) SetVariant(id ElementID, name string) error {
	el, ok := e.elements[id]
	if !ok {
		return invalidValue("id", "element %d is not mounted", id)
	}
	return el.SetVariant(name)
}

// AnimateGroup queues the same run for several elements, offsetting each
// element's delay by the transition's stagger.
func (e *Engine) AnimateGroup(ids []ElementID, target Target, tr Transition) error {
	if err := tr.Validate(); err != nil {
		return err
	}
	for i, id := range ids {
		el, ok := e.elements[id]
		if !ok {
			return invalidValue("id", "element %d is not mounted", id)
		}
		t := tr
		if tr.Stagger != nil {
			t.Delay += tr.Stagger.DelayFor(i, len(ids))
		}
		t.Stagger = nil
		if err := el.AnimateTo(target, &t); err != nil {
			return err
		}
	}
	return nil
}

// PlayKeyframes drives an element from a keyframe track. With loop set the
// track wraps at its end; otherwise it holds its last frame.
func (e *Engine) PlayKeyframes(id ElementID, track *KeyframeTrack, loop bool) error {
	el, ok := e.elements[id]
	if !ok {
		return invalidValue("id", "element %d is not mounted", id)
	}
	el.track = track
	el.trackTime = 0
	el.trackLoop = loop
	el.trackPlaying = true
	return el.ctrl.Set(track.Sample(0))
}

// UpdateLayout reports an element's new layout box. Elements mounted with
// Layout animate the change with a FLIP.
func (e *Engine) UpdateLayout(id ElementID, b Bounds) error {
	el, ok := e.elements[id]
	if !ok {
		return invalidValue("id", "element %d is not mounted", id)
	}
	el.bounds = b
	if !el.cfg.Layout {
		return nil
	}
	if f, started := e.layout.Measure(id, b); started && e.debug {
		e.warn("element %d: layout flip %.1fx%.1f -> %.1fx%.1f", id,
			f.Initial.X, f.Initial.Y, f.Final.X, f.Final.Y)
	}
	return nil
}

// BindTimeline makes the bound elements animate to each step's target as
// the player reaches it.
func (e *Engine) BindTimeline(playerID string, ids ...ElementID) error {
	if _, ok := e.timelines.Player(playerID); !ok {
		return invalidValue("player", "no timeline player %q", playerID)
	}
	b, ok := e.bindings[playerID]
	if !ok {
		b = &timelineBinding{step: -1}
		e.bindings[playerID] = b
	}
	for _, id := range ids {
		if _, ok := e.elements[id]; !ok {
			return invalidValue("id", "element %d is not mounted", id)
		}
		b.elements = append(b.elements, id)
	}
	return nil
}

// --- Presence ---

// UsePresence returns the engine's presence set, creating it on first use.
// factory builds the element config for a key; the engine mounts it on
// enter, plays its Exit target on removal, and unmounts it once the exit
// finished, emitting EventSafeToUnmount.
func (e *Engine) UsePresence(factory func(key string) ElementConfig) *Presence {
	if e.presence != nil {
		return e.presence
	}
	p := NewPresence(e.cfg.Presence)
	p.Enter = func(key string) (ElementID, error) {
		cfg := factory(key)
		cfg.Key = key
		el, err := e.Mount(cfg)
		if err != nil {
			return 0, err
		}
		return el.id, nil
	}
	p.Exit = func(key string, id ElementID) func() bool {
		el, ok := e.elements[id]
		if !ok {
			return func() bool { return true }
		}
		return el.exit()
	}
	p.OnSafeToUnmount = func(key string, id ElementID) {
		e.Unmount(id)
		e.dispatch(nil, Event{Type: EventSafeToUnmount, Element: id, Key: key})
	}
	e.presence = p
	return p
}

// --- Tick ---

// Tick advances every element by dt seconds. Non-positive or non-finite dt
// is ignored; dt above MaxDt is clamped.
//
// Within a tick: script and input, timelines, gesture momentum, variants,
// queued runs, keyframes and FLIP layers, controller steps, write-back,
// then callbacks and events.
func (e *Engine) Tick(dt float64) error {
	if !(dt > 0) || math.IsInf(dt, 1) {
		return nil
	}
	if dt > e.cfg.MaxDt {
		dt = e.cfg.MaxDt
	}
	e.frame++
	e.clockMS += dt * 1000

	e.stats = debugStats{}
	var t0 time.Time
	if e.debug {
		t0 = time.Now()
	}

	if e.runner != nil {
		e.runner.step(e)
	}
	e.processInput()

	e.updateTimelines(dt)
	e.updateGestures(dt)

	for _, id := range e.order {
		e.elements[id].flush()
	}

	e.updateTracks(dt)
	e.layout.Step(dt, func(id ElementID, t Transform3D) {
		if el, ok := e.elements[id]; ok {
			el.ctrl.SetLayoutTransform(t)
		}
	})

	if e.debug {
		e.stats.inputTime = time.Since(t0)
		t0 = time.Now()
	}

	if err := e.stepControllers(dt); err != nil {
		return err
	}

	if e.debug {
		e.stats.stepTime = time.Since(t0)
		t0 = time.Now()
	}

	for _, id := range e.order {
		c := e.elements[id].ctrl
		if !c.Dirty() {
			continue
		}
		if e.writer != nil {
			e.writer.WriteFrame(c.Frame())
		}
		e.stats.frames++
	}

	if e.debug {
		e.stats.writeTime = time.Since(t0)
		for _, id := range e.order {
			c := e.elements[id].ctrl
			e.stats.animators += c.animatorCount()
			if c.IsAnimating() {
				e.stats.animating++
			}
		}
	}

	// Callbacks may unmount elements, which shifts e.order.
	for _, id := range append([]ElementID(nil), e.order...) {
		if el, ok := e.elements[id]; ok {
			el.ctrl.DispatchCallbacks()
		}
	}
	pending := e.pending
	e.pending = nil
	for _, p := range pending {
		if p.el != nil && p.el.unmounted {
			continue
		}
		e.dispatch(p.el, p.ev)
	}
	if e.presence != nil {
		if err := e.presence.Update(); err != nil {
			return err
		}
	}

	if e.debug {
		e.stats.elements = len(e.order)
		e.debugLog()
	}
	return nil
}

func (e *Engine) updateTimelines(dt float64) {
	done := e.timelines.UpdateAll(dt)
	for pid, b := range e.bindings {
		p, ok := e.timelines.Player(pid)
		if !ok {
			delete(e.bindings, pid)
			continue
		}
		idx := p.CurrentStepIndex()
		if idx == b.step {
			continue
		}
		b.step = idx
		step, ok := p.CurrentStep()
		if !ok {
			continue
		}
		tr := step.transition()
		for _, id := range b.elements {
			if el, ok := e.elements[id]; ok {
				_ = el.AnimateTo(step.Target, &tr)
			}
		}
	}
	for _, pid := range done {
		e.emit(nil, Event{Type: EventTimelineComplete, Key: pid})
	}
}

func (e *Engine) updateGestures(dt float64) {
	e.touch.Advance(dt)
	for _, id := range e.order {
		el := e.elements[id]
		if el.touch != nil {
			el.touch.Advance(dt)
		}
		if el.drag == nil || el.dragging {
			continue
		}
		switch el.drag.Phase() {
		case DragMomentum, DragSettling:
			pos, _ := el.drag.Step(dt)
			el.setDragOffset(pos)
		}
	}
}

func (e *Engine) updateTracks(dt float64) {
	for _, id := range e.order {
		el := e.elements[id]
		if !el.trackPlaying || el.track == nil {
			continue
		}
		el.trackTime += dt
		d := el.track.Duration()
		if el.trackTime >= d {
			if el.trackLoop && d > 0 {
				el.trackTime = math.Mod(el.trackTime, d)
			} else {
				el.trackTime = d
				el.trackPlaying = false
			}
		}
		_ = el.ctrl.Set(el.track.Sample(el.trackTime))
	}
}

// stepControllers advances every controller. Controllers of different
// elements share no state, so with Parallel set they step on an errgroup.
func (e *Engine) stepControllers(dt float64) error {
	if !e.cfg.Parallel || len(e.order) < parallelThreshold {
		for _, id := range e.order {
			e.elements[id].ctrl.Step(dt)
		}
		return nil
	}
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, id := range e.order {
		c := e.elements[id].ctrl
		g.Go(func() error {
			c.Step(dt)
			return nil
		})
	}
	return g.Wait()
}

// --- Events ---

// emit queues an event until the callback phase of the current tick.
func (e *Engine) emit(el *Element, ev Event) {
	e.pending = append(e.pending, pendingEvent{el: el, ev: ev})
}

// dispatch delivers an event: engine-level handlers first, then the
// element's own callback, then the event sink.
func (e *Engine) dispatch(el *Element, ev Event) {
	e.stats.events++
	for _, h := range e.handlers.byType(ev.Type) {
		h.fn(ev)
	}
	if el != nil {
		el.callback(ev)
	}
	if e.store != nil {
		e.store.EmitEvent(ev)
	}
}

// wireRecognizer routes a recognizer's callbacks to events for el, or to
// engine-level events when el is nil.
func (e *Engine) wireRecognizer(r *MultiTouchRecognizer, el *Element) {
	var id ElementID
	if el != nil {
		id = el.id
	}
	r.OnPinch = func(scale float64) {
		st := r.State()
		e.emit(el, Event{Type: EventPinch, Element: id, X: st.Center.X, Y: st.Center.Y,
			Scale: scale, Rotation: st.TotalRotation, Gesture: st.GestureType, Confidence: r.Confidence()})
	}
	r.OnRotation = func(angle float64) {
		st := r.State()
		e.emit(el, Event{Type: EventRotation, Element: id, X: st.Center.X, Y: st.Center.Y,
			Scale: st.TotalScale, Rotation: angle, Gesture: st.GestureType, Confidence: r.Confidence()})
	}
	r.OnGesture = func(res GestureResult) {
		e.emit(el, gestureEvent(EventGesture, id, res))
	}
	r.OnGestureEnd = func(res GestureResult) {
		e.emit(el, gestureEvent(EventGestureEnd, id, res))
	}
}

func gestureEvent(t EventType, id ElementID, res GestureResult) Event {
	return Event{
		Type: t, Element: id,
		X: res.Center.X, Y: res.Center.Y,
		Scale: res.Scale, Rotation: res.Rotation,
		Gesture: res.Type, Confidence: res.Confidence,
	}
}

// --- Hit testing ---

// HitTest returns the topmost element whose transformed box contains the
// point, or zero. Later mounts are on top. Transforms pivot on the box
// center.
func (e *Engine) HitTest(x, y float64) ElementID {
	for i := len(e.order) - 1; i >= 0; i-- {
		el := e.elements[e.order[i]]
		if el.exiting || (el.bounds.Width == 0 && el.bounds.Height == 0) {
			continue
		}
		t := el.ctrl.Frame().TransformRecord
		c := el.bounds.Center()
		lx, ly := transformPoint(invertAffine(t.Matrix2D(c.X, c.Y)), x, y)
		if el.bounds.Contains(lx, ly) {
			return el.id
		}
	}
	return 0
}

package motion

import (
	"math"
	"sort"
)

// --- Constants ---

const (
	defaultMinConfidence = 0.3
	baseAngleThreshold   = 0.1 // radians at sensitivity 0.5
	maxGestureTouches    = 5.0 // touch count that saturates the touch factor
)

// GestureConfig enables and tunes multi-touch recognition. MinDistance is in
// px, TimeoutMS in milliseconds, Sensitivity in (0, 1].
type GestureConfig struct {
	BasicGestures bool    `yaml:"basicGestures"`
	MultiTouch    bool    `yaml:"multiTouch"`
	PinchToZoom   bool    `yaml:"pinchToZoom"`
	Rotation      bool    `yaml:"rotation"`
	Sensitivity   float64 `yaml:"sensitivity"`
	MinDistance   float64 `yaml:"minDistance"`
	MaxTouches    int     `yaml:"maxTouches"`
	TimeoutMS     float64 `yaml:"timeoutMs"`
}

// DefaultGestureConfig enables everything with sensitivity 0.5, a 10 px
// minimum distance, five touches and a 300 ms timeout.
func DefaultGestureConfig() GestureConfig {
	return GestureConfig{
		BasicGestures: true,
		MultiTouch:    true,
		PinchToZoom:   true,
		Rotation:      true,
		Sensitivity:   0.5,
		MinDistance:   10,
		MaxTouches:    5,
		TimeoutMS:     300,
	}
}

// sensitivityScale maps sensitivity onto a threshold multiplier: 1 at the
// default of 0.5, smaller thresholds for higher sensitivity.
func (c GestureConfig) sensitivityScale() float64 {
	s := c.Sensitivity
	if !(s > 0) {
		s = 0.5
	}
	return 0.5 / math.Min(math.Max(s, 0.05), 1)
}

func (c GestureConfig) scaleThreshold() float64 {
	return c.MinDistance / 1000 * c.sensitivityScale()
}

func (c GestureConfig) angleThreshold() float64 {
	return baseAngleThreshold * c.sensitivityScale()
}

// TouchPoint is one finger. Timestamp is in milliseconds on the host clock.
type TouchPoint struct {
	ID        uint64
	X, Y      float64
	Pressure  float64
	Timestamp float64
}

// TouchPhase says which part of a touch sequence an event belongs to.
type TouchPhase uint8

const (
	TouchStart TouchPhase = iota
	TouchMove
	TouchEnd
)

// TouchEvent is a normalized touch event. For TouchStart and TouchEnd,
// Touches lists the fingers that went down or up; for TouchMove it lists
// the fingers that moved.
type TouchEvent struct {
	Phase   TouchPhase
	Touches []TouchPoint
}

// MultiTouchGestureType classifies a multi-touch gesture.
type MultiTouchGestureType uint8

const (
	GestureNone MultiTouchGestureType = iota
	GesturePinch
	GestureRotation
	GesturePinchAndRotate
	GestureMultiTap
	GestureMultiSwipe
)

var gestureTypeNames = [...]string{
	GestureNone:           "none",
	GesturePinch:          "pinch",
	GestureRotation:       "rotation",
	GesturePinchAndRotate: "pinchAndRotate",
	GestureMultiTap:       "multiTap",
	GestureMultiSwipe:     "multiSwipe",
}

// String returns the gesture's name.
func (g MultiTouchGestureType) String() string {
	if int(g) < len(gestureTypeNames) {
		return gestureTypeNames[g]
	}
	return "gesture"
}

// typeWeight is the classification specificity term of the confidence.
func (g MultiTouchGestureType) typeWeight() float64 {
	switch g {
	case GesturePinchAndRotate:
		return 0.5
	case GesturePinch, GestureRotation:
		return 0.4
	case GestureMultiTap, GestureMultiSwipe:
		return 0.3
	}
	return 0.1
}

// MultiTouchState is the recognizer's view of the fingers. Scale and
// Rotation are relative to the previous event; TotalScale and
// TotalRotation are relative to the start of the gesture.
type MultiTouchState struct {
	Touches         map[uint64]TouchPoint
	Center          Vec2
	AverageDistance float64
	Scale           float64
	Rotation        float64
	TotalScale      float64
	TotalRotation   float64
	GestureType     MultiTouchGestureType
	Active          bool
}

// GestureResult is returned for every event fed to the recognizer.
type GestureResult struct {
	Recognized bool
	Type       MultiTouchGestureType
	Confidence float64
	Scale      float64
	Rotation   float64
	Center     Vec2
	Completed  bool
}

// MultiTouchRecognizer turns raw touch events into pinch, rotation, tap and
// swipe gestures with a confidence score.
type MultiTouchRecognizer struct {
	Config        GestureConfig
	MinConfidence float64

	state      MultiTouchState
	prevDist   float64
	prevAngle  float64
	startDist  float64
	startAngle float64
	startCtr   Vec2
	startTime  float64
	lastTime   float64
	idle       float64
	confidence float64

	// OnPinch receives the scale relative to the start of the gesture.
	OnPinch func(scale float64)
	// OnRotation receives the rotation in radians relative to the start.
	OnRotation func(angle float64)
	// OnGesture receives every recognized result.
	OnGesture func(GestureResult)
	// OnGestureEnd fires when an active gesture loses its second finger.
	OnGestureEnd func(GestureResult)
}

// NewMultiTouchRecognizer returns an idle recognizer.
func NewMultiTouchRecognizer(cfg GestureConfig) *MultiTouchRecognizer {
	r := &MultiTouchRecognizer{Config: cfg, MinConfidence: defaultMinConfidence}
	r.reset()
	return r
}

// State returns a copy of the current multi-touch state.
func (r *MultiTouchRecognizer) State() MultiTouchState {
	s := r.state
	s.Touches = make(map[uint64]TouchPoint, len(r.state.Touches))
	for id, t := range r.state.Touches {
		s.Touches[id] = t
	}
	return s
}

// Active reports whether two or more fingers are being tracked.
func (r *MultiTouchRecognizer) Active() bool { return r.state.Active }

// Confidence returns the latest confidence score.
func (r *MultiTouchRecognizer) Confidence() float64 { return r.confidence }

func (r *MultiTouchRecognizer) reset() {
	r.state = MultiTouchState{Touches: make(map[uint64]TouchPoint), Scale: 1, TotalScale: 1}
	r.prevDist, r.prevAngle = 0, 0
	r.startDist, r.startAngle = 0, 0
	r.idle = 0
	r.confidence = 0
}

// Handle feeds one event and returns the gesture it produced. More fingers
// than Config.MaxTouches, or a start for a finger that is already down (its
// end was dropped), reset the recognizer and return
// ErrGestureCapacityExceeded or an unrecognized result.
func (r *MultiTouchRecognizer) Handle(ev TouchEvent) (GestureResult, error) {
	if !r.Config.MultiTouch {
		return GestureResult{Scale: 1}, nil
	}
	switch ev.Phase {
	case TouchStart:
		return r.touchStart(ev.Touches)
	case TouchMove:
		return r.touchMove(ev.Touches), nil
	case TouchEnd:
		return r.touchEnd(ev.Touches), nil
	}
	return GestureResult{Scale: 1}, nil
}

func (r *MultiTouchRecognizer) touchStart(touches []TouchPoint) (GestureResult, error) {
	for _, t := range touches {
		if _, dup := r.state.Touches[t.ID]; dup {
			r.reset()
			return GestureResult{Scale: 1}, nil
		}
	}
	if len(r.state.Touches)+len(touches) > r.Config.MaxTouches {
		r.reset()
		return GestureResult{Scale: 1}, ErrGestureCapacityExceeded
	}
	for _, t := range touches {
		r.state.Touches[t.ID] = t
		r.lastTime = math.Max(r.lastTime, t.Timestamp)
	}
	if len(r.state.Touches) < 2 {
		return GestureResult{Scale: 1}, nil
	}
	r.begin()
	return r.result(), nil
}

// begin (re)anchors the gesture on the current fingers.
func (r *MultiTouchRecognizer) begin() {
	r.state.Active = true
	r.state.GestureType = GestureNone
	r.state.Scale, r.state.TotalScale = 1, 1
	r.state.Rotation, r.state.TotalRotation = 0, 0
	r.measure()
	r.prevDist, r.startDist = r.state.AverageDistance, r.state.AverageDistance
	r.prevAngle = r.pairAngle()
	r.startAngle = r.prevAngle
	r.startCtr = r.state.Center
	r.startTime = r.lastTime
	r.idle = 0
	r.confidence = r.touchFactor() + GestureNone.typeWeight()
}

func (r *MultiTouchRecognizer) touchMove(touches []TouchPoint) GestureResult {
	if !r.state.Active {
		for _, t := range touches {
			if _, ok := r.state.Touches[t.ID]; ok {
				r.state.Touches[t.ID] = t
			}
		}
		return GestureResult{Scale: 1}
	}
	for _, t := range touches {
		if _, ok := r.state.Touches[t.ID]; ok {
			r.state.Touches[t.ID] = t
			r.lastTime = math.Max(r.lastTime, t.Timestamp)
		}
	}
	r.idle = 0
	r.measure()
	angle := r.pairAngle()
	if r.prevDist > 0 {
		r.state.Scale = r.state.AverageDistance / r.prevDist
	} else {
		r.state.Scale = 1
	}
	r.state.Rotation = normalizeAngle(angle - r.prevAngle)
	if r.startDist > 0 {
		r.state.TotalScale = r.state.AverageDistance / r.startDist
	}
	r.state.TotalRotation = normalizeAngle(angle - r.startAngle)

	distChange := math.Abs(r.state.AverageDistance - r.prevDist)
	r.classify()
	r.confidence = r.touchFactor() + r.state.GestureType.typeWeight()
	if distChange < r.Config.MinDistance {
		r.confidence += 0.2
	}
	r.confidence = clamp01(r.confidence)

	r.prevDist = r.state.AverageDistance
	r.prevAngle = angle

	res := r.result()
	if res.Recognized {
		r.dispatch(res)
	}
	return res
}

func (r *MultiTouchRecognizer) touchEnd(touches []TouchPoint) GestureResult {
	wasActive := r.state.Active
	final := r.result()
	for _, t := range touches {
		delete(r.state.Touches, t.ID)
	}
	if len(r.state.Touches) >= 2 {
		r.begin()
		return r.result()
	}
	if wasActive {
		final.Completed = true
		if r.OnGestureEnd != nil {
			r.OnGestureEnd(final)
		}
	}
	remaining := r.state.Touches
	r.reset()
	r.state.Touches = remaining
	if wasActive {
		return final
	}
	return GestureResult{Scale: 1}
}

// Advance accounts for dt seconds without movement. An active gesture that
// sees no TouchMove within Config.TimeoutMS resets to idle.
func (r *MultiTouchRecognizer) Advance(dt float64) {
	if !r.state.Active || !(dt > 0) {
		return
	}
	r.idle += dt
	if r.Config.TimeoutMS > 0 && r.idle*1000 > r.Config.TimeoutMS {
		remaining := r.state.Touches
		r.reset()
		r.state.Touches = remaining
	}
}

// classify picks the gesture type from the per-event scale and rotation.
func (r *MultiTouchRecognizer) classify() {
	pinch := r.Config.PinchToZoom && math.Abs(r.state.Scale-1) > r.Config.scaleThreshold()
	rotate := r.Config.Rotation && math.Abs(r.state.Rotation) > r.Config.angleThreshold()
	switch {
	case pinch && rotate:
		r.state.GestureType = GesturePinchAndRotate
	case pinch:
		r.state.GestureType = GesturePinch
	case rotate:
		r.state.GestureType = GestureRotation
	default:
		moved := math.Hypot(r.state.Center.X-r.startCtr.X, r.state.Center.Y-r.startCtr.Y)
		elapsed := r.lastTime - r.startTime
		if elapsed < r.Config.TimeoutMS && moved < r.Config.MinDistance {
			r.state.GestureType = GestureMultiTap
		} else {
			r.state.GestureType = GestureMultiSwipe
		}
	}
}

func (r *MultiTouchRecognizer) dispatch(res GestureResult) {
	if r.OnGesture != nil {
		r.OnGesture(res)
	}
	switch res.Type {
	case GesturePinch:
		if r.OnPinch != nil {
			r.OnPinch(r.state.TotalScale)
		}
	case GestureRotation:
		if r.OnRotation != nil {
			r.OnRotation(r.state.TotalRotation)
		}
	case GesturePinchAndRotate:
		if r.OnPinch != nil {
			r.OnPinch(r.state.TotalScale)
		}
		if r.OnRotation != nil {
			r.OnRotation(r.state.TotalRotation)
		}
	}
}

func (r *MultiTouchRecognizer) result() GestureResult {
	res := GestureResult{
		Type:       r.state.GestureType,
		Confidence: r.confidence,
		Scale:      r.state.TotalScale,
		Rotation:   r.state.TotalRotation,
		Center:     r.state.Center,
	}
	res.Recognized = r.state.Active && res.Type != GestureNone && res.Confidence >= r.MinConfidence
	return res
}

func (r *MultiTouchRecognizer) touchFactor() float64 {
	return math.Min(float64(len(r.state.Touches))/maxGestureTouches, 1) * 0.3
}

// measure recomputes the center and the average distance of every finger
// from it.
func (r *MultiTouchRecognizer) measure() {
	n := float64(len(r.state.Touches))
	if n == 0 {
		return
	}
	var cx, cy float64
	for _, t := range r.state.Touches {
		cx += t.X
		cy += t.Y
	}
	cx /= n
	cy /= n
	var d float64
	for _, t := range r.state.Touches {
		d += math.Hypot(t.X-cx, t.Y-cy)
	}
	r.state.Center = Vec2{X: cx, Y: cy}
	r.state.AverageDistance = d / n
}

// pairAngle is the angle of the line between the two lowest touch ids.
func (r *MultiTouchRecognizer) pairAngle() float64 {
	if len(r.state.Touches) < 2 {
		return 0
	}
	ids := make([]uint64, 0, len(r.state.Touches))
	for id := range r.state.Touches {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	a, b := r.state.Touches[ids[0]], r.state.Touches[ids[1]]
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// normalizeAngle wraps a into (-π, π].
func normalizeAngle(a float64) float64 {
	for a > math.Pi {
		a -= 2 * math.Pi
	}
	for a <= -math.Pi {
		a += 2 * math.Pi
	}
	return a
}

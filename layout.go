package motion

import "math"

// LayoutConfig controls automatic FLIP animations for elements mounted with
// Layout enabled.
type LayoutConfig struct {
	Duration  float64 `yaml:"duration"`
	Easing    Easing  `yaml:"ease"`
	Threshold float64 `yaml:"threshold"` // px of change below which a move is ignored
}

// DefaultLayoutConfig returns 0.3 s ease-in-out with a half-pixel threshold.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{Duration: 0.3, Easing: Ease(EaseInOut), Threshold: 0.5}
}

// LayoutTracker remembers each element's last measured bounds and starts a
// FLIP when they change.
type LayoutTracker struct {
	cfg    LayoutConfig
	last   map[ElementID]Bounds
	active map[ElementID]*FlipAnimation
}

// NewLayoutTracker returns a tracker using cfg.
func NewLayoutTracker(cfg LayoutConfig) *LayoutTracker {
	return &LayoutTracker{
		cfg:    cfg,
		last:   make(map[ElementID]Bounds),
		active: make(map[ElementID]*FlipAnimation),
	}
}

// Measure records b as the element's new layout. When it moved or resized
// by more than the threshold, a FLIP from the previous position is started
// and returned. If a FLIP was already running, the new one starts from
// where the element currently appears so the motion stays continuous.
func (l *LayoutTracker) Measure(id ElementID, b Bounds) (*FlipAnimation, bool) {
	prev, seen := l.last[id]
	l.last[id] = b
	if !seen || !l.changed(prev, b) {
		return nil, false
	}
	first := prev
	if running, ok := l.active[id]; ok && running.State() != FlipCompleted {
		first = running.VisualBounds()
	}
	f, err := NewFlip(first, b, l.cfg.Duration, l.cfg.Easing)
	if err != nil {
		return nil, false
	}
	f.Play()
	l.active[id] = f
	return f, true
}

func (l *LayoutTracker) changed(a, b Bounds) bool {
	d := math.Max(math.Max(math.Abs(a.X-b.X), math.Abs(a.Y-b.Y)),
		math.Max(math.Abs(a.Width-b.Width), math.Abs(a.Height-b.Height)))
	return d > l.cfg.Threshold
}

// Step advances every running FLIP and calls apply with its transform.
// Finished FLIPs are dropped after their final identity is applied.
func (l *LayoutTracker) Step(dt float64, apply func(ElementID, Transform3D)) {
	for id, f := range l.active {
		t, done := f.Step(dt)
		apply(id, t)
		if done {
			delete(l.active, id)
		}
	}
}

// Bounds returns the last measured layout of an element.
func (l *LayoutTracker) Bounds(id ElementID) (Bounds, bool) {
	b, ok := l.last[id]
	return b, ok
}

// Active returns the running FLIP of an element.
func (l *LayoutTracker) Active(id ElementID) (*FlipAnimation, bool) {
	f, ok := l.active[id]
	return f, ok
}

// Forget drops everything known about an element.
func (l *LayoutTracker) Forget(id ElementID) {
	delete(l.last, id)
	delete(l.active, id)
}

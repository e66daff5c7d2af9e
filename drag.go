package motion

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// --- Constants ---

const (
	defaultFriction  = 0.95 // velocity kept per 60 Hz frame
	minMomentumSpeed = 1.0  // px/s below which momentum stops
	snapFrequency    = 8.0  // harmonica angular frequency for snap-back
	snapDamping      = 1.0  // critically damped
	snapRestDelta    = 0.01
)

// DragAxis restricts which coordinates a drag may change.
type DragAxis uint8

const (
	DragBoth DragAxis = iota
	DragX
	DragY
)

// DragConstraints bounds the dragged offset. A nil side is unbounded.
type DragConstraints struct {
	Left   *float64 `yaml:"left,omitempty"`
	Right  *float64 `yaml:"right,omitempty"`
	Top    *float64 `yaml:"top,omitempty"`
	Bottom *float64 `yaml:"bottom,omitempty"`
}

// Bound returns a pointer to v for use in DragConstraints.
func Bound(v float64) *float64 { return &v }

// DragConfig configures a draggable element. Elastic is the fraction of an
// overshoot past a constraint that is still shown (0 pins to the bound, 1
// ignores it). Friction is the velocity kept per 60 Hz frame during
// momentum; zero means 0.95.
type DragConfig struct {
	Axis        DragAxis        `yaml:"axis"`
	Constraints DragConstraints `yaml:"constraints"`
	Elastic     float64         `yaml:"elastic"`
	Momentum    bool            `yaml:"momentum"`
	Friction    float64         `yaml:"friction"`
}

// DefaultDragConfig drags on both axes without constraints, with 0.2
// elasticity and momentum.
func DefaultDragConfig() DragConfig {
	return DragConfig{Axis: DragBoth, Elastic: 0.2, Momentum: true, Friction: defaultFriction}
}

// Validate rejects elasticity outside [0, 1] and friction outside [0, 1).
func (c DragConfig) Validate() error {
	if !isFinite(c.Elastic) || c.Elastic < 0 || c.Elastic > 1 {
		return invalidValue("elastic", "must be in [0, 1], got %v", c.Elastic)
	}
	if !isFinite(c.Friction) || c.Friction < 0 || c.Friction >= 1 {
		return invalidValue("friction", "must be in [0, 1), got %v", c.Friction)
	}
	for _, b := range [...]*float64{c.Constraints.Left, c.Constraints.Right, c.Constraints.Top, c.Constraints.Bottom} {
		if b != nil && !isFinite(*b) {
			return invalidValue("constraints", "bounds must be finite")
		}
	}
	return nil
}

func (c DragConfig) friction() float64 {
	if c.Friction <= 0 {
		return defaultFriction
	}
	return c.Friction
}

// elastic maps a raw coordinate onto the displayed one: inside [lo, hi] it
// is unchanged, past a bound only Elastic of the overshoot remains.
func elastic(v float64, lo, hi *float64, e float64) float64 {
	if lo != nil && v < *lo {
		return *lo - (*lo-v)*e
	}
	if hi != nil && v > *hi {
		return *hi + (v-*hi)*e
	}
	return v
}

// clampBound pins v into [lo, hi].
func clampBound(v float64, lo, hi *float64) float64 {
	if lo != nil && v < *lo {
		return *lo
	}
	if hi != nil && v > *hi {
		return *hi
	}
	return v
}

// DragPhase is the lifecycle stage of a DragIntegrator.
type DragPhase uint8

const (
	DragIdle     DragPhase = iota
	DragActive             // following the pointer
	DragMomentum           // coasting after release
	DragSettling           // springing back inside the constraints
)

// DragIntegrator turns pointer movement into a constrained offset. While
// the pointer is down the offset follows it with elastic overshoot. After
// release it coasts with friction, then springs back inside the
// constraints.
type DragIntegrator struct {
	Config DragConfig

	phase  DragPhase
	origin Vec2 // offset when the drag started
	anchor Vec2 // pointer when the drag started
	raw    Vec2 // unconstrained offset
	pos    Vec2 // displayed offset
	vel    Vec2 // px/s
	lastMS float64

	snap    harmonica.Spring
	snapDt  float64
	snapVel Vec2
}

// NewDragIntegrator returns an idle integrator.
func NewDragIntegrator(cfg DragConfig) *DragIntegrator {
	return &DragIntegrator{Config: cfg}
}

// Start begins a drag with the pointer at p and the element's offset at
// offset. timeMS is the pointer sample time in milliseconds.
func (d *DragIntegrator) Start(p, offset Vec2, timeMS float64) {
	d.phase = DragActive
	d.anchor = p
	d.origin = offset
	d.raw = offset
	d.pos = offset
	d.vel = Vec2{}
	d.snapVel = Vec2{}
	d.lastMS = timeMS
}

// Move follows the pointer to p and returns the displayed offset.
func (d *DragIntegrator) Move(p Vec2, timeMS float64) Vec2 {
	if d.phase != DragActive {
		return d.pos
	}
	next := Vec2{X: d.origin.X + p.X - d.anchor.X, Y: d.origin.Y + p.Y - d.anchor.Y}
	switch d.Config.Axis {
	case DragX:
		next.Y = d.origin.Y
	case DragY:
		next.X = d.origin.X
	}
	if dt := (timeMS - d.lastMS) / 1000; dt > 0 {
		d.vel = Vec2{X: (next.X - d.raw.X) / dt, Y: (next.Y - d.raw.Y) / dt}
		d.lastMS = timeMS
	}
	d.raw = next
	d.pos = d.display(d.raw)
	return d.pos
}

// End releases the pointer. With momentum enabled the offset keeps
// coasting; otherwise it settles straight back inside the constraints.
func (d *DragIntegrator) End(timeMS float64) Vec2 {
	if d.phase != DragActive {
		return d.vel
	}
	if timeMS-d.lastMS > 100 {
		// The pointer rested before release.
		d.vel = Vec2{}
	}
	if d.Config.Momentum && math.Hypot(d.vel.X, d.vel.Y) >= minMomentumSpeed {
		d.phase = DragMomentum
	} else {
		d.beginSettle()
	}
	return d.vel
}

// Step advances momentum and snap-back by dt seconds. It returns the
// displayed offset and whether the integrator is still moving.
func (d *DragIntegrator) Step(dt float64) (Vec2, bool) {
	if !(dt > 0) {
		return d.pos, d.phase == DragMomentum || d.phase == DragSettling
	}
	switch d.phase {
	case DragMomentum:
		d.raw.X += d.vel.X * dt
		d.raw.Y += d.vel.Y * dt
		k := math.Pow(d.Config.friction(), dt*60)
		d.vel.X *= k
		d.vel.Y *= k
		d.pos = d.display(d.raw)
		if math.Hypot(d.vel.X, d.vel.Y) < minMomentumSpeed {
			d.vel = Vec2{}
			d.beginSettle()
		}
		return d.pos, true
	case DragSettling:
		target := d.clamped(d.pos)
		if d.snapDt != dt {
			d.snap = harmonica.NewSpring(dt, snapFrequency, snapDamping)
			d.snapDt = dt
		}
		d.pos.X, d.snapVel.X = d.snap.Update(d.pos.X, d.snapVel.X, target.X)
		d.pos.Y, d.snapVel.Y = d.snap.Update(d.pos.Y, d.snapVel.Y, target.Y)
		if math.Abs(d.pos.X-target.X) < snapRestDelta && math.Abs(d.pos.Y-target.Y) < snapRestDelta &&
			math.Hypot(d.snapVel.X, d.snapVel.Y) < snapRestDelta {
			d.pos = target
			d.raw = target
			d.snapVel = Vec2{}
			d.phase = DragIdle
			return d.pos, false
		}
		return d.pos, true
	}
	return d.pos, false
}

func (d *DragIntegrator) beginSettle() {
	d.raw = d.pos
	if d.clamped(d.pos) == d.pos {
		d.phase = DragIdle
		return
	}
	d.phase = DragSettling
	d.snapVel = Vec2{}
}

func (d *DragIntegrator) display(raw Vec2) Vec2 {
	c := d.Config.Constraints
	e := d.Config.Elastic
	return Vec2{
		X: elastic(raw.X, c.Left, c.Right, e),
		Y: elastic(raw.Y, c.Top, c.Bottom, e),
	}
}

func (d *DragIntegrator) clamped(p Vec2) Vec2 {
	c := d.Config.Constraints
	return Vec2{X: clampBound(p.X, c.Left, c.Right), Y: clampBound(p.Y, c.Top, c.Bottom)}
}

// Cancel stops any drag, momentum or snap-back where it is.
func (d *DragIntegrator) Cancel() {
	d.phase = DragIdle
	d.vel = Vec2{}
	d.snapVel = Vec2{}
	d.raw = d.pos
}

// Position returns the displayed offset.
func (d *DragIntegrator) Position() Vec2 { return d.pos }

// Offset returns the displayed offset relative to where the drag started.
func (d *DragIntegrator) Offset() Vec2 {
	return Vec2{X: d.pos.X - d.origin.X, Y: d.pos.Y - d.origin.Y}
}

// Velocity returns the pointer or momentum velocity in px/s.
func (d *DragIntegrator) Velocity() Vec2 { return d.vel }

// Phase returns the lifecycle stage.
func (d *DragIntegrator) Phase() DragPhase { return d.phase }

// Dragging reports whether the pointer is down.
func (d *DragIntegrator) Dragging() bool { return d.phase == DragActive }

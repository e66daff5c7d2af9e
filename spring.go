package motion

import "math"

// springSubstep is the largest integration step. Incoming dt is split into
// substeps no longer than this.
const springSubstep = 1.0 / 240

// maxSettleTime bounds SettleTime for configs that barely move.
const maxSettleTime = 10.0

// SpringConfig describes a damped harmonic oscillator. RestDelta and
// RestSpeed of zero mean "use the default" (0.01).
type SpringConfig struct {
	Stiffness float64 `yaml:"stiffness"`
	Damping   float64 `yaml:"damping"`
	Mass      float64 `yaml:"mass"`
	Velocity  float64 `yaml:"velocity,omitempty"`
	RestDelta float64 `yaml:"restDelta,omitempty"`
	RestSpeed float64 `yaml:"restSpeed,omitempty"`
}

// DefaultSpringConfig returns stiffness 100, damping 10, mass 1.
func DefaultSpringConfig() SpringConfig {
	return SpringConfig{
		Stiffness: 100,
		Damping:   10,
		Mass:      1,
		RestDelta: 0.01,
		RestSpeed: 0.01,
	}
}

// SpringPresets are named configurations usable from motion documents as
// "spring:<name>".
var SpringPresets = map[string]SpringConfig{
	"default": DefaultSpringConfig(),
	"gentle":  {Stiffness: 100, Damping: 20, Mass: 1, RestDelta: 0.01, RestSpeed: 0.01},
	"bouncy":  {Stiffness: 200, Damping: 10, Mass: 1, RestDelta: 0.01, RestSpeed: 0.01},
	"snappy":  {Stiffness: 300, Damping: 30, Mass: 1, RestDelta: 0.01, RestSpeed: 0.01},
	"wobbly":  {Stiffness: 180, Damping: 8, Mass: 1, RestDelta: 0.01, RestSpeed: 0.01},
	"slow":    {Stiffness: 50, Damping: 15, Mass: 1, RestDelta: 0.01, RestSpeed: 0.01},
}

// Validate rejects non-positive or non-finite stiffness, damping and mass,
// and negative rest thresholds.
func (c SpringConfig) Validate() error {
	switch {
	case !isFinite(c.Stiffness) || c.Stiffness <= 0:
		return invalidTransition("spring stiffness must be positive, got %v", c.Stiffness)
	case !isFinite(c.Damping) || c.Damping <= 0:
		return invalidTransition("spring damping must be positive, got %v", c.Damping)
	case !isFinite(c.Mass) || c.Mass <= 0:
		return invalidTransition("spring mass must be positive, got %v", c.Mass)
	case !isFinite(c.Velocity):
		return invalidTransition("spring velocity must be finite, got %v", c.Velocity)
	case !isFinite(c.RestDelta) || c.RestDelta < 0:
		return invalidTransition("spring rest delta must be positive, got %v", c.RestDelta)
	case !isFinite(c.RestSpeed) || c.RestSpeed < 0:
		return invalidTransition("spring rest speed must be positive, got %v", c.RestSpeed)
	}
	return nil
}

func (c SpringConfig) restDelta() float64 {
	if c.RestDelta == 0 {
		return 0.01
	}
	return c.RestDelta
}

func (c SpringConfig) restSpeed() float64 {
	if c.RestSpeed == 0 {
		return 0.01
	}
	return c.RestSpeed
}

// substep returns the integration step for this config: 1/240 s, shortened
// for stiff or heavily damped springs so semi-implicit Euler stays stable.
func (c SpringConfig) substep() float64 {
	h := springSubstep
	if lim := 0.5 * math.Sqrt(c.Mass/c.Stiffness); lim < h {
		h = lim
	}
	if lim := c.Mass / c.Damping; lim < h {
		h = lim
	}
	return h
}

// Spring integrates one scalar toward Target. Create with NewSpring.
type Spring struct {
	cfg      SpringConfig
	Position float64
	Velocity float64
	Target   float64
	rest     bool
}

// NewSpring validates cfg and returns a spring at from heading to to, with
// cfg.Velocity as its initial velocity. Non-finite endpoints produce a spring
// already at rest on to.
func NewSpring(cfg SpringConfig, from, to float64) (*Spring, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Spring{cfg: cfg, Position: from, Velocity: cfg.Velocity, Target: to}
	if !isFinite(from) || !isFinite(to) {
		s.Position, s.Velocity, s.rest = to, 0, true
	}
	return s, nil
}

// Config returns the spring's configuration.
func (s *Spring) Config() SpringConfig { return s.cfg }

// AtRest reports whether the spring has settled on its target.
func (s *Spring) AtRest() bool { return s.rest }

// Step advances the spring by dt seconds using semi-implicit Euler and
// returns the new position. When both the distance to the target and the
// speed drop below the rest thresholds the position snaps to the target and
// atRest is true.
func (s *Spring) Step(dt float64) (pos float64, atRest bool) {
	if s.rest {
		return s.Position, true
	}
	if !(dt > 0) || math.IsInf(dt, 1) {
		return s.Position, false
	}
	h := s.cfg.substep()
	n := int(math.Ceil(dt / h))
	h = dt / float64(n)
	k, c, m := s.cfg.Stiffness, s.cfg.Damping, s.cfg.Mass
	x, v := s.Position, s.Velocity
	for i := 0; i < n; i++ {
		force := -k*(x-s.Target) - c*v
		v += force / m * h
		x += v * h
		if s.settled(x, v) {
			s.Position, s.Velocity, s.rest = s.Target, 0, true
			return s.Position, true
		}
	}
	s.Position, s.Velocity = x, v
	return s.Position, false
}

func (s *Spring) settled(x, v float64) bool {
	return math.Abs(x-s.Target) < s.cfg.restDelta() && math.Abs(v) < s.cfg.restSpeed()
}

// Retarget moves the target and keeps the current position and velocity.
func (s *Spring) Retarget(to float64) {
	if !isFinite(to) {
		s.Target, s.Position, s.Velocity, s.rest = to, to, 0, true
		return
	}
	s.Target = to
	s.rest = false
}

// SettleTime simulates a 0→1 run and returns the seconds until rest,
// capped at ten seconds. Used to map a spring onto a normalized curve for
// previews and FLIP easing.
func (c SpringConfig) SettleTime() float64 {
	s, err := NewSpring(c, 0, 1)
	if err != nil {
		return 0
	}
	const frame = 1.0 / 60
	t := 0.0
	for t < maxSettleTime {
		t += frame
		if _, rest := s.Step(frame); rest {
			break
		}
	}
	return t
}

// sample returns the position of a 0→1 run at normalized time p of its
// settle duration.
func (c SpringConfig) sample(p float64) float64 {
	d := c.SettleTime()
	s, err := NewSpring(c, 0, 1)
	if err != nil || d == 0 {
		return p
	}
	pos, _ := s.Step(p * d)
	return pos
}

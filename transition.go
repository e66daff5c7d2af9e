package motion

import (
	"math"

	"github.com/tanema/gween"
)

// DefaultDuration is used by transitions that do not set a duration.
const DefaultDuration = 0.3

// RepeatMode says what happens when a run reaches its end.
type RepeatMode uint8

const (
	RepeatNever           RepeatMode = iota // complete after one run
	RepeatCount                             // run Count more times, then complete
	RepeatInfinite                          // restart forever
	RepeatInfiniteReverse                   // ping-pong forever
)

// RepeatConfig pairs a mode with its repeat count.
type RepeatConfig struct {
	Mode  RepeatMode
	Count int
}

var (
	NoRepeat             = RepeatConfig{}
	RepeatForever        = RepeatConfig{Mode: RepeatInfinite}
	RepeatForeverReverse = RepeatConfig{Mode: RepeatInfiniteReverse}
)

// RepeatTimes plays a run n more times after the first. RepeatTimes(0)
// behaves like NoRepeat.
func RepeatTimes(n int) RepeatConfig {
	return RepeatConfig{Mode: RepeatCount, Count: n}
}

// StaggerFrom chooses the element a stagger counts from.
type StaggerFrom uint8

const (
	StaggerFirst StaggerFrom = iota
	StaggerLast
	StaggerCenter
	StaggerIndex
)

// StaggerConfig offsets sibling animations by Delay seconds per step of
// distance from the origin element. Index is used with StaggerIndex.
type StaggerConfig struct {
	Delay float64
	From  StaggerFrom
	Index int
}

// DelayFor returns the extra delay of item i out of n.
func (s StaggerConfig) DelayFor(i, n int) float64 {
	if n <= 0 || s.Delay <= 0 {
		return 0
	}
	var steps float64
	switch s.From {
	case StaggerLast:
		steps = float64(n - 1 - i)
	case StaggerCenter:
		steps = math.Abs(float64(i) - float64(n-1)/2)
	case StaggerIndex:
		steps = math.Abs(float64(i - s.Index))
	default:
		steps = float64(i)
	}
	return steps * s.Delay
}

// Transition configures how a property travels to its target. A nil
// Duration uses DefaultDuration; a zero Duration snaps to the target on the
// first step. Delay may be negative to start part way into the curve.
// Duration is ignored for spring easings.
type Transition struct {
	Duration *float64
	Delay    float64
	Ease     Easing
	Repeat   RepeatConfig
	Stagger  *StaggerConfig
}

// DefaultTransition returns a 0.3 s ease-out run with no repeat.
func DefaultTransition() Transition {
	return Tween(DefaultDuration, Ease(EaseOut))
}

// Tween returns a time-based transition.
func Tween(duration float64, e Easing) Transition {
	return Transition{Duration: &duration, Ease: e}
}

// SpringTransition returns a physics-driven transition.
func SpringTransition(cfg SpringConfig) Transition {
	return Transition{Ease: SpringEasing(cfg)}
}

// Secs returns a pointer to v for Transition.Duration literals.
func Secs(v float64) *float64 { return &v }

// WithDelay returns a copy of tr with the delay set.
func (tr Transition) WithDelay(d float64) Transition {
	tr.Delay = d
	return tr
}

// WithRepeat returns a copy of tr with the repeat config set.
func (tr Transition) WithRepeat(r RepeatConfig) Transition {
	tr.Repeat = r
	return tr
}

// DurationOrDefault returns the run length in seconds.
func (tr Transition) DurationOrDefault() float64 {
	if tr.Duration == nil {
		return DefaultDuration
	}
	return *tr.Duration
}

// Validate rejects negative or non-finite durations, non-finite delays,
// negative repeat counts, bad easing parameters and negative stagger.
// NaN durations are accepted and snap, like zero.
func (tr Transition) Validate() error {
	if tr.Duration != nil && (*tr.Duration < 0 || math.IsInf(*tr.Duration, 0)) {
		return invalidTransition("duration must be a finite non-negative number, got %v", *tr.Duration)
	}
	if !isFinite(tr.Delay) {
		return invalidTransition("delay must be finite, got %v", tr.Delay)
	}
	if tr.Repeat.Mode == RepeatCount && tr.Repeat.Count < 0 {
		return invalidTransition("repeat count must be non-negative, got %d", tr.Repeat.Count)
	}
	if tr.Repeat.Mode > RepeatInfiniteReverse {
		return invalidTransition("unknown repeat mode %d", tr.Repeat.Mode)
	}
	if tr.Stagger != nil && (tr.Stagger.Delay < 0 || !isFinite(tr.Stagger.Delay)) {
		return invalidTransition("stagger delay must be a finite non-negative number, got %v", tr.Stagger.Delay)
	}
	return tr.Ease.Validate()
}

// Tween builds a gween tween for a single scalar run. Spring
// transitions are sampled from their settle curve.
func (tr Transition) Tween(from, to float64) *gween.Tween {
	d := tr.DurationOrDefault()
	if tr.Ease.IsSpring() {
		d = tr.Ease.Spring.SettleTime()
	}
	return gween.New(float32(from), float32(to), float32(d), tr.Ease.TweenFunc())
}

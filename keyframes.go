package motion

import "sort"

// Keyframe pins a set of property values to a time. Ease shapes the segment
// that ends at this keyframe.
type Keyframe struct {
	Time   float64
	Values Target
	Ease   Easing
}

// KeyframeTrack holds keyframes sorted by time and evaluates property
// values between them.
type KeyframeTrack struct {
	frames []Keyframe
	time   float64
}

// NewKeyframeTrack returns an empty track.
func NewKeyframeTrack() *KeyframeTrack {
	return &KeyframeTrack{}
}

// AddKeyframe inserts a keyframe, keeping the track sorted. Keyframes at an
// equal time keep insertion order.
func (k *KeyframeTrack) AddKeyframe(time float64, values Target, e Easing) error {
	if !isFinite(time) || time < 0 {
		return invalidValue("", "keyframe time must be a finite non-negative number, got %v", time)
	}
	if err := values.Validate(); err != nil {
		return err
	}
	if err := e.Validate(); err != nil {
		return err
	}
	i := sort.Search(len(k.frames), func(i int) bool { return k.frames[i].Time > time })
	k.frames = append(k.frames, Keyframe{})
	copy(k.frames[i+1:], k.frames[i:])
	k.frames[i] = Keyframe{Time: time, Values: values, Ease: e}
	return nil
}

// Keyframes returns a copy of the keyframes in time order.
func (k *KeyframeTrack) Keyframes() []Keyframe {
	return append([]Keyframe(nil), k.frames...)
}

// Duration returns the time of the last keyframe.
func (k *KeyframeTrack) Duration() float64 {
	if len(k.frames) == 0 {
		return 0
	}
	return k.frames[len(k.frames)-1].Time
}

// Properties returns every property named by any keyframe, sorted.
func (k *KeyframeTrack) Properties() []string {
	seen := make(map[string]bool)
	var out []string
	for _, f := range k.frames {
		for p := range f.Values {
			if !seen[p] {
				seen[p] = true
				out = append(out, p)
			}
		}
	}
	sort.Strings(out)
	return out
}

// ValueAt returns prop at time t. Before the first keyframe that names prop
// the first value holds; after the last the last value holds. Between two
// keyframes the later one's easing shapes the blend. ok is false when no
// keyframe names prop.
func (k *KeyframeTrack) ValueAt(prop string, t float64) (Value, bool) {
	var prev, next *Keyframe
	for i := range k.frames {
		f := &k.frames[i]
		if _, has := f.Values[prop]; !has {
			continue
		}
		if f.Time <= t {
			prev = f
			continue
		}
		next = f
		break
	}
	switch {
	case prev == nil && next == nil:
		return Value{}, false
	case prev == nil:
		return next.Values[prop], true
	case next == nil:
		return prev.Values[prop], true
	}
	span := next.Time - prev.Time
	p := 1.0
	if span > 0 {
		p = (t - prev.Time) / span
	}
	a, b := prev.Values[prop], next.Values[prop]
	v, err := Interpolate(a, b, next.Ease.Eval(p))
	if err != nil {
		return snap(a, b, p), true
	}
	return v, true
}

// Sample returns every property's value at time t.
func (k *KeyframeTrack) Sample(t float64) Target {
	out := make(Target)
	for _, p := range k.Properties() {
		if v, ok := k.ValueAt(p, t); ok {
			out[p] = v
		}
	}
	return out
}

// Scrub moves the track's playhead. Non-finite, negative or past-the-end
// times are rejected.
func (k *KeyframeTrack) Scrub(t float64) error {
	if !isFinite(t) || t < 0 || t > k.Duration() {
		return invalidValue("", "scrub time %v outside [0, %v]", t, k.Duration())
	}
	k.time = t
	return nil
}

// Time returns the playhead set by Scrub.
func (k *KeyframeTrack) Time() float64 { return k.time }

// Current samples the track at its playhead.
func (k *KeyframeTrack) Current() Target { return k.Sample(k.time) }

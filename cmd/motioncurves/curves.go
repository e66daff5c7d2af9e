package main

import (
	"math"
	"sort"

	"github.com/phanxgames/motion"
)

// curve is one named transition shown by the viewer.
type curve struct {
	name string
	tr   motion.Transition
}

// builtinCurves lists every fixed easing, the CSS ease keyword and each
// spring preset.
func builtinCurves(duration float64) []curve {
	var out []curve
	for k := motion.EasingKind(0); ; k++ {
		e := motion.Ease(k)
		if e.Validate() != nil {
			break
		}
		if k == motion.EaseBezier || k == motion.EaseSpring {
			continue
		}
		out = append(out, curve{name: e.String(), tr: motion.Tween(duration, e)})
	}
	if e, err := motion.ParseEasing("ease"); err == nil {
		out = append(out, curve{name: "ease", tr: motion.Tween(duration, e)})
	}
	names := make([]string, 0, len(motion.SpringPresets))
	for name := range motion.SpringPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, curve{name: "spring:" + name, tr: motion.SpringTransition(motion.SpringPresets[name])})
	}
	return out
}

// documentCurves lists the named transitions of a motion document.
func documentCurves(doc *motion.Document) ([]curve, error) {
	names := make([]string, 0, len(doc.Transitions))
	for name := range doc.Transitions {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]curve, 0, len(names))
	for _, name := range names {
		spec := doc.Transitions[name]
		tr, err := doc.Transition(&spec)
		if err != nil {
			return nil, err
		}
		out = append(out, curve{name: name, tr: tr})
	}
	return out, nil
}

// plotRange returns the value range to draw e over. Overshooting curves
// widen it past [0, 1].
func plotRange(e motion.Easing, samples int) (lo, hi float64) {
	lo, hi = 0, 1
	for i := 0; i <= samples; i++ {
		v := e.Eval(float64(i) / float64(samples))
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	return lo, hi
}

// plot samples e across width columns and maps each value to a row of a
// height-row grid, row 0 at the top.
func plot(e motion.Easing, width, height int) []int {
	if width <= 0 || height <= 0 {
		return nil
	}
	lo, hi := plotRange(e, width*4)
	rows := make([]int, width)
	for x := 0; x < width; x++ {
		t := 1.0
		if width > 1 {
			t = float64(x) / float64(width-1)
		}
		rows[x] = rowFor(e.Eval(t), lo, hi, height)
	}
	return rows
}

func rowFor(v, lo, hi float64, height int) int {
	if hi <= lo {
		return height - 1
	}
	r := int(math.Round((1 - (v-lo)/(hi-lo)) * float64(height-1)))
	return max(0, min(height-1, r))
}

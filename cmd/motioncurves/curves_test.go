package main

import (
	"testing"

	"github.com/phanxgames/motion"
)

func TestBuiltinCurves(t *testing.T) {
	curves := builtinCurves(1)
	seen := map[string]bool{}
	for _, c := range curves {
		if seen[c.name] {
			t.Errorf("duplicate curve %q", c.name)
		}
		seen[c.name] = true
		if err := c.tr.Validate(); err != nil {
			t.Errorf("%s: %v", c.name, err)
		}
	}
	for _, want := range []string{"linear", "easeOut", "bounceOut", "ease", "spring:bouncy"} {
		if !seen[want] {
			t.Errorf("missing curve %q", want)
		}
	}
}

func TestPlotEndpoints(t *testing.T) {
	tests := []struct {
		name string
		e    motion.Easing
	}{
		{"linear", motion.Linear},
		{"easeOut", motion.Ease(motion.EaseOut)},
		{"bounceOut", motion.Ease(motion.EaseBounceOut)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := plot(tt.e, 20, 10)
			if len(rows) != 20 {
				t.Fatalf("len = %d, want 20", len(rows))
			}
			if rows[0] != 9 {
				t.Errorf("start row = %d, want bottom (9)", rows[0])
			}
			if rows[19] != 0 {
				t.Errorf("end row = %d, want top (0)", rows[19])
			}
		})
	}
}

func TestPlotRangeOvershoot(t *testing.T) {
	lo, hi := plotRange(motion.Ease(motion.EaseBackOut), 100)
	if hi <= 1 {
		t.Errorf("backOut hi = %v, want > 1", hi)
	}
	if lo != 0 {
		t.Errorf("backOut lo = %v, want 0", lo)
	}
	lo, hi = plotRange(motion.Linear, 100)
	if lo != 0 || hi != 1 {
		t.Errorf("linear range = [%v, %v], want [0, 1]", lo, hi)
	}
}

func TestDocumentCurves(t *testing.T) {
	doc, err := motion.LoadDocument([]byte(`
transitions:
  quick:
    duration: 0.2
    ease: linear
  pop:
    ease: spring:bouncy
`))
	if err != nil {
		t.Fatal(err)
	}
	curves, err := documentCurves(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(curves) != 2 || curves[0].name != "pop" || curves[1].name != "quick" {
		t.Fatalf("curves = %+v", curves)
	}
	if !curves[0].tr.Ease.IsSpring() {
		t.Error("pop is not a spring")
	}
	if d := curves[1].tr.DurationOrDefault(); d != 0.2 {
		t.Errorf("quick duration = %v, want 0.2", d)
	}
}

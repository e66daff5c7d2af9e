package motion

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/tanema/gween/ease"
)

// EasingKind selects an easing curve. The zero value is EaseOut, the
// default curve for transitions.
type EasingKind uint8

const (
	EaseOut EasingKind = iota
	EaseLinear
	EaseIn
	EaseInOut
	EaseSineIn
	EaseSineOut
	EaseSineInOut
	EaseExpoIn
	EaseExpoOut
	EaseExpoInOut
	EaseCircIn
	EaseCircOut
	EaseCircInOut
	EaseBackIn
	EaseBackOut
	EaseBackInOut
	EaseElasticIn
	EaseElasticOut
	EaseElasticInOut
	EaseBounceIn
	EaseBounceOut
	EaseBounceInOut
	EaseBezier
	EaseSpring
)

// easingNames holds the document names of the fixed curves.
var easingNames = [...]string{
	EaseOut:          "easeOut",
	EaseLinear:       "linear",
	EaseIn:           "easeIn",
	EaseInOut:        "easeInOut",
	EaseSineIn:       "sineIn",
	EaseSineOut:      "sineOut",
	EaseSineInOut:    "sineInOut",
	EaseExpoIn:       "expoIn",
	EaseExpoOut:      "expoOut",
	EaseExpoInOut:    "expoInOut",
	EaseCircIn:       "circIn",
	EaseCircOut:      "circOut",
	EaseCircInOut:    "circInOut",
	EaseBackIn:       "backIn",
	EaseBackOut:      "backOut",
	EaseBackInOut:    "backInOut",
	EaseElasticIn:    "elasticIn",
	EaseElasticOut:   "elasticOut",
	EaseElasticInOut: "elasticInOut",
	EaseBounceIn:     "bounceIn",
	EaseBounceOut:    "bounceOut",
	EaseBounceInOut:  "bounceInOut",
	EaseBezier:       "cubic-bezier",
	EaseSpring:       "spring",
}

// tweenFuncs maps the fixed curves onto gween's easing functions.
var tweenFuncs = [...]ease.TweenFunc{
	EaseOut:          ease.OutQuad,
	EaseLinear:       ease.Linear,
	EaseIn:           ease.InQuad,
	EaseInOut:        ease.InOutQuad,
	EaseSineIn:       ease.InSine,
	EaseSineOut:      ease.OutSine,
	EaseSineInOut:    ease.InOutSine,
	EaseExpoIn:       ease.InExpo,
	EaseExpoOut:      ease.OutExpo,
	EaseExpoInOut:    ease.InOutExpo,
	EaseCircIn:       ease.InCirc,
	EaseCircOut:      ease.OutCirc,
	EaseCircInOut:    ease.InOutCirc,
	EaseBackIn:       ease.InBack,
	EaseBackOut:      ease.OutBack,
	EaseBackInOut:    ease.InOutBack,
	EaseElasticIn:    ease.InElastic,
	EaseElasticOut:   ease.OutElastic,
	EaseElasticInOut: ease.InOutElastic,
	EaseBounceIn:     ease.InBounce,
	EaseBounceOut:    ease.OutBounce,
	EaseBounceInOut:  ease.InOutBounce,
}

// Easing is an easing curve. Bezier control points are used only when Kind
// is EaseBezier and Spring only when Kind is EaseSpring.
type Easing struct {
	Kind           EasingKind
	X1, Y1, X2, Y2 float64
	Spring         SpringConfig
}

// Linear is the identity curve.
var Linear = Easing{Kind: EaseLinear}

// Ease returns the fixed curve of the given kind.
func Ease(k EasingKind) Easing { return Easing{Kind: k} }

// Bezier returns a cubic-bezier curve through (0,0), (x1,y1), (x2,y2), (1,1).
func Bezier(x1, y1, x2, y2 float64) Easing {
	return Easing{Kind: EaseBezier, X1: x1, Y1: y1, X2: x2, Y2: y2}
}

// SpringEasing marks a transition as physics driven. Its duration is ignored
// and the run ends when the spring rests.
func SpringEasing(cfg SpringConfig) Easing {
	return Easing{Kind: EaseSpring, Spring: cfg}
}

// IsSpring reports whether the curve is integrated rather than evaluated.
func (e Easing) IsSpring() bool { return e.Kind == EaseSpring }

// Validate checks bezier control points and spring parameters.
func (e Easing) Validate() error {
	switch e.Kind {
	case EaseBezier:
		for _, f := range [...]float64{e.X1, e.Y1, e.X2, e.Y2} {
			if !isFinite(f) {
				return invalidTransition("cubic-bezier control points must be finite")
			}
		}
		if e.X1 < 0 || e.X1 > 1 || e.X2 < 0 || e.X2 > 1 {
			return invalidTransition("cubic-bezier x control points must lie in [0, 1], got %v and %v", e.X1, e.X2)
		}
	case EaseSpring:
		return e.Spring.Validate()
	default:
		if int(e.Kind) >= len(easingNames) {
			return invalidTransition("unknown easing kind %d", e.Kind)
		}
	}
	return nil
}

// Eval maps progress t to eased progress. Every curve returns exactly 0 at
// t <= 0 and exactly 1 at t >= 1; Back and Elastic may leave [0, 1] in
// between. Spring curves are sampled from a simulated 0→1 run and are meant
// for previews only; animators integrate springs directly.
func (e Easing) Eval(t float64) float64 {
	switch {
	case math.IsNaN(t) || t >= 1:
		return 1
	case t <= 0:
		return 0
	}
	switch e.Kind {
	case EaseLinear:
		return t
	case EaseBezier:
		return solveBezier(e.X1, e.Y1, e.X2, e.Y2, t)
	case EaseSpring:
		return e.Spring.sample(t)
	}
	if int(e.Kind) >= len(tweenFuncs) {
		return t
	}
	return float64(tweenFuncs[e.Kind](float32(t), 0, 1, 1))
}

// TweenFunc adapts the curve to gween's function shape so it can drive a
// gween.Tween.
func (e Easing) TweenFunc() ease.TweenFunc {
	if e.Kind != EaseBezier && e.Kind != EaseSpring && int(e.Kind) < len(tweenFuncs) {
		return tweenFuncs[e.Kind]
	}
	return func(t, b, c, d float32) float32 {
		if d <= 0 {
			return b + c
		}
		return b + c*float32(e.Eval(float64(t/d)))
	}
}

// String returns the name used in motion documents.
func (e Easing) String() string {
	switch e.Kind {
	case EaseBezier:
		return fmt.Sprintf("cubic-bezier(%s, %s, %s, %s)",
			formatNumber(e.X1), formatNumber(e.Y1), formatNumber(e.X2), formatNumber(e.Y2))
	case EaseSpring:
		for name, p := range SpringPresets {
			if name != "default" && p == e.Spring {
				return "spring:" + name
			}
		}
		return "spring"
	}
	if int(e.Kind) < len(easingNames) {
		return easingNames[e.Kind]
	}
	return "easing(" + strconv.Itoa(int(e.Kind)) + ")"
}

// ParseEasing reads an easing name: a fixed curve name ("linear",
// "easeOut", "backInOut", …), a CSS keyword ("ease", "ease-in", "ease-out",
// "ease-in-out"), "cubic-bezier(x1, y1, x2, y2)", "spring" or
// "spring:<preset>".
func ParseEasing(s string) (Easing, error) {
	s = strings.TrimSpace(s)
	switch s {
	case "ease":
		return Bezier(0.25, 0.1, 0.25, 1), nil
	case "ease-in":
		return Ease(EaseIn), nil
	case "ease-out":
		return Ease(EaseOut), nil
	case "ease-in-out":
		return Ease(EaseInOut), nil
	case "spring":
		return SpringEasing(DefaultSpringConfig()), nil
	}
	if name, ok := strings.CutPrefix(s, "spring:"); ok {
		cfg, ok := SpringPresets[name]
		if !ok {
			return Easing{}, invalidTransition("unknown spring preset %q", name)
		}
		return SpringEasing(cfg), nil
	}
	if args, ok := strings.CutPrefix(s, "cubic-bezier("); ok && strings.HasSuffix(args, ")") {
		parts := strings.Split(strings.TrimSuffix(args, ")"), ",")
		if len(parts) != 4 {
			return Easing{}, invalidTransition("cubic-bezier takes four numbers: %q", s)
		}
		var p [4]float64
		for i, part := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return Easing{}, invalidTransition("bad cubic-bezier number %q", part)
			}
			p[i] = f
		}
		e := Bezier(p[0], p[1], p[2], p[3])
		return e, e.Validate()
	}
	for k, name := range easingNames {
		if EasingKind(k) != EaseBezier && EasingKind(k) != EaseSpring && name == s {
			return Ease(EasingKind(k)), nil
		}
	}
	return Easing{}, invalidTransition("unknown easing %q", s)
}

// --- Cubic bezier solve ---

const bezierEpsilon = 1e-6

// bezierCoord evaluates one coordinate of a cubic bezier whose end points
// are 0 and 1.
func bezierCoord(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*t*p1 + 3*u*t*t*p2 + t*t*t
}

func bezierSlope(t, p1, p2 float64) float64 {
	u := 1 - t
	return 3*u*u*p1 + 6*u*t*(p2-p1) + 3*t*t*(1-p2)
}

// solveBezier returns Y(s) where X(s) = x. Newton iteration seeded with x,
// falling back to bisection when the slope vanishes or Newton stalls.
func solveBezier(x1, y1, x2, y2, x float64) float64 {
	s := x
	for i := 0; i < 8; i++ {
		dx := bezierCoord(s, x1, x2) - x
		if math.Abs(dx) < bezierEpsilon {
			return bezierCoord(s, y1, y2)
		}
		d := bezierSlope(s, x1, x2)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		s -= dx / d
	}
	lo, hi := 0.0, 1.0
	s = x
	for i := 0; i < 64; i++ {
		xs := bezierCoord(s, x1, x2)
		if math.Abs(xs-x) < bezierEpsilon {
			break
		}
		if x > xs {
			lo = s
		} else {
			hi = s
		}
		s = (lo + hi) / 2
	}
	return bezierCoord(s, y1, y2)
}

package motion

import "math"

// transformKeys lists every property key the composer folds into a
// Transform3D. Aggregate keys are applied before axis-specific ones.
var transformKeys = map[string]bool{
	"transform": true,
	"translate": true, "scale": true, "skew": true,
	"x": true, "y": true, "z": true,
	"translateX": true, "translateY": true, "translateZ": true,
	"rotate": true, "rotateX": true, "rotateY": true, "rotateZ": true,
	"scaleX": true, "scaleY": true, "scaleZ": true,
	"skewX": true, "skewY": true,
	"perspective": true,
}

var aggregateKeys = [...]string{"translate", "scale", "skew"}

var axisKeys = [...]string{
	"x", "y", "z", "translateX", "translateY", "translateZ",
	"rotate", "rotateZ", "rotateX", "rotateY",
	"scaleX", "scaleY", "scaleZ",
	"skewX", "skewY",
	"perspective",
}

// IsTransformProperty reports whether prop is folded into the element's
// transform rather than written as its own style property.
func IsTransformProperty(prop string) bool {
	return transformKeys[prop]
}

// ComposeTransform collapses the recognized transform keys of values into a
// single record and returns the remaining properties untouched. A "transform"
// key holding a Transform value seeds the record. Aggregate keys
// ("translate", "scale", "skew") apply to both axes and lose to their
// axis-specific forms ("translateX", "scaleY", …). Values whose unit cannot
// be expressed in the record (for example a percent translate) pass through.
func ComposeTransform(values Target) (Transform3D, Target) {
	t := IdentityTransform()
	rest := make(Target, len(values))
	for k, v := range values {
		if !transformKeys[k] || !composable(k, v) {
			rest[k] = v
		}
	}
	if v, ok := values["transform"]; ok && v.Kind == ValueTransform {
		t = v.Transform
	}
	for _, k := range aggregateKeys {
		v, ok := values[k]
		if !ok || !composable(k, v) {
			continue
		}
		if k == "translate" {
			applyTranslate(&t, v)
			continue
		}
		t.Set(k, componentValue(k, v))
	}
	for _, k := range axisKeys {
		v, ok := values[k]
		if !ok || !composable(k, v) {
			continue
		}
		t.Set(k, componentValue(k, v))
	}
	return t, rest
}

func applyTranslate(t *Transform3D, v Value) {
	switch v.Kind {
	case ValueTransform:
		t.TranslateX, t.TranslateY, t.TranslateZ = v.Transform.TranslateX, v.Transform.TranslateY, v.Transform.TranslateZ
	case ValueComplex:
		for _, axis := range [...]string{"x", "y", "z"} {
			if f, ok := v.Fields[axis]; ok && f.IsNumeric() {
				t.Set(axis, f.Scalar)
			}
		}
	default:
		t.TranslateX, t.TranslateY = v.Scalar, v.Scalar
	}
}

// composable reports whether v can be written into the record slot for k.
func composable(k string, v Value) bool {
	switch k {
	case "transform":
		return v.Kind == ValueTransform
	case "translate":
		return v.Kind == ValueTransform || v.Kind == ValueComplex || v.Kind == ValuePixels || v.Kind == ValueNumber
	case "x", "y", "z", "translateX", "translateY", "translateZ", "perspective":
		return v.Kind == ValuePixels || v.Kind == ValueNumber
	case "rotate", "rotateX", "rotateY", "rotateZ", "skew", "skewX", "skewY":
		return v.Kind == ValueDegrees || v.Kind == ValueRadians || v.Kind == ValueNumber
	case "scale", "scaleX", "scaleY", "scaleZ":
		return v.Kind == ValueNumber || v.Kind == ValuePercent
	}
	return false
}

// componentValue converts v to the record's units: px, degrees, unitless.
func componentValue(k string, v Value) float64 {
	switch v.Kind {
	case ValueRadians:
		return v.Scalar * 180 / math.Pi
	case ValuePercent:
		return v.Scalar / 100
	}
	return v.Scalar
}

// defaultValue is the resting value of a property that has never been set,
// used as the start of its first animation. ok is false when there is no
// sensible neutral value.
func defaultValue(prop string, like Value) (Value, bool) {
	if IsTransformProperty(prop) {
		t := IdentityTransform()
		switch like.Kind {
		case ValueTransform:
			return TransformValue(t), true
		case ValueComplex:
			return Value{}, false
		}
		f, _ := t.Get(prop)
		if prop == "scale" {
			f = 1
		}
		if like.Kind == ValuePercent {
			f *= 100
		}
		return Value{Kind: like.Kind, Scalar: f}, true
	}
	if prop == "opacity" && like.IsNumeric() {
		return Value{Kind: like.Kind, Scalar: 1}, true
	}
	if like.IsNumeric() {
		return Value{Kind: like.Kind}, true
	}
	return Value{}, false
}

package motion

// Interpolate blends a toward b by the eased progress t. Both values must be
// of the same kind. t is not clamped: Back and Elastic curves overshoot on
// purpose.
//
// Numeric kinds blend linearly and keep their unit. Colors blend in linear
// sRGB and are written in b's syntax. Transforms blend per component.
// Strings snap to b once t reaches 0.5. Complex values blend field by field
// when both sides carry the same fields and snap otherwise.
//
// A non-finite endpoint or t snaps to b.
func Interpolate(a, b Value, t float64) (Value, error) {
	if a.Kind != b.Kind {
		return Value{}, invalidValue("", "cannot interpolate %s to %s", a.Kind, b.Kind)
	}
	if !isFinite(t) || !a.IsFinite() || !b.IsFinite() {
		return b, nil
	}
	switch a.Kind {
	case ValueNumber, ValuePixels, ValuePercent, ValueDegrees, ValueRadians:
		return Value{Kind: a.Kind, Scalar: lerp(a.Scalar, b.Scalar, t)}, nil
	case ValueColor:
		return interpolateColor(a, b, t), nil
	case ValueTransform:
		return TransformValue(a.Transform.Interpolate(b.Transform, t)), nil
	case ValueComplex:
		return interpolateComplex(a, b, t), nil
	}
	return snap(a, b, t), nil
}

func interpolateComplex(a, b Value, t float64) Value {
	if len(a.Fields) != len(b.Fields) {
		return snap(a, b, t)
	}
	out := make(map[string]Value, len(b.Fields))
	for k, fb := range b.Fields {
		fa, ok := a.Fields[k]
		if !ok {
			return snap(a, b, t)
		}
		v, err := Interpolate(fa, fb, t)
		if err != nil {
			return snap(a, b, t)
		}
		out[k] = v
	}
	return Complex(out)
}

func snap(a, b Value, t float64) Value {
	if t >= 0.5 {
		return b
	}
	return a
}

func lerp(a, b, t float64) float64 {
	if t == 1 {
		return b
	}
	return a + (b-a)*t
}

// canInterpolate reports whether a run from a to b is well defined.
func canInterpolate(a, b Value) bool {
	return a.Kind == b.Kind
}

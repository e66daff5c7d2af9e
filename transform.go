package motion

import (
	"math"
	"strings"
)

// Transform3D is the full set of transform components an element can carry.
// Angles are in degrees, translations and perspective in px, scales unitless.
// The zero value is NOT the identity; use IdentityTransform.
type Transform3D struct {
	TranslateX, TranslateY, TranslateZ float64
	RotateX, RotateY, RotateZ          float64
	ScaleX, ScaleY, ScaleZ             float64
	SkewX, SkewY                       float64
	Perspective                        float64
}

// IdentityTransform returns the transform that leaves an element untouched.
func IdentityTransform() Transform3D {
	return Transform3D{ScaleX: 1, ScaleY: 1, ScaleZ: 1}
}

// TransformMode selects the CSS form a Transform3D is written in.
type TransformMode uint8

const (
	TransformAuto   TransformMode = iota // 3D only when a depth component is set
	Transform2DMode                      // translate rotate scale skew
	Transform3DMode                      // perspective translate3d rotateX rotateY rotateZ scale3d
)

// IsIdentity reports whether every component is at its identity value.
func (t Transform3D) IsIdentity() bool {
	return t == IdentityTransform()
}

// Has3D reports whether any depth-only component differs from identity.
func (t Transform3D) Has3D() bool {
	return t.TranslateZ != 0 || t.RotateX != 0 || t.RotateY != 0 || t.ScaleZ != 1 || t.Perspective != 0
}

func (t Transform3D) isFinite() bool {
	for _, f := range [...]float64{
		t.TranslateX, t.TranslateY, t.TranslateZ,
		t.RotateX, t.RotateY, t.RotateZ,
		t.ScaleX, t.ScaleY, t.ScaleZ,
		t.SkewX, t.SkewY, t.Perspective,
	} {
		if !isFinite(f) {
			return false
		}
	}
	return true
}

// Interpolate blends every component linearly toward u. t is not clamped.
func (t Transform3D) Interpolate(u Transform3D, p float64) Transform3D {
	return Transform3D{
		TranslateX:  lerp(t.TranslateX, u.TranslateX, p),
		TranslateY:  lerp(t.TranslateY, u.TranslateY, p),
		TranslateZ:  lerp(t.TranslateZ, u.TranslateZ, p),
		RotateX:     lerp(t.RotateX, u.RotateX, p),
		RotateY:     lerp(t.RotateY, u.RotateY, p),
		RotateZ:     lerp(t.RotateZ, u.RotateZ, p),
		ScaleX:      lerp(t.ScaleX, u.ScaleX, p),
		ScaleY:      lerp(t.ScaleY, u.ScaleY, p),
		ScaleZ:      lerp(t.ScaleZ, u.ScaleZ, p),
		SkewX:       lerp(t.SkewX, u.SkewX, p),
		SkewY:       lerp(t.SkewY, u.SkewY, p),
		Perspective: lerp(t.Perspective, u.Perspective, p),
	}
}

// Then layers u on top of t: translations, rotations and skews add, scales
// multiply, and a non-zero perspective in u replaces t's.
func (t Transform3D) Then(u Transform3D) Transform3D {
	out := Transform3D{
		TranslateX:  t.TranslateX + u.TranslateX,
		TranslateY:  t.TranslateY + u.TranslateY,
		TranslateZ:  t.TranslateZ + u.TranslateZ,
		RotateX:     t.RotateX + u.RotateX,
		RotateY:     t.RotateY + u.RotateY,
		RotateZ:     t.RotateZ + u.RotateZ,
		ScaleX:      t.ScaleX * u.ScaleX,
		ScaleY:      t.ScaleY * u.ScaleY,
		ScaleZ:      t.ScaleZ * u.ScaleZ,
		SkewX:       t.SkewX + u.SkewX,
		SkewY:       t.SkewY + u.SkewY,
		Perspective: t.Perspective,
	}
	if u.Perspective != 0 {
		out.Perspective = u.Perspective
	}
	return out
}

// CSS writes the transform in the fixed component order. Identity
// components are omitted and a fully identity transform is written as
// "none".
//
//	3D: perspective(Npx) translate3d(Xpx, Ypx, Zpx) rotateX(Adeg) rotateY(Adeg) rotateZ(Adeg) scale3d(sx, sy, sz)
//	2D: translate(Xpx, Ypx) rotate(Adeg) scale(sx, sy) skew(Xdeg, Ydeg)
//
// Skew has no slot in the 3D form and is appended last when present.
func (t Transform3D) CSS(mode TransformMode) string {
	if mode == TransformAuto {
		mode = Transform2DMode
		if t.Has3D() {
			mode = Transform3DMode
		}
	}
	var parts []string
	if mode == Transform3DMode {
		if t.Perspective != 0 {
			parts = append(parts, "perspective("+formatNumber(t.Perspective)+"px)")
		}
		if t.TranslateX != 0 || t.TranslateY != 0 || t.TranslateZ != 0 {
			parts = append(parts, "translate3d("+formatNumber(t.TranslateX)+"px, "+
				formatNumber(t.TranslateY)+"px, "+formatNumber(t.TranslateZ)+"px)")
		}
		if t.RotateX != 0 {
			parts = append(parts, "rotateX("+formatNumber(t.RotateX)+"deg)")
		}
		if t.RotateY != 0 {
			parts = append(parts, "rotateY("+formatNumber(t.RotateY)+"deg)")
		}
		if t.RotateZ != 0 {
			parts = append(parts, "rotateZ("+formatNumber(t.RotateZ)+"deg)")
		}
		if t.ScaleX != 1 || t.ScaleY != 1 || t.ScaleZ != 1 {
			parts = append(parts, "scale3d("+formatNumber(t.ScaleX)+", "+
				formatNumber(t.ScaleY)+", "+formatNumber(t.ScaleZ)+")")
		}
	} else {
		if t.TranslateX != 0 || t.TranslateY != 0 {
			parts = append(parts, "translate("+formatNumber(t.TranslateX)+"px, "+formatNumber(t.TranslateY)+"px)")
		}
		if t.RotateZ != 0 {
			parts = append(parts, "rotate("+formatNumber(t.RotateZ)+"deg)")
		}
		if t.ScaleX != 1 || t.ScaleY != 1 {
			parts = append(parts, "scale("+formatNumber(t.ScaleX)+", "+formatNumber(t.ScaleY)+")")
		}
	}
	if t.SkewX != 0 || t.SkewY != 0 {
		parts = append(parts, "skew("+formatNumber(t.SkewX)+"deg, "+formatNumber(t.SkewY)+"deg)")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}

// --- Component access by property name ---

// Get returns the component named by a transform property key.
func (t Transform3D) Get(prop string) (float64, bool) {
	switch prop {
	case "x", "translateX":
		return t.TranslateX, true
	case "y", "translateY":
		return t.TranslateY, true
	case "z", "translateZ":
		return t.TranslateZ, true
	case "rotate", "rotateZ":
		return t.RotateZ, true
	case "rotateX":
		return t.RotateX, true
	case "rotateY":
		return t.RotateY, true
	case "scaleX":
		return t.ScaleX, true
	case "scaleY":
		return t.ScaleY, true
	case "scaleZ":
		return t.ScaleZ, true
	case "skewX":
		return t.SkewX, true
	case "skewY":
		return t.SkewY, true
	case "perspective":
		return t.Perspective, true
	}
	return 0, false
}

// Set writes the component named by a transform property key. Aggregate
// keys ("scale", "skew") write both axes. Reports false for unknown keys.
func (t *Transform3D) Set(prop string, v float64) bool {
	switch prop {
	case "x", "translateX":
		t.TranslateX = v
	case "y", "translateY":
		t.TranslateY = v
	case "z", "translateZ":
		t.TranslateZ = v
	case "rotate", "rotateZ":
		t.RotateZ = v
	case "rotateX":
		t.RotateX = v
	case "rotateY":
		t.RotateY = v
	case "scale":
		t.ScaleX, t.ScaleY = v, v
	case "scaleX":
		t.ScaleX = v
	case "scaleY":
		t.ScaleY = v
	case "scaleZ":
		t.ScaleZ = v
	case "skew":
		t.SkewX, t.SkewY = v, v
	case "skewX":
		t.SkewX = v
	case "skewY":
		t.SkewY = v
	case "perspective":
		t.Perspective = v
	default:
		return false
	}
	return true
}

// --- 2D affine projection ---

// identityAffine is the identity affine matrix.
var identityAffine = [6]float64{1, 0, 0, 1, 0, 0}

// Matrix2D projects the transform onto the screen plane as an affine matrix
// [a, b, c, d, tx, ty] around the transform origin (ox, oy). Depth
// components are ignored.
//
// Composition order, matching the 2D CSS form:
//
//	Translate(origin + translate) -> Rotate -> Scale -> Skew -> Translate(-origin)
func (t Transform3D) Matrix2D(ox, oy float64) [6]float64 {
	sin, cos := math.Sincos(t.RotateZ * math.Pi / 180)
	var tanSkewX, tanSkewY float64
	if t.SkewX != 0 {
		tanSkewX = math.Tan(t.SkewX * math.Pi / 180)
	}
	if t.SkewY != 0 {
		tanSkewY = math.Tan(t.SkewY * math.Pi / 180)
	}
	m := [6]float64{1, 0, 0, 1, ox + t.TranslateX, oy + t.TranslateY}
	m = multiplyAffine(m, [6]float64{cos, sin, -sin, cos, 0, 0})
	m = multiplyAffine(m, [6]float64{t.ScaleX, 0, 0, t.ScaleY, 0, 0})
	m = multiplyAffine(m, [6]float64{1, tanSkewY, tanSkewX, 1, 0, 0})
	return multiplyAffine(m, [6]float64{1, 0, 0, 1, -ox, -oy})
}

// VisualBounds returns the axis-aligned box an element laid out at box
// occupies on screen once the transform is applied. origin is the transform
// origin as a fraction of the box (0.5, 0.5 is the CSS default).
func (t Transform3D) VisualBounds(box Bounds, origin Vec2) Bounds {
	m := t.Matrix2D(box.X+box.Width*origin.X, box.Y+box.Height*origin.Y)
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [4]Vec2{
		{box.X, box.Y},
		{box.X + box.Width, box.Y},
		{box.X, box.Y + box.Height},
		{box.X + box.Width, box.Y + box.Height},
	} {
		x, y := transformPoint(m, p.X, p.Y)
		minX = math.Min(minX, x)
		minY = math.Min(minY, y)
		maxX = math.Max(maxX, x)
		maxY = math.Max(maxY, y)
	}
	return Bounds{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// multiplyAffine multiplies two 2D affine matrices: result = parent * child.
//
//	Matrix layout: [a, b, c, d, tx, ty]
//	| a  c  tx |
//	| b  d  ty |
//	| 0  0   1 |
func multiplyAffine(p, c [6]float64) [6]float64 {
	return [6]float64{
		p[0]*c[0] + p[2]*c[1],
		p[1]*c[0] + p[3]*c[1],
		p[0]*c[2] + p[2]*c[3],
		p[1]*c[2] + p[3]*c[3],
		p[0]*c[4] + p[2]*c[5] + p[4],
		p[1]*c[4] + p[3]*c[5] + p[5],
	}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular.
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityAffine
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

package motion

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// ValueKind identifies the variant stored in a Value.
type ValueKind uint8

const (
	ValueNumber    ValueKind = iota // unitless number
	ValuePixels                     // length in px
	ValuePercent                    // percentage
	ValueDegrees                    // angle in degrees
	ValueRadians                    // angle in radians
	ValueColor                      // CSS color text (hex, rgb(), rgba(), hsl(), named)
	ValueTransform                  // full Transform3D record
	ValueString                     // opaque text, never interpolated
	ValueComplex                    // named sub-values
)

var valueKindNames = [...]string{
	ValueNumber:    "number",
	ValuePixels:    "pixels",
	ValuePercent:   "percent",
	ValueDegrees:   "degrees",
	ValueRadians:   "radians",
	ValueColor:     "color",
	ValueTransform: "transform",
	ValueString:    "string",
	ValueComplex:   "complex",
}

// String returns the kind's name.
func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "value(" + strconv.Itoa(int(k)) + ")"
}

// Value is an animatable value. Only the fields matching Kind are meaningful.
// Values are small and passed by value; Fields is shared on copy and must be
// treated as read-only.
type Value struct {
	Kind      ValueKind
	Scalar    float64          // Number, Pixels, Percent, Degrees, Radians
	Text      string           // Color, String
	Transform Transform3D      // Transform
	Fields    map[string]Value // Complex
}

// Number returns a unitless numeric value.
func Number(v float64) Value { return Value{Kind: ValueNumber, Scalar: v} }

// Pixels returns a px length.
func Pixels(v float64) Value { return Value{Kind: ValuePixels, Scalar: v} }

// Percent returns a percentage.
func Percent(v float64) Value { return Value{Kind: ValuePercent, Scalar: v} }

// Degrees returns an angle in degrees.
func Degrees(v float64) Value { return Value{Kind: ValueDegrees, Scalar: v} }

// Radians returns an angle in radians.
func Radians(v float64) Value { return Value{Kind: ValueRadians, Scalar: v} }

// Color returns a color value from CSS color text.
func Color(css string) Value { return Value{Kind: ValueColor, Text: css} }

// TransformValue wraps a whole transform record.
func TransformValue(t Transform3D) Value { return Value{Kind: ValueTransform, Transform: t} }

// String returns an opaque text value.
func String(s string) Value { return Value{Kind: ValueString, Text: s} }

// Complex returns a value made of named sub-values.
func Complex(fields map[string]Value) Value { return Value{Kind: ValueComplex, Fields: fields} }

// IsNumeric reports whether the value is one of the scalar unit kinds.
func (v Value) IsNumeric() bool {
	return v.Kind <= ValueRadians
}

// Float returns the scalar for numeric kinds and ok=false otherwise.
func (v Value) Float() (f float64, ok bool) {
	if !v.IsNumeric() {
		return 0, false
	}
	return v.Scalar, true
}

// IsFinite reports whether every scalar inside the value is finite.
func (v Value) IsFinite() bool {
	switch {
	case v.IsNumeric():
		return isFinite(v.Scalar)
	case v.Kind == ValueTransform:
		return v.Transform.isFinite()
	case v.Kind == ValueComplex:
		for _, f := range v.Fields {
			if !f.IsFinite() {
				return false
			}
		}
	}
	return true
}

// Equal reports whether two values are identical in kind and content.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case ValueColor, ValueString:
		return v.Text == o.Text
	case ValueTransform:
		return v.Transform == o.Transform
	case ValueComplex:
		if len(v.Fields) != len(o.Fields) {
			return false
		}
		for k, f := range v.Fields {
			g, ok := o.Fields[k]
			if !ok || !f.Equal(g) {
				return false
			}
		}
		return true
	}
	return v.Scalar == o.Scalar || (math.IsNaN(v.Scalar) && math.IsNaN(o.Scalar))
}

// String renders the value the way it is written to a style property.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return formatNumber(v.Scalar)
	case ValuePixels:
		return formatNumber(v.Scalar) + "px"
	case ValuePercent:
		return formatNumber(v.Scalar) + "%"
	case ValueDegrees:
		return formatNumber(v.Scalar) + "deg"
	case ValueRadians:
		return formatNumber(v.Scalar) + "rad"
	case ValueColor, ValueString:
		return v.Text
	case ValueTransform:
		return v.Transform.CSS(TransformAuto)
	case ValueComplex:
		keys := make([]string, 0, len(v.Fields))
		for k := range v.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = v.Fields[k].String()
		}
		return strings.Join(parts, " ")
	}
	return ""
}

// formatNumber prints at most four decimals and never emits "-0".
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	r := math.Round(f*1e4) / 1e4
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ParseValue reads a CSS-like scalar: "0.5", "20px", "50%", "45deg",
// "1.2rad", "#ff0000", "rgb(…)", "hsl(…)" or a named color. Anything else is
// returned as an opaque String value.
func ParseValue(s string) Value {
	s = strings.TrimSpace(s)
	for _, u := range [...]struct {
		suffix string
		kind   ValueKind
	}{
		{"px", ValuePixels},
		{"deg", ValueDegrees},
		{"rad", ValueRadians},
		{"%", ValuePercent},
	} {
		if strings.HasSuffix(s, u.suffix) {
			if f, err := strconv.ParseFloat(strings.TrimSpace(strings.TrimSuffix(s, u.suffix)), 64); err == nil {
				return Value{Kind: u.kind, Scalar: f}
			}
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Number(f)
	}
	if looksLikeColor(s) {
		return Color(s)
	}
	return String(s)
}

// Target maps property names to the values they should reach. Keys are
// opaque except for the transform sub-properties recognized by
// ComposeTransform.
type Target map[string]Value

// Validate rejects empty property names.
func (t Target) Validate() error {
	for k := range t {
		if k == "" {
			return invalidProperty(k)
		}
	}
	return nil
}

// Clone returns a shallow copy of the target.
func (t Target) Clone() Target {
	out := make(Target, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}

// Merge returns a copy of t with every entry of other applied on top.
// Duplicate keys take other's value.
func (t Target) Merge(other Target) Target {
	out := make(Target, len(t)+len(other))
	for k, v := range t {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}

// Keys returns the property names in sorted order.
func (t Target) Keys() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Only returns the subset of t whose keys appear in props.
func (t Target) Only(props []string) Target {
	out := make(Target, len(props))
	for _, p := range props {
		if v, ok := t[p]; ok {
			out[p] = v
		}
	}
	return out
}

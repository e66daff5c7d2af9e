package motion

// Variant is a named target with an optional transition of its own.
type Variant struct {
	Target     Target      `yaml:"target"`
	Transition *Transition `yaml:"transition,omitempty"`
}

// Variants maps variant names to their definitions.
type Variants map[string]Variant

// VariantsManager tracks which variant an element currently shows.
// The zero value is ready to use once Variants is set.
type VariantsManager struct {
	Variants Variants

	current, previous       string
	hasCurrent, hasPrevious bool
}

// NewVariantsManager returns a manager over vs with no current variant.
func NewVariantsManager(vs Variants) *VariantsManager {
	return &VariantsManager{Variants: vs}
}

// Set makes name the current variant and returns its definition. An unknown
// name changes nothing and reports false.
func (m *VariantsManager) Set(name string) (Variant, bool) {
	v, ok := m.Variants[name]
	if !ok {
		return Variant{}, false
	}
	m.previous, m.hasPrevious = m.current, m.hasCurrent
	m.current, m.hasCurrent = name, true
	return v, true
}

// Reset clears the current variant, remembering it as previous.
func (m *VariantsManager) Reset() {
	if !m.hasCurrent {
		return
	}
	m.previous, m.hasPrevious = m.current, true
	m.current, m.hasCurrent = "", false
}

// Current returns the current variant name.
func (m *VariantsManager) Current() (string, bool) { return m.current, m.hasCurrent }

// Previous returns the variant shown before the current one.
func (m *VariantsManager) Previous() (string, bool) { return m.previous, m.hasPrevious }

// --- Presets ---

// FadeVariants returns "hidden" (opacity 0) and "visible" (opacity 1).
func FadeVariants() Variants {
	return Variants{
		"hidden":  {Target: Target{"opacity": Number(0)}},
		"visible": {Target: Target{"opacity": Number(1)}},
	}
}

// ScaleVariants returns "hidden" scaled down to from and transparent, and
// "visible" at full size.
func ScaleVariants(from float64) Variants {
	return Variants{
		"hidden":  {Target: Target{"opacity": Number(0), "scale": Number(from)}},
		"visible": {Target: Target{"opacity": Number(1), "scale": Number(1)}},
	}
}

// SlideVariants returns "hidden" offset by (dx, dy) and transparent, and
// "visible" in place.
func SlideVariants(dx, dy float64) Variants {
	return Variants{
		"hidden":  {Target: Target{"opacity": Number(0), "x": Pixels(dx), "y": Pixels(dy)}},
		"visible": {Target: Target{"opacity": Number(1), "x": Pixels(0), "y": Pixels(0)}},
	}
}

// RotateVariants returns "hidden" rotated by deg and transparent, and
// "visible" upright.
func RotateVariants(deg float64) Variants {
	return Variants{
		"hidden":  {Target: Target{"opacity": Number(0), "rotate": Degrees(deg)}},
		"visible": {Target: Target{"opacity": Number(1), "rotate": Degrees(0)}},
	}
}

package motion

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// --- Value and easing encoding ---

// MarshalYAML writes scalars in their CSS form and complex values as a
// mapping.
func (v Value) MarshalYAML() (any, error) {
	if v.Kind == ValueComplex {
		return v.Fields, nil
	}
	return v.String(), nil
}

// UnmarshalYAML reads a CSS-like scalar with ParseValue, or a mapping as a
// complex value.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*v = ParseValue(node.Value)
		return nil
	case yaml.MappingNode:
		fields := make(map[string]Value)
		if err := node.Decode(&fields); err != nil {
			return err
		}
		*v = Complex(fields)
		return nil
	}
	return fmt.Errorf("line %d: value must be a scalar or a mapping", node.Line)
}

// MarshalYAML writes the easing's name.
func (e Easing) MarshalYAML() (any, error) {
	return e.String(), nil
}

// UnmarshalYAML reads an easing name with ParseEasing.
func (e *Easing) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := ParseEasing(s)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*e = parsed
	return nil
}

// --- Transitions ---

// TransitionSpec is the written form of a Transition. Ease takes an easing
// name, "spring" or "spring:<name>"; Repeat takes "never", "forever",
// "reverse" or a count; StaggerFrom takes "first", "last", "center" or an
// index.
type TransitionSpec struct {
	Use         string        `yaml:"use,omitempty"`
	Duration    *float64      `yaml:"duration,omitempty"`
	Delay       float64       `yaml:"delay,omitempty"`
	Ease        string        `yaml:"ease,omitempty"`
	Spring      *SpringConfig `yaml:"spring,omitempty"`
	Repeat      string        `yaml:"repeat,omitempty"`
	Stagger     float64       `yaml:"stagger,omitempty"`
	StaggerFrom string        `yaml:"staggerFrom,omitempty"`
}

// MarshalYAML writes the transition as a TransitionSpec.
func (tr Transition) MarshalYAML() (any, error) {
	return specFromTransition(tr), nil
}

// UnmarshalYAML reads a TransitionSpec. Named springs resolve against
// SpringPresets.
func (tr *Transition) UnmarshalYAML(node *yaml.Node) error {
	var spec TransitionSpec
	if err := node.Decode(&spec); err != nil {
		return err
	}
	out, err := spec.resolve(nil)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*tr = out
	return nil
}

func specFromTransition(tr Transition) TransitionSpec {
	spec := TransitionSpec{Duration: tr.Duration, Delay: tr.Delay}
	if tr.Ease.IsSpring() {
		spec.Ease = "spring"
		cfg := tr.Ease.Spring
		spec.Spring = &cfg
	} else {
		spec.Ease = tr.Ease.String()
	}
	switch tr.Repeat.Mode {
	case RepeatCount:
		spec.Repeat = strconv.Itoa(tr.Repeat.Count)
	case RepeatInfinite:
		spec.Repeat = "forever"
	case RepeatInfiniteReverse:
		spec.Repeat = "reverse"
	}
	if tr.Stagger != nil {
		spec.Stagger = tr.Stagger.Delay
		switch tr.Stagger.From {
		case StaggerLast:
			spec.StaggerFrom = "last"
		case StaggerCenter:
			spec.StaggerFrom = "center"
		case StaggerIndex:
			spec.StaggerFrom = strconv.Itoa(tr.Stagger.Index)
		}
	}
	return spec
}

// resolve builds a Transition. springs are consulted for "spring:<name>"
// before SpringPresets.
func (s TransitionSpec) resolve(springs map[string]SpringConfig) (Transition, error) {
	tr := Transition{Duration: s.Duration, Delay: s.Delay}
	switch {
	case s.Spring != nil:
		tr.Ease = SpringEasing(*s.Spring)
	case strings.HasPrefix(s.Ease, "spring:"):
		name := strings.TrimPrefix(s.Ease, "spring:")
		if cfg, ok := springs[name]; ok {
			tr.Ease = SpringEasing(cfg)
			break
		}
		e, err := ParseEasing(s.Ease)
		if err != nil {
			return Transition{}, err
		}
		tr.Ease = e
	case s.Ease != "":
		e, err := ParseEasing(s.Ease)
		if err != nil {
			return Transition{}, err
		}
		tr.Ease = e
	}

	switch r := strings.ToLower(strings.TrimSpace(s.Repeat)); r {
	case "", "never":
	case "forever", "infinite":
		tr.Repeat = RepeatForever
	case "reverse", "mirror":
		tr.Repeat = RepeatForeverReverse
	default:
		n, err := strconv.Atoi(r)
		if err != nil {
			return Transition{}, invalidTransition("unknown repeat %q", s.Repeat)
		}
		tr.Repeat = RepeatTimes(n)
	}

	if s.Stagger > 0 {
		st := &StaggerConfig{Delay: s.Stagger}
		switch f := strings.ToLower(strings.TrimSpace(s.StaggerFrom)); f {
		case "", "first":
		case "last":
			st.From = StaggerLast
		case "center":
			st.From = StaggerCenter
		default:
			i, err := strconv.Atoi(f)
			if err != nil {
				return Transition{}, invalidTransition("unknown stagger origin %q", s.StaggerFrom)
			}
			st.From = StaggerIndex
			st.Index = i
		}
		tr.Stagger = st
	}
	return tr, tr.Validate()
}

// --- Documents ---

// Document is a declarative set of springs, transitions, elements and
// timelines.
type Document struct {
	Springs     map[string]SpringConfig   `yaml:"springs,omitempty"`
	Transitions map[string]TransitionSpec `yaml:"transitions,omitempty"`
	Elements    []ElementSpec             `yaml:"elements,omitempty"`
	Timelines   []TimelineSpec            `yaml:"timelines,omitempty"`
}

// VariantSpec is the written form of a Variant.
type VariantSpec struct {
	Target     Target          `yaml:"target"`
	Transition *TransitionSpec `yaml:"transition,omitempty"`
}

// DragSpec is the written form of a DragConfig. Axis is "x", "y" or
// "both".
type DragSpec struct {
	Axis        string          `yaml:"axis,omitempty"`
	Constraints DragConstraints `yaml:"constraints,omitempty"`
	Elastic     float64         `yaml:"elastic,omitempty"`
	Momentum    bool            `yaml:"momentum,omitempty"`
	Friction    float64         `yaml:"friction,omitempty"`
}

// ElementSpec is the written form of an ElementConfig. Mode is "auto",
// "2d" or "3d".
type ElementSpec struct {
	ID             ElementID              `yaml:"id,omitempty"`
	Key            string                 `yaml:"key,omitempty"`
	Bounds         Bounds                 `yaml:"bounds,omitempty"`
	Initial        Target                 `yaml:"initial,omitempty"`
	Animate        Target                 `yaml:"animate,omitempty"`
	Exit           Target                 `yaml:"exit,omitempty"`
	WhileHover     Target                 `yaml:"whileHover,omitempty"`
	WhileTap       Target                 `yaml:"whileTap,omitempty"`
	WhileDrag      Target                 `yaml:"whileDrag,omitempty"`
	Variants       map[string]VariantSpec `yaml:"variants,omitempty"`
	InitialVariant string                 `yaml:"initialVariant,omitempty"`
	AnimateVariant string                 `yaml:"animateVariant,omitempty"`
	Transition     *TransitionSpec        `yaml:"transition,omitempty"`
	Mode           string                 `yaml:"mode,omitempty"`
	Drag           *DragSpec              `yaml:"drag,omitempty"`
	Gestures       *GestureConfig         `yaml:"gestures,omitempty"`
	Layout         bool                   `yaml:"layout,omitempty"`
}

// TimelineSpec is the written form of a TimelineSequence.
type TimelineSpec struct {
	ID      string     `yaml:"id"`
	Repeat  bool       `yaml:"repeat,omitempty"`
	Reverse bool       `yaml:"reverse,omitempty"`
	Steps   []StepSpec `yaml:"steps"`
}

// StepSpec is the written form of a TimelineStep.
type StepSpec struct {
	ID         string          `yaml:"id"`
	Target     Target          `yaml:"target"`
	Duration   float64         `yaml:"duration"`
	Delay      float64         `yaml:"delay,omitempty"`
	Transition *TransitionSpec `yaml:"transition,omitempty"`
}

// LoadDocument parses a YAML motion document and checks that everything in
// it resolves.
func LoadDocument(data []byte) (*Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse motion document: %w", err)
	}
	for name, cfg := range doc.Springs {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("parse motion document: spring %q: %w", name, err)
		}
	}
	for i := range doc.Elements {
		if _, err := doc.ElementConfig(i); err != nil {
			return nil, fmt.Errorf("parse motion document: element %d: %w", i, err)
		}
	}
	if _, err := doc.Sequences(); err != nil {
		return nil, fmt.Errorf("parse motion document: %w", err)
	}
	return &doc, nil
}

// ReadDocument reads and parses a YAML motion document file.
func ReadDocument(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadDocument(data)
}

// WriteDocument writes a motion document to a YAML file.
func WriteDocument(path string, doc *Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Transition resolves a written transition. A nil spec gives
// DefaultTransition. Use names a document transition whose fields are
// overridden by any set on spec.
func (d *Document) Transition(spec *TransitionSpec) (Transition, error) {
	if spec == nil {
		return DefaultTransition(), nil
	}
	s := *spec
	if s.Use != "" {
		base, ok := d.Transitions[s.Use]
		if !ok {
			return Transition{}, invalidTransition("unknown transition %q", s.Use)
		}
		if base.Use != "" {
			return Transition{}, invalidTransition("transition %q may not use another", s.Use)
		}
		s = mergeSpec(base, s)
	}
	return s.resolve(d.Springs)
}

func mergeSpec(base, over TransitionSpec) TransitionSpec {
	out := base
	out.Use = ""
	if over.Duration != nil {
		out.Duration = over.Duration
	}
	if over.Delay != 0 {
		out.Delay = over.Delay
	}
	if over.Ease != "" {
		out.Ease = over.Ease
		out.Spring = nil
	}
	if over.Spring != nil {
		out.Spring = over.Spring
	}
	if over.Repeat != "" {
		out.Repeat = over.Repeat
	}
	if over.Stagger != 0 {
		out.Stagger = over.Stagger
		out.StaggerFrom = over.StaggerFrom
	}
	return out
}

// ElementConfig builds the config of the i-th element.
func (d *Document) ElementConfig(i int) (ElementConfig, error) {
	if i < 0 || i >= len(d.Elements) {
		return ElementConfig{}, invalidValue("elements", "index %d out of range", i)
	}
	s := d.Elements[i]
	tr, err := d.Transition(s.Transition)
	if err != nil {
		return ElementConfig{}, err
	}
	cfg := ElementConfig{
		ID:             s.ID,
		Key:            s.Key,
		Bounds:         s.Bounds,
		Initial:        s.Initial,
		Animate:        s.Animate,
		Exit:           s.Exit,
		WhileHover:     s.WhileHover,
		WhileTap:       s.WhileTap,
		WhileDrag:      s.WhileDrag,
		InitialVariant: s.InitialVariant,
		AnimateVariant: s.AnimateVariant,
		Transition:     tr,
		Layout:         s.Layout,
	}
	if s.Gestures != nil {
		g := *s.Gestures
		def := DefaultGestureConfig()
		if g.Sensitivity == 0 {
			g.Sensitivity = def.Sensitivity
		}
		if g.MinDistance == 0 {
			g.MinDistance = def.MinDistance
		}
		if g.MaxTouches == 0 {
			g.MaxTouches = def.MaxTouches
		}
		if g.TimeoutMS == 0 {
			g.TimeoutMS = def.TimeoutMS
		}
		cfg.Gesture = &g
	}
	switch strings.ToLower(s.Mode) {
	case "", "auto":
	case "2d":
		cfg.Mode = Transform2DMode
	case "3d":
		cfg.Mode = Transform3DMode
	default:
		return ElementConfig{}, invalidValue("mode", "unknown transform mode %q", s.Mode)
	}
	if len(s.Variants) > 0 {
		cfg.Variants = make(Variants, len(s.Variants))
		for name, vs := range s.Variants {
			v := Variant{Target: vs.Target}
			if vs.Transition != nil {
				vt, err := d.Transition(vs.Transition)
				if err != nil {
					return ElementConfig{}, err
				}
				v.Transition = &vt
			}
			cfg.Variants[name] = v
		}
	}
	if s.Drag != nil {
		dc := DragConfig{
			Constraints: s.Drag.Constraints,
			Elastic:     s.Drag.Elastic,
			Momentum:    s.Drag.Momentum,
			Friction:    s.Drag.Friction,
		}
		switch strings.ToLower(s.Drag.Axis) {
		case "", "both":
		case "x":
			dc.Axis = DragX
		case "y":
			dc.Axis = DragY
		default:
			return ElementConfig{}, invalidValue("axis", "unknown drag axis %q", s.Drag.Axis)
		}
		cfg.Drag = &dc
	}
	return cfg, cfg.validate()
}

// Sequences builds every timeline in the document.
func (d *Document) Sequences() ([]*TimelineSequence, error) {
	out := make([]*TimelineSequence, 0, len(d.Timelines))
	for _, ts := range d.Timelines {
		seq := NewTimelineSequence(ts.ID)
		seq.Repeat = ts.Repeat
		seq.Reverse = ts.Reverse
		for _, ss := range ts.Steps {
			step := TimelineStep{ID: ss.ID, Target: ss.Target, Duration: ss.Duration, Delay: ss.Delay}
			if ss.Transition != nil {
				tr, err := d.Transition(ss.Transition)
				if err != nil {
					return nil, fmt.Errorf("timeline %q step %q: %w", ts.ID, ss.ID, err)
				}
				step.Transition = &tr
			}
			if err := seq.AddStep(step); err != nil {
				return nil, fmt.Errorf("timeline %q step %q: %w", ts.ID, ss.ID, err)
			}
		}
		out = append(out, seq)
	}
	return out, nil
}

// Apply mounts every element of the document on e and registers its
// timelines with e's timeline manager.
func (d *Document) Apply(e *Engine) ([]*Element, error) {
	seqs, err := d.Sequences()
	if err != nil {
		return nil, err
	}
	els := make([]*Element, 0, len(d.Elements))
	for i := range d.Elements {
		cfg, err := d.ElementConfig(i)
		if err != nil {
			return els, err
		}
		el, err := e.Mount(cfg)
		if err != nil {
			return els, err
		}
		els = append(els, el)
	}
	for _, seq := range seqs {
		e.Timelines().AddSequence(seq)
	}
	return els, nil
}

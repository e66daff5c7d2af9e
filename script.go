package motion

import (
	"encoding/json"
	"fmt"
)

// scriptTouch is one finger in a script step.
type scriptTouch struct {
	ID uint64  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// scriptStep represents a single action in a motion script.
type scriptStep struct {
	Action   string            `json:"action"`
	Element  ElementID         `json:"element,omitempty"`
	Name     string            `json:"name,omitempty"`
	Values   map[string]string `json:"values,omitempty"`
	Duration *float64          `json:"duration,omitempty"`
	Ease     string            `json:"ease,omitempty"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	FromX    float64           `json:"fromX,omitempty"`
	FromY    float64           `json:"fromY,omitempty"`
	ToX      float64           `json:"toX,omitempty"`
	ToY      float64           `json:"toY,omitempty"`
	From     float64           `json:"from,omitempty"`
	To       float64           `json:"to,omitempty"`
	Width    float64           `json:"width,omitempty"`
	Height   float64           `json:"height,omitempty"`
	Frames   int               `json:"frames,omitempty"`
	Touches  []scriptTouch     `json:"touches,omitempty"`
	Keys     []string          `json:"keys,omitempty"`
}

// motionScript is the top-level JSON structure for a motion script.
type motionScript struct {
	Steps []scriptStep `json:"steps"`
}

var scriptActions = map[string]bool{
	"wait": true, "tap": true, "drag": true, "variant": true, "animate": true,
	"touchStart": true, "touchMove": true, "touchEnd": true, "pinch": true,
	"layout": true, "present": true,
}

// ScriptRunner sequences injected input and target changes across ticks
// for automated tests. Attach to an Engine via SetScriptRunner.
type ScriptRunner struct {
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
	errs      []error
}

// LoadScript parses a JSON motion script and returns a ScriptRunner ready
// to be attached to an Engine via SetScriptRunner.
func LoadScript(jsonData []byte) (*ScriptRunner, error) {
	var script motionScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse motion script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse motion script: no steps")
	}
	for i, st := range script.Steps {
		if !scriptActions[st.Action] {
			return nil, fmt.Errorf("parse motion script: step %d: unknown action %q", i, st.Action)
		}
		if st.Ease != "" {
			if _, err := ParseEasing(st.Ease); err != nil {
				return nil, fmt.Errorf("parse motion script: step %d: %w", i, err)
			}
		}
	}
	return &ScriptRunner{steps: script.Steps}, nil
}

// SetScriptRunner attaches a ScriptRunner to the engine. The runner's step
// method is called at the start of every Tick, before input is processed.
func (e *Engine) SetScriptRunner(runner *ScriptRunner) {
	e.runner = runner
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Errors returns the errors reported by steps that could not be applied.
func (r *ScriptRunner) Errors() []error {
	return r.errs
}

// step advances the runner by one tick. Called from Engine.Tick.
func (r *ScriptRunner) step(e *Engine) {
	if r.done {
		return
	}
	// Wait for pending injections to drain before advancing.
	if len(e.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.apply(e, st); err != nil {
		r.errs = append(r.errs, fmt.Errorf("step %d (%s): %w", r.cursor-1, st.Action, err))
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(e.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ScriptRunner) apply(e *Engine, st scriptStep) error {
	switch st.Action {
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	case "tap":
		e.InjectTap(st.X, st.Y)
	case "drag":
		e.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "pinch":
		e.InjectPinch(st.X, st.Y, st.From, st.To, st.Frames)
	case "touchStart", "touchMove", "touchEnd":
		touches := make([]TouchPoint, len(st.Touches))
		for i, t := range st.Touches {
			touches[i] = TouchPoint{ID: t.ID, X: t.X, Y: t.Y, Pressure: 1}
		}
		switch st.Action {
		case "touchStart":
			e.InjectTouchStart(touches...)
		case "touchMove":
			e.InjectTouchMove(touches...)
		default:
			e.InjectTouchEnd(touches...)
		}
	case "variant":
		return e.SetVariant(st.Element, st.Name)
	case "animate":
		target := make(Target, len(st.Values))
		for k, v := range st.Values {
			target[k] = ParseValue(v)
		}
		var tr *Transition
		if st.Duration != nil || st.Ease != "" {
			t := DefaultTransition()
			if st.Duration != nil {
				t.Duration = Secs(*st.Duration)
			}
			if st.Ease != "" {
				t.Ease, _ = ParseEasing(st.Ease)
			}
			tr = &t
		}
		return e.AnimateTo(st.Element, target, tr)
	case "layout":
		return e.UpdateLayout(st.Element, Bounds{X: st.X, Y: st.Y, Width: st.Width, Height: st.Height})
	case "present":
		if e.presence == nil {
			return fmt.Errorf("no presence set")
		}
		return e.presence.Reconcile(st.Keys)
	}
	return nil
}

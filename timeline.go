package motion

import (
	"math"

	"github.com/google/uuid"
)

// TimelineStep declares a target over the window [Delay, Delay+Duration] of
// its sequence's clock. Steps share one time axis; they are not chained.
type TimelineStep struct {
	ID         string
	Target     Target
	Duration   float64
	Delay      float64
	Transition *Transition
}

// transition returns the step's own transition, or a default ease-out run
// over the step's duration.
func (s TimelineStep) transition() Transition {
	if s.Transition != nil {
		return *s.Transition
	}
	return Tween(s.Duration, Ease(EaseOut))
}

// TimelineSequence is an ordered list of steps. Its total duration is the
// latest step end and is kept current on every add and remove.
type TimelineSequence struct {
	ID      string
	Repeat  bool
	Reverse bool

	steps []TimelineStep
	total float64
}

// NewTimelineSequence returns an empty sequence.
func NewTimelineSequence(id string) *TimelineSequence {
	return &TimelineSequence{ID: id}
}

// AddStep appends a step. Negative or non-finite timing and empty property
// names are rejected.
func (s *TimelineSequence) AddStep(step TimelineStep) error {
	if !isFinite(step.Duration) || step.Duration < 0 {
		return invalidValue(step.ID, "step duration must be a finite non-negative number, got %v", step.Duration)
	}
	if !isFinite(step.Delay) || step.Delay < 0 {
		return invalidValue(step.ID, "step delay must be a finite non-negative number, got %v", step.Delay)
	}
	if err := step.Target.Validate(); err != nil {
		return err
	}
	if step.Transition != nil {
		if err := step.Transition.Validate(); err != nil {
			return err
		}
	}
	s.steps = append(s.steps, step)
	s.recompute()
	return nil
}

// RemoveStep deletes the first step with the given id.
func (s *TimelineSequence) RemoveStep(id string) bool {
	for i := range s.steps {
		if s.steps[i].ID == id {
			copy(s.steps[i:], s.steps[i+1:])
			s.steps[len(s.steps)-1] = TimelineStep{}
			s.steps = s.steps[:len(s.steps)-1]
			s.recompute()
			return true
		}
	}
	return false
}

// Clear removes every step.
func (s *TimelineSequence) Clear() {
	s.steps = s.steps[:0]
	s.total = 0
}

// Step returns the step with the given id.
func (s *TimelineSequence) Step(id string) (TimelineStep, bool) {
	for _, st := range s.steps {
		if st.ID == id {
			return st, true
		}
	}
	return TimelineStep{}, false
}

// Steps returns a copy of the steps in order.
func (s *TimelineSequence) Steps() []TimelineStep {
	return append([]TimelineStep(nil), s.steps...)
}

// Len returns the number of steps.
func (s *TimelineSequence) Len() int { return len(s.steps) }

// TotalDuration returns the latest Delay+Duration over all steps.
func (s *TimelineSequence) TotalDuration() float64 { return s.total }

func (s *TimelineSequence) recompute() {
	s.total = 0
	for _, st := range s.steps {
		s.total = math.Max(s.total, st.Delay+st.Duration)
	}
}

// activeStep returns the index of the last step whose window contains t,
// or -1.
func (s *TimelineSequence) activeStep(t float64) int {
	idx := -1
	for i, st := range s.steps {
		if t >= st.Delay && t <= st.Delay+st.Duration {
			idx = i
		}
	}
	return idx
}

// PlayerState is the transport state of a TimelinePlayer.
type PlayerState uint8

const (
	PlayerStopped PlayerState = iota
	PlayerPlaying
	PlayerPaused
)

// TimelinePlayer walks a sequence's clock. Several players may share one
// sequence; each owns its own cursor.
type TimelinePlayer struct {
	seq       *TimelineSequence
	step      int
	time      float64
	state     PlayerState
	reversed  bool
	loopCount int

	// OnComplete fires once when a non-repeating sequence reaches its end.
	OnComplete func()
	// OnStepChange fires when a different step becomes active.
	OnStepChange func(step TimelineStep, index int)
}

// NewTimelinePlayer returns a stopped player at time zero.
func NewTimelinePlayer(seq *TimelineSequence) *TimelinePlayer {
	p := &TimelinePlayer{seq: seq, step: -1}
	p.updateStep()
	return p
}

// Play starts playback. A player that stopped at the end restarts from
// zero.
func (p *TimelinePlayer) Play() {
	if p.state == PlayerStopped && p.time >= p.seq.TotalDuration() && p.time > 0 {
		p.time = 0
		p.updateStep()
	}
	p.state = PlayerPlaying
}

// Pause suspends a playing player.
func (p *TimelinePlayer) Pause() {
	if p.state == PlayerPlaying {
		p.state = PlayerPaused
	}
}

// Resume continues a paused player.
func (p *TimelinePlayer) Resume() {
	if p.state == PlayerPaused {
		p.state = PlayerPlaying
	}
}

// Stop halts playback and rewinds to zero.
func (p *TimelinePlayer) Stop() {
	p.state = PlayerStopped
	p.time = 0
	p.loopCount = 0
	p.reversed = false
	p.updateStep()
}

// Update advances the clock by dt seconds while playing and reports whether
// the player completed during this call. Reaching the end of a repeating
// sequence rewinds to zero, counts a loop and, with Reverse set, flips
// direction.
func (p *TimelinePlayer) Update(dt float64) bool {
	if p.state != PlayerPlaying {
		return false
	}
	if !(dt >= 0) || math.IsInf(dt, 1) {
		dt = 0
	}
	total := p.seq.TotalDuration()
	t := p.time + dt
	if t >= total {
		if !p.seq.Repeat {
			p.time = total
			p.updateStep()
			p.state = PlayerStopped
			if p.OnComplete != nil {
				p.OnComplete()
			}
			return true
		}
		p.loopCount++
		p.time = 0
		if p.seq.Reverse {
			p.reversed = !p.reversed
		}
		p.updateStep()
		return false
	}
	p.time = t
	p.updateStep()
	return false
}

// Seek moves the clock to t, clamped to the sequence, and recomputes the
// active step. It does not change the transport state.
func (p *TimelinePlayer) Seek(t float64) {
	if math.IsNaN(t) {
		return
	}
	p.time = math.Min(math.Max(t, 0), p.seq.TotalDuration())
	p.updateStep()
}

// effectiveTime maps the clock onto the sequence axis, mirrored when
// playing in reverse.
func (p *TimelinePlayer) effectiveTime() float64 {
	if p.reversed {
		return p.seq.TotalDuration() - p.time
	}
	return p.time
}

func (p *TimelinePlayer) updateStep() {
	idx := p.seq.activeStep(p.effectiveTime())
	if idx == p.step {
		return
	}
	p.step = idx
	if idx >= 0 && p.OnStepChange != nil {
		p.OnStepChange(p.seq.steps[idx], idx)
	}
}

// CurrentStep returns the active step.
func (p *TimelinePlayer) CurrentStep() (TimelineStep, bool) {
	if p.step < 0 || p.step >= len(p.seq.steps) {
		return TimelineStep{}, false
	}
	return p.seq.steps[p.step], true
}

// CurrentStepIndex returns the active step's index or -1.
func (p *TimelinePlayer) CurrentStepIndex() int { return p.step }

// CurrentTime returns the clock in seconds.
func (p *TimelinePlayer) CurrentTime() float64 { return p.time }

// Progress returns the clock as a fraction of the sequence, mirrored when
// playing in reverse. An empty sequence reports 1.
func (p *TimelinePlayer) Progress() float64 {
	total := p.seq.TotalDuration()
	if total <= 0 {
		return 1
	}
	pr := math.Min(math.Max(p.time/total, 0), 1)
	if p.reversed {
		return 1 - pr
	}
	return pr
}

// State returns the transport state.
func (p *TimelinePlayer) State() PlayerState { return p.state }

// IsPlaying reports whether the clock is running.
func (p *TimelinePlayer) IsPlaying() bool { return p.state == PlayerPlaying }

// IsPaused reports whether the player is paused.
func (p *TimelinePlayer) IsPaused() bool { return p.state == PlayerPaused }

// IsReversed reports whether the current loop runs backwards.
func (p *TimelinePlayer) IsReversed() bool { return p.reversed }

// LoopCount returns the number of completed loops of a repeating sequence.
func (p *TimelinePlayer) LoopCount() int { return p.loopCount }

// Sequence returns the sequence being played.
func (p *TimelinePlayer) Sequence() *TimelineSequence { return p.seq }

// --- Manager ---

// TimelineManager owns sequences and the players created from them.
type TimelineManager struct {
	sequences map[string]*TimelineSequence
	players   map[string]*TimelinePlayer
	order     []string
}

// NewTimelineManager returns an empty manager.
func NewTimelineManager() *TimelineManager {
	return &TimelineManager{
		sequences: make(map[string]*TimelineSequence),
		players:   make(map[string]*TimelinePlayer),
	}
}

// AddSequence registers seq under its ID, replacing any previous one.
func (m *TimelineManager) AddSequence(seq *TimelineSequence) {
	m.sequences[seq.ID] = seq
}

// Sequence returns the sequence registered under id.
func (m *TimelineManager) Sequence(id string) (*TimelineSequence, bool) {
	s, ok := m.sequences[id]
	return s, ok
}

// RemoveSequence unregisters a sequence. Players already created from it
// keep their reference.
func (m *TimelineManager) RemoveSequence(id string) bool {
	if _, ok := m.sequences[id]; !ok {
		return false
	}
	delete(m.sequences, id)
	return true
}

// CreatePlayer makes a new player for the sequence seqID and returns its
// generated id.
func (m *TimelineManager) CreatePlayer(seqID string) (string, *TimelinePlayer, bool) {
	seq, ok := m.sequences[seqID]
	if !ok {
		return "", nil, false
	}
	id := uuid.NewString()
	p := NewTimelinePlayer(seq)
	m.players[id] = p
	m.order = append(m.order, id)
	return id, p, true
}

// Player returns the player with the given id.
func (m *TimelineManager) Player(id string) (*TimelinePlayer, bool) {
	p, ok := m.players[id]
	return p, ok
}

// RemovePlayer releases a player.
func (m *TimelineManager) RemovePlayer(id string) bool {
	if _, ok := m.players[id]; !ok {
		return false
	}
	delete(m.players, id)
	for i, pid := range m.order {
		if pid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// PlayerIDs returns player ids in creation order.
func (m *TimelineManager) PlayerIDs() []string {
	return append([]string(nil), m.order...)
}

// UpdateAll advances every player and returns the ids of those that
// completed during this call, in creation order.
func (m *TimelineManager) UpdateAll(dt float64) []string {
	var done []string
	for _, id := range m.order {
		if m.players[id].Update(dt) {
			done = append(done, id)
		}
	}
	return done
}

// Clear drops every sequence and player.
func (m *TimelineManager) Clear() {
	clear(m.sequences)
	clear(m.players)
	m.order = m.order[:0]
}

// --- Presets ---

// FadeInSequence fades opacity to 1 over duration.
func FadeInSequence(id string, duration float64) *TimelineSequence {
	s := NewTimelineSequence(id)
	_ = s.AddStep(TimelineStep{ID: "fade-in", Target: Target{"opacity": Number(1)}, Duration: duration})
	return s
}

// ScaleSequence grows from `from` to `to`, each half of duration.
func ScaleSequence(id string, from, to, duration float64) *TimelineSequence {
	s := NewTimelineSequence(id)
	_ = s.AddStep(TimelineStep{ID: "scale-from", Target: Target{"scale": Number(from)}, Duration: duration / 2})
	_ = s.AddStep(TimelineStep{ID: "scale-to", Target: Target{"scale": Number(to)}, Delay: duration / 2, Duration: duration / 2})
	return s
}

// BounceSequence lifts the element by height and drops it back, repeating.
func BounceSequence(id string, height, duration float64) *TimelineSequence {
	s := NewTimelineSequence(id)
	s.Repeat = true
	_ = s.AddStep(TimelineStep{ID: "up", Target: Target{"y": Pixels(-height)}, Duration: duration / 2})
	_ = s.AddStep(TimelineStep{ID: "down", Target: Target{"y": Pixels(0)}, Delay: duration / 2, Duration: duration / 2})
	return s
}

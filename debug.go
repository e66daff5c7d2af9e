package motion

import (
	"fmt"
	"os"
	"time"
)

// debugStats holds per-tick timing and element metrics.
// Timings are only populated when Engine.debug is true.
type debugStats struct {
	inputTime     time.Duration
	stepTime      time.Duration
	writeTime     time.Duration
	elements      int
	animating     int
	animators     int
	frames        int
	events        int
	gestureFaults int
}

// debugLog prints timing and element stats to stderr.
func (e *Engine) debugLog() {
	if !e.debug {
		return
	}
	s := e.stats
	total := s.inputTime + s.stepTime + s.writeTime
	_, _ = fmt.Fprintf(os.Stderr,
		"[motion] tick %d | input: %v | step: %v | write: %v | total: %v\n",
		e.frame, s.inputTime, s.stepTime, s.writeTime, total)
	_, _ = fmt.Fprintf(os.Stderr,
		"[motion] elements: %d | animating: %d | animators: %d | frames: %d | events: %d\n",
		s.elements, s.animating, s.animators, s.frames, s.events)
}

// warn prints a warning to stderr in debug mode.
func (e *Engine) warn(format string, args ...any) {
	if !e.debug {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "[motion] warning: "+format+"\n", args...)
}

// debugCheckElementCount warns on stderr if more elements are mounted than
// the threshold.
const debugMaxElements = 1000

func debugCheckElementCount(n int) {
	if n > debugMaxElements {
		_, _ = fmt.Fprintf(os.Stderr, "[motion] warning: %d elements mounted (threshold %d)\n",
			n, debugMaxElements)
	}
}

// Stats is a snapshot of the most recent tick's counters.
type Stats struct {
	Frame         uint64
	Elements      int
	Frames        int
	Events        int
	GestureFaults int
}

// Stats returns counters for the most recent tick.
func (e *Engine) Stats() Stats {
	return Stats{
		Frame:         e.frame,
		Elements:      len(e.order),
		Frames:        e.stats.frames,
		Events:        e.stats.events,
		GestureFaults: e.stats.gestureFaults,
	}
}

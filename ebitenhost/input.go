package ebitenhost

import (
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/phanxgames/motion"
)

// mouseTracker turns polled cursor state into pointer events. Only the
// left button is tracked.
type mouseTracker struct {
	x, y float64
	down bool
	seen bool
}

// update returns the events implied by the new cursor state: a move when
// the position changed, then a press or release when the button changed.
func (m *mouseTracker) update(x, y float64, down bool, timeMS float64) []motion.PointerEvent {
	var out []motion.PointerEvent
	if !m.seen || x != m.x || y != m.y {
		out = append(out, motion.PointerEvent{Phase: motion.PointerMove, X: x, Y: y, TimeMS: timeMS})
	}
	switch {
	case down && !m.down:
		out = append(out, motion.PointerEvent{Phase: motion.PointerPress, X: x, Y: y, TimeMS: timeMS})
	case !down && m.down:
		out = append(out, motion.PointerEvent{Phase: motion.PointerRelease, X: x, Y: y, TimeMS: timeMS})
	}
	m.x, m.y, m.down, m.seen = x, y, down, true
	return out
}

// touchTracker maps Ebitengine touch ids to stable finger ids and diffs
// successive polls into start, move and end events.
type touchTracker struct {
	fingers map[ebiten.TouchID]uint64
	last    map[ebiten.TouchID]motion.TouchPoint
	next    uint64
}

func newTouchTracker() touchTracker {
	return touchTracker{
		fingers: make(map[ebiten.TouchID]uint64),
		last:    make(map[ebiten.TouchID]motion.TouchPoint),
	}
}

// update diffs the active ids against the previous poll. Lifted fingers
// end at their last known position.
func (t *touchTracker) update(ids []ebiten.TouchID, pos func(ebiten.TouchID) (int, int), timeMS float64) []motion.TouchEvent {
	active := make(map[ebiten.TouchID]bool, len(ids))
	var started, moved, ended []motion.TouchPoint
	for _, tid := range ids {
		active[tid] = true
		x, y := pos(tid)
		fid, known := t.fingers[tid]
		if !known {
			t.next++
			fid = t.next
			t.fingers[tid] = fid
		}
		p := motion.TouchPoint{ID: fid, X: float64(x), Y: float64(y), Pressure: 1, Timestamp: timeMS}
		prev, had := t.last[tid]
		t.last[tid] = p
		switch {
		case !known:
			started = append(started, p)
		case !had || prev.X != p.X || prev.Y != p.Y:
			moved = append(moved, p)
		}
	}
	for tid, fid := range t.fingers {
		if active[tid] {
			continue
		}
		p := t.last[tid]
		p.ID, p.Timestamp = fid, timeMS
		ended = append(ended, p)
		delete(t.fingers, tid)
		delete(t.last, tid)
	}

	sort.Slice(ended, func(i, j int) bool { return ended[i].ID < ended[j].ID })

	var out []motion.TouchEvent
	if len(ended) > 0 {
		out = append(out, motion.TouchEvent{Phase: motion.TouchEnd, Touches: ended})
	}
	if len(moved) > 0 {
		out = append(out, motion.TouchEvent{Phase: motion.TouchMove, Touches: moved})
	}
	if len(started) > 0 {
		out = append(out, motion.TouchEvent{Phase: motion.TouchStart, Touches: started})
	}
	return out
}

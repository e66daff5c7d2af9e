package motion

import "sort"

// PresenceMode controls how entering and exiting children overlap.
type PresenceMode uint8

const (
	// PresenceSync runs enters and exits at the same time.
	PresenceSync PresenceMode = iota
	// PresenceWait holds new children back until every exit has finished.
	PresenceWait
	// PresenceImmediate skips exit animations; removed children become safe
	// to unmount on the next Update.
	PresenceImmediate
)

// PresenceChild is one tracked child.
type PresenceChild struct {
	Key     string
	Element ElementID
	Exiting bool

	exitDone func() bool
	reenter  bool
	reported bool
}

// Presence tracks a keyed set of children and defers their removal until
// their exit animation finishes. Enter and Exit are supplied by the owner
// (normally an Engine) and do the actual mounting and animating.
type Presence struct {
	Mode PresenceMode

	// Enter mounts the child for key and starts its enter run.
	Enter func(key string) (ElementID, error)
	// Exit starts the exit run of a child and returns a func reporting
	// whether it finished.
	Exit func(key string, id ElementID) func() bool
	// OnSafeToUnmount fires exactly once per exit, after it finished.
	OnSafeToUnmount func(key string, id ElementID)

	children map[string]*PresenceChild
	order    []string
	pending  []string
}

// NewPresence returns an empty presence set.
func NewPresence(mode PresenceMode) *Presence {
	return &Presence{Mode: mode, children: make(map[string]*PresenceChild)}
}

// Reconcile makes keys the desired set of children. New keys enter, missing
// keys start exiting, and a key re-added while exiting keeps exiting and
// enters again after it is safe to unmount.
func (p *Presence) Reconcile(keys []string) error {
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" {
			return invalidValue("key", "presence keys must not be empty")
		}
		want[k] = true
	}

	for _, k := range p.order {
		c := p.children[k]
		if c.Exiting {
			c.reenter = want[k]
			continue
		}
		if !want[k] {
			p.startExit(c)
		}
	}

	for _, k := range keys {
		if _, ok := p.children[k]; ok {
			continue
		}
		if p.Mode == PresenceWait && p.exiting() {
			p.queue(k)
			continue
		}
		if err := p.enter(k); err != nil {
			return err
		}
	}
	p.dropStalePending(want)
	return nil
}

// Update reports finished exits through OnSafeToUnmount and runs any enter
// that was waiting on them. Call it once per tick after callbacks.
func (p *Presence) Update() error {
	var done []*PresenceChild
	for _, k := range p.order {
		c := p.children[k]
		if c.Exiting && !c.reported && (c.exitDone == nil || c.exitDone()) {
			done = append(done, c)
		}
	}
	for _, c := range done {
		c.reported = true
		p.remove(c.Key)
		if p.OnSafeToUnmount != nil {
			p.OnSafeToUnmount(c.Key, c.Element)
		}
		if c.reenter {
			if p.Mode == PresenceWait && p.exiting() {
				p.queue(c.Key)
			} else if err := p.enter(c.Key); err != nil {
				return err
			}
		}
	}
	if len(p.pending) > 0 && !p.exiting() {
		pending := p.pending
		p.pending = nil
		for _, k := range pending {
			if _, ok := p.children[k]; ok {
				continue
			}
			if err := p.enter(k); err != nil {
				return err
			}
		}
	}
	return nil
}

// Remove starts the exit of a single child.
func (p *Presence) Remove(key string) bool {
	c, ok := p.children[key]
	if !ok || c.Exiting {
		return false
	}
	p.startExit(c)
	return true
}

func (p *Presence) enter(key string) error {
	var id ElementID
	if p.Enter != nil {
		var err error
		if id, err = p.Enter(key); err != nil {
			return err
		}
	}
	p.children[key] = &PresenceChild{Key: key, Element: id}
	p.order = append(p.order, key)
	return nil
}

func (p *Presence) startExit(c *PresenceChild) {
	c.Exiting = true
	if p.Mode == PresenceImmediate {
		return
	}
	if p.Exit != nil {
		c.exitDone = p.Exit(c.Key, c.Element)
	}
}

func (p *Presence) remove(key string) {
	delete(p.children, key)
	for i, k := range p.order {
		if k == key {
			p.order = append(p.order[:i], p.order[i+1:]...)
			return
		}
	}
}

func (p *Presence) queue(key string) {
	for _, k := range p.pending {
		if k == key {
			return
		}
	}
	p.pending = append(p.pending, key)
}

func (p *Presence) dropStalePending(want map[string]bool) {
	kept := p.pending[:0]
	for _, k := range p.pending {
		if want[k] {
			kept = append(kept, k)
		}
	}
	p.pending = kept
}

func (p *Presence) exiting() bool {
	for _, c := range p.children {
		if c.Exiting {
			return true
		}
	}
	return false
}

// Child returns the tracked child for key.
func (p *Presence) Child(key string) (PresenceChild, bool) {
	c, ok := p.children[key]
	if !ok {
		return PresenceChild{}, false
	}
	return *c, true
}

// Keys returns every tracked key, including exiting ones, in entry order.
func (p *Presence) Keys() []string {
	return append([]string(nil), p.order...)
}

// Exiting returns the keys that are exiting, sorted.
func (p *Presence) Exiting() []string {
	var out []string
	for k, c := range p.children {
		if c.Exiting {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// Pending returns keys waiting for exits to finish before entering.
func (p *Presence) Pending() []string {
	return append([]string(nil), p.pending...)
}

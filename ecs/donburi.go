package ecs

import (
	"github.com/phanxgames/motion"

	"github.com/yohamta/donburi"
	"github.com/yohamta/donburi/features/events"
	"github.com/yohamta/donburi/filter"
)

// EventType is the Donburi event type for motion engine events.
// Subscribe to this in your ECS systems to receive gesture, drag and
// completion events.
var EventType = events.NewEventType[motion.Event]()

// ElementData links an entity to a mounted element.
type ElementData struct {
	ID motion.ElementID
}

// Element marks entities driven by a motion element.
var Element = donburi.NewComponentType[ElementData]()

// Frame holds the latest write-back for an entity's element.
var Frame = donburi.NewComponentType[motion.Frame]()

type donburiStore struct {
	world donburi.World
}

// NewDonburiStore creates an EventSink backed by a Donburi world.
// Events are published to EventType and can be consumed with
// events.Subscribe and ProcessEvents.
func NewDonburiStore(world donburi.World) motion.EventSink {
	return &donburiStore{world: world}
}

func (s *donburiStore) EmitEvent(event motion.Event) {
	EventType.Publish(s.world, event)
}

// Spawn creates an entity bound to the element id with an empty Frame.
func Spawn(world donburi.World, id motion.ElementID) donburi.Entity {
	ent := world.Create(Element, Frame)
	entry := world.Entry(ent)
	Element.SetValue(entry, ElementData{ID: id})
	Frame.SetValue(entry, motion.Frame{Element: id})
	return ent
}

// FrameWriter is a motion.StyleWriter that copies frames onto entities.
type FrameWriter struct {
	world donburi.World
	query *donburi.Query
	index map[motion.ElementID]donburi.Entity
}

// NewFrameWriter returns a writer for entities created with Spawn.
func NewFrameWriter(world donburi.World) *FrameWriter {
	return &FrameWriter{
		world: world,
		query: donburi.NewQuery(filter.Contains(Element, Frame)),
		index: make(map[motion.ElementID]donburi.Entity),
	}
}

// WriteFrame stores f on the entity bound to f.Element. Frames for
// elements with no entity are dropped.
func (w *FrameWriter) WriteFrame(f motion.Frame) {
	entry, ok := w.lookup(f.Element)
	if !ok {
		return
	}
	Frame.SetValue(entry, f)
}

func (w *FrameWriter) lookup(id motion.ElementID) (*donburi.Entry, bool) {
	if ent, ok := w.index[id]; ok && w.world.Valid(ent) {
		entry := w.world.Entry(ent)
		if Element.Get(entry).ID == id {
			return entry, true
		}
	}
	delete(w.index, id)
	var found *donburi.Entry
	w.query.Each(w.world, func(entry *donburi.Entry) {
		if found == nil && Element.Get(entry).ID == id {
			found = entry
		}
	})
	if found == nil {
		return nil, false
	}
	w.index[id] = found.Entity()
	return found, true
}
